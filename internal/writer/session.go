package writer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// SessionManager manages session directories and files
type SessionManager struct {
	id         string
	sessionDir string
	logger     *slog.Logger
}

// NewSessionManager creates a fresh timestamped session directory under outputDir
func NewSessionManager(outputDir string, logger *slog.Logger) (*SessionManager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	// Short random suffix keeps concurrent runs started in the same second apart
	id := uuid.NewString()
	timestamp := time.Now().Format("2006-01-02T15-04-05")
	sessionDir := filepath.Join(outputDir, "session_"+timestamp+"_"+id[:8])

	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	logger.Info("Created new session directory", "path", sessionDir)

	return &SessionManager{
		id:         id,
		sessionDir: sessionDir,
		logger:     logger,
	}, nil
}

// ID returns the session's unique identifier
func (sm *SessionManager) ID() string {
	return sm.id
}

// GetSessionDir returns the session directory path
func (sm *SessionManager) GetSessionDir() string {
	return sm.sessionDir
}

// GetTranscriptPath returns the full path to the story transcript
func (sm *SessionManager) GetTranscriptPath() string {
	return filepath.Join(sm.sessionDir, "stories.jsonl")
}

// GetSummaryPath returns the full path to the session summary
func (sm *SessionManager) GetSummaryPath() string {
	return filepath.Join(sm.sessionDir, "summary.json")
}

// GetLogPath returns the full path to the session log file
func (sm *SessionManager) GetLogPath() string {
	return filepath.Join(sm.sessionDir, "session.log")
}

// GetConfigBackupPath returns the full path to the config backup
func (sm *SessionManager) GetConfigBackupPath() string {
	return filepath.Join(sm.sessionDir, "config.toml.bak")
}

// BackupConfig copies the config file to the session directory
func (sm *SessionManager) BackupConfig(configPath string) error {
	source, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	backupPath := sm.GetConfigBackupPath()
	if err := os.WriteFile(backupPath, source, 0644); err != nil {
		return fmt.Errorf("failed to write config backup: %w", err)
	}

	sm.logger.Info("Backed up config file", "path", backupPath)
	return nil
}
