package writer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/lamim/storyforge/pkg/models"
)

// TranscriptWriter appends one JSON line per story result. The transcript is
// an export for people and other tools; storyforge never reads it back.
type TranscriptWriter struct {
	file   *os.File
	mu     sync.Mutex
	logger *slog.Logger
	count  int
}

// NewTranscriptWriter creates the session's transcript file
func NewTranscriptWriter(sessionMgr *SessionManager, logger *slog.Logger) (*TranscriptWriter, error) {
	path := sessionMgr.GetTranscriptPath()

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript file: %w", err)
	}

	logger.Info("Created transcript file", "path", path)

	return &TranscriptWriter{
		file:   file,
		logger: logger,
	}, nil
}

// WriteResult writes a single story result
func (tw *TranscriptWriter) WriteResult(result models.StoryResult) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if _, err := tw.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	tw.count++
	return nil
}

// Close closes the transcript file
func (tw *TranscriptWriter) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if err := tw.file.Sync(); err != nil {
		tw.logger.Warn("Failed to sync transcript file", "error", err)
	}

	if err := tw.file.Close(); err != nil {
		return fmt.Errorf("failed to close transcript file: %w", err)
	}

	tw.logger.Info("Closed transcript file", "records", tw.count)
	return nil
}

// WriteSummary writes the session statistics as indented JSON
func WriteSummary(sessionMgr *SessionManager, stats *models.SessionStats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(sessionMgr.GetSummaryPath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
