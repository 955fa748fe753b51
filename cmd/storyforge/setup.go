package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lamim/storyforge/internal/catalog"
	"github.com/lamim/storyforge/internal/config"
	"github.com/lamim/storyforge/internal/writer"
	"github.com/lamim/storyforge/pkg/models"
)

// pipelineFlags are the config overrides shared by tell and batch
type pipelineFlags struct {
	category      string
	arc           string
	noArc         bool
	threshold     float64
	maxIterations int
	noRefine      bool
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.category, "category", "", "Skip categorization and use this category")
	cmd.Flags().StringVar(&f.arc, "arc", "", "Story arc (three_act or five_part)")
	cmd.Flags().BoolVar(&f.noArc, "no-arc", false, "Do not add story arc guidance to the prompt")
	cmd.Flags().Float64Var(&f.threshold, "threshold", 0, "Minimum acceptable judge score (0-10)")
	cmd.Flags().IntVar(&f.maxIterations, "max-iterations", 0, "Maximum number of judge evaluations per story")
	cmd.Flags().BoolVar(&f.noRefine, "no-refine", false, "Return the first draft without judging it")
}

// apply copies explicitly set flags onto cfg and revalidates it
func (f *pipelineFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("arc") {
		cfg.Story.Arc = f.arc
	}
	if f.noArc {
		cfg.Story.DisableArc = true
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Refinement.Threshold = f.threshold
	}
	if cmd.Flags().Changed("max-iterations") {
		cfg.Refinement.MaxIterations = f.maxIterations
	}
	if f.noRefine {
		cfg.Refinement.Disabled = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// categoryOverride resolves --category against the catalog
func (f *pipelineFlags) categoryOverride() (models.Category, error) {
	if f.category == "" {
		return "", nil
	}
	info, ok := catalog.Default().Lookup(models.Category(f.category))
	if !ok {
		return "", fmt.Errorf("unknown category %q", f.category)
	}
	return info.Name, nil
}

func logLevel() slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// loadEnvironment reads the env file (a missing file is fine) and the configuration
func loadEnvironment() (*config.Config, *config.Secrets, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "Warning: failed to load env file: %v\n", err)
			}
		} else if verbose {
			fmt.Fprintf(os.Stderr, "Loaded env file: %s\n", envFile)
		}
	}

	cfg, secrets, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if verbose {
		for provider, key := range secrets.APIKeys {
			fmt.Fprintf(os.Stderr, "Loaded API key for: %s (length: %d)\n", provider, len(key))
		}
	}

	return cfg, secrets, nil
}

// session bundles the per-run output directory, logger and transcript
type session struct {
	mgr        *writer.SessionManager
	logger     *slog.Logger
	logFile    *os.File
	transcript *writer.TranscriptWriter
}

// openSession creates a session directory with a file logger and transcript.
// Console logs go to stderr so stdout carries only the story.
func openSession(cfg *config.Config) (*session, error) {
	bootstrap := writer.NewConsoleLogger(os.Stderr, logLevel())

	mgr, err := writer.NewSessionManager(cfg.Output.Dir, bootstrap)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	logger, logFile, err := writer.SetupLogger(mgr, os.Stderr, logLevel())
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	logger = logger.With("session_id", mgr.ID())

	if configPath != "" {
		if err := mgr.BackupConfig(configPath); err != nil {
			_ = logFile.Close()
			return nil, fmt.Errorf("failed to backup config: %w", err)
		}
	}

	transcript, err := writer.NewTranscriptWriter(mgr, logger)
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("failed to create transcript writer: %w", err)
	}

	return &session{
		mgr:        mgr,
		logger:     logger,
		logFile:    logFile,
		transcript: transcript,
	}, nil
}

func (s *session) Close() {
	if err := s.transcript.Close(); err != nil {
		s.logger.Error("failed to close transcript", "error", err)
	}
	_ = s.logFile.Sync()
	_ = s.logFile.Close()
}
