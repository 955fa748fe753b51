package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lamim/storyforge/internal/api"
	"github.com/lamim/storyforge/internal/metrics"
	"github.com/lamim/storyforge/internal/orchestrator"
	"github.com/lamim/storyforge/internal/writer"
	"github.com/lamim/storyforge/pkg/models"
)

func newBatchCmd() *cobra.Command {
	var (
		flags       pipelineFlags
		concurrency int
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "batch <requests-file>",
		Short: "Write a story for every request in a file",
		Long: `Write a story for every line of a requests file. Blank lines and lines
starting with # are skipped. Results are written to stories.jsonl in a new
session directory; failed requests are recorded there and do not stop the batch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, &flags, concurrency, metricsAddr, args[0])
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Number of stories written in parallel (defaults to generation.concurrency)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running (e.g. :9090)")

	return cmd
}

// parseRequests reads one request per line, skipping blanks and # comments
func parseRequests(r io.Reader, category models.Category) ([]models.StoryRequest, error) {
	var reqs []models.StoryRequest
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		reqs = append(reqs, models.StoryRequest{
			ID:       fmt.Sprintf("req-%04d", len(reqs)+1),
			Text:     line,
			Category: category,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read requests: %w", err)
	}
	return reqs, nil
}

func runBatch(cmd *cobra.Command, flags *pipelineFlags, concurrency int, metricsAddr, requestsPath string) error {
	cfg, secrets, err := loadEnvironment()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Generation.Concurrency = concurrency
	}
	if err := flags.apply(cmd, cfg); err != nil {
		return err
	}
	category, err := flags.categoryOverride()
	if err != nil {
		return err
	}

	file, err := os.Open(requestsPath)
	if err != nil {
		return fmt.Errorf("failed to open requests file: %w", err)
	}
	reqs, err := parseRequests(file, category)
	_ = file.Close()
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		return fmt.Errorf("no requests found in %s", requestsPath)
	}

	sess, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()
	logger := sess.logger

	logger.Info("StoryForge batch starting",
		"version", Version,
		"requests", len(reqs),
		"session_dir", sess.mgr.GetSessionDir())

	if metricsAddr != "" {
		server := metrics.NewServer(metricsAddr, logger)
		server.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Failed to stop metrics server", "error", err)
			}
		}()
	}

	collector := metrics.NewCollector(logger)
	client := api.NewClient(logger, collector)

	orch, err := orchestrator.NewFromConfig(client, cfg, secrets, sess.transcript, true, logger, collector)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch.RunBatch(ctx, reqs)

	stats := orch.GetStats()
	if err := writer.WriteSummary(sess.mgr, stats); err != nil {
		logger.Error("failed to write summary", "error", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d stories written (%d revised), transcript: %s\n",
		stats.SuccessCount, stats.TotalRequests, stats.RefinedCount, sess.mgr.GetTranscriptPath())

	if ctx.Err() != nil {
		return fmt.Errorf("batch interrupted: %w", ctx.Err())
	}
	if stats.FailureCount > 0 {
		return fmt.Errorf("%d of %d requests failed", stats.FailureCount, stats.TotalRequests)
	}
	return nil
}
