package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lamim/storyforge/internal/api"
	"github.com/lamim/storyforge/internal/judge"
	"github.com/lamim/storyforge/internal/metrics"
	"github.com/lamim/storyforge/internal/orchestrator"
	"github.com/lamim/storyforge/internal/writer"
	"github.com/lamim/storyforge/pkg/models"
)

func newJudgeCmd() *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "judge <story-file>",
		Short: "Score an existing story",
		Long: `Send an existing story to the judge and print its scores, whether it
would be refined at the threshold, and the instructions the storyteller
would receive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJudge(cmd, args[0], threshold)
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Minimum acceptable score (defaults to refinement.threshold)")

	return cmd
}

func runJudge(cmd *cobra.Command, storyPath string, threshold float64) error {
	story, err := os.ReadFile(storyPath)
	if err != nil {
		return fmt.Errorf("failed to read story file: %w", err)
	}

	cfg, secrets, err := loadEnvironment()
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("threshold") {
		threshold = cfg.Refinement.Threshold
	}
	if threshold < 0 || threshold > 10 {
		return fmt.Errorf("threshold must be between 0 and 10 (got %.2f)", threshold)
	}

	logger := writer.NewConsoleLogger(os.Stderr, logLevel())
	collector := metrics.NewCollector(logger)
	client := api.NewClient(logger, collector)

	j, err := orchestrator.NewJudge(client, cfg, secrets, logger, collector)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ev, err := j.Evaluate(ctx, string(story))
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printEvaluation(w, ev)

	if !judge.ShouldRefine(ev, threshold) {
		fmt.Fprintf(w, "\nDecision: accept (threshold %s)\n", judge.FormatScore(threshold))
		return nil
	}
	fmt.Fprintf(w, "\nDecision: refine (threshold %s)\n\n%s", judge.FormatScore(threshold), judge.BuildInstructions(ev))
	return nil
}

func printEvaluation(w io.Writer, ev *models.Evaluation) {
	if ev == nil {
		return
	}
	for _, dim := range ev.Dimensions {
		if dim.HasScore() {
			fmt.Fprintf(w, "  %s: %s/10\n", dim.Name, judge.FormatScore(*dim.Score))
		} else {
			fmt.Fprintf(w, "  %s: no score\n", dim.Name)
		}
	}
	if ev.HasOverallScore() {
		fmt.Fprintf(w, "  Overall: %s/10\n", judge.FormatScore(ev.OverallScore))
	} else {
		fmt.Fprintln(w, "  Overall: no scores found in the judge's response")
	}
	if ev.OverallAssessment != "" {
		fmt.Fprintf(w, "\n%s\n", ev.OverallAssessment)
	}
}
