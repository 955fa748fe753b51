package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lamim/storyforge/internal/api"
	"github.com/lamim/storyforge/internal/metrics"
	"github.com/lamim/storyforge/internal/orchestrator"
	"github.com/lamim/storyforge/internal/writer"
	"github.com/lamim/storyforge/pkg/models"
)

func newTellCmd() *cobra.Command {
	var (
		flags pipelineFlags
		save  bool
	)

	cmd := &cobra.Command{
		Use:   "tell [request...]",
		Short: "Write one bedtime story",
		Long: `Write one bedtime story from a free-text request.

The request is taken from the arguments, or from stdin when none are given.
The story is printed to stdout together with the judge's final scores.`,
		Example: `  storyforge tell "a shy turtle who wants to join the school play"
  echo "a dragon who is afraid of the dark" | storyforge tell --arc five_part`,
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := readRequest(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runTell(cmd, &flags, save, request)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "Write a session directory with logs and a JSONL transcript")

	return cmd
}

// readRequest joins args or, when there are none, reads all of in
func readRequest(args []string, in io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read request from stdin: %w", err)
	}
	request := strings.TrimSpace(string(data))
	if request == "" {
		return "", fmt.Errorf("no story request given")
	}
	return request, nil
}

func runTell(cmd *cobra.Command, flags *pipelineFlags, save bool, request string) error {
	cfg, secrets, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := flags.apply(cmd, cfg); err != nil {
		return err
	}
	category, err := flags.categoryOverride()
	if err != nil {
		return err
	}

	logger := writer.NewConsoleLogger(os.Stderr, logLevel())
	var sink orchestrator.ResultSink
	if save || cfg.Output.SaveTranscript {
		sess, err := openSession(cfg)
		if err != nil {
			return err
		}
		defer sess.Close()
		logger = sess.logger
		sink = sess.transcript
	}

	collector := metrics.NewCollector(logger)
	client := api.NewClient(logger, collector)

	orch, err := orchestrator.NewFromConfig(client, cfg, secrets, sink, false, logger, collector)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := orch.Run(ctx, models.StoryRequest{Text: request, Category: category})
	if err != nil {
		return fmt.Errorf("story generation failed: %w", err)
	}

	printResult(cmd.OutOrStdout(), result)
	return nil
}

func printResult(w io.Writer, result *models.StoryResult) {
	fmt.Fprintf(w, "Category: %s\n", result.Category)
	if result.CategoryExplanation != "" {
		fmt.Fprintf(w, "  %s\n", result.CategoryExplanation)
	}
	fmt.Fprintf(w, "\n%s\n", result.FinalStory())

	if result.Outcome == nil {
		return
	}

	fmt.Fprintf(w, "\n---\nJudged %d time(s)", result.Outcome.Iterations)
	if result.Outcome.Improved {
		fmt.Fprint(w, ", revised from the first draft")
	}
	fmt.Fprintln(w)
	printEvaluation(w, result.Outcome.FinalEvaluation)
}
