package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	configPath string
	envFile    string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "storyforge",
		Short: "StoryForge - Bedtime stories with an LLM judge in the loop",
		Long: `StoryForge writes bedtime stories for children ages 5-10.

A categorizer picks the kind of story, a storyteller writes a first draft,
and a judge scores it on five dimensions. Drafts that fall short of the
threshold are rewritten from the judge's feedback until they pass or the
iteration cap is reached.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file (built-in defaults when empty)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to environment file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(newTellCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newJudgeCmd())
	rootCmd.AddCommand(newCatalogCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
