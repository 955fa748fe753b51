package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lamim/storyforge/internal/catalog"
)

func newCatalogCmd() *cobra.Command {
	var arc string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show story categories, arcs and age guidelines",
		Long: `Print the static tables the prompts are built from: every story category
with its keywords and storyteller focus, the story arc guidance, and the
age-appropriateness guidelines. No model is called.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCatalog(cmd.OutOrStdout(), arc)
		},
	}

	cmd.Flags().StringVar(&arc, "arc", "", "Only show this story arc (three_act or five_part)")

	return cmd
}

func printCatalog(w io.Writer, arc string) error {
	kinds := catalog.ArcKinds()
	if arc != "" {
		if _, err := catalog.Arc(arc); err != nil {
			return err
		}
		kinds = []string{arc}
	}

	fmt.Fprintln(w, "CATEGORIES:")
	for _, info := range catalog.Default().Categories() {
		fmt.Fprintf(w, "\n%s - %s\n", info.Name, info.Description)
		if len(info.Keywords) > 0 {
			fmt.Fprintf(w, "  Keywords: %s\n", strings.Join(info.Keywords, ", "))
		}
		fmt.Fprintf(w, "  Focus: %s\n", info.Focus)
	}

	for _, kind := range kinds {
		guidance, err := catalog.FormatArcGuidance(kind)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\nARC %s:\n%s\n", kind, guidance)
	}

	fmt.Fprintf(w, "\n%s\n", catalog.AgeGuidelines())
	return nil
}
