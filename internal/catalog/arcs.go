package catalog

import (
	"fmt"
	"strings"
)

const (
	ArcThreeAct = "three_act"
	ArcFivePart = "five_part"
)

// ArcSection is one part of a story arc
type ArcSection struct {
	Name        string
	Description string
	Percentage  int
	Elements    []string // Optional guiding questions
}

// StoryArc is an ordered story structure
type StoryArc struct {
	Kind     string
	Sections []ArcSection
}

var arcs = map[string]StoryArc{
	ArcThreeAct: {
		Kind: ArcThreeAct,
		Sections: []ArcSection{
			{
				Name:        "Beginning",
				Description: "Introduce characters and setting. Show the normal world and what the main character wants.",
				Percentage:  25,
				Elements: []string{
					"Who is the main character?",
					"Where does the story take place?",
					"What does the character want or need?",
					"What is their everyday life like?",
				},
			},
			{
				Name:        "Middle",
				Description: "The character faces challenges and tries to solve problems. Things get complicated.",
				Percentage:  50,
				Elements: []string{
					"What problem or challenge does the character face?",
					"How do they try to solve it?",
					"What obstacles get in their way?",
					"What happens when they try different solutions?",
				},
			},
			{
				Name:        "Ending",
				Description: "The problem is solved, and the character learns something or grows.",
				Percentage:  25,
				Elements: []string{
					"How is the problem finally solved?",
					"What did the character learn?",
					"How are things different now?",
					"What is the happy ending or resolution?",
				},
			},
		},
	},
	ArcFivePart: {
		Kind: ArcFivePart,
		Sections: []ArcSection{
			{Name: "Introduction", Description: "Meet the characters and learn about their world", Percentage: 20},
			{Name: "The Problem", Description: "Something happens that creates a challenge", Percentage: 25},
			{Name: "The Big Moment", Description: "The most exciting part where the character faces the biggest challenge", Percentage: 20},
			{Name: "Working It Out", Description: "The character solves the problem", Percentage: 20},
			{Name: "Happy Ending", Description: "Everything is resolved and the character is happy", Percentage: 15},
		},
	},
}

// ArcKinds lists the supported arc identifiers
func ArcKinds() []string {
	return []string{ArcThreeAct, ArcFivePart}
}

// Arc returns the arc template for kind
func Arc(kind string) (StoryArc, error) {
	arc, ok := arcs[kind]
	if !ok {
		return StoryArc{}, fmt.Errorf("unknown arc type: %q (use %q or %q)", kind, ArcThreeAct, ArcFivePart)
	}
	return arc, nil
}

// FormatArcGuidance renders the arc as prompt guidance
func FormatArcGuidance(kind string) (string, error) {
	arc, err := Arc(kind)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Use a %s story structure:\n\n", strings.ReplaceAll(arc.Kind, "_", "-"))
	for _, s := range arc.Sections {
		fmt.Fprintf(&b, "%s (%d%% of story):\n", s.Name, s.Percentage)
		b.WriteString(s.Description + "\n")
		if len(s.Elements) > 0 {
			b.WriteString("Key elements to include:\n")
			for _, e := range s.Elements {
				b.WriteString("- " + e + "\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
