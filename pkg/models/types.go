package models

import "time"

// Category is one of the fixed story categories the categorizer can assign
type Category string

const (
	CategoryAdventure      Category = "ADVENTURE"
	CategoryFriendship     Category = "FRIENDSHIP"
	CategoryMagicFantasy   Category = "MAGIC/FANTASY"
	CategoryAnimals        Category = "ANIMALS"
	CategoryProblemSolving Category = "PROBLEM-SOLVING"
	CategoryEveryday       Category = "EVERYDAY"
	CategoryMixed          Category = "MIXED"
)

// Categories lists every category in classification order
var Categories = []Category{
	CategoryAdventure,
	CategoryFriendship,
	CategoryMagicFantasy,
	CategoryAnimals,
	CategoryProblemSolving,
	CategoryEveryday,
	CategoryMixed,
}

// StoryRequest is a single free-text story request
type StoryRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	// Category skips the categorizer when set
	Category Category `json:"category,omitempty"`
}

// StoryResult is everything produced for one request
type StoryResult struct {
	ID                  string             `json:"id"`
	Request             string             `json:"request"`
	Category            Category           `json:"category"`
	CategoryExplanation string             `json:"category_explanation,omitempty"`
	FirstDraft          string             `json:"first_draft"`
	Outcome             *RefinementOutcome `json:"outcome,omitempty"`
	Duration            time.Duration      `json:"duration"`
	Error               string             `json:"error,omitempty"`
}

// FinalStory returns the refined story when refinement ran, the first draft otherwise
func (r *StoryResult) FinalStory() string {
	if r.Outcome != nil {
		return r.Outcome.FinalStory
	}
	return r.FirstDraft
}

// SessionStats tracks statistics for a storytelling session
type SessionStats struct {
	StartTime       time.Time
	EndTime         time.Time
	TotalRequests   int
	SuccessCount    int
	FailureCount    int
	RefinedCount    int // Stories that needed more than one evaluation
	TotalDuration   time.Duration
	AverageDuration time.Duration
}
