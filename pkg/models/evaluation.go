package models

// EvaluationDimension is one scored axis of a story
type EvaluationDimension struct {
	Name string `json:"name"`
	// Score is nil when the judge did not state a parseable score
	Score       *float64 `json:"score"`
	Reasoning   string   `json:"reasoning"`
	Suggestions []string `json:"suggestions"`
}

// HasScore reports whether the dimension carries a score
func (d *EvaluationDimension) HasScore() bool {
	return d != nil && d.Score != nil
}

// Evaluation is the structured judge output for one story
type Evaluation struct {
	// Dimensions are kept in order of first appearance in the judge response
	Dimensions        []*EvaluationDimension `json:"dimensions"`
	OverallScore      float64                `json:"overall_score"`
	OverallAssessment string                 `json:"overall_assessment"`
	KeyImprovements   []string               `json:"key_improvements"`
	RawText           string                 `json:"raw_text"`
}

// Dimension looks up a dimension by name
func (e *Evaluation) Dimension(name string) (*EvaluationDimension, bool) {
	for _, d := range e.Dimensions {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// HasOverallScore reports whether OverallScore is a real mean rather than the
// 0.0 "nothing was parseable" sentinel
func (e *Evaluation) HasOverallScore() bool {
	for _, d := range e.Dimensions {
		if d.HasScore() {
			return true
		}
	}
	return false
}

// RefinementRecord is one iteration of the refinement loop
type RefinementRecord struct {
	Iteration  int         `json:"iteration"`
	Story      string      `json:"story"`
	Evaluation *Evaluation `json:"evaluation"`
}

// RefinementOutcome is the result of a refinement run
type RefinementOutcome struct {
	FinalStory      string             `json:"final_story"`
	FinalEvaluation *Evaluation        `json:"final_evaluation"`
	Iterations      int                `json:"iterations"`
	Records         []RefinementRecord `json:"records"`
	// Improved is true when more than one evaluation ran; it says nothing
	// about whether the score went up
	Improved bool `json:"improved"`
}
