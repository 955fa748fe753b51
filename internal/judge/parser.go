package judge

import (
	"math"
	"strconv"
	"strings"

	"github.com/lamim/storyforge/pkg/models"
)

type section int

const (
	sectionNone section = iota
	sectionScore
	sectionReasoning
	sectionSuggestions
	sectionOverall
	sectionImprovements
)

type markerKind int

const (
	markerDimension markerKind = iota
	markerScore
	markerReasoning
	markerSuggestions
	markerOverall
	markerImprovements
)

// Checked in order, first match wins
var markers = []struct {
	prefix string
	kind   markerKind
}{
	{"DIMENSION:", markerDimension},
	{"SCORE:", markerScore},
	{"REASONING:", markerReasoning},
	{"SUGGESTIONS:", markerSuggestions},
	{"OVERALL_ASSESSMENT", markerOverall},
	{"OVERALL ASSESSMENT", markerOverall},
	{"SUMMARY_OF_KEY_IMPROVEMENTS", markerImprovements},
	{"SUMMARY OF KEY IMPROVEMENTS", markerImprovements},
	{"KEY IMPROVEMENTS", markerImprovements},
}

const noChangeSentinel = "no major improvements needed"

// Score bounds; anything outside is treated as unparseable
const (
	minScore = 0.0
	maxScore = 10.0
)

// ParseEvaluation turns judge output into an Evaluation. It never fails:
// lines it cannot place are dropped and fields it cannot read stay empty.
// OverallScore is the mean of the parsed dimension scores, or 0 when none
// were found (see Evaluation.HasOverallScore).
func ParseEvaluation(text string) *models.Evaluation {
	p := &parser{
		ev: &models.Evaluation{
			Dimensions:      []*models.EvaluationDimension{},
			KeyImprovements: []string{},
			RawText:         text,
		},
		index: make(map[string]int),
	}

	for _, raw := range strings.Split(text, "\n") {
		p.line(strings.TrimSpace(raw))
	}

	return p.finish()
}

type parser struct {
	ev      *models.Evaluation
	index   map[string]int // dimension name -> position in ev.Dimensions
	current *models.EvaluationDimension
	section section
	overall []string
}

func (p *parser) line(line string) {
	if line == "" {
		return
	}

	for _, m := range markers {
		if !hasPrefixFold(line, m.prefix) {
			continue
		}
		rest := strings.TrimSpace(line[len(m.prefix):])

		switch m.kind {
		case markerDimension:
			p.startDimension(rest)
			p.section = sectionNone
		case markerScore:
			if p.current != nil {
				p.current.Score = parseScore(rest)
			}
			p.section = sectionScore
		case markerReasoning:
			if p.current != nil {
				p.current.Reasoning = rest
			}
			p.section = sectionReasoning
		case markerSuggestions:
			if p.current != nil && !isNoChangeSentinel(stripBullet(rest)) {
				p.addSuggestion(rest)
			}
			p.section = sectionSuggestions
		case markerOverall:
			p.section = sectionOverall
		case markerImprovements:
			p.section = sectionImprovements
		}
		return
	}

	switch p.section {
	case sectionReasoning:
		if p.current == nil {
			return
		}
		if p.current.Reasoning == "" {
			p.current.Reasoning = line
		} else {
			p.current.Reasoning += " " + line
		}
	case sectionSuggestions:
		if p.current != nil && !hasPrefixFold(stripBullet(line), "no major") {
			p.addSuggestion(line)
		}
	case sectionOverall:
		p.overall = append(p.overall, line)
	case sectionImprovements:
		if item := stripBullet(line); item != "" {
			p.ev.KeyImprovements = append(p.ev.KeyImprovements, item)
		}
	}
}

// startDimension creates the named entry, or resets it in place if it was seen before
func (p *parser) startDimension(name string) {
	dim := &models.EvaluationDimension{Name: name, Suggestions: []string{}}
	if idx, ok := p.index[name]; ok {
		p.ev.Dimensions[idx] = dim
	} else {
		p.index[name] = len(p.ev.Dimensions)
		p.ev.Dimensions = append(p.ev.Dimensions, dim)
	}
	p.current = dim
}

func (p *parser) addSuggestion(s string) {
	s = stripBullet(s)
	if s == "" {
		return
	}
	for _, existing := range p.current.Suggestions {
		if existing == s {
			return
		}
	}
	p.current.Suggestions = append(p.current.Suggestions, s)
}

func (p *parser) finish() *models.Evaluation {
	var sum float64
	var n int
	for _, d := range p.ev.Dimensions {
		if d.Score != nil {
			sum += *d.Score
			n++
		}
	}
	if n > 0 {
		p.ev.OverallScore = sum / float64(n)
	}

	p.ev.OverallAssessment = strings.TrimSpace(strings.Join(p.overall, " "))
	return p.ev
}

// parseScore reads "8/10", "7.5 / 10" or "9". Returns nil for anything else.
func parseScore(text string) *float64 {
	if i := strings.IndexByte(text, '/'); i >= 0 {
		text = text[:i]
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < minScore || v > maxScore {
		return nil
	}
	return &v
}

// isNoChangeSentinel matches the judge's "No major improvements needed" phrase,
// ignoring case and trailing punctuation
func isNoChangeSentinel(s string) bool {
	return strings.EqualFold(strings.TrimRight(s, ".!; "), noChangeSentinel)
}

func stripBullet(s string) string {
	for _, bullet := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(s, bullet) {
			return strings.TrimSpace(s[len(bullet):])
		}
	}
	return s
}

// hasPrefixFold is a case-insensitive strings.HasPrefix for ASCII prefixes
func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
