// Package categorizer assigns a story request to one of the fixed categories.
package categorizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/lamim/storyforge/internal/api"
	"github.com/lamim/storyforge/internal/catalog"
	"github.com/lamim/storyforge/internal/util"
	"github.com/lamim/storyforge/pkg/models"
)

const (
	undeterminedExplanation = "Could not determine specific category. Defaulting to MIXED."
	minExplanationLength    = 10
)

// Options configures the categorizer call
type Options struct {
	Template     string // {user_request}
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
}

// Categorizer classifies story requests with an LLM
type Categorizer struct {
	gen     api.Generator
	catalog *catalog.Catalog
	opts    Options
	logger  *slog.Logger
}

// New creates a new categorizer
func New(gen api.Generator, cat *catalog.Catalog, opts Options, logger *slog.Logger) *Categorizer {
	return &Categorizer{
		gen:     gen,
		catalog: cat,
		opts:    opts,
		logger:  logger.With("component", "categorizer"),
	}
}

// Categorize returns the category for request and a short explanation.
// The category is always one of the catalog's entries.
func (c *Categorizer) Categorize(ctx context.Context, request string) (models.Category, string, error) {
	prompt := util.Format(c.opts.Template, map[string]string{"user_request": request}, nil, "")

	resp, err := c.gen.Generate(ctx, api.GenerateParams{
		Prompt:        prompt,
		SystemMessage: c.opts.SystemPrompt,
		MaxTokens:     c.opts.MaxTokens,
		Temperature:   c.opts.Temperature,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to categorize request: %w", err)
	}

	category, explanation := c.parseResponse(resp, request)
	c.logger.Debug("Categorized request", "category", category, "response", util.TruncateString(resp, 200))

	return category, explanation, nil
}

// parseResponse reads "CATEGORY - explanation" style output. A category
// mentioned anywhere in the response is accepted next, then request keywords,
// then MIXED.
func (c *Categorizer) parseResponse(response, request string) (models.Category, string) {
	response = util.StripThinkTags(response)
	upper := strings.ToUpper(response)

	var category models.Category
	explanation := response

	for _, info := range c.catalog.Categories() {
		name := string(info.Name)
		if len(response) >= len(name) && strings.EqualFold(response[:len(name)], name) {
			category = info.Name
			explanation = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(response[len(name):]), ":-"))
			break
		}
	}

	if category == "" {
		for _, info := range c.catalog.Categories() {
			if strings.Contains(upper, string(info.Name)) {
				category = info.Name
				break
			}
		}
	}

	if category == "" {
		if kw, ok := c.catalog.MatchKeywords(request); ok {
			c.logger.Debug("Falling back to keyword match", "category", kw)
			category = kw
			explanation = fmt.Sprintf("The request mentions %s themes.", strings.ToLower(string(kw)))
		} else {
			category = models.CategoryMixed
			explanation = undeterminedExplanation
		}
	}

	if utf8.RuneCountInString(explanation) < minExplanationLength {
		explanation = fmt.Sprintf("This story request fits the %s category.", category)
	}

	return category, explanation
}
