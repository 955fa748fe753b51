// Package storyteller writes first drafts and feedback-driven rewrites.
package storyteller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lamim/storyforge/internal/api"
	"github.com/lamim/storyforge/internal/catalog"
	"github.com/lamim/storyforge/internal/util"
	"github.com/lamim/storyforge/pkg/models"
)

// Rewrites use a fixed temperature and token budget, independent of the
// first-draft settings in models.storyteller.
const (
	RefinementTemperature = 0.7
	RefinementMaxTokens   = 2000
)

// Options configures the storyteller
type Options struct {
	StoryTemplate      string // {guidelines}, {user_request}
	RefinementTemplate string // {guidelines}, {user_request}, {story}, {instructions}, {category}
	SystemPrompt       string
	Temperature        float64 // First drafts
	MaxTokens          int     // First drafts
	Arc                string  // Empty disables arc guidance
}

// Storyteller generates stories with an LLM
type Storyteller struct {
	gen     api.Generator
	catalog *catalog.Catalog
	opts    Options
	logger  *slog.Logger
}

// New creates a new storyteller. The arc is checked up front so a bad
// configuration fails here rather than on the first request.
func New(gen api.Generator, cat *catalog.Catalog, opts Options, logger *slog.Logger) (*Storyteller, error) {
	if opts.Arc != "" {
		if _, err := catalog.Arc(opts.Arc); err != nil {
			return nil, err
		}
	}
	return &Storyteller{
		gen:     gen,
		catalog: cat,
		opts:    opts,
		logger:  logger.With("component", "storyteller"),
	}, nil
}

// Generate writes a first draft for request in the given category.
// Unknown categories use the MIXED example and focus.
func (s *Storyteller) Generate(ctx context.Context, request string, category models.Category) (string, error) {
	prompt, err := s.storyPrompt(request, category)
	if err != nil {
		return "", err
	}

	resp, err := s.gen.Generate(ctx, api.GenerateParams{
		Prompt:        prompt,
		SystemMessage: s.opts.SystemPrompt,
		MaxTokens:     s.opts.MaxTokens,
		Temperature:   s.opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate story: %w", err)
	}

	story := util.CleanStory(resp)
	s.logger.Debug("Generated first draft", "category", category, "length", len(story))
	return story, nil
}

// Revise rewrites story following the judge's instructions. It always uses
// RefinementTemperature and RefinementMaxTokens.
func (s *Storyteller) Revise(ctx context.Context, story, request string, category models.Category, instructions string) (string, error) {
	prompt := util.Format(s.opts.RefinementTemplate, map[string]string{
		"guidelines":   catalog.AgeGuidelines(),
		"user_request": request,
		"story":        story,
		"instructions": instructions,
		"category":     string(category),
	}, nil, "")

	resp, err := s.gen.Generate(ctx, api.GenerateParams{
		Prompt:        prompt,
		SystemMessage: s.opts.SystemPrompt,
		MaxTokens:     RefinementMaxTokens,
		Temperature:   RefinementTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to revise story: %w", err)
	}

	revised := util.CleanStory(resp)
	s.logger.Debug("Revised story", "category", category, "length", len(revised))
	return revised, nil
}

func (s *Storyteller) storyPrompt(request string, category models.Category) (string, error) {
	info := s.catalog.LookupOrMixed(category)

	var arcGuidance string
	if s.opts.Arc != "" {
		guidance, err := catalog.FormatArcGuidance(s.opts.Arc)
		if err != nil {
			return "", err
		}
		arcGuidance = guidance
	}

	prompt := util.Format(s.opts.StoryTemplate, map[string]string{
		"guidelines":   catalog.AgeGuidelines(),
		"user_request": request,
	}, []string{info.Example}, arcGuidance)

	prompt += fmt.Sprintf("\n\nSTORY CATEGORY: %s\nPlease create a story that fits this category: %s\n", info.Name, info.Focus)
	return prompt, nil
}
