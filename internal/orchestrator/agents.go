package orchestrator

import (
	"fmt"
	"log/slog"

	"github.com/lamim/storyforge/internal/api"
	"github.com/lamim/storyforge/internal/catalog"
	"github.com/lamim/storyforge/internal/categorizer"
	"github.com/lamim/storyforge/internal/config"
	"github.com/lamim/storyforge/internal/judge"
	"github.com/lamim/storyforge/internal/metrics"
	"github.com/lamim/storyforge/internal/refine"
	"github.com/lamim/storyforge/internal/storyteller"
)

// BuildModel binds the model configured for role to its credential
func BuildModel(client *api.Client, cfg *config.Config, secrets *config.Secrets, role string) (*api.Model, error) {
	mc, ok := cfg.Models[role]
	if !ok {
		return nil, fmt.Errorf("no model configured for role %q", role)
	}
	model, err := api.NewModel(client, mc, secrets.GetAPIKey(mc.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s model: %w", role, err)
	}
	return model, nil
}

// NewJudge creates the judge agent from configuration
func NewJudge(client *api.Client, cfg *config.Config, secrets *config.Secrets, logger *slog.Logger, collector *metrics.Collector) (*judge.Judge, error) {
	model, err := BuildModel(client, cfg, secrets, config.RoleJudge)
	if err != nil {
		return nil, err
	}
	mc := cfg.Models[config.RoleJudge]
	return judge.New(model, judge.Options{
		Template:     cfg.PromptTemplates.Evaluation,
		SystemPrompt: cfg.PromptTemplates.JudgeSystemPrompt,
		Temperature:  mc.Temperature,
		MaxTokens:    mc.MaxOutputTokens,
	}, logger, collector), nil
}

// NewFromConfig wires every agent from cfg into an orchestrator. Missing
// credentials and an invalid refinement cap fail here, before any request.
func NewFromConfig(client *api.Client, cfg *config.Config, secrets *config.Secrets, sink ResultSink, showProgress bool, logger *slog.Logger, collector *metrics.Collector) (*Orchestrator, error) {
	cat := catalog.Default()

	catModel, err := BuildModel(client, cfg, secrets, config.RoleCategorizer)
	if err != nil {
		return nil, err
	}
	catCfg := cfg.Models[config.RoleCategorizer]
	classifier := categorizer.New(catModel, cat, categorizer.Options{
		Template:     cfg.PromptTemplates.Categorization,
		SystemPrompt: cfg.PromptTemplates.CategorySystemPrompt,
		Temperature:  catCfg.Temperature,
		MaxTokens:    catCfg.MaxOutputTokens,
	}, logger)

	storyModel, err := BuildModel(client, cfg, secrets, config.RoleStoryteller)
	if err != nil {
		return nil, err
	}
	arc := cfg.Story.Arc
	if cfg.Story.DisableArc {
		arc = ""
	}
	storyCfg := cfg.Models[config.RoleStoryteller]
	teller, err := storyteller.New(storyModel, cat, storyteller.Options{
		StoryTemplate:      cfg.PromptTemplates.Story,
		RefinementTemplate: cfg.PromptTemplates.Refinement,
		SystemPrompt:       cfg.PromptTemplates.StorySystemPrompt,
		Temperature:        storyCfg.Temperature,
		MaxTokens:          storyCfg.MaxOutputTokens,
		Arc:                arc,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create storyteller: %w", err)
	}

	var refiner Refiner
	if !cfg.Refinement.Disabled {
		j, err := NewJudge(client, cfg, secrets, logger, collector)
		if err != nil {
			return nil, err
		}
		loop, err := refine.New(j, teller, cfg.Refinement.MaxIterations,
			refine.WithLogger(logger), refine.WithMetrics(collector))
		if err != nil {
			return nil, fmt.Errorf("failed to create refinement loop: %w", err)
		}
		refiner = loop
		logger.Info("Refinement enabled",
			"max_iterations", loop.MaxIterations(),
			"threshold", cfg.Refinement.Threshold)
	}

	return New(classifier, teller, refiner, sink, Options{
		Threshold:    cfg.Refinement.Threshold,
		Concurrency:  cfg.Generation.Concurrency,
		ShowProgress: showProgress,
	}, logger, collector), nil
}
