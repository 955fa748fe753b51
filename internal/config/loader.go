package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/lamim/storyforge/internal/catalog"
)

const (
	// DefaultBaseURL is used for any role without an explicit endpoint
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModelName is used for any role without an explicit model
	DefaultModelName = "gpt-3.5-turbo"
)

// roleDefaults holds the sampling settings each agent uses unless overridden
var roleDefaults = map[string]ModelConfig{
	RoleCategorizer: {Temperature: 0.3, MaxOutputTokens: 200},  // Consistent classification
	RoleStoryteller: {Temperature: 0.8, MaxOutputTokens: 2000}, // Creative first drafts
	RoleJudge:       {Temperature: 0.2, MaxOutputTokens: 1500}, // Reasoned, repeatable scoring
}

// Load reads and parses the configuration file and environment variables.
// An empty path yields the built-in defaults.
func Load(configPath string) (*Config, *Secrets, error) {
	var cfg Config

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ValidateInputs(); err != nil {
		return nil, nil, fmt.Errorf("input validation failed: %w", err)
	}

	return &cfg, LoadSecrets(), nil
}

// Default returns the configuration with every default applied
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.Models == nil {
		cfg.Models = make(map[string]ModelConfig)
	}

	for _, role := range Roles {
		model := cfg.Models[role]
		def := roleDefaults[role]

		if model.BaseURL == "" {
			model.BaseURL = DefaultBaseURL
		}
		if model.ModelName == "" {
			model.ModelName = DefaultModelName
		}
		// NOTE: TOML cannot distinguish an explicit 0 from unset, so 0 means default
		if model.Temperature == 0 {
			model.Temperature = def.Temperature
		}
		if model.MaxOutputTokens == 0 {
			model.MaxOutputTokens = def.MaxOutputTokens
		}
		if model.RateLimitPerMinute == 0 {
			model.RateLimitPerMinute = 60
		}
		if model.HTTPTimeoutSeconds == 0 {
			model.HTTPTimeoutSeconds = 120
		}

		cfg.Models[role] = model
	}

	if cfg.Story.Arc == "" {
		cfg.Story.Arc = catalog.ArcThreeAct
	}

	if cfg.Refinement.Threshold == 0 {
		cfg.Refinement.Threshold = 7.0
	}
	if cfg.Refinement.MaxIterations == 0 {
		cfg.Refinement.MaxIterations = 2
	}

	if cfg.Generation.Concurrency == 0 {
		cfg.Generation.Concurrency = 4
	}

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "output"
	}

	if cfg.PromptTemplates.Story == "" {
		cfg.PromptTemplates.Story = GetDefaultStoryTemplate()
	}
	if cfg.PromptTemplates.Evaluation == "" {
		cfg.PromptTemplates.Evaluation = GetDefaultEvaluationTemplate()
	}
	if cfg.PromptTemplates.Categorization == "" {
		cfg.PromptTemplates.Categorization = GetDefaultCategorizationTemplate()
	}
	if cfg.PromptTemplates.Refinement == "" {
		cfg.PromptTemplates.Refinement = GetDefaultRefinementTemplate()
	}
}
