package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/lamim/storyforge/internal/catalog"
)

// Model roles used as keys of the [models] table
const (
	RoleCategorizer = "categorizer"
	RoleStoryteller = "storyteller"
	RoleJudge       = "judge"
)

// Roles lists every model role the pipeline needs
var Roles = []string{RoleCategorizer, RoleStoryteller, RoleJudge}

// Config represents the complete application configuration
type Config struct {
	Models          map[string]ModelConfig `toml:"models"`
	Story           StoryConfig            `toml:"story"`
	Refinement      RefinementConfig       `toml:"refinement"`
	Generation      GenerationConfig       `toml:"generation"`
	Output          OutputConfig           `toml:"output"`
	PromptTemplates PromptTemplates        `toml:"prompt_templates"`
}

// ModelConfig represents configuration for a single model endpoint
type ModelConfig struct {
	BaseURL            string  `toml:"base_url"`
	ModelName          string  `toml:"model_name"`
	Temperature        float64 `toml:"temperature"`
	MaxOutputTokens    int     `toml:"max_output_tokens"`
	RateLimitPerMinute int     `toml:"rate_limit_per_minute"`
	HTTPTimeoutSeconds int     `toml:"http_timeout_seconds"` // Optional: HTTP request timeout (default 120)
}

// StoryConfig holds first-draft generation settings
type StoryConfig struct {
	Arc        string `toml:"arc"`         // three_act or five_part
	DisableArc bool   `toml:"disable_arc"` // Skip arc guidance in the story prompt
}

// RefinementConfig holds refinement loop settings
type RefinementConfig struct {
	Disabled      bool    `toml:"disabled"`
	Threshold     float64 `toml:"threshold"`      // Minimum acceptable score (default 7.0)
	MaxIterations int     `toml:"max_iterations"` // Evaluation cap, at least 1 (default 2)
}

// GenerationConfig holds batch settings
type GenerationConfig struct {
	Concurrency int `toml:"concurrency"`
}

// OutputConfig controls the session directory
type OutputConfig struct {
	Dir            string `toml:"dir"`
	SaveTranscript bool   `toml:"save_transcript"`
}

// PromptTemplates holds the prompt templates, {name} placeholders are substituted at call time
type PromptTemplates struct {
	Story                string `toml:"story"`
	Evaluation           string `toml:"evaluation"`
	Categorization       string `toml:"categorization"`
	Refinement           string `toml:"refinement"`
	StorySystemPrompt    string `toml:"story_system_prompt"`    // Optional system prompt for the storyteller
	JudgeSystemPrompt    string `toml:"judge_system_prompt"`    // Optional system prompt for the judge
	CategorySystemPrompt string `toml:"category_system_prompt"` // Optional system prompt for the categorizer
}

// Secrets holds sensitive credentials loaded from environment variables
type Secrets struct {
	APIKeys map[string]string
}

const (
	// MaxConcurrency is the maximum allowed batch concurrency
	MaxConcurrency = 64
	// MaxIterationsLimit bounds refinement.max_iterations
	MaxIterationsLimit = 10
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	for _, role := range Roles {
		mc, ok := c.Models[role]
		if !ok {
			return fmt.Errorf("models.%s is required", role)
		}
		if err := validateModelConfig(role, mc); err != nil {
			return err
		}
	}

	if _, err := catalog.Arc(c.Story.Arc); err != nil {
		return fmt.Errorf("story.arc: %w", err)
	}

	if c.Refinement.Threshold < 0 || c.Refinement.Threshold > 10 {
		return fmt.Errorf("refinement.threshold must be between 0 and 10 (got %.2f)", c.Refinement.Threshold)
	}
	if c.Refinement.MaxIterations < 1 {
		return fmt.Errorf("refinement.max_iterations must be at least 1")
	}
	if c.Refinement.MaxIterations > MaxIterationsLimit {
		return fmt.Errorf("refinement.max_iterations must not exceed %d (got %d)", MaxIterationsLimit, c.Refinement.MaxIterations)
	}

	if c.Generation.Concurrency < 1 {
		return fmt.Errorf("generation.concurrency must be at least 1")
	}
	if c.Generation.Concurrency > MaxConcurrency {
		return fmt.Errorf("generation.concurrency must not exceed %d (got %d)", MaxConcurrency, c.Generation.Concurrency)
	}

	if c.PromptTemplates.Story == "" {
		return fmt.Errorf("prompt_templates.story is required")
	}
	if c.PromptTemplates.Evaluation == "" {
		return fmt.Errorf("prompt_templates.evaluation is required")
	}
	if c.PromptTemplates.Categorization == "" {
		return fmt.Errorf("prompt_templates.categorization is required")
	}
	if c.PromptTemplates.Refinement == "" {
		return fmt.Errorf("prompt_templates.refinement is required")
	}

	return nil
}

func validateModelConfig(name string, mc ModelConfig) error {
	if mc.BaseURL == "" {
		return fmt.Errorf("models.%s.base_url is required", name)
	}
	if mc.ModelName == "" {
		return fmt.Errorf("models.%s.model_name is required", name)
	}
	if mc.Temperature < 0 || mc.Temperature > 2 {
		return fmt.Errorf("models.%s.temperature must be between 0 and 2", name)
	}
	if mc.MaxOutputTokens < 1 {
		return fmt.Errorf("models.%s.max_output_tokens must be at least 1", name)
	}
	if mc.RateLimitPerMinute < 1 {
		return fmt.Errorf("models.%s.rate_limit_per_minute must be at least 1", name)
	}
	if mc.HTTPTimeoutSeconds < 0 {
		return fmt.Errorf("models.%s.http_timeout_seconds must not be negative", name)
	}
	return nil
}

// LoadSecrets loads sensitive credentials from environment variables
func LoadSecrets() *Secrets {
	secrets := &Secrets{
		APIKeys: make(map[string]string),
	}

	// Generic key for any OpenAI-compatible provider
	if key := os.Getenv("API_KEY"); key != "" {
		secrets.APIKeys["generic"] = key
	}

	// Provider-specific keys override the generic one
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		secrets.APIKeys["openai"] = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		secrets.APIKeys["anthropic"] = key
	}
	if key := os.Getenv("NVIDIA_API_KEY"); key != "" {
		secrets.APIKeys["nvidia"] = key
	}
	if key := os.Getenv("TOGETHER_API_KEY"); key != "" {
		secrets.APIKeys["together"] = key
	}

	return secrets
}

// GetAPIKey returns the API key for a given base URL
func (s *Secrets) GetAPIKey(baseURL string) string {
	if provider := GetProviderName(baseURL); provider != baseURL {
		if key := s.APIKeys[provider]; key != "" {
			return key
		}
	}

	if key := s.APIKeys["generic"]; key != "" {
		return key
	}

	// Local servers usually run without auth
	return ""
}

// GetProviderName extracts a provider name from a base URL
func GetProviderName(baseURL string) string {
	switch {
	case strings.Contains(baseURL, "openai.com"):
		return "openai"
	case strings.Contains(baseURL, "anthropic.com"):
		return "anthropic"
	case strings.Contains(baseURL, "nvidia.com"):
		return "nvidia"
	case strings.Contains(baseURL, "together.xyz"), strings.Contains(baseURL, "together.ai"):
		return "together"
	}
	return baseURL
}
