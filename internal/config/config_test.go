package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing judge model",
			mutate:  func(c *Config) { delete(c.Models, RoleJudge) },
			wantErr: true,
		},
		{
			name: "temperature out of range",
			mutate: func(c *Config) {
				m := c.Models[RoleStoryteller]
				m.Temperature = 2.5
				c.Models[RoleStoryteller] = m
			},
			wantErr: true,
		},
		{
			name:    "zero max iterations",
			mutate:  func(c *Config) { c.Refinement.MaxIterations = 0 },
			wantErr: true,
		},
		{
			name:    "max iterations above limit",
			mutate:  func(c *Config) { c.Refinement.MaxIterations = MaxIterationsLimit + 1 },
			wantErr: true,
		},
		{
			name:    "threshold above ten",
			mutate:  func(c *Config) { c.Refinement.Threshold = 11 },
			wantErr: true,
		},
		{
			name:    "unknown arc",
			mutate:  func(c *Config) { c.Story.Arc = "seven_act" },
			wantErr: true,
		},
		{
			name:    "five part arc",
			mutate:  func(c *Config) { c.Story.Arc = "five_part" },
			wantErr: false,
		},
		{
			name:    "invalid concurrency",
			mutate:  func(c *Config) { c.Generation.Concurrency = 0 },
			wantErr: true,
		},
		{
			name:    "empty refinement template",
			mutate:  func(c *Config) { c.PromptTemplates.Refinement = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults_RoleSettings(t *testing.T) {
	cfg := Default()

	tests := []struct {
		role      string
		temp      float64
		maxTokens int
	}{
		{RoleCategorizer, 0.3, 200},
		{RoleStoryteller, 0.8, 2000},
		{RoleJudge, 0.2, 1500},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			m, ok := cfg.Models[tt.role]
			if !ok {
				t.Fatalf("Expected model for role %s", tt.role)
			}
			if m.Temperature != tt.temp {
				t.Errorf("Temperature = %v, want %v", m.Temperature, tt.temp)
			}
			if m.MaxOutputTokens != tt.maxTokens {
				t.Errorf("MaxOutputTokens = %d, want %d", m.MaxOutputTokens, tt.maxTokens)
			}
			if m.ModelName != DefaultModelName {
				t.Errorf("ModelName = %s, want %s", m.ModelName, DefaultModelName)
			}
		})
	}

	if cfg.Refinement.Threshold != 7.0 {
		t.Errorf("Threshold = %v, want 7.0", cfg.Refinement.Threshold)
	}
	if cfg.Refinement.MaxIterations != 2 {
		t.Errorf("MaxIterations = %d, want 2", cfg.Refinement.MaxIterations)
	}
	if cfg.Story.Arc != "three_act" {
		t.Errorf("Arc = %s, want three_act", cfg.Story.Arc)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "storyforge.toml")
	content := `
[models.judge]
base_url = "http://localhost:11434/v1"
model_name = "llama3.1:8b"
temperature = 0.1

[refinement]
threshold = 8.0
max_iterations = 3

[story]
arc = "five_part"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, secrets, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if secrets == nil {
		t.Fatal("Expected secrets, got nil")
	}

	judge := cfg.Models[RoleJudge]
	if judge.ModelName != "llama3.1:8b" {
		t.Errorf("judge model = %s, want llama3.1:8b", judge.ModelName)
	}
	if judge.Temperature != 0.1 {
		t.Errorf("judge temperature = %v, want 0.1", judge.Temperature)
	}
	if judge.MaxOutputTokens != 1500 {
		t.Errorf("judge max tokens = %d, want default 1500", judge.MaxOutputTokens)
	}
	if cfg.Models[RoleStoryteller].BaseURL != DefaultBaseURL {
		t.Errorf("storyteller base_url = %s, want default", cfg.Models[RoleStoryteller].BaseURL)
	}
	if cfg.Refinement.Threshold != 8.0 || cfg.Refinement.MaxIterations != 3 {
		t.Errorf("refinement = %+v, want threshold 8 and 3 iterations", cfg.Refinement)
	}
	if cfg.Story.Arc != "five_part" {
		t.Errorf("arc = %s, want five_part", cfg.Story.Arc)
	}
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, _, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if !strings.Contains(cfg.PromptTemplates.Evaluation, "DIMENSION:") {
		t.Error("Expected default evaluation template to describe the DIMENSION: format")
	}
}

func TestLoad_InvalidBaseURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	content := `
[models.storyteller]
base_url = "ftp://example.com"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, _, err := Load(path); err == nil {
		t.Fatal("Expected error for non-http base_url")
	}
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		request string
		wantErr bool
	}{
		{"normal", "A story about a brave little bunny", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxRequestLength+1), true},
		{"control chars", "a bunny\x00story", true},
		{"newlines allowed", "a bunny\nwho hops", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.request)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadSecrets(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key-123")
	t.Setenv("API_KEY", "generic-key")

	secrets := LoadSecrets()

	if secrets.APIKeys["openai"] != "test-key-123" {
		t.Errorf("Expected OpenAI key to be 'test-key-123', got %s", secrets.APIKeys["openai"])
	}
	if secrets.APIKeys["generic"] != "generic-key" {
		t.Errorf("Expected generic key to be 'generic-key', got %s", secrets.APIKeys["generic"])
	}
}

func TestGetAPIKey(t *testing.T) {
	secrets := &Secrets{
		APIKeys: map[string]string{
			"openai":    "openai-key",
			"anthropic": "anthropic-key",
		},
	}

	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{
			name:    "OpenAI URL",
			baseURL: "https://api.openai.com/v1",
			want:    "openai-key",
		},
		{
			name:    "Anthropic URL",
			baseURL: "https://api.anthropic.com/v1",
			want:    "anthropic-key",
		},
		{
			name:    "Unknown URL",
			baseURL: "https://unknown.com/v1",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := secrets.GetAPIKey(tt.baseURL)
			if got != tt.want {
				t.Errorf("GetAPIKey() = %v, want %v", got, tt.want)
			}
		})
	}

	secrets.APIKeys["generic"] = "generic-key"
	if got := secrets.GetAPIKey("http://localhost:8080/v1"); got != "generic-key" {
		t.Errorf("GetAPIKey() fallback = %v, want generic-key", got)
	}
}
