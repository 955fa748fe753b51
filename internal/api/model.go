package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/lamim/storyforge/internal/config"
)

// ErrMissingCredential is returned by NewModel when a remote endpoint has no API key
var ErrMissingCredential = errors.New("no API key configured")

// GenerateParams holds a single prompt-to-text request
type GenerateParams struct {
	Prompt        string
	SystemMessage string // Optional
	MaxTokens     int
	Temperature   float64
}

// Generator turns a prompt into model text
type Generator interface {
	Generate(ctx context.Context, params GenerateParams) (string, error)
}

// Model binds a client to one endpoint, model name and credential
type Model struct {
	client *Client
	cfg    config.ModelConfig
	apiKey string
}

// NewModel validates the credential for cfg and returns a bound Model.
// Local endpoints (localhost, loopback) may run without a key.
func NewModel(client *Client, cfg config.ModelConfig, apiKey string) (*Model, error) {
	if apiKey == "" && !IsLocalEndpoint(cfg.BaseURL) {
		return nil, fmt.Errorf("%w for %s (%s): set %s or API_KEY",
			ErrMissingCredential, cfg.ModelName, cfg.BaseURL, envHint(cfg.BaseURL))
	}
	return &Model{client: client, cfg: cfg, apiKey: apiKey}, nil
}

// Name returns the configured model name
func (m *Model) Name() string {
	return m.cfg.ModelName
}

// Generate sends the prompt and returns the first choice's content.
// Zero MaxTokens falls back to the configured limit.
func (m *Model) Generate(ctx context.Context, params GenerateParams) (string, error) {
	messages := make([]Message, 0, 2)
	if params.SystemMessage != "" {
		messages = append(messages, Message{Role: "system", Content: params.SystemMessage})
	}
	messages = append(messages, Message{Role: "user", Content: params.Prompt})

	cfg := m.cfg
	cfg.Temperature = params.Temperature
	if params.MaxTokens > 0 {
		cfg.MaxOutputTokens = params.MaxTokens
	}

	resp, err := m.client.ChatCompletion(ctx, cfg, m.apiKey, messages)
	if err != nil {
		return "", fmt.Errorf("failed to call %s: %w", m.cfg.ModelName, err)
	}
	return resp.Choices[0].Message.Content, nil
}

// IsLocalEndpoint reports whether baseURL points at the local machine
func IsLocalEndpoint(baseURL string) bool {
	u, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && (ip.IsLoopback() || ip.IsUnspecified())
}

func envHint(baseURL string) string {
	if provider := config.GetProviderName(baseURL); provider != baseURL {
		return strings.ToUpper(provider) + "_API_KEY"
	}
	return "API_KEY"
}
