// Package generator turns a natural-language instruction into scan records
// by calling a text-generation API.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/hpungsan/radar/internal/config"
)

const (
	// DefaultEndpoint is the Anthropic Messages API.
	DefaultEndpoint = "https://api.anthropic.com/v1/messages"

	anthropicVersion = "2023-06-01"
)

// Generator produces free text for an instruction.
type Generator interface {
	Generate(ctx context.Context, instruction string) (string, error)
}

// Anthropic calls the Messages API.
type Anthropic struct {
	APIKey    string
	Model     string
	MaxTokens int
	Endpoint  string
	Client    *http.Client
}

// NewAnthropic builds a client from cfg, reading the key from cfg.APIKeyEnv.
func NewAnthropic(cfg config.GeneratorConfig) (*Anthropic, error) {
	envName := cfg.APIKeyEnv
	if envName == "" {
		envName = "ANTHROPIC_API_KEY"
	}
	apiKey := strings.TrimSpace(os.Getenv(envName))
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable not set", envName)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	return &Anthropic{
		APIKey:    apiKey,
		Model:     cfg.Model,
		MaxTokens: maxTokens,
		Endpoint:  endpoint,
		Client:    http.DefaultClient,
	}, nil
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends instruction as a single user message and returns the
// concatenated text blocks of the reply.
func (a *Anthropic) Generate(ctx context.Context, instruction string) (string, error) {
	reqBody := apiRequest{
		Model:     a.Model,
		MaxTokens: a.MaxTokens,
		Messages: []apiMessage{
			{Role: "user", Content: instruction},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.Endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("api error: %s", apiResp.Error.Message)
	}

	var sb strings.Builder
	for _, c := range apiResp.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response")
	}
	return sb.String(), nil
}
