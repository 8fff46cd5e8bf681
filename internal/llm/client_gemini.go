package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"primusgen/internal/logging"
)

// GeminiClient implements Client on the Google GenAI API.
type GeminiClient struct {
	client *genai.Client
	model  string
	config Config
}

// NewGeminiClient creates a Gemini client with deterministic decoding.
func NewGeminiClient(ctx context.Context, config Config) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	model := strings.TrimSpace(config.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: config.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{client: client, model: model, config: config}, nil
}

// Complete sends a prompt and returns the raw completion text.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	maxTokens := req.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = c.config.MaxOutputTokens
	}

	timer := logging.StartTimer(logging.CategoryGeneration, "gemini completion")
	defer timer.Stop()

	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0),
		TopP:            genai.Ptr[float32](1),
		MaxOutputTokens: int32(maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty completion")
	}
	logging.Generation("gemini completion: %d prompt bytes -> %d output bytes", len(req.Prompt), len(text))
	return text, nil
}
