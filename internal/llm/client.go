// Package llm wraps the generative-model API behind a small interface so
// the engine can be driven by a scripted client in tests. Decoding is
// always deterministic: regulatory documents must be reproducible for
// audit, so temperature is pinned to 0 and top-p to 1.
package llm

import (
	"context"
	"time"
)

// Request is one generation call.
type Request struct {
	Prompt          string
	MaxOutputTokens int
}

// Client defines the interface for generative-model providers.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Config holds provider configuration.
type Config struct {
	APIKey          string
	Model           string
	MaxOutputTokens int
	Timeout         time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:          apiKey,
		Model:           "gemini-2.5-flash",
		MaxOutputTokens: 25000,
		Timeout:         10 * time.Minute,
	}
}
