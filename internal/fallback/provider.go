package fallback

import (
	"context"
	"fmt"
	"strings"
)

// Provider suggests synonyms for a word whose thesaurus page yielded
// none. Suggestions are best-effort enrichment: a provider error must
// never fail the line that triggered it.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Synonyms returns up to n synonym candidates for the word.
	Synonyms(ctx context.Context, word string, n int) ([]string, error)
}

// Config holds fallback provider configuration.
type Config struct {
	// Provider name: "openai" or "" (disabled)
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for the provider
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: 200,
	}
}

// NewProvider creates the configured provider, or nil when the fallback
// is disabled.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown fallback provider: %s (supported: openai)", config.Provider)
	}
}
