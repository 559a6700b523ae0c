package fallback

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface using OpenAI chat
// completions.
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Synonyms asks the model for up to n synonyms of word.
func (p *OpenAIProvider) Synonyms(ctx context.Context, word string, n int) ([]string, error) {
	chatModel := p.config.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	maxTokens := p.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 200
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a thesaurus. Answer with synonyms only, one per line, no numbering and no commentary.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Give up to %d synonyms for %q.", n, word),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return parseSynonyms(resp.Choices[0].Message.Content, n), nil
}

// parseSynonyms splits model output into clean, deduplicated synonym
// candidates, tolerating bullets and numbering the model was told not
// to emit.
func parseSynonyms(content string, n int) []string {
	seen := make(map[string]bool)
	var synonyms []string

	for _, line := range strings.Split(content, "\n") {
		word := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*0123456789. \t"))
		if word == "" || seen[strings.ToLower(word)] {
			continue
		}
		seen[strings.ToLower(word)] = true
		synonyms = append(synonyms, word)
		if len(synonyms) == n {
			break
		}
	}

	return synonyms
}
