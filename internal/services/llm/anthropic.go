package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"patent-checker/internal/reference"
)

const anthropicMaxTokens = 2048

// AnthropicClient uses the Claude Messages API
type AnthropicClient struct {
	messages *anthropic.MessageService
	model    string
	timeout  time.Duration
}

func NewAnthropicClient(cfg Config) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM API key is required")
	}

	model := cfg.Model
	if model == "" || model == DefaultModel {
		model = DefaultAnthropicModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	// The Groq default belongs to the OpenAI-compatible provider
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" && baseURL != DefaultBaseURL {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")))
	}

	client := anthropic.NewClient(opts...)
	return &AnthropicClient{
		messages: &client.Messages,
		model:    model,
		timeout:  timeout,
	}, nil
}

func (c *AnthropicClient) Name() string {
	return ProviderAnthropic
}

func (c *AnthropicClient) AssessProduct(ctx context.Context, patent reference.Patent, product reference.Product) (string, error) {
	return c.complete(ctx, assessSystemPrompt(patent, product), assessUserPrompt(patent, product))
}

func (c *AnthropicClient) Summarize(ctx context.Context, patent reference.Patent, company reference.Company, findings []string) (string, error) {
	return c.complete(ctx, summarySystemPrompt(patent, company), summaryUserPrompt(findings))
}

func (c *AnthropicClient) complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   anthropicMaxTokens,
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(user))},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("%w: messages request failed: %w", ErrClient, err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("%w: response has no content blocks", ErrClient)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

func (c *AnthropicClient) Model() string {
	return c.model
}
