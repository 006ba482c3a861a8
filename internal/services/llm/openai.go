package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"patent-checker/internal/reference"
)

// OpenAIClient talks to any OpenAI-compatible chat-completion endpoint (Groq by default)
type OpenAIClient struct {
	client  openai.Client
	model   string
	name    string
	timeout time.Duration
}

func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM API key is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	name := ProviderOpenAI
	if strings.Contains(baseURL, "groq.com") {
		name = "groq"
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)

	return &OpenAIClient{
		client:  client,
		model:   model,
		name:    name,
		timeout: timeout,
	}, nil
}

func (c *OpenAIClient) Name() string {
	return c.name
}

func (c *OpenAIClient) AssessProduct(ctx context.Context, patent reference.Patent, product reference.Product) (string, error) {
	return c.complete(ctx, assessSystemPrompt(patent, product), assessUserPrompt(patent, product))
}

func (c *OpenAIClient) Summarize(ctx context.Context, patent reference.Patent, company reference.Company, findings []string) (string, error) {
	return c.complete(ctx, summarySystemPrompt(patent, company), summaryUserPrompt(findings))
}

// complete sends one chat completion and returns the first choice's content
func (c *OpenAIClient) complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion failed: %w", ErrClient, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", ErrClient)
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Model() string {
	return c.model
}
