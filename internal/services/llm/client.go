package llm

import (
	"context"
	"errors"
	"time"

	"patent-checker/internal/reference"
)

// ErrClient marks every failure talking to the upstream chat-completion service
var ErrClient = errors.New("llm client error")

// Client is implemented by every LLM provider
type Client interface {
	// AssessProduct asks whether product infringes patent and returns the raw reply
	AssessProduct(ctx context.Context, patent reference.Patent, product reference.Product) (string, error)

	// Summarize asks for a prose summary of already-rendered findings
	Summarize(ctx context.Context, patent reference.Patent, company reference.Company, findings []string) (string, error)

	// Name reports the provider for logs and metrics
	Name() string
}

// Config selects and configures a provider
type Config struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
}

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	DefaultBaseURL        = "https://api.groq.com/openai/v1"
	DefaultModel          = "llama3-8b-8192"
	DefaultAnthropicModel = "claude-haiku-4-5-20251001"
	DefaultTimeout        = 30 * time.Second
)
