package llm

import (
	"fmt"
	"strings"
)

// NewClient builds the provider named by cfg.Provider
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderOpenAI, "groq":
		return NewOpenAIClient(cfg)
	case ProviderAnthropic:
		return NewAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
}
