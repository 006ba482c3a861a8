package llm

import (
	"context"
	"time"

	"patent-checker/internal/reference"
)

// CallRecorder observes upstream calls
type CallRecorder interface {
	RecordLLMCall(provider, operation string, err error, duration time.Duration)
}

// InstrumentedClient reports every call to a CallRecorder
type InstrumentedClient struct {
	inner    Client
	recorder CallRecorder
}

func NewInstrumentedClient(inner Client, recorder CallRecorder) *InstrumentedClient {
	return &InstrumentedClient{inner: inner, recorder: recorder}
}

func (c *InstrumentedClient) Name() string {
	return c.inner.Name()
}

func (c *InstrumentedClient) Model() string {
	if m, ok := c.inner.(interface{ Model() string }); ok {
		return m.Model()
	}
	return ""
}

func (c *InstrumentedClient) AssessProduct(ctx context.Context, patent reference.Patent, product reference.Product) (string, error) {
	start := time.Now()
	reply, err := c.inner.AssessProduct(ctx, patent, product)
	c.recorder.RecordLLMCall(c.inner.Name(), "assess", err, time.Since(start))
	return reply, err
}

func (c *InstrumentedClient) Summarize(ctx context.Context, patent reference.Patent, company reference.Company, findings []string) (string, error) {
	start := time.Now()
	summary, err := c.inner.Summarize(ctx, patent, company, findings)
	c.recorder.RecordLLMCall(c.inner.Name(), "summarize", err, time.Since(start))
	return summary, err
}
