package llm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"patent-checker/internal/cache"
	"patent-checker/internal/reference"
)

// CacheRecorder observes reply cache lookups
type CacheRecorder interface {
	RecordCacheLookup(hit bool)
}

// CachedClient memoizes AssessProduct replies. Requests run at temperature 0 so a
// reply for the same provider, model, patent and product is reused. Summaries are
// never cached.
type CachedClient struct {
	inner    Client
	cache    cache.Cache
	ttl      time.Duration
	model    string
	recorder CacheRecorder
}

func NewCachedClient(inner Client, c cache.Cache, ttl time.Duration, recorder CacheRecorder) *CachedClient {
	model := ""
	if m, ok := inner.(interface{ Model() string }); ok {
		model = m.Model()
	}
	if ttl <= 0 {
		ttl = cache.LLMReplyTTL
	}
	return &CachedClient{
		inner:    inner,
		cache:    c,
		ttl:      ttl,
		model:    model,
		recorder: recorder,
	}
}

func (c *CachedClient) Name() string {
	return c.inner.Name()
}

func (c *CachedClient) AssessProduct(ctx context.Context, patent reference.Patent, product reference.Product) (string, error) {
	key := c.key(patent, product)
	logger := zerolog.Ctx(ctx)

	cached, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		c.record(true)
		logger.Debug().Str("product", product.Name).Msg("LLM reply cache hit")
		return string(cached), nil
	case !errors.Is(err, cache.ErrKeyNotFound):
		logger.Warn().Err(err).Msg("LLM reply cache read failed")
	}
	c.record(false)

	reply, err := c.inner.AssessProduct(ctx, patent, product)
	if err != nil {
		return "", err
	}

	if err := c.cache.Set(ctx, key, []byte(reply), c.ttl); err != nil {
		logger.Warn().Err(err).Msg("LLM reply cache write failed")
	}
	return reply, nil
}

// Forget drops the cached reply for one patent and product so the next
// AssessProduct call reaches the upstream.
func (c *CachedClient) Forget(ctx context.Context, patent reference.Patent, product reference.Product) error {
	return c.cache.Del(ctx, c.key(patent, product))
}

func (c *CachedClient) key(patent reference.Patent, product reference.Product) string {
	return cache.LLMReplyKey(c.inner.Name(), c.model, patent.PublicationNumber, patent.PromptText(), product.PromptText())
}

func (c *CachedClient) Summarize(ctx context.Context, patent reference.Patent, company reference.Company, findings []string) (string, error) {
	return c.inner.Summarize(ctx, patent, company, findings)
}

func (c *CachedClient) record(hit bool) {
	if c.recorder != nil {
		c.recorder.RecordCacheLookup(hit)
	}
}
