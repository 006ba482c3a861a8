package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"patent-checker/internal/cache"
	"patent-checker/internal/config"
	"patent-checker/internal/metrics"
	"patent-checker/internal/reference"
	"patent-checker/internal/repo"
	"patent-checker/internal/services/infringement"
	"patent-checker/internal/services/llm"
)

func openRepository(ctx context.Context, cfg *config.Config) (repo.Repository, error) {
	return repo.Open(ctx, repo.Options{
		Driver:     cfg.Database.Driver,
		Host:       cfg.Database.Host,
		Port:       cfg.Database.Port,
		User:       cfg.Database.User,
		Password:   cfg.Database.Password,
		Name:       cfg.Database.Name,
		SQLitePath: cfg.Database.SQLitePath,
	})
}

// newReplyCache picks Redis when configured, otherwise an in-process cache
func newReplyCache(cfg *config.Config) (cache.Cache, error) {
	if cfg.Redis.Addr != "" {
		return cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}
	return cache.NewMemoryCache(cfg.LLM.CacheTTL, 10*time.Minute), nil
}

// newLLMClient builds the provider wrapped with metrics and, unless disabled, the reply cache.
// The returned cleanup releases the cache.
func newLLMClient(cfg *config.Config, m *metrics.Manager) (llm.Client, func(), error) {
	provider, err := llm.NewClient(llm.Config{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
		Model:    cfg.LLM.Model,
		Timeout:  cfg.LLM.Timeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	var client llm.Client = provider
	var cacheRecorder llm.CacheRecorder
	if m != nil {
		client = llm.NewInstrumentedClient(client, m)
		cacheRecorder = m
	}

	if cfg.LLM.CacheTTL <= 0 {
		log.Info().Str("provider", client.Name()).Msg("LLM reply cache disabled")
		return client, func() {}, nil
	}

	replyCache, err := newReplyCache(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM reply cache: %w", err)
	}
	log.Info().Str("provider", client.Name()).Dur("ttl", cfg.LLM.CacheTTL).Msg("LLM reply cache enabled")

	cleanup := func() {
		if err := replyCache.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close LLM reply cache")
		}
	}
	return llm.NewCachedClient(client, replyCache, cfg.LLM.CacheTTL, cacheRecorder), cleanup, nil
}

func loadReference(cfg *config.Config) (*reference.Store, error) {
	store, err := reference.Load(cfg.Assets.PatentsPath, cfg.Assets.CompanyProductsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference assets: %w", err)
	}
	return store, nil
}

// newAssessmentService wires the orchestrator.
// saver may be nil; it is only used when auto-save is enabled.
func newAssessmentService(cfg *config.Config, store *reference.Store, client llm.Client, saver infringement.Saver, m *metrics.Manager) *infringement.Service {
	opts := []infringement.Option{
		infringement.WithConcurrency(cfg.LLM.MaxConcurrency),
	}
	if cfg.Assessment.AutoSave && saver != nil {
		opts = append(opts, infringement.WithAutoSave(saver))
	}
	if m != nil {
		opts = append(opts, infringement.WithRecorder(m))
	}

	return infringement.NewService(store, client, opts...)
}

// forgetCachedReplies evicts cached assessment replies for every product of the
// company so the run reaches the upstream. Unknown names are left to Assess to report.
func forgetCachedReplies(ctx context.Context, client llm.Client, store *reference.Store, patentID, companyName string) error {
	cached, ok := client.(*llm.CachedClient)
	if !ok {
		return nil
	}
	patent, ok := store.Patent(patentID)
	if !ok {
		return nil
	}
	company, ok := store.Company(companyName)
	if !ok {
		return nil
	}
	for _, product := range company.Products {
		if err := cached.Forget(ctx, patent, product); err != nil {
			return fmt.Errorf("failed to evict cached reply for %s: %w", product.Name, err)
		}
	}
	return nil
}
