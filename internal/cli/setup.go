package cli

import (
	"context"
	"fmt"

	"resumefit/internal/cache"
	"resumefit/internal/config"
	"resumefit/internal/errors"
	"resumefit/internal/observability"
	"resumefit/internal/oracle"
	"resumefit/internal/pipeline"
)

// buildPipeline wires the oracle client, prompt store and cache into an
// analysis pipeline. The returned store and prompt store must be closed by
// the caller.
func buildPipeline(ctx context.Context, cfg *config.Config, logger *errors.Logger, metrics *observability.Metrics) (*pipeline.Pipeline, oracle.Client, cache.Store, *config.PromptStore, error) {
	client, err := oracle.NewGeminiClient(ctx, &cfg.Oracle, logger)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to create oracle client: %w", err)
	}

	prompts, err := config.NewPromptStore(cfg.Oracle.Prompts, logger)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to load prompt overrides: %w", err)
	}
	if err := prompts.Watch(); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to watch prompt override files: %w", err)
	}

	store := cache.New(cfg.Cache, logger)
	pipe := pipeline.New(observability.InstrumentOracle(client, metrics), prompts, store, cfg.Cache.TTL, metrics, logger)
	return pipe, client, store, prompts, nil
}
