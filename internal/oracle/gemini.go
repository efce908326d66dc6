package oracle

import (
	"context"
	"fmt"

	"resumefit/internal/config"
	resumefitErrors "resumefit/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/semaphore"
	"google.golang.org/genai"
)

// GeminiClient implements Client on top of Google Gemini. All completions
// share one concurrency gate so that no more than MaxConcurrent requests are
// in flight at once, regardless of which pipeline stage issued them.
type GeminiClient struct {
	client       *genai.Client
	cfg          *config.OracleConfig
	gate         *semaphore.Weighted
	breakers     map[string]*CircuitBreaker
	modelBreaker *ModelCircuitBreaker
	logger       *resumefitErrors.Logger
}

var _ Client = (*GeminiClient)(nil)

// NewGeminiClient creates a Gemini-backed oracle client
func NewGeminiClient(ctx context.Context, cfg *config.OracleConfig, logger *resumefitErrors.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, resumefitErrors.NewConfigError(resumefitErrors.ErrCodeMissingAPIKey,
			"Oracle API key is not configured", nil)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, resumefitErrors.NewOracleError(resumefitErrors.ErrCodeOracleFailed,
			"Failed to create Gemini client", err)
	}

	breakers := make(map[string]*CircuitBreaker)
	for _, op := range []string{OpExtractJob, OpExtractResume, OpMatch, OpOptimize, OpRecommend, OpDetectLanguage} {
		breakers[op] = NewCircuitBreaker(op, cfg.CircuitBreaker, logger)
	}

	return &GeminiClient{
		client:       client,
		cfg:          cfg,
		gate:         semaphore.NewWeighted(cfg.MaxConcurrent),
		breakers:     breakers,
		modelBreaker: NewModelCircuitBreaker(cfg.CircuitBreaker, logger),
		logger:       logger,
	}, nil
}

// Complete sends one prompt to Gemini and returns the raw text response.
// The call is gated by the shared concurrency limit, protected by the
// operation's circuit breaker and retried per the operation's settings.
func (g *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	resolved := g.cfg.ForOperation(req.Operation)

	tracer := otel.Tracer("resumefit.oracle.gemini")
	ctx, span := tracer.Start(ctx, "oracle."+req.Operation)
	defer span.End()

	span.SetAttributes(
		attribute.String("oracle.provider", "gemini"),
		attribute.String("oracle.model", resolved.Model),
		attribute.Int("oracle.prompt_length", len(req.Prompt)),
	)

	genaiConfig := &genai.GenerateContentConfig{}
	if resolved.Temperature > 0 {
		temp := resolved.Temperature
		genaiConfig.Temperature = &temp
	}
	if req.System != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	if err := g.gate.Acquire(ctx, 1); err != nil {
		span.RecordError(err)
		return nil, resumefitErrors.NewOracleError(resumefitErrors.ErrCodeOracleTimeout,
			"Cancelled while waiting for oracle slot", err)
	}
	defer g.gate.Release(1)

	policy := &RetryPolicy{
		MaxAttempts: resolved.MaxRetries + 1,
		BaseDelay:   DefaultRetryPolicy().BaseDelay,
		MaxDelay:    DefaultRetryPolicy().MaxDelay,
		IsRetryable: IsRetryableOracleError,
	}

	result, err := g.breakers[req.Operation].Execute(func() (*genai.GenerateContentResponse, error) {
		return Do(ctx, policy, g.logger, req.Operation, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
			attemptCtx, cancel := context.WithTimeout(ctx, resolved.Timeout)
			defer cancel()
			return g.client.Models.GenerateContent(attemptCtx, resolved.Model, genai.Text(req.Prompt), genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, resumefitErrors.NewOracleError(resumefitErrors.ErrCodeOracleFailed,
			"Oracle completion failed for "+req.Operation, err)
	}

	usage := extractTokenUsage(result)
	if usage != nil {
		span.SetAttributes(
			attribute.Int64("oracle.tokens.input", usage.InputTokens),
			attribute.Int64("oracle.tokens.output", usage.OutputTokens),
			attribute.Int64("oracle.tokens.total", usage.TotalTokens),
		)
	}
	span.SetAttributes(attribute.Bool("success", true))

	return &Completion{
		Text:  result.Text(),
		Usage: usage,
	}, nil
}

// extractTokenUsage pulls token counts out of a Gemini response, or returns
// nil when the response carries no usage metadata.
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}
	return &TokenUsage{
		InputTokens:  int64(result.UsageMetadata.PromptTokenCount),
		OutputTokens: int64(result.UsageMetadata.CandidatesTokenCount),
		TotalTokens:  int64(result.UsageMetadata.TotalTokenCount),
	}
}

// GetModelInfo checks availability of the globally configured model
func (g *GeminiClient) GetModelInfo(ctx context.Context) *ModelInfo {
	info := &ModelInfo{
		Name:      g.cfg.Model,
		Available: false,
	}

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(ctx, g.cfg.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		info.Error = fmt.Sprintf("Failed to get model info: %v", err)
		if g.logger != nil {
			g.logger.Warn("Model availability check failed",
				"model", g.cfg.Model,
				"error", err.Error())
		}
		return info
	}

	info.Available = true
	info.DisplayName = model.DisplayName
	info.Version = model.Version
	return info
}

// Stats returns per-operation circuit breaker statistics
func (g *GeminiClient) Stats() map[string]any {
	stats := make(map[string]any, len(g.breakers)+1)
	healthy := true
	for op, cb := range g.breakers {
		stats[op] = cb.Stats()
		healthy = healthy && cb.IsHealthy()
	}
	stats["overall_healthy"] = healthy
	return stats
}

// Close releases the oracle client
func (g *GeminiClient) Close() error {
	// The genai client holds no resources needing explicit release in
	// single-shot usage.
	return nil
}
