package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"resumefit/internal/analysis"
	"resumefit/internal/ats"
	"resumefit/internal/cache"
	"resumefit/internal/config"
	"resumefit/internal/errors"
	"resumefit/internal/language"
	"resumefit/internal/observability"
	"resumefit/internal/oracle"
	"resumefit/internal/scoring"
	"resumefit/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Pipeline runs the full analysis: extraction, heuristics, matching,
// calibration, explanation and advice, with caching around the whole thing.
// All collaborators are injected; the pipeline holds no hidden global state.
type Pipeline struct {
	extractor *analysis.Extractor
	matcher   *analysis.Matcher
	advisor   *analysis.Advisor
	detector  *language.Detector
	store     cache.Store
	ttl       time.Duration
	metrics   *observability.Metrics
	logger    *errors.Logger

	// flight collapses concurrent identical requests into one computation
	flight singleflight.Group
}

// New wires a pipeline from its collaborators
func New(client oracle.Client, prompts *config.PromptStore, store cache.Store, cacheTTL time.Duration, metrics *observability.Metrics, logger *errors.Logger) *Pipeline {
	if metrics == nil {
		metrics = &observability.Metrics{}
	}
	if logger == nil {
		logger = errors.NewLogger(slog.LevelInfo)
	}
	return &Pipeline{
		extractor: analysis.NewExtractor(client, prompts, logger),
		matcher:   analysis.NewMatcher(client, prompts, logger),
		advisor:   analysis.NewAdvisor(client, prompts, logger),
		detector:  language.NewDetector(client, logger),
		store:     store,
		ttl:       cacheTTL,
		metrics:   metrics,
		logger:    logger,
	}
}

// Analyze scores a resume against a job description. lang may be empty, in
// which case the dominant language of the resume is detected. Concurrent
// calls for the same (resume, job) pair share one computation and one cache
// write.
func (p *Pipeline) Analyze(ctx context.Context, resumeText, jobDescription, lang string) (*types.AnalysisResult, error) {
	if resumeText == "" || jobDescription == "" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Both resume text and job description are required", nil)
	}

	tracer := otel.Tracer("resumefit.pipeline")
	ctx, span := tracer.Start(ctx, "pipeline.analyze")
	defer span.End()
	span.SetAttributes(
		attribute.Int("input.resume_length", len(resumeText)),
		attribute.Int("input.job_length", len(jobDescription)),
	)

	key := cache.Key(resumeText, jobDescription)

	// The computation is shared with any caller that joins the flight, so it
	// must not die with the first caller's context. Per-attempt oracle
	// timeouts still bound every call.
	flightCtx := context.WithoutCancel(ctx)
	value, err, _ := p.flight.Do(key, func() (any, error) {
		return p.analyzeUncached(flightCtx, key, resumeText, jobDescription, lang)
	})
	if err != nil {
		span.RecordError(err)
		p.metrics.RecordAnalysis(ctx, false)
		return nil, err
	}

	result := value.(*types.AnalysisResult)
	span.SetAttributes(attribute.Float64("result.overall_score", result.OverallScore))
	p.metrics.RecordAnalysis(ctx, true)
	return result, nil
}

func (p *Pipeline) analyzeUncached(ctx context.Context, key, resumeText, jobDescription, lang string) (*types.AnalysisResult, error) {
	if lang == "" {
		lang = p.detector.Detect(ctx, resumeText)
	}

	if p.store != nil {
		if cached, ok := p.store.Get(ctx, key); ok {
			var result types.AnalysisResult
			if err := json.Unmarshal(cached, &result); err == nil {
				p.metrics.RecordCacheLookup(ctx, true)
				p.logger.Debug("Analysis cache hit", "key", key)
				return &result, nil
			}
			p.logger.Warn("Discarding undecodable cache entry", "key", key)
		}
		p.metrics.RecordCacheLookup(ctx, false)
	}

	// Batch 1: the two extractions run concurrently. Both must succeed;
	// analyzing half the data would silently misscore, so either failure
	// aborts the request.
	var job types.JobRequirements
	var resume types.ResumeContent

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		job, err = p.extractor.ExtractJob(gctx, jobDescription)
		return err
	})
	g.Go(func() error {
		var err error
		resume, err = p.extractor.ExtractResume(gctx, resumeText)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	heuristic := ats.Check(resumeText)

	mb := p.matcher.Match(ctx, job, resume)

	calc := scoring.Calibrate(mb, job, &heuristic)
	breakdown := scoring.BuildBreakdown(calc, mb, job, &heuristic)

	// Batch 2 strictly follows calibration: both advisory calls consume the
	// missing-keywords list.
	var tips, recs []string

	g2, g2ctx := errgroup.WithContext(ctx)
	g2.Go(func() error {
		tips = p.advisor.Optimize(g2ctx, mb.KeywordsMissing, lang)
		return nil
	})
	g2.Go(func() error {
		recs = p.advisor.Recommend(g2ctx, job.Industry, mb.KeywordsMissing, lang)
		return nil
	})
	_ = g2.Wait() // advisory calls never fail the pipeline

	result := &types.AnalysisResult{
		OverallScore:        calc.FinalScore,
		Interpretation:      calc.Interpretation,
		MatchAnalysis:       mb,
		ATSOptimization:     tips,
		Recommendations:     recs,
		JobIndustry:         job.Industry,
		JobLevel:            job.ExperienceLevel,
		ResumeLevel:         resume.ExperienceLevel,
		ExpectedATSPassRate: fmt.Sprintf("%.0f%%", calc.RawComponents.ATSReadability),
		DetectedLanguage:    lang,
		ScoreBreakdown:      breakdown,
	}

	if p.store != nil {
		if payload, err := json.Marshal(result); err == nil {
			p.store.Set(ctx, key, payload, p.ttl)
		} else {
			p.logger.Warn("Failed to serialize result for caching", "error", err.Error())
		}
	}

	return result, nil
}
