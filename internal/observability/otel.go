package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resumefit/internal/config"
	"resumefit/internal/oracle"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Metrics holds all custom metrics for the analysis pipeline
type Metrics struct {
	// Oracle call metrics
	OracleLatency  metric.Float64Histogram
	OracleRequests metric.Int64Counter
	OracleErrors   metric.Int64Counter
	OracleTokens   metric.Int64Histogram

	// Business metrics
	AnalysesCompleted metric.Int64Counter
	CacheHits         metric.Int64Counter
	CacheMisses       metric.Int64Counter

	// Rate limiting metrics
	RateLimitHits metric.Int64Counter
}

// Manager owns the OpenTelemetry tracer and meter providers
type Manager struct {
	cfg            config.ObservabilityConfig
	tracerProvider *trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metrics        *Metrics
	shutdownFuncs  []func(context.Context) error
}

// NewManager sets up tracing and metrics per configuration. A disabled
// configuration yields an inert manager whose methods are all safe no-ops.
func NewManager(cfg config.ObservabilityConfig) (*Manager, error) {
	if !cfg.Enabled {
		return &Manager{cfg: cfg}, nil
	}

	m := &Manager{
		cfg:           cfg,
		shutdownFuncs: make([]func(context.Context) error, 0),
	}

	if err := m.initTracing(); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return m, nil
}

func (m *Manager) createResource() (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(m.cfg.ServiceName),
			semconv.ServiceVersion(m.cfg.ServiceVersion),
			attribute.String("service.instance.id", m.serviceInstanceID()),
		),
	)
}

func (m *Manager) initTracing() error {
	var exporter trace.SpanExporter
	var err error

	switch {
	case m.cfg.ConsoleOutput:
		exporter, err = stdouttrace.New()
	case m.cfg.OTLP.Enabled:
		exporter, err = m.createOTLPTraceExporter()
	default:
		exporter = &noOpSpanExporter{}
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := m.createResource()
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(m.cfg.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	m.tracerProvider = tp
	m.shutdownFuncs = append(m.shutdownFuncs, tp.Shutdown)
	return nil
}

func (m *Manager) initMetrics() error {
	var readers []sdkmetric.Reader

	if m.cfg.ConsoleOutput {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(15*time.Second)))
	}

	if m.cfg.OTLP.Enabled {
		reader, err := m.createOTLPMetricsReader()
		if err != nil {
			return err
		}
		readers = append(readers, reader)
	}

	if m.cfg.Prometheus.Enabled {
		reader, mux, err := SetupPrometheusExporter(m.cfg.Prometheus)
		if err != nil {
			return fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		readers = append(readers, reader)
		if err := StartPrometheusServer(mux, m.cfg.Prometheus.Port); err != nil {
			return fmt.Errorf("failed to start Prometheus server: %w", err)
		}
	}

	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}

	res, err := m.createResource()
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	m.meterProvider = mp
	m.shutdownFuncs = append(m.shutdownFuncs, mp.Shutdown)

	return m.initCustomMetrics()
}

func (m *Manager) initCustomMetrics() error {
	meter := m.meterProvider.Meter(m.cfg.ServiceName)
	m.metrics = &Metrics{}
	var err error

	m.metrics.OracleLatency, err = meter.Float64Histogram(
		"resumefit_oracle_duration_seconds",
		metric.WithDescription("Time spent on oracle calls"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create oracle latency metric: %w", err)
	}

	m.metrics.OracleRequests, err = meter.Int64Counter(
		"resumefit_oracle_requests_total",
		metric.WithDescription("Total number of oracle calls"),
	)
	if err != nil {
		return fmt.Errorf("failed to create oracle request metric: %w", err)
	}

	m.metrics.OracleErrors, err = meter.Int64Counter(
		"resumefit_oracle_errors_total",
		metric.WithDescription("Total number of failed oracle calls"),
	)
	if err != nil {
		return fmt.Errorf("failed to create oracle error metric: %w", err)
	}

	m.metrics.OracleTokens, err = meter.Int64Histogram(
		"resumefit_oracle_token_usage_total",
		metric.WithDescription("Token usage per oracle call (input, output, total)"),
		metric.WithUnit("tokens"),
	)
	if err != nil {
		return fmt.Errorf("failed to create oracle token metric: %w", err)
	}

	m.metrics.AnalysesCompleted, err = meter.Int64Counter(
		"resumefit_analyses_total",
		metric.WithDescription("Total number of completed analyses"),
	)
	if err != nil {
		return fmt.Errorf("failed to create analyses metric: %w", err)
	}

	m.metrics.CacheHits, err = meter.Int64Counter(
		"resumefit_cache_hits_total",
		metric.WithDescription("Total number of analysis cache hits"),
	)
	if err != nil {
		return fmt.Errorf("failed to create cache hit metric: %w", err)
	}

	m.metrics.CacheMisses, err = meter.Int64Counter(
		"resumefit_cache_misses_total",
		metric.WithDescription("Total number of analysis cache misses"),
	)
	if err != nil {
		return fmt.Errorf("failed to create cache miss metric: %w", err)
	}

	m.metrics.RateLimitHits, err = meter.Int64Counter(
		"resumefit_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limit metric: %w", err)
	}

	return nil
}

// GetMetrics returns the metrics instance; never nil
func (m *Manager) GetMetrics() *Metrics {
	if m.metrics == nil {
		return &Metrics{}
	}
	return m.metrics
}

// HTTPMiddleware returns HTTP middleware with OpenTelemetry instrumentation
func (m *Manager) HTTPMiddleware() func(http.Handler) http.Handler {
	if !m.cfg.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}
	return otelhttp.NewMiddleware(
		m.cfg.ServiceName,
		otelhttp.WithTracerProvider(m.tracerProvider),
		otelhttp.WithMeterProvider(m.meterProvider),
	)
}

// Tracer returns a tracer for the service
func (m *Manager) Tracer(name string) oteltrace.Tracer {
	if !m.cfg.Enabled {
		return noop.NewTracerProvider().Tracer(name)
	}
	return otel.Tracer(name)
}

// Shutdown flushes and stops all providers
func (m *Manager) Shutdown(ctx context.Context) error {
	for _, shutdown := range m.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

// RecordOracleCall records latency, count and token usage for one oracle call
func (mt *Metrics) RecordOracleCall(ctx context.Context, operation string, duration time.Duration, usage *oracle.TokenUsage, err error) {
	if mt.OracleRequests == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}

	mt.OracleRequests.Add(ctx, 1, metric.WithAttributes(attrs...))
	mt.OracleLatency.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	if err != nil {
		mt.OracleErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	if usage != nil && mt.OracleTokens != nil {
		for tokenType, value := range map[string]int64{
			"input":  usage.InputTokens,
			"output": usage.OutputTokens,
			"total":  usage.TotalTokens,
		} {
			mt.OracleTokens.Record(ctx, value, metric.WithAttributes(
				attribute.String("operation", operation),
				attribute.String("token_type", tokenType),
			))
		}
	}
}

// RecordAnalysis counts one completed analysis
func (mt *Metrics) RecordAnalysis(ctx context.Context, success bool) {
	if mt.AnalysesCompleted == nil {
		return
	}
	mt.AnalysesCompleted.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

// RecordCacheLookup counts a cache hit or miss
func (mt *Metrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if hit {
		if mt.CacheHits != nil {
			mt.CacheHits.Add(ctx, 1)
		}
		return
	}
	if mt.CacheMisses != nil {
		mt.CacheMisses.Add(ctx, 1)
	}
}

// RecordRateLimitHit counts one rejected request
func (mt *Metrics) RecordRateLimitHit(ctx context.Context, key string) {
	if mt.RateLimitHits == nil {
		return
	}
	mt.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("key", key)))
}

type noOpSpanExporter struct{}

func (n *noOpSpanExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	return nil
}

func (n *noOpSpanExporter) Shutdown(ctx context.Context) error { return nil }

func (m *Manager) createOTLPTraceExporter() (trace.SpanExporter, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(m.cfg.OTLP.Endpoint),
	}
	if m.cfg.OTLP.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(m.cfg.OTLP.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(m.cfg.OTLP.Headers))
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	return exporter, nil
}

func (m *Manager) createOTLPMetricsReader() (sdkmetric.Reader, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpointURL(m.cfg.OTLP.Endpoint),
	}
	if m.cfg.OTLP.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(m.cfg.OTLP.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(m.cfg.OTLP.Headers))
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}
	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(15*time.Second)), nil
}

func (m *Manager) serviceInstanceID() string {
	if m.cfg.ServiceInstance != "" {
		return m.cfg.ServiceInstance
	}
	return "resumefit-1"
}
