package observability

import (
	"context"
	"time"

	"resumefit/internal/oracle"
)

// instrumentedOracle wraps an oracle client and records per-call metrics
type instrumentedOracle struct {
	inner   oracle.Client
	metrics *Metrics
}

// InstrumentOracle decorates an oracle client with call metrics. The client
// is returned unchanged when metrics is nil.
func InstrumentOracle(client oracle.Client, metrics *Metrics) oracle.Client {
	if metrics == nil {
		return client
	}
	return &instrumentedOracle{inner: client, metrics: metrics}
}

func (o *instrumentedOracle) Complete(ctx context.Context, req oracle.CompletionRequest) (*oracle.Completion, error) {
	start := time.Now()
	completion, err := o.inner.Complete(ctx, req)

	var usage *oracle.TokenUsage
	if completion != nil {
		usage = completion.Usage
	}
	o.metrics.RecordOracleCall(ctx, req.Operation, time.Since(start), usage, err)

	return completion, err
}

func (o *instrumentedOracle) GetModelInfo(ctx context.Context) *oracle.ModelInfo {
	return o.inner.GetModelInfo(ctx)
}

func (o *instrumentedOracle) Close() error {
	return o.inner.Close()
}
