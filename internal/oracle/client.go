package oracle

import (
	"context"
)

// Pipeline operation names. Each operation can carry its own model, timeout
// and retry settings in configuration.
const (
	OpExtractJob     = "extract_job"
	OpExtractResume  = "extract_resume"
	OpMatch          = "match"
	OpOptimize       = "optimize"
	OpRecommend      = "recommend"
	OpDetectLanguage = "detect_language"
)

// CompletionRequest is one prompt for the text-generation oracle
type CompletionRequest struct {
	Operation string // one of the Op* constants
	Prompt    string
	System    string // optional system instruction
}

// TokenUsage reports token consumption for one completion
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// Completion is the oracle's raw answer. Text is free-form and may wrap a
// JSON object in markdown fences; callers are responsible for parsing.
type Completion struct {
	Text  string
	Usage *TokenUsage
}

// ModelInfo describes the configured model for health checks
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// Client is the boundary to the external text-generation oracle. The oracle
// is treated as non-deterministic and unreliable; implementations handle
// retries, circuit breaking and concurrency limits so that callers only see
// the final outcome.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
