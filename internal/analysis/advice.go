package analysis

import (
	"context"
	"fmt"
	"strings"

	"resumefit/internal/config"
	"resumefit/internal/errors"
	"resumefit/internal/oracle"
	"resumefit/internal/types"
)

// Advisor produces the two advisory outputs: ATS keyword-placement tips and
// career coaching recommendations. The two calls are independent and each
// degrades to an empty list on failure; advice is never load-bearing.
type Advisor struct {
	client  oracle.Client
	prompts *config.PromptStore
	logger  *errors.Logger
}

// NewAdvisor creates an advisor
func NewAdvisor(client oracle.Client, prompts *config.PromptStore, logger *errors.Logger) *Advisor {
	return &Advisor{client: client, prompts: prompts, logger: logger}
}

// Optimize returns ATS keyword-placement tips for the missing keywords
func (a *Advisor) Optimize(ctx context.Context, missing []types.MissingKeyword, language string) []string {
	system, user := resolvePrompts(a.prompts, oracle.OpOptimize)

	completion, err := a.client.Complete(ctx, oracle.CompletionRequest{
		Operation: oracle.OpOptimize,
		Prompt:    fmt.Sprintf(user, formatMissingKeywords(missing), language),
		System:    system,
	})
	if err != nil {
		a.logger.LogError(err, "ATS optimization failed, returning no tips",
			"operation", oracle.OpOptimize)
		return []string{}
	}

	var out struct {
		ATSOptimization []string `json:"ats_optimization"`
	}
	if err := decodeObject(completion.Text, &out); err != nil {
		a.logger.LogError(err, "Failed to parse ATS optimization, returning no tips",
			"operation", oracle.OpOptimize)
		return []string{}
	}
	if out.ATSOptimization == nil {
		return []string{}
	}
	return out.ATSOptimization
}

// Recommend returns industry-specific coaching advice
func (a *Advisor) Recommend(ctx context.Context, industry string, missing []types.MissingKeyword, language string) []string {
	system, user := resolvePrompts(a.prompts, oracle.OpRecommend)

	if industry == "" {
		industry = "general"
	}

	completion, err := a.client.Complete(ctx, oracle.CompletionRequest{
		Operation: oracle.OpRecommend,
		Prompt:    fmt.Sprintf(user, industry, formatMissingKeywords(missing), language),
		System:    system,
	})
	if err != nil {
		a.logger.LogError(err, "Recommendation generation failed, returning none",
			"operation", oracle.OpRecommend)
		return []string{}
	}

	var out struct {
		Recommendations []string `json:"recommendations"`
	}
	if err := decodeObject(completion.Text, &out); err != nil {
		a.logger.LogError(err, "Failed to parse recommendations, returning none",
			"operation", oracle.OpRecommend)
		return []string{}
	}
	if out.Recommendations == nil {
		return []string{}
	}
	return out.Recommendations
}

// formatMissingKeywords renders the missing-keyword list for a prompt
func formatMissingKeywords(missing []types.MissingKeyword) string {
	if len(missing) == 0 {
		return "(none)"
	}

	var b strings.Builder
	for _, kw := range missing {
		fmt.Fprintf(&b, "- %s (%s)", kw.Keyword, kw.Importance)
		if kw.WhyMatters != "" {
			fmt.Fprintf(&b, ": %s", kw.WhyMatters)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
