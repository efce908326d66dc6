package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"resumefit/internal/config"
	"resumefit/internal/errors"
	"resumefit/internal/oracle"
	"resumefit/internal/types"
)

// Matcher produces the raw five-factor match evidence for a job/resume pair.
// Unlike extraction, a match failure is never fatal: the pipeline continues
// with a neutral all-50 breakdown, which calibration turns into a clearly
// mid-range score.
type Matcher struct {
	client  oracle.Client
	prompts *config.PromptStore
	logger  *errors.Logger
}

// NewMatcher creates a match analyzer
func NewMatcher(client oracle.Client, prompts *config.PromptStore, logger *errors.Logger) *Matcher {
	return &Matcher{client: client, prompts: prompts, logger: logger}
}

// Match asks the oracle for raw per-factor evidence comparing the structured
// extractions. The overall score is deliberately not requested; scoring is
// the calibrator's job.
func (m *Matcher) Match(ctx context.Context, job types.JobRequirements, resume types.ResumeContent) types.MatchBreakdown {
	system, user := resolvePrompts(m.prompts, oracle.OpMatch)

	jobJSON, err := json.Marshal(job)
	if err != nil {
		m.logger.LogError(err, "Failed to serialize job requirements for matching")
		return defaultBreakdown()
	}
	resumeJSON, err := json.Marshal(resume)
	if err != nil {
		m.logger.LogError(err, "Failed to serialize resume content for matching")
		return defaultBreakdown()
	}

	completion, err := m.client.Complete(ctx, oracle.CompletionRequest{
		Operation: oracle.OpMatch,
		Prompt:    fmt.Sprintf(user, string(jobJSON), string(resumeJSON)),
		System:    system,
	})
	if err != nil {
		m.logger.LogError(err, "Match analysis failed, using neutral breakdown",
			"operation", oracle.OpMatch)
		return defaultBreakdown()
	}

	var raw rawMatchBreakdown
	if err := decodeObject(completion.Text, &raw); err != nil {
		m.logger.LogError(err, "Failed to parse match analysis, using neutral breakdown",
			"operation", oracle.OpMatch)
		return defaultBreakdown()
	}

	return migrateBreakdown(raw)
}

// defaultBreakdown is the documented neutral fallback: every factor at 50,
// no keywords, bonuses or violations
func defaultBreakdown() types.MatchBreakdown {
	return types.MatchBreakdown{
		SkillAlignment:       types.SkillAlignment{Score: neutralFactorScore},
		ExperienceFit:        types.ExperienceFit{Score: neutralFactorScore},
		ContentQuality:       types.ContentQuality{Score: neutralFactorScore},
		JobSpecificMatch:     types.JobSpecificMatch{Score: neutralFactorScore},
		ATSReadability:       types.ATSReadability{Score: neutralFactorScore},
		KeywordsMissing:      []types.MissingKeyword{},
		Bonuses:              []types.Bonus{},
		HardFilterViolations: []types.HardFilterViolation{},
	}
}
