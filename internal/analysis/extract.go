package analysis

import (
	"context"
	"fmt"
	"unicode/utf8"

	"resumefit/internal/config"
	"resumefit/internal/errors"
	"resumefit/internal/oracle"
	"resumefit/internal/types"
)

// Excerpt limits keep extraction prompts bounded; anything past these
// lengths rarely changes the structured facts
const (
	jobExcerptLimit    = 1500
	resumeExcerptLimit = 3000
)

// Extractor turns free text into structured job and resume facts via the
// oracle. Oracle exhaustion is fatal for these two stages; a response that
// cannot be parsed degrades to the documented empty defaults instead.
type Extractor struct {
	client  oracle.Client
	prompts *config.PromptStore
	logger  *errors.Logger
}

// NewExtractor creates an extractor for job descriptions and resumes
func NewExtractor(client oracle.Client, prompts *config.PromptStore, logger *errors.Logger) *Extractor {
	return &Extractor{client: client, prompts: prompts, logger: logger}
}

// ExtractJob extracts structured requirements from a job description.
// The returned JobRequirements is never nil-shaped: skill lists are always
// present after normalization.
func (e *Extractor) ExtractJob(ctx context.Context, jobDescription string) (types.JobRequirements, error) {
	system, user := resolvePrompts(e.prompts, oracle.OpExtractJob)

	completion, err := e.client.Complete(ctx, oracle.CompletionRequest{
		Operation: oracle.OpExtractJob,
		Prompt:    fmt.Sprintf(user, excerpt(jobDescription, jobExcerptLimit)),
		System:    system,
	})
	if err != nil {
		return types.JobRequirements{}, errors.NewOracleError(errors.ErrCodeOracleFailed,
			"Job requirements extraction failed", err)
	}

	var raw rawJobRequirements
	if err := decodeObject(completion.Text, &raw); err != nil {
		e.logger.LogError(err, "Failed to parse job extraction, using empty defaults",
			"operation", oracle.OpExtractJob)
		return emptyJobRequirements(), nil
	}

	return migrateJob(raw), nil
}

// ExtractResume extracts structured content from a resume
func (e *Extractor) ExtractResume(ctx context.Context, resumeText string) (types.ResumeContent, error) {
	system, user := resolvePrompts(e.prompts, oracle.OpExtractResume)

	completion, err := e.client.Complete(ctx, oracle.CompletionRequest{
		Operation: oracle.OpExtractResume,
		Prompt:    fmt.Sprintf(user, excerpt(resumeText, resumeExcerptLimit)),
		System:    system,
	})
	if err != nil {
		return types.ResumeContent{}, errors.NewOracleError(errors.ErrCodeOracleFailed,
			"Resume content extraction failed", err)
	}

	var content types.ResumeContent
	if err := decodeObject(completion.Text, &content); err != nil {
		e.logger.LogError(err, "Failed to parse resume extraction, using empty defaults",
			"operation", oracle.OpExtractResume)
		return emptyResumeContent(), nil
	}

	normalizeResumeContent(&content)
	return content, nil
}

// emptyJobRequirements is the documented fallback when the oracle's answer
// cannot be parsed; downstream stages must never see a nil structure
func emptyJobRequirements() types.JobRequirements {
	return types.JobRequirements{
		RequiredSkills:      []string{},
		PreferredSkills:     []string{},
		HardRequirements:    []string{},
		KeyResponsibilities: []string{},
		ToolsTechnologies:   []string{},
	}
}

func emptyResumeContent() types.ResumeContent {
	return types.ResumeContent{
		TechnicalSkills:    []string{},
		SoftSkills:         []string{},
		IndustriesWorkedIn: []string{},
		KeyAccomplishments: []string{},
		Certifications:     []string{},
		Languages:          []string{},
	}
}

// normalizeResumeContent replaces nil slices with empty ones so serialized
// results stay stable
func normalizeResumeContent(c *types.ResumeContent) {
	if c.TechnicalSkills == nil {
		c.TechnicalSkills = []string{}
	}
	if c.SoftSkills == nil {
		c.SoftSkills = []string{}
	}
	if c.IndustriesWorkedIn == nil {
		c.IndustriesWorkedIn = []string{}
	}
	if c.KeyAccomplishments == nil {
		c.KeyAccomplishments = []string{}
	}
	if c.Certifications == nil {
		c.Certifications = []string{}
	}
	if c.Languages == nil {
		c.Languages = []string{}
	}
}

// excerpt bounds prompt inputs to limit bytes, cutting on a rune boundary
// so multibyte text never reaches the oracle with a mangled tail
func excerpt(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}
