package analysis

import (
	"encoding/json"

	"resumefit/internal/types"
)

// The oracle answers in one of two shapes per field: the current schema or a
// legacy one (renamed fields, bare numbers for factors, bare strings for
// keywords). Each raw* type below accepts both, and one migrate* function
// deterministically converts it into the canonical internal type. All
// normalization lives here; the rest of the pipeline only ever sees the
// canonical shapes.

// neutralFactorScore fills in factors the oracle omitted entirely
const neutralFactorScore = 50.0

// Default penalties for missing-keyword entries that arrived without one
const (
	defaultRequiredPenalty = 10.0
	defaultOtherPenalty    = 2.0
)

// rawJobRequirements tolerates both current and legacy job extraction shapes
type rawJobRequirements struct {
	RequiredSkills        []string                    `json:"required_skills"`
	CoreSkills            []string                    `json:"core_skills"` // legacy name
	PreferredSkills       []string                    `json:"preferred_skills"`
	NiceToHave            []string                    `json:"nice_to_have"` // legacy name
	HardRequirements      []string                    `json:"hard_requirements"`
	ExperienceRequired    json.RawMessage             `json:"experience_required"` // struct or bare string
	ExperienceLevel       string                      `json:"experience_level"`
	Industry              string                      `json:"industry"`
	KeyResponsibilities   []string                    `json:"key_responsibilities"`
	ToolsTechnologies     []string                    `json:"tools_technologies"`
	EducationRequirements types.EducationRequirements `json:"education_requirements"`
}

// migrateJob converts a raw job extraction into the canonical shape.
// RequiredSkills and PreferredSkills are non-nil afterwards.
func migrateJob(raw rawJobRequirements) types.JobRequirements {
	job := types.JobRequirements{
		RequiredSkills:        raw.RequiredSkills,
		PreferredSkills:       raw.PreferredSkills,
		HardRequirements:      raw.HardRequirements,
		ExperienceRequired:    migrateExperienceRequired(raw.ExperienceRequired),
		ExperienceLevel:       raw.ExperienceLevel,
		Industry:              raw.Industry,
		KeyResponsibilities:   raw.KeyResponsibilities,
		ToolsTechnologies:     raw.ToolsTechnologies,
		EducationRequirements: raw.EducationRequirements,
	}

	if job.RequiredSkills == nil {
		job.RequiredSkills = raw.CoreSkills
	}
	if job.RequiredSkills == nil {
		job.RequiredSkills = []string{}
	}
	if job.PreferredSkills == nil {
		job.PreferredSkills = raw.NiceToHave
	}
	if job.PreferredSkills == nil {
		job.PreferredSkills = []string{}
	}

	return job
}

// migrateExperienceRequired accepts the structured shape or a legacy bare
// string, which is preserved as the description with zeroed numeric fields
func migrateExperienceRequired(raw json.RawMessage) types.ExperienceRequirement {
	if len(raw) == 0 || string(raw) == "null" {
		return types.ExperienceRequirement{}
	}

	var structured types.ExperienceRequirement
	if err := json.Unmarshal(raw, &structured); err == nil {
		return structured
	}

	var legacy string
	if err := json.Unmarshal(raw, &legacy); err == nil {
		return types.ExperienceRequirement{Description: legacy}
	}

	return types.ExperienceRequirement{}
}

// rawMatchBreakdown tolerates factors that arrived as bare numbers and
// keyword entries that arrived as bare strings
type rawMatchBreakdown struct {
	SkillAlignment       json.RawMessage             `json:"skill_alignment"`
	ExperienceFit        json.RawMessage             `json:"experience_fit"`
	ContentQuality       json.RawMessage             `json:"content_quality"`
	JobSpecificMatch     json.RawMessage             `json:"job_specific_match"`
	ATSReadability       json.RawMessage             `json:"ats_readability"`
	KeywordsMissing      []json.RawMessage           `json:"keywords_missing"`
	Bonuses              []types.Bonus               `json:"bonuses"`
	HardFilterViolations []types.HardFilterViolation `json:"hard_filter_violations"`
}

// migrateBreakdown converts a raw match analysis into the canonical shape.
// Every factor carries a numeric score afterwards, and the keyword, bonus
// and violation lists are non-nil.
func migrateBreakdown(raw rawMatchBreakdown) types.MatchBreakdown {
	mb := types.MatchBreakdown{
		KeywordsMissing:      migrateKeywords(raw.KeywordsMissing),
		Bonuses:              raw.Bonuses,
		HardFilterViolations: raw.HardFilterViolations,
	}

	mb.SkillAlignment.Score = migrateFactor(raw.SkillAlignment, &mb.SkillAlignment)
	mb.ExperienceFit.Score = migrateFactor(raw.ExperienceFit, &mb.ExperienceFit)
	mb.ContentQuality.Score = migrateFactor(raw.ContentQuality, &mb.ContentQuality)
	mb.JobSpecificMatch.Score = migrateFactor(raw.JobSpecificMatch, &mb.JobSpecificMatch)
	mb.ATSReadability.Score = migrateFactor(raw.ATSReadability, &mb.ATSReadability)

	if mb.Bonuses == nil {
		mb.Bonuses = []types.Bonus{}
	}
	if mb.HardFilterViolations == nil {
		mb.HardFilterViolations = []types.HardFilterViolation{}
	}

	return mb
}

// migrateFactor resolves one factor's score from either shape. An object is
// decoded into out (filling evidence fields); a bare number becomes the
// score with evidence defaulted; anything absent or malformed scores
// neutral.
func migrateFactor(raw json.RawMessage, out any) float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return neutralFactorScore
	}

	var bare float64
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return neutralFactorScore
	}

	// Objects without an explicit score key decode to zero; treat that the
	// same as absent.
	var probe struct {
		Score *float64 `json:"score"`
	}
	if err := json.Unmarshal(raw, &probe); err == nil && probe.Score != nil {
		return *probe.Score
	}
	return neutralFactorScore
}

// migrateKeywords upgrades keyword entries to the structured shape. Bare
// strings become unknown-importance entries; structured entries missing a
// penalty get a default by importance.
func migrateKeywords(raw []json.RawMessage) []types.MissingKeyword {
	keywords := make([]types.MissingKeyword, 0, len(raw))

	for _, entry := range raw {
		var legacy string
		if err := json.Unmarshal(entry, &legacy); err == nil {
			keywords = append(keywords, types.MissingKeyword{
				Keyword:    legacy,
				Importance: types.ImportanceUnknown,
			})
			continue
		}

		var structured struct {
			Keyword    string   `json:"keyword"`
			Importance string   `json:"importance"`
			Penalty    *float64 `json:"penalty"`
			WhyMatters string   `json:"why_matters"`
		}
		if err := json.Unmarshal(entry, &structured); err != nil || structured.Keyword == "" {
			continue
		}

		kw := types.MissingKeyword{
			Keyword:    structured.Keyword,
			Importance: structured.Importance,
			WhyMatters: structured.WhyMatters,
		}
		switch kw.Importance {
		case types.ImportanceRequired, types.ImportancePreferred:
		default:
			kw.Importance = types.ImportanceUnknown
		}

		if structured.Penalty != nil {
			kw.Penalty = *structured.Penalty
		} else if kw.Importance == types.ImportanceRequired {
			kw.Penalty = defaultRequiredPenalty
		} else {
			kw.Penalty = defaultOtherPenalty
		}

		keywords = append(keywords, kw)
	}

	return keywords
}
