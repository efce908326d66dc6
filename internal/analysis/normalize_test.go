package analysis

import (
	"encoding/json"
	"reflect"
	"testing"

	"resumefit/internal/types"
)

func decodeRawJob(t *testing.T, payload string) rawJobRequirements {
	t.Helper()
	var raw rawJobRequirements
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("Failed to decode fixture: %v", err)
	}
	return raw
}

func decodeRawBreakdown(t *testing.T, payload string) rawMatchBreakdown {
	t.Helper()
	var raw rawMatchBreakdown
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("Failed to decode fixture: %v", err)
	}
	return raw
}

func TestMigrateJobCurrentShape(t *testing.T) {
	raw := decodeRawJob(t, `{
		"required_skills": ["Go", "Docker"],
		"preferred_skills": ["Kubernetes"],
		"experience_required": {"minimum_years": 5, "preferred_years": 7, "field": "backend"},
		"industry": "fintech"
	}`)

	job := migrateJob(raw)

	if !reflect.DeepEqual(job.RequiredSkills, []string{"Go", "Docker"}) {
		t.Errorf("RequiredSkills = %v", job.RequiredSkills)
	}
	if !reflect.DeepEqual(job.PreferredSkills, []string{"Kubernetes"}) {
		t.Errorf("PreferredSkills = %v", job.PreferredSkills)
	}
	if job.ExperienceRequired.MinimumYears != 5 {
		t.Errorf("MinimumYears = %v", job.ExperienceRequired.MinimumYears)
	}
	if job.Industry != "fintech" {
		t.Errorf("Industry = %q", job.Industry)
	}
}

func TestMigrateJobLegacySkillFields(t *testing.T) {
	raw := decodeRawJob(t, `{
		"core_skills": ["Python"],
		"nice_to_have": ["Terraform"]
	}`)

	job := migrateJob(raw)

	if !reflect.DeepEqual(job.RequiredSkills, []string{"Python"}) {
		t.Errorf("Expected core_skills backfill, got %v", job.RequiredSkills)
	}
	if !reflect.DeepEqual(job.PreferredSkills, []string{"Terraform"}) {
		t.Errorf("Expected nice_to_have backfill, got %v", job.PreferredSkills)
	}
}

func TestMigrateJobCurrentFieldWinsOverLegacy(t *testing.T) {
	raw := decodeRawJob(t, `{
		"required_skills": ["Go"],
		"core_skills": ["Python"]
	}`)

	job := migrateJob(raw)
	if !reflect.DeepEqual(job.RequiredSkills, []string{"Go"}) {
		t.Errorf("Current field should win over legacy, got %v", job.RequiredSkills)
	}
}

func TestMigrateJobSkillListsNeverNil(t *testing.T) {
	job := migrateJob(decodeRawJob(t, `{}`))
	if job.RequiredSkills == nil || job.PreferredSkills == nil {
		t.Error("Skill lists must be non-nil after normalization")
	}
}

func TestMigrateExperienceRequiredBareString(t *testing.T) {
	raw := decodeRawJob(t, `{"experience_required": "5+ years of backend development"}`)

	exp := migrateJob(raw).ExperienceRequired
	if exp.Description != "5+ years of backend development" {
		t.Errorf("Description = %q", exp.Description)
	}
	if exp.MinimumYears != 0 || exp.PreferredYears != 0 {
		t.Error("Numeric fields should be zero for legacy string shape")
	}
}

func TestMigrateBreakdownBareNumberFactors(t *testing.T) {
	raw := decodeRawBreakdown(t, `{
		"skill_alignment": 80,
		"experience_fit": 65,
		"content_quality": {"score": 70, "strengths": ["concise"]},
		"job_specific_match": 55,
		"ats_readability": 90
	}`)

	mb := migrateBreakdown(raw)

	if mb.SkillAlignment.Score != 80 {
		t.Errorf("SkillAlignment.Score = %v", mb.SkillAlignment.Score)
	}
	if mb.ExperienceFit.Score != 65 {
		t.Errorf("ExperienceFit.Score = %v", mb.ExperienceFit.Score)
	}
	if mb.ContentQuality.Score != 70 {
		t.Errorf("ContentQuality.Score = %v", mb.ContentQuality.Score)
	}
	if !reflect.DeepEqual(mb.ContentQuality.Strengths, []string{"concise"}) {
		t.Errorf("ContentQuality.Strengths = %v", mb.ContentQuality.Strengths)
	}
	if mb.ATSReadability.Score != 90 {
		t.Errorf("ATSReadability.Score = %v", mb.ATSReadability.Score)
	}
}

func TestMigrateBreakdownAbsentFactorsScoreNeutral(t *testing.T) {
	mb := migrateBreakdown(decodeRawBreakdown(t, `{}`))

	for name, score := range map[string]float64{
		"skill_alignment":    mb.SkillAlignment.Score,
		"experience_fit":     mb.ExperienceFit.Score,
		"content_quality":    mb.ContentQuality.Score,
		"job_specific_match": mb.JobSpecificMatch.Score,
		"ats_readability":    mb.ATSReadability.Score,
	} {
		if score != neutralFactorScore {
			t.Errorf("%s score = %v, want %v", name, score, neutralFactorScore)
		}
	}

	if mb.KeywordsMissing == nil || mb.Bonuses == nil || mb.HardFilterViolations == nil {
		t.Error("Lists must be non-nil after normalization")
	}
}

func TestMigrateBreakdownObjectWithoutScore(t *testing.T) {
	raw := decodeRawBreakdown(t, `{"experience_fit": {"gap": 3, "assessment": "short"}}`)

	mb := migrateBreakdown(raw)
	if mb.ExperienceFit.Score != neutralFactorScore {
		t.Errorf("Score = %v, want neutral %v", mb.ExperienceFit.Score, neutralFactorScore)
	}
	if mb.ExperienceFit.Gap != 3 {
		t.Errorf("Gap = %v, evidence fields should still decode", mb.ExperienceFit.Gap)
	}
}

func TestMigrateKeywords(t *testing.T) {
	raw := decodeRawBreakdown(t, `{
		"keywords_missing": [
			"Docker",
			{"keyword": "Kubernetes", "importance": "required", "penalty": 12, "why_matters": "core infra"},
			{"keyword": "Terraform", "importance": "required"},
			{"keyword": "GraphQL", "importance": "preferred"},
			{"keyword": "Svelte", "importance": "whatever"}
		]
	}`)

	kws := migrateBreakdown(raw).KeywordsMissing
	if len(kws) != 5 {
		t.Fatalf("Expected 5 keywords, got %d", len(kws))
	}

	bare := kws[0]
	if bare.Keyword != "Docker" || bare.Importance != types.ImportanceUnknown {
		t.Errorf("Bare string entry = %+v", bare)
	}

	full := kws[1]
	if full.Penalty != 12 || full.WhyMatters != "core infra" {
		t.Errorf("Structured entry = %+v", full)
	}

	if kws[2].Penalty != defaultRequiredPenalty {
		t.Errorf("Required default penalty = %v, want %v", kws[2].Penalty, defaultRequiredPenalty)
	}
	if kws[3].Penalty != defaultOtherPenalty {
		t.Errorf("Preferred default penalty = %v, want %v", kws[3].Penalty, defaultOtherPenalty)
	}
	if kws[4].Importance != types.ImportanceUnknown {
		t.Errorf("Unrecognized importance should normalize to unknown, got %q", kws[4].Importance)
	}
}
