package scoring

import (
	"fmt"
	"strings"

	"resumefit/internal/types"
)

// BuildBreakdown turns a calibration trace into a human-readable explanation:
// per-factor detail strings, the hard filters that fired, flattened penalty
// and bonus deltas, and a single formula string for auditability.
func BuildBreakdown(calc types.ScoreCalculation, mb types.MatchBreakdown, job types.JobRequirements, heuristic *types.ATSHeuristicResult) types.ScoreBreakdown {
	breakdown := types.ScoreBreakdown{
		Factors:   factorExplanations(calc, mb, job, heuristic),
		Penalties: []types.ScoreAdjustment{},
		Bonuses:   []types.ScoreAdjustment{},
	}

	reasons := hardFilterReasons(mb, job)
	breakdown.HardFilters = types.HardFilterReport{
		Fired:      len(reasons) > 0,
		Multiplier: calc.HardFilterMultiplier,
		Reasons:    reasons,
	}
	if breakdown.HardFilters.Reasons == nil {
		breakdown.HardFilters.Reasons = []string{}
	}

	for _, kw := range mb.KeywordsMissing {
		label := fmt.Sprintf("Missing %s keyword: %s", kw.Importance, kw.Keyword)
		if kw.Importance == types.ImportanceUnknown {
			label = fmt.Sprintf("Missing keyword: %s", kw.Keyword)
		}
		breakdown.Penalties = append(breakdown.Penalties, types.ScoreAdjustment{
			Label:  label,
			Points: -keywordPenalty(kw),
		})
	}

	for _, b := range mb.Bonuses {
		label := b.Reason
		if b.Category != "" {
			label = fmt.Sprintf("%s (%s)", b.Reason, b.Category)
		}
		breakdown.Bonuses = append(breakdown.Bonuses, types.ScoreAdjustment{
			Label:  label,
			Points: b.Points,
		})
	}

	breakdown.FinalFormula = finalFormula(calc)
	return breakdown
}

func factorExplanations(calc types.ScoreCalculation, mb types.MatchBreakdown, job types.JobRequirements, heuristic *types.ATSHeuristicResult) []types.FactorExplanation {
	return []types.FactorExplanation{
		{
			Factor: "skill_alignment",
			Score:  calc.RawComponents.Keyword,
			Detail: skillDetail(mb.SkillAlignment, job),
		},
		{
			Factor: "experience_fit",
			Score:  calc.RawComponents.Experience,
			Detail: experienceDetail(mb.ExperienceFit, job),
		},
		{
			Factor: "content_quality",
			Score:  calc.RawComponents.ContentQuality,
			Detail: contentDetail(mb.ContentQuality),
		},
		{
			Factor: "job_specific_match",
			Score:  calc.RawComponents.JobMatch,
			Detail: jobMatchDetail(mb.JobSpecificMatch),
		},
		{
			Factor: "ats_readability",
			Score:  calc.RawComponents.ATSReadability,
			Detail: atsDetail(mb.ATSReadability, heuristic),
		},
	}
}

func skillDetail(sa types.SkillAlignment, job types.JobRequirements) string {
	total := len(job.RequiredSkills)
	matched := len(sa.MatchedRequiredSkills)
	detail := fmt.Sprintf("Matched %d of %d required skills", matched, total)
	if len(sa.MissingRequiredSkills) > 0 {
		detail += ". Missing: " + strings.Join(sa.MissingRequiredSkills, ", ")
	}
	if len(sa.MatchedPreferredSkills) > 0 {
		detail += fmt.Sprintf(". Also covers %d preferred skills", len(sa.MatchedPreferredSkills))
	}
	return detail
}

func experienceDetail(ef types.ExperienceFit, job types.JobRequirements) string {
	if ef.Gap > 0 {
		detail := fmt.Sprintf("%.1f years short of the stated minimum", ef.Gap)
		if job.ExperienceRequired.MinimumYears > 0 {
			detail += fmt.Sprintf(" of %.0f years", job.ExperienceRequired.MinimumYears)
		}
		if ef.Assessment != "" {
			detail += ". " + ef.Assessment
		}
		return detail
	}
	if ef.Assessment != "" {
		return ef.Assessment
	}
	return "Experience meets the stated requirement"
}

func contentDetail(cq types.ContentQuality) string {
	parts := []string{}
	if len(cq.Strengths) > 0 {
		parts = append(parts, "Strengths: "+strings.Join(cq.Strengths, ", "))
	}
	if len(cq.Weaknesses) > 0 {
		parts = append(parts, "Weaknesses: "+strings.Join(cq.Weaknesses, ", "))
	}
	if len(parts) == 0 {
		return "No content quality evidence reported"
	}
	return strings.Join(parts, ". ")
}

func jobMatchDetail(jm types.JobSpecificMatch) string {
	if jm.Notes != "" {
		return jm.Notes
	}
	return "No role-specific notes reported"
}

func atsDetail(oracle types.ATSReadability, heuristic *types.ATSHeuristicResult) string {
	var detail string
	issues := []string{}
	if heuristic != nil {
		detail = fmt.Sprintf("Blend of model score %.0f (60%%) and deterministic checks %.0f (40%%)",
			oracle.Score, heuristic.Score)
		issues = append(issues, heuristic.Issues...)
	} else {
		detail = fmt.Sprintf("Model score %.0f; deterministic checks unavailable", oracle.Score)
	}
	issues = append(issues, oracle.Issues...)
	if len(issues) > 0 {
		detail += ". Issues: " + strings.Join(issues, "; ")
	}
	return detail
}

// finalFormula renders the complete calibration arithmetic as one string
func finalFormula(calc types.ScoreCalculation) string {
	c := calc.RawComponents
	return fmt.Sprintf(
		"base = %.2f*%.1f + %.2f*%.1f + %.2f*%.1f + %.2f*%.1f + %.2f*%.1f = %.2f; "+
			"x %.2f hard-filter multiplier = %.2f; - %.1f penalties; + %.1f bonuses; "+
			"clamped to [0,100] and rounded = %.1f",
		WeightKeyword, c.Keyword,
		WeightExperience, c.Experience,
		WeightATSReadability, c.ATSReadability,
		WeightContentQuality, c.ContentQuality,
		WeightJobMatch, c.JobMatch,
		calc.WeightedBaseScore,
		calc.HardFilterMultiplier,
		calc.WeightedBaseScore*calc.HardFilterMultiplier,
		calc.PenaltiesApplied,
		calc.BonusesApplied,
		calc.FinalScore,
	)
}
