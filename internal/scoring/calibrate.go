package scoring

import (
	"fmt"
	"math"

	"resumefit/internal/types"
)

// Component weights for the weighted base score. They intentionally total
// 0.95, not 1.0: a perfect résumé caps at 95 before bonuses. Preserved
// deliberately; see TestWeightSum before changing any of these.
const (
	WeightKeyword        = 0.25
	WeightExperience     = 0.20
	WeightATSReadability = 0.15
	WeightContentQuality = 0.20
	WeightJobMatch       = 0.15
)

const (
	// neutralScore substitutes for absent or malformed component scores so
	// that calibration stays total over all inputs.
	neutralScore = 50.0

	// Blend shares for the ATS readability component
	atsOracleShare    = 0.6
	atsHeuristicShare = 0.4

	// hardFilterFloor caps the multiplier when any knockout condition fires
	hardFilterFloor = 0.6

	// Knockout thresholds
	maxCriticalViolations = 3
	maxExperienceGapYears = 2.0

	// legacyKeywordPenalty is the flat deduction for keyword entries that
	// arrived as bare strings and carry no usable importance
	legacyKeywordPenalty = 5.0
)

// Calibrate converts raw per-factor evidence into a single bounded score.
// It is a pure function: no I/O, no randomness, identical inputs always
// yield an identical ScoreCalculation. heuristic may be nil; the oracle's
// readability score is then used unblended.
func Calibrate(mb types.MatchBreakdown, job types.JobRequirements, heuristic *types.ATSHeuristicResult) types.ScoreCalculation {
	components := types.RawComponents{
		Keyword:        sanitize(mb.SkillAlignment.Score),
		Experience:     sanitize(mb.ExperienceFit.Score),
		ContentQuality: sanitize(mb.ContentQuality.Score),
		JobMatch:       sanitize(mb.JobSpecificMatch.Score),
	}
	components.ATSReadability = sanitize(mb.ATSReadability.Score)
	if heuristic != nil {
		components.ATSReadability = components.ATSReadability*atsOracleShare + sanitize(heuristic.Score)*atsHeuristicShare
	}

	weightedBase := components.Keyword*WeightKeyword +
		components.Experience*WeightExperience +
		components.ATSReadability*WeightATSReadability +
		components.ContentQuality*WeightContentQuality +
		components.JobMatch*WeightJobMatch

	multiplier := 1.0
	if len(hardFilterReasons(mb, job)) > 0 {
		multiplier = math.Min(multiplier, hardFilterFloor)
	}

	penalties := totalPenalties(mb.KeywordsMissing)
	bonuses := 0.0
	for _, b := range mb.Bonuses {
		bonuses += b.Points
	}

	final := weightedBase*multiplier - penalties + bonuses
	final = math.Max(0, math.Min(100, final))
	final = math.Round(final*10) / 10

	return types.ScoreCalculation{
		RawComponents:        components,
		HardFilterMultiplier: multiplier,
		WeightedBaseScore:    weightedBase,
		FinalScore:           final,
		Interpretation:       interpret(final),
		PenaltiesApplied:     penalties,
		BonusesApplied:       bonuses,
	}
}

// hardFilterReasons lists the knockout conditions the breakdown trips.
// Shared with the breakdown generator so the explanation always agrees with
// the multiplier actually applied.
func hardFilterReasons(mb types.MatchBreakdown, job types.JobRequirements) []string {
	var reasons []string

	critical := 0
	for _, v := range mb.HardFilterViolations {
		if v.Severity == types.SeverityCritical {
			critical++
		}
	}
	if critical > maxCriticalViolations {
		reasons = append(reasons,
			fmt.Sprintf("%d critical hard-requirement violations (more than %d allowed)", critical, maxCriticalViolations))
	}

	if mb.ExperienceFit.Gap > maxExperienceGapYears {
		reasons = append(reasons,
			fmt.Sprintf("experience gap of %.1f years exceeds %.0f years", mb.ExperienceFit.Gap, maxExperienceGapYears))
	}

	total := len(job.RequiredSkills)
	missing := len(mb.SkillAlignment.MissingRequiredSkills)
	if total > 0 && float64(missing) > float64(total)*0.5 {
		reasons = append(reasons,
			fmt.Sprintf("missing %d of %d required skills (over half)", missing, total))
	}

	return reasons
}

// keywordPenalty returns the deduction a single missing keyword carries
func keywordPenalty(kw types.MissingKeyword) float64 {
	switch kw.Importance {
	case types.ImportanceRequired:
		return kw.Penalty
	case types.ImportancePreferred:
		return kw.Penalty * 0.2
	default:
		return legacyKeywordPenalty
	}
}

func totalPenalties(missing []types.MissingKeyword) float64 {
	total := 0.0
	for _, kw := range missing {
		total += keywordPenalty(kw)
	}
	return total
}

func interpret(score float64) string {
	switch {
	case score >= 90:
		return "Excellent Match - Your resume aligns strongly with this role"
	case score >= 75:
		return "Good Match - Your resume covers most of what this role asks for"
	case score >= 60:
		return "Average Match - Relevant background with notable gaps"
	case score >= 40:
		return "Below Average Match - Significant gaps for this role"
	default:
		return "Poor Match - This role is a substantial stretch for the current resume"
	}
}

// sanitize replaces malformed numeric scores with the neutral value so
// calibration remains defined for all inputs
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return neutralScore
	}
	return v
}
