package scoring

import (
	"math"
	"reflect"
	"testing"

	"resumefit/internal/types"
)

// neutralBreakdown returns the all-default breakdown: every factor at the
// neutral score, no keywords, bonuses or violations.
func neutralBreakdown() types.MatchBreakdown {
	return types.MatchBreakdown{
		SkillAlignment:   types.SkillAlignment{Score: 50},
		ExperienceFit:    types.ExperienceFit{Score: 50},
		ContentQuality:   types.ContentQuality{Score: 50},
		JobSpecificMatch: types.JobSpecificMatch{Score: 50},
		ATSReadability:   types.ATSReadability{Score: 50},
	}
}

func TestWeightSum(t *testing.T) {
	// The weights deliberately total 0.95, so an all-100 breakdown caps at
	// 95 before bonuses. This test exists so any future change to the
	// weights is intentional and visible.
	sum := WeightKeyword + WeightExperience + WeightATSReadability + WeightContentQuality + WeightJobMatch
	if math.Abs(sum-0.95) > 1e-9 {
		t.Fatalf("Component weights must sum to 0.95, got %v", sum)
	}
}

func TestCalibrateAllDefaults(t *testing.T) {
	calc := Calibrate(neutralBreakdown(), types.JobRequirements{}, nil)

	if math.Abs(calc.WeightedBaseScore-47.5) > 1e-9 {
		t.Errorf("All-default weighted base must be 47.5, got %v", calc.WeightedBaseScore)
	}
	if calc.FinalScore != 47.5 {
		t.Errorf("All-default final score must be 47.5, got %v", calc.FinalScore)
	}
	if calc.HardFilterMultiplier != 1.0 {
		t.Errorf("No filters should fire on defaults, multiplier = %v", calc.HardFilterMultiplier)
	}
	if calc.Interpretation != "Below Average Match - Significant gaps for this role" {
		t.Errorf("Unexpected interpretation: %q", calc.Interpretation)
	}
}

func TestCalibratePure(t *testing.T) {
	mb := neutralBreakdown()
	mb.KeywordsMissing = []types.MissingKeyword{
		{Keyword: "Docker", Importance: types.ImportanceRequired, Penalty: 10},
	}
	mb.Bonuses = []types.Bonus{{Reason: "Certification", Points: 3, Category: "education"}}
	job := types.JobRequirements{RequiredSkills: []string{"Go", "Docker"}}
	heuristic := &types.ATSHeuristicResult{Score: 80, Issues: []string{"short"}}

	first := Calibrate(mb, job, heuristic)
	for range 10 {
		again := Calibrate(mb, job, heuristic)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Calibrate is not pure: %+v vs %+v", first, again)
		}
	}
}

func TestCalibrateBounds(t *testing.T) {
	cases := []struct {
		name      string
		breakdown func() types.MatchBreakdown
	}{
		{"AllZero", func() types.MatchBreakdown {
			return types.MatchBreakdown{}
		}},
		{"AllHundredWithBonuses", func() types.MatchBreakdown {
			mb := neutralBreakdown()
			mb.SkillAlignment.Score = 100
			mb.ExperienceFit.Score = 100
			mb.ContentQuality.Score = 100
			mb.JobSpecificMatch.Score = 100
			mb.ATSReadability.Score = 100
			mb.Bonuses = []types.Bonus{{Reason: "Everything", Points: 500}}
			return mb
		}},
		{"MassivePenalties", func() types.MatchBreakdown {
			mb := neutralBreakdown()
			for range 50 {
				mb.KeywordsMissing = append(mb.KeywordsMissing, types.MissingKeyword{
					Keyword: "x", Importance: types.ImportanceRequired, Penalty: 10,
				})
			}
			return mb
		}},
		{"MalformedScores", func() types.MatchBreakdown {
			mb := neutralBreakdown()
			mb.SkillAlignment.Score = math.NaN()
			mb.ExperienceFit.Score = math.Inf(1)
			return mb
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calc := Calibrate(tc.breakdown(), types.JobRequirements{}, nil)
			if calc.FinalScore < 0 || calc.FinalScore > 100 {
				t.Errorf("Final score out of bounds: %v", calc.FinalScore)
			}
			if math.IsNaN(calc.FinalScore) {
				t.Error("Final score must never be NaN")
			}
		})
	}
}

func TestCalibrateMalformedScoresNeutral(t *testing.T) {
	mb := neutralBreakdown()
	mb.SkillAlignment.Score = math.NaN()

	calc := Calibrate(mb, types.JobRequirements{}, nil)
	if calc.RawComponents.Keyword != 50 {
		t.Errorf("Malformed component must default to 50, got %v", calc.RawComponents.Keyword)
	}
}

func TestHardFilterMultiplier(t *testing.T) {
	t.Run("ExperienceGap", func(t *testing.T) {
		mb := neutralBreakdown()
		mb.ExperienceFit.Gap = 3
		calc := Calibrate(mb, types.JobRequirements{}, nil)
		if calc.HardFilterMultiplier > 0.6 {
			t.Errorf("Gap over 2 years must cap the multiplier at 0.6, got %v", calc.HardFilterMultiplier)
		}
	})

	t.Run("GapAtThreshold", func(t *testing.T) {
		mb := neutralBreakdown()
		mb.ExperienceFit.Gap = 2
		calc := Calibrate(mb, types.JobRequirements{}, nil)
		if calc.HardFilterMultiplier != 1.0 {
			t.Errorf("Gap of exactly 2 years must not fire, got %v", calc.HardFilterMultiplier)
		}
	})

	t.Run("MissingMajorityOfRequiredSkills", func(t *testing.T) {
		mb := neutralBreakdown()
		mb.SkillAlignment.MissingRequiredSkills = []string{"Docker", "AWS", "Terraform"}
		job := types.JobRequirements{RequiredSkills: []string{"Go", "Docker", "AWS", "Terraform"}}
		calc := Calibrate(mb, job, nil)
		if calc.HardFilterMultiplier > 0.6 {
			t.Errorf("Missing over half of required skills must cap the multiplier, got %v", calc.HardFilterMultiplier)
		}
	})

	t.Run("MissingExactlyHalf", func(t *testing.T) {
		mb := neutralBreakdown()
		mb.SkillAlignment.MissingRequiredSkills = []string{"Docker", "AWS"}
		job := types.JobRequirements{RequiredSkills: []string{"Go", "Docker", "AWS", "Terraform"}}
		calc := Calibrate(mb, job, nil)
		if calc.HardFilterMultiplier != 1.0 {
			t.Errorf("Missing exactly half must not fire, got %v", calc.HardFilterMultiplier)
		}
	})

	t.Run("CriticalViolations", func(t *testing.T) {
		mb := neutralBreakdown()
		for range 4 {
			mb.HardFilterViolations = append(mb.HardFilterViolations, types.HardFilterViolation{
				Type: "visa", Severity: types.SeverityCritical,
			})
		}
		calc := Calibrate(mb, types.JobRequirements{}, nil)
		if calc.HardFilterMultiplier > 0.6 {
			t.Errorf("More than 3 critical violations must cap the multiplier, got %v", calc.HardFilterMultiplier)
		}
	})

	t.Run("NonCriticalViolationsIgnored", func(t *testing.T) {
		mb := neutralBreakdown()
		for range 10 {
			mb.HardFilterViolations = append(mb.HardFilterViolations, types.HardFilterViolation{
				Type: "minor", Severity: "warning",
			})
		}
		calc := Calibrate(mb, types.JobRequirements{}, nil)
		if calc.HardFilterMultiplier != 1.0 {
			t.Errorf("Non-critical violations must not fire, got %v", calc.HardFilterMultiplier)
		}
	})

	t.Run("MultipleConditionsStillFloor", func(t *testing.T) {
		mb := neutralBreakdown()
		mb.ExperienceFit.Gap = 5
		mb.SkillAlignment.MissingRequiredSkills = []string{"a", "b", "c"}
		job := types.JobRequirements{RequiredSkills: []string{"a", "b", "c", "d"}}
		calc := Calibrate(mb, job, nil)
		if calc.HardFilterMultiplier != 0.6 {
			t.Errorf("Multiplier floors at 0.6 regardless of how many filters fire, got %v", calc.HardFilterMultiplier)
		}
	})
}

func TestKeywordPenalties(t *testing.T) {
	baseline := Calibrate(neutralBreakdown(), types.JobRequirements{}, nil)

	t.Run("RequiredKeyword", func(t *testing.T) {
		mb := neutralBreakdown()
		mb.KeywordsMissing = []types.MissingKeyword{
			{Keyword: "Docker", Importance: types.ImportanceRequired, Penalty: 10},
		}
		calc := Calibrate(mb, types.JobRequirements{}, nil)
		if diff := baseline.FinalScore - calc.FinalScore; math.Abs(diff-10) > 1e-9 {
			t.Errorf("Required keyword with penalty 10 must deduct exactly 10, deducted %v", diff)
		}
	})

	t.Run("PreferredKeyword", func(t *testing.T) {
		mb := neutralBreakdown()
		mb.KeywordsMissing = []types.MissingKeyword{
			{Keyword: "Docker", Importance: types.ImportancePreferred, Penalty: 10},
		}
		calc := Calibrate(mb, types.JobRequirements{}, nil)
		if diff := baseline.FinalScore - calc.FinalScore; math.Abs(diff-2) > 1e-9 {
			t.Errorf("Preferred keyword with penalty 10 must deduct exactly 2, deducted %v", diff)
		}
	})

	t.Run("UnknownImportanceFlatFive", func(t *testing.T) {
		mb := neutralBreakdown()
		mb.KeywordsMissing = []types.MissingKeyword{
			{Keyword: "Docker", Importance: types.ImportanceUnknown, Penalty: 2},
		}
		calc := Calibrate(mb, types.JobRequirements{}, nil)
		if diff := baseline.FinalScore - calc.FinalScore; math.Abs(diff-5) > 1e-9 {
			t.Errorf("Unknown-importance keyword must deduct a flat 5, deducted %v", diff)
		}
	})
}

func TestBonuses(t *testing.T) {
	mb := neutralBreakdown()
	mb.Bonuses = []types.Bonus{
		{Reason: "Relevant certification", Points: 3, Category: "education"},
		{Reason: "Industry overlap", Points: 2.5, Category: "industry"},
	}

	calc := Calibrate(mb, types.JobRequirements{}, nil)
	if math.Abs(calc.BonusesApplied-5.5) > 1e-9 {
		t.Errorf("Bonuses must sum to 5.5, got %v", calc.BonusesApplied)
	}
	if calc.FinalScore != 53.0 {
		t.Errorf("Expected 47.5 + 5.5 = 53.0, got %v", calc.FinalScore)
	}
}

func TestATSBlend(t *testing.T) {
	t.Run("WithHeuristic", func(t *testing.T) {
		mb := neutralBreakdown()
		mb.ATSReadability.Score = 80
		heuristic := &types.ATSHeuristicResult{Score: 60}
		calc := Calibrate(mb, types.JobRequirements{}, heuristic)
		// 80*0.6 + 60*0.4 = 72
		if math.Abs(calc.RawComponents.ATSReadability-72) > 1e-9 {
			t.Errorf("Expected blended ATS score 72, got %v", calc.RawComponents.ATSReadability)
		}
	})

	t.Run("WithoutHeuristic", func(t *testing.T) {
		mb := neutralBreakdown()
		mb.ATSReadability.Score = 80
		calc := Calibrate(mb, types.JobRequirements{}, nil)
		if calc.RawComponents.ATSReadability != 80 {
			t.Errorf("Without heuristic the oracle score is used as-is, got %v", calc.RawComponents.ATSReadability)
		}
	})
}

func TestRounding(t *testing.T) {
	mb := neutralBreakdown()
	mb.SkillAlignment.Score = 51.23
	calc := Calibrate(mb, types.JobRequirements{}, nil)
	rounded := math.Round(calc.FinalScore*10) / 10
	if calc.FinalScore != rounded {
		t.Errorf("Final score must carry one decimal, got %v", calc.FinalScore)
	}
}

func TestInterpretationTiers(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{95, "Excellent"},
		{90, "Excellent"},
		{80, "Good"},
		{75, "Good"},
		{65, "Average"},
		{60, "Average"},
		{47.5, "Below Average"},
		{40, "Below Average"},
		{20, "Poor"},
		{0, "Poor"},
	}

	for _, tc := range cases {
		got := interpret(tc.score)
		if got[:len(tc.want)] != tc.want {
			t.Errorf("interpret(%v) = %q, want prefix %q", tc.score, got, tc.want)
		}
	}
}
