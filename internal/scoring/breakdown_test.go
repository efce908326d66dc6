package scoring

import (
	"strings"
	"testing"

	"resumefit/internal/types"
)

func TestBuildBreakdown(t *testing.T) {
	mb := neutralBreakdown()
	mb.SkillAlignment.MatchedRequiredSkills = []string{"Python", "AWS", "Go"}
	mb.SkillAlignment.MissingRequiredSkills = []string{"Docker"}
	mb.ExperienceFit.Gap = 3
	mb.KeywordsMissing = []types.MissingKeyword{
		{Keyword: "Docker", Importance: types.ImportanceRequired, Penalty: 10, WhyMatters: "core deployment tool"},
		{Keyword: "Terraform", Importance: types.ImportancePreferred, Penalty: 10},
	}
	mb.Bonuses = []types.Bonus{{Reason: "AWS certification", Points: 3, Category: "education"}}
	job := types.JobRequirements{
		RequiredSkills:     []string{"Python", "AWS", "Go", "Docker", "Kubernetes"},
		ExperienceRequired: types.ExperienceRequirement{MinimumYears: 5},
	}
	heuristic := &types.ATSHeuristicResult{Score: 90, Issues: []string{"short text"}}

	calc := Calibrate(mb, job, heuristic)
	breakdown := BuildBreakdown(calc, mb, job, heuristic)

	t.Run("Factors", func(t *testing.T) {
		if len(breakdown.Factors) != 5 {
			t.Fatalf("Expected 5 factor explanations, got %d", len(breakdown.Factors))
		}
		skill := breakdown.Factors[0]
		if skill.Factor != "skill_alignment" {
			t.Errorf("First factor should be skill_alignment, got %s", skill.Factor)
		}
		if !strings.Contains(skill.Detail, "Matched 3 of 5 required skills") {
			t.Errorf("Skill detail missing match count: %q", skill.Detail)
		}
		if !strings.Contains(skill.Detail, "Missing: Docker") {
			t.Errorf("Skill detail missing the missing-skill list: %q", skill.Detail)
		}
	})

	t.Run("HardFilters", func(t *testing.T) {
		if !breakdown.HardFilters.Fired {
			t.Error("Gap of 3 years must fire a hard filter")
		}
		if breakdown.HardFilters.Multiplier != calc.HardFilterMultiplier {
			t.Error("Report multiplier must match the calculation")
		}
		if len(breakdown.HardFilters.Reasons) == 0 {
			t.Error("Fired filters must carry reasons")
		}
	})

	t.Run("Penalties", func(t *testing.T) {
		if len(breakdown.Penalties) != 2 {
			t.Fatalf("Expected 2 penalty entries, got %d", len(breakdown.Penalties))
		}
		if breakdown.Penalties[0].Points != -10 {
			t.Errorf("Required keyword penalty must be -10, got %v", breakdown.Penalties[0].Points)
		}
		if breakdown.Penalties[1].Points != -2 {
			t.Errorf("Preferred keyword penalty must be -2, got %v", breakdown.Penalties[1].Points)
		}
	})

	t.Run("Bonuses", func(t *testing.T) {
		if len(breakdown.Bonuses) != 1 || breakdown.Bonuses[0].Points != 3 {
			t.Errorf("Expected one +3 bonus, got %+v", breakdown.Bonuses)
		}
	})

	t.Run("Formula", func(t *testing.T) {
		for _, fragment := range []string{"base =", "hard-filter multiplier", "penalties", "bonuses", "clamped"} {
			if !strings.Contains(breakdown.FinalFormula, fragment) {
				t.Errorf("Formula trace missing %q: %q", fragment, breakdown.FinalFormula)
			}
		}
	})
}

func TestBuildBreakdownNoFilters(t *testing.T) {
	mb := neutralBreakdown()
	calc := Calibrate(mb, types.JobRequirements{}, nil)
	breakdown := BuildBreakdown(calc, mb, types.JobRequirements{}, nil)

	if breakdown.HardFilters.Fired {
		t.Error("No filters should fire on the neutral breakdown")
	}
	if breakdown.HardFilters.Reasons == nil {
		t.Error("Reasons must be an empty list, not nil, for JSON stability")
	}
	if len(breakdown.Penalties) != 0 || len(breakdown.Bonuses) != 0 {
		t.Error("Neutral breakdown carries no adjustments")
	}
}
