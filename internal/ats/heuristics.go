package ats

import (
	"fmt"
	"regexp"
	"strings"

	"resumefit/internal/types"
)

// Deterministic readability checks approximating how an applicant tracking
// system would parse the plain-text rendering of a résumé. No oracle calls
// are made here; identical input always yields an identical result.

var (
	numericDatePattern = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	monthDatePattern   = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|sept|oct|nov|dec)\.?\s+\d{4}\b`)
)

var sectionKeywords = []string{
	"experience", "education", "skills", "summary", "objective", "work", "employment",
}

// Check scores résumé text for machine readability on a 0-100 scale.
// Each deduction is independent; the final score is clamped to [0,100].
func Check(resumeText string) types.ATSHeuristicResult {
	result := types.ATSHeuristicResult{
		Score:  100,
		Issues: []string{},
	}

	checkLength(resumeText, &result)
	checkArtifacts(resumeText, &result)
	checkDates(resumeText, &result)
	checkColumnStructure(resumeText, &result)
	checkSectionHeaders(resumeText, &result)

	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 100 {
		result.Score = 100
	}

	return result
}

func checkLength(text string, result *types.ATSHeuristicResult) {
	n := len(text)
	switch {
	case n < 500:
		result.Score -= 30
		result.SuspiciousLowLength = true
		result.Issues = append(result.Issues,
			fmt.Sprintf("Text is suspiciously short (%d chars); extraction may have lost content", n))
	case n < 1000:
		result.Score -= 15
		result.Issues = append(result.Issues,
			fmt.Sprintf("Text is shorter than a typical résumé (%d chars)", n))
	}
}

func checkArtifacts(text string, result *types.ATSHeuristicResult) {
	artifacts := 0
	for _, r := range text {
		if r > 127 {
			artifacts++
		}
	}

	switch {
	case artifacts > 100:
		result.Score -= 20
		result.Issues = append(result.Issues,
			fmt.Sprintf("Heavy non-ASCII/formatting artifacts (%d chars); likely decorative layout", artifacts))
	case artifacts >= 50:
		result.Score -= 10
		result.Issues = append(result.Issues,
			fmt.Sprintf("Some non-ASCII/formatting artifacts (%d chars)", artifacts))
	}
}

func checkDates(text string, result *types.ATSHeuristicResult) {
	if len(text) <= 2000 {
		return
	}

	dates := len(numericDatePattern.FindAllString(text, -1)) +
		len(monthDatePattern.FindAllString(text, -1))
	if dates < 2 {
		result.Score -= 10
		result.Issues = append(result.Issues,
			"Few recognizable dates for a document this long; employment dates may not parse")
	}
}

func checkColumnStructure(text string, result *types.ATSHeuristicResult) {
	nonEmpty := 0
	short := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmpty++
		if len(trimmed) < 5 {
			short++
		}
	}

	if nonEmpty > 0 && float64(short)/float64(nonEmpty) > 0.3 {
		result.Score -= 15
		result.ColumnStructureIssues = true
		result.Issues = append(result.Issues,
			"Many very short lines; multi-column layout likely scrambled the text order")
	}
}

func checkSectionHeaders(text string, result *types.ATSHeuristicResult) {
	lower := strings.ToLower(text)
	found := 0
	for _, keyword := range sectionKeywords {
		if strings.Contains(lower, keyword) {
			found++
		}
	}

	if found < 2 {
		result.Score -= 10
		result.Issues = append(result.Issues,
			"Standard section headers (experience, education, skills, ...) are mostly absent")
	}
}
