package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumefit/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisResult", &AnalysisMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisResult, *types.AnalysisResult:
		return "AnalysisResult"
	default:
		return "any"
	}
}

func asAnalysisResult(data any) (*types.AnalysisResult, error) {
	switch v := data.(type) {
	case types.AnalysisResult:
		return &v, nil
	case *types.AnalysisResult:
		return v, nil
	default:
		return nil, fmt.Errorf("expected AnalysisResult, got %T", data)
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// AnalysisTextFormatter handles text formatting for analysis results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, err := asAnalysisResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== RESUME MATCH ANALYSIS ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Score: %.1f/100 (%s)\n", result.OverallScore, result.Interpretation))
	output.WriteString(fmt.Sprintf("Expected ATS Pass Rate: %s\n", result.ExpectedATSPassRate))
	output.WriteString(fmt.Sprintf("Industry: %s | Job Level: %s | Resume Level: %s\n", result.JobIndustry, result.JobLevel, result.ResumeLevel))
	output.WriteString(fmt.Sprintf("Detected Language: %s\n\n", result.DetectedLanguage))

	output.WriteString("=== SCORE BREAKDOWN ===\n")
	for _, factor := range result.ScoreBreakdown.Factors {
		output.WriteString(fmt.Sprintf("%-20s %.1f/100", factor.Factor, factor.Score))
		if factor.Detail != "" {
			output.WriteString("  " + factor.Detail)
		}
		output.WriteString("\n")
	}
	output.WriteString("\n")

	if result.ScoreBreakdown.HardFilters.Fired {
		output.WriteString("=== HARD FILTERS ===\n")
		output.WriteString(fmt.Sprintf("Score multiplier: %.2f\n", result.ScoreBreakdown.HardFilters.Multiplier))
		for _, reason := range result.ScoreBreakdown.HardFilters.Reasons {
			output.WriteString(fmt.Sprintf("- %s\n", reason))
		}
		output.WriteString("\n")
	}

	if len(result.ScoreBreakdown.Penalties) > 0 {
		output.WriteString("=== PENALTIES ===\n")
		for _, penalty := range result.ScoreBreakdown.Penalties {
			output.WriteString(fmt.Sprintf("%+.1f  %s\n", penalty.Points, penalty.Label))
		}
		output.WriteString("\n")
	}

	if len(result.ScoreBreakdown.Bonuses) > 0 {
		output.WriteString("=== BONUSES ===\n")
		for _, bonus := range result.ScoreBreakdown.Bonuses {
			output.WriteString(fmt.Sprintf("%+.1f  %s\n", bonus.Points, bonus.Label))
		}
		output.WriteString("\n")
	}

	if len(result.MatchAnalysis.KeywordsMissing) > 0 {
		output.WriteString("=== MISSING KEYWORDS ===\n")
		for _, keyword := range result.MatchAnalysis.KeywordsMissing {
			output.WriteString(fmt.Sprintf("- %s (%s)", keyword.Keyword, keyword.Importance))
			if keyword.WhyMatters != "" {
				output.WriteString(": " + keyword.WhyMatters)
			}
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	if len(result.ATSOptimization) > 0 {
		output.WriteString("=== ATS OPTIMIZATION ===\n")
		for i, suggestion := range result.ATSOptimization {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
		}
		output.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		output.WriteString("=== RECOMMENDATIONS ===\n")
		for i, recommendation := range result.Recommendations {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, recommendation))
		}
		output.WriteString("\n")
	}

	if result.ScoreBreakdown.FinalFormula != "" {
		output.WriteString("Formula: ")
		output.WriteString(result.ScoreBreakdown.FinalFormula)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

// AnalysisMarkdownFormatter handles markdown formatting for analysis results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, err := asAnalysisResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Resume Match Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %.1f/100 (%s)\n\n", result.OverallScore, result.Interpretation))
	output.WriteString(fmt.Sprintf("**Expected ATS Pass Rate:** %s\n\n", result.ExpectedATSPassRate))
	output.WriteString(fmt.Sprintf("**Industry:** %s | **Job Level:** %s | **Resume Level:** %s\n\n", result.JobIndustry, result.JobLevel, result.ResumeLevel))
	output.WriteString(fmt.Sprintf("**Detected Language:** %s\n\n", result.DetectedLanguage))

	output.WriteString("## Score Breakdown\n\n")
	output.WriteString("| Factor | Score | Detail |\n")
	output.WriteString("|--------|-------|--------|\n")
	for _, factor := range result.ScoreBreakdown.Factors {
		output.WriteString(fmt.Sprintf("| %s | %.1f | %s |\n", factor.Factor, factor.Score, factor.Detail))
	}
	output.WriteString("\n")

	if result.ScoreBreakdown.HardFilters.Fired {
		output.WriteString("## Hard Filters\n\n")
		output.WriteString(fmt.Sprintf("**Score multiplier:** %.2f\n\n", result.ScoreBreakdown.HardFilters.Multiplier))
		for _, reason := range result.ScoreBreakdown.HardFilters.Reasons {
			output.WriteString(fmt.Sprintf("- %s\n", reason))
		}
		output.WriteString("\n")
	}

	if len(result.ScoreBreakdown.Penalties) > 0 {
		output.WriteString("## Penalties\n\n")
		for _, penalty := range result.ScoreBreakdown.Penalties {
			output.WriteString(fmt.Sprintf("- %+.1f %s\n", penalty.Points, penalty.Label))
		}
		output.WriteString("\n")
	}

	if len(result.ScoreBreakdown.Bonuses) > 0 {
		output.WriteString("## Bonuses\n\n")
		for _, bonus := range result.ScoreBreakdown.Bonuses {
			output.WriteString(fmt.Sprintf("- %+.1f %s\n", bonus.Points, bonus.Label))
		}
		output.WriteString("\n")
	}

	if len(result.MatchAnalysis.KeywordsMissing) > 0 {
		output.WriteString("## Missing Keywords\n\n")
		for _, keyword := range result.MatchAnalysis.KeywordsMissing {
			output.WriteString(fmt.Sprintf("- **%s** (%s)", keyword.Keyword, keyword.Importance))
			if keyword.WhyMatters != "" {
				output.WriteString(": " + keyword.WhyMatters)
			}
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	if len(result.ATSOptimization) > 0 {
		output.WriteString("## ATS Optimization\n\n")
		for i, suggestion := range result.ATSOptimization {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
		}
		output.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		output.WriteString("## Recommendations\n\n")
		for i, recommendation := range result.Recommendations {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, recommendation))
		}
		output.WriteString("\n")
	}

	if result.ScoreBreakdown.FinalFormula != "" {
		output.WriteString(fmt.Sprintf("**Formula:** `%s`\n", result.ScoreBreakdown.FinalFormula))
	}

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResult"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
