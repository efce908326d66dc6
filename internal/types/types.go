package types

// Keyword importance levels for missing-keyword entries
const (
	ImportanceRequired  = "required"
	ImportancePreferred = "preferred"
	ImportanceUnknown   = "unknown"
)

// SeverityCritical marks hard-filter violations that count toward the
// knockout multiplier
const SeverityCritical = "critical"

// ExperienceRequirement describes the experience a job asks for
type ExperienceRequirement struct {
	MinimumYears   float64 `json:"minimum_years"`
	PreferredYears float64 `json:"preferred_years"`
	Field          string  `json:"field"`
	Description    string  `json:"description,omitempty"` // free text preserved from legacy shapes
}

// EducationRequirements describes required and preferred education
type EducationRequirements struct {
	Required  string `json:"required"`
	Preferred string `json:"preferred"`
}

// JobRequirements is the canonical structured extraction of a job description.
// RequiredSkills and PreferredSkills are always non-nil after normalization,
// even when the oracle answered with legacy field names.
type JobRequirements struct {
	RequiredSkills        []string              `json:"required_skills"`
	PreferredSkills       []string              `json:"preferred_skills"`
	HardRequirements      []string              `json:"hard_requirements"` // knockout criteria
	ExperienceRequired    ExperienceRequirement `json:"experience_required"`
	ExperienceLevel       string                `json:"experience_level"`
	Industry              string                `json:"industry"`
	KeyResponsibilities   []string              `json:"key_responsibilities"`
	ToolsTechnologies     []string              `json:"tools_technologies"`
	EducationRequirements EducationRequirements `json:"education_requirements"`
}

// Education describes a candidate's highest degree
type Education struct {
	Degree string `json:"degree"`
	Field  string `json:"field"`
}

// ResumeContent is the canonical structured extraction of a résumé
type ResumeContent struct {
	Summary              string    `json:"summary"`
	TechnicalSkills      []string  `json:"technical_skills"`
	SoftSkills           []string  `json:"soft_skills"`
	YearsExperienceTotal float64   `json:"years_experience_total"`
	YearsInPrimaryField  float64   `json:"years_in_primary_field"`
	ExperienceLevel      string    `json:"experience_level"`
	IndustriesWorkedIn   []string  `json:"industries_worked_in"`
	KeyAccomplishments   []string  `json:"key_accomplishments"`
	Education            Education `json:"education"`
	Certifications       []string  `json:"certifications"`
	Languages            []string  `json:"languages"`
}

// SkillAlignment is the skill-matching factor of the match breakdown
type SkillAlignment struct {
	Score                  float64  `json:"score"` // 0-100
	MatchedRequiredSkills  []string `json:"matched_required_skills"`
	MissingRequiredSkills  []string `json:"missing_required_skills"`
	MatchedPreferredSkills []string `json:"matched_preferred_skills"`
}

// ExperienceFit is the experience factor of the match breakdown
type ExperienceFit struct {
	Score      float64 `json:"score"`
	Gap        float64 `json:"gap"` // years short of the stated minimum
	Assessment string  `json:"assessment"`
}

// ContentQuality is the writing-quality factor of the match breakdown
type ContentQuality struct {
	Score      float64  `json:"score"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// JobSpecificMatch is the role-specific relevance factor
type JobSpecificMatch struct {
	Score float64 `json:"score"`
	Notes string  `json:"notes"`
}

// ATSReadability is the oracle's view of machine readability. It is blended
// with the deterministic heuristic score during calibration.
type ATSReadability struct {
	Score  float64  `json:"score"`
	Issues []string `json:"issues"`
}

// MissingKeyword is a keyword the résumé lacks
type MissingKeyword struct {
	Keyword    string  `json:"keyword"`
	Importance string  `json:"importance"` // required, preferred or unknown
	Penalty    float64 `json:"penalty"`
	WhyMatters string  `json:"why_matters"`
}

// Bonus is a positive score adjustment reported by the match analyzer
type Bonus struct {
	Reason   string  `json:"reason"`
	Points   float64 `json:"points"`
	Category string  `json:"category"`
}

// HardFilterViolation is a knockout condition the résumé trips
type HardFilterViolation struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
}

// MatchBreakdown is the five-factor raw evidence produced by the match
// analyzer before calibration. Every factor carries a numeric score after
// normalization, even when the oracle returned a bare number.
type MatchBreakdown struct {
	SkillAlignment       SkillAlignment        `json:"skill_alignment"`
	ExperienceFit        ExperienceFit         `json:"experience_fit"`
	ContentQuality       ContentQuality        `json:"content_quality"`
	JobSpecificMatch     JobSpecificMatch      `json:"job_specific_match"`
	ATSReadability       ATSReadability        `json:"ats_readability"`
	KeywordsMissing      []MissingKeyword      `json:"keywords_missing"`
	Bonuses              []Bonus               `json:"bonuses"`
	HardFilterViolations []HardFilterViolation `json:"hard_filter_violations"`
}

// ATSHeuristicResult is the output of the deterministic readability checker
type ATSHeuristicResult struct {
	Score                 float64  `json:"score"` // 0-100
	Issues                []string `json:"issues"`
	SuspiciousLowLength   bool     `json:"suspicious_low_length"`
	ColumnStructureIssues bool     `json:"column_structure_issues"`
}

// RawComponents holds the five raw component scores entering calibration
type RawComponents struct {
	Keyword        float64 `json:"keyword"`
	Experience     float64 `json:"experience"`
	ATSReadability float64 `json:"ats_readability"` // blended oracle+heuristic
	ContentQuality float64 `json:"content_quality"`
	JobMatch       float64 `json:"job_match"`
}

// ScoreCalculation is the full calibration trace. Identical inputs always
// produce an identical ScoreCalculation.
type ScoreCalculation struct {
	RawComponents        RawComponents `json:"raw_components"`
	HardFilterMultiplier float64       `json:"hard_filter_multiplier"` // (0,1]
	WeightedBaseScore    float64       `json:"weighted_base_score"`
	FinalScore           float64       `json:"final_score"` // [0,100], one decimal
	Interpretation       string        `json:"interpretation"`
	PenaltiesApplied     float64       `json:"penalties_applied"`
	BonusesApplied       float64       `json:"bonuses_applied"`
}

// FactorExplanation is one per-factor line of the score breakdown
type FactorExplanation struct {
	Factor string  `json:"factor"`
	Score  float64 `json:"score"`
	Detail string  `json:"detail"`
}

// HardFilterReport lists which knockout filters fired and why
type HardFilterReport struct {
	Fired      bool     `json:"fired"`
	Multiplier float64  `json:"multiplier"`
	Reasons    []string `json:"reasons"`
}

// ScoreAdjustment is a flattened penalty or bonus with its point delta
type ScoreAdjustment struct {
	Label  string  `json:"label"`
	Points float64 `json:"points"` // negative for penalties
}

// ScoreBreakdown is the human-readable explanation of a calibration
type ScoreBreakdown struct {
	Factors      []FactorExplanation `json:"factors"`
	HardFilters  HardFilterReport    `json:"hard_filters"`
	Penalties    []ScoreAdjustment   `json:"penalties"`
	Bonuses      []ScoreAdjustment   `json:"bonuses"`
	FinalFormula string              `json:"final_formula"`
}

// AnalysisResult is the assembled output of one full analysis
type AnalysisResult struct {
	OverallScore        float64        `json:"overall_score"`
	Interpretation      string         `json:"interpretation"`
	MatchAnalysis       MatchBreakdown `json:"match_analysis"`
	ATSOptimization     []string       `json:"ats_optimization"`
	Recommendations     []string       `json:"recommendations"`
	JobIndustry         string         `json:"job_industry"`
	JobLevel            string         `json:"job_level"`
	ResumeLevel         string         `json:"resume_level"`
	ExpectedATSPassRate string         `json:"expected_ats_pass_rate"`
	DetectedLanguage    string         `json:"detected_language"`
	ScoreBreakdown      ScoreBreakdown `json:"score_breakdown"`
}
