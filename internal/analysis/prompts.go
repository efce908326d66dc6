package analysis

import (
	"resumefit/internal/config"
	"resumefit/internal/oracle"
)

// defaultSystemPrompts holds the built-in system instructions per operation.
// A PromptStore override, when configured, takes precedence.
var defaultSystemPrompts = map[string]string{
	oracle.OpExtractJob: `You are an expert HR analyst specializing in job description analysis. Your core principles are:

- Extract only facts explicitly stated in the job description
- Never infer requirements that are not written down
- Distinguish carefully between required and preferred qualifications
- Respond with a single JSON object and nothing else`,

	oracle.OpExtractResume: `You are an expert resume analyst with deep knowledge of professional backgrounds across industries. Your core principles are:

- Extract only facts explicitly present in the resume
- Never invent, exaggerate, or misattribute any skills or experiences
- Estimate experience durations conservatively from stated dates
- Respond with a single JSON object and nothing else`,

	oracle.OpMatch: `You are an expert recruitment analyst comparing a candidate's background against a role's requirements. Your core principles are:

- Report raw per-factor evidence only; do NOT compute an overall score
- Every claim must be traceable to the provided extractions
- Be precise about which required skills are matched and which are missing
- Respond with a single JSON object and nothing else`,

	oracle.OpOptimize: `You are an ATS (Applicant Tracking System) optimization specialist. Your core principles are:

- Suggest honest keyword placements grounded in the candidate's real background
- Never advise fabricating skills or experience
- Keep each tip short, specific and actionable
- Respond with a single JSON object and nothing else`,

	oracle.OpRecommend: `You are an experienced career coach providing candid, constructive advice. Your core principles are:

- Ground every recommendation in the specific gaps identified
- Prioritize advice by likely impact on this application
- Be encouraging but honest about significant gaps
- Respond with a single JSON object and nothing else`,
}

// defaultUserPrompts holds the built-in user prompt templates. Placeholders
// are filled with fmt.Sprintf in pipeline order.
var defaultUserPrompts = map[string]string{
	oracle.OpExtractJob: `Extract the structured requirements from the following job description.

Return a JSON object with these fields:
- required_skills: array of must-have skills
- preferred_skills: array of nice-to-have skills
- hard_requirements: array of knockout criteria (certifications, clearances, degrees stated as mandatory)
- experience_required: object {minimum_years, preferred_years, field}
- experience_level: one of entry/mid/senior/lead/executive
- industry: the industry this role belongs to
- key_responsibilities: array of main duties
- tools_technologies: array of specific tools and technologies named
- education_requirements: object {required, preferred}

Job Description:
-----
%s
-----`,

	oracle.OpExtractResume: `Extract the structured content from the following resume.

Return a JSON object with these fields:
- summary: one-sentence professional summary
- technical_skills: array of technical skills
- soft_skills: array of soft skills
- years_experience_total: total years of professional experience (number)
- years_in_primary_field: years in the candidate's primary field (number)
- experience_level: one of entry/mid/senior/lead/executive
- industries_worked_in: array of industries
- key_accomplishments: array of notable accomplishments
- education: object {degree, field}
- certifications: array of certifications
- languages: array of spoken languages

Resume:
-----
%s
-----`,

	oracle.OpMatch: `Compare the candidate against the role using the two structured extractions below. Report raw evidence per factor; do NOT compute an overall score.

Return a JSON object with these fields:
- skill_alignment: object {score (0-100), matched_required_skills, missing_required_skills, matched_preferred_skills}
- experience_fit: object {score (0-100), gap (years short of the stated minimum, 0 if none), assessment}
- content_quality: object {score (0-100), strengths, weaknesses}
- job_specific_match: object {score (0-100), notes}
- ats_readability: object {score (0-100), issues}
- keywords_missing: array of {keyword, importance ("required" or "preferred"), penalty (points 0-15), why_matters}
- bonuses: array of {reason, points (1-5), category}
- hard_filter_violations: array of {type, severity ("critical" or "minor")}

Job Requirements:
-----
%s
-----

Resume Content:
-----
%s
-----`,

	oracle.OpOptimize: `Suggest ATS keyword-placement improvements for this candidate.

The analysis found these missing keywords:
%s

Respond in language: %s

Return a JSON object with one field:
- ats_optimization: array of 3-7 short, specific keyword-placement tips`,

	oracle.OpRecommend: `Provide career coaching advice for this candidate targeting the given industry.

Industry: %s
The analysis found these missing keywords:
%s

Respond in language: %s

Return a JSON object with one field:
- recommendations: array of 3-7 prioritized, specific recommendations`,
}

// resolvePrompts returns the effective system and user prompts for an
// operation: file/config overrides from the store first, then the built-in
// defaults
func resolvePrompts(store *config.PromptStore, operation string) (system, user string) {
	if store != nil {
		system, user = store.Resolve(operation)
	}
	if system == "" {
		system = defaultSystemPrompts[operation]
	}
	if user == "" {
		user = defaultUserPrompts[operation]
	}
	return system, user
}
