package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/placement-pipeline/internal/types"
)

// buildAnalysisPrompt constructs the single-call prompt that extracts
// structured data and scores the resume in one round trip. One call instead
// of two keeps quota consumption down, since every call draws from the
// shared budget.
func buildAnalysisPrompt(resumeText, targetRole string) string {
	var sb strings.Builder

	sb.WriteString(`You are an expert campus placement resume reviewer. Extract structured data from the resume below and evaluate its quality in a single pass.`)
	sb.WriteString("\n\n")
	if targetRole != "" {
		fmt.Fprintf(&sb, "Evaluate the resume against the target role: %s.\n\n", targetRole)
	}

	sb.WriteString(`Return ONLY valid JSON with this exact structure:
{
  "extracted_data": {
    "personal_info": {"name", "email", "phone", "location", "linkedin", "github", "portfolio", "summary"},
    "education": [{"institution", "degree", "field", "start_year", "end_year", "grade", "current"}],
    "experience": [{"company", "role", "description", "start_date", "end_date", "current", "highlights"}],
    "projects": [{"title", "description", "technologies", "link"}],
    "skills": ["string"],
    "certifications": ["string"],
    "achievements": ["string"]
  },
  "overall_score": 0-100,
  "ats_score": 0-100,
  "strengths": ["string"],
  "weaknesses": ["string"],
  "suggestions": [{"category", "section", "text", "priority": "high|medium|low"}],
  "learning_suggestions": [{"skill", "priority": "high|medium|low", "learning_type": "concept|tool|practice", "estimated_time", "reason"}]
}

IMPORTANT:
- Copy factual fields (names, institutions, companies, dates) verbatim from the resume; do not invent entries.
- Every education entry must have institution and degree; every experience entry must have company and role; every project must have a title.
- overall_score reflects resume quality; ats_score reflects machine-readability for applicant tracking systems.
- Return ONLY the JSON object, no markdown, no explanation, no code blocks.

Resume text:
"""
`)
	sb.WriteString(resumeText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// buildImprovePrompt constructs the prompt that rewrites extracted resume
// data following the stored suggestions.
func buildImprovePrompt(data types.ExtractedResumeData, suggestions []types.Suggestion, targetRole string) string {
	dataJSON, _ := json.MarshalIndent(data, "", "  ")
	suggJSON, _ := json.MarshalIndent(suggestions, "", "  ")

	var sb strings.Builder

	sb.WriteString(`You are an expert resume writer for campus placements. Improve the resume data below by applying the given suggestions: strengthen wording, quantify impact where the facts support it, and tighten descriptions.`)
	sb.WriteString("\n\n")
	if targetRole != "" {
		fmt.Fprintf(&sb, "Tailor the improvements toward the target role: %s.\n\n", targetRole)
	}

	sb.WriteString(`Return ONLY valid JSON with this exact structure:
{
  "improved_data": { same shape as the input resume data },
  "improvement_summary": ["human-readable description of each change made"]
}

IMPORTANT:
- Never invent employers, institutions, dates, or credentials; only rephrase and reorganize what is there.
- Keep every identifying field (institution, degree, company, role, project title) present in the output.
- Return ONLY the JSON object, no markdown, no explanation, no code blocks.

Resume data:
`)
	sb.Write(dataJSON)
	sb.WriteString("\n\nSuggestions to apply:\n")
	sb.Write(suggJSON)
	sb.WriteString("\n")

	return sb.String()
}
