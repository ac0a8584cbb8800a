package analysis

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/jonathan/placement-pipeline/internal/llm"
	"github.com/jonathan/placement-pipeline/internal/quota"
	"github.com/jonathan/placement-pipeline/internal/types"
)

// Result holds the combined extraction and quality analysis for one resume.
type Result struct {
	ExtractedData       types.ExtractedResumeData
	OverallScore        int
	ATSScore            int
	Strengths           []string
	Weaknesses          []string
	Suggestions         []types.Suggestion
	LearningSuggestions []types.LearningSuggestion
}

// analysisResponse is the wire shape of the AI analysis reply. Scores arrive
// as numbers and are clamped to [0,100] when mapped into Result.
type analysisResponse struct {
	ExtractedData       types.ExtractedResumeData  `json:"extracted_data"`
	OverallScore        float64                    `json:"overall_score"`
	ATSScore            float64                    `json:"ats_score"`
	Strengths           []string                   `json:"strengths"`
	Weaknesses          []string                   `json:"weaknesses"`
	Suggestions         []types.Suggestion         `json:"suggestions"`
	LearningSuggestions []types.LearningSuggestion `json:"learning_suggestions"`
}

// ExtractAndAnalyze performs the single AI round trip that extracts
// structured resume data and scores it. The quota tracker is consulted
// before the network call; when the budget is exhausted it returns
// *RateLimitedError without touching the network. AI failures surface as
// *AnalysisError and are not auto-retried, so a failed call never burns a
// second quota token without an explicit user action.
func ExtractAndAnalyze(ctx context.Context, client llm.Client, tracker *quota.Tracker, resumeText, targetRole string) (*Result, error) {
	info := tracker.CheckAndConsume()
	if !info.Allowed {
		return nil, &RateLimitedError{RetryAfter: info.ResetIn}
	}

	prompt := buildAnalysisPrompt(resumeText, targetRole)

	raw, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		if llm.IsRateLimitError(err) {
			return nil, &RateLimitedError{RetryAfter: tracker.Status().ResetIn}
		}
		return nil, &AnalysisError{Message: "AI call failed", Cause: err}
	}
	if strings.TrimSpace(raw) == "" {
		return nil, &AnalysisError{Message: "AI returned an empty response"}
	}

	if err := validateResponse(analysisResponseSchema, raw); err != nil {
		return nil, err
	}

	var resp analysisResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, &AnalysisError{Message: "failed to parse AI response", Cause: err}
	}

	result := &Result{
		ExtractedData:       resp.ExtractedData,
		OverallScore:        clampScore(resp.OverallScore),
		ATSScore:            clampScore(resp.ATSScore),
		Strengths:           resp.Strengths,
		Weaknesses:          resp.Weaknesses,
		Suggestions:         normalizeSuggestions(resp.Suggestions),
		LearningSuggestions: normalizeLearningSuggestions(resp.LearningSuggestions),
	}
	NormalizeExtracted(&result.ExtractedData)

	return result, nil
}

// clampScore rounds a raw score and clamps it to [0,100].
func clampScore(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	v := int(math.Round(score))
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// NormalizeExtracted cleans AI-extracted data at the boundary: skill strings
// are trimmed and deduplicated, and list entries missing their identifying
// fields are dropped. Identifying fields are the merge dedup keys, so an
// entry without them can never be reconciled.
func NormalizeExtracted(d *types.ExtractedResumeData) {
	d.Skills = cleanStrings(d.Skills)
	d.Certifications = cleanStrings(d.Certifications)
	d.Achievements = cleanStrings(d.Achievements)

	edu := d.Education[:0]
	for _, e := range d.Education {
		if strings.TrimSpace(e.Institution) != "" && strings.TrimSpace(e.Degree) != "" {
			edu = append(edu, e)
		}
	}
	d.Education = edu

	exp := d.Experience[:0]
	for _, e := range d.Experience {
		if strings.TrimSpace(e.Company) != "" && strings.TrimSpace(e.Role) != "" {
			exp = append(exp, e)
		}
	}
	d.Experience = exp

	projects := d.Projects[:0]
	for _, p := range d.Projects {
		if strings.TrimSpace(p.Title) != "" {
			projects = append(projects, p)
		}
	}
	d.Projects = projects
}

// cleanStrings trims entries and drops empties and case-insensitive duplicates.
func cleanStrings(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

func normalizeSuggestions(suggestions []types.Suggestion) []types.Suggestion {
	for i := range suggestions {
		suggestions[i].Priority = normalizePriority(suggestions[i].Priority)
	}
	return suggestions
}

func normalizeLearningSuggestions(suggestions []types.LearningSuggestion) []types.LearningSuggestion {
	for i := range suggestions {
		suggestions[i].Priority = normalizePriority(suggestions[i].Priority)
		switch strings.ToLower(suggestions[i].LearningType) {
		case types.LearningConcept, types.LearningTool, types.LearningPractice:
			suggestions[i].LearningType = strings.ToLower(suggestions[i].LearningType)
		default:
			suggestions[i].LearningType = types.LearningPractice
		}
	}
	return suggestions
}

func normalizePriority(priority string) string {
	switch strings.ToLower(priority) {
	case types.PriorityHigh, types.PriorityMedium, types.PriorityLow:
		return strings.ToLower(priority)
	default:
		return types.PriorityMedium
	}
}
