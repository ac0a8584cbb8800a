package types

import "time"

// SuggestionPriority levels for resume improvement suggestions
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Learning types for learning suggestions
const (
	LearningConcept  = "concept"
	LearningTool     = "tool"
	LearningPractice = "practice"
)

// Suggestion represents one actionable improvement suggestion from the analysis
type Suggestion struct {
	Category string `json:"category"`
	Section  string `json:"section,omitempty"`
	Text     string `json:"text"`
	Priority string `json:"priority"` // high, medium, low
}

// LearningSuggestion recommends a skill for the student to pick up
type LearningSuggestion struct {
	Skill         string `json:"skill"`
	Priority      string `json:"priority"`      // high, medium, low
	LearningType  string `json:"learning_type"` // concept, tool, practice
	EstimatedTime string `json:"estimated_time,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// StoredResumeAnalysis is the persisted unit of work for one extraction +
// analysis pass. Records are append-only: a re-analysis supersedes older
// records by AnalyzedAt ordering, never overwrites them.
type StoredResumeAnalysis struct {
	ID                  string               `json:"id"`
	StudentID           string               `json:"student_id"`
	ResumeFileID        string               `json:"resume_file_id,omitempty"`
	ResumePath          string               `json:"resume_path,omitempty"`
	ResumeURL           string               `json:"resume_url,omitempty"`
	ExtractedData       ExtractedResumeData  `json:"extracted_data"`
	OverallScore        int                  `json:"overall_score"` // 0-100
	ATSScore            int                  `json:"ats_score"`     // 0-100
	Strengths           []string             `json:"strengths,omitempty"`
	Weaknesses          []string             `json:"weaknesses,omitempty"`
	Suggestions         []Suggestion         `json:"suggestions,omitempty"`
	LearningSuggestions []LearningSuggestion `json:"learning_suggestions,omitempty"`
	TargetRole          string               `json:"target_role,omitempty"`
	AnalyzedAt          time.Time            `json:"analyzed_at"`
}

// ImprovedResume is the persisted output of the improvement invoker.
// SourceAnalysisID points back to the analysis it was derived from.
// Immutable once created.
type ImprovedResume struct {
	ID                 string              `json:"id"`
	StudentID          string              `json:"student_id"`
	SourceAnalysisID   string              `json:"source_analysis_id"`
	Data               ExtractedResumeData `json:"data"`
	ImprovementSummary []string            `json:"improvement_summary,omitempty"`
	EstimatedScore     int                 `json:"estimated_score"` // heuristic, not a re-analysis
	PDFFileID          string              `json:"pdf_file_id,omitempty"`
	PDFURL             string              `json:"pdf_url,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}
