package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/placement-pipeline/internal/analysis"
	"github.com/jonathan/placement-pipeline/internal/rendering"
	"github.com/jonathan/placement-pipeline/internal/types"
)

// ImproveRequest asks for an improved version of a stored analysis. An empty
// AnalysisID means the student's latest analysis.
type ImproveRequest struct {
	StudentID  string
	AnalysisID string
	TargetRole string
}

// ImproveResult carries the improved resume. PDFURL is empty when rendering
// or uploading the PDF failed; the improved data itself is still returned.
type ImproveResult struct {
	ImprovedResumeID   string                    `json:"improved_resume_id"`
	ImprovedData       types.ExtractedResumeData `json:"improved_data"`
	ImprovementSummary []string                  `json:"improvement_summary,omitempty"`
	EstimatedScore     int                       `json:"estimated_score"`
	PDFURL             string                    `json:"pdf_url,omitempty"`
	PDFError           string                    `json:"pdf_error,omitempty"`
}

// ImproveResume runs the improvement AI call against a stored analysis,
// renders the result to PDF, and persists both. AI failures return an error
// (*analysis.RateLimitedError or *analysis.AnalysisError); PDF failures are
// tolerated because the improved text is the valuable part.
func (s *Service) ImproveResume(ctx context.Context, req ImproveRequest) (*ImproveResult, error) {
	if strings.TrimSpace(req.StudentID) == "" && req.AnalysisID == "" {
		return nil, &ValidationError{Field: "studentId", Message: "must not be empty"}
	}

	source, err := s.GetStoredAnalysis(ctx, req.StudentID, req.AnalysisID)
	if err != nil {
		return nil, err
	}

	targetRole := req.TargetRole
	if targetRole == "" {
		targetRole = source.TargetRole
	}

	log.Printf("[PIPELINE] Improving resume for student %s from analysis %s", source.StudentID, source.ID)

	improved, err := analysis.Improve(ctx, s.llm, s.tracker, source.ExtractedData, source.Suggestions, targetRole)
	if err != nil {
		return nil, err
	}

	result := &ImproveResult{
		ImprovedData:       improved.Data,
		ImprovementSummary: improved.ImprovementSummary,
		EstimatedScore:     analysis.EstimatedImprovedScore(source.OverallScore),
	}

	record := &types.ImprovedResume{
		StudentID:          source.StudentID,
		SourceAnalysisID:   source.ID,
		Data:               improved.Data,
		ImprovementSummary: improved.ImprovementSummary,
		EstimatedScore:     result.EstimatedScore,
	}

	if fileID, pdfURL, pdfErr := s.renderAndUpload(ctx, source.StudentID, improved.Data); pdfErr != nil {
		log.Printf("[PIPELINE] PDF generation failed for student %s: %v", source.StudentID, pdfErr)
		result.PDFError = pdfErr.Error()
	} else {
		record.PDFFileID = fileID
		record.PDFURL = pdfURL
		result.PDFURL = pdfURL
	}

	saved, err := s.improved.SaveImprovedResume(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to persist improved resume: %w", err)
	}
	result.ImprovedResumeID = saved.ID

	log.Printf("[PIPELINE] Improved resume %s created for student %s (estimated score %d)",
		saved.ID, source.StudentID, result.EstimatedScore)
	return result, nil
}

func (s *Service) renderAndUpload(ctx context.Context, studentID string, data types.ExtractedResumeData) (fileID, pdfURL string, err error) {
	if s.renderer == nil {
		return "", "", fmt.Errorf("no PDF renderer configured")
	}

	html, err := rendering.RenderHTML(data)
	if err != nil {
		return "", "", err
	}

	pdfBytes, err := s.renderer.Render(ctx, html)
	if err != nil {
		return "", "", err
	}

	obj, err := s.store.Upload(ctx, pdfBytes, fmt.Sprintf("improved-resume-%s.pdf", studentID))
	if err != nil {
		return "", "", err
	}
	return obj.FileID, obj.DownloadURL, nil
}

// GetImprovedResume returns one persisted improved resume by ID.
func (s *Service) GetImprovedResume(ctx context.Context, id string) (*types.ImprovedResume, error) {
	r, err := s.improved.GetImprovedResume(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load improved resume: %w", err)
	}
	if r == nil {
		return nil, &NotFoundError{Resource: "improved resume", ID: id}
	}
	return r, nil
}
