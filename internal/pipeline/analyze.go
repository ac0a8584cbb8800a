package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/jonathan/placement-pipeline/internal/analysis"
	"github.com/jonathan/placement-pipeline/internal/extraction"
	"github.com/jonathan/placement-pipeline/internal/types"
)

// Terminal statuses for an upload or reanalyze operation. A non-completed
// status still carries whatever the pipeline produced before the failing
// stage, so callers never lose an uploaded file to a later AI error.
const (
	StatusCompleted   = "completed"
	StatusFailed      = "failed"
	StatusRateLimited = "rate_limited"
)

// UploadRequest carries one resume upload.
type UploadRequest struct {
	StudentID  string
	FileName   string
	MIMEType   string
	Data       []byte
	TargetRole string
}

// UploadResult reports the outcome of an upload-and-analyze pass.
// FileID and DownloadURL are set as soon as the upload stage succeeds,
// regardless of what happens downstream.
type UploadResult struct {
	Status      string                      `json:"status"`
	FileID      string                      `json:"file_id,omitempty"`
	DownloadURL string                      `json:"download_url,omitempty"`
	AnalysisID  string                      `json:"analysis_id,omitempty"`
	Analysis    *types.StoredResumeAnalysis `json:"analysis,omitempty"`
	Error       string                      `json:"error,omitempty"`
	RetryAfter  time.Duration               `json:"-"`
}

// UploadAndAnalyze runs the full pipeline for a fresh resume upload:
// store the file, extract its text, run the AI extraction + analysis,
// persist the record, and refresh the profile's resume-extracted shadow
// fields. Extraction and AI failures are reported in the result's Status
// rather than as an error; only invalid input and persistence failures
// return a non-nil error.
func (s *Service) UploadAndAnalyze(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if strings.TrimSpace(req.StudentID) == "" {
		return nil, &ValidationError{Field: "studentId", Message: "must not be empty"}
	}
	if len(req.Data) == 0 {
		return nil, &ValidationError{Field: "resume", Message: "file is empty"}
	}
	if int64(len(req.Data)) > s.maxUploadBytes {
		return nil, &ValidationError{Field: "resume", Message: fmt.Sprintf("file exceeds %d byte limit", s.maxUploadBytes)}
	}
	// Browsers and multipart clients often send octet-stream for file
	// parts; fall back to the file extension in that case.
	mimeType := req.MIMEType
	if mimeType == "" || strings.HasPrefix(mimeType, "application/octet-stream") {
		mimeType = mimeFromName(req.FileName)
	}
	if !extraction.SupportedMIMEType(mimeType) {
		return nil, &ValidationError{Field: "resume", Message: fmt.Sprintf("unsupported file type %q", mimeType)}
	}

	log.Printf("[PIPELINE] Uploading resume for student %s (%d bytes, %s)", req.StudentID, len(req.Data), mimeType)

	obj, err := s.store.Upload(ctx, req.Data, req.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to store resume: %w", err)
	}

	result := &UploadResult{
		FileID:      obj.FileID,
		DownloadURL: obj.DownloadURL,
	}

	text, err := extraction.Extract(req.Data, mimeType)
	if err != nil {
		log.Printf("[PIPELINE] Text extraction failed for student %s: %v", req.StudentID, err)
		result.Status = StatusFailed
		result.Error = err.Error()
		return result, nil
	}

	s.runAnalysis(ctx, req.StudentID, req.TargetRole, text, obj.FileID, obj.Path, obj.DownloadURL, result)
	return result, nil
}

// ReanalyzeRequest re-runs extraction and analysis against an already
// stored resume file.
type ReanalyzeRequest struct {
	StudentID   string
	DownloadURL string
	TargetRole  string
	Force       bool
}

// ReanalyzeResult mirrors UploadResult and adds Cached, which is true when
// an existing analysis was returned without spending an AI call.
type ReanalyzeResult struct {
	Status     string                      `json:"status"`
	Cached     bool                        `json:"cached"`
	AnalysisID string                      `json:"analysis_id,omitempty"`
	Analysis   *types.StoredResumeAnalysis `json:"analysis,omitempty"`
	Error      string                      `json:"error,omitempty"`
	RetryAfter time.Duration               `json:"-"`
}

// Reanalyze returns the latest stored analysis when one exists and Force is
// unset. Otherwise it re-fetches the resume file and runs the AI pass again.
// Concurrent requests for the same student share a single execution.
func (s *Service) Reanalyze(ctx context.Context, req ReanalyzeRequest) (*ReanalyzeResult, error) {
	if strings.TrimSpace(req.StudentID) == "" {
		return nil, &ValidationError{Field: "studentId", Message: "must not be empty"}
	}

	v, err, _ := s.reanalyzeGroup.Do(req.StudentID, func() (any, error) {
		return s.reanalyze(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ReanalyzeResult), nil
}

func (s *Service) reanalyze(ctx context.Context, req ReanalyzeRequest) (*ReanalyzeResult, error) {
	latest, err := s.analyses.GetLatestAnalysis(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest analysis: %w", err)
	}

	if latest != nil && !req.Force {
		log.Printf("[PIPELINE] Returning cached analysis %s for student %s", latest.ID, req.StudentID)
		return &ReanalyzeResult{
			Status:     StatusCompleted,
			Cached:     true,
			AnalysisID: latest.ID,
			Analysis:   latest,
		}, nil
	}

	downloadURL := req.DownloadURL
	fileID, filePath := "", ""
	if latest != nil {
		fileID, filePath = latest.ResumeFileID, latest.ResumePath
		if downloadURL == "" {
			downloadURL = latest.ResumeURL
		}
	}
	if downloadURL == "" {
		return nil, &ValidationError{Field: "downloadUrl", Message: "no stored resume to re-analyze; provide a download URL"}
	}

	data, err := s.store.Fetch(ctx, downloadURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resume file: %w", err)
	}

	result := &ReanalyzeResult{}
	text, err := extraction.Extract(data, mimeFromName(downloadURL))
	if err != nil {
		log.Printf("[PIPELINE] Text extraction failed on reanalyze for student %s: %v", req.StudentID, err)
		result.Status = StatusFailed
		result.Error = err.Error()
		return result, nil
	}

	targetRole := req.TargetRole
	if targetRole == "" && latest != nil {
		targetRole = latest.TargetRole
	}

	var upload UploadResult
	s.runAnalysis(ctx, req.StudentID, targetRole, text, fileID, filePath, downloadURL, &upload)
	result.Status = upload.Status
	result.AnalysisID = upload.AnalysisID
	result.Analysis = upload.Analysis
	result.Error = upload.Error
	result.RetryAfter = upload.RetryAfter
	return result, nil
}

// runAnalysis performs the AI call, persists the record, and refreshes the
// profile shadow fields, writing the outcome into result. AI failures are
// absorbed into the result status; persistence failures only get logged
// because by that point the caller already holds the file coordinates.
func (s *Service) runAnalysis(ctx context.Context, studentID, targetRole, text, fileID, filePath, downloadURL string, result *UploadResult) {
	analyzed, err := analysis.ExtractAndAnalyze(ctx, s.llm, s.tracker, text, targetRole)
	if err != nil {
		var rl *analysis.RateLimitedError
		if errors.As(err, &rl) {
			log.Printf("[PIPELINE] Analysis rate limited for student %s (retry in %s)", studentID, rl.RetryAfter)
			result.Status = StatusRateLimited
			result.Error = err.Error()
			result.RetryAfter = rl.RetryAfter
			return
		}
		log.Printf("[PIPELINE] Analysis failed for student %s: %v", studentID, err)
		result.Status = StatusFailed
		result.Error = err.Error()
		return
	}

	record := &types.StoredResumeAnalysis{
		StudentID:           studentID,
		ResumeFileID:        fileID,
		ResumePath:          filePath,
		ResumeURL:           downloadURL,
		ExtractedData:       analyzed.ExtractedData,
		OverallScore:        analyzed.OverallScore,
		ATSScore:            analyzed.ATSScore,
		Strengths:           analyzed.Strengths,
		Weaknesses:          analyzed.Weaknesses,
		Suggestions:         analyzed.Suggestions,
		LearningSuggestions: analyzed.LearningSuggestions,
		TargetRole:          targetRole,
	}

	saved, err := s.analyses.SaveAnalysis(ctx, record)
	if err != nil {
		log.Printf("[PIPELINE] Failed to persist analysis for student %s: %v", studentID, err)
		result.Status = StatusFailed
		result.Error = "analysis completed but could not be saved"
		return
	}

	if err := s.updateShadowFields(ctx, studentID, saved.ExtractedData); err != nil {
		// The analysis record is already durable; a stale shadow copy heals
		// on the next extraction.
		log.Printf("[PIPELINE] Failed to update profile shadow fields for student %s: %v", studentID, err)
	}

	log.Printf("[PIPELINE] Analysis %s completed for student %s (overall %d, ATS %d)",
		saved.ID, studentID, saved.OverallScore, saved.ATSScore)

	result.Status = StatusCompleted
	result.AnalysisID = saved.ID
	result.Analysis = saved
}

// updateShadowFields replaces the profile's resume-extracted shadow fields
// wholesale with the latest extraction. Manual fields are never touched.
func (s *Service) updateShadowFields(ctx context.Context, studentID string, data types.ExtractedResumeData) error {
	profile, err := s.profiles.GetProfile(ctx, studentID)
	if err != nil {
		return err
	}

	profile.ResumeExtractedSkills = data.Skills
	profile.ResumeExtractedEducation = data.Education
	profile.ResumeExtractedExperience = data.Experience
	profile.ResumeExtractedProjects = data.Projects

	return s.profiles.SaveProfile(ctx, profile)
}

// GetStoredAnalysis fetches one analysis by ID, or the student's latest when
// analysisID is empty.
func (s *Service) GetStoredAnalysis(ctx context.Context, studentID, analysisID string) (*types.StoredResumeAnalysis, error) {
	if analysisID != "" {
		a, err := s.analyses.GetAnalysis(ctx, analysisID)
		if err != nil {
			return nil, fmt.Errorf("failed to load analysis: %w", err)
		}
		if a == nil {
			return nil, &NotFoundError{Resource: "analysis", ID: analysisID}
		}
		return a, nil
	}

	if strings.TrimSpace(studentID) == "" {
		return nil, &ValidationError{Field: "studentId", Message: "must not be empty"}
	}
	a, err := s.analyses.GetLatestAnalysis(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest analysis: %w", err)
	}
	if a == nil {
		return nil, &NotFoundError{Resource: "analysis"}
	}
	return a, nil
}

// mimeFromName guesses a MIME type from a file name or URL extension,
// defaulting to PDF since that is what resume files overwhelmingly are.
func mimeFromName(name string) string {
	switch strings.ToLower(path.Ext(strings.SplitN(name, "?", 2)[0])) {
	case ".pdf":
		return extraction.MimePDF
	case ".docx":
		return extraction.MimeDocx
	case ".doc":
		return extraction.MimeDoc
	case ".txt":
		return extraction.MimeText
	case ".html", ".htm":
		return extraction.MimeHTML
	default:
		return extraction.MimePDF
	}
}
