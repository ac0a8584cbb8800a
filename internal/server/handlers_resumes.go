package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/placement-pipeline/internal/pipeline"
)

// ReanalyzeRequest is the request body for POST /students/{id}/resume/reanalyze
type ReanalyzeRequest struct {
	DownloadURL string `json:"download_url,omitempty" validate:"omitempty,url"`
	TargetRole  string `json:"target_role,omitempty" validate:"omitempty,max=200"`
	Force       bool   `json:"force,omitempty"`
}

// ImproveRequest is the request body for POST /students/{id}/resume/improve
type ImproveRequest struct {
	AnalysisID string `json:"analysis_id,omitempty" validate:"omitempty,uuid"`
	TargetRole string `json:"target_role,omitempty" validate:"omitempty,max=200"`
}

// handleUploadResume accepts a multipart resume upload and runs the full
// extraction + analysis pipeline synchronously.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("id")

	if err := r.ParseMultipartForm(pipeline.DefaultMaxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing 'resume' file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read uploaded file: "+err.Error())
		return
	}

	result, err := s.pipeline.UploadAndAnalyze(r.Context(), pipeline.UploadRequest{
		StudentID:  studentID,
		FileName:   header.Filename,
		MIMEType:   header.Header.Get("Content-Type"),
		Data:       data,
		TargetRole: r.FormValue("target_role"),
	})
	if err != nil {
		s.pipelineError(w, err)
		return
	}

	s.writeUploadResult(w, result.Status, result.RetryAfter, result)
}

// handleReanalyze re-runs analysis for a stored resume.
func (s *Server) handleReanalyze(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("id")

	var req ReanalyzeRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.pipeline.Reanalyze(r.Context(), pipeline.ReanalyzeRequest{
		StudentID:   studentID,
		DownloadURL: req.DownloadURL,
		TargetRole:  req.TargetRole,
		Force:       req.Force,
	})
	if err != nil {
		s.pipelineError(w, err)
		return
	}

	s.writeUploadResult(w, result.Status, result.RetryAfter, result)
}

// writeUploadResult maps a tagged pipeline result onto an HTTP status. The
// body is always the full result so callers get the file coordinates even
// on failure.
func (s *Server) writeUploadResult(w http.ResponseWriter, status string, retryAfter time.Duration, body any) {
	code := http.StatusOK
	switch status {
	case pipeline.StatusRateLimited:
		code = http.StatusTooManyRequests
		if retryAfter > 0 {
			w.Header().Set("Retry-After", formatSeconds(retryAfter))
		}
	case pipeline.StatusFailed:
		code = http.StatusUnprocessableEntity
	}
	s.jsonResponse(w, code, body)
}

// handleLatestAnalysis returns the student's most recent analysis.
func (s *Server) handleLatestAnalysis(w http.ResponseWriter, r *http.Request) {
	a, err := s.pipeline.GetStoredAnalysis(r.Context(), r.PathValue("id"), "")
	if err != nil {
		s.pipelineError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, a)
}

// handleGetAnalysis returns one analysis record by ID.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	a, err := s.pipeline.GetStoredAnalysis(r.Context(), "", r.PathValue("id"))
	if err != nil {
		s.pipelineError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, a)
}

// handleImprove generates an improved resume from a stored analysis.
func (s *Server) handleImprove(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("id")

	var req ImproveRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.pipeline.ImproveResume(r.Context(), pipeline.ImproveRequest{
		StudentID:  studentID,
		AnalysisID: req.AnalysisID,
		TargetRole: req.TargetRole,
	})
	if err != nil {
		s.pipelineError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleGetImproved returns one improved resume record by ID.
func (s *Server) handleGetImproved(w http.ResponseWriter, r *http.Request) {
	improved, err := s.pipeline.GetImprovedResume(r.Context(), r.PathValue("id"))
	if err != nil {
		s.pipelineError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, improved)
}

// decodeAndValidate decodes a JSON request body and runs struct validation.
// An empty body is treated as the zero request.
func (s *Server) decodeAndValidate(r *http.Request, target any) error {
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(target); err != nil && err != io.EOF {
			log.Printf("Failed to decode request body: %v", err)
			return &pipeline.ValidationError{Field: "body", Message: "invalid JSON"}
		}
	}
	if err := s.validate.Struct(target); err != nil {
		return &pipeline.ValidationError{Field: "body", Message: err.Error()}
	}
	return nil
}

func formatSeconds(d time.Duration) string {
	return strconv.Itoa(int(d.Seconds()) + 1)
}
