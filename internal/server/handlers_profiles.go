package server

import (
	"net/http"

	"github.com/jonathan/placement-pipeline/internal/pipeline"
)

// ReconcileRequest is the request body for POST /students/{id}/profile/reconcile
type ReconcileRequest struct {
	Category string `json:"category" validate:"required,oneof=skills education experience projects"`
	Strategy string `json:"strategy" validate:"required,oneof=profile resume merge"`
}

// handleMergedProfile returns the merged view of manual and resume data.
func (s *Server) handleMergedProfile(w http.ResponseWriter, r *http.Request) {
	view, err := s.pipeline.MergedProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		s.pipelineError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

// handleReconcile applies a reconciliation strategy to one profile category.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("id")

	var req ReconcileRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := s.pipeline.Reconcile(r.Context(), pipeline.ReconcileRequest{
		StudentID: studentID,
		Category:  req.Category,
		Strategy:  req.Strategy,
	})
	if err != nil {
		s.pipelineError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleRemoveExtracted deletes one resume-extracted entry from the
// profile's shadow fields. Entry identity comes from query parameters:
// name for skills, institution/degree for education, company/role for
// experience, title for projects.
func (s *Server) handleRemoveExtracted(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	profile, err := s.pipeline.RemoveExtracted(r.Context(), pipeline.RemoveExtractedRequest{
		StudentID:   r.PathValue("id"),
		Category:    r.PathValue("category"),
		Name:        q.Get("name"),
		Institution: q.Get("institution"),
		Degree:      q.Get("degree"),
		Company:     q.Get("company"),
		Role:        q.Get("role"),
		Title:       q.Get("title"),
	})
	if err != nil {
		s.pipelineError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}
