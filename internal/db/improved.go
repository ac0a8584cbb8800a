package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/placement-pipeline/internal/types"
)

// SaveImprovedResume persists an improved resume record, assigning its ID
// and CreatedAt. Immutable once created.
func (db *DB) SaveImprovedResume(ctx context.Context, r *types.ImprovedResume) (*types.ImprovedResume, error) {
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(r.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal improved data: %w", err)
	}
	summary, _ := json.Marshal(r.ImprovementSummary)

	_, err = db.pool.Exec(ctx,
		`INSERT INTO improved_resumes
			(id, student_id, source_analysis_id, data, improvement_summary,
			 estimated_score, pdf_file_id, pdf_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.StudentID, r.SourceAnalysisID, data, summary,
		r.EstimatedScore, r.PDFFileID, r.PDFURL, r.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save improved resume: %w", err)
	}
	return r, nil
}

// GetImprovedResume returns one improved resume by ID, or nil when not found.
func (db *DB) GetImprovedResume(ctx context.Context, id string) (*types.ImprovedResume, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, student_id, source_analysis_id, data, improvement_summary,
			estimated_score, pdf_file_id, pdf_url, created_at
		 FROM improved_resumes WHERE id = $1`,
		id,
	)

	var r types.ImprovedResume
	var data, summary []byte
	err := row.Scan(&r.ID, &r.StudentID, &r.SourceAnalysisID, &data, &summary,
		&r.EstimatedScore, &r.PDFFileID, &r.PDFURL, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get improved resume: %w", err)
	}

	if err := json.Unmarshal(data, &r.Data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal improved data: %w", err)
	}
	unmarshalOrNil(summary, &r.ImprovementSummary)

	return &r, nil
}
