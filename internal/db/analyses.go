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

// SaveAnalysis persists a new analysis record, assigning its ID and
// AnalyzedAt. Records are append-only: re-analysis inserts a new row and the
// latest row supersedes older ones by analyzed_at ordering.
func (db *DB) SaveAnalysis(ctx context.Context, a *types.StoredResumeAnalysis) (*types.StoredResumeAnalysis, error) {
	a.ID = uuid.NewString()
	a.AnalyzedAt = time.Now().UTC()

	extracted, err := json.Marshal(a.ExtractedData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extracted data: %w", err)
	}
	strengths, _ := json.Marshal(a.Strengths)
	weaknesses, _ := json.Marshal(a.Weaknesses)
	suggestions, _ := json.Marshal(a.Suggestions)
	learning, _ := json.Marshal(a.LearningSuggestions)

	_, err = db.pool.Exec(ctx,
		`INSERT INTO resume_analyses
			(id, student_id, file_id, file_path, file_url, extracted_data,
			 overall_score, ats_score, strengths, weaknesses, suggestions,
			 learning_suggestions, target_role, analyzed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		a.ID, a.StudentID, a.ResumeFileID, a.ResumePath, a.ResumeURL, extracted,
		a.OverallScore, a.ATSScore, strengths, weaknesses, suggestions,
		learning, a.TargetRole, a.AnalyzedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	return a, nil
}

// GetLatestAnalysis returns the most recent analysis for a student, or nil
// when none exists. Ordering by (analyzed_at, id) keeps "latest" well-defined
// even when concurrent uploads land in the same instant.
func (db *DB) GetLatestAnalysis(ctx context.Context, studentID string) (*types.StoredResumeAnalysis, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, student_id, file_id, file_path, file_url, extracted_data,
			overall_score, ats_score, strengths, weaknesses, suggestions,
			learning_suggestions, target_role, analyzed_at
		 FROM resume_analyses
		 WHERE student_id = $1
		 ORDER BY analyzed_at DESC, id DESC
		 LIMIT 1`,
		studentID,
	)
	return scanAnalysis(row)
}

// GetAnalysis returns one analysis by ID, or nil when not found.
func (db *DB) GetAnalysis(ctx context.Context, id string) (*types.StoredResumeAnalysis, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, student_id, file_id, file_path, file_url, extracted_data,
			overall_score, ats_score, strengths, weaknesses, suggestions,
			learning_suggestions, target_role, analyzed_at
		 FROM resume_analyses WHERE id = $1`,
		id,
	)
	return scanAnalysis(row)
}

func scanAnalysis(row pgx.Row) (*types.StoredResumeAnalysis, error) {
	var a types.StoredResumeAnalysis
	var extracted, strengths, weaknesses, suggestions, learning []byte

	err := row.Scan(&a.ID, &a.StudentID, &a.ResumeFileID, &a.ResumePath, &a.ResumeURL,
		&extracted, &a.OverallScore, &a.ATSScore, &strengths, &weaknesses,
		&suggestions, &learning, &a.TargetRole, &a.AnalyzedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	if err := json.Unmarshal(extracted, &a.ExtractedData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal extracted data: %w", err)
	}
	unmarshalOrNil(strengths, &a.Strengths)
	unmarshalOrNil(weaknesses, &a.Weaknesses)
	unmarshalOrNil(suggestions, &a.Suggestions)
	unmarshalOrNil(learning, &a.LearningSuggestions)

	return &a, nil
}

// unmarshalOrNil decodes a nullable JSONB column, leaving the target zero
// when the column is NULL.
func unmarshalOrNil(data []byte, target any) {
	if len(data) == 0 {
		return
	}
	_ = json.Unmarshal(data, target)
}
