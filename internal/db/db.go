// Package db provides PostgreSQL persistence for resume analyses, student
// profiles, and improved resumes.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the pipeline tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS resume_analyses (
			id UUID PRIMARY KEY,
			student_id TEXT NOT NULL,
			file_id TEXT,
			file_path TEXT,
			file_url TEXT,
			extracted_data JSONB NOT NULL,
			overall_score INT NOT NULL,
			ats_score INT NOT NULL,
			strengths JSONB,
			weaknesses JSONB,
			suggestions JSONB,
			learning_suggestions JSONB,
			target_role TEXT,
			analyzed_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_resume_analyses_student
			ON resume_analyses (student_id, analyzed_at DESC);

		CREATE TABLE IF NOT EXISTS student_profiles (
			student_id TEXT PRIMARY KEY,
			skills JSONB,
			education JSONB,
			experience JSONB,
			projects JSONB,
			resume_skills JSONB,
			resume_education JSONB,
			resume_experience JSONB,
			resume_projects JSONB,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS improved_resumes (
			id UUID PRIMARY KEY,
			student_id TEXT NOT NULL,
			source_analysis_id UUID NOT NULL,
			data JSONB NOT NULL,
			improvement_summary JSONB,
			estimated_score INT NOT NULL,
			pdf_file_id TEXT,
			pdf_url TEXT,
			created_at TIMESTAMPTZ NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
