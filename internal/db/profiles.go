package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/placement-pipeline/internal/types"
)

// GetProfile returns a student's profile, or an empty profile when the
// student has no row yet.
func (db *DB) GetProfile(ctx context.Context, studentID string) (*types.StudentProfile, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT student_id, skills, education, experience, projects,
			resume_skills, resume_education, resume_experience, resume_projects
		 FROM student_profiles WHERE student_id = $1`,
		studentID,
	)

	var p types.StudentProfile
	var skills, education, experience, projects []byte
	var rSkills, rEducation, rExperience, rProjects []byte

	err := row.Scan(&p.StudentID, &skills, &education, &experience, &projects,
		&rSkills, &rEducation, &rExperience, &rProjects)
	if err != nil {
		if err == pgx.ErrNoRows {
			return &types.StudentProfile{StudentID: studentID}, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	unmarshalOrNil(skills, &p.Skills)
	unmarshalOrNil(education, &p.Education)
	unmarshalOrNil(experience, &p.Experience)
	unmarshalOrNil(projects, &p.Projects)
	unmarshalOrNil(rSkills, &p.ResumeExtractedSkills)
	unmarshalOrNil(rEducation, &p.ResumeExtractedEducation)
	unmarshalOrNil(rExperience, &p.ResumeExtractedExperience)
	unmarshalOrNil(rProjects, &p.ResumeExtractedProjects)

	return &p, nil
}

// SaveProfile writes a full profile row, both manual and shadow tracks.
// Shadow fields are last-writer-wins by design: each write is a full
// replacement, so concurrent re-analyses need no coordination.
func (db *DB) SaveProfile(ctx context.Context, p *types.StudentProfile) error {
	skills, _ := json.Marshal(p.Skills)
	education, _ := json.Marshal(p.Education)
	experience, _ := json.Marshal(p.Experience)
	projects, _ := json.Marshal(p.Projects)
	rSkills, _ := json.Marshal(p.ResumeExtractedSkills)
	rEducation, _ := json.Marshal(p.ResumeExtractedEducation)
	rExperience, _ := json.Marshal(p.ResumeExtractedExperience)
	rProjects, _ := json.Marshal(p.ResumeExtractedProjects)

	_, err := db.pool.Exec(ctx,
		`INSERT INTO student_profiles
			(student_id, skills, education, experience, projects,
			 resume_skills, resume_education, resume_experience, resume_projects, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		 ON CONFLICT (student_id) DO UPDATE SET
			skills = $2, education = $3, experience = $4, projects = $5,
			resume_skills = $6, resume_education = $7,
			resume_experience = $8, resume_projects = $9, updated_at = NOW()`,
		p.StudentID, skills, education, experience, projects,
		rSkills, rEducation, rExperience, rProjects,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
