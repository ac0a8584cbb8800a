package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/placement-pipeline/internal/merge"
	"github.com/jonathan/placement-pipeline/internal/types"
)

// MergedProfile returns the read-only merged view of a student's manual and
// resume-extracted data. It never writes anything.
func (s *Service) MergedProfile(ctx context.Context, studentID string) (*types.MergedProfileView, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, &ValidationError{Field: "studentId", Message: "must not be empty"}
	}

	profile, err := s.profiles.GetProfile(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	view := merge.MergedView(profile)
	return &view, nil
}

// ReconcileRequest applies a reconciliation strategy to one profile category.
type ReconcileRequest struct {
	StudentID string
	Category  string
	Strategy  string
}

// Reconcile rewrites the manual entries of one profile category according to
// the chosen strategy and persists the profile. The resume-extracted shadow
// fields are left untouched so subsequent merged views still show provenance.
func (s *Service) Reconcile(ctx context.Context, req ReconcileRequest) (*types.StudentProfile, error) {
	if strings.TrimSpace(req.StudentID) == "" {
		return nil, &ValidationError{Field: "studentId", Message: "must not be empty"}
	}
	category, err := merge.ParseCategory(req.Category)
	if err != nil {
		return nil, &ValidationError{Field: "category", Message: err.Error()}
	}
	strategy, err := merge.ParseStrategy(req.Strategy)
	if err != nil {
		return nil, &ValidationError{Field: "strategy", Message: err.Error()}
	}

	profile, err := s.profiles.GetProfile(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	switch category {
	case merge.CategorySkills:
		profile.Skills = merge.ReconcileSkills(profile.Skills, profile.ResumeExtractedSkills, strategy)
	case merge.CategoryEducation:
		profile.Education = merge.ReconcileEducation(profile.Education, profile.ResumeExtractedEducation, strategy)
	case merge.CategoryExperience:
		profile.Experience = merge.ReconcileExperience(profile.Experience, profile.ResumeExtractedExperience, strategy)
	case merge.CategoryProjects:
		profile.Projects = merge.ReconcileProjects(profile.Projects, profile.ResumeExtractedProjects, strategy)
	}

	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	log.Printf("[PIPELINE] Reconciled %s for student %s with strategy %s", category, req.StudentID, strategy)
	return profile, nil
}

// RemoveExtractedRequest names one resume-extracted entry to drop from the
// profile's shadow fields. The identifying fields depend on the category:
// skills use Name, education Institution+Degree, experience Company+Role,
// projects Title.
type RemoveExtractedRequest struct {
	StudentID   string
	Category    string
	Name        string
	Institution string
	Degree      string
	Company     string
	Role        string
	Title       string
}

// RemoveExtracted deletes one entry from the resume-extracted shadow fields
// and persists the profile. Manual entries are never affected; removing a
// shadow entry only changes what future merged views and reconciles see.
func (s *Service) RemoveExtracted(ctx context.Context, req RemoveExtractedRequest) (*types.StudentProfile, error) {
	if strings.TrimSpace(req.StudentID) == "" {
		return nil, &ValidationError{Field: "studentId", Message: "must not be empty"}
	}
	category, err := merge.ParseCategory(req.Category)
	if err != nil {
		return nil, &ValidationError{Field: "category", Message: err.Error()}
	}

	profile, err := s.profiles.GetProfile(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	switch category {
	case merge.CategorySkills:
		if req.Name == "" {
			return nil, &ValidationError{Field: "name", Message: "required for skills"}
		}
		profile.ResumeExtractedSkills = merge.RemoveExtractedSkill(profile.ResumeExtractedSkills, req.Name)
	case merge.CategoryEducation:
		if req.Institution == "" {
			return nil, &ValidationError{Field: "institution", Message: "required for education"}
		}
		profile.ResumeExtractedEducation = merge.RemoveExtractedEducation(profile.ResumeExtractedEducation, req.Institution, req.Degree)
	case merge.CategoryExperience:
		if req.Company == "" {
			return nil, &ValidationError{Field: "company", Message: "required for experience"}
		}
		profile.ResumeExtractedExperience = merge.RemoveExtractedExperience(profile.ResumeExtractedExperience, req.Company, req.Role)
	case merge.CategoryProjects:
		if req.Title == "" {
			return nil, &ValidationError{Field: "title", Message: "required for projects"}
		}
		profile.ResumeExtractedProjects = merge.RemoveExtractedProject(profile.ResumeExtractedProjects, req.Title)
	}

	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	log.Printf("[PIPELINE] Removed extracted %s entry for student %s", category, req.StudentID)
	return profile, nil
}
