// Package merge reconciles AI-extracted resume fields with a student's
// manually-curated profile fields, per category, without data loss and
// without duplicates. Deduplication is keyed off content, so reconciling the
// same inputs twice yields the same result.
package merge

import (
	"fmt"
	"strings"

	"github.com/jonathan/placement-pipeline/internal/types"
)

// Strategy selects how a category is reconciled.
type Strategy string

// Reconcile strategies
const (
	// StrategyProfile keeps the manual entries and discards resume data.
	StrategyProfile Strategy = "profile"
	// StrategyResume replaces manual entries with the extracted ones.
	StrategyResume Strategy = "resume"
	// StrategyMerge unions both sides, deduplicated by content key.
	StrategyMerge Strategy = "merge"
)

// ParseStrategy validates a strategy string from an API request.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyProfile:
		return StrategyProfile, nil
	case StrategyResume:
		return StrategyResume, nil
	case StrategyMerge:
		return StrategyMerge, nil
	}
	return "", fmt.Errorf("unknown merge strategy %q (want profile, resume, or merge)", s)
}

// Category identifies which profile section is being reconciled.
type Category string

// Profile categories subject to reconciliation
const (
	CategorySkills     Category = "skills"
	CategoryEducation  Category = "education"
	CategoryExperience Category = "experience"
	CategoryProjects   Category = "projects"
)

// ParseCategory validates a category string from an API request.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategorySkills:
		return CategorySkills, nil
	case CategoryEducation:
		return CategoryEducation, nil
	case CategoryExperience:
		return CategoryExperience, nil
	case CategoryProjects:
		return CategoryProjects, nil
	}
	return "", fmt.Errorf("unknown category %q (want skills, education, experience, or projects)", s)
}

// normKey builds a dedup key from identifying fields: lowercased, trimmed,
// joined with a separator that cannot appear in the fields themselves.
func normKey(parts ...string) string {
	normalized := make([]string, len(parts))
	for i, part := range parts {
		normalized[i] = strings.ToLower(strings.TrimSpace(part))
	}
	return strings.Join(normalized, "\x00")
}

// EducationKey returns the dedup key for an education entry.
func EducationKey(institution, degree string) string { return normKey(institution, degree) }

// ExperienceKey returns the dedup key for an experience entry.
func ExperienceKey(company, role string) string { return normKey(company, role) }

// ProjectKey returns the dedup key for a project entry.
func ProjectKey(title string) string { return normKey(title) }

// MergeSkills unions the manual and extracted skill sets. Skills present in
// both sets are tagged SourceBoth and keep the manual casing. Manual entries
// come first, then resume-only entries.
func MergeSkills(manual, extracted []string) []types.MergedSkill {
	merged := make([]types.MergedSkill, 0, len(manual)+len(extracted))
	index := make(map[string]int, len(manual))

	for _, skill := range manual {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		key := normKey(skill)
		if _, ok := index[key]; ok {
			continue
		}
		index[key] = len(merged)
		merged = append(merged, types.MergedSkill{Name: skill, Source: types.SourceManual})
	}

	for _, skill := range extracted {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		key := normKey(skill)
		if i, ok := index[key]; ok {
			merged[i].Source = types.SourceBoth
			continue
		}
		index[key] = len(merged)
		merged = append(merged, types.MergedSkill{Name: skill, Source: types.SourceResume})
	}

	return merged
}

// MergeEducation unions manual and extracted education entries, keyed by
// institution+degree. On collision the manual entry wins.
func MergeEducation(manual []types.ProfileEducation, extracted []types.Education) []types.MergedEducation {
	merged := make([]types.MergedEducation, 0, len(manual)+len(extracted))
	seen := make(map[string]bool, len(manual))

	for _, entry := range manual {
		key := EducationKey(entry.Institution, entry.Degree)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, types.MergedEducation{Education: entry.Education, ID: entry.ID, Source: types.SourceManual})
	}

	for _, entry := range extracted {
		key := EducationKey(entry.Institution, entry.Degree)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, types.MergedEducation{Education: entry, Source: types.SourceResume})
	}

	return merged
}

// MergeExperience unions manual and extracted experience entries, keyed by
// company+role. On collision the manual entry wins.
func MergeExperience(manual []types.ProfileExperience, extracted []types.Experience) []types.MergedExperience {
	merged := make([]types.MergedExperience, 0, len(manual)+len(extracted))
	seen := make(map[string]bool, len(manual))

	for _, entry := range manual {
		key := ExperienceKey(entry.Company, entry.Role)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, types.MergedExperience{Experience: entry.Experience, ID: entry.ID, Source: types.SourceManual})
	}

	for _, entry := range extracted {
		key := ExperienceKey(entry.Company, entry.Role)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, types.MergedExperience{Experience: entry, Source: types.SourceResume})
	}

	return merged
}

// MergeProjects unions manual and extracted project entries, keyed by title.
// On collision the manual entry wins.
func MergeProjects(manual []types.ProfileProject, extracted []types.Project) []types.MergedProject {
	merged := make([]types.MergedProject, 0, len(manual)+len(extracted))
	seen := make(map[string]bool, len(manual))

	for _, entry := range manual {
		key := ProjectKey(entry.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, types.MergedProject{Project: entry.Project, ID: entry.ID, Source: types.SourceManual})
	}

	for _, entry := range extracted {
		key := ProjectKey(entry.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, types.MergedProject{Project: entry, Source: types.SourceResume})
	}

	return merged
}

// MergedView computes the full transient merged view of a profile.
func MergedView(profile *types.StudentProfile) types.MergedProfileView {
	return types.MergedProfileView{
		Skills:     MergeSkills(profile.Skills, profile.ResumeExtractedSkills),
		Education:  MergeEducation(profile.Education, profile.ResumeExtractedEducation),
		Experience: MergeExperience(profile.Experience, profile.ResumeExtractedExperience),
		Projects:   MergeProjects(profile.Projects, profile.ResumeExtractedProjects),
	}
}
