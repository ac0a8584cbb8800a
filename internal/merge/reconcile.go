package merge

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/placement-pipeline/internal/types"
)

// ReconcileSkills applies a strategy to the skills category and returns the
// new manual skill list. Under StrategyMerge manual entries keep their
// casing and order, with resume-only entries appended.
func ReconcileSkills(manual, extracted []string, strategy Strategy) []string {
	switch strategy {
	case StrategyProfile:
		return cloneStrings(manual)
	case StrategyResume:
		return dedupeStrings(extracted)
	default:
		merged := MergeSkills(manual, extracted)
		out := make([]string, len(merged))
		for i, skill := range merged {
			out[i] = skill.Name
		}
		return out
	}
}

// ReconcileEducation applies a strategy to the education category. Entries
// adopted from resume data get fresh synthetic IDs.
func ReconcileEducation(manual []types.ProfileEducation, extracted []types.Education, strategy Strategy) []types.ProfileEducation {
	switch strategy {
	case StrategyProfile:
		return append([]types.ProfileEducation(nil), manual...)
	case StrategyResume:
		out := make([]types.ProfileEducation, 0, len(extracted))
		for _, entry := range extracted {
			out = append(out, types.ProfileEducation{ID: uuid.NewString(), Education: entry})
		}
		return out
	default:
		out := make([]types.ProfileEducation, 0, len(manual)+len(extracted))
		for _, entry := range MergeEducation(manual, extracted) {
			id := entry.ID
			if id == "" {
				id = uuid.NewString()
			}
			out = append(out, types.ProfileEducation{ID: id, Education: entry.Education})
		}
		return out
	}
}

// ReconcileExperience applies a strategy to the experience category.
func ReconcileExperience(manual []types.ProfileExperience, extracted []types.Experience, strategy Strategy) []types.ProfileExperience {
	switch strategy {
	case StrategyProfile:
		return append([]types.ProfileExperience(nil), manual...)
	case StrategyResume:
		out := make([]types.ProfileExperience, 0, len(extracted))
		for _, entry := range extracted {
			out = append(out, types.ProfileExperience{ID: uuid.NewString(), Experience: entry})
		}
		return out
	default:
		out := make([]types.ProfileExperience, 0, len(manual)+len(extracted))
		for _, entry := range MergeExperience(manual, extracted) {
			id := entry.ID
			if id == "" {
				id = uuid.NewString()
			}
			out = append(out, types.ProfileExperience{ID: id, Experience: entry.Experience})
		}
		return out
	}
}

// ReconcileProjects applies a strategy to the projects category.
func ReconcileProjects(manual []types.ProfileProject, extracted []types.Project, strategy Strategy) []types.ProfileProject {
	switch strategy {
	case StrategyProfile:
		return append([]types.ProfileProject(nil), manual...)
	case StrategyResume:
		out := make([]types.ProfileProject, 0, len(extracted))
		for _, entry := range extracted {
			out = append(out, types.ProfileProject{ID: uuid.NewString(), Project: entry})
		}
		return out
	default:
		out := make([]types.ProfileProject, 0, len(manual)+len(extracted))
		for _, entry := range MergeProjects(manual, extracted) {
			id := entry.ID
			if id == "" {
				id = uuid.NewString()
			}
			out = append(out, types.ProfileProject{ID: id, Project: entry.Project})
		}
		return out
	}
}

// Removal helpers rewrite the shadow (resume-extracted) lists so a removed
// item does not reappear on the next merged view. Removal from manual fields
// and removal from shadow fields are independent operations.

// RemoveExtractedSkill removes a skill from a shadow skill list by
// case-insensitive trimmed equality.
func RemoveExtractedSkill(items []string, name string) []string {
	key := normKey(name)
	out := items[:0]
	for _, item := range items {
		if normKey(item) != key {
			out = append(out, item)
		}
	}
	return out
}

// RemoveExtractedEducation removes the entry matching institution+degree.
func RemoveExtractedEducation(items []types.Education, institution, degree string) []types.Education {
	key := EducationKey(institution, degree)
	out := items[:0]
	for _, item := range items {
		if EducationKey(item.Institution, item.Degree) != key {
			out = append(out, item)
		}
	}
	return out
}

// RemoveExtractedExperience removes the entry matching company+role.
func RemoveExtractedExperience(items []types.Experience, company, role string) []types.Experience {
	key := ExperienceKey(company, role)
	out := items[:0]
	for _, item := range items {
		if ExperienceKey(item.Company, item.Role) != key {
			out = append(out, item)
		}
	}
	return out
}

// RemoveExtractedProject removes the entry matching title.
func RemoveExtractedProject(items []types.Project, title string) []types.Project {
	key := ProjectKey(title)
	out := items[:0]
	for _, item := range items {
		if ProjectKey(item.Title) != key {
			out = append(out, item)
		}
	}
	return out
}

func cloneStrings(items []string) []string {
	return append([]string(nil), items...)
}

// dedupeStrings trims entries and drops empties and case-insensitive
// duplicates, keeping first occurrence.
func dedupeStrings(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := normKey(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
