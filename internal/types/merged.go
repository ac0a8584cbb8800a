package types

// Source identifies where a merged view entry came from.
type Source string

// Source values for merged view entries
const (
	SourceManual Source = "manual"
	SourceResume Source = "resume"
	SourceBoth   Source = "both"
)

// MergedSkill is a request-scoped view of one skill after merging the manual
// and resume-extracted skill sets. Never persisted.
type MergedSkill struct {
	Name   string `json:"name"`
	Source Source `json:"source"` // manual, resume, or both
}

// MergedEducation is a request-scoped view of one education entry.
type MergedEducation struct {
	Education
	ID     string `json:"id,omitempty"` // set for manual entries only
	Source Source `json:"source"`       // manual or resume
}

// MergedExperience is a request-scoped view of one experience entry.
type MergedExperience struct {
	Experience
	ID     string `json:"id,omitempty"`
	Source Source `json:"source"`
}

// MergedProject is a request-scoped view of one project entry.
type MergedProject struct {
	Project
	ID     string `json:"id,omitempty"`
	Source Source `json:"source"`
}

// MergedProfileView is the full merged view of a student's profile,
// computed on demand from the manual and shadow tracks.
type MergedProfileView struct {
	Skills     []MergedSkill      `json:"skills"`
	Education  []MergedEducation  `json:"education"`
	Experience []MergedExperience `json:"experience"`
	Projects   []MergedProject    `json:"projects"`
}
