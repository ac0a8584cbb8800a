// Package types provides type definitions for structured data used throughout the placement pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

// PersonalInfo holds contact and summary fields extracted from a resume.
// All fields are optional; the extractor leaves absent fields empty.
type PersonalInfo struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
	Summary   string `json:"summary,omitempty"`
}

// Education represents one education entry extracted from a resume.
// Institution and Degree together identify the entry for merging.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	StartYear   string `json:"start_year,omitempty"`
	EndYear     string `json:"end_year,omitempty"`
	Grade       string `json:"grade,omitempty"`
	Current     bool   `json:"current,omitempty"`
}

// Experience represents one work experience entry extracted from a resume.
// Company and Role together identify the entry for merging.
type Experience struct {
	Company     string   `json:"company"`
	Role        string   `json:"role"`
	Description string   `json:"description,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	Current     bool     `json:"current,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

// Project represents one project entry extracted from a resume.
// Title identifies the entry for merging.
type Project struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Link         string   `json:"link,omitempty"`
}

// ExtractedResumeData is the structured snapshot produced by one AI
// extraction call. It is immutable after creation; a re-analysis creates a
// new record rather than mutating an existing one.
type ExtractedResumeData struct {
	PersonalInfo   PersonalInfo `json:"personal_info"`
	Education      []Education  `json:"education,omitempty"`
	Experience     []Experience `json:"experience,omitempty"`
	Projects       []Project    `json:"projects,omitempty"`
	Skills         []string     `json:"skills,omitempty"`
	Certifications []string     `json:"certifications,omitempty"`
	Achievements   []string     `json:"achievements,omitempty"`
}
