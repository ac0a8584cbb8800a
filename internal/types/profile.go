package types

// ProfileEducation is an education entry owned by the student's profile.
// Entries created from resume data get a fresh synthetic ID on reconcile.
type ProfileEducation struct {
	ID string `json:"id"`
	Education
}

// ProfileExperience is a work experience entry owned by the student's profile.
type ProfileExperience struct {
	ID string `json:"id"`
	Experience
}

// ProfileProject is a project entry owned by the student's profile.
type ProfileProject struct {
	ID string `json:"id"`
	Project
}

// StudentProfile carries two parallel tracks per category: manually-entered
// fields (Skills, Education, Experience, Projects) and resume-extracted
// shadow fields (ResumeExtracted*). Shadow fields are replaced wholesale by
// each fresh extraction; manual fields change only by explicit user action
// (including reconcile-apply and remove-from-resume).
type StudentProfile struct {
	StudentID string `json:"student_id"`

	Skills     []string            `json:"skills,omitempty"`
	Education  []ProfileEducation  `json:"education,omitempty"`
	Experience []ProfileExperience `json:"experience,omitempty"`
	Projects   []ProfileProject    `json:"projects,omitempty"`

	ResumeExtractedSkills     []string     `json:"resume_extracted_skills,omitempty"`
	ResumeExtractedEducation  []Education  `json:"resume_extracted_education,omitempty"`
	ResumeExtractedExperience []Experience `json:"resume_extracted_experience,omitempty"`
	ResumeExtractedProjects   []Project    `json:"resume_extracted_projects,omitempty"`
}
