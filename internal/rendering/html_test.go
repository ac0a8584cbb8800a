package rendering

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/placement-pipeline/internal/types"
)

func fullResume() types.ExtractedResumeData {
	return types.ExtractedResumeData{
		PersonalInfo: types.PersonalInfo{
			Name:    "Priya Sharma",
			Email:   "priya@example.edu",
			Phone:   "+91 98765 43210",
			Summary: "Backend-focused CS undergraduate.",
		},
		Education: []types.Education{
			{Institution: "NIT Trichy", Degree: "B.Tech", Field: "CSE", StartYear: "2022", Current: true, Grade: "9.1 CGPA"},
		},
		Experience: []types.Experience{
			{Company: "Acme Corp", Role: "SDE Intern", StartDate: "05/2025", EndDate: "07/2025", Highlights: []string{"Shipped a billing service"}},
		},
		Projects: []types.Project{
			{Title: "Campus Portal", Description: "Event portal for 2000+ students", Technologies: []string{"Go", "PostgreSQL"}},
		},
		Skills:         []string{"Go", "PostgreSQL"},
		Certifications: []string{"AWS Cloud Practitioner"},
		Achievements:   []string{"Won Smart India Hackathon"},
	}
}

func TestRenderHTML_Deterministic(t *testing.T) {
	data := fullResume()

	first, err := RenderHTML(data)
	require.NoError(t, err)
	second, err := RenderHTML(data)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same input must yield byte-identical output")
}

func TestRenderHTML_AllSectionsPresent(t *testing.T) {
	html, err := RenderHTML(fullResume())
	require.NoError(t, err)

	for _, want := range []string{
		"Priya Sharma", "priya@example.edu",
		"<h2>Summary</h2>", "<h2>Education</h2>", "<h2>Experience</h2>",
		"<h2>Projects</h2>", "<h2>Skills</h2>", "<h2>Certifications</h2>", "<h2>Achievements</h2>",
		"NIT Trichy", "2022 - Present", "Shipped a billing service",
		"Go, PostgreSQL", "AWS Cloud Practitioner",
	} {
		assert.Contains(t, html, want)
	}
}

func TestRenderHTML_OmitsEmptySections(t *testing.T) {
	data := types.ExtractedResumeData{
		PersonalInfo: types.PersonalInfo{Name: "Priya Sharma"},
		Skills:       []string{"Go"},
	}

	html, err := RenderHTML(data)
	require.NoError(t, err)

	assert.Contains(t, html, "<h2>Skills</h2>")
	for _, absent := range []string{
		"<h2>Summary</h2>", "<h2>Education</h2>", "<h2>Experience</h2>",
		"<h2>Projects</h2>", "<h2>Certifications</h2>", "<h2>Achievements</h2>",
	} {
		assert.NotContains(t, html, absent)
	}
}

func TestRenderHTML_EscapesUserContent(t *testing.T) {
	data := types.ExtractedResumeData{
		PersonalInfo: types.PersonalInfo{Name: `<script>alert("x")</script>`},
	}

	html, err := RenderHTML(data)
	require.NoError(t, err)
	assert.NotContains(t, html, `<script>alert`)
	assert.True(t, strings.Contains(html, "&lt;script&gt;"))
}

func TestDateRange(t *testing.T) {
	assert.Equal(t, "2020 - 2024", dateRange("2020", "2024", false))
	assert.Equal(t, "2020 - Present", dateRange("2020", "2024", true))
	assert.Equal(t, "2020", dateRange("2020", "", false))
	assert.Equal(t, "2024", dateRange("", "2024", false))
	assert.Equal(t, "", dateRange("", "", false))
}
