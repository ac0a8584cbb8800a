package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResumeText = `Priya Sharma
priya.sharma@example.edu | +91 98765 43210
B.Tech Computer Science, NIT Trichy, 2022-2026
Skills: Go, Python, PostgreSQL, Docker
Built a campus event portal serving 2000+ students.`

func TestExtract_PlainText(t *testing.T) {
	text, err := Extract([]byte(sampleResumeText), "text/plain; charset=utf-8")
	require.NoError(t, err)
	assert.Contains(t, text, "Priya Sharma")
	assert.Contains(t, text, "PostgreSQL")
}

func TestExtract_HTML(t *testing.T) {
	html := `<html><head><style>body{color:red}</style></head><body>
		<nav>Site navigation</nav>
		<main><h1>Priya Sharma</h1><p>` + sampleResumeText + `</p></main>
		<footer>footer junk</footer>
		</body></html>`

	text, err := Extract([]byte(html), "text/html")
	require.NoError(t, err)
	assert.Contains(t, text, "Priya Sharma")
	assert.Contains(t, text, "campus event portal")
	assert.NotContains(t, text, "Site navigation")
	assert.NotContains(t, text, "color:red")
}

func TestExtract_EmptyBuffer(t *testing.T) {
	_, err := Extract(nil, "application/pdf")
	require.Error(t, err)

	var extErr *Error
	require.ErrorAs(t, err, &extErr)
	assert.Contains(t, extErr.Error(), "empty")
}

func TestExtract_TooShort(t *testing.T) {
	_, err := Extract([]byte("too short"), "text/plain")
	require.Error(t, err)

	var extErr *Error
	require.ErrorAs(t, err, &extErr)
	assert.Contains(t, extErr.Error(), "too short")
}

func TestExtract_UnsupportedMIMEType(t *testing.T) {
	_, err := Extract([]byte(sampleResumeText), "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported MIME type")
}

func TestExtract_CorruptPDF(t *testing.T) {
	_, err := Extract([]byte("definitely not a pdf but long enough to pass the empty check"), "application/pdf")
	require.Error(t, err)

	var extErr *Error
	assert.ErrorAs(t, err, &extErr)
}

func TestSupportedMIMEType(t *testing.T) {
	assert.True(t, SupportedMIMEType("application/pdf"))
	assert.True(t, SupportedMIMEType("TEXT/PLAIN; charset=utf-8"))
	assert.True(t, SupportedMIMEType(MimeDocx))
	assert.False(t, SupportedMIMEType("image/jpeg"))
	assert.False(t, SupportedMIMEType(""))
}

func TestCleanWhitespace(t *testing.T) {
	in := "  line one \n\n\n   line   two\t\tthree  \n"
	assert.Equal(t, "line one\nline two three", cleanWhitespace(in))
	assert.Equal(t, strings.TrimSpace(""), cleanWhitespace("   \n  \n"))
}
