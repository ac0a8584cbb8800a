package extraction

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
)

// MinTextLength is the minimum extracted text length to consider a resume
// usable. Shorter output usually means an image-only or corrupted file.
const MinTextLength = 50

// Supported MIME types for uploaded resumes.
const (
	MimePDF  = "application/pdf"
	MimeDoc  = "application/msword"
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
	MimeHTML = "text/html"
)

// SupportedMIMEType reports whether the pipeline can extract text from files
// of the given MIME type.
func SupportedMIMEType(mimeType string) bool {
	switch normalizeMIME(mimeType) {
	case MimePDF, MimeDoc, MimeDocx, MimeText, MimeHTML:
		return true
	}
	return false
}

// Extract converts an uploaded document into plain text. It fails with
// *Error when the buffer is empty, the conversion fails, or the resulting
// text is shorter than MinTextLength.
func Extract(data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", &Error{Message: "file is empty"}
	}

	var text string
	var err error

	switch normalizeMIME(mimeType) {
	case MimePDF:
		text, err = extractPDF(data)
	case MimeDocx, MimeDoc:
		text, err = extractDocx(data)
	case MimeHTML:
		text, err = extractHTML(data)
	case MimeText:
		text = string(data)
	default:
		return "", &Error{Message: fmt.Sprintf("unsupported MIME type %q", mimeType)}
	}
	if err != nil {
		return "", err
	}

	text = cleanWhitespace(text)
	if len(text) < MinTextLength {
		return "", &Error{Message: fmt.Sprintf("extracted text too short (%d chars, need %d); the file may be image-only or corrupted", len(text), MinTextLength)}
	}

	return text, nil
}

// extractPDF pulls plain text out of a PDF byte buffer.
func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &Error{Message: "failed to open PDF", Cause: err}
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &Error{Message: "failed to read PDF text", Cause: err}
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", &Error{Message: "failed to read PDF text stream", Cause: err}
	}
	return buf.String(), nil
}

// docx files are zip archives; the body text lives in word/document.xml.
var docxTagPattern = regexp.MustCompile(`<[^>]+>`)

// extractDocx pulls plain text out of a DOCX byte buffer.
func extractDocx(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &Error{Message: "failed to open document archive", Cause: err}
	}

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", &Error{Message: "failed to open document body", Cause: err}
		}
		var buf bytes.Buffer
		_, err = buf.ReadFrom(rc)
		_ = rc.Close()
		if err != nil {
			return "", &Error{Message: "failed to read document body", Cause: err}
		}

		xml := buf.String()
		// Paragraph and break tags become newlines before stripping markup.
		xml = strings.ReplaceAll(xml, "</w:p>", "\n")
		xml = strings.ReplaceAll(xml, "<w:br/>", "\n")
		return docxTagPattern.ReplaceAllString(xml, ""), nil
	}

	return "", &Error{Message: "document body not found in archive"}
}

// extractHTML parses an HTML resume and returns the main body text.
func extractHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", &Error{Message: "failed to parse HTML", Cause: err}
	}

	doc.Find("script, style, noscript, nav, footer").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Text(), nil
	}
	return body.Text(), nil
}

// cleanWhitespace normalizes whitespace in extracted text.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

// normalizeMIME strips parameters like charset from a Content-Type value.
func normalizeMIME(mimeType string) string {
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
