package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
jane.doe@example.com | +1 (555) 123-4567
linkedin.com/in/janedoe | github.com/janedoe

Summary
Backend engineer with eight years of experience building payment systems.

Experience
Senior Engineer at Acme Corp. Led the billing platform rewrite.
Engineer at Widgets Inc. Built the order pipeline.

Skills
Go, PostgreSQL, Kafka, Kubernetes

Education
BS Computer Science, State University
`

func writeTempResume(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseTextResume(t *testing.T) {
	parser := NewResumeParserService()

	parsed, err := parser.Parse(writeTempResume(t, sampleResume))
	require.NoError(t, err)

	assert.Greater(t, parsed.WordCount, 30)
	assert.Contains(t, parsed.Text, "Backend engineer")

	assert.Equal(t, "jane.doe@example.com", parsed.ContactInfo["email"])
	assert.Contains(t, parsed.ContactInfo["phone"], "555")
	assert.Equal(t, "linkedin.com/in/janedoe", parsed.ContactInfo["linkedin"])
	assert.Equal(t, "github.com/janedoe", parsed.ContactInfo["github"])

	require.Contains(t, parsed.Sections, "experience")
	assert.Contains(t, parsed.Sections["experience"], "Acme Corp")
	require.Contains(t, parsed.Sections, "skills")
	assert.Contains(t, parsed.Sections["skills"], "Kafka")
	assert.Contains(t, parsed.Sections, "summary")
	assert.Contains(t, parsed.Sections, "education")
}

func TestParseResumeWithoutHeaders(t *testing.T) {
	parser := NewResumeParserService()

	parsed, err := parser.Parse(writeTempResume(t, "Just a plain paragraph about work with no section headers at all."))
	require.NoError(t, err)

	assert.Empty(t, parsed.Sections)
	assert.Greater(t, parsed.WordCount, 0)
}

func TestExtractTextUnsupportedFormat(t *testing.T) {
	parser := NewResumeParserService()

	path := filepath.Join(t.TempDir(), "resume.docx")
	require.NoError(t, os.WriteFile(path, []byte("fake"), 0o644))

	_, err := parser.ExtractText(path)
	assert.ErrorContains(t, err, "unsupported file format")
}

func TestExtractTextMissingFile(t *testing.T) {
	parser := NewResumeParserService()

	_, err := parser.ExtractText(filepath.Join(t.TempDir(), "nope.pdf"))
	assert.ErrorContains(t, err, "does not exist")
}

func TestCleanText(t *testing.T) {
	cleaned := CleanText("  line one  \n\n\n   line two\t\n\n")
	assert.Equal(t, "line one\nline two", cleaned)
}
