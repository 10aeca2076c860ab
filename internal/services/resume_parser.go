package services

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ParsedResume is the result of text extraction and light structure
// detection over an uploaded resume.
type ParsedResume struct {
	Text        string
	Sections    map[string]string
	ContactInfo map[string]string
	WordCount   int
}

type ResumeParserService interface {
	Parse(filePath string) (*ParsedResume, error)
	ExtractText(filePath string) (string, error)
}

type resumeParserService struct{}

func NewResumeParserService() ResumeParserService {
	return &resumeParserService{}
}

// Common section headers for detection. Order matters only for display;
// detection scans line by line.
var sectionPatterns = map[string]*regexp.Regexp{
	"summary":        regexp.MustCompile(`(?i)^\s*(summary|profile|objective|about\s*me|professional\s*summary)\s*:?\s*$`),
	"experience":     regexp.MustCompile(`(?i)^\s*(experience|work\s*history|employment|professional\s*experience|career\s*history)\s*:?\s*$`),
	"education":      regexp.MustCompile(`(?i)^\s*(education|academic|qualifications|degrees)\s*:?\s*$`),
	"skills":         regexp.MustCompile(`(?i)^\s*(skills|technical\s*skills|core\s*competencies|expertise|technologies)\s*:?\s*$`),
	"projects":       regexp.MustCompile(`(?i)^\s*(projects|portfolio|key\s*projects)\s*:?\s*$`),
	"certifications": regexp.MustCompile(`(?i)^\s*(certifications|certificates|licenses|credentials)\s*:?\s*$`),
	"awards":         regexp.MustCompile(`(?i)^\s*(awards|honors|achievements|recognition)\s*:?\s*$`),
	"languages":      regexp.MustCompile(`(?i)^\s*(languages|language\s*skills)\s*:?\s*$`),
}

var (
	emailPattern    = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern    = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
	linkedinPattern = regexp.MustCompile(`(?i)linkedin\.com/in/[a-zA-Z0-9\-_/]+`)
	githubPattern   = regexp.MustCompile(`(?i)github\.com/[a-zA-Z0-9\-_/]+`)
)

// Parse implements ResumeParserService.
func (p *resumeParserService) Parse(filePath string) (*ParsedResume, error) {
	text, err := p.ExtractText(filePath)
	if err != nil {
		return nil, err
	}

	text = CleanText(text)

	return &ParsedResume{
		Text:        text,
		Sections:    detectSections(text),
		ContactInfo: extractContactInfo(text),
		WordCount:   len(strings.Fields(text)),
	}, nil
}

// ExtractText implements ResumeParserService.
func (p *resumeParserService) ExtractText(filePath string) (string, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", filePath)
	}

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		return extractPDFText(filePath)
	case ".txt":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported file format: %s", filepath.Ext(filePath))
	}
}

func extractPDFText(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Log error but continue with other pages
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text content found in PDF")
	}

	return text, nil
}

// detectSections splits the text into named sections on header lines.
// Text before the first recognized header lands in "header".
func detectSections(text string) map[string]string {
	lines := strings.Split(text, "\n")
	sections := make(map[string]string)

	current := "header"
	var buf strings.Builder

	save := func() {
		content := strings.TrimSpace(buf.String())
		if content != "" {
			if existing, ok := sections[current]; ok {
				sections[current] = existing + "\n" + content
			} else {
				sections[current] = content
			}
		}
		buf.Reset()
	}

	for _, line := range lines {
		matched := ""
		for name, pattern := range sectionPatterns {
			if pattern.MatchString(line) {
				matched = name
				break
			}
		}

		if matched != "" {
			save()
			current = matched
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	save()

	// A resume with no recognized headers has no useful section split.
	if len(sections) == 1 {
		if _, only := sections["header"]; only {
			return map[string]string{}
		}
	}
	delete(sections, "header")

	return sections
}

func extractContactInfo(text string) map[string]string {
	info := make(map[string]string)

	if email := emailPattern.FindString(text); email != "" {
		info["email"] = email
	}
	if phone := phonePattern.FindString(text); phone != "" {
		info["phone"] = strings.TrimSpace(phone)
	}
	if linkedin := linkedinPattern.FindString(text); linkedin != "" {
		info["linkedin"] = linkedin
	}
	if github := githubPattern.FindString(text); github != "" {
		info["github"] = github
	}

	return info
}

// CleanText normalizes whitespace: trims each line and drops blank runs.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
