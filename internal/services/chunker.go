package services

import (
	"strings"
	"unicode/utf8"
)

// ResumeChunk is one retrieval unit of a parsed resume.
type ResumeChunk struct {
	Type string // section name: experience, skills, education, ...
	Text string
}

// ResumeChunker splits parsed resume content into chunks sized for
// embedding and retrieval. Section boundaries are respected so a chunk
// never mixes, say, education with work history.
type ResumeChunker interface {
	ChunkResume(text string, sections map[string]string, maxChunkSize int, overlap int) []ResumeChunk
}

type resumeChunker struct{}

func NewResumeChunker() ResumeChunker {
	return &resumeChunker{}
}

// ChunkResume implements ResumeChunker. When sections were detected each
// one is chunked on its own with its name as the chunk type; otherwise the
// full text is chunked as "general".
func (rc *resumeChunker) ChunkResume(text string, sections map[string]string, maxChunkSize int, overlap int) []ResumeChunk {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	var chunks []ResumeChunk
	if len(sections) == 0 {
		for _, piece := range splitText(text, maxChunkSize, overlap) {
			chunks = append(chunks, ResumeChunk{Type: "general", Text: piece})
		}
		return chunks
	}

	for name, content := range sections {
		for _, piece := range splitText(content, maxChunkSize, overlap) {
			chunks = append(chunks, ResumeChunk{Type: name, Text: piece})
		}
	}
	return chunks
}

// splitText chunks text by paragraphs, falling back to sentences when a
// paragraph alone exceeds the budget, carrying overlap between chunks.
func splitText(text string, maxChunkSize int, overlap int) []string {
	paragraphs := strings.Split(text, "\n\n")

	var chunks []string
	var current strings.Builder

	flush := func(separator string) {
		if current.Len() == 0 {
			return
		}
		chunks = append(chunks, current.String())
		current.Reset()
		if overlap > 0 {
			overlapText := lastNRunes(chunks[len(chunks)-1], overlap)
			if overlapText != "" {
				current.WriteString(overlapText)
				current.WriteString(separator)
			}
		}
	}

	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) > maxChunkSize {
			for _, sentence := range splitIntoSentences(para) {
				if current.Len()+len(sentence)+1 > maxChunkSize {
					flush(" ")
				}
				if current.Len() > 0 {
					current.WriteString(" ")
				}
				current.WriteString(sentence)
			}
			continue
		}

		if current.Len()+len(para)+2 > maxChunkSize {
			flush("\n\n")
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

func splitIntoSentences(text string) []string {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var result []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}

func lastNRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}
