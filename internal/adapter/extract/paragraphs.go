package extract

import "strings"

// Paragraphs splits extracted document text into trimmed paragraph blocks,
// preserving their order. Blank blocks are dropped; length filtering is the
// ingestion pipeline's job.
func Paragraphs(text string) []string {
	blocks := strings.Split(text, "\n\n")
	paragraphs := make([]string, 0, len(blocks))
	for _, b := range blocks {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		paragraphs = append(paragraphs, b)
	}
	return paragraphs
}
