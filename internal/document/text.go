package document

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeLine composes the line to NFC and collapses every run of
// unicode whitespace, non-breaking spaces included, to one space
func NormalizeLine(line string) string {
	line = norm.NFC.String(line)
	return strings.Join(strings.Fields(line), " ")
}

// LinesFromText splits already extracted text into normalized, non-blank
// lines
func LinesFromText(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := []string{}
	for _, raw := range strings.Split(text, "\n") {
		if line := NormalizeLine(raw); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
