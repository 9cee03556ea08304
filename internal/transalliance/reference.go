package transalliance

import (
	"regexp"
	"strings"
)

var (
	refPrefix     = regexp.MustCompile(`(?i)^\s*REF\.?:`)
	zieglerMarker = regexp.MustCompile(`(?i)ZIEGLER\s+REF`)
	notRefChars   = regexp.MustCompile(`[^0-9A-Za-z-]`)
)

// ExtractReference returns the vendor order reference, or nil when none is found.
//
// A "REF.:" / "REF:" prefixed line wins; otherwise a "Ziegler Ref" line is
// reduced to its alphanumeric and hyphen characters.
func ExtractReference(lines []string) *string {
	if idx := FindLine(lines, 0, refPrefix.MatchString); idx >= 0 {
		loc := refPrefix.FindStringIndex(lines[idx])
		return nonEmpty(strings.TrimSpace(lines[idx][loc[1]:]))
	}

	if idx := FindLine(lines, 0, zieglerMarker.MatchString); idx >= 0 {
		rest := zieglerMarker.ReplaceAllString(lines[idx], "")
		return nonEmpty(notRefChars.ReplaceAllString(rest, ""))
	}

	return nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
