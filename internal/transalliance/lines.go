package transalliance

import (
	"strings"
)

// LinePredicate tests a single document line
type LinePredicate func(line string) bool

// Contains reports whether line contains any keyword, ignoring case
func Contains(line string, keywords ...string) bool {
	upper := strings.ToUpper(line)
	for _, kw := range keywords {
		if strings.Contains(upper, strings.ToUpper(kw)) {
			return true
		}
	}
	return false
}

// HasPrefix reports whether the trimmed line starts with any keyword, ignoring case
func HasPrefix(line string, keywords ...string) bool {
	upper := strings.ToUpper(strings.TrimSpace(line))
	for _, kw := range keywords {
		if strings.HasPrefix(upper, strings.ToUpper(kw)) {
			return true
		}
	}
	return false
}

// ContainsAny returns a predicate matching lines that contain any keyword
func ContainsAny(keywords ...string) LinePredicate {
	return func(line string) bool {
		return Contains(line, keywords...)
	}
}

// StartsWithAny returns a predicate matching lines that start with any keyword
func StartsWithAny(keywords ...string) LinePredicate {
	return func(line string) bool {
		return HasPrefix(line, keywords...)
	}
}

// FindLine returns the index of the first line at or after from that
// matches pred, or -1
func FindLine(lines []string, from int, pred LinePredicate) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(lines); i++ {
		if pred(lines[i]) {
			return i
		}
	}
	return -1
}

// lineAt returns the trimmed line at index i, or "" when out of range
func lineAt(lines []string, i int) string {
	if i < 0 || i >= len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[i])
}

// joinNonEmpty joins the non-blank parts with a single space
func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
