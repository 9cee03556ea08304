package transalliance

import (
	"errors"
)

// ErrUnsupportedDocument is returned when the lines do not come from a
// supported booking layout
var ErrUnsupportedDocument = errors.New("unsupported document")

// Supported reports whether the lines match the booking / chartering
// confirmation layout
func Supported(lines []string) bool {
	if len(lines) == 0 {
		return false
	}

	has := func(pred LinePredicate) bool {
		return FindLine(lines, 0, pred) >= 0
	}

	if has(ContainsAny("BOOKING")) || has(ContainsAny("CHARTERING CONFIRMATION")) {
		return true
	}

	return has(ContainsAny("SHIPPING PRICE", "RATE")) &&
		has(ContainsAny("LOADING")) &&
		has(ContainsAny("DELIVERY"))
}

var layoutMarkers = []string{"BOOKING", "CHARTERING CONFIRMATION", "SHIPPING PRICE", "RATE", "LOADING", "DELIVERY"}

// Detection describes how a document matched the supported layout
type Detection struct {
	Supported bool     `json:"supported"`
	Lines     int      `json:"lines"`
	Markers   []string `json:"markers"`
}

// Detect cleans the lines and reports the layout markers they contain
func Detect(lines []string) Detection {
	lines = cleanLines(lines)

	markers := []string{}
	for _, m := range layoutMarkers {
		if FindLine(lines, 0, ContainsAny(m)) >= 0 {
			markers = append(markers, m)
		}
	}

	return Detection{
		Supported: Supported(lines),
		Lines:     len(lines),
		Markers:   markers,
	}
}
