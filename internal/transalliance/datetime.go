package transalliance

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/a3tai/mcp-order-extractor/internal/order"
)

// Day/month/year layouts, tried in order
var dateLayouts = []string{"2/1/06", "2/1/2006"}

var (
	dateToken      = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`)
	standaloneDate = regexp.MustCompile(`^\d{1,2}/\d{1,2}/(?:\d{2}|\d{4})$`)
	fullYearDate   = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)

	// 08h00 - 12h00, 08:00 - 12:00
	clockWindow = regexp.MustCompile(`(?i)(\d{1,2})\s*[h:]\s*(\d{2})\s*-\s*(\d{1,2})\s*[h:]\s*(\d{2})`)

	hourRanges = []*regexp.Regexp{
		clockWindow,
		regexp.MustCompile(`(?i)\b\d{3,4}\s*-\s*\d{1,4}\s*(?:AM|PM)\b`),
		regexp.MustCompile(`(?i)\b\d{1,2}(?::\d{2})?\s*(?:AM|PM)\s*-\s*\d{1,2}(?::\d{2})?\s*(?:AM|PM)\b`),
	}
)

// IsStandaloneDate reports whether the line holds nothing but a D/M/YY or
// D/M/YYYY date
func IsStandaloneDate(line string) bool {
	return standaloneDate.MatchString(strings.TrimSpace(line))
}

// IsFullYearDate reports whether the line contains a D/M/YYYY date
func IsFullYearDate(line string) bool {
	return fullYearDate.MatchString(line)
}

// IsHourRange reports whether the line contains an hour range such as
// "08h00 - 12h00" or "0800 - 4PM"
func IsHourRange(line string) bool {
	for _, re := range hourRanges {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// ParseDate parses the first D/M/YY or D/M/YYYY token of s as midnight in loc
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	token := dateToken.FindString(s)
	if token == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, token, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDateWindow combines a date and an optional "HHhMM - HHhMM" window.
// It returns an empty window when the date cannot be parsed.
func ParseDateWindow(date, window string, loc *time.Location) order.TimeWindow {
	day, ok := ParseDate(date, loc)
	if !ok {
		return order.TimeWindow{}
	}

	from, to := day, day
	if m := clockWindow.FindStringSubmatch(window); m != nil {
		if f, ok := atClock(day, m[1], m[2]); ok {
			from = f
		}
		if t, ok := atClock(day, m[3], m[4]); ok {
			to = t
		}
	}

	return order.NewTimeWindow(from, to)
}

func atClock(day time.Time, hh, mm string) (time.Time, bool) {
	h, err := strconv.Atoi(hh)
	if err != nil || h > 23 {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m > 59 {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location()), true
}
