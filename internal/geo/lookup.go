package geo

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Lookup resolves free text to an ISO 3166-1 alpha-2 country code
type Lookup interface {
	Country(text string) (string, bool)
}

// LookupFunc adapts a function to the Lookup interface
type LookupFunc func(text string) (string, bool)

// Country implements Lookup
func (f LookupFunc) Country(text string) (string, bool) {
	return f(text)
}

// Regions served by the default lookup. Booking documents of this vendor
// only reference European and a handful of overseas trading partners.
var defaultRegions = []string{
	"AD", "AL", "AT", "BA", "BE", "BG", "BY", "CH", "CY", "CZ", "DE", "DK",
	"EE", "ES", "FI", "FR", "GB", "GR", "HR", "HU", "IE", "IS", "IT", "LI",
	"LT", "LU", "LV", "MA", "MC", "MD", "ME", "MK", "MT", "NL", "NO", "PL",
	"PT", "RO", "RS", "RU", "SE", "SI", "SK", "SM", "TN", "TR", "UA",
	"US", "CA", "CN", "IN", "JP",
}

// Names that do not match the English display name of the region
var aliases = map[string]string{
	"UK":               "GB",
	"ENGLAND":          "GB",
	"SCOTLAND":         "GB",
	"WALES":            "GB",
	"GREAT BRITAIN":    "GB",
	"NORTHERN IRELAND": "GB",
	"HOLLAND":          "NL",
	"THE NETHERLANDS":  "NL",
	"DEUTSCHLAND":      "DE",
	"ESPANA":           "ES",
	"ESPAÑA":           "ES",
	"ITALIA":           "IT",
	"BELGIQUE":         "BE",
	"POLSKA":           "PL",
	"CZECH REPUBLIC":   "CZ",
	"USA":              "US",
}

var wordPattern = regexp.MustCompile(`[A-ZÀ-Ý]+`)

// RegionLookup matches English region names, aliases and trailing ISO codes
type RegionLookup struct {
	names   []nameEntry
	regions map[string]bool
}

type nameEntry struct {
	name string
	code string
}

// NewRegionLookup builds a lookup over the default region set
func NewRegionLookup() *RegionLookup {
	return NewRegionLookupFor(defaultRegions)
}

// NewRegionLookupFor builds a lookup restricted to the given alpha-2 codes.
// Unknown codes are skipped.
func NewRegionLookupFor(codes []string) *RegionLookup {
	l := &RegionLookup{regions: make(map[string]bool, len(codes))}
	namer := display.English.Regions()

	for _, code := range codes {
		region, err := language.ParseRegion(code)
		if err != nil {
			continue
		}
		alpha2 := region.String()
		l.regions[alpha2] = true
		if name := namer.Name(region); name != "" {
			l.names = append(l.names, nameEntry{name: normalizeWords(name), code: alpha2})
		}
	}
	for name, code := range aliases {
		if l.regions[code] {
			l.names = append(l.names, nameEntry{name: name, code: code})
		}
	}

	// Longest names first so "NORTHERN IRELAND" wins over "IRELAND"
	sort.SliceStable(l.names, func(i, j int) bool {
		if len(l.names[i].name) != len(l.names[j].name) {
			return len(l.names[i].name) > len(l.names[j].name)
		}
		return l.names[i].name < l.names[j].name
	})

	return l
}

// Country implements Lookup
func (l *RegionLookup) Country(text string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(text))
	if upper == "" {
		return "", false
	}

	padded := " " + normalizeWords(upper) + " "
	for _, entry := range l.names {
		if strings.Contains(padded, " "+entry.name+" ") {
			return entry.code, true
		}
	}

	// Only the last word is trusted as a code; short words inside a street
	// or company name collide with ISO codes too often.
	words := wordPattern.FindAllString(upper, -1)
	if len(words) == 0 {
		return "", false
	}
	last := words[len(words)-1]
	if len(last) != 2 && len(last) != 3 {
		return "", false
	}
	region, err := language.ParseRegion(last)
	if err != nil {
		return "", false
	}
	if code := region.String(); l.regions[code] {
		return code, true
	}
	return "", false
}

func normalizeWords(s string) string {
	return strings.Join(wordPattern.FindAllString(strings.ToUpper(s), -1), " ")
}
