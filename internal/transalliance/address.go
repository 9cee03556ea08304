package transalliance

import (
	"regexp"
	"strings"
)

// CityParts is the result of parsing a city/postal/country line.
// Undetermined parts are empty.
type CityParts struct {
	City       string
	PostalCode string
	Country    string
}

// cityMatcher is one step of the city line parser. It reports false when
// the line does not have its shape.
type cityMatcher struct {
	Name  string
	Match func(line string) (CityParts, bool)
}

var (
	// GB-PE2-PETERBOROUGH
	countryPostalCityHyphen = regexp.MustCompile(`^([A-Za-z]{2})-([A-Za-z0-9]+)-(.+)$`)

	// GB-PE2 6DP PETERBOROUGH
	countryPostalCitySpace = regexp.MustCompile(`^([A-Za-z]{2})-([A-Za-z0-9]+(?:\s[0-9][A-Za-z0-9]{1,3})?)\s+(.+)$`)

	// -37530 POCE-SUR-CISSE
	leadingPostal = regexp.MustCompile(`^-?\s*(\d{4,6})\s+(.+)$`)

	// trailing country: "MILANO IT"
	trailingCountry = regexp.MustCompile(`^(.*\S)\s+([A-Za-z]{2})$`)

	// postal guess anywhere in the line
	postalToken = regexp.MustCompile(`\b[A-Za-z0-9-]{3,10}\b`)
	spaces      = regexp.MustCompile(`\s+`)
)

var cityMatchers = []cityMatcher{
	{Name: "country-postal-city", Match: matchCountryPostalCityHyphen},
	{Name: "country-postal city", Match: matchCountryPostalCitySpace},
	{Name: "postal city", Match: matchLeadingPostal},
	{Name: "fallback", Match: matchFallback},
}

// ParseCityLine splits a free-text city line into city, postal code and
// country. The first matcher that recognizes the line wins.
func ParseCityLine(line string) CityParts {
	line = strings.TrimSpace(spaces.ReplaceAllString(line, " "))
	if line == "" {
		return CityParts{}
	}

	for _, m := range cityMatchers {
		if parts, ok := m.Match(line); ok {
			return parts
		}
	}
	return CityParts{City: line}
}

func matchCountryPostalCityHyphen(line string) (CityParts, bool) {
	m := countryPostalCityHyphen.FindStringSubmatch(line)
	if m == nil {
		return CityParts{}, false
	}
	return CityParts{
		Country:    strings.ToUpper(m[1]),
		PostalCode: m[2],
		City:       strings.TrimSpace(m[3]),
	}, true
}

func matchCountryPostalCitySpace(line string) (CityParts, bool) {
	m := countryPostalCitySpace.FindStringSubmatch(line)
	if m == nil {
		return CityParts{}, false
	}
	return CityParts{
		Country:    strings.ToUpper(m[1]),
		PostalCode: m[2],
		City:       strings.TrimSpace(m[3]),
	}, true
}

func matchLeadingPostal(line string) (CityParts, bool) {
	m := leadingPostal.FindStringSubmatch(line)
	if m == nil {
		return CityParts{}, false
	}
	parts := CityParts{PostalCode: m[1], City: strings.TrimSpace(m[2])}
	// French postal codes are five digits
	if len(m[1]) == 5 {
		parts.Country = "FR"
	}
	return parts, true
}

func matchFallback(line string) (CityParts, bool) {
	if m := trailingCountry.FindStringSubmatch(line); m != nil {
		return CityParts{City: m[1], Country: strings.ToUpper(m[2])}, true
	}

	for _, loc := range postalToken.FindAllStringIndex(line, -1) {
		token := line[loc[0]:loc[1]]
		if !strings.ContainsAny(token, "0123456789") {
			continue
		}
		city := strings.TrimSpace(line[:loc[0]] + " " + line[loc[1]:])
		return CityParts{
			PostalCode: token,
			City:       spaces.ReplaceAllString(city, " "),
		}, true
	}

	return CityParts{City: line}, true
}
