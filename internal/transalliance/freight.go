package transalliance

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
)

var (
	notAmountChars    = regexp.MustCompile(`[^0-9,.]`)
	preferredCurrency = regexp.MustCompile(`(?i)\b(EUR|GBP|USD)\b`)
	currencyCode      = regexp.MustCompile(`\b[A-Z]{3}\b`)
)

var currencySymbols = []struct{ symbol, code string }{
	{"€", "EUR"},
	{"£", "GBP"},
	{"$", "USD"},
}

// ExtractFreight returns the freight amount and currency code. Both are nil
// when no price anchor is present; each is nil when its line does not parse.
func ExtractFreight(lines []string) (*float64, *string) {
	anchor := FindLine(lines, 0, ContainsAny("SHIPPING PRICE", "RATE", "PRICE"))
	if anchor < 0 {
		return nil, nil
	}

	amountIdx := anchor + 1
	var amount *float64
	if amountIdx < len(lines) {
		amount = ParseAmount(lines[amountIdx])
	}

	currencyIdx := amountIdx + 1
	if currencyIdx >= len(lines) {
		currencyIdx = amountIdx
	}
	var code *string
	if currencyIdx < len(lines) {
		code = parseCurrency(lines[currencyIdx])
	}

	return amount, code
}

// ParseAmount reads a number written with a decimal comma, e.g. "1 250,50".
// Periods are treated as thousands separators when a comma is present or
// when more than one period appears.
func ParseAmount(s string) *float64 {
	cleaned := notAmountChars.ReplaceAllString(s, "")
	if cleaned == "" {
		return nil
	}

	if strings.Contains(cleaned, ",") || strings.Count(cleaned, ".") > 1 {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseCurrency(line string) *string {
	if m := preferredCurrency.FindStringSubmatch(line); m != nil {
		code := strings.ToUpper(m[1])
		return &code
	}

	for _, cs := range currencySymbols {
		if strings.Contains(line, cs.symbol) {
			code := cs.code
			return &code
		}
	}

	for _, token := range currencyCode.FindAllString(strings.ToUpper(line), -1) {
		if unit, err := currency.ParseISO(token); err == nil {
			code := unit.String()
			return &code
		}
	}

	return nil
}
