package transalliance

import (
	"github.com/a3tai/mcp-order-extractor/internal/geo"
	"github.com/a3tai/mcp-order-extractor/internal/order"
)

// "ADRESS" is how the vendor spells it on every invoicing block
var customerTable = FieldTable{
	{
		Name:     "invoicing-adress",
		Anchor:   ContainsAny("INVOICING ADRESS"),
		Fallback: NoFallback,
		Offsets:  map[string]int{"company": 1, "street1": 2, "street2": 3, "city": 4},
	},
	{
		Name:     "transalliance-header",
		Anchor:   ContainsAny("TRANSALLIANCE"),
		Fallback: 0,
		Offsets:  map[string]int{"company": 0, "street1": 1, "street2": 2, "city": 3},
	},
}

// ExtractCustomer reads the invoicing party. The country falls back to the
// lookup keyed by the city line, then to GB.
func ExtractCustomer(lines []string, lookup geo.Lookup) order.Party {
	fields := customerTable.Read(lines)
	cityLine := fields.Get("city")
	parts := ParseCityLine(cityLine)

	return order.Party{
		Side: order.SideNone,
		Details: order.Address{
			Company:       fields.Get("company"),
			StreetAddress: joinNonEmpty(fields.Get("street1"), fields.Get("street2")),
			City:          parts.City,
			PostalCode:    parts.PostalCode,
			Country:       resolveCountry(parts.Country, cityLine, lookup),
		},
	}
}

func resolveCountry(parsed, text string, lookup geo.Lookup) string {
	if parsed != "" {
		return parsed
	}
	if lookup != nil && text != "" {
		if code, ok := lookup.Country(text); ok && code != "" {
			return code
		}
	}
	return order.DefaultCountry
}
