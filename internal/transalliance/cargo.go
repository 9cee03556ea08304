package transalliance

import (
	"regexp"

	"github.com/a3tai/mcp-order-extractor/internal/order"
)

// 24 000, 24.000,50, 1 250 kg
var groupedNumber = regexp.MustCompile(`\b\d{1,3}(?:[ .]\d{3})+(?:,\d+)?\b`)

var cargoNumberTable = FieldTable{
	{
		Name:     "ot-or-ref",
		Anchor:   ContainsAny("OT :", "REF"),
		Fallback: NoFallback,
		Offsets:  map[string]int{"number": 2},
	},
}

// ExtractCargo always returns exactly one cargo item. Title, weight and
// number are set only when their anchors are found.
func ExtractCargo(lines []string) order.CargoItem {
	item := order.NewCargoItem()

	if idx := FindLine(lines, 0, ContainsAny("PAPER ROLLS", "PALLETS", "WEIGHT")); idx >= 0 {
		item.Title = nonEmpty(lineAt(lines, idx))
	}

	if idx := FindLine(lines, 0, groupedNumber.MatchString); idx >= 0 {
		item.Weight = ParseAmount(groupedNumber.FindString(lines[idx]))
	}

	if fields := cargoNumberTable.Read(lines); fields.Found() {
		item.Number = nonEmpty(fields.Get("number"))
	}

	return item
}
