package transalliance

import (
	"fmt"
	"regexp"
	"time"

	"github.com/a3tai/mcp-order-extractor/internal/geo"
	"github.com/a3tai/mcp-order-extractor/internal/order"
)

// DateFallback selects what a location gets when its date is missing or
// cannot be parsed
type DateFallback string

const (
	// DateFallbackNow substitutes the current instant
	DateFallbackNow DateFallback = "now"
	// DateFallbackNone leaves the time window empty
	DateFallbackNone DateFallback = "none"
)

// Valid reports whether f is a known policy
func (f DateFallback) Valid() bool {
	return f == DateFallbackNow || f == DateFallbackNone
}

// BlockOptions carries the collaborators used while parsing location blocks
type BlockOptions struct {
	Location     *time.Location
	Now          func() time.Time
	DateFallback DateFallback
	Lookup       geo.Lookup
	// Warn receives a message every time a fallback value is substituted
	Warn func(msg string)
}

var (
	loadingAnchors  = []string{"LOADING", "COLLECTION"}
	deliveryAnchors = []string{"DELIVERY", "UNLOADING", "DESTINATION"}
	onMarker        = regexp.MustCompile(`(?i)\bON\s*:`)
)

func isOnMarker(line string) bool {
	return onMarker.MatchString(line)
}

func isOnMarkerWithDate(line string) bool {
	return isOnMarker(line) && dateToken.MatchString(line)
}

// Address offsets of "ON:" layouts, read from the marker onward. The address
// sits right below the date, or two lines below a marker without one.
var onMarkerTable = FieldTable{
	{
		Name:     "marker-with-date",
		Anchor:   isOnMarkerWithDate,
		Fallback: NoFallback,
		Offsets:  map[string]int{"company": 1, "street": 2, "city": 3},
	},
	{
		Name:     "date",
		Anchor:   IsStandaloneDate,
		Fallback: NoFallback,
		Offsets:  map[string]int{"company": 1, "street": 2, "city": 3},
	},
	{
		Name:     "marker",
		Anchor:   isOnMarker,
		Fallback: NoFallback,
		Offsets:  map[string]int{"company": 2, "street": 3, "city": 4},
	},
	{
		Name:     "first-line",
		Fallback: 0,
		Offsets:  map[string]int{"company": 1, "street": 2, "city": 3},
	},
}

// ExtractLocations splits the document into its loading and delivery
// sections and parses each into locations
func ExtractLocations(lines []string, opts BlockOptions) ([]order.Location, []order.Location) {
	loadingBlock, deliveryBlock := splitSections(lines)

	loading := []order.Location{}
	for _, block := range Segment(loadingBlock, loadingAnchors...) {
		// A bare anchor line cannot hold a company
		if len(block) < 2 {
			continue
		}
		loading = append(loading, ParseLocationBlock(block, opts))
	}
	if len(loading) == 0 && len(loadingBlock) > 0 {
		loading = append(loading, ParseLocationBlock(loadingBlock, opts))
	}

	destination := []order.Location{}
	if len(deliveryBlock) > 0 {
		destination = append(destination, ParseLocationBlock(deliveryBlock, opts))
	}

	return loading, destination
}

func splitSections(lines []string) (loading, delivery []string) {
	loadingStart := FindLine(lines, 0, ContainsAny(loadingAnchors...))
	deliveryStart := FindLine(lines, 0, ContainsAny(deliveryAnchors...))

	switch {
	case loadingStart >= 0 && deliveryStart > loadingStart:
		return lines[loadingStart:deliveryStart], lines[deliveryStart:]
	case loadingStart >= 0 && deliveryStart >= 0 && deliveryStart < loadingStart:
		return lines[loadingStart:], lines[deliveryStart:loadingStart]
	case loadingStart >= 0:
		return lines[loadingStart:], nil
	case deliveryStart >= 0:
		return nil, lines[deliveryStart:]
	default:
		return nil, nil
	}
}

// ParseLocationBlock picks the "ON:" parser when the block carries an ON:
// marker or opens with a standalone date, and the booking parser otherwise
func ParseLocationBlock(block []string, opts BlockOptions) order.Location {
	if FindLine(block, 0, isOnMarker) >= 0 || IsStandaloneDate(lineAt(block, 1)) {
		return ParseOnMarkerBlock(block, opts)
	}
	return ParseBookingBlock(block, opts)
}

// ParseBookingBlock parses a "Collection / Loading" block: company on the
// second line, address on the last one, date anywhere as D/M/YYYY
func ParseBookingBlock(block []string, opts BlockOptions) order.Location {
	refIdx := FindLine(block, 0, StartsWithAny("REF"))
	timeIdx := FindLine(block, 0, IsHourRange)
	dateIdx := FindLine(block, 0, IsFullYearDate)
	addrIdx := len(block) - 1

	addressLine := lineAt(block, addrIdx)
	parts := ParseCityLine(addressLine)

	street := ""
	if idx := addrIdx - 1; idx > 1 && idx != refIdx && idx != timeIdx && idx != dateIdx {
		street = lineAt(block, idx)
	}

	country := parts.Country
	if country == "" {
		country = order.DefaultCountry
	}

	loc := order.Location{
		CompanyAddress: order.NewCompanyAddress(order.Address{
			Company:       lineAt(block, 1),
			StreetAddress: street,
			City:          parts.City,
			PostalCode:    parts.PostalCode,
			Country:       country,
		}),
	}

	if dateIdx < 0 {
		loc.Time = opts.fallbackWindow(fmt.Sprintf("no date in location block %q", lineAt(block, 0)))
		return loc
	}

	day, ok := ParseDate(block[dateIdx], opts.Location)
	if !ok {
		loc.Time = opts.fallbackWindow(fmt.Sprintf("unparseable date %q", lineAt(block, dateIdx)))
		return loc
	}
	loc.Time = order.NewTimeWindow(day, day)

	return loc
}

// ParseOnMarkerBlock parses a block whose address follows an "ON:" marker
// and a standalone date line
func ParseOnMarkerBlock(block []string, opts BlockOptions) order.Location {
	lines := block
	if idx := FindLine(block, 0, isOnMarker); idx >= 0 {
		lines = block[idx:]
	}
	fields := onMarkerTable.Read(lines)

	dateLine := ""
	if idx := FindLine(block, 0, IsStandaloneDate); idx >= 0 {
		dateLine = lineAt(block, idx)
	} else if idx := FindLine(block, 0, isOnMarkerWithDate); idx >= 0 {
		dateLine = lineAt(block, idx)
	}
	windowLine := ""
	if idx := FindLine(block, 0, IsHourRange); idx >= 0 {
		windowLine = lineAt(block, idx)
	}

	cityLine := fields.Get("city")
	parts := ParseCityLine(cityLine)

	loc := order.Location{
		CompanyAddress: order.NewCompanyAddress(order.Address{
			Company:       fields.Get("company"),
			StreetAddress: fields.Get("street"),
			City:          parts.City,
			PostalCode:    parts.PostalCode,
			Country:       resolveCountry(parts.Country, cityLine, opts.Lookup),
		}),
		Time: ParseDateWindow(dateLine, windowLine, opts.Location),
	}

	if loc.Time.IsZero() {
		reason := fmt.Sprintf("no date in location block %q", lineAt(block, 0))
		if dateLine != "" {
			reason = fmt.Sprintf("unparseable date %q", dateLine)
		}
		loc.Time = opts.fallbackWindow(reason)
	}

	return loc
}

func (o BlockOptions) fallbackWindow(reason string) order.TimeWindow {
	if o.DateFallback == DateFallbackNone {
		o.warn(reason + ": time left empty")
		return order.TimeWindow{}
	}

	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	t := now()
	if o.Location != nil {
		t = t.In(o.Location)
	}
	o.warn(reason + ": substituted current time")
	return order.NewTimeWindow(t, t)
}

func (o BlockOptions) warn(msg string) {
	if o.Warn != nil {
		o.Warn(msg)
	}
}
