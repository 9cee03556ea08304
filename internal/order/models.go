package order

import (
	"time"
)

const (
	// Defaults applied when the source document does not carry a value
	DefaultCurrency    = "EUR"
	DefaultCountry     = "GB"
	DefaultPackageType = "pallet"
	DefaultPackageCnt  = 1

	// SideNone is the only side the customer party is emitted with today
	SideNone = "none"
)

// Record is the normalized order produced from one booking document
type Record struct {
	OrderReference       *string     `json:"order_reference"`
	FreightPrice         float64     `json:"freight_price"`
	FreightCurrency      string      `json:"freight_currency"`
	Customer             Party       `json:"customer"`
	LoadingLocations     []Location  `json:"loading_locations"`
	DestinationLocations []Location  `json:"destination_locations"`
	Cargos               []CargoItem `json:"cargos"`
	AttachmentFilenames  []string    `json:"attachment_filenames"`
}

// Party is a business party attached to the order
type Party struct {
	Side    string  `json:"side"`
	Details Address `json:"details"`
}

// Address holds the postal parts of a company address. Unknown parts are
// empty strings; Country is always populated by the extractors.
type Address struct {
	Company       string `json:"company"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
}

// CompanyAddress is the address shape used by locations; Title mirrors Company
type CompanyAddress struct {
	Title string `json:"title"`
	Address
}

// Location is a loading or delivery stop
type Location struct {
	CompanyAddress CompanyAddress `json:"company_address"`
	Time           TimeWindow     `json:"time"`
}

// TimeWindow is the from/to instant pair of a location. The zero value
// marshals to an empty object.
type TimeWindow struct {
	DatetimeFrom *time.Time `json:"datetime_from,omitempty"`
	DatetimeTo   *time.Time `json:"datetime_to,omitempty"`
}

// IsZero reports whether no instant is set
func (w TimeWindow) IsZero() bool {
	return w.DatetimeFrom == nil && w.DatetimeTo == nil
}

// CargoItem describes the goods being moved
type CargoItem struct {
	PackageCount int      `json:"package_count"`
	PackageType  string   `json:"package_type"`
	Title        *string  `json:"title,omitempty"`
	Number       *string  `json:"number,omitempty"`
	Weight       *float64 `json:"weight,omitempty"`
}

// New returns a record with every default applied and every slice non-nil
func New() Record {
	return Record{
		FreightCurrency: DefaultCurrency,
		Customer: Party{
			Side:    SideNone,
			Details: Address{Country: DefaultCountry},
		},
		LoadingLocations:     []Location{},
		DestinationLocations: []Location{},
		Cargos:               []CargoItem{NewCargoItem()},
		AttachmentFilenames:  []string{},
	}
}

// NewCargoItem returns a cargo item carrying the package defaults
func NewCargoItem() CargoItem {
	return CargoItem{
		PackageCount: DefaultPackageCnt,
		PackageType:  DefaultPackageType,
	}
}

// NewCompanyAddress builds a location address, mirroring company into title
func NewCompanyAddress(addr Address) CompanyAddress {
	return CompanyAddress{
		Title:   addr.Company,
		Address: addr,
	}
}

// NewTimeWindow builds a window from two instants, dropping `to` when it
// equals `from`
func NewTimeWindow(from, to time.Time) TimeWindow {
	f := from
	w := TimeWindow{DatetimeFrom: &f}
	if !to.Equal(from) {
		t := to
		w.DatetimeTo = &t
	}
	return w
}
