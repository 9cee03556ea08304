package transalliance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/a3tai/mcp-order-extractor/internal/geo"
	"github.com/a3tai/mcp-order-extractor/internal/order"
)

// Document is the input of one extraction run
type Document struct {
	Lines          []string
	AttachmentName string
}

// Result is the extracted record plus the fallbacks applied while building it
type Result struct {
	Record   order.Record `json:"order"`
	Warnings []string     `json:"warnings,omitempty"`
}

// OrderCreator receives every record extracted by Process
type OrderCreator interface {
	CreateOrder(ctx context.Context, rec order.Record) error
}

// Extractor turns booking document lines into order records. It holds no
// mutable state and is safe for concurrent use.
type Extractor struct {
	now          func() time.Time
	location     *time.Location
	lookup       geo.Lookup
	dateFallback DateFallback
	logger       *slog.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithClock sets the clock used for fabricated location times
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the time zone dates are interpreted in
func WithLocation(loc *time.Location) Option {
	return func(e *Extractor) {
		if loc != nil {
			e.location = loc
		}
	}
}

// WithCountryLookup sets the collaborator used to resolve missing countries
func WithCountryLookup(lookup geo.Lookup) Option {
	return func(e *Extractor) {
		e.lookup = lookup
	}
}

// WithDateFallback sets the policy for missing or unparseable location dates
func WithDateFallback(policy DateFallback) Option {
	return func(e *Extractor) {
		if policy.Valid() {
			e.dateFallback = policy
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor creates an extractor. Defaults: wall clock, UTC, the
// built-in region lookup, and the "now" date fallback.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		now:          time.Now,
		location:     time.UTC,
		lookup:       geo.NewRegionLookup(),
		dateFallback: DateFallbackNow,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract validates the document layout and builds the order record.
// It fails only with ErrUnsupportedDocument; every other missing field is
// defaulted.
func (e *Extractor) Extract(doc Document) (*Result, error) {
	lines := cleanLines(doc.Lines)
	if !Supported(lines) {
		return nil, fmt.Errorf("%w: no booking, chartering or rate/loading/delivery markers in %d lines",
			ErrUnsupportedDocument, len(lines))
	}

	res := &Result{Record: order.New()}
	warn := func(msg string) {
		res.Warnings = append(res.Warnings, msg)
		e.logger.Warn("location date fallback", "reason", msg, "policy", string(e.dateFallback))
	}

	rec := &res.Record
	rec.OrderReference = ExtractReference(lines)

	price, currency := ExtractFreight(lines)
	if price != nil {
		rec.FreightPrice = *price
	}
	if currency != nil {
		rec.FreightCurrency = *currency
	}

	rec.Customer = ExtractCustomer(lines, e.lookup)
	rec.LoadingLocations, rec.DestinationLocations = ExtractLocations(lines, BlockOptions{
		Location:     e.location,
		Now:          e.now,
		DateFallback: e.dateFallback,
		Lookup:       e.lookup,
		Warn:         warn,
	})
	rec.Cargos = []order.CargoItem{ExtractCargo(lines)}

	if name := strings.TrimSpace(doc.AttachmentName); name != "" {
		rec.AttachmentFilenames = []string{strings.ToLower(filepath.Base(name))}
	}

	e.logger.Debug("extracted order",
		"reference", deref(rec.OrderReference),
		"loading", len(rec.LoadingLocations),
		"destination", len(rec.DestinationLocations),
		"warnings", len(res.Warnings))

	return res, nil
}

// Process extracts the record and hands it to the order creator
func (e *Extractor) Process(ctx context.Context, doc Document, creator OrderCreator) (*Result, error) {
	res, err := e.Extract(doc)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return res, nil
	}
	if err := creator.CreateOrder(ctx, res.Record); err != nil {
		return res, fmt.Errorf("failed to create order: %w", err)
	}
	return res, nil
}

// cleanLines trims every line and drops blank ones
func cleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
