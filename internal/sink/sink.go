// Package sink delivers extracted order records to their destination
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/a3tai/mcp-order-extractor/internal/order"
)

// Envelope is one line of JSON Lines output
type Envelope struct {
	ID        uuid.UUID    `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Source    string       `json:"source"`
	Order     order.Record `json:"order"`
}

// JSONLines writes every created order as one JSON object per line
type JSONLines struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closer io.Closer
	source string
	now    func() time.Time
	newID  func() uuid.UUID
}

// NewJSONLines creates a sink writing to w. source is stored in every
// envelope to tell producers apart.
func NewJSONLines(w io.Writer, source string) *JSONLines {
	return &JSONLines{
		enc:    json.NewEncoder(w),
		source: source,
		now:    time.Now,
		newID:  uuid.New,
	}
}

// OpenJSONLines appends to the file at path, creating it when needed.
// "-" writes to stdout.
func OpenJSONLines(path, source string) (*JSONLines, error) {
	if path == "-" {
		return NewJSONLines(os.Stdout, source), nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open order output: %w", err)
	}
	s := NewJSONLines(f, source)
	s.closer = f
	return s, nil
}

// CreateOrder wraps rec in an envelope and writes it
func (s *JSONLines) CreateOrder(ctx context.Context, rec order.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := Envelope{
		ID:        s.newID(),
		CreatedAt: s.now().UTC(),
		Source:    s.source,
		Order:     rec,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(env); err != nil {
		return fmt.Errorf("failed to write order: %w", err)
	}
	return nil
}

// Close closes the underlying file, if the sink opened one
func (s *JSONLines) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Discard accepts every order and drops it
type Discard struct{}

// CreateOrder implements the order creator
func (Discard) CreateOrder(ctx context.Context, _ order.Record) error {
	return ctx.Err()
}
