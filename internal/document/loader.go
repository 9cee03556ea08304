package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	// ErrNotPDF is returned for files without a .pdf extension
	ErrNotPDF = errors.New("file is not a PDF")
	// ErrFileTooLarge is returned when the file exceeds the configured limit
	ErrFileTooLarge = errors.New("file too large")
	// ErrNoText is returned when no text rows could be read from the PDF
	ErrNoText = errors.New("no text content could be extracted from PDF")
)

// Document is a PDF flattened into ordered, non-blank text lines
type Document struct {
	Path  string   `json:"path"`
	Name  string   `json:"name"`
	Pages int      `json:"pages"`
	Size  int64    `json:"size"`
	Lines []string `json:"lines"`
}

// Loader reads PDF files from the configured directory
type Loader struct {
	maxFileSize int64
	sandbox     *Sandbox
	logger      *slog.Logger
}

// NewLoader creates a loader restricted to directory
func NewLoader(maxFileSize int64, directory string, logger *slog.Logger) (*Loader, error) {
	sandbox, err := NewSandbox(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path sandbox: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Loader{
		maxFileSize: maxFileSize,
		sandbox:     sandbox,
		logger:      logger,
	}, nil
}

// Directory returns the directory the loader reads from
func (l *Loader) Directory() string {
	return l.sandbox.Directory()
}

// MaxFileSize returns the file size limit in bytes
func (l *Loader) MaxFileSize() int64 {
	return l.maxFileSize
}

// LoadFile validates the PDF at path and extracts its text rows top to bottom
func (l *Loader) LoadFile(ctx context.Context, path string) (*Document, error) {
	resolved, info, err := l.Check(path)
	if err != nil {
		return nil, err
	}

	pages, err := l.validateStructure(resolved)
	if err != nil {
		return nil, err
	}

	lines, err := l.readLines(ctx, resolved)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("loaded document", "path", resolved, "pages", pages, "lines", len(lines))

	return &Document{
		Path:  resolved,
		Name:  filepath.Base(resolved),
		Pages: pages,
		Size:  info.Size(),
		Lines: lines,
	}, nil
}

// Check resolves path inside the sandbox and runs the file level checks
// without opening the PDF
func (l *Loader) Check(path string) (string, os.FileInfo, error) {
	resolved, err := l.sandbox.Resolve(path)
	if err != nil {
		return "", nil, fmt.Errorf("security validation failed: %w", err)
	}

	info, err := os.Stat(resolved)
	if os.IsNotExist(err) {
		return "", nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return "", nil, fmt.Errorf("cannot access file: %w", err)
	}

	if info.IsDir() {
		return "", nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if !strings.EqualFold(filepath.Ext(resolved), ".pdf") {
		return "", nil, fmt.Errorf("%w: %s", ErrNotPDF, path)
	}
	if info.Size() == 0 {
		return "", nil, fmt.Errorf("file is empty: %s", path)
	}
	if l.maxFileSize > 0 && info.Size() > l.maxFileSize {
		return "", nil, fmt.Errorf("%w: %d bytes (max: %d bytes)", ErrFileTooLarge, info.Size(), l.maxFileSize)
	}

	return resolved, info, nil
}

// validateStructure parses the file with pdfcpu in relaxed mode and returns
// the page count
func (l *Loader) validateStructure(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pdfCtx, err := api.ReadContext(f, conf)
	if err != nil {
		return 0, fmt.Errorf("invalid PDF file: %w", err)
	}
	if err := pdfCtx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("invalid PDF file: %w", err)
	}

	return pdfCtx.PageCount, nil
}

func (l *Loader) readLines(ctx context.Context, path string) ([]string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var lines []string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := pageRows(reader, pageNum)
		if err != nil {
			// Keep going, one broken page should not lose the rest
			l.logger.Warn("skipping unreadable page", "path", path, "page", pageNum, "error", err)
			continue
		}
		for _, row := range rows {
			if line := NormalizeLine(row); line != "" {
				lines = append(lines, line)
			}
		}
	}

	if len(lines) == 0 {
		return nil, ErrNoText
	}
	return lines, nil
}

// pageRows returns the text rows of one page from top to bottom
func pageRows(reader *pdf.Reader, pageNum int) (rows []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: malformed content: %v", pageNum, r)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return nil, nil
	}

	groups := groupRows(page.Content().Text)
	rows = make([]string, 0, len(groups))
	for _, row := range groups {
		rows = append(rows, joinWords(row))
	}
	return rows, nil
}

// rowTolerance is the vertical distance in points within which two text
// fragments belong to the same row
const rowTolerance = 2.0

// groupRows buckets text fragments by baseline and returns the rows from
// the top of the page down. PDF y grows upwards.
func groupRows(texts []pdf.Text) [][]pdf.Text {
	type row struct {
		y     float64
		texts []pdf.Text
	}

	var rows []*row
	for _, t := range texts {
		placed := false
		for _, r := range rows {
			if math.Abs(r.y-t.Y) < rowTolerance {
				r.texts = append(r.texts, t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, &row{y: t.Y, texts: []pdf.Text{t}})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	out := make([][]pdf.Text, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.texts)
	}
	return out
}

// joinWords concatenates the fragments of a row, inserting a space where
// the horizontal gap between two fragments is wider than a fraction of the
// font size
func joinWords(words []pdf.Text) string {
	sorted := make([]pdf.Text, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var b strings.Builder
	for i, w := range sorted {
		if i > 0 {
			prev := sorted[i-1]
			gap := w.X - (prev.X + prev.W)
			if gap > prev.FontSize*0.2 {
				b.WriteByte(' ')
			}
		}
		b.WriteString(w.S)
	}
	return b.String()
}
