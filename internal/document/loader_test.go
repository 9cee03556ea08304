package document

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-order-extractor/internal/document/documenttest"
)

func writePDF(t *testing.T, dir, name string, lines []string) string {
	t.Helper()
	return documenttest.WritePDF(t, dir, name, lines)
}

func TestNewLoader(t *testing.T) {
	_, err := NewLoader(1024, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configured directory cannot be empty")

	loader, err := NewLoader(1024, t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1024), loader.MaxFileSize())
}

func TestLoader_LoadFile(t *testing.T) {
	dir := t.TempDir()
	want := []string{"Booking confirmation", "Ref.: TA-2024-0042", "Loading on:", "12/03/2024"}
	path := writePDF(t, dir, "booking.pdf", want)

	loader, err := NewLoader(10*1024*1024, dir, nil)
	require.NoError(t, err)

	t.Run("absolute path", func(t *testing.T) {
		doc, err := loader.LoadFile(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "booking.pdf", doc.Name)
		assert.Equal(t, 1, doc.Pages)
		assert.Positive(t, doc.Size)
		assert.Equal(t, want, doc.Lines)
	})

	t.Run("relative to configured directory", func(t *testing.T) {
		doc, err := loader.LoadFile(context.Background(), "booking.pdf")
		require.NoError(t, err)
		assert.Equal(t, want, doc.Lines)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := loader.LoadFile(ctx, path)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLoader_Check(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.pdf"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.pdf"), bytes.Repeat([]byte("x"), 2048), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.pdf"), 0o755))
	outsidePath := writePDF(t, outside, "other.pdf", []string{"Booking"})

	loader, err := NewLoader(1024, dir, nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		wantErr string
		is      error
	}{
		{name: "empty path", path: "", wantErr: "path cannot be empty"},
		{name: "missing file", path: "missing.pdf", wantErr: "file does not exist"},
		{name: "not a pdf", path: "notes.txt", is: ErrNotPDF},
		{name: "empty file", path: "empty.pdf", wantErr: "file is empty"},
		{name: "too large", path: "big.pdf", is: ErrFileTooLarge},
		{name: "directory", path: "folder.pdf", wantErr: "path is a directory"},
		{name: "outside directory", path: outsidePath, is: ErrOutsideDirectory},
		{name: "parent traversal", path: "../" + filepath.Base(outside) + "/other.pdf", is: ErrOutsideDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := loader.Check(tt.path)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoader_LoadFile_InvalidPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\nthis is not a pdf body\n"), 0o600))

	loader, err := NewLoader(1024*1024, dir, nil)
	require.NoError(t, err)

	_, err = loader.LoadFile(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid PDF file")
}

func TestSandbox_Resolve(t *testing.T) {
	dir := t.TempDir()
	sandbox, err := NewSandbox(dir)
	require.NoError(t, err)

	resolved, err := sandbox.Resolve("sub/file.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(resolved, filepath.Join("sub", "file.pdf")))

	_, err = sandbox.Resolve("../escape.pdf")
	assert.ErrorIs(t, err, ErrOutsideDirectory)

	_, err = sandbox.Resolve("sub/../../escape.pdf")
	assert.ErrorIs(t, err, ErrOutsideDirectory)

	_, err = sandbox.Resolve(dir)
	assert.NoError(t, err)
}

func TestSandbox_Symlink(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "secret.pdf")
	require.NoError(t, os.WriteFile(target, []byte("%PDF-1.4"), 0o600))

	link := filepath.Join(dir, "link.pdf")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	sandbox, err := NewSandbox(dir)
	require.NoError(t, err)

	_, err = sandbox.Resolve(link)
	assert.ErrorIs(t, err, ErrOutsideDirectory)
}

func TestWithin(t *testing.T) {
	sep := string(filepath.Separator)
	root := sep + filepath.Join("data", "orders")

	assert.True(t, within(root, root))
	assert.True(t, within(root, filepath.Join(root, "a.pdf")))
	assert.False(t, within(root, sep+filepath.Join("data", "orders-old", "a.pdf")))
	assert.False(t, within(root, sep+"data"))
	assert.True(t, within(root, filepath.Join(root, "..inner", "a.pdf")))
}

func TestLoader_ListFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "archive"), 0o755))

	older := writePDF(t, dir, "older.pdf", []string{"Booking"})
	writePDF(t, filepath.Join(dir, "archive"), "NEWER.PDF", []string{"Booking"})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.pdf"), nil, 0o600))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	loader, err := NewLoader(1024*1024, dir, nil)
	require.NoError(t, err)

	files, err := loader.ListFiles(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "NEWER.PDF", files[0].Name)
	assert.Equal(t, "older.pdf", files[1].Name)
	assert.True(t, strings.HasSuffix(files[0].Path, filepath.Join("archive", "NEWER.PDF")))

	limited, err := loader.ListFiles(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = loader.ListFiles(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGroupRows(t *testing.T) {
	glyph := func(s string, x, y float64) pdf.Text {
		return pdf.Text{S: s, X: x, Y: y, W: 6, FontSize: 12}
	}

	// Fragments arrive out of order, the second row is slightly off baseline
	texts := []pdf.Text{
		glyph("O", 72, 740), glyph("K", 78, 740.8),
		glyph("A", 72, 760), glyph("B", 78, 760),
		glyph("Z", 200, 740),
		glyph("1", 72, 720),
	}

	rows := groupRows(texts)
	require.Len(t, rows, 3)

	got := make([]string, 0, len(rows))
	for _, row := range rows {
		got = append(got, joinWords(row))
	}
	assert.Equal(t, []string{"AB", "OK Z", "1"}, got)

	assert.Empty(t, groupRows(nil))
}
