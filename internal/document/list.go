package document

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo describes a PDF found in the configured directory
type FileInfo struct {
	Path         string    `json:"path"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	ModifiedTime time.Time `json:"modified_time"`
}

// ListFiles walks the configured directory and returns up to limit PDF
// files that pass the size checks, newest first. limit <= 0 means no limit.
func (l *Loader) ListFiles(ctx context.Context, limit int) ([]FileInfo, error) {
	root, err := l.sandbox.root()
	if err != nil {
		return nil, err
	}

	files := []FileInfo{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			// Unreadable entries are skipped, the walk goes on
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || d.Type()&fs.ModeSymlink != 0 || !strings.EqualFold(filepath.Ext(d.Name()), ".pdf") {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() == 0 || (l.maxFileSize > 0 && info.Size() > l.maxFileSize) {
			return nil //nolint:nilerr // skip files that would fail to load
		}

		files = append(files, FileInfo{
			Path:         path,
			Name:         d.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].ModifiedTime.After(files[j].ModifiedTime)
	})
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	return files, nil
}
