package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrOutsideDirectory is returned for paths that escape the configured directory
var ErrOutsideDirectory = errors.New("path is outside configured directory")

// Sandbox keeps file access inside one configured directory
type Sandbox struct {
	directory string
}

// NewSandbox creates a sandbox rooted at directory
func NewSandbox(directory string) (*Sandbox, error) {
	if directory == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}
	return &Sandbox{directory: directory}, nil
}

// Directory returns the configured directory
func (s *Sandbox) Directory() string {
	return s.directory
}

// Resolve turns path into an absolute path inside the sandbox. Relative
// paths are taken relative to the configured directory. Symlinks are
// followed before the containment check.
func (s *Sandbox) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(s.directory, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	root, err := s.root()
	if err != nil {
		return "", err
	}

	realPath := absPath
	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		realPath = resolved
	} else if parent, err := filepath.EvalSymlinks(filepath.Dir(absPath)); err == nil {
		realPath = filepath.Join(parent, filepath.Base(absPath))
	}

	if !within(root, realPath) {
		return "", fmt.Errorf("%w: %s", ErrOutsideDirectory, path)
	}

	return absPath, nil
}

func (s *Sandbox) root() (string, error) {
	absDir, err := filepath.Abs(s.directory)
	if err != nil {
		return "", fmt.Errorf("failed to resolve configured directory: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(absDir); err == nil {
		return resolved, nil
	}
	return filepath.Clean(absDir), nil
}

// within reports whether path equals dir or sits below it
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

