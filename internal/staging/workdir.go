// Package staging manages the transient working directories that hold each
// analysis call's intermediate media files.
package staging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// workdirPrefix names analysis working directories so stale-cleanup can
// recognize them.
const workdirPrefix = "analysis-"

// Workdir is a uniquely named directory owned by exactly one analysis call.
// Files created inside it never outlive the call.
type Workdir struct {
	Path string
}

// Create makes a new uniquely named working directory under baseDir.
func Create(baseDir string) (*Workdir, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, errors.New("staging: base directory required")
	}
	path := filepath.Join(baseDir, workdirPrefix+uuid.NewString())
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create working directory: %w", err)
	}
	return &Workdir{Path: path}, nil
}

// File returns the path of name inside the working directory.
func (w *Workdir) File(name string) string {
	return filepath.Join(w.Path, name)
}

// Remove deletes the working directory and everything in it.
func (w *Workdir) Remove() error {
	if w == nil || w.Path == "" {
		return nil
	}
	return os.RemoveAll(w.Path)
}
