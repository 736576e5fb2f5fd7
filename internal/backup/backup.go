package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"toolsuite/internal/config"
	"toolsuite/internal/fileops"
)

// maxCollisionSuffix bounds the search for a free backup directory name
const maxCollisionSuffix = 100

// Set is the backup directory of a single install run. The directory is
// created lazily on the first Move, so runs that overwrite nothing leave no
// trace.
type Set struct {
	root  string    // Scripts directory the backup lives in
	stamp time.Time // Run start time encoded in the directory name
	dir   string    // Created directory, empty until the first Move
	moved []string  // Base names moved into the set
}

// New creates a backup set for a run started at stamp
func New(root string, stamp time.Time) *Set {
	return &Set{
		root:  root,
		stamp: stamp,
	}
}

// Dir returns the backup directory, or "" if nothing was backed up yet
func (s *Set) Dir() string {
	return s.dir
}

// Created reports whether the backup directory exists
func (s *Set) Created() bool {
	return s.dir != ""
}

// Moved returns the base names of the files moved into the set
func (s *Set) Moved() []string {
	return s.moved
}

// Move relocates path into the backup directory, keeping its base name, and
// returns the new location.
func (s *Set) Move(path string) (string, error) {
	if err := s.ensureDir(); err != nil {
		return "", err
	}

	dest := filepath.Join(s.dir, filepath.Base(path))
	if fileops.Exists(dest) {
		return "", fmt.Errorf("backup of %s already exists in %s", filepath.Base(path), s.dir)
	}

	if err := fileops.MoveFile(path, dest); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", path, err)
	}

	s.moved = append(s.moved, filepath.Base(path))
	return dest, nil
}

// ensureDir creates the backup directory once. A directory left by another
// run started in the same second is never reused; a numeric suffix is added
// instead.
func (s *Set) ensureDir() error {
	if s.dir != "" {
		return nil
	}

	if err := os.MkdirAll(s.root, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	base := filepath.Join(s.root, config.BackupDirName(s.stamp))
	candidate := base
	for i := 1; i <= maxCollisionSuffix; i++ {
		err := os.Mkdir(candidate, 0755)
		if err == nil {
			s.dir = candidate
			return nil
		}
		if !os.IsExist(err) {
			return fmt.Errorf("failed to create backup directory: %w", err)
		}
		candidate = fmt.Sprintf("%s_%d", base, i)
	}

	return fmt.Errorf("failed to create backup directory: too many backups named %s", filepath.Base(base))
}
