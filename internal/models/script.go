package models

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ScriptEntry represents an installable script found in the source directory
type ScriptEntry struct {
	Name             string    // File name, also the installed name
	SourcePath       string    // Full path in the source directory
	AlreadyInstalled bool      // A same-named file exists in the scripts directory
	Selected         bool      // Whether the script is selected for install
	Size             int64     // File size in bytes
	ModTime          time.Time // Last modification time
}

// NewScriptEntry creates a ScriptEntry from a source path
func NewScriptEntry(path string) (*ScriptEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	return &ScriptEntry{
		Name:       filepath.Base(path),
		SourcePath: path,
		Size:       info.Size(),
		ModTime:    info.ModTime(),
		Selected:   true, // Default to selected
	}, nil
}

// ToggleSelected toggles the selection state
func (s *ScriptEntry) ToggleSelected() {
	s.Selected = !s.Selected
}

// StatusLabel returns the label shown next to the script name
func (s *ScriptEntry) StatusLabel() string {
	if s.AlreadyInstalled {
		return "Update (Already installed)"
	}
	return "New"
}

// SizeHuman returns human-readable file size
func (s *ScriptEntry) SizeHuman() string {
	const unit = 1024
	if s.Size < unit {
		return fmt.Sprintf("%d B", s.Size)
	}
	div, exp := int64(unit), 0
	for n := s.Size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(s.Size)/float64(div), "KMGTPE"[exp])
}

// SelectedNames returns the names of selected entries in list order
func SelectedNames(entries []*ScriptEntry) []string {
	var names []string
	for _, e := range entries {
		if e.Selected {
			names = append(names, e.Name)
		}
	}
	return names
}

// FindEntry returns the entry with the given name, or nil
func FindEntry(entries []*ScriptEntry, name string) *ScriptEntry {
	for _, e := range entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}
