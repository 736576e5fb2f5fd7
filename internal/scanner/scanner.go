package scanner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"toolsuite/internal/fileops"
	"toolsuite/internal/models"
)

// DebugMode enables debug logging
var DebugMode = false

// debugLog logs a message if debug mode is enabled
func debugLog(format string, args ...interface{}) {
	if DebugMode {
		fmt.Fprintf(os.Stderr, "[SCANNER] "+format+"\n", args...)
	}
}

// ErrSourceMissing is returned when the source directory does not exist
var ErrSourceMissing = errors.New("'scripts' folder not found")

// scriptMarker is the leading byte sequence of an executable script
var scriptMarker = []byte("#!")

// Scanner finds installable scripts in a source directory
type Scanner struct {
	sourceDir  string
	scriptsDir string
}

// New creates a new Scanner
func New(sourceDir, scriptsDir string) *Scanner {
	return &Scanner{
		sourceDir:  sourceDir,
		scriptsDir: scriptsDir,
	}
}

// SourceDir returns the scanned directory
func (s *Scanner) SourceDir() string {
	return s.sourceDir
}

// Scan returns the scripts of the source directory ordered by name. Files
// that do not start with "#!" or cannot be read are skipped. A missing
// source directory yields an empty list and ErrSourceMissing.
func (s *Scanner) Scan() ([]*models.ScriptEntry, error) {
	start := time.Now()
	debugLog("Scanning %s", s.sourceDir)

	entries, err := os.ReadDir(s.sourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*models.ScriptEntry{}, fmt.Errorf("%w in %s", ErrSourceMissing, filepath.Dir(s.sourceDir))
		}
		return []*models.ScriptEntry{}, err
	}

	scripts := []*models.ScriptEntry{}
	for _, entry := range entries {
		path := filepath.Join(s.sourceDir, entry.Name())

		// Follow symlinks, keep only regular files
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		if !IsScript(path) {
			debugLog("  skip %s (no script marker)", entry.Name())
			continue
		}

		script, err := models.NewScriptEntry(path)
		if err != nil {
			continue
		}
		script.AlreadyInstalled = fileops.Exists(filepath.Join(s.scriptsDir, entry.Name()))
		scripts = append(scripts, script)
	}

	debugLog("Found %d scripts in %v", len(scripts), time.Since(start))
	return scripts, nil
}

// IsScript reports whether the file at path begins with "#!"
func IsScript(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, len(scriptMarker))
	if _, err := io.ReadFull(f, head); err != nil {
		return false
	}
	return bytes.Equal(head, scriptMarker)
}
