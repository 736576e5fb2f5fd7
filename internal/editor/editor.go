// Package editor opens scripts in an external editor so they can be
// reviewed or changed before they are installed.
package editor

import (
	"fmt"
	"os"
	"os/exec"
)

// Editor builds the commands that open scripts in one editor
type Editor interface {
	// Name returns the display name of the editor
	Name() string

	// IsInstalled checks if the editor is available on the system
	IsInstalled() bool

	// EditCmd opens path for editing and waits until it is closed
	EditCmd(path string) *exec.Cmd

	// DiffCmd compares the installed copy with the source script
	DiffCmd(installed, source string) *exec.Cmd
}

// Config holds editor configuration
type Config struct {
	// Editor specifies which editor to use: "auto", "env", "code", "cursor", "zed"
	Editor string `json:"editor"`

	// Priority order for auto-detection
	Priority []string `json:"editor_priority"`
}

// DefaultConfig returns the default editor configuration. "env" is the
// terminal editor named by $VISUAL or $EDITOR.
func DefaultConfig() *Config {
	return &Config{
		Editor:   "auto",
		Priority: []string{"env", "cursor", "code", "zed"},
	}
}

// Replaced in tests
var (
	lookPath = exec.LookPath
	getenv   = os.Getenv
)

// editorsByName maps editor names to constructor functions
var editorsByName = map[string]func() Editor{
	"env":    NewTerminal,
	"code":   NewVSCode,
	"cursor": NewCursor,
	"zed":    NewZed,
}

// Detect finds an installed editor based on priority order
func Detect(cfg *Config) (Editor, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// If specific editor is requested, try that first
	if cfg.Editor != "" && cfg.Editor != "auto" {
		if constructor, ok := editorsByName[cfg.Editor]; ok {
			editor := constructor()
			if editor.IsInstalled() {
				return editor, nil
			}
			return nil, fmt.Errorf("editor %s is not installed", cfg.Editor)
		}
		return nil, fmt.Errorf("unknown editor: %s", cfg.Editor)
	}

	priority := cfg.Priority
	if len(priority) == 0 {
		priority = DefaultConfig().Priority
	}

	for _, name := range priority {
		if constructor, ok := editorsByName[name]; ok {
			editor := constructor()
			if editor.IsInstalled() {
				return editor, nil
			}
		}
	}

	return nil, fmt.Errorf("no editor found (set $EDITOR or install VS Code, Cursor, or Zed)")
}

// isCommandAvailable checks if a command exists in PATH
func isCommandAvailable(name string) bool {
	if name == "" {
		return false
	}
	_, err := lookPath(name)
	return err == nil
}

// baseEditor provides common functionality for editors
type baseEditor struct {
	name    string
	command string
}

func (e *baseEditor) Name() string {
	return e.name
}

func (e *baseEditor) IsInstalled() bool {
	return isCommandAvailable(e.command)
}
