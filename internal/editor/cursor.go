package editor

import (
	"os/exec"
)

// Cursor implements Editor interface for Cursor IDE
type Cursor struct {
	baseEditor
}

// NewCursor creates a new Cursor editor instance
func NewCursor() Editor {
	return &Cursor{
		baseEditor: baseEditor{
			name:    "Cursor",
			command: "cursor",
		},
	}
}

// EditCmd opens path in Cursor
// Command: cursor --wait PATH
func (e *Cursor) EditCmd(path string) *exec.Cmd {
	return exec.Command(e.command, "--wait", path)
}

// DiffCmd opens Cursor's diff view between two files
// Command: cursor --wait --diff INSTALLED SOURCE
func (e *Cursor) DiffCmd(installed, source string) *exec.Cmd {
	// Cursor takes the same flags as VS Code
	return exec.Command(e.command, "--wait", "--diff", installed, source)
}
