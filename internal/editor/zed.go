package editor

import (
	"os/exec"
)

// Zed implements Editor interface for Zed editor
type Zed struct {
	baseEditor
}

// NewZed creates a new Zed editor instance
func NewZed() Editor {
	return &Zed{
		baseEditor: baseEditor{
			name:    "Zed",
			command: "zed",
		},
	}
}

// EditCmd opens path in Zed
// Command: zed --wait PATH
func (e *Zed) EditCmd(path string) *exec.Cmd {
	return exec.Command(e.command, "--wait", path)
}

// DiffCmd opens both files side by side
// Command: zed --wait INSTALLED SOURCE
// Note: Zed has no diff mode for two arbitrary files
func (e *Zed) DiffCmd(installed, source string) *exec.Cmd {
	return exec.Command(e.command, "--wait", installed, source)
}
