package editor

import (
	"os/exec"
)

// VSCode implements Editor interface for Visual Studio Code
type VSCode struct {
	baseEditor
}

// NewVSCode creates a new VS Code editor instance
func NewVSCode() Editor {
	return &VSCode{
		baseEditor: baseEditor{
			name:    "VS Code",
			command: "code",
		},
	}
}

// EditCmd opens path in a VS Code tab
// Command: code --wait PATH
func (e *VSCode) EditCmd(path string) *exec.Cmd {
	return exec.Command(e.command, "--wait", path)
}

// DiffCmd opens VS Code's diff view between two files
// Command: code --wait --diff INSTALLED SOURCE
func (e *VSCode) DiffCmd(installed, source string) *exec.Cmd {
	return exec.Command(e.command, "--wait", "--diff", installed, source)
}
