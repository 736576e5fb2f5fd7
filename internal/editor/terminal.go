package editor

import (
	"os/exec"
	"path/filepath"
	"strings"
)

// Terminal is the editor named by $VISUAL or $EDITOR. It runs in the
// terminal the installer hands over while it is open.
type Terminal struct {
	baseEditor
	args []string
}

// NewTerminal creates a Terminal from the environment
func NewTerminal() Editor {
	spec := getenv("VISUAL")
	if strings.TrimSpace(spec) == "" {
		spec = getenv("EDITOR")
	}

	fields := strings.Fields(spec)
	t := &Terminal{baseEditor: baseEditor{name: "$EDITOR"}}
	if len(fields) > 0 {
		t.command = fields[0]
		t.args = fields[1:]
		t.name = filepath.Base(fields[0])
	}
	return t
}

// EditCmd opens path in the terminal editor
func (e *Terminal) EditCmd(path string) *exec.Cmd {
	return exec.Command(e.command, append(append([]string{}, e.args...), path)...)
}

// DiffCmd uses the vim family's diff mode and otherwise opens the source
func (e *Terminal) DiffCmd(installed, source string) *exec.Cmd {
	switch filepath.Base(e.command) {
	case "vim", "nvim", "vi":
		args := append(append([]string{}, e.args...), "-d", installed, source)
		return exec.Command(e.command, args...)
	}
	return e.EditCmd(source)
}
