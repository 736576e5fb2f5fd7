package install

import (
	"context"
	"os/exec"
	"time"
)

// refreshTimeout bounds each refresh command
const refreshTimeout = 15 * time.Second

// Runner runs an external command
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// execRunner runs commands with their output discarded
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	// Nil Stdout/Stderr go to the null device
	return exec.CommandContext(ctx, name, args...).Run()
}

// RefreshCommands returns the commands run after an install: rebuild the
// desktop database, then quit the file manager so it reloads its scripts.
func (e *Executor) RefreshCommands() [][]string {
	return [][]string{
		{"update-desktop-database", e.cfg.AppDir},
		{e.cfg.FileManager, "-q"},
	}
}

// refresh runs the refresh commands. Failures are logged and ignored.
func (e *Executor) refresh(ctx context.Context) {
	for _, cmd := range e.RefreshCommands() {
		runCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
		if err := e.runner.Run(runCtx, cmd[0], cmd[1:]...); err != nil {
			debugLog("  %s failed: %v", cmd[0], err)
		}
		cancel()
	}
}
