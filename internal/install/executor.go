// Package install copies the selected scripts into the file manager's
// scripts directory, optionally installs the launcher app and refreshes the
// desktop afterwards.
package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"toolsuite/internal/backup"
	"toolsuite/internal/config"
	"toolsuite/internal/fileops"
	"toolsuite/internal/manifest"
	"toolsuite/internal/models"
)

// DebugMode enables debug logging
var DebugMode = false

// debugLog logs a message if debug mode is enabled
func debugLog(format string, args ...interface{}) {
	if DebugMode {
		fmt.Fprintf(os.Stderr, "[INSTALL] "+format+"\n", args...)
	}
}

// ProgressFunc is called after each copied script
type ProgressFunc func(done, total int, name string)

// Executor performs install runs
type Executor struct {
	cfg    *config.Config
	app    *manifest.App
	runner Runner
	now    func() time.Time

	// OnProgress, when set, is called after each copied script
	OnProgress ProgressFunc
}

// New creates an Executor. A nil app falls back to the built-in launcher.
func New(cfg *config.Config, app *manifest.App) *Executor {
	if app == nil {
		app = manifest.Default()
	}
	return &Executor{
		cfg:    cfg,
		app:    app,
		runner: execRunner{},
		now:    time.Now,
	}
}

// SetRunner replaces the runner used for the refresh commands
func (e *Executor) SetRunner(r Runner) {
	e.runner = r
}

// App returns the launcher app definition
func (e *Executor) App() *manifest.App {
	return e.app
}

// Install runs one install. entries is the inventory the request was built
// from; requested names missing from it fail the run. The first error
// aborts the run and files already copied stay in place.
func (e *Executor) Install(ctx context.Context, req models.InstallRequest, entries []*models.ScriptEntry) models.InstallOutcome {
	start := e.now()
	outcome := models.InstallOutcome{}
	debugLog("Install %d scripts (app=%v)", len(req.Scripts), req.InstallApp)

	if err := e.cfg.EnsureDirectories(); err != nil {
		outcome.Err = err
		return outcome
	}

	backups := backup.New(e.cfg.ScriptsDir, start)

	total := len(req.Scripts)
	for _, name := range req.Scripts {
		entry := models.FindEntry(entries, name)
		if entry == nil {
			outcome.Err = fmt.Errorf("unknown script %q", name)
			outcome.BackupDir = backups.Dir()
			return outcome
		}

		if err := e.installScript(entry, backups); err != nil {
			outcome.Err = err
			outcome.BackupDir = backups.Dir()
			return outcome
		}

		outcome.Installed++
		outcome.Scripts = append(outcome.Scripts, name)
		if e.OnProgress != nil {
			e.OnProgress(outcome.Installed, total, name)
		}
	}

	if req.InstallApp && req.Has(e.app.Script) {
		entry := models.FindEntry(entries, e.app.Script)
		if err := e.installApp(entry.SourcePath); err != nil {
			outcome.Err = err
			outcome.BackupDir = backups.Dir()
			return outcome
		}
		outcome.AppInstalled = true
	}

	e.refresh(ctx)

	outcome.BackupDir = backups.Dir()
	debugLog("Installed %d scripts in %v (backup=%q)", outcome.Installed, time.Since(start), outcome.BackupDir)
	return outcome
}

// installScript backs up an existing destination and copies the source over
func (e *Executor) installScript(entry *models.ScriptEntry, backups *backup.Set) error {
	dest := e.cfg.ScriptPath(entry.Name)

	if fileops.Exists(dest) {
		moved, err := backups.Move(dest)
		if err != nil {
			return err
		}
		debugLog("  backed up %s -> %s", dest, moved)
	}

	if err := fileops.InstallFile(entry.SourcePath, dest); err != nil {
		return err
	}
	debugLog("  installed %s", dest)
	return nil
}

// installApp copies the app script to the bin directory and writes its
// desktop entry
func (e *Executor) installApp(source string) error {
	binPath := filepath.Join(e.cfg.BinDir, e.app.Binary)
	if err := fileops.InstallFile(source, binPath); err != nil {
		return err
	}

	desktopPath := filepath.Join(e.cfg.AppDir, e.app.DesktopFile)
	if err := os.WriteFile(desktopPath, []byte(e.app.DesktopEntry(binPath)), fileops.ExecMode); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(desktopPath, fileops.ExecMode); err != nil {
		return err
	}

	debugLog("  installed app %s (%s)", binPath, desktopPath)
	return nil
}
