package install

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolsuite/internal/config"
	"toolsuite/internal/manifest"
	"toolsuite/internal/models"
	"toolsuite/internal/scanner"
)

// fakeRunner records commands instead of running them
type fakeRunner struct {
	calls [][]string
	err   error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.err
}

type fixture struct {
	cfg    *config.Config
	runner *fakeRunner
	exec   *Executor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		SourceDir:   filepath.Join(root, "src"),
		ScriptsDir:  filepath.Join(root, "home", ".local", "share", "nautilus", "scripts"),
		AppDir:      filepath.Join(root, "home", ".local", "share", "applications"),
		BinDir:      filepath.Join(root, "home", ".local", "bin"),
		FileManager: "nautilus",
	}
	require.NoError(t, os.MkdirAll(cfg.SourceDir, 0755))

	runner := &fakeRunner{}
	exec := New(cfg, nil)
	exec.SetRunner(runner)
	exec.now = func() time.Time { return time.Date(2025, 6, 1, 12, 30, 45, 0, time.Local) }

	return &fixture{cfg: cfg, runner: runner, exec: exec}
}

func (f *fixture) writeSource(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(f.cfg.SourcePath(name), []byte(content), 0644))
}

func (f *fixture) scan(t *testing.T) []*models.ScriptEntry {
	t.Helper()
	entries, err := scanner.New(f.cfg.SourceDir, f.cfg.ScriptsDir).Scan()
	require.NoError(t, err)
	return entries
}

func backupDirs(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var dirs []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), "Backup_") {
			dirs = append(dirs, filepath.Join(dir, e.Name()))
		}
	}
	return dirs
}

func TestInstallFreshScript(t *testing.T) {
	f := newFixture(t)
	f.writeSource(t, "a.sh", "#!/bin/sh\necho a\n")

	req := models.NewInstallRequest([]string{"a.sh"}, false)
	outcome := f.exec.Install(context.Background(), req, f.scan(t))

	require.NoError(t, outcome.Err)
	assert.Equal(t, 1, outcome.Installed)
	assert.Equal(t, []string{"a.sh"}, outcome.Scripts)
	assert.Empty(t, outcome.BackupDir)
	assert.False(t, outcome.AppInstalled)

	info, err := os.Stat(f.cfg.ScriptPath("a.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	assert.Empty(t, backupDirs(t, f.cfg.ScriptsDir), "no backup dir without an existing destination")
}

func TestInstallCreatesDirectories(t *testing.T) {
	f := newFixture(t)

	outcome := f.exec.Install(context.Background(), models.NewInstallRequest(nil, false), nil)
	require.NoError(t, outcome.Err)
	assert.Equal(t, 0, outcome.Installed)

	for _, dir := range f.cfg.InstallDirs() {
		assert.DirExists(t, dir)
	}
}

func TestInstallPreservesModTime(t *testing.T) {
	f := newFixture(t)
	f.writeSource(t, "a.sh", "#!/bin/sh\n")
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(f.cfg.SourcePath("a.sh"), mtime, mtime))

	outcome := f.exec.Install(context.Background(), models.NewInstallRequest([]string{"a.sh"}, false), f.scan(t))
	require.NoError(t, outcome.Err)

	info, err := os.Stat(f.cfg.ScriptPath("a.sh"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime), "mtime %v, want %v", info.ModTime(), mtime)
}

func TestInstallBacksUpExistingScript(t *testing.T) {
	f := newFixture(t)
	f.writeSource(t, "a.sh", "#!/bin/sh\necho new\n")
	require.NoError(t, os.MkdirAll(f.cfg.ScriptsDir, 0755))
	require.NoError(t, os.WriteFile(f.cfg.ScriptPath("a.sh"), []byte("#!/bin/sh\necho old\n"), 0700))

	entries := f.scan(t)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].AlreadyInstalled)

	outcome := f.exec.Install(context.Background(), models.NewInstallRequest([]string{"a.sh"}, false), entries)
	require.NoError(t, outcome.Err)
	assert.Equal(t, 1, outcome.Installed)

	dirs := backupDirs(t, f.cfg.ScriptsDir)
	require.Len(t, dirs, 1)
	assert.Equal(t, dirs[0], outcome.BackupDir)
	assert.Equal(t, "Backup_20250601_123045", filepath.Base(outcome.BackupDir))

	old, err := os.ReadFile(filepath.Join(outcome.BackupDir, "a.sh"))
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho old\n", string(old))

	current, err := os.ReadFile(f.cfg.ScriptPath("a.sh"))
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho new\n", string(current))
}

func TestInstallTwiceIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.writeSource(t, "a.sh", "#!/bin/sh\necho a\n")
	f.writeSource(t, "b.sh", "#!/bin/sh\necho b\n")
	req := models.NewInstallRequest([]string{"a.sh", "b.sh"}, false)

	first := f.exec.Install(context.Background(), req, f.scan(t))
	require.NoError(t, first.Err)
	assert.Empty(t, first.BackupDir)

	// Same second: the second run gets a suffixed backup dir
	second := f.exec.Install(context.Background(), req, f.scan(t))
	require.NoError(t, second.Err)
	assert.Equal(t, 2, second.Installed)
	require.NotEmpty(t, second.BackupDir)

	third := f.exec.Install(context.Background(), req, f.scan(t))
	require.NoError(t, third.Err)
	assert.NotEqual(t, second.BackupDir, third.BackupDir)

	assert.Len(t, backupDirs(t, f.cfg.ScriptsDir), 2, "one backup dir per repeated run")

	for _, name := range []string{"a.sh", "b.sh"} {
		src, err := os.ReadFile(f.cfg.SourcePath(name))
		require.NoError(t, err)
		dst, err := os.ReadFile(f.cfg.ScriptPath(name))
		require.NoError(t, err)
		assert.Equal(t, src, dst)

		for _, dir := range []string{second.BackupDir, third.BackupDir} {
			backedUp, err := os.ReadFile(filepath.Join(dir, name))
			require.NoError(t, err)
			assert.Equal(t, src, backedUp)
		}
	}
}

func TestInstallFailsMidList(t *testing.T) {
	f := newFixture(t)
	f.writeSource(t, "1-first.sh", "#!/bin/sh\n")
	f.writeSource(t, "2-second.sh", "#!/bin/sh\n")
	f.writeSource(t, "3-third.sh", "#!/bin/sh\n")
	entries := f.scan(t)
	require.Len(t, entries, 3)

	// Item 2 disappears between scan and install
	require.NoError(t, os.Remove(f.cfg.SourcePath("2-second.sh")))

	var progress []string
	f.exec.OnProgress = func(done, total int, name string) {
		progress = append(progress, name)
	}

	req := models.NewInstallRequest(models.SelectedNames(entries), false)
	outcome := f.exec.Install(context.Background(), req, entries)

	require.Error(t, outcome.Err)
	assert.True(t, outcome.Failed())
	assert.True(t, errors.Is(outcome.Err, os.ErrNotExist))
	assert.Equal(t, outcome.Err.Error(), outcome.Message())

	assert.FileExists(t, f.cfg.ScriptPath("1-first.sh"), "item 1 stays copied")
	assert.NoFileExists(t, f.cfg.ScriptPath("3-third.sh"), "item 3 is never attempted")
	assert.Equal(t, []string{"1-first.sh"}, progress)
	assert.Empty(t, f.runner.calls, "refresh is skipped on failure")
}

func TestInstallUnknownScript(t *testing.T) {
	f := newFixture(t)
	f.writeSource(t, "a.sh", "#!/bin/sh\n")

	outcome := f.exec.Install(context.Background(), models.NewInstallRequest([]string{"missing.sh"}, false), f.scan(t))

	require.Error(t, outcome.Err)
	assert.Equal(t, `unknown script "missing.sh"`, outcome.Message())
}

func TestInstallApp(t *testing.T) {
	f := newFixture(t)
	app := manifest.Default()
	f.writeSource(t, app.Script, "#!/usr/bin/env python3\nprint('beam')\n")
	f.writeSource(t, "a.sh", "#!/bin/sh\n")

	req := models.NewInstallRequest([]string{"a.sh", app.Script}, true)
	outcome := f.exec.Install(context.Background(), req, f.scan(t))

	require.NoError(t, outcome.Err)
	assert.Equal(t, 2, outcome.Installed)
	assert.True(t, outcome.AppInstalled)

	binPath := filepath.Join(f.cfg.BinDir, "secure-beam")
	info, err := os.Stat(binPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	desktopPath := filepath.Join(f.cfg.AppDir, "secure-beam.desktop")
	info, err = os.Stat(desktopPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	content, err := os.ReadFile(desktopPath)
	require.NoError(t, err)
	assert.Equal(t, app.DesktopEntry(binPath), string(content))
	assert.Contains(t, string(content), `Exec="`+binPath+`" %F`)
}

func TestInstallAppBinaryLinkedToSource(t *testing.T) {
	f := newFixture(t)
	app := manifest.Default()
	content := "#!/usr/bin/env python3\nprint('beam')\n"
	f.writeSource(t, app.Script, content)

	binPath := filepath.Join(f.cfg.BinDir, app.Binary)
	require.NoError(t, os.MkdirAll(f.cfg.BinDir, 0755))
	if err := os.Symlink(f.cfg.SourcePath(app.Script), binPath); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	outcome := f.exec.Install(context.Background(), models.NewInstallRequest([]string{app.Script}, true), f.scan(t))

	require.Error(t, outcome.Err)
	assert.Contains(t, outcome.Message(), "are the same file")
	assert.False(t, outcome.AppInstalled)

	data, err := os.ReadFile(f.cfg.SourcePath(app.Script))
	require.NoError(t, err)
	assert.Equal(t, content, string(data), "source script must survive")
}

func TestInstallAppRequiresSelectedScript(t *testing.T) {
	f := newFixture(t)
	app := manifest.Default()
	f.writeSource(t, app.Script, "#!/bin/sh\n")
	f.writeSource(t, "a.sh", "#!/bin/sh\n")

	outcome := f.exec.Install(context.Background(), models.NewInstallRequest([]string{"a.sh"}, true), f.scan(t))

	require.NoError(t, outcome.Err)
	assert.False(t, outcome.AppInstalled)
	assert.NoFileExists(t, filepath.Join(f.cfg.BinDir, "secure-beam"))
	assert.NoFileExists(t, filepath.Join(f.cfg.AppDir, "secure-beam.desktop"))
}

func TestInstallAppDisabled(t *testing.T) {
	f := newFixture(t)
	app := manifest.Default()
	f.writeSource(t, app.Script, "#!/bin/sh\n")

	outcome := f.exec.Install(context.Background(), models.NewInstallRequest([]string{app.Script}, false), f.scan(t))

	require.NoError(t, outcome.Err)
	assert.Equal(t, 1, outcome.Installed)
	assert.False(t, outcome.AppInstalled)
	assert.NoFileExists(t, filepath.Join(f.cfg.BinDir, "secure-beam"))
}

func TestInstallRunsRefreshCommands(t *testing.T) {
	f := newFixture(t)
	f.cfg.FileManager = "nemo"
	f.writeSource(t, "a.sh", "#!/bin/sh\n")

	outcome := f.exec.Install(context.Background(), models.NewInstallRequest([]string{"a.sh"}, false), f.scan(t))
	require.NoError(t, outcome.Err)

	assert.Equal(t, [][]string{
		{"update-desktop-database", f.cfg.AppDir},
		{"nemo", "-q"},
	}, f.runner.calls)
}

func TestInstallIgnoresRefreshFailures(t *testing.T) {
	f := newFixture(t)
	f.runner.err = errors.New("exec: \"nautilus\": executable file not found in $PATH")
	f.writeSource(t, "a.sh", "#!/bin/sh\n")

	outcome := f.exec.Install(context.Background(), models.NewInstallRequest([]string{"a.sh"}, false), f.scan(t))

	require.NoError(t, outcome.Err)
	assert.Equal(t, 1, outcome.Installed)
	assert.Len(t, f.runner.calls, 2, "second command still runs after the first fails")
}

func TestExecRunnerMissingBinary(t *testing.T) {
	err := execRunner{}.Run(context.Background(), "toolsuite-no-such-command-xyz")
	assert.Error(t, err)
}

func TestProgressReportsEveryScript(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"a.sh", "b.sh", "c.sh"} {
		f.writeSource(t, name, "#!/bin/sh\n")
	}

	type step struct {
		done, total int
		name        string
	}
	var steps []step
	f.exec.OnProgress = func(done, total int, name string) {
		steps = append(steps, step{done, total, name})
	}

	outcome := f.exec.Install(context.Background(), models.NewInstallRequest([]string{"c.sh", "a.sh"}, false), f.scan(t))
	require.NoError(t, outcome.Err)

	assert.Equal(t, []step{{1, 2, "c.sh"}, {2, 2, "a.sh"}}, steps)
}
