package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"toolsuite/internal/backup"
	"toolsuite/internal/git"
	"toolsuite/internal/install"
	"toolsuite/internal/models"
	"toolsuite/internal/notify"
	"toolsuite/internal/scanner"
	"toolsuite/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// debugLogFile receives debug output while the TUI owns the terminal
const debugLogFile = "toolsuite-debug.log"

// rootOptions holds the global flags
type rootOptions struct {
	configPath string
	sourceDir  string
}

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "toolsuite",
		Short: "Install file manager scripts and the Secure Beam launcher",
		Long: `toolsuite installs a directory of file manager context menu scripts into
~/.local/share/nautilus/scripts and, optionally, the Secure Beam launcher app.

Existing scripts are moved into a timestamped Backup_* directory before they
are replaced, so every install can be undone with 'toolsuite restore'.

Run without a subcommand to pick scripts interactively.`,
		Example: `  toolsuite                       # Interactive installer
  toolsuite list                  # Show scripts and their install state
  toolsuite install --all         # Install every script
  toolsuite install Compress      # Install a single script
  toolsuite backups               # List backups
  toolsuite restore Backup_20250601_123045`,
		Version:       fmt.Sprintf("%s (built %s)", version, buildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setDebug(debugMode)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: ~/.config/toolsuite/toolsuite.json)")
	root.PersistentFlags().StringVar(&opts.sourceDir, "source", "", "directory holding the scripts to install")
	root.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "enable debug logging")

	root.AddCommand(newListCmd(opts))
	root.AddCommand(newInstallCmd(opts))
	root.AddCommand(newBackupsCmd(opts))
	root.AddCommand(newRestoreCmd(opts))

	return root
}

// setDebug switches debug logging on in every package
func setDebug(on bool) {
	debugMode = on
	scanner.DebugMode = on
	install.DebugMode = on
}

// runTUI starts the interactive installer
func runTUI(opts *rootOptions) error {
	e, err := loadEnv(opts.configPath, opts.sourceDir)
	if err != nil {
		return err
	}

	if debugMode {
		// Stderr would corrupt the alt screen
		restore, err := redirectStderr(debugLogFile)
		if err != nil {
			return err
		}
		defer restore()
	}

	m := NewModel(e)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

// redirectStderr sends the standard logger and os.Stderr to path until the
// returned func is called
func redirectStderr(path string) (func(), error) {
	f, err := tea.LogToFile(path, "debug")
	if err != nil {
		return nil, err
	}

	prev := os.Stderr
	os.Stderr = f
	return func() {
		os.Stderr = prev
		log.SetOutput(prev)
		f.Close()
	}, nil
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the scripts in the source directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts.configPath, opts.sourceDir)
			if err != nil {
				return err
			}
			return runList(cmd.OutOrStdout(), e)
		},
	}
}

func runList(out io.Writer, e *env) error {
	scripts, notice, err := e.scan()
	if err != nil {
		return err
	}
	if notice != "" {
		fmt.Fprintln(out, ui.RenderNotification(ui.NotifyWarning, notice))
		return nil
	}

	repo := git.NewRepo(e.cfg.SourceDir)
	header := "Source: " + e.cfg.SourceDir
	if repo.IsRepo() {
		if rev, err := repo.Revision(); err == nil {
			header += " [" + rev.String() + "]"
		}
	}
	fmt.Fprintln(out, ui.TitleStyle.Render(header))
	fmt.Fprintln(out)

	if len(scripts) == 0 {
		fmt.Fprintln(out, ui.MutedStyle.Render("No scripts found"))
		return nil
	}

	width := 0
	for _, s := range scripts {
		width = max(width, len(s.Name))
	}

	for _, s := range scripts {
		line := fmt.Sprintf("  %-*s  %8s  %s", width, s.Name, s.SizeHuman(), ui.RenderStatus(s.AlreadyInstalled, s.StatusLabel()))
		if repo.IsRepo() {
			if c, err := repo.LastChange(s.SourcePath); err == nil && c != nil {
				line += ui.MutedStyle.Render(fmt.Sprintf("  %s %s", c.Hash, c.Date))
			}
		}
		fmt.Fprintln(out, line)
	}

	if e.hasAppScript(scripts) {
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.MutedStyle.Render(fmt.Sprintf("%s: installed from %q", e.suite.App.Label, e.suite.App.Script)))
	}
	return nil
}

// installOptions holds the install subcommand flags
type installOptions struct {
	all        bool
	noApp      bool
	noProgress bool
}

func newInstallCmd(opts *rootOptions) *cobra.Command {
	iopts := &installOptions{}

	cmd := &cobra.Command{
		Use:   "install [script...]",
		Short: "Install scripts without the interactive UI",
		Long: `Install the named scripts, or every script with --all.

The launcher app is installed when its script is among the installed
scripts, unless --no-app is given.`,
		Example: `  toolsuite install --all
  toolsuite install "Open Terminal Here" Compress
  toolsuite install --all --no-app`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !iopts.all {
				return fmt.Errorf("no scripts given\n\nUse 'toolsuite install --all' to install every script")
			}
			if len(args) > 0 && iopts.all {
				return fmt.Errorf("--all cannot be combined with script names")
			}

			e, err := loadEnv(opts.configPath, opts.sourceDir)
			if err != nil {
				return err
			}
			return runInstall(cmd.Context(), cmd.OutOrStdout(), e, args, iopts)
		},
	}

	cmd.Flags().BoolVar(&iopts.all, "all", false, "install every script in the source directory")
	cmd.Flags().BoolVar(&iopts.noApp, "no-app", false, "never install the launcher app")
	cmd.Flags().BoolVar(&iopts.noProgress, "no-progress", false, "do not draw a progress bar")

	return cmd
}

func runInstall(ctx context.Context, out io.Writer, e *env, names []string, iopts *installOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	scripts, notice, err := e.scan()
	if err != nil {
		return err
	}
	if notice != "" {
		return fmt.Errorf("%s", strings.TrimPrefix(notice, "Error: "))
	}

	if iopts.all {
		names = make([]string, 0, len(scripts))
		for _, s := range scripts {
			names = append(names, s.Name)
		}
	}

	req := models.NewInstallRequest(names, !iopts.noApp)
	exec := e.newExecutor()

	var bar *progressbar.ProgressBar
	if !iopts.noProgress && len(req.Scripts) > 0 {
		bar = progressbar.NewOptions(len(req.Scripts),
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription("Installing"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
		)
		exec.OnProgress = func(done, total int, name string) {
			bar.Describe(name)
			_ = bar.Set(done)
		}
	}

	outcome := exec.Install(ctx, req, scripts)
	if bar != nil {
		_ = bar.Finish()
	}
	if e.cfg.Notify {
		if err := notify.Outcome(outcome, e.cfg.FileManager); err != nil {
			debugLog("Notification failed: %v", err)
		}
	}

	if outcome.Failed() {
		return fmt.Errorf("%s: %s", notify.Title(outcome), outcome.Message())
	}

	fmt.Fprintln(out, ui.RenderNotification(ui.NotifySuccess, notify.Title(outcome)))
	fmt.Fprintln(out, notify.Body(outcome, e.cfg.FileManager))
	if outcome.AppInstalled {
		fmt.Fprintln(out, ui.MutedStyle.Render(e.suite.App.Label+" installed"))
	}
	if outcome.BackupDir != "" {
		fmt.Fprintln(out, ui.MutedStyle.Render("Previous versions saved in "+outcome.BackupDir))
	}
	return nil
}

func newBackupsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "backups",
		Short: "List backup directories, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts.configPath, opts.sourceDir)
			if err != nil {
				return err
			}
			return runBackups(cmd.OutOrStdout(), e)
		},
	}
}

func runBackups(out io.Writer, e *env) error {
	snapshots, err := backup.List(e.cfg.ScriptsDir)
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(snapshots) == 0 {
		fmt.Fprintln(out, ui.MutedStyle.Render("No backups found in "+e.cfg.ScriptsDir))
		return nil
	}

	for _, s := range snapshots {
		fmt.Fprintf(out, "%s  %s  %d files\n", ui.TitleStyle.Render(s.Name), s.Created.Format("2006-01-02 15:04:05"), len(s.Files))
		for _, f := range s.Files {
			fmt.Fprintln(out, ui.MutedStyle.Render("    "+f))
		}
	}
	return nil
}

func newRestoreCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup | latest>",
		Short: "Copy the scripts of a backup back into place",
		Long: `Copy every file of a backup directory back into the scripts directory.

Scripts that would be overwritten are moved into a new backup first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts.configPath, opts.sourceDir)
			if err != nil {
				return err
			}
			return runRestore(cmd.OutOrStdout(), e, args[0], time.Now())
		},
	}
}

func runRestore(out io.Writer, e *env, name string, now time.Time) error {
	if name == "latest" {
		snapshots, err := backup.List(e.cfg.ScriptsDir)
		if err != nil {
			return fmt.Errorf("failed to list backups: %w", err)
		}
		if len(snapshots) == 0 {
			return fmt.Errorf("no backups found in %s", e.cfg.ScriptsDir)
		}
		name = snapshots[0].Name
	}

	result, err := backup.Restore(e.cfg.ScriptsDir, name, now)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, ui.RenderNotification(ui.NotifySuccess, fmt.Sprintf("Restored %d scripts from %s", len(result.Restored), result.Snapshot)))
	if result.BackupDir != "" {
		fmt.Fprintln(out, ui.MutedStyle.Render("Replaced versions saved in "+result.BackupDir))
	}
	return nil
}
