package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"toolsuite/internal/backup"
	"toolsuite/internal/editor"
	"toolsuite/internal/fileops"
	"toolsuite/internal/git"
	"toolsuite/internal/models"
	"toolsuite/internal/notify"
	"toolsuite/internal/scanner"
	"toolsuite/internal/ui"
	"toolsuite/internal/ui/components"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Screen represents different screens in the app
type Screen int

const (
	ScreenMain       Screen = iota
	ScreenInstalling        // Install progress, every key ignored
	ScreenResult            // Completion dialog, any key dismisses
	ScreenPreview           // Script source or diff
	ScreenHelp
	ScreenRestore // Restore from a backup directory
)

// Model is the main application model
type Model struct {
	env     *env
	scripts []*models.ScriptEntry

	// UI Components
	list     *components.ScriptList
	preview  *components.Preview
	restore  *components.RestoreDialog
	spinner  spinner.Model
	progress progress.Model
	help     help.Model
	helpVP   viewport.Model
	keys     ui.KeyMap

	// State
	screen       Screen
	status       string
	notice       string // Source directory problem, shown instead of the list
	revision     string
	width        int
	height       int
	installApp   bool
	appAvailable bool
	scanned      bool

	// Install progress tracking
	installTotal   int
	installCurrent int
	installing     string
	events         chan tea.Msg
	outcome        *models.InstallOutcome

	watch  <-chan struct{} // Source directory changes
	ctx    context.Context
	cancel context.CancelFunc
}

// Messages
type scanCompleteMsg struct {
	scripts []*models.ScriptEntry
	notice  string
	err     error
	quiet   bool // Keep the current status message
}

type revisionMsg struct {
	revision string
}

type watchStartedMsg struct {
	changes <-chan struct{}
}

type sourceChangedMsg struct{}

type installProgressMsg struct {
	current int
	total   int
	script  string
}

type installDoneMsg struct {
	outcome models.InstallOutcome
}

type editorClosedMsg struct {
	name string
	err  error
}

type restoreDoneMsg struct {
	result *backup.RestoreResult
	err    error
}

// NewModel creates the installer UI for e
func NewModel(e *env) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = ui.ProgressStyle

	prog := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
	)

	list := components.NewScriptList(nil)
	list.Title = "Nautilus Context Menu Scripts"

	ctx, cancel := context.WithCancel(context.Background())

	return &Model{
		env:      e,
		list:     list,
		preview:  components.NewPreview(),
		restore:  components.NewRestoreDialog(),
		spinner:  s,
		progress: prog,
		help:     help.New(),
		helpVP:   viewport.New(76, 20),
		keys:     ui.DefaultKeyMap(),
		screen:   ScreenMain,
		status:   "Scanning...",
		width:    80,
		height:   24,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Close stops the source watcher and any refresh command still running
func (m *Model) Close() {
	m.cancel()
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.scanScripts,
		m.loadRevision,
		m.startWatch,
	)
}

func (m *Model) scanScripts() tea.Msg {
	startTime := time.Now()
	scripts, notice, err := m.env.scan()
	debugLog("Scan completed in %v", time.Since(startTime))
	return scanCompleteMsg{scripts: scripts, notice: notice, err: err}
}

// refreshScripts rescans after an install or restore without replacing
// the status message that reports it
func (m *Model) refreshScripts() tea.Msg {
	msg := m.scanScripts().(scanCompleteMsg)
	msg.quiet = true
	return msg
}

func (m *Model) loadRevision() tea.Msg {
	repo := git.NewRepo(m.env.cfg.SourceDir)
	if !repo.IsRepo() {
		return nil
	}
	rev, err := repo.Revision()
	if err != nil {
		debugLog("Revision: %v", err)
		return nil
	}
	return revisionMsg{revision: rev.String()}
}

func (m *Model) startWatch() tea.Msg {
	changes, err := scanner.Watch(m.ctx, m.env.cfg.SourceDir, scanner.DefaultDebounce)
	if err != nil {
		debugLog("Watch %s: %v", m.env.cfg.SourceDir, err)
		return nil
	}
	return watchStartedMsg{changes: changes}
}

// waitForChange blocks until the watcher reports a change
func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return sourceChangedMsg{}
	}
}

// waitForInstall delivers the next event of a running install
func waitForInstall(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		if m.screen == ScreenPreview {
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case scanCompleteMsg:
		m.applyScan(msg)

	case revisionMsg:
		m.revision = msg.revision

	case watchStartedMsg:
		m.watch = msg.changes
		return m, m.rearmWatch()

	case sourceChangedMsg:
		debugLog("Source directory changed")
		// The finished install rescans anyway
		if m.screen != ScreenInstalling {
			cmds = append(cmds, m.scanScripts, m.loadRevision)
		}
		cmds = append(cmds, m.rearmWatch())

	case installProgressMsg:
		m.installCurrent = msg.current
		m.installTotal = msg.total
		m.installing = msg.script
		m.status = fmt.Sprintf("Installing: %s", msg.script)
		return m, waitForInstall(m.events)

	case installDoneMsg:
		return m, m.finishInstall(msg.outcome)

	case editorClosedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Editor error: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Finished editing %s", msg.name)
		}
		return m, tea.Batch(m.refreshScripts, m.loadRevision)

	case restoreDoneMsg:
		m.screen = ScreenMain
		m.restore.Hide()
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("✓ Restored %d scripts from %s", len(msg.result.Restored), msg.result.Snapshot)
		}
		return m, m.refreshScripts
	}

	return m, tea.Batch(cmds...)
}

// rearmWatch keeps listening on the current watcher
func (m *Model) rearmWatch() tea.Cmd {
	if m.watch == nil {
		return nil
	}
	return waitForChange(m.watch)
}

// applyScan installs a fresh inventory into the list
func (m *Model) applyScan(msg scanCompleteMsg) {
	switch {
	case msg.err != nil:
		m.status = fmt.Sprintf("Error: %v", msg.err)
		return
	case msg.notice != "":
		m.notice = msg.notice
		m.status = msg.notice
	default:
		m.notice = ""
	}

	m.scripts = msg.scripts
	m.list.SetScripts(m.scripts)

	wasAvailable := m.appAvailable
	m.appAvailable = m.env.hasAppScript(m.scripts)
	switch {
	case !m.appAvailable:
		m.installApp = false
	case !wasAvailable:
		// Default on whenever the app script shows up
		m.installApp = true
	}

	if m.notice == "" && !msg.quiet {
		m.status = fmt.Sprintf("Found %d scripts", len(m.scripts))
	}
	m.scanned = true
}

// startInstall runs the installer in the background. Progress and the
// final outcome come back through m.events.
func (m *Model) startInstall() (tea.Model, tea.Cmd) {
	if !m.scanned {
		return m, nil
	}

	req := models.NewInstallRequest(m.list.SelectedNames(), m.installApp && m.appAvailable)
	scripts := m.scripts

	m.screen = ScreenInstalling
	m.list.Disabled = true
	m.installTotal = len(req.Scripts)
	m.installCurrent = 0
	m.installing = ""
	m.outcome = nil
	m.status = "Installing..."

	events := make(chan tea.Msg, len(req.Scripts)+1)
	m.events = events

	exec := m.env.newExecutor()
	exec.OnProgress = func(done, total int, name string) {
		events <- installProgressMsg{current: done, total: total, script: name}
	}

	ctx := m.ctx
	go func() {
		events <- installDoneMsg{outcome: exec.Install(ctx, req, scripts)}
	}()

	debugLog("Install started: %d scripts, app=%v", len(req.Scripts), req.InstallApp)
	return m, waitForInstall(events)
}

// finishInstall shows the result dialog and refreshes the inventory
func (m *Model) finishInstall(outcome models.InstallOutcome) tea.Cmd {
	m.outcome = &outcome
	m.events = nil
	m.screen = ScreenResult
	m.list.Disabled = false

	if outcome.Failed() {
		m.status = fmt.Sprintf("Error: %s", outcome.Message())
	} else {
		m.status = fmt.Sprintf("✓ Installed %d scripts", outcome.Installed)
	}

	cmds := []tea.Cmd{m.refreshScripts}
	if m.env.cfg.Notify {
		fm := m.env.cfg.FileManager
		cmds = append(cmds, func() tea.Msg {
			if err := notify.Outcome(outcome, fm); err != nil {
				debugLog("Notification failed: %v", err)
			}
			return nil
		})
	}
	return tea.Batch(cmds...)
}

func (m *Model) runRestore(name string) tea.Cmd {
	root := m.env.cfg.ScriptsDir
	return func() tea.Msg {
		result, err := backup.Restore(root, name, time.Now())
		return restoreDoneMsg{result: result, err: err}
	}
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case ScreenInstalling:
		return m, nil
	case ScreenResult:
		m.screen = ScreenMain
		return m, nil
	case ScreenPreview:
		return m.handlePreviewKeys(msg)
	case ScreenRestore:
		return m.handleRestoreKeys(msg)
	case ScreenHelp:
		if key.Matches(msg, m.keys.Escape, m.keys.Help, m.keys.Quit) {
			m.screen = ScreenMain
			return m, nil
		}
		var cmd tea.Cmd
		m.helpVP, cmd = m.helpVP.Update(msg)
		return m, cmd
	}

	return m.handleMainKeys(msg)
}

func (m *Model) handleMainKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.screen = ScreenHelp
		m.helpVP.SetContent(m.renderHelp())
		m.helpVP.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.list.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.list.MoveDown()
	case key.Matches(msg, m.keys.PageUp):
		m.list.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.list.PageDown()
	case key.Matches(msg, m.keys.Home):
		m.list.GoToFirst()
	case key.Matches(msg, m.keys.End):
		m.list.GoToLast()

	case key.Matches(msg, m.keys.Space):
		m.list.Toggle()
	case key.Matches(msg, m.keys.SelectAll):
		m.list.SelectAll()
	case key.Matches(msg, m.keys.DeselectAll):
		m.list.DeselectAll()

	case key.Matches(msg, m.keys.ToggleApp):
		if !m.appAvailable {
			m.status = fmt.Sprintf("%s unavailable: %q not found", m.env.suite.App.Label, m.env.suite.App.Script)
			return m, nil
		}
		m.installApp = !m.installApp

	case key.Matches(msg, m.keys.Install):
		return m.startInstall()

	case key.Matches(msg, m.keys.Preview):
		return m.handlePreview()

	case key.Matches(msg, m.keys.Diff):
		return m.handleDiff()

	case key.Matches(msg, m.keys.Edit):
		return m.handleEdit()

	case key.Matches(msg, m.keys.Rescan):
		m.status = "Scanning..."
		return m, tea.Batch(m.scanScripts, m.loadRevision)

	case key.Matches(msg, m.keys.Restore):
		return m.handleRestore()
	}

	return m, nil
}

func (m *Model) handlePreview() (tea.Model, tea.Cmd) {
	current := m.list.Current()
	if current == nil {
		return m, nil
	}

	if err := m.preview.LoadSource(current.SourcePath); err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
		return m, nil
	}
	m.screen = ScreenPreview
	return m, nil
}

func (m *Model) handleDiff() (tea.Model, tea.Cmd) {
	current := m.list.Current()
	if current == nil {
		return m, nil
	}

	if err := m.preview.LoadDiff(m.env.cfg.ScriptPath(current.Name), current.SourcePath); err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
		return m, nil
	}
	m.screen = ScreenPreview
	return m, nil
}

// handleEdit opens the current script in an external editor. When an older
// copy is installed the editor compares the two.
func (m *Model) handleEdit() (tea.Model, tea.Cmd) {
	current := m.list.Current()
	if current == nil {
		return m, nil
	}

	ed, err := editor.Detect(&editor.Config{Editor: m.env.cfg.Editor})
	if err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
		return m, nil
	}

	installed := m.env.cfg.ScriptPath(current.Name)
	cmd := ed.EditCmd(current.SourcePath)
	if fileops.Exists(installed) {
		cmd = ed.DiffCmd(installed, current.SourcePath)
	}

	debugLog("Editor: %v", cmd.Args)
	m.status = fmt.Sprintf("Editing %s in %s...", current.Name, ed.Name())
	name := current.Name
	return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorClosedMsg{name: name, err: err}
	})
}

func (m *Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape, m.keys.Back, m.keys.Quit):
		m.screen = ScreenMain
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.preview.ScrollUp()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.preview.ScrollDown()
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.preview.PageUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.preview.PageDown()
		return m, nil
	case key.Matches(msg, m.keys.Home):
		m.preview.GoToTop()
		return m, nil
	case key.Matches(msg, m.keys.End):
		m.preview.GoToBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m *Model) handleRestore() (tea.Model, tea.Cmd) {
	snapshots, err := backup.List(m.env.cfg.ScriptsDir)
	if err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
		return m, nil
	}
	if len(snapshots) == 0 {
		m.status = "No backups found"
		return m, nil
	}

	m.restore.Show(snapshots)
	m.screen = ScreenRestore
	return m, nil
}

func (m *Model) handleRestoreKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.restore.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.restore.MoveDown()
	case key.Matches(msg, m.keys.Enter, m.keys.Space):
		if name, done := m.restore.Confirm(); done {
			m.status = "Restoring " + name + "..."
			return m, m.runRestore(name)
		}
	case key.Matches(msg, m.keys.Escape, m.keys.Back):
		if m.restore.Back() {
			m.restore.Hide()
			m.screen = ScreenMain
		}
	case key.Matches(msg, m.keys.Quit):
		m.restore.Hide()
		m.screen = ScreenMain
	}
	return m, nil
}

// updateSizes lays the components out for the current window
func (m *Model) updateSizes() {
	m.list.Width = max(40, m.width-4)
	// header, hero, app row, button, status and help bars
	m.list.Height = max(5, m.height-17)
	m.preview.SetSize(max(20, m.width-4), max(5, m.height-6))
	m.restore.Width = min(72, max(40, m.width-4))
	m.restore.Height = max(10, m.height-6)
	m.helpVP.Width = max(20, m.width-4)
	m.helpVP.Height = max(5, m.height-6)
	m.progress.Width = min(60, max(20, m.width-20))
	m.help.Width = m.width
}

// selectedSummary describes the selection for the status bar
func (m *Model) selectedSummary() string {
	parts := []string{fmt.Sprintf("Scripts: %d/%d", len(m.list.SelectedNames()), len(m.scripts))}
	switch {
	case !m.appAvailable:
		parts = append(parts, "App: unavailable")
	case m.installApp:
		parts = append(parts, "App: on")
	default:
		parts = append(parts, "App: off")
	}
	return strings.Join(parts, "  •  ")
}
