package main

import (
	"fmt"
	"strings"

	"toolsuite/internal/notify"
	"toolsuite/internal/ui"

	"github.com/charmbracelet/lipgloss"
)

const (
	heroTitle    = "Install Tool Suite"
	heroSubtitle = "Select the components you wish to install."
	appGroup     = "System Applications"
	installLabel = "Install Selected"
)

func (m *Model) View() string {
	switch m.screen {
	case ScreenPreview:
		return m.renderPreview()
	case ScreenRestore:
		return m.renderRestore()
	default:
		return m.renderMain()
	}
}

func (m *Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch m.screen {
	case ScreenInstalling:
		b.WriteString(m.renderInstalling())

	case ScreenResult:
		b.WriteString(m.renderResult())

	case ScreenHelp:
		b.WriteString(m.helpVP.View())

	default:
		b.WriteString(m.renderHero())
		b.WriteString("\n\n")
		if m.notice != "" {
			b.WriteString(ui.RenderNotification(ui.NotifyError, m.notice))
			b.WriteString("\n\n")
		}
		b.WriteString(m.list.View())
		b.WriteString("\n")
		b.WriteString(m.renderAppRow())
		b.WriteString("\n\n")
		b.WriteString(m.renderInstallButton())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())

	return ui.AppStyle.Render(b.String())
}

func (m *Model) renderHeader() string {
	title := ui.TitleStyle.Render(m.env.suite.Title)
	ver := ui.VersionStyle.Render("v" + version)
	path := ui.MutedStyle.Render("  " + m.env.cfg.SourceDir)

	gitInfo := ""
	if m.revision != "" {
		gitInfo = ui.MutedStyle.Render(" [" + m.revision + "]")
	}

	return ui.HeaderStyle.Render(title + "  " + ver + path + gitInfo)
}

func (m *Model) renderHero() string {
	return ui.TitleStyle.Render(heroTitle) + "\n" + ui.MutedStyle.Render(heroSubtitle)
}

// renderAppRow renders the launcher app toggle
func (m *Model) renderAppRow() string {
	app := m.env.suite.App

	var b strings.Builder
	b.WriteString(ui.PanelTitleStyle.Render(appGroup))
	b.WriteString("\n")

	row := ui.RenderCheckbox(m.installApp) + " " + app.Label
	if !m.appAvailable {
		row = ui.MutedStyle.Render(row + "  (" + app.Script + " not found)")
	}
	b.WriteString(ui.ItemStyle.Render(row))
	b.WriteString("\n")
	b.WriteString(ui.ItemStyle.Render("    " + ui.MutedStyle.Render(app.Description)))

	return ui.PanelStyle.Width(m.list.Width).Render(b.String())
}

func (m *Model) renderInstallButton() string {
	disabled := m.screen == ScreenInstalling || !m.scanned
	return ui.RenderButton(installLabel, true, disabled)
}

func (m *Model) renderInstalling() string {
	var content strings.Builder
	content.WriteString(fmt.Sprintf("%s Installing scripts...\n\n", m.spinner.View()))

	var percent float64
	if m.installTotal > 0 {
		percent = float64(m.installCurrent) / float64(m.installTotal)
	}
	content.WriteString(m.progress.ViewAs(percent) + "\n\n")
	content.WriteString(ui.MutedStyle.Render(fmt.Sprintf("  %d / %d scripts", m.installCurrent, m.installTotal)))
	if m.installing != "" {
		content.WriteString("\n\n")
		content.WriteString(ui.MutedStyle.Render(m.installing))
	}

	return m.center(content.String())
}

// renderResult renders the completion dialog
func (m *Model) renderResult() string {
	if m.outcome == nil {
		return ""
	}

	titleStyle := ui.SuccessNotifyStyle
	if m.outcome.Failed() {
		titleStyle = ui.ErrorNotifyStyle
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(notify.Title(*m.outcome)))
	b.WriteString("\n\n")
	b.WriteString(notify.Body(*m.outcome, m.env.cfg.FileManager))
	if m.outcome.AppInstalled {
		b.WriteString("\n" + ui.MutedStyle.Render(m.env.suite.App.Label+" installed."))
	}
	if m.outcome.BackupDir != "" {
		b.WriteString("\n\n" + ui.MutedStyle.Render("Previous versions saved in "+m.outcome.BackupDir))
	}
	b.WriteString("\n\n")
	b.WriteString(ui.RenderButton("OK", true, false))

	return m.center(ui.DialogStyle.Render(b.String()))
}

func (m *Model) renderPreview() string {
	return ui.AppStyle.Render(m.preview.View() + "\n" + m.renderHelpBar())
}

func (m *Model) renderRestore() string {
	return ui.AppStyle.Render(m.renderHeader() + "\n" + m.center(m.restore.View()))
}

// center places content in the middle of the body area
func (m *Model) center(content string) string {
	return lipgloss.NewStyle().
		Width(max(0, m.width-2)).
		Height(max(0, m.height-6)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (m *Model) renderStatusBar() string {
	styledStatus := ui.MutedStyle.Render(m.status)
	switch {
	case strings.HasPrefix(m.status, "✓"):
		styledStatus = ui.RenderNotification(ui.NotifySuccess, strings.TrimPrefix(m.status, "✓ "))
	case strings.HasPrefix(m.status, "Error"):
		styledStatus = ui.RenderNotification(ui.NotifyError, m.status)
	case strings.Contains(m.status, "unavailable") || strings.HasPrefix(m.status, "No backups"):
		styledStatus = ui.RenderNotification(ui.NotifyWarning, m.status)
	}

	return ui.StatusBarStyle.Render(styledStatus + "  •  " + m.selectedSummary())
}

func (m *Model) renderHelpBar() string {
	switch m.screen {
	case ScreenInstalling:
		return ui.MutedStyle.Render("Installing... please wait")

	case ScreenResult:
		return ui.RenderHelpItem("any key", "continue")

	case ScreenPreview:
		items := []string{
			ui.RenderHelpItem("↑↓/j/k", "scroll"),
			ui.RenderHelpItem("PgUp/PgDn", "page"),
			ui.RenderHelpItem("g/G", "top/bottom"),
			ui.RenderHelpItem("esc/q", "close"),
		}
		return strings.Join(items, "  ")

	case ScreenHelp:
		scrollPct := fmt.Sprintf("%d%%", int(m.helpVP.ScrollPercent()*100))
		items := []string{
			ui.RenderHelpItem("↑↓/j/k", "scroll"),
			ui.RenderHelpItem("esc/?", "close"),
			ui.RenderHelpItem(scrollPct, ""),
		}
		return strings.Join(items, "  ")
	}

	return m.help.View(m.keys)
}

// renderHelp renders the keyboard shortcut guide shown in the help screen
func (m *Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(ui.PanelTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []string{"Navigation", "Selection", "Actions", "Inspect", "General"}
	for i, group := range m.keys.FullHelp() {
		if i < len(sections) {
			b.WriteString(ui.SectionStyle.Render(sections[i]))
			b.WriteString("\n")
		}
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %s\n", ui.RenderHelpItem(fmt.Sprintf("%-12s", h.Key), h.Desc)))
		}
		b.WriteString("\n")
	}

	b.WriteString(ui.SectionStyle.Render("Backups"))
	b.WriteString("\n")
	b.WriteString(ui.MutedStyle.Render("  Scripts that are replaced are moved to " + m.env.cfg.ScriptsDir + "/Backup_<date>_<time>."))
	b.WriteString("\n")
	b.WriteString(ui.MutedStyle.Render("  Press R to copy one of them back."))
	b.WriteString("\n")

	return b.String()
}
