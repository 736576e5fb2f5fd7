package components

import (
	"fmt"
	"strings"
	"time"

	"toolsuite/internal/backup"
	"toolsuite/internal/ui"
)

// RestoreDialog lets the user pick a backup directory to restore
type RestoreDialog struct {
	Snapshots  []backup.Snapshot
	Cursor     int
	FileCursor int
	Width      int
	Height     int
	Step       RestoreStep
	Visible    bool

	now func() time.Time
}

// RestoreStep represents the current step in restore dialog
type RestoreStep int

const (
	StepSelectBackup RestoreStep = iota
	StepConfirm
)

// NewRestoreDialog creates a new restore dialog
func NewRestoreDialog() *RestoreDialog {
	return &RestoreDialog{
		Width:  60,
		Height: 20,
		Step:   StepSelectBackup,
		now:    time.Now,
	}
}

// Show shows the dialog with the given backups, newest first
func (d *RestoreDialog) Show(snapshots []backup.Snapshot) {
	d.Snapshots = snapshots
	d.Cursor = 0
	d.FileCursor = 0
	d.Step = StepSelectBackup
	d.Visible = true
}

// Hide hides the dialog
func (d *RestoreDialog) Hide() {
	d.Visible = false
}

// IsVisible returns whether the dialog is visible
func (d *RestoreDialog) IsVisible() bool {
	return d.Visible
}

// MoveUp moves cursor up
func (d *RestoreDialog) MoveUp() {
	if d.Step == StepSelectBackup {
		if d.Cursor > 0 {
			d.Cursor--
		}
	} else if d.FileCursor > 0 {
		d.FileCursor--
	}
}

// MoveDown moves cursor down
func (d *RestoreDialog) MoveDown() {
	if d.Step == StepSelectBackup {
		if d.Cursor < len(d.Snapshots)-1 {
			d.Cursor++
		}
	} else if s := d.Selected(); s != nil && d.FileCursor < len(s.Files)-1 {
		d.FileCursor++
	}
}

// Confirm moves from backup selection to confirmation, and from
// confirmation returns the backup to restore
func (d *RestoreDialog) Confirm() (name string, done bool) {
	s := d.Selected()
	if s == nil {
		return "", false
	}

	if d.Step == StepSelectBackup {
		d.Step = StepConfirm
		d.FileCursor = 0
		return "", false
	}

	return s.Name, true
}

// Back goes back to previous step. It returns true when the dialog should
// close.
func (d *RestoreDialog) Back() bool {
	if d.Step == StepConfirm {
		d.Step = StepSelectBackup
		return false
	}
	return true
}

// Selected returns the backup under the cursor
func (d *RestoreDialog) Selected() *backup.Snapshot {
	if len(d.Snapshots) > 0 && d.Cursor < len(d.Snapshots) {
		return &d.Snapshots[d.Cursor]
	}
	return nil
}

// View renders the dialog
func (d *RestoreDialog) View() string {
	if !d.Visible {
		return ""
	}

	var b strings.Builder

	b.WriteString(ui.PanelTitleStyle.Render("Restore scripts from a backup"))
	b.WriteString("\n")
	b.WriteString(ui.DividerStyle.Render(strings.Repeat("-", max(0, d.Width-4))))
	b.WriteString("\n\n")

	if d.Step == StepSelectBackup {
		b.WriteString(d.renderBackupSelection())
	} else {
		b.WriteString(d.renderConfirm())
	}

	b.WriteString("\n")
	b.WriteString(ui.DividerStyle.Render(strings.Repeat("-", max(0, d.Width-4))))
	b.WriteString("\n")
	b.WriteString(d.renderHelp())

	return ui.DialogStyle.Width(d.Width).Render(b.String())
}

// renderBackupSelection renders the backup list
func (d *RestoreDialog) renderBackupSelection() string {
	var b strings.Builder

	if len(d.Snapshots) == 0 {
		b.WriteString(ui.MutedStyle.Render("  No backups found"))
		return b.String()
	}

	b.WriteString(ui.MutedStyle.Render("Select a backup:"))
	b.WriteString("\n\n")

	visibleHeight := max(1, d.Height-10)
	startIdx := 0
	if d.Cursor >= visibleHeight {
		startIdx = d.Cursor - visibleHeight + 1
	}
	endIdx := min(startIdx+visibleHeight, len(d.Snapshots))

	for i := startIdx; i < endIdx; i++ {
		s := d.Snapshots[i]
		prefix := "  "
		if i == d.Cursor {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %d files  (%s)", prefix, s.Name, len(s.Files), formatTimeAgo(s.Created, d.now()))
		if i == d.Cursor {
			b.WriteString(ui.SelectedItemStyle.Width(max(0, d.Width-6)).Render(line))
		} else {
			b.WriteString(ui.ItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderConfirm lists the files the selected backup brings back
func (d *RestoreDialog) renderConfirm() string {
	var b strings.Builder

	s := d.Selected()
	b.WriteString(ui.MutedStyle.Render(fmt.Sprintf("Restore %d files from %s?", len(s.Files), s.Name)))
	b.WriteString("\n")
	b.WriteString(ui.MutedStyle.Render("Current versions are moved to a new backup first."))
	b.WriteString("\n\n")

	visibleHeight := max(1, d.Height-12)
	startIdx := 0
	if d.FileCursor >= visibleHeight {
		startIdx = d.FileCursor - visibleHeight + 1
	}
	endIdx := min(startIdx+visibleHeight, len(s.Files))

	for i := startIdx; i < endIdx; i++ {
		b.WriteString(ui.ItemStyle.Render("  " + s.Files[i]))
		b.WriteString("\n")
	}

	return b.String()
}

// renderHelp renders the help bar
func (d *RestoreDialog) renderHelp() string {
	items := []string{ui.RenderHelpItem("Up/Down", "navigate")}

	if d.Step == StepConfirm {
		items = append(items, ui.RenderHelpItem("Enter", "restore"))
		items = append(items, ui.RenderHelpItem("Backspace", "back"))
	} else {
		items = append(items, ui.RenderHelpItem("Enter", "select"))
	}

	items = append(items, ui.RenderHelpItem("Esc", "cancel"))

	return strings.Join(items, "  ")
}

// formatTimeAgo formats a time relative to now
func formatTimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}

	duration := now.Sub(t)

	if duration < time.Minute {
		return "just now"
	} else if duration < time.Hour {
		mins := int(duration.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	} else if duration < 24*time.Hour {
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}

	days := int(duration.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
