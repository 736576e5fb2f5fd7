package components

import (
	"fmt"
	"strings"

	"toolsuite/internal/models"
	"toolsuite/internal/ui"
)

// ScriptList is a list of toggleable scripts
type ScriptList struct {
	Scripts []*models.ScriptEntry
	Cursor  int
	Width   int
	Height  int
	Focused bool
	Title   string

	// Disabled ignores every toggle while an install is running
	Disabled bool
}

// NewScriptList creates a new script list
func NewScriptList(scripts []*models.ScriptEntry) *ScriptList {
	return &ScriptList{
		Scripts: scripts,
		Cursor:  0,
		Width:   60,
		Height:  15,
		Focused: true,
		Title:   "Select Scripts",
	}
}

// SetScripts replaces the scripts, keeping the selection of scripts that
// are still present and the cursor on the same name when possible
func (l *ScriptList) SetScripts(scripts []*models.ScriptEntry) {
	var current string
	if c := l.Current(); c != nil {
		current = c.Name
	}

	for _, s := range scripts {
		if old := models.FindEntry(l.Scripts, s.Name); old != nil {
			s.Selected = old.Selected
		}
	}
	l.Scripts = scripts

	l.Cursor = 0
	for i, s := range scripts {
		if s.Name == current {
			l.Cursor = i
			break
		}
	}
}

// MoveUp moves cursor up
func (l *ScriptList) MoveUp() {
	if l.Cursor > 0 {
		l.Cursor--
	}
}

// MoveDown moves cursor down
func (l *ScriptList) MoveDown() {
	if l.Cursor < len(l.Scripts)-1 {
		l.Cursor++
	}
}

// PageUp moves cursor up by a page
func (l *ScriptList) PageUp() {
	l.Cursor = max(0, l.Cursor-l.pageSize())
}

// PageDown moves cursor down by a page
func (l *ScriptList) PageDown() {
	l.Cursor = max(0, min(len(l.Scripts)-1, l.Cursor+l.pageSize()))
}

func (l *ScriptList) pageSize() int {
	pageSize := l.Height - 3
	if pageSize < 1 {
		pageSize = 10
	}
	return pageSize
}

// GoToFirst moves cursor to the first item
func (l *ScriptList) GoToFirst() {
	l.Cursor = 0
}

// GoToLast moves cursor to the last item
func (l *ScriptList) GoToLast() {
	if len(l.Scripts) > 0 {
		l.Cursor = len(l.Scripts) - 1
	}
}

// Toggle toggles selection of current item
func (l *ScriptList) Toggle() {
	if l.Disabled {
		return
	}
	if s := l.Current(); s != nil {
		s.ToggleSelected()
	}
}

// SelectAll selects all scripts
func (l *ScriptList) SelectAll() {
	l.setAll(true)
}

// DeselectAll deselects all scripts
func (l *ScriptList) DeselectAll() {
	l.setAll(false)
}

func (l *ScriptList) setAll(selected bool) {
	if l.Disabled {
		return
	}
	for _, s := range l.Scripts {
		s.Selected = selected
	}
}

// Current returns the script under the cursor
func (l *ScriptList) Current() *models.ScriptEntry {
	if len(l.Scripts) > 0 && l.Cursor < len(l.Scripts) {
		return l.Scripts[l.Cursor]
	}
	return nil
}

// SelectedNames returns the names of the selected scripts in list order
func (l *ScriptList) SelectedNames() []string {
	return models.SelectedNames(l.Scripts)
}

// View renders the script list
func (l *ScriptList) View() string {
	var b strings.Builder

	selectedCount := len(l.SelectedNames())
	title := l.Title
	if len(l.Scripts) > 0 {
		title = fmt.Sprintf("%s (%d/%d)", l.Title, selectedCount, len(l.Scripts))
	}
	b.WriteString(ui.PanelTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(ui.DividerStyle.Render(strings.Repeat("─", max(0, l.Width-2))))
	b.WriteString("\n")

	if len(l.Scripts) == 0 {
		b.WriteString(ui.MutedStyle.Render("  No scripts found"))
		return l.wrapInPanel(b.String())
	}

	// Calculate visible range
	visibleHeight := max(1, l.Height-3)
	startIdx := 0
	if l.Cursor >= visibleHeight {
		startIdx = l.Cursor - visibleHeight + 1
	}
	endIdx := min(startIdx+visibleHeight, len(l.Scripts))

	if startIdx > 0 {
		b.WriteString(ui.MutedStyle.Render("  ↑ more"))
		b.WriteString("\n")
	}

	for i := startIdx; i < endIdx; i++ {
		b.WriteString(l.renderItem(l.Scripts[i], i == l.Cursor))
		if i < endIdx-1 {
			b.WriteString("\n")
		}
	}

	if endIdx < len(l.Scripts) {
		b.WriteString("\n")
		b.WriteString(ui.MutedStyle.Render("  ↓ more"))
	}

	return l.wrapInPanel(b.String())
}

// renderItem renders a single script row: checkbox, name and status
func (l *ScriptList) renderItem(s *models.ScriptEntry, isCursor bool) string {
	checkbox := ui.RenderCheckbox(s.Selected)

	name := s.Name
	maxNameLen := max(10, l.Width-40)
	if len([]rune(name)) > maxNameLen {
		name = string([]rune(name)[:maxNameLen-3]) + "..."
	}

	status := ui.RenderStatus(s.AlreadyInstalled, s.StatusLabel())
	content := fmt.Sprintf("%s %-*s %s", checkbox, maxNameLen, name, status)

	if isCursor && l.Focused {
		return ui.SelectedItemStyle.Width(max(0, l.Width-4)).Render(content)
	}
	return ui.ItemStyle.Render(content)
}

// wrapInPanel wraps content in a panel border
func (l *ScriptList) wrapInPanel(content string) string {
	style := ui.PanelStyle
	if l.Focused && !l.Disabled {
		style = ui.ActivePanelStyle
	}
	return style.Width(l.Width).Height(l.Height).Render(content)
}
