package components

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"toolsuite/internal/diff"
	"toolsuite/internal/ui"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxPreviewSize is the largest file loaded into the preview
const maxPreviewSize = 1024 * 1024

// PreviewMode selects what the preview shows
type PreviewMode int

const (
	ModeSource PreviewMode = iota
	ModeDiff
)

// Preview displays a script with syntax highlighting, or the diff between
// the installed copy and the one about to replace it
type Preview struct {
	viewport    viewport.Model
	highlighter *ui.Highlighter

	Mode       PreviewMode
	FilePath   string
	FileName   string
	FileSize   int64
	Language   string
	TotalLines int
	Summary    string // Diff summary in ModeDiff

	// Dimensions
	Width  int
	Height int

	lineNumStyle lipgloss.Style
	headerStyle  lipgloss.Style
	infoStyle    lipgloss.Style
	borderStyle  lipgloss.Style
}

// NewPreview creates a new Preview with viewport
func NewPreview() *Preview {
	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return &Preview{
		viewport:    vp,
		highlighter: ui.NewHighlighter(),
		Width:       80,
		Height:      20,
		lineNumStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c7086")).
			Width(5).
			Align(lipgloss.Right),
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89b4fa")),
		infoStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c7086")),
		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#89b4fa")).
			Padding(0, 1),
	}
}

// SetSize updates the viewport dimensions
func (p *Preview) SetSize(width, height int) {
	p.Width = width
	p.Height = height

	// Account for header (3 lines) and border (2 lines)
	p.viewport.Width = max(20, width-4)
	p.viewport.Height = max(5, height-5)
}

// readScript reads a previewable text file
func readScript(path string) (string, os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", nil, err
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxPreviewSize {
		return "", info, fmt.Errorf("file is too large to preview (%s)", formatBytes(info.Size()))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	if isBinaryContent(data) {
		return "", info, fmt.Errorf("binary file, cannot preview")
	}
	return string(data), info, nil
}

// LoadSource shows the script at path with line numbers
func (p *Preview) LoadSource(path string) error {
	content, info, err := readScript(path)
	if err != nil {
		return err
	}

	lang := ui.DetectLanguage(filepath.Base(path), content)
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")

	var b strings.Builder
	for i, line := range lines {
		lineNum := p.lineNumStyle.Render(fmt.Sprintf("%d", i+1))
		b.WriteString(lineNum + " │ " + p.highlighter.HighlightLine(p.truncate(line), lang))
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}

	p.Mode = ModeSource
	p.FilePath = path
	p.FileName = filepath.Base(path)
	p.FileSize = info.Size()
	p.Language = ui.ScriptType(lang)
	p.TotalLines = len(lines)
	p.Summary = ""
	p.viewport.SetContent(b.String())
	p.viewport.GotoTop()

	return nil
}

// LoadDiff shows what installing sourcePath over installedPath changes
func (p *Preview) LoadDiff(installedPath, sourcePath string) error {
	content, info, err := readScript(sourcePath)
	if err != nil {
		return err
	}

	result, err := diff.Compute(installedPath, sourcePath)
	if err != nil {
		return err
	}

	var lines []string
	switch {
	case !result.OldExists:
		lines = []string{ui.MutedStyle.Render("Not installed yet. Every line is new.")}
	case result.Identical:
		lines = []string{ui.MutedStyle.Render("Installed copy is identical.")}
	}

	lang := ui.DetectLanguage(filepath.Base(sourcePath), content)
	for _, hunk := range result.Hunks {
		lines = append(lines, ui.DiffHunkStyle.Render(fmt.Sprintf("@@ -%d +%d @@", hunk.StartOld, hunk.StartNew)))
		for _, l := range hunk.Lines {
			text := p.truncate(l.Content)
			switch l.Type {
			case diff.Insert:
				lines = append(lines, ui.DiffAddStyle.Render("+ "+text))
			case diff.Delete:
				lines = append(lines, ui.DiffDeleteStyle.Render("- "+text))
			default:
				lines = append(lines, "  "+p.highlighter.HighlightLine(text, lang))
			}
		}
	}

	p.Mode = ModeDiff
	p.FilePath = sourcePath
	p.FileName = filepath.Base(sourcePath)
	p.FileSize = info.Size()
	p.Language = ui.ScriptType(lang)
	p.TotalLines = len(lines)
	p.Summary = result.Summary()
	p.viewport.SetContent(strings.Join(lines, "\n"))
	p.viewport.GotoTop()

	return nil
}

// truncate shortens lines wider than the viewport
func (p *Preview) truncate(line string) string {
	maxWidth := max(40, p.viewport.Width-10)
	runes := []rune(line)
	if len(runes) > maxWidth {
		return string(runes[:maxWidth-3]) + "..."
	}
	return line
}

// Update handles messages for viewport scrolling
func (p *Preview) Update(msg tea.Msg) (*Preview, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the preview
func (p *Preview) View() string {
	var b strings.Builder

	// Header
	title := p.FileName
	if p.Mode == ModeDiff {
		title = "Changes: " + p.FileName
	}
	info := fmt.Sprintf("  %s  %s  %d lines", p.Language, formatBytes(p.FileSize), p.TotalLines)
	if p.Summary != "" {
		info += "  " + p.Summary
	}
	b.WriteString(p.headerStyle.Render(title) + p.infoStyle.Render(info) + "\n")
	b.WriteString(p.infoStyle.Render(p.FilePath) + "\n")

	// Separator
	b.WriteString(ui.DividerStyle.Render(strings.Repeat("─", max(0, p.Width-4))) + "\n")

	b.WriteString(p.viewport.View())

	// Scroll indicator
	if p.TotalLines > p.viewport.Height {
		scrollInfo := fmt.Sprintf("─── %.0f%% ───", p.viewport.ScrollPercent()*100)
		b.WriteString("\n" + p.infoStyle.Render(scrollInfo))
	}

	return p.borderStyle.Width(p.Width).Height(p.Height).Render(b.String())
}

// ScrollUp scrolls up one line
func (p *Preview) ScrollUp() {
	p.viewport.LineUp(1)
}

// ScrollDown scrolls down one line
func (p *Preview) ScrollDown() {
	p.viewport.LineDown(1)
}

// PageUp scrolls up by a page
func (p *Preview) PageUp() {
	p.viewport.ViewUp()
}

// PageDown scrolls down by a page
func (p *Preview) PageDown() {
	p.viewport.ViewDown()
}

// GoToTop goes to the beginning
func (p *Preview) GoToTop() {
	p.viewport.GotoTop()
}

// GoToBottom goes to the end
func (p *Preview) GoToBottom() {
	p.viewport.GotoBottom()
}

// isBinaryContent checks if content appears to be binary
func isBinaryContent(data []byte) bool {
	// Check first 512 bytes for null bytes or high proportion of non-printable chars
	checkLen := min(512, len(data))
	if checkLen == 0 {
		return false
	}

	nonPrintable := 0
	for i := 0; i < checkLen; i++ {
		if data[i] == 0 {
			return true
		}
		if data[i] < 32 && data[i] != '\n' && data[i] != '\r' && data[i] != '\t' {
			nonPrintable++
		}
	}

	return float64(nonPrintable)/float64(checkLen) > 0.3
}

// formatBytes formats bytes to human readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
