package ui

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Highlighter provides syntax highlighting for scripts
type Highlighter struct {
	style *chroma.Style
}

// NewHighlighter creates a new syntax highlighter
func NewHighlighter() *Highlighter {
	return &Highlighter{
		style: styles.Get("catppuccin-mocha"),
	}
}

// interpreters maps shebang interpreters to chroma lexer names
var interpreters = map[string]string{
	"sh":     "bash",
	"bash":   "bash",
	"dash":   "bash",
	"ksh":    "bash",
	"zsh":    "bash",
	"fish":   "fish",
	"python": "python",
	"perl":   "perl",
	"ruby":   "ruby",
	"node":   "javascript",
	"lua":    "lua",
	"php":    "php",
}

// Interpreter returns the interpreter named by a "#!" line, without path or
// version suffix ("#!/usr/bin/env python3" -> "python")
func Interpreter(firstLine string) string {
	if !strings.HasPrefix(firstLine, "#!") {
		return ""
	}

	fields := strings.Fields(strings.TrimPrefix(firstLine, "#!"))
	if len(fields) == 0 {
		return ""
	}

	prog := filepath.Base(fields[0])
	if prog == "env" {
		prog = ""
		for _, f := range fields[1:] {
			// env options such as -S, and VAR=value assignments
			if strings.HasPrefix(f, "-") || strings.Contains(f, "=") {
				continue
			}
			prog = filepath.Base(f)
			break
		}
	}

	return strings.TrimRight(prog, "0123456789.")
}

// DetectLanguage returns the chroma lexer name for a script, or "" when
// nothing matches. The shebang wins over the file name because installed
// scripts usually have no extension.
func DetectLanguage(name, content string) string {
	firstLine, _, _ := strings.Cut(content, "\n")
	if lang, ok := interpreters[Interpreter(firstLine)]; ok {
		return lang
	}

	if lexer := lexers.Match(name); lexer != nil {
		return lexer.Config().Name
	}
	if lexer := lexers.Analyse(content); lexer != nil {
		return lexer.Config().Name
	}
	return ""
}

// ScriptType returns a human-readable language name for display
func ScriptType(lang string) string {
	if lang == "" {
		return "Text"
	}
	if lexer := lexers.Get(lang); lexer != nil {
		return lexer.Config().Name
	}
	return "Text"
}

// HighlightLine highlights a single line of code in the given language
func (h *Highlighter) HighlightLine(line, lang string) string {
	if lang == "" {
		return line
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return line
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	var result strings.Builder
	for token := iterator(); token != chroma.EOF; token = iterator() {
		style := h.style.Get(token.Type)
		// Tokenise appends a newline to the input
		text := strings.TrimSuffix(token.Value, "\n")

		if style.Colour.IsSet() && text != "" {
			color := style.Colour.String()
			styled := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			if style.Bold == chroma.Yes {
				styled = styled.Bold(true)
			}
			if style.Italic == chroma.Yes {
				styled = styled.Italic(true)
			}
			result.WriteString(styled.Render(text))
		} else {
			result.WriteString(text)
		}
	}

	return result.String()
}

// HighlightLines highlights multiple lines
func (h *Highlighter) HighlightLines(lines []string, lang string) []string {
	result := make([]string, len(lines))
	for i, line := range lines {
		result[i] = h.HighlightLine(line, lang)
	}
	return result
}
