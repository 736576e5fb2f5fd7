// Package diff compares an installed script with the version about to
// replace it.
package diff

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is the number of unchanged lines kept around each change
const contextLines = 3

// LineType represents the type of diff operation
type LineType int

const (
	Equal LineType = iota
	Insert
	Delete
)

// Line represents a single line in the diff
type Line struct {
	Type    LineType
	Content string
	OldNum  int // Line number in the installed file, 0 for inserts
	NewNum  int // Line number in the new file, 0 for deletes
}

// Hunk represents a group of changes with surrounding context
type Hunk struct {
	StartOld int
	StartNew int
	Lines    []Line
}

// Result contains the complete diff between two files
type Result struct {
	OldPath      string
	NewPath      string
	OldExists    bool
	Identical    bool
	Hunks        []Hunk
	LinesAdded   int
	LinesRemoved int
}

// Compute diffs the installed file oldPath against newPath. A missing
// oldPath diffs as empty so every new line shows as added.
func Compute(oldPath, newPath string) (*Result, error) {
	newContent, err := os.ReadFile(newPath)
	if err != nil {
		return nil, err
	}

	result := &Result{
		OldPath: oldPath,
		NewPath: newPath,
	}

	oldContent, err := os.ReadFile(oldPath)
	switch {
	case err == nil:
		result.OldExists = true
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	lines := Lines(string(oldContent), string(newContent))
	for _, l := range lines {
		switch l.Type {
		case Insert:
			result.LinesAdded++
		case Delete:
			result.LinesRemoved++
		}
	}

	result.Identical = result.OldExists && result.LinesAdded == 0 && result.LinesRemoved == 0
	result.Hunks = groupHunks(lines)
	return result, nil
}

// Lines returns the line-level diff of two texts
func Lines(oldText, newText string) []Line {
	dmp := diffmatchpatch.New()

	// Line mode: each line becomes a single rune
	chars1, chars2, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var lines []Line
	oldNum, newNum := 1, 1
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		for _, content := range splitLines(d.Text) {
			line := Line{Content: content}
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				line.Type = Equal
				line.OldNum, line.NewNum = oldNum, newNum
				oldNum++
				newNum++
			case diffmatchpatch.DiffDelete:
				line.Type = Delete
				line.OldNum = oldNum
				oldNum++
			case diffmatchpatch.DiffInsert:
				line.Type = Insert
				line.NewNum = newNum
				newNum++
			}
			lines = append(lines, line)
		}
	}
	return lines
}

// splitLines splits text into lines without a trailing empty element
func splitLines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// groupHunks keeps changed lines plus contextLines of context on each side,
// merging changes whose context overlaps
func groupHunks(lines []Line) []Hunk {
	keep := make([]bool, len(lines))
	for i, l := range lines {
		if l.Type == Equal {
			continue
		}
		for j := max(0, i-contextLines); j <= min(len(lines)-1, i+contextLines); j++ {
			keep[j] = true
		}
	}

	var hunks []Hunk
	var current *Hunk
	for i, l := range lines {
		if !keep[i] {
			if current != nil {
				hunks = append(hunks, *current)
				current = nil
			}
			continue
		}
		if current == nil {
			current = &Hunk{StartOld: startNum(lines, i, true), StartNew: startNum(lines, i, false)}
		}
		current.Lines = append(current.Lines, l)
	}
	if current != nil {
		hunks = append(hunks, *current)
	}
	return hunks
}

// startNum finds the first old (or new) line number at or after index i
func startNum(lines []Line, i int, old bool) int {
	for ; i < len(lines); i++ {
		n := lines[i].NewNum
		if old {
			n = lines[i].OldNum
		}
		if n > 0 {
			return n
		}
	}
	return 0
}

// FormatUnified formats the result as a unified diff
func FormatUnified(result *Result) string {
	var sb strings.Builder

	sb.WriteString("--- " + result.OldPath + "\n")
	sb.WriteString("+++ " + result.NewPath + "\n")

	for _, hunk := range result.Hunks {
		oldCount, newCount := 0, 0
		for _, l := range hunk.Lines {
			if l.Type != Insert {
				oldCount++
			}
			if l.Type != Delete {
				newCount++
			}
		}
		sb.WriteString(fmt.Sprintf("@@ -%d,%d +%d,%d @@\n", hunk.StartOld, oldCount, hunk.StartNew, newCount))

		for _, line := range hunk.Lines {
			switch line.Type {
			case Equal:
				sb.WriteString(" " + line.Content + "\n")
			case Insert:
				sb.WriteString("+" + line.Content + "\n")
			case Delete:
				sb.WriteString("-" + line.Content + "\n")
			}
		}
	}

	return sb.String()
}

// HasChanges returns true if there are any changes
func (r *Result) HasChanges() bool {
	return !r.Identical
}

// Summary returns a brief summary of changes
func (r *Result) Summary() string {
	if r.Identical {
		return "No changes"
	}
	if !r.OldExists {
		return "New file"
	}

	var parts []string
	if r.LinesAdded > 0 {
		parts = append(parts, "+"+strconv.Itoa(r.LinesAdded))
	}
	if r.LinesRemoved > 0 {
		parts = append(parts, "-"+strconv.Itoa(r.LinesRemoved))
	}
	return strings.Join(parts, " ")
}
