package diff

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFiles(t *testing.T, oldContent, newContent string) (string, string) {
	t.Helper()
	tmpDir := t.TempDir()

	oldFile := filepath.Join(tmpDir, "installed.sh")
	newFile := filepath.Join(tmpDir, "source.sh")
	if oldContent != "" {
		if err := os.WriteFile(oldFile, []byte(oldContent), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(newFile, []byte(newContent), 0644); err != nil {
		t.Fatal(err)
	}
	return oldFile, newFile
}

func TestCompute(t *testing.T) {
	oldFile, newFile := writeFiles(t, "line1\nline2\nline3\n", "line1\nmodified\nline3\nline4\n")

	result, err := Compute(oldFile, newFile)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if result.Identical {
		t.Error("Files should not be identical")
	}
	if result.LinesAdded != 2 {
		t.Errorf("Expected 2 lines added, got %d", result.LinesAdded)
	}
	if result.LinesRemoved != 1 {
		t.Errorf("Expected 1 line removed, got %d", result.LinesRemoved)
	}
	if len(result.Hunks) != 1 {
		t.Fatalf("Expected 1 hunk, got %d", len(result.Hunks))
	}
	if result.Hunks[0].StartOld != 1 || result.Hunks[0].StartNew != 1 {
		t.Errorf("Unexpected hunk start %d/%d", result.Hunks[0].StartOld, result.Hunks[0].StartNew)
	}
}

func TestCompute_Identical(t *testing.T) {
	content := "#!/bin/sh\necho same\n"
	oldFile, newFile := writeFiles(t, content, content)

	result, err := Compute(oldFile, newFile)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if !result.Identical {
		t.Error("Files should be identical")
	}
	if result.HasChanges() {
		t.Error("HasChanges should be false for identical files")
	}
	if len(result.Hunks) != 0 {
		t.Errorf("Expected no hunks, got %d", len(result.Hunks))
	}
	if result.Summary() != "No changes" {
		t.Errorf("Unexpected summary %q", result.Summary())
	}
}

func TestCompute_NotInstalled(t *testing.T) {
	oldFile, newFile := writeFiles(t, "", "a\nb\nc\n")

	result, err := Compute(oldFile, newFile)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if result.OldExists {
		t.Error("OldExists should be false")
	}
	if result.LinesAdded != 3 {
		t.Errorf("Expected 3 lines added, got %d", result.LinesAdded)
	}
	if result.Summary() != "New file" {
		t.Errorf("Unexpected summary %q", result.Summary())
	}
}

func TestCompute_MissingSource(t *testing.T) {
	if _, err := Compute("/nonexistent/old", "/nonexistent/new"); err == nil {
		t.Error("Compute should fail when the new file is missing")
	}
}

func TestCompute_SeparateHunks(t *testing.T) {
	var oldLines, newLines []string
	for i := 1; i <= 20; i++ {
		line := "line" + string(rune('a'+i))
		oldLines = append(oldLines, line)
		switch i {
		case 2:
			newLines = append(newLines, "changed-top")
		case 18:
			newLines = append(newLines, "changed-bottom")
		default:
			newLines = append(newLines, line)
		}
	}
	oldFile, newFile := writeFiles(t, strings.Join(oldLines, "\n")+"\n", strings.Join(newLines, "\n")+"\n")

	result, err := Compute(oldFile, newFile)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if len(result.Hunks) != 2 {
		t.Fatalf("Expected 2 hunks, got %d", len(result.Hunks))
	}
	if result.Hunks[1].StartOld != 15 {
		t.Errorf("Second hunk should start at old line 15, got %d", result.Hunks[1].StartOld)
	}
	// 3 context lines before, the change pair, 2 lines after (file ends)
	if got := len(result.Hunks[1].Lines); got != 7 {
		t.Errorf("Expected 7 lines in second hunk, got %d", got)
	}
}

func TestLines_Numbers(t *testing.T) {
	lines := Lines("a\nb\n", "a\nc\n")

	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	if lines[0].Type != Equal || lines[0].OldNum != 1 || lines[0].NewNum != 1 {
		t.Errorf("Unexpected first line %+v", lines[0])
	}
	if lines[1].Type != Delete || lines[1].OldNum != 2 || lines[1].NewNum != 0 {
		t.Errorf("Unexpected delete line %+v", lines[1])
	}
	if lines[2].Type != Insert || lines[2].NewNum != 2 || lines[2].OldNum != 0 {
		t.Errorf("Unexpected insert line %+v", lines[2])
	}
}

func TestFormatUnified(t *testing.T) {
	oldFile, newFile := writeFiles(t, "a\nb\n", "a\nc\n")

	result, err := Compute(oldFile, newFile)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	output := FormatUnified(result)
	expected := "--- " + oldFile + "\n+++ " + newFile + "\n@@ -1,2 +1,2 @@\n a\n-b\n+c\n"
	if output != expected {
		t.Errorf("Unexpected unified diff:\n%s\nwant:\n%s", output, expected)
	}
}

func TestFormatUnified_Empty(t *testing.T) {
	result := &Result{OldPath: "old", NewPath: "new", Identical: true}

	output := FormatUnified(result)
	if output != "--- old\n+++ new\n" {
		t.Errorf("Identical result should only have headers, got %q", output)
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		result   Result
		expected string
	}{
		{Result{OldExists: true, LinesAdded: 5, LinesRemoved: 3}, "+5 -3"},
		{Result{OldExists: true, LinesAdded: 5}, "+5"},
		{Result{OldExists: true, LinesRemoved: 3}, "-3"},
	}

	for _, tt := range tests {
		if got := tt.result.Summary(); got != tt.expected {
			t.Errorf("Summary() = %q, want %q", got, tt.expected)
		}
	}
}
