package models

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// ============ ScriptEntry Tests ============

func TestNewScriptEntry(t *testing.T) {
	tempDir := t.TempDir()
	tempFile := filepath.Join(tempDir, "Open Terminal Here")
	content := []byte("#!/bin/sh\necho hi\n")
	if err := os.WriteFile(tempFile, content, 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	entry, err := NewScriptEntry(tempFile)
	if err != nil {
		t.Fatalf("NewScriptEntry failed: %v", err)
	}

	if entry.Name != "Open Terminal Here" {
		t.Errorf("Expected name 'Open Terminal Here', got %s", entry.Name)
	}
	if entry.SourcePath != tempFile {
		t.Errorf("Expected path %s, got %s", tempFile, entry.SourcePath)
	}
	if entry.Size != int64(len(content)) {
		t.Errorf("Expected size %d, got %d", len(content), entry.Size)
	}
	if !entry.Selected {
		t.Error("Expected Selected to be true by default")
	}
	if entry.AlreadyInstalled {
		t.Error("Expected AlreadyInstalled to be false by default")
	}
}

func TestNewScriptEntry_NonExistent(t *testing.T) {
	if _, err := NewScriptEntry("/nonexistent/path/script"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestScriptEntryToggleSelected(t *testing.T) {
	entry := &ScriptEntry{Selected: false}

	entry.ToggleSelected()
	if !entry.Selected {
		t.Error("Expected Selected to be true after toggle")
	}

	entry.ToggleSelected()
	if entry.Selected {
		t.Error("Expected Selected to be false after second toggle")
	}
}

func TestStatusLabel(t *testing.T) {
	if got := (&ScriptEntry{}).StatusLabel(); got != "New" {
		t.Errorf("Expected 'New', got %s", got)
	}
	if got := (&ScriptEntry{AlreadyInstalled: true}).StatusLabel(); got != "Update (Already installed)" {
		t.Errorf("Unexpected update label %s", got)
	}
}

func TestSizeHuman(t *testing.T) {
	tests := []struct {
		size     int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1.0 MB"},
	}

	for _, tt := range tests {
		entry := &ScriptEntry{Size: tt.size}
		if got := entry.SizeHuman(); got != tt.expected {
			t.Errorf("SizeHuman(%d) = %s, want %s", tt.size, got, tt.expected)
		}
	}
}

func TestSelectedNames(t *testing.T) {
	entries := []*ScriptEntry{
		{Name: "a.sh", Selected: true},
		{Name: "b.sh", Selected: false},
		{Name: "c.sh", Selected: true},
	}

	got := SelectedNames(entries)
	if !reflect.DeepEqual(got, []string{"a.sh", "c.sh"}) {
		t.Errorf("Unexpected selection %v", got)
	}

	if FindEntry(entries, "b.sh") != entries[1] {
		t.Error("FindEntry should return the matching entry")
	}
	if FindEntry(entries, "missing") != nil {
		t.Error("FindEntry should return nil for unknown names")
	}
}

// ============ Install Tests ============

func TestNewInstallRequest(t *testing.T) {
	req := NewInstallRequest([]string{"a.sh", "", "b.sh", "a.sh"}, true)

	if !reflect.DeepEqual(req.Scripts, []string{"a.sh", "b.sh"}) {
		t.Errorf("Duplicates and empty names should be dropped, got %v", req.Scripts)
	}
	if !req.InstallApp {
		t.Error("InstallApp should be preserved")
	}
	if !req.Has("b.sh") || req.Has("c.sh") {
		t.Error("Has returned wrong membership")
	}
}

func TestInstallOutcome(t *testing.T) {
	ok := InstallOutcome{Installed: 2}
	if ok.Failed() {
		t.Error("Outcome without error should not be failed")
	}
	if ok.Message() != "" {
		t.Errorf("Expected empty message, got %q", ok.Message())
	}

	failed := InstallOutcome{Err: errors.New("permission denied")}
	if !failed.Failed() {
		t.Error("Outcome with error should be failed")
	}
	if failed.Message() != "permission denied" {
		t.Errorf("Message should be the raw error text, got %q", failed.Message())
	}
}
