package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default should return a Config")
	}
	if cfg.ScriptsDir == "" {
		t.Error("ScriptsDir should not be empty")
	}
	if filepath.Base(cfg.ScriptsDir) != "scripts" {
		t.Errorf("Expected scripts dir to end in 'scripts', got %s", cfg.ScriptsDir)
	}
	if filepath.Base(cfg.AppDir) != "applications" {
		t.Errorf("Expected app dir to end in 'applications', got %s", cfg.AppDir)
	}
	if filepath.Base(cfg.BinDir) != "bin" {
		t.Errorf("Expected bin dir to end in 'bin', got %s", cfg.BinDir)
	}
	if cfg.FileManager != "nautilus" {
		t.Errorf("Expected file manager 'nautilus', got %s", cfg.FileManager)
	}
	if cfg.Editor != "auto" {
		t.Errorf("Expected editor 'auto', got %s", cfg.Editor)
	}
	if !cfg.FirstRun {
		t.Error("FirstRun should be true by default")
	}
}

func TestConfigPath(t *testing.T) {
	path := ConfigPath()

	if path == "" {
		t.Error("ConfigPath should not be empty")
	}
	if !filepath.IsAbs(path) {
		t.Error("ConfigPath should return absolute path")
	}
	if filepath.Base(path) != "toolsuite.json" {
		t.Errorf("Expected config file name 'toolsuite.json', got %s", filepath.Base(path))
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadFrom should not fail for a missing file: %v", err)
	}
	if !cfg.FirstRun {
		t.Error("FirstRun should be true when no config file exists")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "toolsuite.json")

	cfg := &Config{
		SourceDir:   "/opt/suite/scripts",
		ScriptsDir:  "/tmp/scripts",
		AppDir:      "/tmp/apps",
		BinDir:      "/tmp/bin",
		FileManager: "nemo",
		Notify:      true,
	}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.FirstRun {
		t.Error("FirstRun should be false after loading a saved config")
	}
	if loaded.SourceDir != cfg.SourceDir || loaded.ScriptsDir != cfg.ScriptsDir {
		t.Errorf("Paths not preserved: %+v", loaded)
	}
	if loaded.FileManager != "nemo" || !loaded.Notify {
		t.Errorf("Options not preserved: %+v", loaded)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toolsuite.json")
	if err := os.WriteFile(path, []byte(`{"scripts_dir": "/tmp/only"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.ScriptsDir != "/tmp/only" {
		t.Errorf("Expected scripts dir /tmp/only, got %s", cfg.ScriptsDir)
	}
	if cfg.AppDir == "" || cfg.BinDir == "" || cfg.FileManager == "" || cfg.Editor == "" {
		t.Errorf("Missing fields should fall back to defaults: %+v", cfg)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toolsuite.json")
	os.WriteFile(path, []byte("{not json"), 0644)

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom should fail on invalid JSON")
	}
}

func TestEnsureDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{
		ScriptsDir: filepath.Join(tmpDir, "share", "nautilus", "scripts"),
		AppDir:     filepath.Join(tmpDir, "share", "applications"),
		BinDir:     filepath.Join(tmpDir, "bin"),
	}

	// Twice: must be idempotent
	for i := 0; i < 2; i++ {
		if err := cfg.EnsureDirectories(); err != nil {
			t.Fatalf("EnsureDirectories failed: %v", err)
		}
	}

	for _, dir := range cfg.InstallDirs() {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("Expected directory %s to exist", dir)
		}
	}
}

func TestScriptPath(t *testing.T) {
	cfg := &Config{
		ScriptsDir: "/home/user/.local/share/nautilus/scripts",
		SourceDir:  "/opt/suite/scripts",
	}

	if got := cfg.ScriptPath("a.sh"); got != "/home/user/.local/share/nautilus/scripts/a.sh" {
		t.Errorf("Unexpected script path %s", got)
	}
	if got := cfg.SourcePath("a.sh"); got != "/opt/suite/scripts/a.sh" {
		t.Errorf("Unexpected source path %s", got)
	}
}

func TestSourceExists(t *testing.T) {
	cfg := &Config{SourceDir: t.TempDir()}
	if !cfg.SourceExists() {
		t.Error("SourceExists should return true for existing directory")
	}

	cfg = &Config{SourceDir: "/nonexistent/path"}
	if cfg.SourceExists() {
		t.Error("SourceExists should return false for non-existing directory")
	}
}

func TestBackupDirName(t *testing.T) {
	stamp := time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local)

	name := BackupDirName(stamp)
	if name != "Backup_20250314_092653" {
		t.Errorf("Unexpected backup dir name %s", name)
	}

	parsed, ok := ParseBackupDirName(name)
	if !ok {
		t.Fatal("ParseBackupDirName should accept its own output")
	}
	if !parsed.Equal(stamp) {
		t.Errorf("Expected %v, got %v", stamp, parsed)
	}

	if _, ok := ParseBackupDirName(name + "_2"); !ok {
		t.Error("ParseBackupDirName should accept a collision suffix")
	}

	for _, bad := range []string{"", "Backup_", "backup_20250314_092653", "Backup_2025031x_092653", "Backup_20250314_092653x",
		"Backup_20250314_092653_old", "Backup_20250314_092653_", "Backup_20250314_092653_0", "Backup_20250314_092653_+1"} {
		if _, ok := ParseBackupDirName(bad); ok {
			t.Errorf("ParseBackupDirName(%q) should fail", bad)
		}
	}
}
