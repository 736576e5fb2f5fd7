package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds the installer configuration
type Config struct {
	SourceDir   string `json:"source_dir"`   // Directory holding the scripts to install
	ScriptsDir  string `json:"scripts_dir"`  // File manager scripts directory
	AppDir      string `json:"app_dir"`      // Desktop launcher directory
	BinDir      string `json:"bin_dir"`      // User-local bin directory
	FileManager string `json:"file_manager"` // File manager restarted after install
	Notify      bool   `json:"notify"`       // Send a desktop notification when done
	Editor      string `json:"editor"`       // "auto", "env", "code", "cursor" or "zed"
	FirstRun    bool   `json:"-"`            // Is this the first run?
}

// configFileName is the name of the config file
const configFileName = "toolsuite.json"

// backupPrefix is the name prefix of backup directories inside ScriptsDir
const backupPrefix = "Backup_"

// backupTimeLayout encodes the run timestamp in backup directory names
const backupTimeLayout = "20060102_150405"

// Default returns the default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		SourceDir:   DefaultSourceDir(),
		ScriptsDir:  filepath.Join(homeDir, ".local", "share", "nautilus", "scripts"),
		AppDir:      filepath.Join(homeDir, ".local", "share", "applications"),
		BinDir:      filepath.Join(homeDir, ".local", "bin"),
		FileManager: "nautilus",
		Notify:      false,
		Editor:      "auto",
		FirstRun:    true,
	}
}

// DefaultSourceDir returns the "scripts" directory next to the running
// executable, or ./scripts when the executable path cannot be resolved.
func DefaultSourceDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "scripts"
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), "scripts")
}

// ConfigDir returns the directory containing toolsuite config files
func ConfigDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "toolsuite")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(ConfigDir(), configFileName)
}

// Load loads the configuration from the default location
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads the configuration from path. Empty fields fall back to the
// defaults so a partial file is still usable.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// First run - return default config
			cfg := Default()
			cfg.FirstRun = true
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.fillDefaults()
	cfg.FirstRun = false
	return &cfg, nil
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.SourceDir == "" {
		c.SourceDir = def.SourceDir
	}
	if c.ScriptsDir == "" {
		c.ScriptsDir = def.ScriptsDir
	}
	if c.AppDir == "" {
		c.AppDir = def.AppDir
	}
	if c.BinDir == "" {
		c.BinDir = def.BinDir
	}
	if c.FileManager == "" {
		c.FileManager = def.FileManager
	}
	if c.Editor == "" {
		c.Editor = def.Editor
	}
}

// Save saves the configuration to the default location
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo saves the configuration to path
func (c *Config) SaveTo(path string) error {
	// Create config directory
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// InstallDirs returns the three destination directories in creation order
func (c *Config) InstallDirs() []string {
	return []string{
		c.ScriptsDir,
		c.AppDir,
		c.BinDir,
	}
}

// EnsureDirectories creates the destination directories
func (c *Config) EnsureDirectories() error {
	for _, dir := range c.InstallDirs() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}

// ScriptPath returns the installed path of a script
func (c *Config) ScriptPath(name string) string {
	return filepath.Join(c.ScriptsDir, name)
}

// SourcePath returns the source path of a script
func (c *Config) SourcePath(name string) string {
	return filepath.Join(c.SourceDir, name)
}

// SourceExists checks if the source directory exists
func (c *Config) SourceExists() bool {
	info, err := os.Stat(c.SourceDir)
	return err == nil && info.IsDir()
}

// BackupDirName returns the backup directory name for a run started at t
func BackupDirName(t time.Time) string {
	return backupPrefix + t.Format(backupTimeLayout)
}

// ParseBackupDirName extracts the run timestamp from a backup directory name.
// A numeric collision suffix ("_1", "_2") is accepted and ignored.
func ParseBackupDirName(name string) (time.Time, bool) {
	if len(name) < len(backupPrefix)+len(backupTimeLayout) || name[:len(backupPrefix)] != backupPrefix {
		return time.Time{}, false
	}
	stamp := name[len(backupPrefix) : len(backupPrefix)+len(backupTimeLayout)]
	rest := name[len(backupPrefix)+len(backupTimeLayout):]
	if rest != "" {
		if rest[0] != '_' {
			return time.Time{}, false
		}
		n, err := strconv.Atoi(rest[1:])
		if err != nil || n < 1 || strconv.Itoa(n) != rest[1:] {
			return time.Time{}, false
		}
	}
	t, err := time.ParseInLocation(backupTimeLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
