// Package manifest describes the optional launcher app shipped with the
// script suite. A suite.yaml next to the scripts can override the built-in
// Secure Beam definition.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the manifest file looked up in the source directory
const FileName = "suite.yaml"

// App is the launcher app installed alongside the scripts
type App struct {
	Script        string   `yaml:"script"`         // Source script that becomes the binary
	Binary        string   `yaml:"binary"`         // File name in the bin directory
	DesktopFile   string   `yaml:"desktop_file"`   // File name in the applications directory
	Name          string   `yaml:"name"`           // Launcher display name
	Comment       string   `yaml:"comment"`        // Launcher description
	Icon          string   `yaml:"icon"`           // Icon theme name
	Categories    []string `yaml:"categories"`     // Menu categories
	MimeTypes     []string `yaml:"mime_types"`     // Associated MIME types
	StartupNotify bool     `yaml:"startup_notify"` // Desktop startup notification
	Label         string   `yaml:"label"`          // Toggle label in the installer
	Description   string   `yaml:"description"`    // Toggle subtitle in the installer
}

// Suite is the root YAML structure
type Suite struct {
	Title string `yaml:"title"`
	App   *App   `yaml:"app"`
}

// DefaultTitle is the installer title when the manifest does not set one
const DefaultTitle = "Tool Suite Installer"

// Default returns the built-in Secure Beam app definition
func Default() *App {
	return &App{
		Script:        "Send over Local Network (QR)",
		Binary:        "secure-beam",
		DesktopFile:   "secure-beam.desktop",
		Name:          "Send over Local Network",
		Comment:       "Secure, Encrypted Local File Transfer",
		Icon:          "network-wireless-hotspot",
		Categories:    []string{"Network", "Utility", "FileTransfer"},
		MimeTypes:     []string{"application/octet-stream"},
		StartupNotify: true,
		Label:         "Secure Beam App",
		Description:   "Add 'Send over Local Network' to App Grid and Dock",
	}
}

// DefaultSuite returns the built-in suite
func DefaultSuite() *Suite {
	return &Suite{Title: DefaultTitle, App: Default()}
}

// Load reads <sourceDir>/suite.yaml. A missing file or a missing app block
// yields the built-in definitions. Within an app block only desktop_file,
// name, icon and label are derived when unset. The other fields keep their
// zero values, so startup_notify is false and empty comment, categories and
// mime_types leave their lines out of the desktop entry.
func Load(sourceDir string) (*Suite, error) {
	path := filepath.Join(sourceDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSuite(), nil
		}
		return nil, err
	}

	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	suite.Title = strings.TrimSpace(suite.Title)
	if suite.Title == "" {
		suite.Title = DefaultTitle
	}

	if suite.App == nil {
		suite.App = Default()
		return &suite, nil
	}

	app, err := sanitize(*suite.App)
	if err != nil {
		return nil, fmt.Errorf("invalid app in %s: %w", path, err)
	}
	suite.App = &app

	return &suite, nil
}

func sanitize(app App) (App, error) {
	def := Default()

	app.Script = strings.TrimSpace(app.Script)
	app.Binary = strings.TrimSpace(app.Binary)
	app.DesktopFile = strings.TrimSpace(app.DesktopFile)
	app.Name = strings.TrimSpace(app.Name)
	app.Comment = strings.TrimSpace(app.Comment)
	app.Icon = strings.TrimSpace(app.Icon)

	if app.Script == "" {
		return app, fmt.Errorf("script is required")
	}
	if app.Binary == "" {
		return app, fmt.Errorf("binary is required")
	}
	if strings.ContainsRune(app.Binary, '/') || strings.ContainsRune(app.Script, '/') {
		return app, fmt.Errorf("script and binary must be plain file names")
	}
	if app.DesktopFile == "" {
		app.DesktopFile = app.Binary + ".desktop"
	}
	if !strings.HasSuffix(app.DesktopFile, ".desktop") || strings.ContainsRune(app.DesktopFile, '/') {
		return app, fmt.Errorf("desktop_file must be a plain *.desktop file name")
	}
	if app.Name == "" {
		app.Name = app.Binary
	}
	if app.Icon == "" {
		app.Icon = def.Icon
	}
	if app.Label == "" {
		app.Label = app.Name
	}

	app.Categories = cleanList(app.Categories)
	app.MimeTypes = cleanList(app.MimeTypes)

	return app, nil
}

// cleanList trims entries, drops empty ones and strips trailing ';'
func cleanList(items []string) []string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.Trim(strings.TrimSpace(item), ";")
		if item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return cleaned
}
