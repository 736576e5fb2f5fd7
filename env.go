package main

import (
	"errors"
	"fmt"

	"toolsuite/internal/config"
	"toolsuite/internal/install"
	"toolsuite/internal/manifest"
	"toolsuite/internal/models"
	"toolsuite/internal/scanner"
)

// env is everything a command needs: configuration, the launcher app
// definition and a way to build executors
type env struct {
	cfg   *config.Config
	suite *manifest.Suite

	// newExecutor builds the executor for one install run
	newExecutor func() *install.Executor
}

// loadEnv loads the config file (configPath or the default location) and
// the manifest of the source directory. A non-empty sourceDir overrides
// the configured one.
func loadEnv(configPath, sourceDir string) (*env, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if sourceDir != "" {
		cfg.SourceDir = sourceDir
	}
	debugLog("Config: source=%s scripts=%s apps=%s bin=%s", cfg.SourceDir, cfg.ScriptsDir, cfg.AppDir, cfg.BinDir)

	suite, err := manifest.Load(cfg.SourceDir)
	if err != nil {
		return nil, err
	}

	return newEnv(cfg, suite), nil
}

func newEnv(cfg *config.Config, suite *manifest.Suite) *env {
	e := &env{cfg: cfg, suite: suite}
	e.newExecutor = func() *install.Executor {
		return install.New(e.cfg, e.suite.App)
	}
	return e
}

// scan lists the installable scripts. A missing source directory is
// reported through notice and is not an error.
func (e *env) scan() (scripts []*models.ScriptEntry, notice string, err error) {
	scripts, err = scanner.New(e.cfg.SourceDir, e.cfg.ScriptsDir).Scan()
	if errors.Is(err, scanner.ErrSourceMissing) {
		return scripts, fmt.Sprintf("Error: %v", err), nil
	}
	return scripts, "", err
}

// hasAppScript reports whether the launcher app's script is in the inventory
func (e *env) hasAppScript(scripts []*models.ScriptEntry) bool {
	return models.FindEntry(scripts, e.suite.App.Script) != nil
}
