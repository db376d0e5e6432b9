// Package config loads nexus3's process configuration: an optional JSON
// override file read first, then environment variables prefixed NEXUS3_
// layered on top — the same file-then-env precedence as
// jra3-linear-fuse/internal/config.LoadWithEnv, with the env layer itself
// bound through github.com/caarlos0/env/v11 (the teacher's own config
// dependency) instead of a hand-rolled os.Getenv table.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/incurian/nexus3/internal/clipboard"
	"github.com/incurian/nexus3/internal/pathsec"
)

// Config is the full set of knobs a nexus3 process reads at startup.
type Config struct {
	AllowedPaths     []string `json:"allowed_paths" env:"ALLOWED_PATHS" envSeparator:","`
	BlockedPaths     []string `json:"blocked_paths" env:"BLOCKED_PATHS" envSeparator:","`
	PermissionPreset string   `json:"permission_preset" env:"PERMISSION_PRESET" envDefault:"sandboxed"`
	JanitorCron      string   `json:"janitor_cron" env:"JANITOR_CRON" envDefault:"*/15 * * * *"`
	LogFormat        string   `json:"log_format" env:"LOG_FORMAT" envDefault:"console"`
}

// Default returns a Config with every field at its documented default.
func Default() *Config {
	return &Config{
		PermissionPreset: "sandboxed",
		JanitorCron:      "*/15 * * * *",
		LogFormat:        "console",
	}
}

// DefaultPath returns ~/.nexus3/config.json, matching picoclaw's
// GetConfigPath idiom (one dotfile directory per tool, JSON body).
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".nexus3", "config.json")
}

// Load reads path (if present) as a JSON override of Default, then applies
// NEXUS3_-prefixed environment variables on top. A missing file is not an
// error — env vars and defaults alone are a valid configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "NEXUS3_"}); err != nil {
		return nil, fmt.Errorf("config: applying environment: %w", err)
	}

	return cfg, nil
}

// PathPolicy builds the pathsec.Engine configuration this Config describes.
// cwd is supplied by the caller (os.Getwd() in production, a fixed
// directory in tests) rather than resolved here.
func (c *Config) PathPolicy(cwd string) pathsec.Config {
	return pathsec.Config{
		AllowedPaths: c.AllowedPaths,
		BlockedPaths: c.BlockedPaths,
		Cwd:          cwd,
	}
}

// ClipboardPermissions resolves PermissionPreset through
// clipboard.ParsePermissionPreset.
func (c *Config) ClipboardPermissions() clipboard.Permissions {
	return clipboard.ParsePermissionPreset(c.PermissionPreset)
}
