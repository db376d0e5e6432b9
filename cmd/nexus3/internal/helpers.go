// Package internal holds shared helpers for the nexus3 command tree,
// grounded in cmd/picoclaw/internal/helpers.go's config-path/version idiom.
package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/incurian/nexus3/internal/clipboard"
	"github.com/incurian/nexus3/internal/config"
	"github.com/incurian/nexus3/internal/pathsec"
	"github.com/incurian/nexus3/internal/skill"
	"github.com/incurian/nexus3/internal/skill/builtin"
)

const Logo = "🧷"

var (
	version   = "dev"
	gitCommit string
	buildTime string
	goVersion string
)

// GetConfigPath returns the default config file location, ~/.nexus3/config.json.
func GetConfigPath() string {
	return config.DefaultPath()
}

// LoadConfig loads the config file at GetConfigPath(), overlaid with
// NEXUS3_-prefixed environment variables.
func LoadConfig() (*config.Config, error) {
	return config.Load(GetConfigPath())
}

// BuildRegistry wires a Config into a running Services/Registry pair: a
// clipboard.Manager scoped to the current working directory and user home,
// a pathsec.Engine built from the config's allow/deny lists, and every
// builtin skill registered under its name.
func BuildRegistry(cfg *config.Config, agentID string) (*skill.Registry, *clipboard.Manager, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("resolving working directory: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, fmt.Errorf("resolving home directory: %w", err)
	}

	mgr := clipboard.NewManager(agentID, cwd, home, cfg.ClipboardPermissions())
	engine := pathsec.NewEngine(cfg.PathPolicy(cwd))

	// Same preset vocabulary as clipboard.ParsePermissionPreset: "worker"
	// and any unrecognized name resolve to sandboxed.
	level := skill.LevelSandboxed
	switch cfg.PermissionPreset {
	case "yolo":
		level = skill.LevelYolo
	case "trusted":
		level = skill.LevelTrusted
	}
	svc := &skill.Services{Clipboard: mgr, PathPolicy: engine, Permission: level}

	registry := skill.NewRegistry(svc)
	builtin.RegisterAll(registry)

	return registry, mgr, nil
}

// FormatVersion returns the version string with optional git commit.
func FormatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

// FormatBuildInfo returns build time and go version info.
func FormatBuildInfo() (string, string) {
	build := buildTime
	goVer := goVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	return build, goVer
}

// GetVersion returns the bare version string.
func GetVersion() string { return version }

// DefaultWorkspace returns the directory nexus3 treats as "home" for
// relative dotfiles when no other path is given.
func DefaultWorkspace() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".nexus3")
}
