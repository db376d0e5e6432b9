package pathsec

import (
	"os"
	"path/filepath"
	"strings"
)

// Config is the per-invocation policy consulted by CheckAccess/CheckCwd.
//
// AllowedPaths: nil means unrestricted, an empty (non-nil) slice means deny
// all, and a populated slice allows descendants of any listed directory.
type Config struct {
	AllowedPaths []string
	BlockedPaths []string
	Cwd          string
}

// Engine evaluates path-access decisions against a fixed Config.
type Engine struct {
	cfg Config
}

// NewEngine builds an Engine from cfg. Entries of AllowedPaths/BlockedPaths
// are used as given; resolution (symlink-following, tilde-expansion) happens
// per check, not at construction time, so changes on disk are observed.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Cwd returns the engine's configured working directory.
func (e *Engine) Cwd() string { return e.cfg.Cwd }

// CheckAccess implements spec.md §4.2's six-step algorithm.
func (e *Engine) CheckAccess(path string, mustExist, mustBeDir bool) Decision {
	expanded, err := expandUser(path)
	if err != nil {
		return denied(path, ReasonResolutionFailed, err.Error(), nil)
	}
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(e.cfg.Cwd, expanded)
	}

	resolved, err := resolveSymlinks(expanded)
	if err != nil {
		return denied(path, ReasonResolutionFailed, err.Error(), nil)
	}

	for _, blocked := range e.cfg.BlockedPaths {
		resolvedBlocked, err := resolveSymlinks(mustExpand(blocked))
		if err != nil {
			// Defensive: a rule that can't be resolved is skipped, not fatal.
			continue
		}
		if isDescendant(resolved, resolvedBlocked) {
			return denied(path, ReasonBlocked, "path is under a blocked directory", strp(blocked))
		}
	}

	restricted := e.cfg.AllowedPaths != nil
	var matchedAllow *string
	if restricted {
		if len(e.cfg.AllowedPaths) == 0 {
			return denied(path, ReasonNoAllowedPaths, "no allowed paths configured", nil)
		}
		found := false
		for _, allow := range e.cfg.AllowedPaths {
			resolvedAllow, err := resolveSymlinks(mustExpand(allow))
			if err != nil {
				continue
			}
			if isDescendant(resolved, resolvedAllow) {
				found = true
				matchedAllow = strp(allow)
				break
			}
		}
		if !found {
			return denied(path, ReasonOutsideAllowed, "path is outside all allowed directories", nil)
		}
	}

	if mustExist || mustBeDir {
		info, statErr := os.Stat(resolved)
		if mustExist && statErr != nil {
			return denied(path, ReasonPathNotFound, "path does not exist", matchedAllow)
		}
		if mustBeDir && statErr == nil && !info.IsDir() {
			return denied(path, ReasonNotADirectory, "path exists but is not a directory", matchedAllow)
		}
	}

	if restricted {
		return allowed(path, resolved, ReasonWithinAllowed, "within an allowed directory", matchedAllow)
	}
	return allowed(path, resolved, ReasonUnrestricted, "no allow-list configured", nil)
}

// CheckCwd is CheckAccess(path, mustExist=true, mustBeDir=true), except that
// an empty path returns a success Decision bearing the engine's own Cwd.
func (e *Engine) CheckCwd(path string) Decision {
	if path == "" {
		return allowed(path, e.cfg.Cwd, ReasonCwdDefault, "defaulted to engine cwd", nil)
	}
	return e.CheckAccess(path, true, true)
}

func mustExpand(path string) string {
	expanded, err := expandUser(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandUser(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// resolveSymlinks canonicalizes path: it cleans "."/".." components and
// follows symlinks via filepath.EvalSymlinks. If the path (or some prefix of
// it) doesn't exist yet, EvalSymlinks resolves as much of the existing prefix
// as it can and the rest is taken literally — this lets callers check access
// for a not-yet-created file while still catching symlink escapes in the
// directories that do exist.
func resolveSymlinks(path string) (string, error) {
	clean := filepath.Clean(path)
	resolved, err := filepath.EvalSymlinks(clean)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}
	parent := filepath.Dir(clean)
	if parent == clean {
		return clean, nil
	}
	resolvedParent, err := resolveSymlinks(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(clean)), nil
}

// isDescendant reports whether target is root or a descendant of root, after
// both have already been resolved by the caller.
func isDescendant(target, root string) bool {
	if target == root {
		return true
	}
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
