package skill

import (
	"context"
	"fmt"

	"github.com/incurian/nexus3/internal/clipboard"
	"github.com/incurian/nexus3/internal/nexuserr"
	"github.com/incurian/nexus3/internal/pathsec"
)

// Skill is the polymorphic capability every builtin exposes to the registry
// and, through it, to an agent host: a name, a description, a JSON-schema
// parameter shape, and an executor. Grounded in the duck-typed
// name/description/parameters/execute contract of
// original_source/nexus3/skill/base.py's BaseSkill, expressed as a Go
// interface rather than an abstract base class.
type Skill interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Execute(ctx context.Context, args Args) Result
}

// PermissionLevel gates the filtered-command skill (spec.md §4.11) and, via
// Services.Permission, shares the same three-state vocabulary as
// clipboard.Permissions presets rather than inventing a second taxonomy.
type PermissionLevel string

const (
	LevelSandboxed PermissionLevel = "sandboxed"
	LevelTrusted   PermissionLevel = "trusted"
	LevelYolo      PermissionLevel = "yolo"
)

// Services is the concretely-typed dependency set threaded into every
// builtin factory. original_source/nexus3/skill/services.py uses a
// stringly-keyed service locator (get/require/register by name); this port
// deliberately trades that flexibility for compile-time-checked fields,
// since the full set of services this core ever wires (a clipboard manager,
// a path policy, a permission level) is fixed and known.
type Services struct {
	Clipboard  *clipboard.Manager
	PathPolicy *pathsec.Engine
	Permission PermissionLevel
}

// Factory lazily builds a Skill from Services, matching the registry's
// factory-based registration (original_source/nexus3/skill/registry.py)
// instead of eagerly constructing every builtin at startup.
type Factory func(*Services) Skill

// ResolvePath runs path through svc's PathPolicy and converts a denied
// Decision into the nexuserr taxonomy: a missing-required-to-exist path
// becomes ErrNotFound, every other denial becomes ErrPathDenied. Every
// file-touching skill calls this before doing any I/O (the composition-based
// analogue of FileSkill._validate_path).
func ResolvePath(svc *Services, path string, mustExist, mustBeDir bool) (string, error) {
	if svc.PathPolicy == nil {
		return path, nil
	}
	d := svc.PathPolicy.CheckAccess(path, mustExist, mustBeDir)
	if !d.Allowed {
		if d.Reason == pathsec.ReasonPathNotFound {
			return "", fmt.Errorf("%w: %s", nexuserr.ErrNotFound, d.ReasonDetail)
		}
		return "", fmt.Errorf("%w: %s: %s", nexuserr.ErrPathDenied, path, d.ReasonDetail)
	}
	return d.ResolvedPath, nil
}
