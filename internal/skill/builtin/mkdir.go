package builtin

import (
	"context"
	"fmt"
	"os"

	"github.com/incurian/nexus3/internal/skill"
)

// MkdirSkill creates a directory, including parents, succeeding silently
// if it already exists. Grounded in original_source/.../mkdir.py.
type MkdirSkill struct{ svc *skill.Services }

func NewMkdirSkill(svc *skill.Services) skill.Skill { return &MkdirSkill{svc: svc} }

func (s *MkdirSkill) Name() string        { return "mkdir" }
func (s *MkdirSkill) Description() string { return "Create a directory (and parent directories if needed)" }
func (s *MkdirSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{"type": "string", "description": "Path of the directory to create"},
		},
		"required": []string{"path"},
	}
}

func (s *MkdirSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	path := args.String("path", "")
	if path == "" {
		return skill.Fail("Path is required")
	}
	resolved, err := skill.ResolvePath(s.svc, path, false, false)
	if err != nil {
		return skill.FailErr(err)
	}

	info, statErr := os.Stat(resolved)
	alreadyExists := statErr == nil
	if alreadyExists && !info.IsDir() {
		return skill.Fail(fmt.Sprintf("Path exists and is not a directory: %s", path))
	}

	if err := os.MkdirAll(resolved, 0o755); err != nil {
		return skill.Fail(fmt.Sprintf("OS error creating directory: %v", err))
	}

	if alreadyExists {
		return skill.OK(fmt.Sprintf("Directory already exists: %s", path))
	}
	return skill.OK(fmt.Sprintf("Created directory: %s", path))
}
