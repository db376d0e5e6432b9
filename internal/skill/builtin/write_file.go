package builtin

import (
	"context"
	"fmt"

	"github.com/incurian/nexus3/internal/secio"
	"github.com/incurian/nexus3/internal/skill"
)

// WriteFileSkill writes (creates or overwrites) a file. Grounded in
// original_source/.../write_file.py.
type WriteFileSkill struct{ svc *skill.Services }

func NewWriteFileSkill(svc *skill.Services) skill.Skill { return &WriteFileSkill{svc: svc} }

func (s *WriteFileSkill) Name() string { return "write_file" }
func (s *WriteFileSkill) Description() string {
	return "Write content to a file (creates or overwrites). " +
		"IMPORTANT: If modifying an existing file, read it first to understand its current state."
}
func (s *WriteFileSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path":    map[string]any{"type": "string", "description": "The file path to write to"},
			"content": map[string]any{"type": "string", "description": "The content to write to the file"},
		},
		"required": []string{"path", "content"},
	}
}

func (s *WriteFileSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	path := args.String("path", "")
	if path == "" {
		return skill.Fail("Path is required")
	}
	content := args.String("content", "")

	resolved, err := skill.ResolvePath(s.svc, path, false, false)
	if err != nil {
		return skill.FailErr(err)
	}
	if err := secio.WriteBytesAtomic(resolved, []byte(content)); err != nil {
		return skill.Fail(fmt.Sprintf("Error writing file: %v", err))
	}
	return skill.OK(fmt.Sprintf("Successfully wrote %d bytes to %s", len(content), path))
}
