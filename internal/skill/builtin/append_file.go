package builtin

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/incurian/nexus3/internal/secio"
	"github.com/incurian/nexus3/internal/skill"
)

// AppendFileSkill appends content to a file, atomically and with smart
// newline handling. Grounded in original_source/.../append_file.py.
type AppendFileSkill struct{ svc *skill.Services }

func NewAppendFileSkill(svc *skill.Services) skill.Skill { return &AppendFileSkill{svc: svc} }

func (s *AppendFileSkill) Name() string { return "append_file" }
func (s *AppendFileSkill) Description() string {
	return "Append content to a file. " +
		"IMPORTANT: Read the file first to understand its current content and structure."
}
func (s *AppendFileSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path":    map[string]any{"type": "string", "description": "The path to the file to append to"},
			"content": map[string]any{"type": "string", "description": "Content to append"},
			"newline": map[string]any{"type": "boolean", "default": true, "description": "Add newline before content if file doesn't end with one (default: true)"},
		},
		"required": []string{"path", "content"},
	}
}

func (s *AppendFileSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	path := args.String("path", "")
	if path == "" {
		return skill.Fail("No path provided")
	}
	content := args.String("content", "")
	if content == "" {
		return skill.Fail("No content provided")
	}
	addNewline := args.Bool("newline", true)

	resolved, err := skill.ResolvePath(s.svc, path, false, false)
	if err != nil {
		return skill.FailErr(err)
	}

	var existing string
	if info, statErr := os.Stat(resolved); statErr == nil {
		if info.IsDir() {
			return skill.Fail(fmt.Sprintf("Path is a directory, not a file: %s", path))
		}
		existing, err = secio.ReadText(resolved)
		if err != nil {
			return skill.Fail(fmt.Sprintf("Permission denied: %s", path))
		}
	}

	toWrite := content
	if addNewline && existing != "" && !strings.HasSuffix(existing, "\n") {
		toWrite = "\n" + content
	}

	if err := secio.WriteBytesAtomic(resolved, []byte(existing+toWrite)); err != nil {
		return skill.Fail(fmt.Sprintf("Error appending to file: %v", err))
	}
	return skill.OK(fmt.Sprintf("Appended %d characters to %s", len(toWrite), path))
}
