package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/incurian/nexus3/internal/secio"
	"github.com/incurian/nexus3/internal/skill"
)

// ReadFileSkill reads a file's contents, optionally a line window with
// line numbers. Grounded in original_source/.../read_file.py.
type ReadFileSkill struct{ svc *skill.Services }

func NewReadFileSkill(svc *skill.Services) skill.Skill { return &ReadFileSkill{svc: svc} }

func (s *ReadFileSkill) Name() string        { return "read_file" }
func (s *ReadFileSkill) Description() string { return "Read the contents of a file" }
func (s *ReadFileSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path":   map[string]any{"type": "string", "description": "The path to the file to read"},
			"offset": map[string]any{"type": "integer", "minimum": 1, "default": 1, "description": "Line number to start reading from (1-indexed, default: 1)"},
			"limit":  map[string]any{"type": "integer", "description": "Maximum number of lines to read (default: all)"},
		},
		"required": []string{"path"},
	}
}

func (s *ReadFileSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	path := args.String("path", "")
	if path == "" {
		return skill.Fail("No path provided")
	}
	resolved, err := skill.ResolvePath(s.svc, path, true, false)
	if err != nil {
		return skill.FailErr(err)
	}
	content, err := secio.ReadText(resolved)
	if err != nil {
		return skill.Fail(fmt.Sprintf("Error reading file: %v", err))
	}

	offset := args.Int("offset", 1)
	limit := args.IntPtr("limit")
	if offset > 1 || limit != nil {
		lines := splitKeepEnds(content)
		startIdx := offset - 1
		if startIdx < 0 {
			startIdx = 0
		}
		if startIdx > len(lines) {
			startIdx = len(lines)
		}
		endIdx := len(lines)
		if limit != nil {
			endIdx = startIdx + *limit
			if endIdx > len(lines) {
				endIdx = len(lines)
			}
		}
		selected := lines[startIdx:endIdx]
		var b strings.Builder
		for i, l := range selected {
			fmt.Fprintf(&b, "%d: %s", startIdx+i+1, l)
		}
		return skill.OK(b.String())
	}

	return skill.OK(content)
}
