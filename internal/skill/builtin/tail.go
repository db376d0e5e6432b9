package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/incurian/nexus3/internal/secio"
	"github.com/incurian/nexus3/internal/skill"
)

// TailSkill reads the last N lines of a file. Grounded in
// original_source/.../tail.py.
type TailSkill struct{ svc *skill.Services }

func NewTailSkill(svc *skill.Services) skill.Skill { return &TailSkill{svc: svc} }

func (s *TailSkill) Name() string        { return "tail" }
func (s *TailSkill) Description() string { return "Read the last N lines of a file" }
func (s *TailSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path":  map[string]any{"type": "string", "description": "The path to the file to read"},
			"lines": map[string]any{"type": "integer", "default": 10, "description": "Number of lines from end (default: 10)"},
		},
		"required": []string{"path"},
	}
}

func (s *TailSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	path := args.String("path", "")
	if path == "" {
		return skill.Fail("No path provided")
	}
	numLines := args.Int("lines", 10)
	if numLines < 1 {
		return skill.Fail("Lines must be at least 1")
	}
	resolved, err := skill.ResolvePath(s.svc, path, true, false)
	if err != nil {
		return skill.FailErr(err)
	}
	content, err := secio.ReadText(resolved)
	if err != nil {
		return skill.Fail(fmt.Sprintf("Error reading file: %v", err))
	}

	allLines := splitKeepEnds(content)
	total := len(allLines)
	startIdx := 0
	if numLines < total {
		startIdx = total - numLines
	}
	selected := allLines[startIdx:]

	var b strings.Builder
	for i, l := range selected {
		fmt.Fprintf(&b, "%d: %s", startIdx+i+1, l)
	}
	return skill.OK(b.String())
}
