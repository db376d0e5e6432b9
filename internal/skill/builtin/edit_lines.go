package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/incurian/nexus3/internal/secio"
	"github.com/incurian/nexus3/internal/skill"
)

// EditLinesSkill replaces lines in a file by line number. Grounded in
// original_source/.../edit_lines.py.
type EditLinesSkill struct{ svc *skill.Services }

func NewEditLinesSkill(svc *skill.Services) skill.Skill { return &EditLinesSkill{svc: svc} }

func (s *EditLinesSkill) Name() string { return "edit_lines" }
func (s *EditLinesSkill) Description() string {
	return "Replace lines by line number. " +
		"IMPORTANT: new_content must include proper indentation - the entire line is replaced. " +
		"For multiple edits, work bottom-to-top to avoid line number drift. " +
		"Use edit_file for safer string-based edits that preserve context."
}
func (s *EditLinesSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path":        map[string]any{"type": "string", "description": "Path to the file to edit"},
			"start_line":  map[string]any{"type": "integer", "description": "First line to replace (1-indexed)"},
			"end_line":    map[string]any{"type": "integer", "description": "Last line to replace (inclusive, defaults to start_line)"},
			"new_content": map[string]any{"type": "string", "description": "Content to insert (must include proper indentation - the entire line is replaced, not just the text)"},
		},
		"required": []string{"path", "start_line", "new_content"},
	}
}

// lineReplace is shared by EditLinesSkill and EditFileSkill's line-based
// mode, ported from the shared _line_replace algorithm in the original.
func lineReplace(content string, startLine int, endLine *int, newContent string) (string, error) {
	lines := splitKeepEnds(content)
	total := len(lines)

	if startLine > total {
		return "", fmt.Errorf("start_line %d exceeds file length (%d lines)", startLine, total)
	}

	end := startLine
	if endLine != nil {
		end = *endLine
	}
	if end < startLine {
		return "", fmt.Errorf("end_line (%d) cannot be less than start_line (%d)", end, startLine)
	}
	if end > total {
		return "", fmt.Errorf("end_line %d exceeds file length (%d lines)", end, total)
	}

	startIdx := startLine - 1
	endIdx := end

	if newContent != "" && !strings.HasSuffix(newContent, "\n") && endIdx < total {
		newContent += "\n"
	}

	newLines := append(append(append([]string{}, lines[:startIdx]...), newContent), lines[endIdx:]...)
	return strings.Join(newLines, ""), nil
}

func (s *EditLinesSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	path := args.String("path", "")
	startLine := args.IntPtr("start_line")
	if startLine == nil || *startLine < 1 {
		return skill.Fail("start_line must be >= 1")
	}
	endLine := args.IntPtr("end_line")
	newContent := args.String("new_content", "")

	resolved, err := skill.ResolvePath(s.svc, path, true, false)
	if err != nil {
		return skill.FailErr(err)
	}
	raw, err := secio.ReadText(resolved)
	if err != nil {
		return skill.Fail(fmt.Sprintf("File not found: %s", path))
	}
	lineEnding := secio.DetectLineEnding(raw)
	content := secio.NormalizeToLF(raw)

	result, err := lineReplace(content, *startLine, endLine, newContent)
	if err != nil {
		return skill.FailErr(err)
	}

	out := secio.RestoreLineEnding(result, lineEnding)
	if err := secio.WriteBytesAtomic(resolved, out); err != nil {
		return skill.Fail(fmt.Sprintf("Error editing file: %v", err))
	}

	actualEnd := *startLine
	if endLine != nil {
		actualEnd = *endLine
	}
	if actualEnd != *startLine {
		return skill.OK(fmt.Sprintf("Replaced lines %d-%d in %s", *startLine, actualEnd, path))
	}
	return skill.OK(fmt.Sprintf("Replaced line %d in %s", *startLine, path))
}
