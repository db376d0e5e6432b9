package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/incurian/nexus3/internal/secio"
	"github.com/incurian/nexus3/internal/skill"
)

// EditFileSkill makes targeted edits to a file, either by exact string
// replacement or by line-number range. Grounded in
// original_source/.../edit_file.py; its line-based mode shares
// lineReplace with EditLinesSkill.
type EditFileSkill struct{ svc *skill.Services }

func NewEditFileSkill(svc *skill.Services) skill.Skill { return &EditFileSkill{svc: svc} }

func (s *EditFileSkill) Name() string { return "edit_file" }
func (s *EditFileSkill) Description() string {
	return "Edit a file using string replacement or line-based editing. " +
		"IMPORTANT: Read the file first to verify your old_string matches exactly."
}
func (s *EditFileSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path":        map[string]any{"type": "string", "description": "Path to the file to edit"},
			"old_string":  map[string]any{"type": "string", "description": "Text to find and replace (must be unique in file unless replace_all=true)"},
			"new_string":  map[string]any{"type": "string", "description": "Replacement text"},
			"replace_all": map[string]any{"type": "boolean", "default": false, "description": "Replace all occurrences (default: false, requires unique match)"},
			"start_line":  map[string]any{"type": "integer", "description": "First line to replace (1-indexed, for line-based mode)"},
			"end_line":    map[string]any{"type": "integer", "description": "Last line to replace (inclusive, defaults to start_line)"},
			"new_content": map[string]any{"type": "string", "description": "Content to insert (for line-based mode)"},
		},
		"required": []string{"path"},
	}
}

func (s *EditFileSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	path := args.String("path", "")
	oldString := args.StringPtr("old_string")
	newString := args.String("new_string", "")
	replaceAll := args.Bool("replace_all", false)
	startLine := args.IntPtr("start_line")
	endLine := args.IntPtr("end_line")
	newContent := args.String("new_content", "")

	stringMode := oldString != nil
	lineMode := startLine != nil

	if stringMode && lineMode {
		return skill.Fail("Cannot use both string replacement and line-based mode")
	}
	if !stringMode && !lineMode {
		return skill.Fail("Must provide either old_string (string mode) or start_line (line mode)")
	}

	resolved, err := skill.ResolvePath(s.svc, path, true, false)
	if err != nil {
		return skill.FailErr(err)
	}
	content, err := secio.ReadText(resolved)
	if err != nil {
		return skill.Fail(fmt.Sprintf("File not found: %s", path))
	}

	if stringMode {
		result, count, err := stringReplace(content, *oldString, newString, replaceAll)
		if err != nil {
			return skill.FailErr(err)
		}
		if err := secio.WriteBytesAtomic(resolved, []byte(result)); err != nil {
			return skill.Fail(fmt.Sprintf("Error editing file: %v", err))
		}
		if replaceAll {
			return skill.OK(fmt.Sprintf("Replaced %d occurrence(s) in %s", count, path))
		}
		return skill.OK(fmt.Sprintf("Replaced text in %s", path))
	}

	result, err := lineReplace(content, *startLine, endLine, newContent)
	if err != nil {
		return skill.FailErr(err)
	}
	if err := secio.WriteBytesAtomic(resolved, []byte(result)); err != nil {
		return skill.Fail(fmt.Sprintf("Error editing file: %v", err))
	}
	actualEnd := *startLine
	if endLine != nil {
		actualEnd = *endLine
	}
	if endLine != nil && actualEnd != *startLine {
		return skill.OK(fmt.Sprintf("Replaced lines %d-%d in %s", *startLine, actualEnd, path))
	}
	return skill.OK(fmt.Sprintf("Replaced line %d in %s", *startLine, path))
}

func stringReplace(content, oldString, newString string, replaceAll bool) (string, int, error) {
	if oldString == "" {
		return "", 0, fmt.Errorf("old_string cannot be empty")
	}
	count := strings.Count(content, oldString)
	if count == 0 {
		preview := oldString
		if len(preview) > 100 {
			preview = preview[:100]
		}
		return "", 0, fmt.Errorf("string not found in file: %s...", preview)
	}
	if !replaceAll && count > 1 {
		return "", 0, fmt.Errorf("string appears %d times. Use replace_all=true or provide more context for unique match", count)
	}
	if replaceAll {
		return strings.ReplaceAll(content, oldString, newString), count, nil
	}
	return strings.Replace(content, oldString, newString, 1), count, nil
}
