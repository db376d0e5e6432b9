package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/incurian/nexus3/internal/clipboard"
	"github.com/incurian/nexus3/internal/secio"
	"github.com/incurian/nexus3/internal/skill"
)

func copyParameters(verb string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"source": map[string]any{
				"type":        "string",
				"description": fmt.Sprintf("Path to the file to %s from", verb),
			},
			"key": map[string]any{
				"type":        "string",
				"description": "Clipboard key name (must be unique within scope)",
			},
			"scope": map[string]any{
				"type":        "string",
				"enum":        []string{"agent", "project", "system"},
				"default":     "agent",
				"description": "Clipboard scope: 'agent' (default), 'project', or 'system'",
			},
			"start_line": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"description": fmt.Sprintf("First line to %s (1-indexed, default: beginning of file)", verb),
			},
			"end_line": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"description": fmt.Sprintf("Last line to %s (inclusive, default: end of file)", verb),
			},
			"short_description": map[string]any{
				"type":        "string",
				"description": "Brief description of the copied content",
			},
			"tags": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Tags for organizing clipboard entries",
			},
			"ttl_seconds": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"description": "Time-to-live in seconds (unset = permanent)",
			},
		},
		"required": []string{"source", "key"},
	}
}

// extractLines is the Go counterpart of clipboard_copy.py's _read_lines:
// extracts an inclusive, 1-indexed line range from LF-normalized content,
// defaulting to the whole file and clamping end to the file length.
func extractLines(content string, startLine, endLine *int) (extracted string, actualStart, actualEnd int, err error) {
	lines := splitKeepEnds(content)
	total := len(lines)
	if total == 0 {
		return "", 1, 1, nil
	}
	actualStart = 1
	if startLine != nil {
		actualStart = *startLine
	}
	actualEnd = total
	if endLine != nil {
		actualEnd = *endLine
	}
	if actualStart < 1 {
		return "", 0, 0, fmt.Errorf("start_line must be >= 1")
	}
	if actualStart > total {
		return "", 0, 0, fmt.Errorf("start_line %d exceeds file length (%d lines)", actualStart, total)
	}
	if actualEnd < actualStart {
		return "", 0, 0, fmt.Errorf("end_line (%d) cannot be less than start_line (%d)", actualEnd, actualStart)
	}
	if actualEnd > total {
		actualEnd = total
	}
	return strings.Join(lines[actualStart-1:actualEnd], ""), actualStart, actualEnd, nil
}

// splitKeepEnds splits content into lines, each retaining its trailing "\n"
// (the last line keeps none if content doesn't end in one).
func splitKeepEnds(content string) []string {
	if content == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			out = append(out, content[start:i+1])
			start = i + 1
		}
	}
	if start < len(content) {
		out = append(out, content[start:])
	}
	return out
}

func parseClipboardScope(s string) (clipboard.Scope, error) {
	scope, ok := clipboard.ParseScope(strings.ToLower(strings.TrimSpace(s)))
	if !ok {
		return "", fmt.Errorf("invalid scope %q. Must be one of: agent, project, system", s)
	}
	return scope, nil
}

func copyParams(args skill.Args) clipboard.CopyParams {
	return clipboard.CopyParams{
		ShortDescription: args.String("short_description", ""),
		Tags:             args.StringSlice("tags"),
		TTLSeconds:       args.Int64Ptr("ttl_seconds"),
	}
}

// CopySkill copies file content (or a line range) into the clipboard.
// Grounded in original_source/.../skill/builtin/clipboard_copy.py's CopySkill.
type CopySkill struct{ svc *skill.Services }

func NewCopySkill(svc *skill.Services) skill.Skill { return &CopySkill{svc: svc} }

func (s *CopySkill) Name() string { return "copy" }

func (s *CopySkill) Description() string {
	return "Copy file content to clipboard. Copies entire file or a line range under a key. " +
		"Use for multi-file refactoring without LLM context overhead."
}

func (s *CopySkill) Parameters() map[string]any { return copyParameters("copy") }

func (s *CopySkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	source := args.String("source", "")
	key := args.String("key", "")
	if key == "" {
		return skill.Fail("key is required")
	}
	scope, err := parseClipboardScope(args.String("scope", "agent"))
	if err != nil {
		return skill.FailErr(err)
	}
	resolved, err := skill.ResolvePath(s.svc, source, true, false)
	if err != nil {
		return skill.FailErr(err)
	}
	raw, err := secio.ReadText(resolved)
	if err != nil {
		return skill.Fail(fmt.Sprintf("cannot read %s: %v", source, err))
	}
	content := secio.NormalizeToLF(raw)

	startLine, endLine := args.IntPtr("start_line"), args.IntPtr("end_line")
	extracted, actualStart, actualEnd, err := extractLines(content, startLine, endLine)
	if err != nil {
		return skill.FailErr(err)
	}
	if extracted == "" {
		return skill.Fail("No content to copy (file is empty)")
	}

	params := copyParams(args)
	params.SourcePath = resolved
	if startLine != nil || endLine != nil {
		params.SourceLines = fmt.Sprintf("%d-%d", actualStart, actualEnd)
	}

	if s.svc.Clipboard == nil {
		return skill.Fail("Clipboard system not available")
	}
	entry, warning, err := s.svc.Clipboard.Copy(key, extracted, scope, params)
	if err != nil {
		return skill.FailErr(err)
	}

	msg := []string{
		fmt.Sprintf("Copied to clipboard '%s' (%s scope):", key, scope),
		fmt.Sprintf("  Source: %s", resolved),
	}
	if params.SourceLines != "" {
		msg = append(msg, fmt.Sprintf("  Lines: %s", params.SourceLines))
	}
	msg = append(msg, fmt.Sprintf("  Size: %d lines, %d bytes", entry.LineCount, entry.ByteCount))
	if warning != "" {
		msg = append(msg, "  "+warning)
	}
	return skill.OK(strings.Join(msg, "\n"))
}

// CutSkill copies file content to the clipboard then removes it from the
// source file, with best-effort rollback of the clipboard entry if the
// post-copy write fails. Grounded in
// original_source/.../skill/builtin/clipboard_copy.py's CutSkill.
type CutSkill struct{ svc *skill.Services }

func NewCutSkill(svc *skill.Services) skill.Skill { return &CutSkill{svc: svc} }

func (s *CutSkill) Name() string { return "cut" }

func (s *CutSkill) Description() string {
	return "Cut file content to clipboard (copy + remove from source). For whole-file cuts, " +
		"the file content is cleared but the file itself is not deleted."
}

func (s *CutSkill) Parameters() map[string]any { return copyParameters("cut") }

func (s *CutSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	source := args.String("source", "")
	key := args.String("key", "")
	if key == "" {
		return skill.Fail("key is required")
	}
	scope, err := parseClipboardScope(args.String("scope", "agent"))
	if err != nil {
		return skill.FailErr(err)
	}
	resolved, err := skill.ResolvePath(s.svc, source, true, false)
	if err != nil {
		return skill.FailErr(err)
	}
	raw, err := secio.ReadText(resolved)
	if err != nil {
		return skill.Fail(fmt.Sprintf("cannot read %s: %v", source, err))
	}
	lineEnding := secio.DetectLineEnding(raw)
	content := secio.NormalizeToLF(raw)

	startLine, endLine := args.IntPtr("start_line"), args.IntPtr("end_line")
	isWholeFile := startLine == nil && endLine == nil
	extracted, actualStart, actualEnd, err := extractLines(content, startLine, endLine)
	if err != nil {
		return skill.FailErr(err)
	}
	if extracted == "" {
		return skill.Fail("No content to cut (file is empty)")
	}

	params := copyParams(args)
	params.SourcePath = resolved
	if !isWholeFile {
		params.SourceLines = fmt.Sprintf("%d-%d", actualStart, actualEnd)
	}

	if s.svc.Clipboard == nil {
		return skill.Fail("Clipboard system not available")
	}
	entry, warning, err := s.svc.Clipboard.Copy(key, extracted, scope, params)
	if err != nil {
		return skill.FailErr(err)
	}

	var newContent string
	if !isWholeFile {
		lines := splitKeepEnds(content)
		newContent = strings.Join(lines[:actualStart-1], "") + strings.Join(lines[actualEnd:], "")
	}

	out := secio.RestoreLineEnding(newContent, lineEnding)
	if err := secio.WriteBytesAtomic(resolved, out); err != nil {
		s.svc.Clipboard.Delete(key, scope)
		return skill.Fail(fmt.Sprintf("cannot write %s (clipboard entry rolled back): %v", source, err))
	}

	msg := []string{
		fmt.Sprintf("Cut to clipboard '%s' (%s scope):", key, scope),
		fmt.Sprintf("  Source: %s", resolved),
	}
	if params.SourceLines != "" {
		msg = append(msg, fmt.Sprintf("  Lines removed: %s", params.SourceLines))
	} else {
		msg = append(msg, "  File content cleared")
	}
	msg = append(msg, fmt.Sprintf("  Size: %d lines, %d bytes", entry.LineCount, entry.ByteCount))
	if warning != "" {
		msg = append(msg, "  "+warning)
	}
	return skill.OK(strings.Join(msg, "\n"))
}
