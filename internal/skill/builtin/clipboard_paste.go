package builtin

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/incurian/nexus3/internal/clipboard"
	"github.com/incurian/nexus3/internal/secio"
	"github.com/incurian/nexus3/internal/skill"
)

// PasteSkill inserts a clipboard entry's content into a target file under
// one of eight insertion modes. Grounded in
// original_source/.../skill/builtin/clipboard_paste.py's PasteSkill.
type PasteSkill struct{ svc *skill.Services }

func NewPasteSkill(svc *skill.Services) skill.Skill { return &PasteSkill{svc: svc} }

func (s *PasteSkill) Name() string { return "paste" }

func (s *PasteSkill) Description() string {
	return "Paste clipboard content into a file. Supports multiple insertion modes: " +
		"after_line, before_line, replace_lines, at_marker_replace, at_marker_after, " +
		"at_marker_before, append, prepend."
}

func (s *PasteSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"key":    map[string]any{"type": "string", "description": "Clipboard key to paste"},
			"target": map[string]any{"type": "string", "description": "Target file path"},
			"scope": map[string]any{
				"type": "string", "enum": []string{"agent", "project", "system"},
				"description": "Specific scope to search. If unset, searches agent->project->system.",
			},
			"mode": map[string]any{
				"type": "string",
				"enum": []string{
					"after_line", "before_line", "replace_lines",
					"at_marker_replace", "at_marker_after", "at_marker_before",
					"append", "prepend",
				},
				"default":     "append",
				"description": "How to insert the content",
			},
			"line_number": map[string]any{"type": "integer", "minimum": 1, "description": "Line number for after_line/before_line (1-indexed)"},
			"start_line":  map[string]any{"type": "integer", "minimum": 1, "description": "Start line for replace_lines (1-indexed, inclusive)"},
			"end_line":    map[string]any{"type": "integer", "minimum": 1, "description": "End line for replace_lines (1-indexed, inclusive)"},
			"marker":      map[string]any{"type": "string", "description": "Marker string for at_marker_* modes"},
			"create_if_missing": map[string]any{
				"type": "boolean", "default": false,
				"description": "Create file if it doesn't exist (only valid with append/prepend mode)",
			},
		},
		"required": []string{"key", "target"},
	}
}

func validatePasteModeParams(mode clipboard.InsertionMode, lineNumber, startLine, endLine *int, marker *string) error {
	switch mode {
	case clipboard.ModeAfterLine, clipboard.ModeBeforeLine:
		if lineNumber == nil {
			return fmt.Errorf("mode '%s' requires line_number parameter", mode)
		}
	case clipboard.ModeReplaceLines:
		if startLine == nil {
			return fmt.Errorf("mode 'replace_lines' requires start_line parameter")
		}
		if endLine == nil {
			return fmt.Errorf("mode 'replace_lines' requires end_line parameter")
		}
		if *endLine < *startLine {
			return fmt.Errorf("end_line (%d) must be >= start_line (%d)", *endLine, *startLine)
		}
	case clipboard.ModeAtMarkerReplace, clipboard.ModeAtMarkerAfter, clipboard.ModeAtMarkerBefore:
		if marker == nil || *marker == "" {
			if marker == nil {
				return fmt.Errorf("mode '%s' requires marker parameter", mode)
			}
			return fmt.Errorf("marker cannot be empty")
		}
	}
	return nil
}

// applyInsertion is the Go counterpart of _apply_insertion: content and the
// return value are "\n"-joined line lists (not the keepends form used
// elsewhere), matching the splice arithmetic of the original.
func applyInsertion(content, pasteContent string, mode clipboard.InsertionMode, lineNumber, startLine, endLine *int, marker *string) (string, error) {
	var lines []string
	if content != "" {
		lines = strings.Split(content, "\n")
	}
	pasteLines := strings.Split(strings.TrimRight(pasteContent, "\n"), "\n")

	switch mode {
	case clipboard.ModeAppend:
		if content == "" {
			return pasteContent, nil
		}
		if !strings.HasSuffix(content, "\n") {
			return content + "\n" + pasteContent, nil
		}
		return content + pasteContent, nil

	case clipboard.ModePrepend:
		if pasteContent != "" && !strings.HasSuffix(pasteContent, "\n") {
			return pasteContent + "\n" + content, nil
		}
		return pasteContent + content, nil

	case clipboard.ModeAfterLine:
		n := *lineNumber
		if n > len(lines) {
			return "", fmt.Errorf("line number %d exceeds file length (%d lines)", n, len(lines))
		}
		result := append(append(append([]string{}, lines[:n]...), pasteLines...), lines[n:]...)
		return strings.Join(result, "\n"), nil

	case clipboard.ModeBeforeLine:
		n := *lineNumber
		if n > len(lines)+1 {
			return "", fmt.Errorf("line number %d exceeds file length (%d lines)", n, len(lines))
		}
		idx := n - 1
		result := append(append(append([]string{}, lines[:idx]...), pasteLines...), lines[idx:]...)
		return strings.Join(result, "\n"), nil

	case clipboard.ModeReplaceLines:
		start, end := *startLine, *endLine
		if start > len(lines) {
			return "", fmt.Errorf("start line %d exceeds file length (%d lines)", start, len(lines))
		}
		if end > len(lines) {
			return "", fmt.Errorf("end line %d exceeds file length (%d lines)", end, len(lines))
		}
		result := append(append(append([]string{}, lines[:start-1]...), pasteLines...), lines[end:]...)
		return strings.Join(result, "\n"), nil

	case clipboard.ModeAtMarkerReplace:
		if !strings.Contains(content, *marker) {
			return "", fmt.Errorf("marker '%s' not found in file", *marker)
		}
		return strings.Replace(content, *marker, pasteContent, 1), nil

	case clipboard.ModeAtMarkerAfter, clipboard.ModeAtMarkerBefore:
		idx := -1
		for i, l := range lines {
			if strings.Contains(l, *marker) {
				idx = i
				break
			}
		}
		if idx == -1 {
			return "", fmt.Errorf("marker '%s' not found in file", *marker)
		}
		at := idx
		if mode == clipboard.ModeAtMarkerAfter {
			at = idx + 1
		}
		result := append(append(append([]string{}, lines[:at]...), pasteLines...), lines[at:]...)
		return strings.Join(result, "\n"), nil
	}
	return "", fmt.Errorf("unhandled insertion mode %q", mode)
}

func formatModeInfo(mode clipboard.InsertionMode, lineNumber, startLine, endLine *int, marker *string) string {
	switch mode {
	case clipboard.ModeAfterLine:
		return fmt.Sprintf("after line %d", *lineNumber)
	case clipboard.ModeBeforeLine:
		return fmt.Sprintf("before line %d", *lineNumber)
	case clipboard.ModeReplaceLines:
		return fmt.Sprintf("replacing lines %d-%d", *startLine, *endLine)
	case clipboard.ModeAtMarkerReplace:
		return fmt.Sprintf("replacing marker %q", *marker)
	case clipboard.ModeAtMarkerAfter:
		return fmt.Sprintf("after marker %q", *marker)
	case clipboard.ModeAtMarkerBefore:
		return fmt.Sprintf("before marker %q", *marker)
	default:
		return string(mode)
	}
}

func (s *PasteSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	key := args.String("key", "")
	if key == "" {
		return skill.Fail("No clipboard key provided")
	}
	target := args.String("target", "")
	if target == "" {
		return skill.Fail("No target file path provided")
	}
	mode := clipboard.InsertionMode(args.String("mode", "append"))
	switch mode {
	case clipboard.ModeAfterLine, clipboard.ModeBeforeLine, clipboard.ModeReplaceLines,
		clipboard.ModeAtMarkerReplace, clipboard.ModeAtMarkerAfter, clipboard.ModeAtMarkerBefore,
		clipboard.ModeAppend, clipboard.ModePrepend:
	default:
		return skill.Fail(fmt.Sprintf("Invalid mode '%s'", mode))
	}
	lineNumber, startLine, endLine := args.IntPtr("line_number"), args.IntPtr("start_line"), args.IntPtr("end_line")
	marker := args.StringPtr("marker")
	createIfMissing := args.Bool("create_if_missing", false)

	if err := validatePasteModeParams(mode, lineNumber, startLine, endLine, marker); err != nil {
		return skill.FailErr(err)
	}

	if s.svc.Clipboard == nil {
		return skill.Fail("Clipboard manager not available")
	}

	var resolvedScope clipboard.Scope
	if scopeStr := args.String("scope", ""); scopeStr != "" {
		sc, err := parseClipboardScope(scopeStr)
		if err != nil {
			return skill.FailErr(err)
		}
		resolvedScope = sc
	}

	entry, err := s.svc.Clipboard.Get(key, resolvedScope)
	if err != nil {
		if resolvedScope != "" {
			return skill.Fail(fmt.Sprintf("Clipboard key '%s' not found in %s scope", key, resolvedScope))
		}
		return skill.Fail(fmt.Sprintf("Clipboard key '%s' not found in any accessible scope", key))
	}
	if entry.IsExpired(s.svc.Clipboard.Now()) {
		return skill.Fail(fmt.Sprintf("Clipboard entry '%s' has expired", key))
	}

	resolvedTarget, err := skill.ResolvePath(s.svc, target, false, false)
	if err != nil {
		return skill.FailErr(err)
	}

	var content string
	var lineEnding secio.LineEnding = secio.LF
	if _, statErr := os.Stat(resolvedTarget); statErr == nil {
		raw, readErr := secio.ReadText(resolvedTarget)
		if readErr != nil {
			return skill.Fail(fmt.Sprintf("Permission denied: %s", target))
		}
		lineEnding = secio.DetectLineEnding(raw)
		content = secio.NormalizeToLF(raw)
	} else if createIfMissing {
		if mode != clipboard.ModeAppend && mode != clipboard.ModePrepend {
			return skill.Fail(fmt.Sprintf("Cannot use mode '%s' with create_if_missing on non-existent file", mode))
		}
	} else {
		return skill.Fail(fmt.Sprintf("File not found: %s", target))
	}

	pasteContent := secio.NormalizeToLF(entry.Content)
	newContent, err := applyInsertion(content, pasteContent, mode, lineNumber, startLine, endLine, marker)
	if err != nil {
		return skill.FailErr(err)
	}

	out := secio.RestoreLineEnding(newContent, lineEnding)
	if err := secio.WriteBytesAtomic(resolvedTarget, out); err != nil {
		return skill.Fail(fmt.Sprintf("Error writing file: %v", err))
	}

	modeInfo := formatModeInfo(mode, lineNumber, startLine, endLine, marker)
	return skill.OK(fmt.Sprintf("Pasted %d lines from clipboard key '%s' (from %s scope) into %s (%s)",
		entry.LineCount, key, entry.Scope, target, modeInfo))
}
