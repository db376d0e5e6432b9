package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/incurian/nexus3/internal/clipboard"
	"github.com/incurian/nexus3/internal/secio"
	"github.com/incurian/nexus3/internal/skill"
)

// ClipboardListSkill lists entries across accessible scopes, with optional
// scope/tag filtering and a verbose content preview. Grounded in
// original_source/.../clipboard_manage.py's ClipboardListSkill.
type ClipboardListSkill struct{ svc *skill.Services }

func NewClipboardListSkill(svc *skill.Services) skill.Skill { return &ClipboardListSkill{svc: svc} }

func (s *ClipboardListSkill) Name() string { return "clipboard_list" }
func (s *ClipboardListSkill) Description() string {
	return "List clipboard entries across all accessible scopes."
}
func (s *ClipboardListSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"scope":    map[string]any{"type": "string", "enum": []string{"agent", "project", "system"}, "description": "Filter by scope. Omit to show all accessible scopes."},
			"verbose":  map[string]any{"type": "boolean", "default": false, "description": "Include content preview (first/last 3 lines)"},
			"tags":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Filter to entries having ALL of these tags (AND logic)"},
			"any_tags": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Filter to entries having ANY of these tags (OR logic)"},
		},
	}
}

func hasAllTags(entry *clipboard.Entry, tags []string) bool {
	for _, t := range tags {
		found := false
		for _, et := range entry.Tags {
			if et == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func hasAnyTag(entry *clipboard.Entry, tags []string) bool {
	for _, t := range tags {
		for _, et := range entry.Tags {
			if et == t {
				return true
			}
		}
	}
	return false
}

func (s *ClipboardListSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	if s.svc.Clipboard == nil {
		return skill.Fail("Clipboard service not available")
	}
	scopeStr := args.String("scope", "")
	var scope clipboard.Scope
	if scopeStr != "" {
		sc, err := parseClipboardScope(scopeStr)
		if err != nil {
			return skill.FailErr(err)
		}
		scope = sc
	}
	verbose := args.Bool("verbose", false)
	tags := args.StringSlice("tags")
	anyTags := args.StringSlice("any_tags")

	entries, err := s.svc.Clipboard.ListEntries(clipboard.ListOptions{Scope: scope})
	if err != nil {
		return skill.FailErr(err)
	}
	filtered := entries[:0:0]
	for _, e := range entries {
		if len(tags) > 0 && !hasAllTags(e, tags) {
			continue
		}
		if len(anyTags) > 0 && !hasAnyTag(e, anyTags) {
			continue
		}
		filtered = append(filtered, e)
	}

	if len(filtered) == 0 {
		if scopeStr != "" {
			return skill.OK(fmt.Sprintf("No clipboard entries in %s scope", scopeStr))
		}
		return skill.OK("No clipboard entries")
	}

	lines := []string{"Clipboard entries:", ""}
	now := s.svc.Clipboard.Now()
	for _, e := range filtered {
		lines = append(lines, clipboard.FormatEntryDetail(e, now, verbose), "")
	}
	return skill.OK(strings.Join(lines, "\n"))
}

// ClipboardGetSkill returns an entry's content (or a line-range subset).
// Grounded in clipboard_manage.py's ClipboardGetSkill.
type ClipboardGetSkill struct{ svc *skill.Services }

func NewClipboardGetSkill(svc *skill.Services) skill.Skill { return &ClipboardGetSkill{svc: svc} }

func (s *ClipboardGetSkill) Name() string { return "clipboard_get" }
func (s *ClipboardGetSkill) Description() string {
	return "Get the content of a clipboard entry. Use sparingly for large entries as content " +
		"enters LLM context. For inspection, use clipboard_list(verbose=true)."
}
func (s *ClipboardGetSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"key":        map[string]any{"type": "string", "description": "Clipboard key"},
			"scope":      map[string]any{"type": "string", "enum": []string{"agent", "project", "system"}, "description": "Scope to search. Omit to search agent->project->system."},
			"start_line": map[string]any{"type": "integer", "minimum": 1, "description": "Return subset starting at this line"},
			"end_line":   map[string]any{"type": "integer", "minimum": 1, "description": "Return subset ending at this line (inclusive)"},
		},
		"required": []string{"key"},
	}
}

func (s *ClipboardGetSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	if s.svc.Clipboard == nil {
		return skill.Fail("Clipboard service not available")
	}
	key := args.String("key", "")
	scopeStr := args.String("scope", "")
	var scope clipboard.Scope
	if scopeStr != "" {
		sc, err := parseClipboardScope(scopeStr)
		if err != nil {
			return skill.FailErr(err)
		}
		scope = sc
	}
	entry, err := s.svc.Clipboard.Get(key, scope)
	if err != nil {
		if scopeStr != "" {
			return skill.Fail(fmt.Sprintf("Key '%s' not found in %s scope", key, scopeStr))
		}
		return skill.Fail(fmt.Sprintf("Key '%s' not found in any accessible scope", key))
	}

	content := entry.Content
	startLine, endLine := args.IntPtr("start_line"), args.IntPtr("end_line")
	if startLine != nil || endLine != nil {
		lines := splitKeepEnds(content)
		start := 0
		if startLine != nil {
			start = *startLine - 1
		}
		end := len(lines)
		if endLine != nil {
			end = *endLine
		}
		if start < 0 || start >= len(lines) {
			return skill.Fail(fmt.Sprintf("start_line out of range (entry has %d lines)", len(lines)))
		}
		if end > len(lines) {
			return skill.Fail(fmt.Sprintf("end_line out of range (entry has %d lines)", len(lines)))
		}
		if end <= start {
			return skill.Fail("end_line must be greater than start_line")
		}
		content = strings.Join(lines[start:end], "")
	}
	return skill.OK(content)
}

// ClipboardUpdateSkill mutates an existing entry's content, description,
// TTL, or key. Grounded in clipboard_manage.py's ClipboardUpdateSkill.
type ClipboardUpdateSkill struct{ svc *skill.Services }

func NewClipboardUpdateSkill(svc *skill.Services) skill.Skill { return &ClipboardUpdateSkill{svc: svc} }

func (s *ClipboardUpdateSkill) Name() string { return "clipboard_update" }
func (s *ClipboardUpdateSkill) Description() string {
	return "Update an existing clipboard entry. Can update content from a file, change " +
		"description, or rename the key."
}
func (s *ClipboardUpdateSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"key":                map[string]any{"type": "string", "description": "Existing clipboard key to update"},
			"scope":              map[string]any{"type": "string", "enum": []string{"agent", "project", "system"}, "description": "Scope of the entry (required)"},
			"source":             map[string]any{"type": "string", "description": "New file to copy content from"},
			"content":            map[string]any{"type": "string", "description": "New content directly (use source for files)"},
			"start_line":         map[string]any{"type": "integer", "minimum": 1, "description": "If source provided, first line to copy"},
			"end_line":           map[string]any{"type": "integer", "minimum": 1, "description": "If source provided, last line to copy"},
			"short_description":  map[string]any{"type": "string", "description": "New description"},
			"new_key":            map[string]any{"type": "string", "description": "Rename entry to this key"},
			"ttl_seconds": map[string]any{"type": "integer", "minimum": 1, "description": "Set new TTL in seconds. Omit to keep current TTL."},
		},
		"required": []string{"key", "scope"},
	}
}

func (s *ClipboardUpdateSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	if s.svc.Clipboard == nil {
		return skill.Fail("Clipboard service not available")
	}
	key := args.String("key", "")
	scope, err := parseClipboardScope(args.String("scope", ""))
	if err != nil {
		return skill.FailErr(err)
	}

	var newContent *string
	var sourcePath, sourceLines *string
	if source := args.StringPtr("source"); source != nil {
		// Unlike the original (which reads `source` without going through
		// path-sandbox validation), this port resolves it via C2 like every
		// other file-touching skill — see DESIGN.md's C11 skill table.
		resolved, err := skill.ResolvePath(s.svc, *source, true, false)
		if err != nil {
			return skill.FailErr(err)
		}
		fileContent, err := secio.ReadText(resolved)
		if err != nil {
			return skill.Fail(fmt.Sprintf("Cannot read source file: %v", err))
		}
		if startLine := args.IntPtr("start_line"); startLine != nil {
			lines := splitKeepEnds(fileContent)
			if *startLine < 1 || *startLine > len(lines) {
				return skill.Fail(fmt.Sprintf("start_line out of range (file has %d lines)", len(lines)))
			}
			end := *startLine
			if endLine := args.IntPtr("end_line"); endLine != nil {
				end = *endLine
			}
			if end > len(lines) {
				return skill.Fail(fmt.Sprintf("end_line out of range (file has %d lines)", len(lines)))
			}
			extracted := strings.Join(lines[*startLine-1:end], "")
			newContent = &extracted
			sl := fmt.Sprintf("%d-%d", *startLine, end)
			if end == *startLine {
				sl = fmt.Sprintf("%d", *startLine)
			}
			sourceLines = &sl
		} else {
			newContent = &fileContent
		}
		sourcePath = &resolved
	} else if content := args.StringPtr("content"); content != nil {
		newContent = content
	}

	fields := clipboard.UpdateFields{
		Content:          newContent,
		ShortDescription: args.StringPtr("short_description"),
		SourcePath:       sourcePath,
		SourceLines:      sourceLines,
		NewKey:           args.StringPtr("new_key"),
		TTLSeconds:       args.Int64Ptr("ttl_seconds"),
	}
	entry, warning, err := s.svc.Clipboard.Update(key, scope, fields)
	if err != nil {
		return skill.FailErr(err)
	}

	msg := fmt.Sprintf("Updated clipboard '%s' [%s scope]: %d lines", entry.Key, scope, entry.LineCount)
	if warning != "" {
		msg = warning + "\n" + msg
	}
	return skill.OK(msg)
}

// ClipboardDeleteSkill removes one entry. Grounded in
// clipboard_manage.py's ClipboardDeleteSkill.
type ClipboardDeleteSkill struct{ svc *skill.Services }

func NewClipboardDeleteSkill(svc *skill.Services) skill.Skill { return &ClipboardDeleteSkill{svc: svc} }

func (s *ClipboardDeleteSkill) Name() string        { return "clipboard_delete" }
func (s *ClipboardDeleteSkill) Description() string { return "Delete a clipboard entry." }
func (s *ClipboardDeleteSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"key":   map[string]any{"type": "string", "description": "Clipboard key to delete"},
			"scope": map[string]any{"type": "string", "enum": []string{"agent", "project", "system"}, "description": "Scope of the entry (required)"},
		},
		"required": []string{"key", "scope"},
	}
}

func (s *ClipboardDeleteSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	if s.svc.Clipboard == nil {
		return skill.Fail("Clipboard service not available")
	}
	key := args.String("key", "")
	scopeStr := args.String("scope", "")
	scope, err := parseClipboardScope(scopeStr)
	if err != nil {
		return skill.FailErr(err)
	}
	deleted, err := s.svc.Clipboard.Delete(key, scope)
	if err != nil {
		return skill.FailErr(err)
	}
	if !deleted {
		return skill.Fail(fmt.Sprintf("Key '%s' not found in %s scope", key, scopeStr))
	}
	return skill.OK(fmt.Sprintf("Deleted clipboard '%s' from %s scope", key, scopeStr))
}

// ClipboardClearSkill deletes every entry in a scope, gated behind an
// explicit confirm=true safety flag. Grounded in clipboard_manage.py's
// ClipboardClearSkill.
type ClipboardClearSkill struct{ svc *skill.Services }

func NewClipboardClearSkill(svc *skill.Services) skill.Skill { return &ClipboardClearSkill{svc: svc} }

func (s *ClipboardClearSkill) Name() string { return "clipboard_clear" }
func (s *ClipboardClearSkill) Description() string {
	return "Clear all entries in a clipboard scope. Requires confirm=true."
}
func (s *ClipboardClearSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"scope":   map[string]any{"type": "string", "enum": []string{"agent", "project", "system"}, "description": "Scope to clear (required)"},
			"confirm": map[string]any{"type": "boolean", "description": "Must be true to proceed"},
		},
		"required": []string{"scope", "confirm"},
	}
}

func (s *ClipboardClearSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	if !args.Bool("confirm", false) {
		return skill.Fail("Must set confirm=true to clear clipboard")
	}
	if s.svc.Clipboard == nil {
		return skill.Fail("Clipboard service not available")
	}
	scopeStr := args.String("scope", "")
	scope, err := parseClipboardScope(scopeStr)
	if err != nil {
		return skill.FailErr(err)
	}
	count, err := s.svc.Clipboard.Clear(scope)
	if err != nil {
		return skill.FailErr(err)
	}
	return skill.OK(fmt.Sprintf("Cleared %d entries from %s clipboard", count, scopeStr))
}
