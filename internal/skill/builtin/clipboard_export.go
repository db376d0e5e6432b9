package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/incurian/nexus3/internal/clipboard"
	"github.com/incurian/nexus3/internal/secio"
	"github.com/incurian/nexus3/internal/skill"
)

// ClipboardExportSkill writes accessible clipboard entries to a JSON file.
// Grounded in original_source/.../clipboard_export.py's ClipboardExportSkill.
type ClipboardExportSkill struct{ svc *skill.Services }

func NewClipboardExportSkill(svc *skill.Services) skill.Skill { return &ClipboardExportSkill{svc: svc} }

func (s *ClipboardExportSkill) Name() string { return "clipboard_export" }
func (s *ClipboardExportSkill) Description() string {
	return "Export clipboard entries to a JSON file for backup or sharing."
}
func (s *ClipboardExportSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{"type": "string", "description": "Output file path for the JSON export"},
			"scope": map[string]any{
				"type": "string", "enum": []string{"agent", "project", "system", "all"}, "default": "all",
				"description": "Scope to export (all = all accessible scopes)",
			},
			"tags": map[string]any{
				"type": "array", "items": map[string]any{"type": "string"},
				"description": "Only export entries with ALL of these tags",
			},
		},
		"required": []string{"path"},
	}
}

func (s *ClipboardExportSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	path := args.String("path", "")
	if path == "" {
		return skill.Fail("path is required")
	}
	resolvedPath, err := skill.ResolvePath(s.svc, path, false, false)
	if err != nil {
		return skill.FailErr(err)
	}
	if s.svc.Clipboard == nil {
		return skill.Fail("Clipboard service not available")
	}

	scopeStr := args.String("scope", "all")
	var scope clipboard.Scope
	if scopeStr != "all" {
		sc, err := parseClipboardScope(scopeStr)
		if err != nil {
			return skill.FailErr(err)
		}
		scope = sc
	}

	entries, err := s.svc.Clipboard.ListEntries(clipboard.ListOptions{Scope: scope})
	if err != nil {
		return skill.FailErr(err)
	}

	if tags := args.StringSlice("tags"); len(tags) > 0 {
		filtered := entries[:0]
		for _, e := range entries {
			if hasAllTags(e, tags) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	if len(entries) == 0 {
		return skill.OK("No entries to export")
	}

	data, err := clipboard.Export(entries, time.Now().Format(time.RFC3339))
	if err != nil {
		return skill.FailErr(err)
	}

	if err := secio.WriteBytesAtomic(resolvedPath, data); err != nil {
		return skill.Fail(fmt.Sprintf("Cannot write export file: %v", err))
	}

	return skill.OK(fmt.Sprintf("Exported %d entries to %s", len(entries), path))
}
