package builtin

import (
	"context"
	"fmt"
	"os"

	"github.com/incurian/nexus3/internal/clipboard"
	"github.com/incurian/nexus3/internal/skill"
)

// ClipboardImportSkill reads a JSON export file and copies its entries into
// a target scope. Grounded in
// original_source/.../clipboard_import.py's ClipboardImportSkill. Unlike
// the original, `path` is resolved through the path sandbox like every
// other file-touching skill (see clipboard_manage.go's note on the same
// deviation for `clipboard_update`'s source argument).
type ClipboardImportSkill struct{ svc *skill.Services }

func NewClipboardImportSkill(svc *skill.Services) skill.Skill { return &ClipboardImportSkill{svc: svc} }

func (s *ClipboardImportSkill) Name() string { return "clipboard_import" }
func (s *ClipboardImportSkill) Description() string {
	return "Import clipboard entries from a JSON export file."
}
func (s *ClipboardImportSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{"type": "string", "description": "Path to the JSON export file"},
			"scope": map[string]any{
				"type": "string", "enum": []string{"agent", "project", "system"}, "default": "agent",
				"description": "Target scope for imported entries",
			},
			"conflict": map[string]any{
				"type": "string", "enum": []string{"skip", "overwrite"}, "default": "skip",
				"description": "How to handle existing keys: skip or overwrite",
			},
			"dry_run": map[string]any{
				"type": "boolean", "default": true,
				"description": "If true, show what would be imported without actually importing",
			},
		},
		"required": []string{"path"},
	}
}

func (s *ClipboardImportSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	path := args.String("path", "")
	if path == "" {
		return skill.Fail("path is required")
	}
	resolvedPath, err := skill.ResolvePath(s.svc, path, true, false)
	if err != nil {
		return skill.FailErr(err)
	}
	if s.svc.Clipboard == nil {
		return skill.Fail("Clipboard service not available")
	}

	scopeStr := args.String("scope", "agent")
	scope, err := parseClipboardScope(scopeStr)
	if err != nil {
		return skill.FailErr(err)
	}

	conflictStr := args.String("conflict", "skip")
	var policy clipboard.ConflictPolicy
	switch conflictStr {
	case "skip":
		policy = clipboard.ConflictSkip
	case "overwrite":
		policy = clipboard.ConflictOverwrite
	default:
		return skill.Fail(fmt.Sprintf("Invalid conflict policy: %s", conflictStr))
	}

	dryRun := args.Bool("dry_run", true)

	raw, err := os.ReadFile(resolvedPath)
	if err != nil {
		return skill.Fail(fmt.Sprintf("Cannot read file: %v", err))
	}

	summary, err := clipboard.Import(s.svc.Clipboard, raw, scope, policy, dryRun)
	if err != nil {
		return skill.Fail(fmt.Sprintf("Invalid export file: %v", err))
	}

	if summary.Total == 0 {
		return skill.OK("No entries in export file")
	}

	if dryRun {
		msg := fmt.Sprintf("Dry run: would import %d entries", summary.Imported)
		if summary.Skipped > 0 {
			msg += fmt.Sprintf(", skip %d (existing)", summary.Skipped)
		}
		msg += "\nSet dry_run=false to perform the import."
		return skill.OK(msg)
	}

	msg := fmt.Sprintf("Imported %d entries to %s scope", summary.Imported, scopeStr)
	if summary.Skipped > 0 {
		msg += fmt.Sprintf(", skipped %d", summary.Skipped)
	}
	return skill.OK(msg)
}
