package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/incurian/nexus3/internal/clipboard"
	"github.com/incurian/nexus3/internal/skill"
)

// ClipboardTagSkill manages tags: list, add, remove, create, delete.
// Grounded in original_source/.../clipboard_tag.py's ClipboardTagSkill.
// "create" and "delete" are replicated as the stubs the original ships
// (tags are implicitly created on add; delete is not yet implemented there)
// rather than silently completing a feature the source never finished —
// see DESIGN.md's C11 skill table.
type ClipboardTagSkill struct{ svc *skill.Services }

func NewClipboardTagSkill(svc *skill.Services) skill.Skill { return &ClipboardTagSkill{svc: svc} }

func (s *ClipboardTagSkill) Name() string { return "clipboard_tag" }
func (s *ClipboardTagSkill) Description() string {
	return "Manage clipboard entry tags: list all tags, add/remove tags from entries, create/delete tags."
}
func (s *ClipboardTagSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action":      map[string]any{"type": "string", "enum": []string{"list", "add", "remove", "create", "delete"}, "description": "Action to perform"},
			"name":        map[string]any{"type": "string", "description": "Tag name (for add/remove/create/delete)"},
			"entry_key":   map[string]any{"type": "string", "description": "Clipboard entry key (for add/remove)"},
			"scope":       map[string]any{"type": "string", "enum": []string{"agent", "project", "system"}, "description": "Entry scope (for add/remove, required with entry_key)"},
			"description": map[string]any{"type": "string", "description": "Tag description (for create)"},
		},
		"required": []string{"action"},
	}
}

func (s *ClipboardTagSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	if s.svc.Clipboard == nil {
		return skill.Fail("Clipboard service not available")
	}
	action := args.String("action", "")
	name := args.StringPtr("name")
	entryKey := args.StringPtr("entry_key")
	scope := args.StringPtr("scope")

	switch action {
	case "list":
		return s.listTags(scope)
	case "add":
		return s.addTag(name, entryKey, scope)
	case "remove":
		return s.removeTag(name, entryKey, scope)
	case "create":
		return s.createTag(name)
	case "delete":
		return s.deleteTag(name)
	default:
		return skill.Fail(fmt.Sprintf("Unknown action: %s", action))
	}
}

func (s *ClipboardTagSkill) listTags(scopeArg *string) skill.Result {
	var scope clipboard.Scope
	if scopeArg != nil {
		sc, err := parseClipboardScope(*scopeArg)
		if err != nil {
			return skill.FailErr(err)
		}
		scope = sc
	}
	tags, err := s.svc.Clipboard.ListTags(scope)
	if err != nil {
		return skill.FailErr(err)
	}
	if len(tags) == 0 {
		return skill.OK("No tags found")
	}
	lines := []string{fmt.Sprintf("Tags (%d):", len(tags)), ""}
	for _, t := range tags {
		lines = append(lines, "  - "+t)
	}
	return skill.OK(strings.Join(lines, "\n"))
}

func (s *ClipboardTagSkill) addTag(name, entryKey, scopeArg *string) skill.Result {
	if name == nil || *name == "" {
		return skill.Fail("name is required for add action")
	}
	if entryKey == nil || *entryKey == "" {
		return skill.Fail("entry_key is required for add action")
	}
	if scopeArg == nil || *scopeArg == "" {
		return skill.Fail("scope is required for add action")
	}
	scope, err := parseClipboardScope(*scopeArg)
	if err != nil {
		return skill.FailErr(err)
	}
	if _, err := s.svc.Clipboard.AddTags(*entryKey, scope, []string{*name}); err != nil {
		return skill.FailErr(err)
	}
	return skill.OK(fmt.Sprintf("Added tag '%s' to '%s' [%s]", *name, *entryKey, *scopeArg))
}

func (s *ClipboardTagSkill) removeTag(name, entryKey, scopeArg *string) skill.Result {
	if name == nil || *name == "" {
		return skill.Fail("name is required for remove action")
	}
	if entryKey == nil || *entryKey == "" {
		return skill.Fail("entry_key is required for remove action")
	}
	if scopeArg == nil || *scopeArg == "" {
		return skill.Fail("scope is required for remove action")
	}
	scope, err := parseClipboardScope(*scopeArg)
	if err != nil {
		return skill.FailErr(err)
	}
	if _, err := s.svc.Clipboard.RemoveTags(*entryKey, scope, []string{*name}); err != nil {
		return skill.FailErr(err)
	}
	return skill.OK(fmt.Sprintf("Removed tag '%s' from '%s' [%s]", *name, *entryKey, *scopeArg))
}

func (s *ClipboardTagSkill) createTag(name *string) skill.Result {
	if name == nil || *name == "" {
		return skill.Fail("name is required for create action")
	}
	// Tags are created implicitly on add; this action only confirms intent.
	return skill.OK(fmt.Sprintf("Tag '%s' ready to use (tags are auto-created when added to entries)", *name))
}

func (s *ClipboardTagSkill) deleteTag(name *string) skill.Result {
	if name == nil || *name == "" {
		return skill.Fail("name is required for delete action")
	}
	return skill.Fail("delete_tag not yet implemented - remove tags from entries individually")
}
