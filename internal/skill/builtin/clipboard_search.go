package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/incurian/nexus3/internal/clipboard"
	"github.com/incurian/nexus3/internal/skill"
)

// ClipboardSearchSkill finds entries whose content, key, or description
// contains query. Grounded in
// original_source/.../clipboard_search.py's ClipboardSearchSkill.
type ClipboardSearchSkill struct{ svc *skill.Services }

func NewClipboardSearchSkill(svc *skill.Services) skill.Skill { return &ClipboardSearchSkill{svc: svc} }

func (s *ClipboardSearchSkill) Name() string { return "clipboard_search" }
func (s *ClipboardSearchSkill) Description() string {
	return "Search clipboard entries by content or description substring."
}
func (s *ClipboardSearchSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string", "description": "Search substring (case-insensitive)"},
			"scope": map[string]any{"type": "string", "enum": []string{"agent", "project", "system"}, "description": "Scope to search (omit for all accessible scopes)"},
			"max_results": map[string]any{
				"type": "integer", "default": 50, "minimum": 1, "maximum": 100,
				"description": "Maximum results to return",
			},
		},
		"required": []string{"query"},
	}
}

func (s *ClipboardSearchSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	query := args.String("query", "")
	if query == "" {
		return skill.Fail("Query cannot be empty")
	}
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
	maxResults := args.Int("max_results", 50)

	results, err := s.svc.Clipboard.Search(query, scope, true, true, true, nil)
	if err != nil {
		return skill.FailErr(err)
	}
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}

	if len(results) == 0 {
		scopeMsg := ""
		if scopeStr != "" {
			scopeMsg = fmt.Sprintf(" in %s scope", scopeStr)
		}
		return skill.OK(fmt.Sprintf("No matches found for '%s'%s", query, scopeMsg))
	}

	lines := []string{fmt.Sprintf("Found %d match(es) for '%s':", len(results), query), ""}
	now := s.svc.Clipboard.Now()
	for _, e := range results {
		lines = append(lines, clipboard.FormatEntryDetail(e, now, false), "")
	}
	return skill.OK(strings.Join(lines, "\n"))
}
