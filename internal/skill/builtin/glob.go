package builtin

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/incurian/nexus3/internal/skill"
)

// GlobSkill finds files matching a glob pattern below a base directory.
// Grounded in original_source/.../glob_search.py. The original relies on
// Python's pathlib.Path.glob, whose "**" semantics this compiles by hand
// into a regex matcher (translateGlobPattern) — no library in the corpus
// provides "**" glob matching, so this one concern stays on the standard
// library; see DESIGN.md.
type GlobSkill struct{ svc *skill.Services }

func NewGlobSkill(svc *skill.Services) skill.Skill { return &GlobSkill{svc: svc} }

func (s *GlobSkill) Name() string        { return "glob" }
func (s *GlobSkill) Description() string { return "Find files matching a glob pattern" }
func (s *GlobSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pattern":     map[string]any{"type": "string", "description": "Glob pattern (e.g., '*.go', '**/*.txt', 'src/**/*.js')"},
			"path":        map[string]any{"type": "string", "description": "Base directory to search from (default: current directory)"},
			"max_results": map[string]any{"type": "integer", "default": 100, "description": "Maximum number of results to return (default: 100)"},
			"exclude":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Patterns to exclude (e.g., ['node_modules', '.git'])"},
		},
		"required": []string{"pattern"},
	}
}

// translateGlobPattern compiles a glob with "**" support into an anchored
// regex matched against forward-slash relative paths.
func translateGlobPattern(pattern string) (*regexp.Regexp, error) {
	pattern = filepath.ToSlash(pattern)
	var b strings.Builder
	b.WriteString("^")
	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		if i > 0 {
			b.WriteString("/")
		}
		if seg == "**" {
			b.WriteString(".*")
			continue
		}
		for _, r := range seg {
			switch r {
			case '*':
				b.WriteString("[^/]*")
			case '?':
				b.WriteString("[^/]")
			default:
				b.WriteString(regexp.QuoteMeta(string(r)))
			}
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

func (s *GlobSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	pattern := args.String("pattern", "")
	if pattern == "" {
		return skill.Fail("Pattern is required")
	}
	path := args.String("path", ".")
	maxResults := args.Int("max_results", 100)
	exclude := args.StringSlice("exclude")

	base, err := skill.ResolvePath(s.svc, path, true, true)
	if err != nil {
		return skill.FailErr(err)
	}

	re, err := translateGlobPattern(pattern)
	if err != nil {
		return skill.Fail(fmt.Sprintf("Invalid glob pattern: %v", err))
	}

	var matches []string
	walkErr := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if p == base {
			return nil
		}
		rel, relErr := filepath.Rel(base, p)
		if relErr != nil {
			return nil
		}
		relSlash := filepath.ToSlash(rel)
		if !re.MatchString(relSlash) {
			return nil
		}
		for _, excl := range exclude {
			if strings.Contains(relSlash, excl) {
				return nil
			}
		}
		matches = append(matches, relSlash)
		if len(matches) >= maxResults {
			return fs.SkipAll
		}
		return nil
	})
	if walkErr != nil && walkErr != fs.SkipAll {
		return skill.Fail(fmt.Sprintf("Error searching files: %v", walkErr))
	}

	if len(matches) == 0 {
		return skill.OK(fmt.Sprintf("No files matching '%s' in %s", pattern, path))
	}

	sort.Strings(matches)
	result := strings.Join(matches, "\n")
	if len(matches) >= maxResults {
		result += fmt.Sprintf("\n\n(Limited to %d results)", maxResults)
	}
	return skill.OK(result)
}
