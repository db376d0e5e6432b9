package builtin

import (
	"context"
	"fmt"
	"regexp"

	"github.com/incurian/nexus3/internal/secio"
	"github.com/incurian/nexus3/internal/skill"
)

// maxRegexReplacements bounds unbounded replacements the way the original
// does (count=0 with more matches than this requires an explicit count).
const maxRegexReplacements = 10000

// RegexReplaceSkill performs pattern-based find/replace in a file.
// Grounded in original_source/.../regex_replace.py. Go's RE2 engine
// (regexp) cannot backtrack catastrophically, so the original's
// REGEX_TIMEOUT safeguard has no failure mode to guard against here.
type RegexReplaceSkill struct{ svc *skill.Services }

func NewRegexReplaceSkill(svc *skill.Services) skill.Skill { return &RegexReplaceSkill{svc: svc} }

func (s *RegexReplaceSkill) Name() string { return "regex_replace" }
func (s *RegexReplaceSkill) Description() string {
	return "Replace text in a file using regular expression pattern. " +
		"IMPORTANT: Read the file first to verify your pattern matches the intended text."
}
func (s *RegexReplaceSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path":        map[string]any{"type": "string", "description": "Path to file to edit"},
			"pattern":     map[string]any{"type": "string", "description": "Regular expression pattern to match"},
			"replacement": map[string]any{"type": "string", "description": "Replacement string (supports $1, ${name} backreferences)"},
			"count":       map[string]any{"type": "integer", "default": 0, "description": "Maximum replacements (0 = all)"},
			"ignore_case": map[string]any{"type": "boolean", "default": false, "description": "Case-insensitive matching"},
			"multiline":   map[string]any{"type": "boolean", "default": false, "description": "^ and $ match line boundaries"},
			"dotall":      map[string]any{"type": "boolean", "default": false, "description": ". matches newlines"},
		},
		"required": []string{"path", "pattern", "replacement"},
	}
}

func (s *RegexReplaceSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	path := args.String("path", "")
	if path == "" {
		return skill.Fail("Path is required")
	}
	pattern := args.String("pattern", "")
	if pattern == "" {
		return skill.Fail("Pattern is required")
	}
	replacement := args.String("replacement", "")
	count := args.Int("count", 0)
	ignoreCase := args.Bool("ignore_case", false)
	multiline := args.Bool("multiline", false)
	dotall := args.Bool("dotall", false)

	var flagPrefix string
	if ignoreCase {
		flagPrefix += "i"
	}
	if multiline {
		flagPrefix += "m"
	}
	if dotall {
		flagPrefix += "s"
	}
	exprSrc := pattern
	if flagPrefix != "" {
		exprSrc = "(?" + flagPrefix + ")" + exprSrc
	}
	regex, err := regexp.Compile(exprSrc)
	if err != nil {
		return skill.Fail(fmt.Sprintf("Invalid regex pattern: %v", err))
	}

	resolved, err := skill.ResolvePath(s.svc, path, true, false)
	if err != nil {
		return skill.FailErr(err)
	}
	content, err := secio.ReadText(resolved)
	if err != nil {
		return skill.Fail(fmt.Sprintf("File not found: %s", path))
	}

	allMatches := regex.FindAllStringIndex(content, -1)
	matchCount := len(allMatches)
	if matchCount == 0 {
		return skill.OK(fmt.Sprintf("No matches for pattern in %s", path))
	}

	if matchCount > maxRegexReplacements && count == 0 {
		return skill.Fail(fmt.Sprintf("Pattern matches %d times (max %d). Use count parameter to limit replacements.", matchCount, maxRegexReplacements))
	}

	var newContent string
	var actualCount int
	if count == 0 {
		newContent = regex.ReplaceAllString(content, replacement)
		actualCount = matchCount
	} else {
		newContent = replaceLimited(regex, content, replacement, count)
		actualCount = count
		if matchCount < count {
			actualCount = matchCount
		}
	}

	if newContent == content {
		return skill.OK("Pattern matched but replacement produced no changes")
	}

	if err := secio.WriteBytesAtomic(resolved, []byte(newContent)); err != nil {
		return skill.Fail(fmt.Sprintf("Error: %v", err))
	}

	return skill.OK(fmt.Sprintf("Replaced %d match(es) in %s", actualCount, path))
}

// replaceLimited replaces at most n matches of regex in content, matching
// Python re.sub's count semantics.
func replaceLimited(regex *regexp.Regexp, content, replacement string, n int) string {
	replaced := 0
	return string(regex.ReplaceAllFunc([]byte(content), func(match []byte) []byte {
		if replaced >= n {
			return match
		}
		replaced++
		dst := regex.ReplaceAll(match, []byte(replacement))
		return dst
	}))
}
