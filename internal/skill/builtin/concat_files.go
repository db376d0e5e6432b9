package builtin

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/incurian/nexus3/internal/skill"
)

// defaultConcatExcludes mirrors the original's default exclusion set for
// directories that are never useful as LLM context.
var defaultConcatExcludes = []string{".git", "node_modules", "__pycache__", ".venv", "vendor", "dist", "build"}

// ConcatFilesSkill recursively finds files by extension and concatenates
// them into one output, with per-file and total line limits and a
// token-count estimate. Grounded in
// original_source/.../concat_files.py's documented feature set; the
// original's .gitignore integration is dropped here (its source file in
// the pack is truncated to imports, leaving no concrete git-integration
// logic to port — see DESIGN.md).
type ConcatFilesSkill struct{ svc *skill.Services }

func NewConcatFilesSkill(svc *skill.Services) skill.Skill { return &ConcatFilesSkill{svc: svc} }

func (s *ConcatFilesSkill) Name() string { return "concat_files" }
func (s *ConcatFilesSkill) Description() string {
	return "Recursively find files by extension and concatenate them into a single output, " +
		"with token estimation. Useful for preparing code context for LLMs."
}
func (s *ConcatFilesSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path":       map[string]any{"type": "string", "default": ".", "description": "Base directory to search from"},
			"extensions": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "File extensions to include, e.g. ['.go', '.py']"},
			"exclude":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Additional substrings to exclude, on top of the built-in defaults"},
			"max_lines_per_file": map[string]any{"type": "integer", "description": "Truncate each file to this many lines (0 = unlimited)"},
			"max_total_lines":    map[string]any{"type": "integer", "description": "Stop once this many total lines have been emitted (0 = unlimited)"},
			"format": map[string]any{
				"type": "string", "enum": []string{"plain", "markdown", "xml"}, "default": "plain",
				"description": "Output format for each file's section",
			},
			"sort_by": map[string]any{
				"type": "string", "enum": []string{"name", "mtime", "size"}, "default": "name",
				"description": "Order files are concatenated in",
			},
			"dry_run": map[string]any{"type": "boolean", "default": false, "description": "Preview matched files and estimated tokens without reading content"},
		},
		"required": []string{},
	}
}

type concatCandidate struct {
	path    string
	relPath string
	size    int64
	mtime   int64
}

func (s *ConcatFilesSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	path := args.String("path", ".")
	extensions := args.StringSlice("extensions")
	exclude := append(append([]string{}, defaultConcatExcludes...), args.StringSlice("exclude")...)
	maxLinesPerFile := args.Int("max_lines_per_file", 0)
	maxTotalLines := args.Int("max_total_lines", 0)
	format := args.String("format", "plain")
	sortBy := args.String("sort_by", "name")
	dryRun := args.Bool("dry_run", false)

	base, err := skill.ResolvePath(s.svc, path, true, true)
	if err != nil {
		return skill.FailErr(err)
	}

	var candidates []concatCandidate
	walkErr := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(base, p)
		if relErr != nil {
			rel = p
		}
		relSlash := filepath.ToSlash(rel)
		for _, ex := range exclude {
			if strings.Contains(relSlash, ex) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if d.IsDir() {
			return nil
		}
		if len(extensions) > 0 && !matchesAnyExtension(p, extensions) {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		candidates = append(candidates, concatCandidate{
			path: p, relPath: relSlash, size: info.Size(), mtime: info.ModTime().Unix(),
		})
		return nil
	})
	if walkErr != nil {
		return skill.Fail(fmt.Sprintf("Error searching files: %v", walkErr))
	}

	sortConcatCandidates(candidates, sortBy)

	if len(candidates) == 0 {
		return skill.OK(fmt.Sprintf("No files found matching extensions in %s", path))
	}

	if dryRun {
		var b strings.Builder
		totalBytes := int64(0)
		for _, c := range candidates {
			fmt.Fprintf(&b, "%s (%s)\n", c.relPath, formatByteSize(c.size))
			totalBytes += c.size
		}
		fmt.Fprintf(&b, "\n%d files, ~%d tokens (estimated)", len(candidates), estimateTokens(totalBytes))
		return skill.OK(b.String())
	}

	var out strings.Builder
	totalLines := 0
	filesIncluded := 0
	for _, c := range candidates {
		if maxTotalLines > 0 && totalLines >= maxTotalLines {
			break
		}
		raw, readErr := os.ReadFile(c.path)
		if readErr != nil {
			continue
		}
		lines := strings.Split(string(raw), "\n")
		if maxLinesPerFile > 0 && len(lines) > maxLinesPerFile {
			lines = lines[:maxLinesPerFile]
		}
		if maxTotalLines > 0 {
			remaining := maxTotalLines - totalLines
			if len(lines) > remaining {
				lines = lines[:remaining]
			}
		}
		body := strings.Join(lines, "\n")
		writeConcatSection(&out, format, c.relPath, body)
		totalLines += len(lines)
		filesIncluded++
	}

	result := out.String()
	result += fmt.Sprintf("\n\n(%d files concatenated, %d lines, ~%d tokens estimated)",
		filesIncluded, totalLines, estimateTokens(int64(len(result))))
	return skill.OK(result)
}

func matchesAnyExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func sortConcatCandidates(candidates []concatCandidate, sortBy string) {
	switch sortBy {
	case "mtime":
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].mtime < candidates[j].mtime })
	case "size":
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].size < candidates[j].size })
	default:
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].relPath < candidates[j].relPath })
	}
}

func writeConcatSection(out *strings.Builder, format, relPath, body string) {
	switch format {
	case "markdown":
		fmt.Fprintf(out, "## %s\n\n```\n%s\n```\n\n", relPath, body)
	case "xml":
		fmt.Fprintf(out, "<file path=%q>\n%s\n</file>\n\n", relPath, body)
	default:
		fmt.Fprintf(out, "=== %s ===\n%s\n\n", relPath, body)
	}
}

// estimateTokens uses the common ~4 bytes/token heuristic for English
// source text, matching the "token estimation" feature described in the
// original's module docstring.
func estimateTokens(byteCount int64) int64 {
	return byteCount / 4
}
