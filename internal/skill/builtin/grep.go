package builtin

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/incurian/nexus3/internal/skill"
)

// grepConcurrency bounds how many files are read and scanned at once,
// per spec.md §5's "blocking I/O dispatched to a worker pool" for
// multi-file skills.
const grepConcurrency = 8

// GrepSkill searches file contents using a regular expression, either a
// single file or a directory tree. Grounded in original_source/.../grep.py.
type GrepSkill struct{ svc *skill.Services }

func NewGrepSkill(svc *skill.Services) skill.Skill { return &GrepSkill{svc: svc} }

func (s *GrepSkill) Name() string        { return "grep" }
func (s *GrepSkill) Description() string { return "Search file contents using regex pattern" }
func (s *GrepSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pattern":     map[string]any{"type": "string", "description": "Regular expression pattern to search for"},
			"path":        map[string]any{"type": "string", "description": "File or directory to search"},
			"recursive":   map[string]any{"type": "boolean", "default": true, "description": "Search subdirectories recursively (default: true)"},
			"ignore_case": map[string]any{"type": "boolean", "default": false, "description": "Case-insensitive search (default: false)"},
			"max_matches": map[string]any{"type": "integer", "default": 100, "description": "Maximum number of matches to return (default: 100)"},
		},
		"required": []string{"pattern", "path"},
	}
}

func (s *GrepSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	pattern := args.String("pattern", "")
	if pattern == "" {
		return skill.Fail("Pattern is required")
	}
	path := args.String("path", "")
	if path == "" {
		return skill.Fail("Path is required")
	}
	recursive := args.Bool("recursive", true)
	ignoreCase := args.Bool("ignore_case", false)
	maxMatches := args.Int("max_matches", 100)

	exprSrc := pattern
	if ignoreCase {
		exprSrc = "(?i)" + exprSrc
	}
	regex, err := regexp.Compile(exprSrc)
	if err != nil {
		return skill.Fail(fmt.Sprintf("Invalid regex pattern: %v", err))
	}

	searchPath, err := skill.ResolvePath(s.svc, path, true, false)
	if err != nil {
		return skill.FailErr(err)
	}

	info, err := os.Stat(searchPath)
	if err != nil {
		return skill.Fail(fmt.Sprintf("Path not found: %s", path))
	}

	var filesToSearch []string
	if !info.IsDir() {
		filesToSearch = []string{searchPath}
	} else if recursive {
		_ = filepath.WalkDir(searchPath, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() {
				filesToSearch = append(filesToSearch, p)
			}
			return nil
		})
	} else {
		entries, rdErr := os.ReadDir(searchPath)
		if rdErr == nil {
			for _, e := range entries {
				if !e.IsDir() {
					filesToSearch = append(filesToSearch, filepath.Join(searchPath, e.Name()))
				}
			}
		}
	}

	type fileResult struct {
		searched bool
		hasMatch bool
		lines    []string
	}

	results := make([]fileResult, len(filesToSearch))
	sem := semaphore.NewWeighted(grepConcurrency)
	g, gctx := errgroup.WithContext(ctx)

	for i, fp := range filesToSearch {
		i, fp := i, fp
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)

			raw, readErr := os.ReadFile(fp)
			if readErr != nil || !utf8.Valid(raw) {
				return nil
			}

			rel, relErr := filepath.Rel(searchPath, fp)
			if relErr != nil {
				rel = fp
			}

			var r fileResult
			r.searched = true
			lineNum := 0
			for _, line := range strings.Split(strings.TrimSuffix(string(raw), "\n"), "\n") {
				lineNum++
				if regex.MatchString(line) {
					r.hasMatch = true
					r.lines = append(r.lines, rel+":"+strconv.Itoa(lineNum)+": "+strings.TrimRight(line, "\r"))
				}
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()

	var matches []string
	filesSearched := 0
	filesWithMatches := 0

	for _, r := range results {
		if r.searched {
			filesSearched++
		}
		if r.hasMatch {
			filesWithMatches++
		}
		for _, line := range r.lines {
			if len(matches) >= maxMatches {
				break
			}
			matches = append(matches, line)
		}
	}

	if len(matches) == 0 {
		return skill.OK(fmt.Sprintf("No matches for '%s' in %s", pattern, path))
	}

	result := strings.Join(matches, "\n")
	summary := fmt.Sprintf("\n\n(%d matches in %d files, %d files searched)", len(matches), filesWithMatches, filesSearched)
	if len(matches) >= maxMatches {
		summary = fmt.Sprintf("\n\n(Limited to %d matches, %d+ files matched, %d files searched)", maxMatches, filesWithMatches, filesSearched)
	}
	return skill.OK(result + summary)
}
