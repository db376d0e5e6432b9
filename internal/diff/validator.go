package diff

import (
	"fmt"
	"strings"
)

// ValidationResult is the outcome of validating one PatchFile against its
// target content.
type ValidationResult struct {
	Valid      bool
	Errors     []string
	Warnings   []string
	FixedPatch *PatchFile
}

// GetContent resolves the current content of a target file by path, used by
// ValidatePatchSet. Implementations should wrap nexuserr.ErrNotFound when the
// file is absent.
type GetContent func(path string) (string, error)

// Validate checks header counts and context against fileContent for a single
// PatchFile, per spec.md §4.4. New-file patches always validate true and skip
// content checks.
func Validate(pf PatchFile, fileContent string) ValidationResult {
	if pf.IsNewFile {
		return ValidationResult{Valid: true}
	}

	fileLines := splitLines(fileContent)
	result := ValidationResult{Valid: true}
	fixed := pf
	fixed.Hunks = make([]Hunk, len(pf.Hunks))
	anyFix := false

	for hi, h := range pf.Hunks {
		fixedHunk := h
		cr := h.ContextAndRemovalLines()
		add := h.Additions()
		recomputedOld := len(cr)
		recomputedNew := len(cr) - countRemovals(h) + len(add)

		if recomputedOld != h.OldCount || recomputedNew != h.NewCount {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("hunk %d: count mismatch (header said -%d,+%d; recomputed -%d,+%d)",
					hi+1, h.OldCount, h.NewCount, recomputedOld, recomputedNew))
			fixedHunk.OldCount = recomputedOld
			fixedHunk.NewCount = recomputedNew
			anyFix = true
		}

		pos := h.OldStart - 1
		onlyWhitespaceIssues := true
		fixedLines := make([]Line, len(h.Lines))
		copy(fixedLines, h.Lines)

		for li, l := range h.Lines {
			if l.Prefix == PrefixAdd {
				continue
			}
			if pos >= len(fileLines) {
				result.Errors = append(result.Errors,
					fmt.Sprintf("hunk %d: %s beyond end of file at line %d", hi+1, lineKind(l.Prefix), pos+1))
				result.Valid = false
				onlyWhitespaceIssues = false
				pos++
				continue
			}
			actual := fileLines[pos]
			switch {
			case actual == l.Content:
				// exact match
			case strings.TrimRight(actual, " \t") == strings.TrimRight(l.Content, " \t"):
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("hunk %d: whitespace-only mismatch at line %d", hi+1, pos+1))
				fixedLines[li] = Line{Prefix: l.Prefix, Content: actual}
				anyFix = true
			default:
				kind := "context mismatch"
				if l.Prefix == PrefixRemove {
					kind = "removal mismatch"
				}
				result.Errors = append(result.Errors,
					fmt.Sprintf("hunk %d: %s at line %d", hi+1, kind, pos+1))
				result.Valid = false
				onlyWhitespaceIssues = false
			}
			pos++
		}

		if onlyWhitespaceIssues {
			fixedHunk.Lines = fixedLines
		}
		fixed.Hunks[hi] = fixedHunk
	}

	if anyFix && result.Valid {
		result.FixedPatch = &fixed
	}
	return result
}

func lineKind(p LinePrefix) string {
	if p == PrefixRemove {
		return "removal"
	}
	return "context"
}

func countRemovals(h Hunk) int {
	n := 0
	for _, l := range h.Lines {
		if l.Prefix == PrefixRemove {
			n++
		}
	}
	return n
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// ValidatePatchSet validates every file in ps, resolving target content via
// getContent. A file that getContent reports nexuserr.ErrNotFound for (and
// that isn't a new-file patch) produces a single "target file not found"
// error instead of attempting context checks.
func ValidatePatchSet(ps PatchSet, getContent GetContent) map[string]ValidationResult {
	out := make(map[string]ValidationResult, len(ps.Files))
	for _, pf := range ps.Files {
		path := pf.Path()
		if pf.IsNewFile {
			out[path] = ValidationResult{Valid: true}
			continue
		}
		content, err := getContent(path)
		if err != nil {
			out[path] = ValidationResult{
				Valid:  false,
				Errors: []string{fmt.Sprintf("target file not found: %s", path)},
			}
			continue
		}
		out[path] = Validate(pf, content)
	}
	return out
}
