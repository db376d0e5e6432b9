package diff

import (
	"strconv"
	"strings"
)

// Parse parses one unified-diff text blob (standard or git-extended framing)
// into a possibly empty ordered list of PatchFile, per spec.md §4.3.
func Parse(text string) []PatchFile {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	var files []PatchFile

	i := 0
	for i < len(lines) {
		if !looksLikeFileStart(lines, i) {
			i++
			continue
		}
		pf, consumed := parseOneFile(lines, i)
		i += consumed
		if pf != nil && keepFile(*pf) {
			files = append(files, *pf)
		}
	}
	return files
}

func keepFile(pf PatchFile) bool {
	return len(pf.Hunks) > 0 || pf.IsNewFile || pf.IsDeleted
}

func looksLikeFileStart(lines []string, i int) bool {
	if strings.HasPrefix(lines[i], "diff --git ") {
		return true
	}
	if strings.HasPrefix(lines[i], "--- ") && i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+++ ") {
		return true
	}
	return false
}

// parseOneFile parses a single file section beginning at lines[i] and
// returns the parsed file plus the number of lines consumed.
func parseOneFile(lines []string, i int) (*PatchFile, int) {
	start := i
	pf := &PatchFile{}

	if strings.HasPrefix(lines[i], "diff --git ") {
		oldPath, newPath, ok := parseGitDiffLine(lines[i])
		if ok {
			pf.OldPath, pf.NewPath = oldPath, newPath
		}
		i++
		// Skip index/mode/similarity metadata lines until we hit --- or the
		// next file section.
		for i < len(lines) && !strings.HasPrefix(lines[i], "--- ") && !strings.HasPrefix(lines[i], "diff --git ") {
			i++
		}
	}

	if i < len(lines) && strings.HasPrefix(lines[i], "--- ") && i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+++ ") {
		oldHeader := strings.TrimPrefix(lines[i], "--- ")
		newHeader := strings.TrimPrefix(lines[i+1], "+++ ")
		oldPath, oldIsNull := parseHeaderPath(oldHeader)
		newPath, newIsNull := parseHeaderPath(newHeader)

		if oldIsNull {
			pf.IsNewFile = true
		} else {
			pf.OldPath = oldPath
		}
		if newIsNull {
			pf.IsDeleted = true
		} else {
			pf.NewPath = newPath
		}
		i += 2
	}

	// Consume hunks until the next file section or end of input.
	for i < len(lines) {
		if strings.HasPrefix(lines[i], "diff --git ") {
			break
		}
		if strings.HasPrefix(lines[i], "--- ") && i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+++ ") {
			break
		}
		if strings.HasPrefix(lines[i], "@@ ") || lines[i] == "@@" {
			h, consumed, ok := parseHunk(lines, i)
			if ok {
				pf.Hunks = append(pf.Hunks, h)
			}
			i += consumed
			continue
		}
		i++
	}

	return pf, i - start
}

// parseGitDiffLine extracts old/new paths from "diff --git a/<old> b/<new>".
// It tolerates paths containing spaces by splitting at the midpoint marker
// " a/"..." b/", falling back to a naive split when ambiguous.
func parseGitDiffLine(line string) (oldPath, newPath string, ok bool) {
	rest := strings.TrimPrefix(line, "diff --git ")
	idx := strings.Index(rest, " b/")
	if idx < 0 {
		return "", "", false
	}
	left := rest[:idx]
	right := rest[idx+len(" b/"):]
	oldPath = strings.TrimPrefix(left, "a/")
	newPath = right
	return oldPath, newPath, true
}

// parseHeaderPath strips a leading "a/"/"b/" prefix and any tab-suffixed
// timestamp, and reports whether the header names /dev/null.
func parseHeaderPath(header string) (path string, isNull bool) {
	if idx := strings.IndexByte(header, '\t'); idx >= 0 {
		header = header[:idx]
	}
	header = strings.TrimRight(header, "\r")
	if header == "/dev/null" {
		return "", true
	}
	header = strings.TrimPrefix(header, "a/")
	header = strings.TrimPrefix(header, "b/")
	return header, false
}

// parseHunk parses "@@ -<os>[,<oc>] +<ns>[,<nc>] @@ [context]" followed by
// its body lines, stopping at the next hunk/file header or end of input.
// Malformed headers are silently skipped (ok=false).
func parseHunk(lines []string, i int) (Hunk, int, bool) {
	header := lines[i]
	h, ok := parseHunkHeader(header)
	if !ok {
		return Hunk{}, 1, false
	}

	j := i + 1
	for j < len(lines) {
		line := lines[j]
		if strings.HasPrefix(line, "@@ ") || line == "@@" ||
			strings.HasPrefix(line, "diff --git ") ||
			(strings.HasPrefix(line, "--- ") && j+1 < len(lines) && strings.HasPrefix(lines[j+1], "+++ ")) {
			break
		}
		if line == `\ No newline at end of file` {
			j++
			continue
		}
		if line == "" {
			// LLM-emitted diffs frequently omit the leading space on blank
			// context lines; tolerate it as an empty context line.
			h.Lines = append(h.Lines, Line{Prefix: PrefixContext, Content: ""})
			j++
			continue
		}
		switch line[0] {
		case ' ', '-', '+':
			h.Lines = append(h.Lines, Line{Prefix: LinePrefix(line[0]), Content: line[1:]})
		default:
			// Not a recognized hunk-body line; treat as end of hunk body so
			// the outer loop can reconsider it (defensive, rarely hit since
			// looksLikeFileStart/header checks above already catch the
			// common terminators).
			return h, j - i, true
		}
		j++
	}
	return h, j - i, true
}

func parseHunkHeader(header string) (Hunk, bool) {
	if !strings.HasPrefix(header, "@@ ") && !strings.HasPrefix(header, "@@") {
		return Hunk{}, false
	}
	// Find the closing "@@" after the opening one.
	rest := strings.TrimPrefix(header, "@@")
	end := strings.Index(rest, "@@")
	if end < 0 {
		return Hunk{}, false
	}
	spec := strings.TrimSpace(rest[:end])
	funcCtx := strings.TrimSpace(rest[end+2:])

	fields := strings.Fields(spec)
	if len(fields) < 2 {
		return Hunk{}, false
	}
	oldStart, oldCount, ok := parseRange(fields[0], '-')
	if !ok {
		return Hunk{}, false
	}
	newStart, newCount, ok := parseRange(fields[1], '+')
	if !ok {
		return Hunk{}, false
	}
	return Hunk{
		OldStart:    oldStart,
		OldCount:    oldCount,
		NewStart:    newStart,
		NewCount:    newCount,
		FuncContext: funcCtx,
	}, true
}

// parseRange parses "<sign><start>[,<count>]", defaulting count to 1 when omitted.
func parseRange(field string, sign byte) (start, count int, ok bool) {
	if len(field) == 0 || field[0] != sign {
		return 0, 0, false
	}
	field = field[1:]
	parts := strings.SplitN(field, ",", 2)
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	if len(parts) == 1 {
		return start, 1, true
	}
	count, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return start, count, true
}
