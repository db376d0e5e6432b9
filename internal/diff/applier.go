package diff

import (
	"fmt"
	"strings"
)

// Mode selects the applier's matching strictness.
type Mode string

const (
	Strict   Mode = "strict"
	Tolerant Mode = "tolerant"
	Fuzzy    Mode = "fuzzy"
)

const (
	DefaultFuzzyThreshold = 0.8
	MinFuzzyThreshold     = 0.5
	MaxFuzzyThreshold     = 1.0
	fuzzyWindow           = 50
)

// HunkFailure records why a single hunk could not be applied.
type HunkFailure struct {
	Index  int
	Reason string
}

// ApplyResult is the outcome of applying a PatchFile to file content.
type ApplyResult struct {
	Success       bool
	NewContent    string
	AppliedHunks  []int
	FailedHunks   []HunkFailure
	Warnings      []string
	HadTrailingLF bool
}

// Apply applies pf's hunks to originalContent in mode, returning an
// ApplyResult per spec.md §4.5. On any per-hunk failure the whole operation
// is rolled back: NewContent equals originalContent and the caller can
// inspect AppliedHunks/FailedHunks for diagnostics.
func Apply(pf PatchFile, originalContent string, mode Mode, fuzzyThreshold float64) ApplyResult {
	if fuzzyThreshold <= 0 {
		fuzzyThreshold = DefaultFuzzyThreshold
	}
	if fuzzyThreshold < MinFuzzyThreshold {
		fuzzyThreshold = MinFuzzyThreshold
	}
	if fuzzyThreshold > MaxFuzzyThreshold {
		fuzzyThreshold = MaxFuzzyThreshold
	}

	hadTrailingLF := originalContent == "" || strings.HasSuffix(originalContent, "\n")
	buf := splitLines(originalContent)

	result := ApplyResult{HadTrailingLF: hadTrailingLF}
	offset := 0

	for idx, h := range pf.Hunks {
		if h.IsNewFileHunk() {
			additions := linesText(h.Additions())
			buf = append(additions, buf...)
			offset += len(additions)
			result.AppliedHunks = append(result.AppliedHunks, idx)
			continue
		}

		expected := h.ContextAndRemovalLines()
		target := h.OldStart - 1 + offset

		pos, warn, ok := locateHunk(buf, expected, target, mode, fuzzyThreshold)
		if !ok {
			result.FailedHunks = append(result.FailedHunks, HunkFailure{
				Index:  idx,
				Reason: fmt.Sprintf("hunk %d: could not locate matching context", idx+1),
			})
			return ApplyResult{
				Success:       false,
				NewContent:    originalContent,
				AppliedHunks:  result.AppliedHunks,
				FailedHunks:   result.FailedHunks,
				HadTrailingLF: hadTrailingLF,
			}
		}
		if warn != "" {
			result.Warnings = append(result.Warnings, warn)
		}

		newBuf, additions, removals, applyErr := applyHunkAt(buf, h, pos)
		if applyErr != "" {
			result.FailedHunks = append(result.FailedHunks, HunkFailure{Index: idx, Reason: applyErr})
			return ApplyResult{
				Success:       false,
				NewContent:    originalContent,
				AppliedHunks:  result.AppliedHunks,
				FailedHunks:   result.FailedHunks,
				HadTrailingLF: hadTrailingLF,
			}
		}
		buf = newBuf
		offset += additions - removals
		result.AppliedHunks = append(result.AppliedHunks, idx)
	}

	result.Success = true
	result.NewContent = joinLines(buf, hadTrailingLF)
	return result
}

func linesText(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Content
	}
	return out
}

func joinLines(buf []string, trailingLF bool) string {
	joined := strings.Join(buf, "\n")
	if trailingLF && len(buf) > 0 {
		joined += "\n"
	}
	return joined
}

// locateHunk finds the buffer position matching expected, according to mode.
// It returns a warning string (possibly empty) describing a fuzzy deviation.
func locateHunk(buf []string, expected []Line, target int, mode Mode, fuzzyThreshold float64) (pos int, warning string, ok bool) {
	switch mode {
	case Fuzzy:
		return locateFuzzy(buf, expected, target, fuzzyThreshold)
	default:
		eq := exactEqual
		if mode == Tolerant {
			eq = trimEqual
		}
		if matchesAt(buf, expected, target, eq) {
			return target, "", true
		}
		return 0, "", false
	}
}

func exactEqual(a, b string) bool { return a == b }
func trimEqual(a, b string) bool {
	return strings.TrimRight(a, " \t") == strings.TrimRight(b, " \t")
}

func matchesAt(buf []string, expected []Line, pos int, eq func(a, b string) bool) bool {
	if pos < 0 || pos+len(expected) > len(buf) {
		return false
	}
	for i, l := range expected {
		if !eq(buf[pos+i], l.Content) {
			return false
		}
	}
	return true
}

func locateFuzzy(buf []string, expected []Line, target int, threshold float64) (pos int, warning string, ok bool) {
	if len(expected) == 0 {
		if target >= 0 && target <= len(buf) {
			return target, "", true
		}
		return 0, "", false
	}

	bestPos := -1
	bestRatio := -1.0
	expectedText := joinLineContents(expected)

	lo := target - fuzzyWindow
	hi := target + fuzzyWindow
	if lo < 0 {
		lo = 0
	}
	if hi > len(buf)-len(expected) {
		hi = len(buf) - len(expected)
	}
	for p := lo; p <= hi; p++ {
		candidate := strings.Join(buf[p:p+len(expected)], "\n")
		ratio := similarityRatio(expectedText, candidate)
		if ratio > bestRatio {
			bestRatio = ratio
			bestPos = p
		}
	}

	if bestPos < 0 || bestRatio < threshold {
		return 0, "", false
	}
	if bestPos != target {
		pct := int(bestRatio*100 + 0.5)
		return bestPos, fmt.Sprintf("fuzzy match (%d%% similarity at line %d)", pct, bestPos+1), true
	}
	return bestPos, "", true
}

func joinLineContents(lines []Line) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.Content
	}
	return strings.Join(parts, "\n")
}

// similarityRatio mirrors Python difflib.SequenceMatcher's ratio: 2*M / T
// where M is the total length of matching blocks and T is the combined
// length of both strings, computed here via a straightforward LCS-based
// approximation over lines-as-tokens would be costly for long text, so we
// operate at the byte level with a classic dynamic-programming LCS, which is
// equivalent for the deterministic-similarity purpose §4.5 requires.
func similarityRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	m := lcsLength(a, b)
	return 2.0 * float64(m) / float64(len(a)+len(b))
}

func lcsLength(a, b string) int {
	n, m := len(a), len(b)
	prev := make([]int, m+1)
	curr := make([]int, m+1)
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[m]
}

// applyHunkAt performs the line-buffer splice for h at pos (already located),
// returning the new buffer, the counts of additions/removals consumed (for
// offset bookkeeping), and a non-empty error string on failure.
func applyHunkAt(buf []string, h Hunk, pos int) (newBuf []string, additions, removals int, errMsg string) {
	var out []string
	out = append(out, buf[:pos]...)

	cursor := pos
	for _, l := range h.Lines {
		switch l.Prefix {
		case PrefixContext:
			if cursor >= len(buf) {
				return nil, 0, 0, "context line ran past end of buffer"
			}
			out = append(out, buf[cursor])
			cursor++
		case PrefixRemove:
			if cursor >= len(buf) {
				return nil, 0, 0, "removal line ran past end of buffer"
			}
			cursor++
			removals++
		case PrefixAdd:
			out = append(out, l.Content)
			additions++
		}
	}
	out = append(out, buf[cursor:]...)
	return out, additions, removals, ""
}
