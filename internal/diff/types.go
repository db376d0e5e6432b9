// Package diff implements the unified-diff patch engine: parse (Parse),
// validate (Validate/ValidatePatchSet), and apply (Apply) in strict,
// tolerant, and fuzzy matching modes, per spec.md §3-§4.3-§4.5.
package diff

// LinePrefix classifies a single line within a Hunk.
type LinePrefix byte

const (
	PrefixContext LinePrefix = ' '
	PrefixRemove  LinePrefix = '-'
	PrefixAdd     LinePrefix = '+'
)

// Line is one prefixed line inside a Hunk.
type Line struct {
	Prefix  LinePrefix
	Content string
}

// Hunk is a contiguous change region: two (start, count) pairs plus an
// ordered list of prefixed lines and an optional trailing function-context
// string captured from the "@@ ... @@ <context>" header.
type Hunk struct {
	OldStart    int
	OldCount    int
	NewStart    int
	NewCount    int
	Lines       []Line
	FuncContext string
}

// ContextAndRemovalLines returns the lines this hunk expects to find in the
// target file at OldStart (context and removal lines, in order).
func (h Hunk) ContextAndRemovalLines() []Line {
	out := make([]Line, 0, len(h.Lines))
	for _, l := range h.Lines {
		if l.Prefix == PrefixContext || l.Prefix == PrefixRemove {
			out = append(out, l)
		}
	}
	return out
}

// Additions returns the addition lines of this hunk, in order.
func (h Hunk) Additions() []Line {
	out := make([]Line, 0, len(h.Lines))
	for _, l := range h.Lines {
		if l.Prefix == PrefixAdd {
			out = append(out, l)
		}
	}
	return out
}

// IsNewFileHunk reports whether this hunk represents whole-file creation
// (old_start=0, old_count=0, per spec.md §3).
func (h Hunk) IsNewFileHunk() bool {
	return h.OldStart == 0 && h.OldCount == 0
}

// PatchFile is the parsed diff for a single file: old/new paths, ordered
// hunks, and creation/deletion flags.
type PatchFile struct {
	OldPath   string
	NewPath   string
	Hunks     []Hunk
	IsNewFile bool
	IsDeleted bool
}

// Path returns the effective target path: NewPath for edits/creates,
// OldPath for deletions.
func (p PatchFile) Path() string {
	if p.IsDeleted {
		return p.OldPath
	}
	return p.NewPath
}

// PatchSet is an ordered list of per-file patches parsed from one diff blob.
type PatchSet struct {
	Files []PatchFile
}
