// Package ioutil holds the named size/line budgets shared across the
// clipboard and skill layers, per spec.md §9's "tuning parameters" note.
package ioutil

const (
	// ClipboardHardCapBytes is the maximum size of a single clipboard entry;
	// writes above this are rejected.
	ClipboardHardCapBytes = 1 << 20 // 1 MiB

	// ClipboardSoftWarnBytes is the size above which a clipboard write still
	// succeeds but returns a warning.
	ClipboardSoftWarnBytes = 100 << 10 // 100 KiB

	// FileReadCapBytes is the named per-file read budget for read_file/grep.
	// Neither skill references it: both read whole files of any size.
	FileReadCapBytes = 10 << 20 // 10 MiB

	// OutputCapBytes is the named output budget for streaming skills (tail,
	// grep, read_file numbered output). No skill references it; their output
	// is not truncated by size.
	OutputCapBytes = 1 << 20 // 1 MiB

	// DefaultReadLineLimit is the named default read-line budget. read_file
	// does not reference it: with `limit` unset it returns every line.
	DefaultReadLineLimit = 10_000

	// DefaultTailLines is tail's default line count.
	DefaultTailLines = 10

	// MaxRegexReplacements bounds regex_replace when count<=0 is given.
	MaxRegexReplacements = 10_000

	// RegexTimeoutSeconds is the original's regex-substitution time budget.
	// regex_replace applies no timeout: Go's RE2-based regexp runs in linear
	// time and cannot backtrack catastrophically.
	RegexTimeoutSeconds = 5
)
