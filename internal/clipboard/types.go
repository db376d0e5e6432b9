// Package clipboard implements the scoped clipboard store: agent-local,
// project-persistent, and system-persistent entry storage with tag
// filtering, TTL expiry, and permission-gated access.
package clipboard

import (
	"strings"

	"github.com/google/uuid"
)

// Scope is a lifetime/visibility namespace for clipboard entries.
type Scope string

const (
	ScopeAgent   Scope = "agent"
	ScopeProject Scope = "project"
	ScopeSystem  Scope = "system"
)

// ParseScope parses the canonical string form of a Scope.
func ParseScope(s string) (Scope, bool) {
	switch Scope(s) {
	case ScopeAgent, ScopeProject, ScopeSystem:
		return Scope(s), true
	default:
		return "", false
	}
}

// InsertionMode selects how pasted content is spliced into a target file.
type InsertionMode string

const (
	ModeAfterLine       InsertionMode = "after_line"
	ModeBeforeLine      InsertionMode = "before_line"
	ModeReplaceLines    InsertionMode = "replace_lines"
	ModeAtMarkerReplace InsertionMode = "at_marker_replace"
	ModeAtMarkerAfter   InsertionMode = "at_marker_after"
	ModeAtMarkerBefore  InsertionMode = "at_marker_before"
	ModeAppend          InsertionMode = "append"
	ModePrepend         InsertionMode = "prepend"
)

// Entry is a single clipboard record, identified by (Scope, Key).
type Entry struct {
	ID               string // uuid in persistent scopes; empty for agent scope
	Key              string
	Scope            Scope
	Content          string
	LineCount        int
	ByteCount        int
	ShortDescription string
	SourcePath       string
	SourceLines      string
	CreatedAt        float64
	ModifiedAt       float64
	CreatedByAgent   string
	ModifiedByAgent  string
	TTLSeconds       int64 // 0 = not set
	HasTTL           bool
	ExpiresAt        float64 // 0 = permanent when !HasExpiry
	HasExpiry        bool
	Tags             []string
}

// IsExpired reports whether the entry's ExpiresAt is at or before now.
func (e *Entry) IsExpired(nowWall float64) bool {
	return e.HasExpiry && e.ExpiresAt <= nowWall
}

// recomputeCounts derives ByteCount/LineCount from Content, per the
// byte_count/line_count invariants in spec §3.
func (e *Entry) recomputeCounts() {
	e.ByteCount = len(e.Content)
	e.LineCount = lineCount(e.Content)
}

// lineCount counts newlines, plus one more if content is non-empty and
// lacks a terminating newline.
func lineCount(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}

// newID returns a fresh persistent-scope identifier.
func newID() string {
	return uuid.NewString()
}

// dedupTags returns tags with duplicates removed, order preserved by first
// occurrence.
func dedupTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
