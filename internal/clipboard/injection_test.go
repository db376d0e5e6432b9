package clipboard

import (
	"strings"
	"testing"
)

func TestFormatContextEmptyReturnsEmptyString(t *testing.T) {
	m := newTestManager(t, Yolo())
	got, err := FormatContext(m, 10, true)
	if err != nil {
		t.Fatalf("FormatContext: %v", err)
	}
	if got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatContextListsEntries(t *testing.T) {
	m := newTestManager(t, Yolo())
	m.Copy("k1", "line1\nline2\n", ScopeAgent, CopyParams{ShortDescription: "a snippet"})
	got, err := FormatContext(m, 10, true)
	if err != nil {
		t.Fatalf("FormatContext: %v", err)
	}
	if !strings.Contains(got, "k1") || !strings.Contains(got, "a snippet") {
		t.Fatalf("got %q", got)
	}
}

func TestFormatTimeAgoBuckets(t *testing.T) {
	cases := []struct {
		delta float64
		want  string
	}{
		{10, "just now"},
		{120, "2m ago"},
		{7200, "2h ago"},
		{172800, "2d ago"},
	}
	for _, c := range cases {
		got := FormatTimeAgo(1000-c.delta, 1000)
		if got != c.want {
			t.Fatalf("delta %v: got %q, want %q", c.delta, got, c.want)
		}
	}
}

func TestFormatEntryDetailIncludesTagsAndExpiry(t *testing.T) {
	e := &Entry{
		Key: "k1", Scope: ScopeAgent, Content: "hi", LineCount: 1, ByteCount: 2,
		ModifiedAt: 100, Tags: []string{"x", "y"}, HasExpiry: true, ExpiresAt: 200,
	}
	got := FormatEntryDetail(e, 100, false)
	if !strings.Contains(got, "Tags: x, y") {
		t.Fatalf("got %q", got)
	}
	if !strings.Contains(got, "Expires in:") {
		t.Fatalf("got %q", got)
	}
}

func TestFormatEntryDetailExpiredMarker(t *testing.T) {
	e := &Entry{Key: "k1", Scope: ScopeAgent, Content: "hi", ModifiedAt: 100, HasExpiry: true, ExpiresAt: 50}
	got := FormatEntryDetail(e, 100, false)
	if !strings.Contains(got, "[EXPIRED]") {
		t.Fatalf("got %q", got)
	}
}

func TestFormatEntryDetailVerbosePreviewTruncatesLongFiles(t *testing.T) {
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = "line"
	}
	e := &Entry{Key: "k1", Scope: ScopeAgent, Content: strings.Join(lines, "\n"), ModifiedAt: 1}
	got := FormatEntryDetail(e, 1, true)
	if !strings.Contains(got, "...") {
		t.Fatalf("expected elided middle section, got %q", got)
	}
}
