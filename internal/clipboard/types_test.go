package clipboard

import "testing"

func TestParseScopeAccepted(t *testing.T) {
	for _, s := range []string{"agent", "project", "system"} {
		if got, ok := ParseScope(s); !ok || string(got) != s {
			t.Fatalf("ParseScope(%q) = %q, %v", s, got, ok)
		}
	}
}

func TestParseScopeRejectsUnknown(t *testing.T) {
	if _, ok := ParseScope("bogus"); ok {
		t.Fatal("expected rejection")
	}
}

func TestRecomputeCountsNoTrailingNewline(t *testing.T) {
	e := &Entry{Content: "a\nb"}
	e.recomputeCounts()
	if e.LineCount != 2 {
		t.Fatalf("got %d", e.LineCount)
	}
	if e.ByteCount != 3 {
		t.Fatalf("got %d", e.ByteCount)
	}
}

func TestRecomputeCountsTrailingNewline(t *testing.T) {
	e := &Entry{Content: "a\nb\n"}
	e.recomputeCounts()
	if e.LineCount != 2 {
		t.Fatalf("got %d", e.LineCount)
	}
}

func TestRecomputeCountsEmpty(t *testing.T) {
	e := &Entry{Content: ""}
	e.recomputeCounts()
	if e.LineCount != 0 || e.ByteCount != 0 {
		t.Fatalf("got %+v", e)
	}
}

func TestIsExpired(t *testing.T) {
	e := &Entry{HasExpiry: true, ExpiresAt: 100}
	if e.IsExpired(99) {
		t.Fatal("should not be expired yet")
	}
	if !e.IsExpired(100) {
		t.Fatal("should be expired at boundary")
	}
	if !e.IsExpired(101) {
		t.Fatal("should be expired after")
	}
}

func TestIsExpiredPermanentEntryNeverExpires(t *testing.T) {
	e := &Entry{HasExpiry: false}
	if e.IsExpired(1e15) {
		t.Fatal("permanent entry should never expire")
	}
}

func TestDedupTagsPreservesOrder(t *testing.T) {
	got := dedupTags([]string{"b", "a", "b", "c", "a"})
	want := []string{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	}
}
