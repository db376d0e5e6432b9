package clipboard

import (
	"errors"
	"strings"
	"testing"

	"github.com/incurian/nexus3/internal/nexuserr"
)

func TestExportImportRoundTrip(t *testing.T) {
	src := newTestManager(t, Yolo())
	src.Copy("k1", "hello", ScopeAgent, CopyParams{ShortDescription: "greeting", Tags: []string{"a"}})
	src.Copy("k2", "world", ScopeAgent, CopyParams{})

	entries, err := src.ListEntries(ListOptions{Scope: ScopeAgent, IncludeExpired: true})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	data, err := Export(entries, "2026-07-31T00:00:00")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.Contains(string(data), `"version": "1.0"`) {
		t.Fatalf("got %s", data)
	}

	dst := newTestManager(t, Yolo())
	summary, err := Import(dst, data, ScopeAgent, ConflictSkip, false)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if summary.Imported != 2 || summary.Total != 2 {
		t.Fatalf("got %+v", summary)
	}
	got, err := dst.Get("k1", ScopeAgent)
	if err != nil || got.Content != "hello" || got.ShortDescription != "greeting" {
		t.Fatalf("got %+v err=%v", got, err)
	}
}

func TestImportRejectsWrongVersion(t *testing.T) {
	m := newTestManager(t, Yolo())
	_, err := Import(m, []byte(`{"version":"2.0","entries":[]}`), ScopeAgent, ConflictSkip, false)
	if !errors.Is(err, nexuserr.ErrSchema) {
		t.Fatalf("got %v", err)
	}
}

func TestImportDryRunDoesNotMutate(t *testing.T) {
	src := newTestManager(t, Yolo())
	src.Copy("k1", "hello", ScopeAgent, CopyParams{})
	entries, _ := src.ListEntries(ListOptions{Scope: ScopeAgent, IncludeExpired: true})
	data, _ := Export(entries, "now")

	dst := newTestManager(t, Yolo())
	summary, err := Import(dst, data, ScopeAgent, ConflictSkip, true)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if summary.Imported != 1 {
		t.Fatalf("got %+v", summary)
	}
	if _, err := dst.Get("k1", ScopeAgent); err == nil {
		t.Fatal("expected dry run to leave target scope empty")
	}
}

func TestImportSkipPolicyKeepsExisting(t *testing.T) {
	src := newTestManager(t, Yolo())
	src.Copy("k1", "from-export", ScopeAgent, CopyParams{})
	entries, _ := src.ListEntries(ListOptions{Scope: ScopeAgent, IncludeExpired: true})
	data, _ := Export(entries, "now")

	dst := newTestManager(t, Yolo())
	dst.Copy("k1", "pre-existing", ScopeAgent, CopyParams{})

	summary, err := Import(dst, data, ScopeAgent, ConflictSkip, false)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if summary.Skipped != 1 || summary.Imported != 0 {
		t.Fatalf("got %+v", summary)
	}
	got, _ := dst.Get("k1", ScopeAgent)
	if got.Content != "pre-existing" {
		t.Fatalf("got %q", got.Content)
	}
}

func TestImportOverwritePolicyReplacesExisting(t *testing.T) {
	src := newTestManager(t, Yolo())
	src.Copy("k1", "from-export", ScopeAgent, CopyParams{})
	entries, _ := src.ListEntries(ListOptions{Scope: ScopeAgent, IncludeExpired: true})
	data, _ := Export(entries, "now")

	dst := newTestManager(t, Yolo())
	dst.Copy("k1", "pre-existing", ScopeAgent, CopyParams{})

	summary, err := Import(dst, data, ScopeAgent, ConflictOverwrite, false)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if summary.Imported != 1 {
		t.Fatalf("got %+v", summary)
	}
	got, _ := dst.Get("k1", ScopeAgent)
	if got.Content != "from-export" {
		t.Fatalf("got %q", got.Content)
	}
}
