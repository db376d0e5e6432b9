package clipboard

import (
	"errors"
	"testing"

	"github.com/incurian/nexus3/internal/nexuserr"
)

func newTestManager(t *testing.T, perms Permissions) *Manager {
	t.Helper()
	tick := 0.0
	clock := func() float64 {
		tick++
		return tick
	}
	return NewManager("agent-a", t.TempDir(), t.TempDir(), perms, WithNowFunc(clock))
}

func TestManagerCopyAndGetAgentScope(t *testing.T) {
	m := newTestManager(t, Yolo())
	e, warn, err := m.Copy("k1", "hello", ScopeAgent, CopyParams{})
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if warn != "" {
		t.Fatalf("unexpected warning: %q", warn)
	}
	got, err := m.Get("k1", ScopeAgent)
	if err != nil || got.Content != "hello" {
		t.Fatalf("Get: %+v %v", got, err)
	}
	if e.CreatedByAgent != "agent-a" {
		t.Fatalf("got %+v", e)
	}
}

func TestManagerSandboxedDeniesProjectWrite(t *testing.T) {
	m := newTestManager(t, Sandboxed())
	_, _, err := m.Copy("k", "v", ScopeProject, CopyParams{})
	if !errors.Is(err, nexuserr.ErrPermission) {
		t.Fatalf("got %v", err)
	}
	if _, _, err := m.Copy("k", "v", ScopeAgent, CopyParams{}); err != nil {
		t.Fatalf("agent copy should succeed: %v", err)
	}
}

func TestManagerSizeHardCapRejectsWrite(t *testing.T) {
	m := newTestManager(t, Yolo())
	big := make([]byte, 2<<20)
	_, _, err := m.Copy("big", string(big), ScopeAgent, CopyParams{})
	if !errors.Is(err, nexuserr.ErrSize) {
		t.Fatalf("got %v", err)
	}
}

func TestManagerSizeSoftCapWarns(t *testing.T) {
	m := newTestManager(t, Yolo())
	mid := make([]byte, 200<<10)
	_, warn, err := m.Copy("mid", string(mid), ScopeAgent, CopyParams{})
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if warn == "" {
		t.Fatal("expected a size warning")
	}
}

func TestManagerScopeSearchOrder(t *testing.T) {
	m := newTestManager(t, Yolo())
	m.Copy("shared", "project-value", ScopeProject, CopyParams{})
	m.Copy("shared", "agent-value", ScopeAgent, CopyParams{})

	got, err := m.Get("shared", "")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Content != "agent-value" {
		t.Fatalf("expected agent scope to win search order, got %q", got.Content)
	}
}

func TestManagerCrossAgentProjectSharing(t *testing.T) {
	home := t.TempDir()
	cwd := t.TempDir()
	a1 := NewManager("a1", cwd, home, Yolo())
	a2 := NewManager("a2", cwd, home, Yolo())

	if _, _, err := a1.Copy("shared", "v", ScopeProject, CopyParams{}); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	got, err := a2.Get("shared", ScopeProject)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.CreatedByAgent != "a1" {
		t.Fatalf("got %+v", got)
	}
}

func TestManagerTagFilters(t *testing.T) {
	m := newTestManager(t, Yolo())
	m.Copy("k1", "a", ScopeAgent, CopyParams{Tags: []string{"x", "y"}})
	m.Copy("k2", "b", ScopeAgent, CopyParams{Tags: []string{"x"}})
	m.Copy("k3", "c", ScopeAgent, CopyParams{Tags: []string{"z"}})

	all, err := m.ListEntries(ListOptions{Tags: []string{"x", "y"}, IncludeExpired: true})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(all) != 1 || all[0].Key != "k1" {
		t.Fatalf("got %+v", all)
	}

	any, err := m.ListEntries(ListOptions{AnyTags: []string{"y", "z"}, IncludeExpired: true})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	keys := map[string]bool{}
	for _, e := range any {
		keys[e.Key] = true
	}
	if !keys["k1"] || !keys["k3"] || keys["k2"] {
		t.Fatalf("got %+v", any)
	}
}

func TestManagerTTLExpiry(t *testing.T) {
	tick := 0.0
	clock := func() float64 { tick++; return tick }
	m := NewManager("a", t.TempDir(), t.TempDir(), Yolo(), WithNowFunc(clock))
	one := int64(1)
	_, _, err := m.Copy("k", "v", ScopeAgent, CopyParams{TTLSeconds: &one})
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	e, err := m.Get("k", ScopeAgent)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.IsExpired(e.CreatedAt) {
		t.Fatal("should not be expired immediately")
	}
	if !e.IsExpired(e.CreatedAt + 1) {
		t.Fatal("should be expired at created_at+ttl")
	}
}

func TestManagerRestoreAgentEntries(t *testing.T) {
	m := newTestManager(t, Yolo())
	m.Copy("k1", "v1", ScopeAgent, CopyParams{})
	snap := m.GetAgentEntries()

	m2 := newTestManager(t, Yolo())
	m2.RestoreAgentEntries(snap)
	got, err := m2.Get("k1", ScopeAgent)
	if err != nil || got.Content != "v1" {
		t.Fatalf("got %+v err=%v", got, err)
	}
}
