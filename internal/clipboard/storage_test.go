package clipboard

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/incurian/nexus3/internal/nexuserr"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "clipboard.db")
	s, err := OpenStorage(dbPath, ScopeProject)
	if err != nil {
		t.Fatalf("OpenStorage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorageCreateAndGet(t *testing.T) {
	s := openTestStorage(t)
	e := &Entry{Key: "k1", Content: "hello\n", LineCount: 1, ByteCount: 6, CreatedAt: 100, ModifiedAt: 100}
	if err := s.Create(e); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := s.Get("k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Content != "hello\n" || got.ID == "" {
		t.Fatalf("got %+v", got)
	}
}

func TestStorageCreateDuplicateConflicts(t *testing.T) {
	s := openTestStorage(t)
	e := &Entry{Key: "k1", Content: "a", CreatedAt: 1, ModifiedAt: 1}
	if err := s.Create(e); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := s.Create(&Entry{Key: "k1", Content: "b", CreatedAt: 2, ModifiedAt: 2})
	if !errors.Is(err, nexuserr.ErrConflict) {
		t.Fatalf("got %v", err)
	}
}

func TestStorageGetMissingReturnsNotFound(t *testing.T) {
	s := openTestStorage(t)
	_, err := s.Get("nope")
	if !errors.Is(err, nexuserr.ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestStorageUpdateContentRefreshesCounts(t *testing.T) {
	s := openTestStorage(t)
	if err := s.Create(&Entry{Key: "k1", Content: "a", CreatedAt: 1, ModifiedAt: 1}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	newContent := "a\nb\nc"
	got, err := s.Update("k1", UpdateParams{Content: &newContent, AgentID: "agentX", Now: 50})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.LineCount != 3 || got.ByteCount != len(newContent) {
		t.Fatalf("got %+v", got)
	}
	if got.ModifiedByAgent != "agentX" || got.ModifiedAt != 50 {
		t.Fatalf("got %+v", got)
	}
}

func TestStorageUpdateRenameCollisionConflicts(t *testing.T) {
	s := openTestStorage(t)
	s.Create(&Entry{Key: "k1", Content: "a", CreatedAt: 1, ModifiedAt: 1})
	s.Create(&Entry{Key: "k2", Content: "b", CreatedAt: 1, ModifiedAt: 1})
	newKey := "k2"
	_, err := s.Update("k1", UpdateParams{NewKey: &newKey, Now: 2})
	if !errors.Is(err, nexuserr.ErrConflict) {
		t.Fatalf("got %v", err)
	}
}

func TestStorageDeleteAndClear(t *testing.T) {
	s := openTestStorage(t)
	s.Create(&Entry{Key: "k1", Content: "a", CreatedAt: 1, ModifiedAt: 1})
	s.Create(&Entry{Key: "k2", Content: "b", CreatedAt: 1, ModifiedAt: 1})

	ok, err := s.Delete("k1")
	if err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}
	if _, err := s.Get("k1"); !errors.Is(err, nexuserr.ErrNotFound) {
		t.Fatalf("expected not-found after delete, got %v", err)
	}

	n, err := s.Clear()
	if err != nil || n != 1 {
		t.Fatalf("Clear: n=%d err=%v", n, err)
	}
}

func TestStorageListAllOrdersByModifiedDesc(t *testing.T) {
	s := openTestStorage(t)
	s.Create(&Entry{Key: "old", Content: "a", CreatedAt: 1, ModifiedAt: 1})
	s.Create(&Entry{Key: "new", Content: "b", CreatedAt: 2, ModifiedAt: 2})

	all, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 2 || all[0].Key != "new" || all[1].Key != "old" {
		t.Fatalf("got %+v", all)
	}
}

func TestStorageTagsRoundTrip(t *testing.T) {
	s := openTestStorage(t)
	s.Create(&Entry{Key: "k1", Content: "a", CreatedAt: 1, ModifiedAt: 1, Tags: []string{"b", "a"}})

	tags, err := s.GetTags("k1")
	if err != nil {
		t.Fatalf("GetTags: %v", err)
	}
	if len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Fatalf("got %+v", tags)
	}

	if err := s.SetTags("k1", []string{"c"}); err != nil {
		t.Fatalf("SetTags: %v", err)
	}
	tags, err = s.GetTags("k1")
	if err != nil || len(tags) != 1 || tags[0] != "c" {
		t.Fatalf("got %+v err=%v", tags, err)
	}
}

func TestStorageExpiredEntries(t *testing.T) {
	s := openTestStorage(t)
	s.Create(&Entry{Key: "fresh", Content: "a", CreatedAt: 1, ModifiedAt: 1})
	s.Create(&Entry{Key: "stale", Content: "b", CreatedAt: 1, ModifiedAt: 1, HasExpiry: true, ExpiresAt: 10})

	n, err := s.CountExpired(20)
	if err != nil || n != 1 {
		t.Fatalf("CountExpired: n=%d err=%v", n, err)
	}
	expired, err := s.GetExpired(20)
	if err != nil || len(expired) != 1 || expired[0].Key != "stale" {
		t.Fatalf("GetExpired: %+v err=%v", expired, err)
	}
}
