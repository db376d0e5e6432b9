package secio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSecureMkdirCreatesOwnerOnlyTree(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "a", "b", "c")

	if err := SecureMkdir(target, true); err != nil {
		t.Fatalf("SecureMkdir: %v", err)
	}

	for _, dir := range []string{filepath.Join(root, "a"), filepath.Join(root, "a", "b"), target} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("stat %s: %v", dir, err)
		}
		if perm := info.Mode().Perm(); perm != secureDirMode {
			t.Fatalf("%s: mode = %v, want %v", dir, perm, secureDirMode)
		}
	}
}

func TestSecureMkdirReappliesModeOnExisting(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "existing")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := SecureMkdir(target, true); err != nil {
		t.Fatalf("SecureMkdir: %v", err)
	}
	info, err := os.Stat(target)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != secureDirMode {
		t.Fatalf("mode = %v, want %v", perm, secureDirMode)
	}
}

func TestCreateNewSecureFailsIfExists(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "f.txt")
	if err := CreateNewSecure(path, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := CreateNewSecure(path, []byte("again")); err == nil {
		t.Fatal("expected ErrExists")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != secureFileMode {
		t.Fatalf("mode = %v, want %v", perm, secureFileMode)
	}
}

func TestWriteAtomicCreatesWhenAbsent(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "new.txt")
	if err := WriteAtomic(path, []byte("first")); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "first" {
		t.Fatalf("got %q", got)
	}
}

func TestWriteAtomicReplacesExistingAndLeavesNoTemp(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "existing.txt")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := WriteAtomic(path, []byte("new content")); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new content" {
		t.Fatalf("got %q", got)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Fatalf("leftover temp file: %s", e.Name())
		}
	}
}

func TestDetectLineEnding(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want LineEnding
	}{
		{"empty", "", LF},
		{"lf", "a\nb\n", LF},
		{"crlf", "a\r\nb\r\n", CRLF},
		{"cr", "a\rb\r", CR},
		{"crlf takes priority over bare cr", "a\r\nb\rc", CRLF},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectLineEnding(tc.in); got != tc.want {
				t.Fatalf("DetectLineEnding(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDecodeLossyReplacesInvalidBytes(t *testing.T) {
	raw := []byte{'a', 0xff, 'b'}
	got := decodeLossy(raw)
	if got[0] != 'a' || got[len(got)-1] != 'b' {
		t.Fatalf("got %q", got)
	}
	if len(got) <= 2 {
		t.Fatalf("expected replacement char inserted, got %q", got)
	}
}
