package pathsec

import (
	"os"
	"path/filepath"
	"testing"
)

func TestUnrestrictedAccess(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "a.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	e := NewEngine(Config{Cwd: root})
	d := e.CheckAccess(file, true, false)
	if !d.Allowed || d.Reason != ReasonUnrestricted {
		t.Fatalf("got %+v", d)
	}
}

func TestNoAllowedPathsDeniesAll(t *testing.T) {
	root := t.TempDir()
	e := NewEngine(Config{Cwd: root, AllowedPaths: []string{}})
	d := e.CheckAccess(filepath.Join(root, "x"), false, false)
	if d.Allowed || d.Reason != ReasonNoAllowedPaths {
		t.Fatalf("got %+v", d)
	}
	if d.ResolvedPath != "" {
		t.Fatalf("denied decision leaked resolved path: %q", d.ResolvedPath)
	}
}

func TestOutsideAllowedDenied(t *testing.T) {
	root := t.TempDir()
	allowed := filepath.Join(root, "allowed")
	outside := filepath.Join(root, "outside")
	if err := os.MkdirAll(allowed, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(outside, 0o700); err != nil {
		t.Fatal(err)
	}

	e := NewEngine(Config{Cwd: root, AllowedPaths: []string{allowed}})
	d := e.CheckAccess(filepath.Join(outside, "f.txt"), false, false)
	if d.Allowed || d.Reason != ReasonOutsideAllowed {
		t.Fatalf("got %+v", d)
	}
}

func TestWithinAllowedSucceeds(t *testing.T) {
	root := t.TempDir()
	allowed := filepath.Join(root, "allowed")
	if err := os.MkdirAll(allowed, 0o700); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(allowed, "sub", "f.txt")

	e := NewEngine(Config{Cwd: root, AllowedPaths: []string{allowed}})
	d := e.CheckAccess(target, false, false)
	if !d.Allowed || d.Reason != ReasonWithinAllowed {
		t.Fatalf("got %+v", d)
	}
	if d.MatchedRule == nil || *d.MatchedRule != allowed {
		t.Fatalf("matched rule = %v, want %q", d.MatchedRule, allowed)
	}
}

func TestBlockedTakesPriorityOverAllowed(t *testing.T) {
	root := t.TempDir()
	allowed := filepath.Join(root, "allowed")
	blocked := filepath.Join(allowed, "secret")
	if err := os.MkdirAll(blocked, 0o700); err != nil {
		t.Fatal(err)
	}

	e := NewEngine(Config{Cwd: root, AllowedPaths: []string{allowed}, BlockedPaths: []string{blocked}})
	d := e.CheckAccess(filepath.Join(blocked, "f.txt"), false, false)
	if d.Allowed || d.Reason != ReasonBlocked {
		t.Fatalf("got %+v", d)
	}
}

func TestSymlinkEscapeIsDenied(t *testing.T) {
	root := t.TempDir()
	allowed := filepath.Join(root, "allowed")
	outside := filepath.Join(root, "outside")
	if err := os.MkdirAll(allowed, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(outside, 0o700); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(allowed, "escape")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	e := NewEngine(Config{Cwd: root, AllowedPaths: []string{allowed}})
	d := e.CheckAccess(filepath.Join(link, "f.txt"), false, false)
	if d.Allowed {
		t.Fatalf("expected symlink escape to be denied, got %+v", d)
	}
}

func TestMustExistAndMustBeDir(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "a.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	e := NewEngine(Config{Cwd: root})

	missing := filepath.Join(root, "missing")
	d := e.CheckAccess(missing, true, false)
	if d.Allowed || d.Reason != ReasonPathNotFound {
		t.Fatalf("got %+v", d)
	}

	d = e.CheckAccess(file, true, true)
	if d.Allowed || d.Reason != ReasonNotADirectory {
		t.Fatalf("got %+v", d)
	}
}

func TestCheckCwdDefaultsAndResolves(t *testing.T) {
	root := t.TempDir()
	e := NewEngine(Config{Cwd: root})

	d := e.CheckCwd("")
	if !d.Allowed || d.Reason != ReasonCwdDefault || d.ResolvedPath != root {
		t.Fatalf("got %+v", d)
	}

	d = e.CheckCwd(root)
	if !d.Allowed || d.Reason != ReasonUnrestricted {
		t.Fatalf("got %+v", d)
	}
}

func TestRelativePathJoinsAgainstCwd(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "rel.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	e := NewEngine(Config{Cwd: root})
	d := e.CheckAccess("rel.txt", true, false)
	if !d.Allowed {
		t.Fatalf("got %+v", d)
	}
	want, _ := filepath.EvalSymlinks(root)
	if filepath.Dir(d.ResolvedPath) != want {
		t.Fatalf("resolved = %q, want dir %q", d.ResolvedPath, want)
	}
}
