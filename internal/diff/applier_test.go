package diff

import (
	"strings"
	"testing"
)

func TestApplyStandardHunkSucceeds(t *testing.T) {
	files := Parse(addImportDiff)
	original := "import os\n\ndef main():\n    print(\"Hello\")\n"
	res := Apply(files[0], original, Strict, 0)
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	want := "import os\nimport sys\n\ndef main():\n    print(\"Hello\")\n"
	if res.NewContent != want {
		t.Fatalf("got %q, want %q", res.NewContent, want)
	}
	if len(res.AppliedHunks) != 1 || len(res.FailedHunks) != 0 {
		t.Fatalf("got %+v", res)
	}
}

func TestApplyNewFilePrependsAdditions(t *testing.T) {
	text := `diff --git a/new.txt b/new.txt
new file mode 100644
index 0000000..e69de29
--- /dev/null
+++ b/new.txt
@@ -0,0 +1,2 @@
+hello
+world
`
	files := Parse(text)
	res := Apply(files[0], "", Strict, 0)
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.NewContent != "hello\nworld\n" {
		t.Fatalf("got %q", res.NewContent)
	}
}

func TestApplyDeletionRemovesLines(t *testing.T) {
	text := `--- a/gone.txt
+++ /dev/null
@@ -1,2 +0,0 @@
-line one
-line two
`
	files := Parse(text)
	res := Apply(files[0], "line one\nline two\n", Strict, 0)
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.NewContent != "" {
		t.Fatalf("got %q", res.NewContent)
	}
}

func TestApplyStrictFailsOnContextMismatchAndRollsBack(t *testing.T) {
	files := Parse(addImportDiff)
	original := "totally different content\n"
	res := Apply(files[0], original, Strict, 0)
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.NewContent != original {
		t.Fatalf("expected rollback to original, got %q", res.NewContent)
	}
	if len(res.FailedHunks) != 1 {
		t.Fatalf("got %+v", res.FailedHunks)
	}
}

func TestApplyTolerantAllowsTrailingWhitespaceDrift(t *testing.T) {
	text := `--- a/f.txt
+++ b/f.txt
@@ -1,1 +1,1 @@
-old
+new
`
	files := Parse(text)
	original := "old   \n"
	res := Apply(files[0], original, Tolerant, 0)
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.NewContent != "new\n" {
		t.Fatalf("got %q", res.NewContent)
	}
}

func TestApplyStrictRejectsTrailingWhitespaceDrift(t *testing.T) {
	text := `--- a/f.txt
+++ b/f.txt
@@ -1,1 +1,1 @@
-old
+new
`
	files := Parse(text)
	res := Apply(files[0], "old   \n", Strict, 0)
	if res.Success {
		t.Fatal("expected failure under strict mode")
	}
}

func TestApplyFuzzyFindsShiftedHunk(t *testing.T) {
	text := `--- a/f.txt
+++ b/f.txt
@@ -1,3 +1,3 @@
 alpha
-beta
+BETA
 gamma
`
	files := Parse(text)
	// Insert 5 unrelated lines before the real context, shifting it well past
	// the header's claimed position but within the fuzzy window.
	original := "zz1\nzz2\nzz3\nzz4\nzz5\nalpha\nbeta\ngamma\n"
	res := Apply(files[0], original, Fuzzy, 0.8)
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if !strings.Contains(res.NewContent, "BETA") {
		t.Fatalf("got %q", res.NewContent)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected a fuzzy-match warning")
	}
}

func TestApplyFuzzyFailsBelowThreshold(t *testing.T) {
	text := `--- a/f.txt
+++ b/f.txt
@@ -1,3 +1,3 @@
 alpha
-beta
+BETA
 gamma
`
	files := Parse(text)
	original := "nothing\nmatches\nhere\nat\nall\n"
	res := Apply(files[0], original, Fuzzy, 0.8)
	if res.Success {
		t.Fatalf("expected failure, got %+v", res)
	}
	if res.NewContent != original {
		t.Fatal("expected rollback")
	}
}

func TestApplyMultiHunkRollsBackEntirelyOnSecondFailure(t *testing.T) {
	text := `--- a/f.txt
+++ b/f.txt
@@ -1,1 +1,1 @@
-one
+ONE
@@ -10,1 +10,1 @@
-ten
+TEN
`
	files := Parse(text)
	original := "one\ntwo\n"
	res := Apply(files[0], original, Strict, 0)
	if res.Success {
		t.Fatal("expected overall failure due to second hunk")
	}
	if res.NewContent != original {
		t.Fatalf("expected full rollback, got %q", res.NewContent)
	}
	if len(res.AppliedHunks) != 1 || len(res.FailedHunks) != 1 {
		t.Fatalf("got applied=%v failed=%v", res.AppliedHunks, res.FailedHunks)
	}
}

func TestApplyPreservesNoTrailingNewline(t *testing.T) {
	text := `--- a/f.txt
+++ b/f.txt
@@ -1,1 +1,1 @@
-old
+new
`
	files := Parse(text)
	res := Apply(files[0], "old", Strict, 0)
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.NewContent != "new" {
		t.Fatalf("got %q, want no trailing newline preserved", res.NewContent)
	}
}

func TestApplyFuzzyThresholdClampedToRange(t *testing.T) {
	text := `--- a/f.txt
+++ b/f.txt
@@ -1,1 +1,1 @@
-old
+new
`
	files := Parse(text)
	res := Apply(files[0], "old\n", Fuzzy, 5.0)
	if !res.Success {
		t.Fatalf("expected success with clamped threshold, got %+v", res)
	}
}
