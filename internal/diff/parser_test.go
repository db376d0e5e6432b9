package diff

import "testing"

const addImportDiff = `--- a/main.py
+++ b/main.py
@@ -1,4 +1,5 @@
 import os
+import sys

 def main():
     print("Hello")
`

func TestParseStandardDiff(t *testing.T) {
	files := Parse(addImportDiff)
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
	f := files[0]
	if f.OldPath != "main.py" || f.NewPath != "main.py" {
		t.Fatalf("got paths %q/%q", f.OldPath, f.NewPath)
	}
	if len(f.Hunks) != 1 {
		t.Fatalf("got %d hunks, want 1", len(f.Hunks))
	}
	h := f.Hunks[0]
	if h.OldStart != 1 || h.OldCount != 4 || h.NewStart != 1 || h.NewCount != 5 {
		t.Fatalf("got hunk header %+v", h)
	}
	if len(h.Lines) != 5 {
		t.Fatalf("got %d lines, want 5: %+v", len(h.Lines), h.Lines)
	}
	if h.Lines[1].Prefix != PrefixAdd || h.Lines[1].Content != "import sys" {
		t.Fatalf("got %+v", h.Lines[1])
	}
}

func TestParseGitExtendedDiffNewFile(t *testing.T) {
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
	if len(files) != 1 {
		t.Fatalf("got %d files", len(files))
	}
	f := files[0]
	if !f.IsNewFile {
		t.Fatalf("expected IsNewFile")
	}
	if f.Path() != "new.txt" {
		t.Fatalf("got path %q", f.Path())
	}
	if len(f.Hunks) != 1 || !f.Hunks[0].IsNewFileHunk() {
		t.Fatalf("got hunks %+v", f.Hunks)
	}
}

func TestParseDeletion(t *testing.T) {
	text := `--- a/gone.txt
+++ /dev/null
@@ -1,2 +0,0 @@
-line one
-line two
`
	files := Parse(text)
	if len(files) != 1 {
		t.Fatalf("got %d files", len(files))
	}
	f := files[0]
	if !f.IsDeleted {
		t.Fatalf("expected IsDeleted")
	}
	if f.Path() != "gone.txt" {
		t.Fatalf("got path %q", f.Path())
	}
}

func TestParseMultipleFiles(t *testing.T) {
	text := addImportDiff + `--- a/other.py
+++ b/other.py
@@ -1,1 +1,1 @@
-old
+new
`
	files := Parse(text)
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}
	if files[1].OldPath != "other.py" {
		t.Fatalf("got %q", files[1].OldPath)
	}
}

func TestParseToleratesMissingLeadingSpaceOnBlankContext(t *testing.T) {
	text := `--- a/f.txt
+++ b/f.txt
@@ -1,3 +1,3 @@
 a

-b
+c
`
	files := Parse(text)
	if len(files) != 1 {
		t.Fatalf("got %d files", len(files))
	}
	h := files[0].Hunks[0]
	if h.Lines[1].Prefix != PrefixContext || h.Lines[1].Content != "" {
		t.Fatalf("got %+v", h.Lines[1])
	}
}

func TestParseSkipsNoNewlineMarker(t *testing.T) {
	text := "--- a/f.txt\n+++ b/f.txt\n@@ -1,1 +1,1 @@\n-old\n\\ No newline at end of file\n+new\n"
	files := Parse(text)
	h := files[0].Hunks[0]
	if len(h.Lines) != 2 {
		t.Fatalf("got %d lines, want 2: %+v", len(h.Lines), h.Lines)
	}
}

func TestParseMalformedHunkHeaderSkipped(t *testing.T) {
	text := `--- a/f.txt
+++ b/f.txt
@@ garbage @@
 a
`
	files := Parse(text)
	if len(files) != 0 {
		t.Fatalf("expected file dropped (no hunks), got %+v", files)
	}
}

func TestParseOmittedCountsDefaultToOne(t *testing.T) {
	text := `--- a/f.txt
+++ b/f.txt
@@ -5 +5 @@
-old
+new
`
	files := Parse(text)
	h := files[0].Hunks[0]
	if h.OldCount != 1 || h.NewCount != 1 {
		t.Fatalf("got %+v", h)
	}
}

func TestParseEmptyInputReturnsNoFiles(t *testing.T) {
	if files := Parse(""); len(files) != 0 {
		t.Fatalf("got %+v", files)
	}
}
