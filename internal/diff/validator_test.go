package diff

import (
	"strings"
	"testing"
)

func TestValidateNewFileSkipsContentChecks(t *testing.T) {
	pf := PatchFile{IsNewFile: true, NewPath: "x.txt"}
	res := Validate(pf, "anything")
	if !res.Valid || len(res.Errors) != 0 {
		t.Fatalf("got %+v", res)
	}
}

func TestValidateExactMatchIsClean(t *testing.T) {
	pf := PatchFile{
		OldPath: "f.txt",
		NewPath: "f.txt",
		Hunks: []Hunk{{
			OldStart: 1, OldCount: 2, NewStart: 1, NewCount: 3,
			Lines: []Line{
				{Prefix: PrefixContext, Content: "a"},
				{Prefix: PrefixAdd, Content: "b"},
				{Prefix: PrefixContext, Content: "c"},
			},
		}},
	}
	res := Validate(pf, "a\nc\n")
	if !res.Valid || len(res.Errors) != 0 || len(res.Warnings) != 0 {
		t.Fatalf("got %+v", res)
	}
}

func TestValidateCountMismatchWarnsAndRepairs(t *testing.T) {
	// Header claims -1,+1 but the actual line list is 1 context + 1 addition,
	// i.e. recomputed old=1 (matches), new=2 (mismatch).
	pf := PatchFile{
		OldPath: "f.txt", NewPath: "f.txt",
		Hunks: []Hunk{{
			OldStart: 1, OldCount: 1, NewStart: 1, NewCount: 1,
			Lines: []Line{
				{Prefix: PrefixContext, Content: "a"},
				{Prefix: PrefixAdd, Content: "b"},
			},
		}},
	}
	res := Validate(pf, "a\n")
	if !res.Valid {
		t.Fatalf("expected valid, got %+v", res)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "count mismatch") {
		t.Fatalf("got warnings %+v", res.Warnings)
	}
	if res.FixedPatch == nil {
		t.Fatal("expected a fixed patch")
	}
	fh := res.FixedPatch.Hunks[0]
	if fh.OldCount != 1 || fh.NewCount != 2 {
		t.Fatalf("got fixed header -%d,+%d", fh.OldCount, fh.NewCount)
	}
}

func TestValidateContextMismatchIsHardError(t *testing.T) {
	pf := PatchFile{
		OldPath: "f.txt", NewPath: "f.txt",
		Hunks: []Hunk{{
			OldStart: 1, OldCount: 1, NewStart: 1, NewCount: 1,
			Lines: []Line{{Prefix: PrefixContext, Content: "a"}},
		}},
	}
	res := Validate(pf, "zzz\n")
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "context mismatch at line 1") {
		t.Fatalf("got %+v", res.Errors)
	}
}

func TestValidateRemovalMismatchIsHardError(t *testing.T) {
	pf := PatchFile{
		OldPath: "f.txt", NewPath: "f.txt",
		Hunks: []Hunk{{
			OldStart: 1, OldCount: 1, NewStart: 1, NewCount: 0,
			Lines: []Line{{Prefix: PrefixRemove, Content: "a"}},
		}},
	}
	res := Validate(pf, "zzz\n")
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if !strings.Contains(res.Errors[0], "removal mismatch") {
		t.Fatalf("got %+v", res.Errors)
	}
}

func TestValidateWhitespaceOnlyMismatchWarnsAndRepairs(t *testing.T) {
	pf := PatchFile{
		OldPath: "f.txt", NewPath: "f.txt",
		Hunks: []Hunk{{
			OldStart: 1, OldCount: 1, NewStart: 1, NewCount: 1,
			Lines: []Line{{Prefix: PrefixContext, Content: "a"}},
		}},
	}
	res := Validate(pf, "a   \n")
	if !res.Valid {
		t.Fatalf("expected valid, got %+v", res)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("got %+v", res.Warnings)
	}
	if res.FixedPatch.Hunks[0].Lines[0].Content != "a   " {
		t.Fatalf("expected repaired line to carry the file's exact text, got %+v", res.FixedPatch.Hunks[0])
	}
}

func TestValidateBeyondEndOfFileIsHardError(t *testing.T) {
	pf := PatchFile{
		OldPath: "f.txt", NewPath: "f.txt",
		Hunks: []Hunk{{
			OldStart: 5, OldCount: 1, NewStart: 5, NewCount: 1,
			Lines: []Line{{Prefix: PrefixContext, Content: "a"}},
		}},
	}
	res := Validate(pf, "one\ntwo\n")
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if !strings.Contains(res.Errors[0], "beyond end of file") {
		t.Fatalf("got %+v", res.Errors)
	}
}

func TestValidatePatchSetMissingTargetFile(t *testing.T) {
	ps := PatchSet{Files: []PatchFile{{OldPath: "missing.txt", NewPath: "missing.txt"}}}
	results := ValidatePatchSet(ps, func(string) (string, error) {
		return "", errNotFoundForTest
	})
	res := results["missing.txt"]
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "target file not found") {
		t.Fatalf("got %+v", res.Errors)
	}
}

var errNotFoundForTest = &simpleErr{"not found"}

type simpleErr struct{ msg string }

func (e *simpleErr) Error() string { return e.msg }
