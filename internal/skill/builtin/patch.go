// Package builtin implements the concrete agent-callable skills (spec.md
// §4.8-§4.11), each grounded in its original_source/nexus3/skill/builtin/*.py
// counterpart and composing the core packages (C1-C10) through
// skill.Services.
package builtin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/incurian/nexus3/internal/diff"
	"github.com/incurian/nexus3/internal/secio"
	"github.com/incurian/nexus3/internal/skill"
)

// PatchSkill applies a unified diff to a single target file, composing
// diff.Parse/Validate/Apply (C4-C6). Grounded in
// original_source/.../skill/builtin/patch.py.
type PatchSkill struct{ svc *skill.Services }

func NewPatchSkill(svc *skill.Services) skill.Skill { return &PatchSkill{svc: svc} }

func (s *PatchSkill) Name() string { return "patch" }

func (s *PatchSkill) Description() string {
	return "Apply a unified diff to a file using strict, tolerant, or fuzzy hunk matching."
}

func (s *PatchSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"target": map[string]any{
				"type":        "string",
				"description": "Path of the file to patch",
			},
			"diff": map[string]any{
				"type":        "string",
				"description": "Inline unified diff text (mutually exclusive with diff_file)",
			},
			"diff_file": map[string]any{
				"type":        "string",
				"description": "Path to a file containing the unified diff (mutually exclusive with diff)",
			},
			"mode": map[string]any{
				"type":        "string",
				"enum":        []string{"strict", "tolerant", "fuzzy"},
				"default":     "strict",
				"description": "Hunk-matching strictness",
			},
			"fuzzy_threshold": map[string]any{
				"type":        "number",
				"default":     diff.DefaultFuzzyThreshold,
				"description": "Minimum similarity ratio for fuzzy matching",
			},
			"dry_run": map[string]any{
				"type":        "boolean",
				"default":     false,
				"description": "Report what would happen without writing",
			},
		},
		"required": []string{"target"},
	}
}

func (s *PatchSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	target := args.String("target", "")
	if target == "" {
		return skill.Fail("target is required")
	}
	inlineDiff := args.StringPtr("diff")
	diffFile := args.StringPtr("diff_file")
	if (inlineDiff == nil) == (diffFile == nil) {
		return skill.Fail("provide exactly one of diff or diff_file")
	}
	mode := diff.Mode(args.String("mode", string(diff.Strict)))
	fuzzyThreshold := args.Float64("fuzzy_threshold", diff.DefaultFuzzyThreshold)
	dryRun := args.Bool("dry_run", false)

	var diffText string
	if inlineDiff != nil {
		diffText = *inlineDiff
	} else {
		diffPath, err := skill.ResolvePath(s.svc, *diffFile, true, false)
		if err != nil {
			return skill.FailErr(err)
		}
		text, err := secio.ReadText(diffPath)
		if err != nil {
			return skill.Fail(fmt.Sprintf("cannot read diff_file: %v", err))
		}
		diffText = text
	}

	patchFiles := diff.Parse(diffText)
	if len(patchFiles) == 0 {
		return skill.Fail("diff contains no file sections")
	}

	targetBase := filepath.Base(target)
	var selected *diff.PatchFile
	for i := range patchFiles {
		pf := patchFiles[i]
		if filepath.Base(pf.Path()) == targetBase || filepath.Base(pf.OldPath) == targetBase || filepath.Base(pf.NewPath) == targetBase {
			selected = &patchFiles[i]
			break
		}
	}
	if selected == nil {
		return skill.Fail(fmt.Sprintf("no hunks in diff match target %q", target))
	}
	var multiFileWarning string
	if len(patchFiles) > 1 {
		multiFileWarning = fmt.Sprintf("diff contained %d files; only hunks matching %q were applied", len(patchFiles), targetBase)
	}

	resolvedTarget, err := skill.ResolvePath(s.svc, target, false, false)
	if err != nil {
		return skill.FailErr(err)
	}

	var originalContent string
	existed := true
	if _, statErr := os.Stat(resolvedTarget); statErr != nil {
		if !errors.Is(statErr, os.ErrNotExist) {
			return skill.FailErr(statErr)
		}
		existed = false
	} else {
		content, readErr := secio.ReadText(resolvedTarget)
		if readErr != nil {
			return skill.Fail(fmt.Sprintf("cannot read target: %v", readErr))
		}
		originalContent = content
	}
	if !existed && !selected.IsNewFile {
		return skill.Fail(fmt.Sprintf("target file not found: %s", target))
	}

	lineEnding := secio.DetectLineEnding(originalContent)
	normalized := secio.NormalizeToLF(originalContent)

	validation := diff.Validate(*selected, normalized)
	patchToApply := *selected
	if validation.FixedPatch != nil {
		patchToApply = *validation.FixedPatch
	}

	if mode == diff.Strict && !validation.Valid && validation.FixedPatch == nil {
		return skill.Fail(formatValidationFailure(validation, multiFileWarning))
	}

	applyResult := diff.Apply(patchToApply, normalized, mode, fuzzyThreshold)

	if dryRun {
		return skill.OK(formatDryRun(applyResult, validation, multiFileWarning))
	}

	if !applyResult.Success {
		return skill.Fail(formatApplyFailure(applyResult, multiFileWarning))
	}

	out := secio.RestoreLineEnding(applyResult.NewContent, lineEnding)
	if err := secio.WriteBytesAtomic(resolvedTarget, out); err != nil {
		return skill.Fail(fmt.Sprintf("cannot write target: %v", err))
	}
	return skill.OK(formatSuccess(applyResult, target, multiFileWarning))
}

func formatValidationFailure(v diff.ValidationResult, multiFileWarning string) string {
	var b strings.Builder
	b.WriteString("Patch validation failed:\n")
	for _, e := range v.Errors {
		b.WriteString("  - " + e + "\n")
	}
	if multiFileWarning != "" {
		b.WriteString(multiFileWarning + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatDryRun(r diff.ApplyResult, v diff.ValidationResult, multiFileWarning string) string {
	var b strings.Builder
	if r.Success {
		fmt.Fprintf(&b, "Dry run: would apply %d hunk(s) successfully\n", len(r.AppliedHunks))
	} else {
		fmt.Fprintf(&b, "Dry run: would fail (%d of %d hunks would not apply)\n", len(r.FailedHunks), len(r.AppliedHunks)+len(r.FailedHunks))
		for _, f := range r.FailedHunks {
			fmt.Fprintf(&b, "  - hunk %d: %s\n", f.Index, f.Reason)
		}
	}
	for _, w := range v.Warnings {
		b.WriteString("Warning: " + w + "\n")
	}
	for _, w := range r.Warnings {
		b.WriteString("Warning: " + w + "\n")
	}
	if multiFileWarning != "" {
		b.WriteString(multiFileWarning + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatApplyFailure(r diff.ApplyResult, multiFileWarning string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Patch failed: %d applied, %d failed\n", len(r.AppliedHunks), len(r.FailedHunks))
	for _, f := range r.FailedHunks {
		fmt.Fprintf(&b, "  - hunk %d: %s\n", f.Index, f.Reason)
	}
	if multiFileWarning != "" {
		b.WriteString(multiFileWarning + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSuccess(r diff.ApplyResult, target, multiFileWarning string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Applied %d hunk(s) to %s\n", len(r.AppliedHunks), target)
	for _, w := range r.Warnings {
		b.WriteString("Warning: " + w + "\n")
	}
	if multiFileWarning != "" {
		b.WriteString(multiFileWarning + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
