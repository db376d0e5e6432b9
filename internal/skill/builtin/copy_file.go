package builtin

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/incurian/nexus3/internal/skill"
)

// CopyFileSkill copies a file to a new location, preserving mode bits.
// Grounded in original_source/.../copy_file.py.
type CopyFileSkill struct{ svc *skill.Services }

func NewCopyFileSkill(svc *skill.Services) skill.Skill { return &CopyFileSkill{svc: svc} }

func (s *CopyFileSkill) Name() string        { return "copy_file" }
func (s *CopyFileSkill) Description() string { return "Copy a file to a new location (preserves metadata)" }
func (s *CopyFileSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"source":      map[string]any{"type": "string", "description": "Path to the source file to copy"},
			"destination": map[string]any{"type": "string", "description": "Path for the destination file"},
			"overwrite":   map[string]any{"type": "boolean", "default": false, "description": "Overwrite destination if it exists (default: false)"},
		},
		"required": []string{"source", "destination"},
	}
}

func (s *CopyFileSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	source := args.String("source", "")
	if source == "" {
		return skill.Fail("Source path is required")
	}
	destination := args.String("destination", "")
	if destination == "" {
		return skill.Fail("Destination path is required")
	}
	overwrite := args.Bool("overwrite", false)

	srcResolved, err := skill.ResolvePath(s.svc, source, true, false)
	if err != nil {
		return skill.FailErr(err)
	}
	dstResolved, err := skill.ResolvePath(s.svc, destination, false, false)
	if err != nil {
		return skill.FailErr(err)
	}

	srcInfo, err := os.Stat(srcResolved)
	if err != nil {
		return skill.Fail(fmt.Sprintf("Source file not found: %s", source))
	}
	if srcInfo.IsDir() {
		return skill.Fail(fmt.Sprintf("Source is not a file: %s", source))
	}

	if _, err := os.Stat(dstResolved); err == nil && !overwrite {
		return skill.Fail(fmt.Sprintf("Destination already exists: %s. Use overwrite=true to replace.", destination))
	}

	if err := os.MkdirAll(filepath.Dir(dstResolved), 0o755); err != nil {
		return skill.Fail(fmt.Sprintf("OS error copying file: %v", err))
	}

	if err := copyFileWithMode(srcResolved, dstResolved, srcInfo.Mode()); err != nil {
		return skill.Fail(fmt.Sprintf("OS error copying file: %v", err))
	}

	return skill.OK(fmt.Sprintf("Copied %s to %s", source, destination))
}

func copyFileWithMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
