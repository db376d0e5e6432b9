package builtin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/incurian/nexus3/internal/skill"
)

// RenameSkill renames or moves a file or directory. Grounded in
// original_source/.../rename.py.
type RenameSkill struct{ svc *skill.Services }

func NewRenameSkill(svc *skill.Services) skill.Skill { return &RenameSkill{svc: svc} }

func (s *RenameSkill) Name() string        { return "rename" }
func (s *RenameSkill) Description() string { return "Rename or move a file or directory" }
func (s *RenameSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"source":      map[string]any{"type": "string", "description": "Current path of the file or directory"},
			"destination": map[string]any{"type": "string", "description": "New path for the file or directory"},
			"overwrite":   map[string]any{"type": "boolean", "default": false, "description": "Overwrite destination if it exists (default: false)"},
		},
		"required": []string{"source", "destination"},
	}
}

func (s *RenameSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
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
		return skill.Fail(fmt.Sprintf("Source not found: %s", source))
	}

	if dstInfo, err := os.Stat(dstResolved); err == nil {
		if !overwrite {
			return skill.Fail(fmt.Sprintf("Destination already exists: %s. Use overwrite=true to replace.", destination))
		}
		if dstInfo.IsDir() {
			if !srcInfo.IsDir() {
				return skill.Fail(fmt.Sprintf("Cannot overwrite directory with file: %s", destination))
			}
			if err := os.RemoveAll(dstResolved); err != nil {
				return skill.Fail(fmt.Sprintf("OS error renaming: %v", err))
			}
		} else {
			if srcInfo.IsDir() {
				return skill.Fail(fmt.Sprintf("Cannot overwrite file with directory: %s", destination))
			}
			if err := os.Remove(dstResolved); err != nil {
				return skill.Fail(fmt.Sprintf("OS error renaming: %v", err))
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(dstResolved), 0o755); err != nil {
		return skill.Fail(fmt.Sprintf("OS error renaming: %v", err))
	}

	if err := os.Rename(srcResolved, dstResolved); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "cross-device") {
			return skill.Fail(fmt.Sprintf("Cannot move across filesystems. Use copy_file + delete instead: %v", err))
		}
		return skill.Fail(fmt.Sprintf("OS error renaming: %v", err))
	}

	itemType := "file"
	if srcInfo.IsDir() {
		itemType = "directory"
	}
	return skill.OK(fmt.Sprintf("Renamed %s: %s -> %s", itemType, source, destination))
}
