package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/incurian/nexus3/internal/skill"
)

// FileInfoSkill returns JSON metadata about a file or directory. Grounded
// in original_source/.../file_info.py.
type FileInfoSkill struct{ svc *skill.Services }

func NewFileInfoSkill(svc *skill.Services) skill.Skill { return &FileInfoSkill{svc: svc} }

func (s *FileInfoSkill) Name() string { return "file_info" }
func (s *FileInfoSkill) Description() string {
	return "Get metadata about a file or directory (size, modified, permissions)"
}
func (s *FileInfoSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{"type": "string", "description": "The path to the file or directory"},
		},
		"required": []string{"path"},
	}
}

type fileInfoResult struct {
	Path        string `json:"path"`
	Type        string `json:"type,omitempty"`
	Size        int64  `json:"size,omitempty"`
	SizeHuman   string `json:"size_human,omitempty"`
	Modified    string `json:"modified,omitempty"`
	Permissions string `json:"permissions,omitempty"`
	Exists      bool   `json:"exists"`
}

func formatByteSize(size int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	f := float64(size)
	for _, u := range units {
		if f < 1024 {
			if u == "B" {
				return fmt.Sprintf("%d %s", size, u)
			}
			return fmt.Sprintf("%.1f %s", f, u)
		}
		f /= 1024
	}
	return fmt.Sprintf("%.1f PB", f)
}

func (s *FileInfoSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	path := args.String("path", "")
	if path == "" {
		return skill.Fail("No path provided")
	}
	resolved, err := skill.ResolvePath(s.svc, path, false, false)
	if err != nil {
		return skill.FailErr(err)
	}

	info, statErr := os.Lstat(resolved)
	if statErr != nil {
		data, _ := json.MarshalIndent(fileInfoResult{Path: path, Exists: false}, "", "  ")
		return skill.OK(string(data))
	}

	fileType := "other"
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		fileType = "symlink"
	case info.IsDir():
		fileType = "directory"
	case info.Mode().IsRegular():
		fileType = "file"
	}

	result := fileInfoResult{
		Path:        resolved,
		Type:        fileType,
		Size:        info.Size(),
		SizeHuman:   formatByteSize(info.Size()),
		Modified:    info.ModTime().UTC().Format(time.RFC3339),
		Permissions: info.Mode().Perm().String(),
		Exists:      true,
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return skill.FailErr(err)
	}
	return skill.OK(string(data))
}
