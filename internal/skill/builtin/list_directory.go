package builtin

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/incurian/nexus3/internal/skill"
)

// ListDirectorySkill lists directory contents, optionally with metadata.
// Grounded in original_source/.../list_directory.py.
type ListDirectorySkill struct{ svc *skill.Services }

func NewListDirectorySkill(svc *skill.Services) skill.Skill { return &ListDirectorySkill{svc: svc} }

func (s *ListDirectorySkill) Name() string        { return "list_directory" }
func (s *ListDirectorySkill) Description() string { return "List contents of a directory" }
func (s *ListDirectorySkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{"type": "string", "description": "Directory path to list (default: current directory)"},
			"all":  map[string]any{"type": "boolean", "default": false, "description": "Include hidden files (starting with .)"},
			"long": map[string]any{"type": "boolean", "default": false, "description": "Include size, modification time, and permissions"},
		},
		"required": []string{},
	}
}

func (s *ListDirectorySkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	path := args.String("path", ".")
	showAll := args.Bool("all", false)
	long := args.Bool("long", false)

	resolved, err := skill.ResolvePath(s.svc, path, true, true)
	if err != nil {
		return skill.FailErr(err)
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		return skill.Fail(fmt.Sprintf("Error listing directory: %v", err))
	}

	var filtered []os.DirEntry
	for _, e := range entries {
		if !showAll && strings.HasPrefix(e.Name(), ".") {
			continue
		}
		filtered = append(filtered, e)
	}

	sort.Slice(filtered, func(i, j int) bool {
		di, dj := filtered[i].IsDir(), filtered[j].IsDir()
		if di != dj {
			return di
		}
		return strings.ToLower(filtered[i].Name()) < strings.ToLower(filtered[j].Name())
	})

	var b strings.Builder
	if long {
		for _, e := range filtered {
			info, err := e.Info()
			if err != nil {
				fmt.Fprintf(&b, "?  ?  ?  %s  (error: %v)\n", e.Name(), err)
				continue
			}
			typeChar := "-"
			if e.IsDir() {
				typeChar = "d"
			}
			fmt.Fprintf(&b, "%s%s  %8s  %s  %s\n",
				typeChar, info.Mode().Perm().String()[1:],
				formatByteSize(info.Size()),
				info.ModTime().Format("2006-01-02 15:04"),
				e.Name())
		}
	} else {
		for _, e := range filtered {
			name := e.Name()
			if e.IsDir() {
				name += "/"
			}
			b.WriteString(name)
			b.WriteString("\n")
		}
	}

	out := strings.TrimSuffix(b.String(), "\n")
	if out == "" {
		out = "(empty directory)"
	}
	return skill.OK(out)
}
