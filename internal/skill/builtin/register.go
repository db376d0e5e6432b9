// Package builtin provides the stock skill set shipped with nexus3:
// patch application, the scoped clipboard, filesystem utilities, and a
// permission-filtered git command runner. Grounded in the layout of
// original_source/nexus3/skill/builtin/ (one module per skill).
package builtin

import "github.com/incurian/nexus3/internal/skill"

// RegisterAll registers every builtin skill factory on r. Callers that want
// a subset can call the individual New*Skill factories directly and
// Register them by hand instead.
func RegisterAll(r *skill.Registry) {
	r.Register("patch", NewPatchSkill)

	r.Register("copy", NewCopySkill)
	r.Register("cut", NewCutSkill)
	r.Register("paste", NewPasteSkill)
	r.Register("clipboard_list", NewClipboardListSkill)
	r.Register("clipboard_get", NewClipboardGetSkill)
	r.Register("clipboard_update", NewClipboardUpdateSkill)
	r.Register("clipboard_delete", NewClipboardDeleteSkill)
	r.Register("clipboard_clear", NewClipboardClearSkill)
	r.Register("clipboard_search", NewClipboardSearchSkill)
	r.Register("clipboard_tag", NewClipboardTagSkill)
	r.Register("clipboard_export", NewClipboardExportSkill)
	r.Register("clipboard_import", NewClipboardImportSkill)

	r.Register("read_file", NewReadFileSkill)
	r.Register("tail", NewTailSkill)
	r.Register("write_file", NewWriteFileSkill)
	r.Register("append_file", NewAppendFileSkill)
	r.Register("mkdir", NewMkdirSkill)
	r.Register("copy_file", NewCopyFileSkill)
	r.Register("rename", NewRenameSkill)
	r.Register("file_info", NewFileInfoSkill)
	r.Register("list_directory", NewListDirectorySkill)
	r.Register("glob", NewGlobSkill)
	r.Register("grep", NewGrepSkill)
	r.Register("edit_lines", NewEditLinesSkill)
	r.Register("edit_file", NewEditFileSkill)
	r.Register("regex_replace", NewRegexReplaceSkill)
	r.Register("concat_files", NewConcatFilesSkill)
	r.Register("echo", NewEchoSkill)

	r.Register("git", NewVCSSkill)
}
