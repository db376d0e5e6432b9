// Package nexuserr declares the sentinel error taxonomy shared across the core.
//
// Internal layers wrap these with context via fmt.Errorf("...: %w", err); the
// skill layer classifies them with errors.Is to build the public Result without
// resorting to string matching.
package nexuserr

import "errors"

var (
	// ErrNotFound covers a missing file, clipboard key, tag, or storage row.
	ErrNotFound = errors.New("not found")
	// ErrConflict covers a duplicate key on create, a rename collision, or an
	// existing destination without an overwrite flag.
	ErrConflict = errors.New("conflict")
	// ErrPermission covers a denied clipboard scope operation or an OS permission error.
	ErrPermission = errors.New("permission denied")
	// ErrSize covers content over the clipboard hard cap, a file over a read/grep
	// cap, or a regex substitution exceeding its match budget.
	ErrSize = errors.New("size limit exceeded")
	// ErrValidation covers malformed parameters: empty key, bad scope string, bad
	// line ranges, invalid regex, mutually exclusive arguments both set, etc.
	ErrValidation = errors.New("invalid input")
	// ErrSchema covers an unrecognized clipboard export/import version.
	ErrSchema = errors.New("unrecognized schema version")
	// ErrPathDenied covers a denied path-decision outcome.
	ErrPathDenied = errors.New("path access denied")
)
