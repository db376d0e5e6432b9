// Package secio implements the secure I/O primitives (spec.md §4.1): owner-only
// directory/file creation and atomic temp-file-then-rename writes, with
// binary-safe line-ending preservation.
package secio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	secureDirMode  os.FileMode = 0o700
	secureFileMode os.FileMode = 0o600
)

// LineEnding is the dominant line terminator detected in a text blob.
type LineEnding string

const (
	LF   LineEnding = "\n"
	CR   LineEnding = "\r"
	CRLF LineEnding = "\r\n"
)

// SecureMkdir creates path (and, if parents is true, every missing ancestor)
// with owner-only permissions. Every intermediate directory created by this
// call receives the secure mode; an already-existing final directory has its
// mode reset to secure as well.
func SecureMkdir(path string, parents bool) error {
	if !parents {
		if err := os.Mkdir(path, secureDirMode); err != nil {
			if errors.Is(err, os.ErrExist) {
				return os.Chmod(path, secureDirMode)
			}
			return err
		}
		return nil
	}

	// Walk from the root down, creating and chmod'ing only what's missing,
	// then force the leaf mode regardless.
	clean := filepath.Clean(path)
	var toCreate []string
	cur := clean
	for {
		info, err := os.Stat(cur)
		if err == nil {
			if !info.IsDir() {
				return fmt.Errorf("secure_mkdir %q: %w", cur, syscallNotDir(cur))
			}
			break
		}
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		toCreate = append(toCreate, cur)
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	for i := len(toCreate) - 1; i >= 0; i-- {
		if err := os.Mkdir(toCreate[i], secureDirMode); err != nil && !errors.Is(err, os.ErrExist) {
			return err
		}
		if err := os.Chmod(toCreate[i], secureDirMode); err != nil {
			return err
		}
	}
	return os.Chmod(clean, secureDirMode)
}

func syscallNotDir(path string) error {
	return &os.PathError{Op: "mkdir", Path: path, Err: errNotADirectory}
}

var errNotADirectory = errors.New("not a directory")

// ErrExists is returned by CreateNewSecure when the target path already exists.
var ErrExists = errors.New("already exists")

// CreateNewSecure atomically creates path with content, failing with ErrExists
// if the path is already present. The created file is owner-only (0600) and
// fsynced before close.
func CreateNewSecure(path string, content []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, secureFileMode)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("create %q: %w", path, ErrExists)
		}
		return err
	}
	return finishWrite(f, content, path)
}

func finishWrite(f *os.File, content []byte, path string) error {
	if _, err := f.Write(content); err != nil {
		f.Close()
		return fmt.Errorf("write %q: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("fsync %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %q: %w", path, err)
	}
	return nil
}

// WriteAtomic writes content to path. If path is absent it behaves exactly as
// CreateNewSecure; otherwise it writes to a sibling temp file with owner-only
// mode, fsyncs, renames over the target, and re-applies the secure mode after
// rename. The temp file is removed on any error path, and the target is never
// partially overwritten.
func WriteAtomic(path string, content []byte) error {
	return WriteBytesAtomic(path, content)
}

// WriteBytesAtomic is the byte-exact form of WriteAtomic, used whenever the
// caller must preserve non-LF line endings verbatim.
func WriteBytesAtomic(path string, content []byte) error {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return CreateNewSecure(path, content)
		}
		return err
	}

	dir := filepath.Dir(path)
	tmpName := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	f, err := os.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, secureFileMode)
	if err != nil {
		return fmt.Errorf("create temp for %q: %w", path, err)
	}

	cleanup := func() {
		os.Remove(tmpName)
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		cleanup()
		return fmt.Errorf("write temp for %q: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		cleanup()
		return fmt.Errorf("fsync temp for %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp for %q: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename into %q: %w", path, err)
	}
	if err := os.Chmod(path, secureFileMode); err != nil {
		return fmt.Errorf("chmod %q: %w", path, err)
	}
	return nil
}

// ReadText reads path and decodes it as UTF-8, replacing any invalid byte
// sequences with the Unicode replacement character (lossless in the sense
// that it never errors on malformed input).
func ReadText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return decodeLossy(raw), nil
}

func decodeLossy(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	var b strings.Builder
	b.Grow(len(raw))
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		b.WriteRune(r)
		raw = raw[size:]
	}
	return b.String()
}

// DetectLineEnding reports the dominant line terminator in text: CRLF if any
// CRLF sequence is present, else CR if any bare CR is present, else LF. Empty
// input reports LF.
func DetectLineEnding(text string) LineEnding {
	if strings.Contains(text, "\r\n") {
		return CRLF
	}
	if strings.Contains(text, "\r") {
		return CR
	}
	return LF
}

// RestoreLineEnding rewrites every bare "\n" in text (the internal working
// representation) to ending, and returns the result as bytes ready for
// WriteBytesAtomic.
func RestoreLineEnding(text string, ending LineEnding) []byte {
	if ending == LF {
		return []byte(text)
	}
	return []byte(strings.ReplaceAll(text, "\n", string(ending)))
}

// NormalizeToLF converts any CRLF/CR line endings in text to bare LF, for
// internal line-oriented processing.
func NormalizeToLF(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text
}

// ReadAll drains r fully. No skill or CLI command in this module calls it;
// the CLI does not read diffs from stdin.
func ReadAll(r io.Reader) ([]byte, error) {
	return io.ReadAll(r)
}
