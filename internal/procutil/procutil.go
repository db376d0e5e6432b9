// Package procutil terminates a subprocess and every descendant it spawned,
// not just the direct child — needed because a timed-out git/grep
// invocation may have forked helpers that would otherwise survive.
// Grounded in original_source/.../git.py's terminate_process_tree call and
// spec.md §4.12; platform process-group syscalls are wired through
// golang.org/x/sys (already part of the domain stack) since the Python
// original relies on OS session/group semantics the standard library
// doesn't expose directly.
package procutil

import (
	"os/exec"
	"time"
)

// GracefulTimeout is the default wait between SIGTERM and SIGKILL.
const GracefulTimeout = 2 * time.Second

// Prepare configures cmd to start in its own process group/session so
// TerminateTree can later kill the whole tree. Call before cmd.Start().
func Prepare(cmd *exec.Cmd) {
	prepare(cmd)
}

// TerminateTree terminates cmd's process group (or the lone process if
// group termination isn't available), waiting up to graceful for a clean
// exit before escalating. Safe to call on an already-exited process.
func TerminateTree(cmd *exec.Cmd, graceful time.Duration) {
	terminateTree(cmd, graceful)
}
