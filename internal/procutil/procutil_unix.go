//go:build !windows

package procutil

import (
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

func prepare(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

func terminateTree(cmd *exec.Cmd, graceful time.Duration) {
	if cmd.Process == nil {
		return
	}
	pid := cmd.Process.Pid

	done := make(chan struct{})
	go func() {
		_, _ = cmd.Process.Wait()
		close(done)
	}()

	if err := unix.Kill(-pid, unix.SIGTERM); err != nil {
		// Group signal failed (not our own group, or process already gone);
		// fall back to signalling the process directly.
		_ = ignoreLookupAndPermission(cmd.Process.Signal(syscall.SIGTERM))
	}

	select {
	case <-done:
		return
	case <-time.After(graceful):
	}

	if err := unix.Kill(-pid, unix.SIGKILL); err != nil {
		_ = ignoreLookupAndPermission(cmd.Process.Kill())
	}

	<-done
}

func ignoreLookupAndPermission(err error) error {
	if err == nil {
		return nil
	}
	if err == syscall.ESRCH || err == syscall.EPERM {
		return nil
	}
	return err
}
