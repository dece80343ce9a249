//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid. Errors are
// ignored: the group may already be gone when the browser exited cleanly.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
