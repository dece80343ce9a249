package process

import "testing"

// Real kills are exercised by the kiosk integration tests. Here only
// arguments that must never reach the OS are covered: zero would target our
// own process group.

func TestKillProcessGroup_NonPositivePID(t *testing.T) {
	t.Parallel()

	for _, pid := range []int{0, -1} {
		KillProcessGroup(pid)
	}
}

func TestKillProcessGroup_UnknownPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}
