// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package backend

import "golang.org/x/sys/unix"

// defaultAffinity pins the calling OS thread via unix.SchedSetaffinity,
// grounded on ehrlich-b-go-ublk's internal/queue/runner.go ioLoop (same
// call, same "continue without affinity, not fatal" posture is left to
// the caller here rather than swallowed, since the worker logs through
// its own error notifier instead of a *log.Logger).
type defaultAffinity struct{}

func (defaultAffinity) Pin(cpu int) error {
	if cpu < 0 {
		return nil
	}
	var mask unix.CPUSet
	mask.Set(cpu)
	return unix.SchedSetaffinity(0, &mask)
}
