// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package clock

import (
	"time"

	"github.com/agilira/go-timecache"
)

// System is the default clock source: a cached wall clock, avoiding a
// syscall on every single log call (grounded on agilira-lethe's own use
// of go-timecache for the identical reason — batching syscalls behind a
// resolution-bounded cache on a write hot path).
type System struct {
	cache *timecache.TimeCache
}

// NewSystem returns a System clock cached at resolution. A zero
// resolution falls back to 1ms, matching go-timecache's own
// documented minimum useful granularity.
func NewSystem(resolution time.Duration) *System {
	if resolution <= 0 {
		resolution = time.Millisecond
	}
	return &System{cache: timecache.NewWithResolution(resolution)}
}

// NowNanos implements Source.
func (s *System) NowNanos() uint64 {
	return uint64(s.cache.CachedTime().UnixNano())
}
