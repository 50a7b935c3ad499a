// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package clock

import "time"

// TickSource returns an opaque, monotonically increasing tick count —
// the spec's RDTSC read. Production code supplies MonotonicTicks, a
// portable stand-in where 1 tick = 1 nanosecond; a true cycle-counter
// TickSource is exactly the platform-specific hardware collaborator
// spec.md excludes from scope (§1), so the calibration algorithm below
// is the deliverable, not an assembly file.
type TickSource func() uint64

// MonotonicTicks is the default TickSource: time.Now().UnixNano(), i.e.
// 1 tick = 1 nanosecond. A real cycle counter only requires supplying a
// different TickSource to NewTSC; nothing else about TSC changes.
func MonotonicTicks() uint64 { return uint64(time.Now().UnixNano()) }

// WallClock returns the current wall-clock time as nanoseconds since the
// Unix epoch. Consulted only during (re)calibration.
type WallClock func() uint64

// SystemWallClock is the default WallClock.
func SystemWallClock() uint64 { return uint64(time.Now().UnixNano()) }

// TSC is the calibrated tick-to-wall-time clock of spec.md §4.5/§9:
// ticks advance at ticksPerNs relative to a (baseTicks, baseNanos) pair
// that is periodically resynced against wall, bounding how far a
// long-running producer's timestamps can drift (original_source
// RdtscClock.cpp's time_since_epoch/resync pair).
type TSC struct {
	ticks      TickSource
	wall       WallClock
	ticksPerNs float64

	resyncIntervalTicks int64

	baseTicks uint64
	baseNanos uint64
}

// NewTSC builds a TSC clock. A nil ticks or wall falls back to the
// portable defaults; a non-positive ticksPerNs or resyncInterval falls
// back to 1 tick/ns and 100s respectively, matching the original's
// defaulted constructor rather than panicking on a zero value.
func NewTSC(ticks TickSource, wall WallClock, ticksPerNs float64, resyncInterval time.Duration) *TSC {
	if ticks == nil {
		ticks = MonotonicTicks
	}
	if wall == nil {
		wall = SystemWallClock
	}
	if ticksPerNs <= 0 {
		ticksPerNs = 1
	}
	if resyncInterval <= 0 {
		resyncInterval = 100 * time.Second
	}
	c := &TSC{
		ticks:               ticks,
		wall:                wall,
		ticksPerNs:          ticksPerNs,
		resyncIntervalTicks: int64(float64(resyncInterval.Nanoseconds()) * ticksPerNs),
	}
	c.resync()
	return c
}

// NowNanos implements Source: converts the current tick reading to
// nanoseconds since the epoch relative to the last resync point,
// resyncing again if more ticks have elapsed than resyncIntervalTicks.
func (c *TSC) NowNanos() uint64 {
	now := c.ticks()
	nanos := c.Translate(now)
	if int64(now-c.baseTicks) > c.resyncIntervalTicks {
		c.resync()
	}
	return nanos
}

// Ticks reads the raw counter with no calibration math: the producer
// hot-path's cheap sample (spec.md §4.4 step 2's "RDTSC counter"). A
// TSC-sourced record carries this raw value in its header; translating
// it to nanoseconds since the epoch is deferred to the backend's single
// shared calibration instance (Translate), so every producer thread
// pays only the cost of one counter read.
func (c *TSC) Ticks() uint64 { return c.ticks() }

// Translate converts an arbitrary tick count — typically one read by a
// producer thread and carried in a record's header — to nanoseconds
// since the epoch, against this clock's current calibration. Not safe
// for concurrent use with NowNanos or another Translate call; the
// backend owns a single TSC instance and calls both only from its own
// goroutine (spec.md §9's single shared RDTSC calibration instance).
func (c *TSC) Translate(ticks uint64) uint64 {
	diff := int64(ticks - c.baseTicks)
	nanos := int64(c.baseNanos) + int64(float64(diff)/c.ticksPerNs)
	if nanos < 0 {
		return 0
	}
	return uint64(nanos)
}

func (c *TSC) resync() {
	c.baseTicks = c.ticks()
	c.baseNanos = c.wall()
}
