// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quill

import (
	"time"

	"code.hybscloud.com/quill/internal/clock"
)

// clockKind discriminates the three selectors of spec.md §3 explicitly,
// rather than inferring one from ClockSource's wrapped collaborator —
// backend.LoggerHandle.BypassOrderingCeiling needs to know "is this
// User" without caring what concrete clock.Source backs it.
type clockKind int

const (
	clockKindSystem clockKind = iota
	clockKindTSC
	clockKindUser
)

// ClockSource selects which of the three timestamp sources a Logger
// samples on its hot path (spec.md §3's "immutable clock-source selector
// {Tsc, System, User}").
type ClockSource struct {
	source clock.Source
	tsc    *clock.TSC
	kind   clockKind
}

// TscClock wraps a shared *clock.TSC: the Logger's hot path calls Ticks
// (a raw, uncalibrated counter read) rather than NowNanos, deferring
// translation to nanoseconds-since-epoch to the backend's own shared
// calibration instance (spec.md §4.5's "optionally translate TSC to
// ns-since-epoch" and internal/clock.TSC.Ticks's doc comment). Every
// TSC-sourced Logger should share one *clock.TSC with the backend's
// Options.Clock, the same way the original shares one RdtscClock across
// every logger.
func TscClock(tsc *clock.TSC) ClockSource {
	return ClockSource{source: tsc, tsc: tsc, kind: clockKindTSC}
}

// SystemClock wraps internal/clock.System: a cached wall clock, avoiding
// a syscall on every log call.
func SystemClock(resolution time.Duration) ClockSource {
	return ClockSource{source: clock.NewSystem(resolution), kind: clockKindSystem}
}

// UserClock wraps a caller-supplied "now" function, for replaying
// historical records or driving deterministic tests. Records from a
// UserClock logger bypass the backend's strict-mode timestamp ceiling
// entirely (SPEC_FULL.md §9's Open Question resolution), since a
// caller-stamped timestamp may legitimately be historical or
// future-dated.
func UserClock(fn func() uint64) ClockSource {
	return ClockSource{source: clock.NewUser(fn), kind: clockKindUser}
}

// sample reads the clock per spec.md §4.4 step 2: a raw tick count for a
// TSC source (translated later, by the backend), nanoseconds-since-epoch
// directly for System and User sources.
func (c ClockSource) sample() uint64 {
	if c.kind == clockKindTSC {
		return c.tsc.Ticks()
	}
	return c.source.NowNanos()
}
