// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package clock provides the three timestamp sources a Logger may be
// configured with (spec.md §4.5, §9): a TSC-style calibrated tick
// source, a cached system wall clock, and a user-supplied clock for
// replay/testing. All three satisfy Source, the single method the
// producer's hot path calls to stamp a record.
package clock

// Source returns the current time as nanoseconds since the Unix epoch,
// the unit every backend comparison and ordering check uses.
type Source interface {
	NowNanos() uint64
}
