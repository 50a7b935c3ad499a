// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package backend

import (
	"time"

	"code.hybscloud.com/quill/internal/clock"
	"code.hybscloud.com/quill/qerrors"
	"code.hybscloud.com/quill/sink"
)

// ErrorNotifier receives drop/block/alloc/format-error events from the
// backend goroutine. Alias of qerrors.Notifier so both packages speak
// the same function type without backend importing quill.
type ErrorNotifier = qerrors.Notifier

// Options configures a backend Worker, mirroring spec.md §6's backend
// option table field-for-field.
type Options struct {
	// CPUAffinity pins the worker goroutine's OS thread to this CPU.
	// Negative values and zero (the unset value) disable pinning, so CPU 0
	// cannot be selected.
	CPUAffinity int
	ThreadName  string

	// SleepDuration bounds how long the worker waits on its idle
	// condition variable (realized as a timer-guarded channel receive)
	// before re-checking every queue.
	SleepDuration time.Duration

	// TransitEventsSoftLimit caps how many records one populate round
	// decodes from a single thread's queue; TransitEventsHardLimit caps how
	// many decoded-but-unemitted records that thread's transit buffer may
	// hold. Reaching either stops draining that thread's queue for this
	// round (spec.md §4.5 step 2).
	TransitEventsSoftLimit int
	TransitEventsHardLimit int

	TransitEventBufferInitialCapacity int

	// RDTSCResyncInterval bounds how often the TSC clock resynchronizes
	// against the wall clock. Must exceed SleepDuration (spec.md §4.5's
	// "sleep duration must not exceed resync interval").
	RDTSCResyncInterval time.Duration

	// StrictLogTimestampOrder enables the ceiling check of spec.md §4.5:
	// a record whose translated timestamp is not yet <= the round's
	// sampled wall-clock stays in its thread's transit buffer and is not
	// emitted until a later round's ceiling reaches it.
	StrictLogTimestampOrder bool

	// WaitForQueuesToEmptyBeforeExit makes Stop drain every queue before
	// returning instead of abandoning in-flight records.
	WaitForQueuesToEmptyBeforeExit bool

	// EnableYieldWhenIdle calls runtime.Gosched instead of sleeping the
	// full SleepDuration when idle, trading CPU for lower wake latency.
	EnableYieldWhenIdle bool

	ErrorNotifier ErrorNotifier

	// Clock supplies the worker's own "now" for the strict-ordering
	// ceiling check; defaults to internal/clock.NewSystem(time.Millisecond).
	Clock clock.Source

	// Affinity is the injectable CPU-pinning collaborator; defaults to
	// the platform's best-effort implementation (Linux:
	// unix.SchedSetaffinity, elsewhere: a no-op).
	Affinity AffinityPinner

	// Metrics, when non-nil, receives Prometheus-backed counters and
	// gauges for drops, blocks, allocations, format errors and
	// transit-buffer depth. Nil disables metrics entirely.
	Metrics *Metrics

	// SinkRegistry, when non-nil, is swept once per idle pass with every
	// queue empty (spec.md §4.5 step 4), dropping entries whose sink has
	// been garbage collected because no logger references it anymore.
	// Nil means no registry-backed sinks are in play for this process.
	SinkRegistry *sink.Registry
}

// withDefaults fills zero-valued fields with the teacher-idiom defaults.
func (o Options) withDefaults() Options {
	if o.SleepDuration <= 0 {
		o.SleepDuration = 10 * time.Millisecond
	}
	if o.RDTSCResyncInterval <= 0 {
		o.RDTSCResyncInterval = 100 * time.Second
	}
	if o.TransitEventsSoftLimit <= 0 {
		o.TransitEventsSoftLimit = 256
	}
	if o.TransitEventsHardLimit <= 0 {
		o.TransitEventsHardLimit = 4096
	}
	if o.TransitEventBufferInitialCapacity <= 0 {
		o.TransitEventBufferInitialCapacity = 64
	}
	if o.Clock == nil {
		o.Clock = clock.NewSystem(time.Millisecond)
	}
	if o.Affinity == nil {
		o.Affinity = defaultAffinity{}
	}
	if o.CPUAffinity == 0 {
		o.CPUAffinity = -1
	}
	return o
}

// AffinityPinner pins the calling OS thread to a CPU, the Go substitute
// for original_source's thread-affinity helper in BackendUtilities.h —
// deliberately an injectable collaborator rather than core logic, since
// affinity is platform-specific and out of scope beyond a best-effort
// Linux implementation (spec.md's Non-goals).
type AffinityPinner interface {
	Pin(cpu int) error
}
