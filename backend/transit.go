// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package backend implements the single background goroutine that drains
// every producer's queue, decodes records in global timestamp order, and
// dispatches them to sinks — the Go realization of the original quill
// BackendWorker (original_source quill/include/quill/backend/BackendWorker.h).
package backend

import (
	"sync"

	"code.hybscloud.com/quill/codec"
	"code.hybscloud.com/quill/sink"
	"code.hybscloud.com/quill/threadctx"
)

// TransitEvent is one decoded-but-not-yet-emitted record, pooled so the
// steady-state emit loop does not allocate per record (spec §4.5's
// transit buffer; original_source TransitEvent.h). Kind discriminates
// which of the state machine's branches this event takes during emit
// (spec §4.5's TransitEvent state diagram): a plain Log event carries
// Args/Structured, a Flush event carries Signal, an InitBacktrace event
// carries BacktraceCapacity, and a FlushBacktrace event carries neither.
type TransitEvent struct {
	Context    *threadctx.Context
	Logger     *LoggerHandle
	TSNanos    uint64
	Site       *codec.CallSite
	Args       []codec.Arg
	Structured []sink.KV
	Level      codec.Level

	Signal               *FlushSignal
	BacktraceCapacity    uint32
	BacktraceFlushLevel  codec.Level
}

var transitPool = sync.Pool{
	New: func() any { return new(TransitEvent) },
}

// getTransitEvent returns a TransitEvent from the pool, reset for reuse.
func getTransitEvent() *TransitEvent {
	e := transitPool.Get().(*TransitEvent)
	e.Context = nil
	e.Logger = nil
	e.TSNanos = 0
	e.Site = nil
	e.Args = e.Args[:0]
	e.Structured = e.Structured[:0]
	e.Level = 0
	e.Signal = nil
	e.BacktraceCapacity = 0
	e.BacktraceFlushLevel = 0
	return e
}

// putTransitEvent returns e to the pool once the backend has fully
// emitted it.
func putTransitEvent(e *TransitEvent) {
	transitPool.Put(e)
}
