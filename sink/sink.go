// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sink implements the terminal-consumer interface the backend
// dispatches formatted records to (spec.md §4.6), a composable filter
// chain (spec.md §4.6/§3), and a name-keyed registry with weak-reference
// sweep (spec.md §3's "registries hold weak handles to sinks").
//
// Two reference sinks ship to make the package usable and testable on its
// own: Writer wraps any io.Writer, Memory is an in-process ring. Rotating
// file, colorized console and io_uring sinks remain out of scope
// (spec.md §1).
package sink

import "code.hybscloud.com/quill/codec"

// KV is one structured-logging key-value pair, produced when a call
// site's format template has named placeholders (spec.md §4.5).
type KV struct {
	Key   string
	Value string
}

// Sink is the terminal consumer of formatted log records
// (original_source quill/include/quill/sinks/Sink.h's write_log_message/
// flush_sink/run_periodic_tasks trio).
type Sink interface {
	// Write delivers one formatted record. Called only from the backend
	// goroutine, after the sink's own level filter and filter chain
	// both accept the record.
	Write(site *codec.CallSite, tsNanos uint64, threadID, threadName, loggerName string, level codec.Level, structured []KV, formatted string)
	// Flush synchronizes the sink with its underlying output.
	Flush() error
	// PeriodicTick runs once per backend idle pass, not once per
	// record — for cheap, sink-specific housekeeping (spec.md §4.6).
	PeriodicTick()
}
