// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package backend

import (
	"encoding/binary"
	"unsafe"

	"code.hybscloud.com/atomix"

	"code.hybscloud.com/quill/codec"
	"code.hybscloud.com/quill/sink"
)

// LoggerHandle is the backend-owned view of a logger: exactly the fields
// the backend needs to format and dispatch a decoded record, with no
// dependence on the quill package (which imports backend to start it —
// the reverse import would cycle). A *quill.Logger builds one of these
// once, at construction, and boxes its address into every record it
// writes, the same pointer-boxing trick codec.Header uses for CallSite
// and Token (spec.md §3/§9): safe because the Logger outlives every
// record it ever wrote, for the life of the process or until removed.
type LoggerHandle struct {
	Name  string
	Sinks []sink.Sink

	// UsesTSC reports whether this logger's records carry raw TSC tick
	// counts in Header.TimestampTicks rather than nanoseconds-since-epoch
	// directly. System- and User-clock loggers already stamp nanoseconds
	// at the call site, so the backend only ever translates for Tsc
	// loggers, through its single shared calibrated clock (spec.md §4.5's
	// "optionally translate TSC to ns-since-epoch").
	UsesTSC bool

	// BypassOrderingCeiling marks a User-clock logger: its records carry
	// caller-supplied timestamps that may legitimately be historical or
	// future-dated, so the backend's strict-mode ordering ceiling never
	// withholds them (SPEC_FULL.md §9's Open Question resolution,
	// matching original_source's special case for user-supplied clocks).
	BypassOrderingCeiling bool

	// level is the logger's current atomic threshold: the producer's
	// cheap gate (spec.md §4.4 step 1) compares a call site's static or
	// dynamic level against this before doing anything else.
	level atomix.Uint64

	// Format renders one decoded record into its sink-ready text and,
	// when the template has named placeholders, the parallel
	// structured key/value list (spec.md §4.5's "structured logging").
	Format func(tsNanos uint64, site *codec.CallSite, level codec.Level, threadID, threadName string, args []codec.Arg) (formatted string, structured []sink.KV)

	// backtraceFlushLevel is set by an InitBacktrace record; a record at
	// or above this level triggers an automatic replay of the logger's
	// backtrace ring (spec.md §4.7). LevelNone (the zero value) disables
	// the automatic trigger until InitBacktrace runs.
	backtraceFlushLevel atomix.Uint64

	// valid is cleared by quill.RemoveLogger; the backend sweeps a logger
	// (and the sinks it alone kept alive) once every producer queue that
	// might still reference it is empty (spec.md §3's "removal is
	// asynchronous").
	valid atomix.Bool
}

// SetBacktraceFlushLevel and BacktraceFlushLevel let the backend record
// and consult an InitBacktrace record's flush_level without reaching
// into a raw atomix field from outside the package.
func (h *LoggerHandle) SetBacktraceFlushLevel(level codec.Level) {
	h.backtraceFlushLevel.StoreRelaxed(uint64(level))
}
func (h *LoggerHandle) BacktraceFlushLevel() codec.Level {
	return codec.Level(h.backtraceFlushLevel.LoadRelaxed())
}

// SetLevel and Level let Logger.SetLevel and the producer's hot-path gate
// share the same atomic threshold without either reaching into atomix
// directly.
func (h *LoggerHandle) SetLevel(level codec.Level) { h.level.StoreRelaxed(uint64(level)) }
func (h *LoggerHandle) Level() codec.Level         { return codec.Level(h.level.LoadRelaxed()) }

// NewLoggerHandle returns a LoggerHandle marked valid, ready to box into
// every record the owning Logger writes.
func NewLoggerHandle(name string, sinks []sink.Sink, usesTSC, bypassOrderingCeiling bool, level codec.Level, format func(tsNanos uint64, site *codec.CallSite, level codec.Level, threadID, threadName string, args []codec.Arg) (string, []sink.KV)) *LoggerHandle {
	h := &LoggerHandle{Name: name, Sinks: sinks, UsesTSC: usesTSC, BypassOrderingCeiling: bypassOrderingCeiling, Format: format}
	h.valid.StoreRelaxed(true)
	h.level.StoreRelaxed(uint64(level))
	h.backtraceFlushLevel.StoreRelaxed(uint64(codec.LevelNone))
	return h
}

// SetValid and Valid let the quill package mark a removed logger without
// every caller needing to reach into atomix itself.
func (h *LoggerHandle) SetValid(v bool) { h.valid.StoreRelaxed(v) }
func (h *LoggerHandle) Valid() bool     { return h.valid.LoadRelaxed() }

// loggerPointerSize is the width of the boxed *LoggerHandle word that
// follows every record's codec.Header.
const loggerPointerSize = 8

// recordPrefixSize is the fixed-width portion of every record: the codec
// header plus the boxed logger pointer.
const recordPrefixSize = codec.HeaderSize + loggerPointerSize

// encodeLoggerPointer writes h's address into buf[:8].
func encodeLoggerPointer(buf []byte, h *LoggerHandle) {
	binary.LittleEndian.PutUint64(buf[:loggerPointerSize], uint64(uintptr(unsafe.Pointer(h))))
}

// decodeLoggerPointer reconstructs the *LoggerHandle boxed at buf[:8].
// Only ever called from the backend goroutine draining the same queue
// the pointer was written to.
func decodeLoggerPointer(buf []byte) *LoggerHandle {
	return (*LoggerHandle)(unsafe.Pointer(uintptr(binary.LittleEndian.Uint64(buf[:loggerPointerSize]))))
}

// FlushSignal is the payload of a Flush record: a pointer to a flag the
// backend sets once every sink of every logger has been flushed,
// boxed the same way as LoggerHandle (spec.md §4.4's "flush barrier").
type FlushSignal struct {
	done chan struct{}
}

// NewFlushSignal returns a signal whose Wait unblocks once the backend
// has processed the Flush record carrying it.
func NewFlushSignal() *FlushSignal { return &FlushSignal{done: make(chan struct{})} }

// Fire marks the signal satisfied. Called once, by the backend.
func (f *FlushSignal) Fire() {
	select {
	case <-f.done:
	default:
		close(f.done)
	}
}

// Done returns a channel closed once Fire has been called, for use in a
// select alongside a context's Done channel.
func (f *FlushSignal) Done() <-chan struct{} { return f.done }

func encodeFlushSignal(buf []byte, f *FlushSignal) {
	binary.LittleEndian.PutUint64(buf[:loggerPointerSize], uint64(uintptr(unsafe.Pointer(f))))
}

func decodeFlushSignal(buf []byte) *FlushSignal {
	return (*FlushSignal)(unsafe.Pointer(uintptr(binary.LittleEndian.Uint64(buf[:loggerPointerSize]))))
}

// EncodeLoggerPointer and DecodeLoggerPointer are exported so the quill
// package's hot Log path can write the prefix without backend exposing
// its internal record layout as anything more than these two calls plus
// [recordPrefixSize]... RecordPrefixSize below.
func EncodeLoggerPointer(buf []byte, h *LoggerHandle) { encodeLoggerPointer(buf, h) }

// DecodeLoggerPointer is exported for symmetry and for tests; the
// backend worker itself calls the unexported form on its hot path.
func DecodeLoggerPointer(buf []byte) *LoggerHandle { return decodeLoggerPointer(buf) }

// RecordPrefixSize is the number of bytes a producer must reserve ahead
// of the argument payload: [codec.Header][boxed *LoggerHandle].
const RecordPrefixSize = recordPrefixSize

// EncodeFlushSignal and DecodeFlushSignal mirror the logger-pointer
// helpers for Flush records, whose payload is a *FlushSignal instead of
// argument bytes.
func EncodeFlushSignal(buf []byte, f *FlushSignal) { encodeFlushSignal(buf, f) }
func DecodeFlushSignal(buf []byte) *FlushSignal    { return decodeFlushSignal(buf) }

// BacktraceCapacitySize is the width of an InitBacktrace record's
// payload: a capacity count and the level that triggers an automatic
// flush of the ring (spec.md §6's "init_backtrace(capacity, flush_level)").
const BacktraceCapacitySize = 16

func EncodeBacktracePayload(buf []byte, capacity uint32, flushLevel codec.Level) {
	binary.LittleEndian.PutUint64(buf[0:8], uint64(capacity))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(flushLevel))
}

func DecodeBacktracePayload(buf []byte) (capacity uint32, flushLevel codec.Level) {
	capacity = uint32(binary.LittleEndian.Uint64(buf[0:8]))
	flushLevel = codec.Level(binary.LittleEndian.Uint64(buf[8:16]))
	return
}
