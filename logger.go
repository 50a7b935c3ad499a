// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quill

import (
	"context"
	"time"

	"code.hybscloud.com/spin"

	"code.hybscloud.com/quill/backend"
	"code.hybscloud.com/quill/codec"
	"code.hybscloud.com/quill/fmtlite"
	"code.hybscloud.com/quill/sink"
)

// Logger is the producer-facing handle of spec.md §3: an immutable name
// and clock source, a shared sink list, a cached pattern formatter, and
// the mutable atomic level/backtrace-level/valid state that actually
// lives on the backend-owned *backend.LoggerHandle this Logger boxes
// into every record it writes.
type Logger struct {
	name   string
	handle *backend.LoggerHandle
	clock  ClockSource

	pattern          *fmtlite.Pattern
	timestampPattern string
	timezone         fmtlite.Timezone
}

// Log implements spec.md §4.4's six steps. h is the calling goroutine's
// ThreadHandle (see AcquireThreadContext's doc comment for why this
// replaces the original's implicit thread-local resolution). dynamicLevel
// is consulted only when site.Level is LevelDynamic; otherwise pass
// LevelNone.
func (l *Logger) Log(h *ThreadHandle, dynamicLevel Level, site *codec.CallSite, args ...any) bool {
	gate := site.Level
	dynamic := site.Level == LevelDynamic
	if dynamic {
		gate = dynamicLevel
	}
	if gate < l.handle.Level() {
		return false
	}

	ts := l.clock.sample()

	ctx := h.ctx
	scratch := ctx.Scratch()
	token, packed := codec.Resolve(site, nil, args...)
	payload := codec.SizeOf(packed, scratch)
	n := uint32(backend.RecordPrefixSize + payload)

	for {
		res, ok := ctx.Queue().Reserve(n)
		if ok {
			buf := res.Bytes()
			hdr := codec.Header{TimestampTicks: ts, Site: site, Decoder: token}
			if dynamic {
				hdr.HasDynamicLevel = true
				hdr.DynamicLevel = dynamicLevel
			}
			codec.EncodeHeader(buf[:codec.HeaderSize], hdr)
			backend.EncodeLoggerPointer(buf[codec.HeaderSize:backend.RecordPrefixSize], l.handle)
			codec.Encode(buf[backend.RecordPrefixSize:], packed, scratch)
			res.Commit()
			return true
		}

		if !h.policy.IsBlocking() {
			ctx.IncrementDropCounter()
			return false
		}
		ctx.IncrementBlockCounter()
		time.Sleep(h.retryInterval)
	}
}

// enqueueSpecial retries forever (spec.md §4.4's "special metadata
// events... are never dropped") until site's record is accepted, using
// the teacher's own production spin idiom rather than a sleep, since
// these events are rare and latency-sensitive (flush barriers,
// backtrace control) rather than steady-state log traffic.
func (l *Logger) enqueueSpecial(h *ThreadHandle, site *codec.CallSite, payload []byte, boxed func(buf []byte)) {
	n := uint32(backend.RecordPrefixSize + len(payload))
	sw := spin.Wait{}
	for {
		res, ok := h.ctx.Queue().Reserve(n)
		if ok {
			buf := res.Bytes()
			codec.EncodeHeader(buf[:codec.HeaderSize], codec.Header{TimestampTicks: l.clock.sample(), Site: site})
			boxed(buf[codec.HeaderSize:backend.RecordPrefixSize])
			copy(buf[backend.RecordPrefixSize:], payload)
			res.Commit()
			return
		}
		sw.Once()
	}
}

// flushSite is the shared CallSite every Flush record carries; Flush is
// a global barrier rather than a per-call-site statement, so one static
// metadata value suffices for every Logger and every call.
var flushSite = &codec.CallSite{Template: "flush", Level: codec.LevelNone, Kind: codec.EventFlush}

// Flush implements the flush barrier of spec.md §4.4/§5: it enqueues a
// Flush record carrying a fresh FlushSignal and blocks until the backend
// fires it (after flushing every sink of every logger) or ctx is done.
// context.Context is the idiomatic Go substitute for the spec's
// timeout_ns parameter; a context.Background() call never returns until
// the backend acknowledges, matching timeout_ns=0's "wait indefinitely"
// reversed — here it is a context with no deadline.
func (l *Logger) Flush(ctx context.Context, h *ThreadHandle) error {
	signal := backend.NewFlushSignal()
	l.enqueueSpecial(h, flushSite, nil, func(buf []byte) { backend.EncodeFlushSignal(buf, signal) })

	sw := spin.Wait{}
	for {
		select {
		case <-signal.Done():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
			sw.Once()
		}
	}
}

var initBacktraceSite = &codec.CallSite{Template: "init_backtrace", Level: codec.LevelNone, Kind: codec.EventInitBacktrace}
var flushBacktraceSite = &codec.CallSite{Template: "flush_backtrace", Level: codec.LevelNone, Kind: codec.EventFlushBacktrace}

// InitBacktrace arms this logger's backtrace ring: capacity stored
// records, replayed automatically once a record at or above flushLevel
// is logged (spec.md §4.7, §6's init_backtrace(capacity, flush_level)).
func (l *Logger) InitBacktrace(h *ThreadHandle, capacity uint32, flushLevel Level) {
	payload := make([]byte, backend.BacktraceCapacitySize)
	backend.EncodeBacktracePayload(payload, capacity, flushLevel)
	l.enqueueSpecial(h, initBacktraceSite, payload, func(buf []byte) { backend.EncodeLoggerPointer(buf, l.handle) })
}

// FlushBacktrace replays every record currently stored in this logger's
// backtrace ring through normal sink dispatch, in insertion order, and
// clears it (spec.md §4.7).
func (l *Logger) FlushBacktrace(h *ThreadHandle) {
	l.enqueueSpecial(h, flushBacktraceSite, nil, func(buf []byte) { backend.EncodeLoggerPointer(buf, l.handle) })
}

// SetLevel and Level expose the logger's atomic severity threshold.
func (l *Logger) SetLevel(level Level) { l.handle.SetLevel(level) }
func (l *Logger) Level() Level         { return l.handle.Level() }

// Name returns the logger's immutable name.
func (l *Logger) Name() string { return l.name }

// format implements spec.md §4.5's "formats each value... so sinks that
// accept structured args receive [(key, value), …]": it satisfies
// backend.LoggerHandle.Format by compiling (and caching, for templates
// with placeholders) site.Template via fmtlite, then rendering l's
// metadata pattern around the result.
func (l *Logger) format(tsNanos uint64, site *codec.CallSite, level codec.Level, threadID, threadName string, args []codec.Arg) (string, []sink.KV) {
	message := site.Template
	var structured []sink.KV
	if fmtlite.HasPlaceholders(site.Template) {
		message, structured = fmtlite.Compile(site.Template).Format(args)
	} else if len(args) > 0 {
		for _, a := range args {
			message += " " + fmtlite.FormatArg(a)
		}
	}

	fields := fmtlite.Fields{
		Time:                fmtlite.FormatTimestamp(tsNanos, l.timestampPattern, l.timezone),
		ShortSourceLocation: shortSourceLocation(site),
		SourceLocation:      site.File,
		FileName:            site.File,
		CallerFunction:      site.Function,
		LineNumber:          itoa(site.Line),
		LogLevel:            level.String(),
		LogLevelShortCode:   levelShortCode(level),
		Logger:              l.name,
		Message:             message,
		ThreadID:            threadID,
		ThreadName:          threadName,
		Tags:                site.Tag,
	}
	return l.pattern.Render(fields), structured
}
