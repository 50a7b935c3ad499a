// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package backend

import (
	"runtime"
	"testing"
	"time"

	"code.hybscloud.com/quill/codec"
	"code.hybscloud.com/quill/internal/clock"
	"code.hybscloud.com/quill/qerrors"
	"code.hybscloud.com/quill/queue"
	"code.hybscloud.com/quill/sink"
	"code.hybscloud.com/quill/threadctx"
)

// testLogger builds a LoggerHandle whose Format closure just renders the
// template and the site's tag, enough for tests to assert on ordering
// and content without pulling in fmtlite.
func testLogger(sinks ...sink.Sink) *LoggerHandle {
	return NewLoggerHandle("test-logger", sinks, false, false, codec.LevelTraceL3, func(_ uint64, site *codec.CallSite, _ codec.Level, _, _ string, _ []codec.Arg) (string, []sink.KV) {
		return site.Template, nil
	})
}

// writeLog appends one EventLog record to ctx's queue: header, boxed
// logger pointer, encoded args.
func writeLog(t *testing.T, ctx *threadctx.Context, site *codec.CallSite, tsTicks uint64, logger *LoggerHandle, args ...any) {
	t.Helper()
	scratch := ctx.Scratch()
	token, packed := codec.Resolve(site, nil, args...)
	payload := codec.SizeOf(packed, scratch)
	n := RecordPrefixSize + payload
	res, ok := ctx.Queue().Reserve(uint32(n))
	if !ok {
		t.Fatalf("Reserve(%d) failed", n)
	}
	buf := res.Bytes()
	codec.EncodeHeader(buf[:codec.HeaderSize], codec.Header{TimestampTicks: tsTicks, Site: site, Decoder: token})
	EncodeLoggerPointer(buf[codec.HeaderSize:RecordPrefixSize], logger)
	codec.Encode(buf[RecordPrefixSize:], packed, scratch)
	res.Commit()
}

func writeFlush(t *testing.T, ctx *threadctx.Context, site *codec.CallSite, tsTicks uint64) *FlushSignal {
	t.Helper()
	sig := NewFlushSignal()
	n := RecordPrefixSize
	res, ok := ctx.Queue().Reserve(uint32(n))
	if !ok {
		t.Fatalf("Reserve(%d) failed", n)
	}
	buf := res.Bytes()
	codec.EncodeHeader(buf[:codec.HeaderSize], codec.Header{TimestampTicks: tsTicks, Site: site})
	EncodeFlushSignal(buf[codec.HeaderSize:RecordPrefixSize], sig)
	res.Commit()
	return sig
}

func writeInitBacktrace(t *testing.T, ctx *threadctx.Context, site *codec.CallSite, tsTicks uint64, logger *LoggerHandle, capacity uint32, flushLevel codec.Level) {
	t.Helper()
	n := RecordPrefixSize + BacktraceCapacitySize
	res, ok := ctx.Queue().Reserve(uint32(n))
	if !ok {
		t.Fatalf("Reserve(%d) failed", n)
	}
	buf := res.Bytes()
	codec.EncodeHeader(buf[:codec.HeaderSize], codec.Header{TimestampTicks: tsTicks, Site: site})
	EncodeLoggerPointer(buf[codec.HeaderSize:RecordPrefixSize], logger)
	EncodeBacktracePayload(buf[RecordPrefixSize:RecordPrefixSize+BacktraceCapacitySize], capacity, flushLevel)
	res.Commit()
}

func writeFlushBacktrace(t *testing.T, ctx *threadctx.Context, site *codec.CallSite, tsTicks uint64, logger *LoggerHandle) {
	t.Helper()
	n := RecordPrefixSize
	res, ok := ctx.Queue().Reserve(uint32(n))
	if !ok {
		t.Fatalf("Reserve(%d) failed", n)
	}
	buf := res.Bytes()
	codec.EncodeHeader(buf[:codec.HeaderSize], codec.Header{TimestampTicks: tsTicks, Site: site})
	EncodeLoggerPointer(buf[codec.HeaderSize:RecordPrefixSize], logger)
	res.Commit()
}

func newCtx(t *testing.T, name string) *threadctx.Context {
	t.Helper()
	return threadctx.NewContext(threadctx.Config{
		Policy:                       queue.BoundedBlocking,
		InitialQueueCapacity:         4096,
		TransitBufferInitialCapacity: 16,
		ThreadID:                     name,
		ThreadName:                   name,
	})
}

func drainOnce(w *Worker) {
	for i := 0; i < 100 && w.tick() > 0; i++ {
	}
}

func TestWorkerEmitsLogToSink(t *testing.T) {
	registry := threadctx.NewRegistry()
	ctx := newCtx(t, "t1")
	registry.Register(ctx)

	m := sink.NewMemory(0)
	logger := testLogger(m)

	site := &codec.CallSite{Template: "hello {}", Level: codec.LevelInfo, Kind: codec.EventLog}
	writeLog(t, ctx, site, 100, logger, 42)

	w := NewWorker(registry, Options{})
	drainOnce(w)

	recs := m.Records()
	if len(recs) != 1 {
		t.Fatalf("len(Records()) = %d, want 1", len(recs))
	}
	if recs[0].Formatted != "hello {}" {
		t.Fatalf("Formatted = %q, want %q", recs[0].Formatted, "hello {}")
	}
	if recs[0].Level != codec.LevelInfo {
		t.Fatalf("Level = %v, want %v", recs[0].Level, codec.LevelInfo)
	}
}

// TestWorkerEmitsInGlobalTimestampOrder covers P4: records from distinct
// threads interleave in ascending timestamp order regardless of arrival
// order into each thread's own queue.
func TestWorkerEmitsInGlobalTimestampOrder(t *testing.T) {
	registry := threadctx.NewRegistry()
	ctxA := newCtx(t, "a")
	ctxB := newCtx(t, "b")
	registry.Register(ctxA)
	registry.Register(ctxB)

	m := sink.NewMemory(0)
	logger := testLogger(m)

	siteA := &codec.CallSite{Template: "A", Level: codec.LevelInfo, Kind: codec.EventLog}
	siteB := &codec.CallSite{Template: "B", Level: codec.LevelInfo, Kind: codec.EventLog}

	writeLog(t, ctxA, siteA, 30, logger)
	writeLog(t, ctxA, siteA, 50, logger)
	writeLog(t, ctxB, siteB, 10, logger)
	writeLog(t, ctxB, siteB, 40, logger)

	w := NewWorker(registry, Options{})
	drainOnce(w)

	recs := m.Records()
	if len(recs) != 4 {
		t.Fatalf("len(Records()) = %d, want 4", len(recs))
	}
	want := []uint64{10, 30, 40, 50}
	for i, rec := range recs {
		if rec.TSNanos != want[i] {
			t.Fatalf("recs[%d].TSNanos = %d, want %d (order: %+v)", i, rec.TSNanos, want[i], recs)
		}
	}
}

// TestWorkerStrictOrderingWithholdsFutureRecords covers the strict-mode
// half of P4: a record whose translated timestamp is ahead of the
// round's sampled ceiling is held back rather than emitted early.
func TestWorkerStrictOrderingWithholdsFutureRecords(t *testing.T) {
	registry := threadctx.NewRegistry()
	ctx := newCtx(t, "t1")
	registry.Register(ctx)

	m := sink.NewMemory(0)
	logger := testLogger(m)
	site := &codec.CallSite{Template: "x", Level: codec.LevelInfo, Kind: codec.EventLog}

	future := uint64(time.Now().Add(time.Hour).UnixNano())
	writeLog(t, ctx, site, future, logger)

	w := NewWorker(registry, Options{
		StrictLogTimestampOrder: true,
		Clock:                   clock.NewUser(func() uint64 { return uint64(time.Now().UnixNano()) }),
	})
	w.tick()

	if len(m.Records()) != 0 {
		t.Fatalf("record with future timestamp was emitted early: %+v", m.Records())
	}
}

// TestWorkerFlushFiresSignalAfterPriorRecords covers the Flush barrier:
// Fire only happens once every record enqueued ahead of it has been
// dispatched.
func TestWorkerFlushFiresSignalAfterPriorRecords(t *testing.T) {
	registry := threadctx.NewRegistry()
	ctx := newCtx(t, "t1")
	registry.Register(ctx)

	m := sink.NewMemory(0)
	logger := testLogger(m)
	logSite := &codec.CallSite{Template: "x", Level: codec.LevelInfo, Kind: codec.EventLog}
	flushSite := &codec.CallSite{Kind: codec.EventFlush}

	writeLog(t, ctx, logSite, 1, logger)
	sig := writeFlush(t, ctx, flushSite, 2)

	w := NewWorker(registry, Options{})
	drainOnce(w)

	select {
	case <-sig.Done():
	default:
		t.Fatalf("flush signal never fired")
	}
	if len(m.Records()) != 1 {
		t.Fatalf("len(Records()) = %d, want 1", len(m.Records()))
	}
}

// TestWorkerBacktraceStoresUntilFlushBacktrace covers P8: LevelBacktrace
// records are withheld from sinks until an explicit FlushBacktrace.
func TestWorkerBacktraceStoresUntilFlushBacktrace(t *testing.T) {
	registry := threadctx.NewRegistry()
	ctx := newCtx(t, "t1")
	registry.Register(ctx)

	m := sink.NewMemory(0)
	logger := testLogger(m)
	initSite := &codec.CallSite{Kind: codec.EventInitBacktrace}
	btSite := &codec.CallSite{Template: "bt", Level: codec.LevelBacktrace, Kind: codec.EventLog}
	flushBtSite := &codec.CallSite{Kind: codec.EventFlushBacktrace}

	writeInitBacktrace(t, ctx, initSite, 1, logger, 4, codec.LevelNone)

	w := NewWorker(registry, Options{})
	drainOnce(w)

	writeLog(t, ctx, btSite, 2, logger)
	writeLog(t, ctx, btSite, 3, logger)
	drainOnce(w)

	if len(m.Records()) != 0 {
		t.Fatalf("backtrace records emitted before flush: %+v", m.Records())
	}

	writeFlushBacktrace(t, ctx, flushBtSite, 4, logger)
	drainOnce(w)

	recs := m.Records()
	if len(recs) != 2 {
		t.Fatalf("len(Records()) after FlushBacktrace = %d, want 2", len(recs))
	}
	if recs[0].TSNanos != 2 || recs[1].TSNanos != 3 {
		t.Fatalf("backtrace replay did not preserve original timestamps: %+v", recs)
	}
}

// TestWorkerBacktraceAutoFlushesAtConfiguredLevel covers the other half
// of P8: a record at or above the configured flush level triggers an
// automatic replay without an explicit FlushBacktrace.
func TestWorkerBacktraceAutoFlushesAtConfiguredLevel(t *testing.T) {
	registry := threadctx.NewRegistry()
	ctx := newCtx(t, "t1")
	registry.Register(ctx)

	m := sink.NewMemory(0)
	logger := testLogger(m)
	initSite := &codec.CallSite{Kind: codec.EventInitBacktrace}
	btSite := &codec.CallSite{Template: "bt", Level: codec.LevelBacktrace, Kind: codec.EventLog}
	errSite := &codec.CallSite{Template: "boom", Level: codec.LevelError, Kind: codec.EventLog}

	writeInitBacktrace(t, ctx, initSite, 1, logger, 4, codec.LevelError)

	w := NewWorker(registry, Options{})
	drainOnce(w)

	writeLog(t, ctx, btSite, 2, logger)
	writeLog(t, ctx, errSite, 3, logger)
	drainOnce(w)

	recs := m.Records()
	if len(recs) != 2 {
		t.Fatalf("len(Records()) = %d, want 2 (stored backtrace replay + trigger record): %+v", len(recs), recs)
	}
	if recs[0].Formatted != "bt" || recs[1].Formatted != "boom" {
		t.Fatalf("unexpected replay order: %+v", recs)
	}
}

// TestWorkerReportsDropAndBlockEventsSeparately covers spec.md §7's
// two-counter design: a Dropping-policy producer's discards and a
// Blocking-policy producer's retries must never be conflated in the
// error notifier.
func TestWorkerReportsDropAndBlockEventsSeparately(t *testing.T) {
	registry := threadctx.NewRegistry()
	ctx := newCtx(t, "t1")
	registry.Register(ctx)

	ctx.IncrementDropCounter()
	ctx.IncrementDropCounter()
	ctx.IncrementBlockCounter()

	var drops, blocks int
	var dropCount, blockCount uint64
	w := NewWorker(registry, Options{
		ErrorNotifier: func(event any) {
			switch e := event.(type) {
			case qerrors.DropEvent:
				drops++
				dropCount = e.Count
			case qerrors.BlockEvent:
				blocks++
				blockCount = e.Count
			}
		},
	})
	w.tick()

	if drops != 1 || dropCount != 2 {
		t.Fatalf("drop notifications = %d (count %d), want 1 notification with count 2", drops, dropCount)
	}
	if blocks != 1 || blockCount != 1 {
		t.Fatalf("block notifications = %d (count %d), want 1 notification with count 1", blocks, blockCount)
	}
}

// TestWorkerIdleSweepsSinkRegistry covers spec.md §4.5 step 4: the
// backend sweeps a configured sink registry once every queue is empty.
func TestWorkerIdleSweepsSinkRegistry(t *testing.T) {
	registry := threadctx.NewRegistry()
	ctx := newCtx(t, "t1")
	registry.Register(ctx)

	reg := sink.NewRegistry()
	func() {
		_ = sink.CreateOrGet(reg, "scoped", func() *sink.Memory { return sink.NewMemory(0) })
	}()
	runtime.GC()
	runtime.GC()

	w := NewWorker(registry, Options{SinkRegistry: reg})
	w.tick()
	w.idle()

	if _, ok := reg.Get("scoped"); ok {
		t.Skip("GC has not yet collected the sink; weak-reference sweep is best-effort on timing")
	}
}

func TestWorkerStopDrainsQueuesBeforeExit(t *testing.T) {
	registry := threadctx.NewRegistry()
	ctx := newCtx(t, "t1")
	registry.Register(ctx)

	m := sink.NewMemory(0)
	logger := testLogger(m)
	site := &codec.CallSite{Template: "x", Level: codec.LevelInfo, Kind: codec.EventLog}
	writeLog(t, ctx, site, 1, logger)

	w := NewWorker(registry, Options{WaitForQueuesToEmptyBeforeExit: true, SleepDuration: time.Millisecond})
	w.Start()
	w.Stop()

	if len(m.Records()) != 1 {
		t.Fatalf("len(Records()) = %d, want 1", len(m.Records()))
	}
	if m.Flushes() == 0 {
		t.Fatalf("Stop did not flush sinks before returning")
	}
}
