// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package backend

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"code.hybscloud.com/quill/codec"
	"code.hybscloud.com/quill/internal/clock"
	"code.hybscloud.com/quill/qerrors"
	"code.hybscloud.com/quill/sink"
	"code.hybscloud.com/quill/threadctx"
)

// Worker is the single backend goroutine of spec.md §4.5: it drains
// every registered producer's queue, decodes records in global
// timestamp order, formats them, and dispatches to sinks. There is
// exactly one Worker per process, mirroring the original's single
// BackendWorker thread.
type Worker struct {
	opts     Options
	registry *threadctx.Registry

	cache   []*threadctx.Context
	readers map[*threadctx.Context]*recordReader

	// tsc is the single calibrated tick clock shared by every TSC-sourced
	// logger's records: ticks are a process-wide hardware counter, so one
	// calibration instance translates all of them (spec.md §4.5's "RDTSC
	// clock... lazily constructed on first use").
	tsc *clock.TSC

	loggers    map[*LoggerHandle]struct{}
	backtraces map[*LoggerHandle]*backtraceRing

	// strict and ceiling cache this round's populate() decision for the
	// emit() step's ceiling check (spec.md §4.5's strict timestamp
	// ordering): a Log-kind event may be decoded ahead of being due, but
	// emit() withholds it until a later round's ceiling catches up.
	strict  bool
	ceiling uint64

	notifiedOnce sync.Once

	stopCh chan struct{}
	doneCh chan struct{}
	notify chan struct{}
	once   sync.Once
}

// NewWorker builds a Worker draining registry under opts. Call Start to
// launch its goroutine.
func NewWorker(registry *threadctx.Registry, opts Options) *Worker {
	return &Worker{
		opts:       opts.withDefaults(),
		registry:   registry,
		readers:    make(map[*threadctx.Context]*recordReader),
		loggers:    make(map[*LoggerHandle]struct{}),
		backtraces: make(map[*LoggerHandle]*backtraceRing),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
		notify:     make(chan struct{}, 1),
	}
}

// Start launches the backend goroutine. Not safe to call twice.
func (w *Worker) Start() { go w.run() }

// Notify wakes the worker immediately instead of waiting out its idle
// sleep, used by a producer after enqueuing a record under light load
// (spec.md §5: "notify() from any thread wakes it").
func (w *Worker) Notify() {
	select {
	case w.notify <- struct{}{}:
	default:
	}
}

// Stop signals the backend to exit and blocks until it has (spec.md
// §4.5 step 5's "drain-and-emit until every queue is empty... flush one
// last time, join").
func (w *Worker) Stop() {
	w.once.Do(func() { close(w.stopCh) })
	<-w.doneCh
}

func (w *Worker) run() {
	defer close(w.doneCh)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if err := w.opts.Affinity.Pin(w.opts.CPUAffinity); err != nil {
		w.notifyf(qerrors.FormatError{Message: "could not pin backend to CPU", Err: err})
	}

	for {
		select {
		case <-w.stopCh:
			w.shutdown()
			return
		default:
		}
		emitted := w.tick()
		if emitted == 0 {
			w.idle()
			w.sleep()
		}
	}
}

// tick runs steps 1-3 of spec.md §4.5's main loop once: refresh caches,
// populate transit buffers, emit whatever is ready in timestamp order.
// Returns the number of records emitted (a Log dispatch, a fired flush,
// a backtrace store/replay all count).
func (w *Worker) tick() int {
	w.refreshCaches()
	w.populate()
	return w.emit()
}

// refreshCaches implements step 1: copy the registry's current context
// list locally so the hot populate/emit steps never take the registry's
// lock.
func (w *Worker) refreshCaches() {
	contexts, changed := w.registry.Snapshot()
	if !changed {
		return
	}
	w.cache = contexts
	for ctx := range w.readers {
		if !containsContext(contexts, ctx) {
			delete(w.readers, ctx)
		}
	}
}

func containsContext(cache []*threadctx.Context, ctx *threadctx.Context) bool {
	for _, c := range cache {
		if c == ctx {
			return true
		}
	}
	return false
}

// populate implements step 2: drain every cached context's queue,
// decoding each record into a transit event (or acting on it directly,
// for Flush/InitBacktrace/FlushBacktrace) and pushing Log events onto
// that thread's transit buffer in arrival order.
func (w *Worker) populate() {
	w.strict = w.opts.StrictLogTimestampOrder
	if w.strict {
		w.ceiling = w.opts.Clock.NowNanos()
	}

	for _, ctx := range w.cache {
		reader, ok := w.readers[ctx]
		if !ok {
			reader = newRecordReader(ctx.Queue())
			w.readers[ctx] = reader
		}

		drained := 0
		for ctx.Transit().Len() < w.opts.TransitEventsHardLimit {
			rec, alloc, ok, err := reader.next()
			if alloc != nil {
				w.opts.Metrics.observeAlloc()
				w.notifyf(qerrors.AllocEvent{OldCapacity: alloc.OldCapacity, NewCapacity: alloc.NewCapacity})
			}
			if !ok {
				break
			}
			if err != nil {
				w.notifyf(qerrors.FormatError{Message: "corrupt record", Location: ctx.ThreadName(), Err: err})
				ctx.Invalidate()
				break
			}

			tsNanos := w.translateTimestamp(rec)
			ev := w.toTransitEvent(ctx, rec, tsNanos)
			ctx.Transit().Push(ev)
			drained++
			if w.opts.TransitEventsSoftLimit > 0 && drained >= w.opts.TransitEventsSoftLimit {
				break
			}
		}
		w.opts.Metrics.setTransitDepth(ctx.ThreadName(), ctx.Transit().Len())

		if n := ctx.GetAndResetDropCounter(); n > 0 {
			w.opts.Metrics.observeDrop(ctx.ThreadName(), n)
			w.notifyf(qerrors.DropEvent{Thread: ctx.ThreadName(), Count: n})
		}
		if n := ctx.GetAndResetBlockCounter(); n > 0 {
			w.opts.Metrics.observeBlock(ctx.ThreadName(), n)
			w.notifyf(qerrors.BlockEvent{Thread: ctx.ThreadName(), Count: n})
		}
	}
}

// translateTimestamp converts a decoded record's header timestamp to
// nanoseconds since epoch, per spec.md §4.5's "optionally translate TSC
// to ns-since-epoch": a Log/InitBacktrace/FlushBacktrace record's logger
// decides via UsesTSC; a Flush record carries no logger (it is global,
// spec.md §4.4) so its raw ticks are used directly as a monotonic sort
// key — same-thread ordering is already guaranteed by the transit
// buffer's FIFO discipline regardless of the exact translated value.
func (w *Worker) translateTimestamp(rec decoded) uint64 {
	if rec.header.Site.Kind == codec.EventFlush {
		return rec.header.TimestampTicks
	}
	logger := decodeLoggerPointer(rec.boxed)
	if logger != nil && logger.UsesTSC {
		return w.translateTSC(rec.header.TimestampTicks)
	}
	return rec.header.TimestampTicks
}

func (w *Worker) translateTSC(ticks uint64) uint64 {
	if w.tsc == nil {
		if tsc, ok := w.opts.Clock.(*clock.TSC); ok {
			w.tsc = tsc
		} else {
			w.tsc = clock.NewTSC(nil, nil, 1, w.opts.RDTSCResyncInterval)
		}
	}
	return w.tsc.Translate(ticks)
}

func (w *Worker) toTransitEvent(ctx *threadctx.Context, rec decoded, tsNanos uint64) *TransitEvent {
	ev := getTransitEvent()
	ev.Context = ctx
	ev.TSNanos = tsNanos
	ev.Site = rec.header.Site
	level := rec.header.Site.Level
	if rec.header.HasDynamicLevel {
		level = rec.header.DynamicLevel
	}
	ev.Level = level

	switch rec.header.Site.Kind {
	case codec.EventLog:
		ev.Logger = decodeLoggerPointer(rec.boxed)
		ev.Args = append(ev.Args[:0], rec.args...)
	case codec.EventFlush:
		ev.Signal = decodeFlushSignal(rec.boxed)
	case codec.EventInitBacktrace:
		ev.Logger = decodeLoggerPointer(rec.boxed)
		capacity, flushLevel := DecodeBacktracePayload(rec.btPayload)
		ev.BacktraceCapacity = capacity
		ev.BacktraceFlushLevel = flushLevel
	case codec.EventFlushBacktrace:
		ev.Logger = decodeLoggerPointer(rec.boxed)
	}
	return ev
}

// emit implements step 3: repeatedly pick whichever cached context's
// transit buffer currently has the globally smallest front timestamp and
// dispatch it, until every buffer is empty or (in strict mode) every
// remaining front is not yet due.
func (w *Worker) emit() int {
	emitted := 0
	for {
		var best *threadctx.Context
		var bestEv *TransitEvent
		for _, ctx := range w.cache {
			v, ok := ctx.Transit().Front()
			if !ok {
				continue
			}
			ev := v.(*TransitEvent)
			if w.strict && ev.Site.Kind == codec.EventLog && ev.TSNanos > w.ceiling {
				if ev.Logger == nil || !ev.Logger.BypassOrderingCeiling {
					continue
				}
			}
			if bestEv == nil || ev.TSNanos < bestEv.TSNanos {
				best, bestEv = ctx, ev
			}
		}
		if bestEv == nil {
			return emitted
		}
		best.Transit().Pop()
		w.dispatch(bestEv)
		emitted++
	}
}

// dispatch runs the TransitEvent state machine of spec.md §4.5 for one
// popped event.
func (w *Worker) dispatch(ev *TransitEvent) {
	switch ev.Site.Kind {
	case codec.EventLog:
		w.dispatchLog(ev)
	case codec.EventFlush:
		w.flushAllSinks()
		if ev.Signal != nil {
			ev.Signal.Fire()
		}
		putTransitEvent(ev)
	case codec.EventInitBacktrace:
		if ev.Logger != nil {
			ev.Logger.SetBacktraceFlushLevel(ev.BacktraceFlushLevel)
			w.backtraces[ev.Logger] = newBacktraceRing(int(ev.BacktraceCapacity))
		}
		putTransitEvent(ev)
	case codec.EventFlushBacktrace:
		w.replayBacktrace(ev.Logger)
		putTransitEvent(ev)
	}
}

// dispatchLog handles a decoded Log record: a LevelBacktrace record is
// stored into its logger's ring instead of emitted (spec.md §4.7's
// "LOG_BACKTRACE"); for everything else, if its level meets the logger's
// configured flush level the stored backtrace is replayed first, and then
// the record itself is formatted and written to sinks.
func (w *Worker) dispatchLog(ev *TransitEvent) {
	logger := ev.Logger
	if logger == nil {
		putTransitEvent(ev)
		return
	}
	w.loggers[logger] = struct{}{}

	if ev.Level == codec.LevelBacktrace {
		if ring := w.backtraces[logger]; ring != nil {
			ring.store(ev) // ring now owns ev until evicted or drained
			return
		}
		putTransitEvent(ev)
		return
	}

	if flushLvl := logger.BacktraceFlushLevel(); flushLvl != codec.LevelNone && ev.Level >= flushLvl {
		w.replayBacktrace(logger)
	}

	w.emitLog(logger, ev)
	putTransitEvent(ev)
}

// emitLog formats ev via its logger's Format closure and writes it to
// every sink that accepts it (spec.md §4.6). A panic inside Format is
// recovered: the record is written with qerrors.FormatError's fallback
// text instead, and the FormatError goes to the notifier.
func (w *Worker) emitLog(logger *LoggerHandle, ev *TransitEvent) {
	var formatted string
	var structured []sink.KV
	func() {
		defer func() {
			if r := recover(); r != nil {
				fe := qerrors.FormatError{Message: ev.Site.Template, Location: fmt.Sprintf("%s:%d", ev.Site.File, ev.Site.Line), Err: fmt.Errorf("%v", r)}
				formatted, structured = fe.String(), nil
				w.opts.Metrics.observeFormatError()
				w.notifyf(fe)
			}
		}()
		formatted, structured = logger.Format(ev.TSNanos, ev.Site, ev.Level, ev.Context.ThreadID(), ev.Context.ThreadName(), ev.Args)
	}()
	for _, s := range logger.Sinks {
		if filter, ok := s.(interface {
			Accept(site *codec.CallSite, tsNanos uint64, threadID, threadName, loggerName string, level codec.Level, formatted string) bool
		}); ok {
			if !filter.Accept(ev.Site, ev.TSNanos, ev.Context.ThreadID(), ev.Context.ThreadName(), logger.Name, ev.Level, formatted) {
				continue
			}
		}
		s.Write(ev.Site, ev.TSNanos, ev.Context.ThreadID(), ev.Context.ThreadName(), logger.Name, ev.Level, structured, formatted)
	}
}

// replayBacktrace drains logger's backtrace ring (if any) and emits every
// stored event in original insertion order, preserving their original
// timestamps (spec.md §4.7).
func (w *Worker) replayBacktrace(logger *LoggerHandle) {
	if logger == nil {
		return
	}
	ring := w.backtraces[logger]
	if ring == nil {
		return
	}
	for _, stored := range ring.drain() {
		w.emitLog(logger, stored)
		putTransitEvent(stored)
	}
}

// flushAllSinks flushes every sink reachable from any logger this
// backend has ever dispatched for, deduplicated so a sink shared by two
// loggers is not flushed twice.
func (w *Worker) flushAllSinks() {
	seen := make(map[sink.Sink]struct{})
	for logger := range w.loggers {
		for _, s := range logger.Sinks {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			if err := s.Flush(); err != nil {
				w.notifyf(qerrors.FormatError{Message: "sink flush failed", Err: err})
			}
		}
	}
}

// periodicTickAllSinks calls PeriodicTick once per idle pass on every
// distinct sink (spec.md §4.6 step 6).
func (w *Worker) periodicTickAllSinks() {
	seen := make(map[sink.Sink]struct{})
	for logger := range w.loggers {
		for _, s := range logger.Sinks {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			s.PeriodicTick()
		}
	}
}

// sweepContexts removes cached contexts that are both invalidated and
// fully drained, with an empty transit buffer and nothing left in the
// queue (spec.md §4.5 step 4, §3's ThreadContext lifecycle).
func (w *Worker) sweepContexts() {
	for _, ctx := range w.cache {
		if ctx.Valid() || ctx.Transit().Len() > 0 {
			continue
		}
		// BeginRead without FinishRead only looks; a record still queued is
		// left for the next populate round.
		_, pending, alloc := ctx.Queue().BeginRead()
		if alloc != nil {
			w.opts.Metrics.observeAlloc()
			w.notifyf(qerrors.AllocEvent{OldCapacity: alloc.OldCapacity, NewCapacity: alloc.NewCapacity})
		}
		if !pending {
			w.registry.Remove(ctx)
			delete(w.readers, ctx)
		}
	}
}

// sweepLoggers drops cached *LoggerHandle entries this worker no longer
// needs to track (flush/periodic-tick/backtrace bookkeeping) once the
// owning quill.Logger has been removed — the backend's own handles are
// just a set membership, so nothing more than forgetting them is needed;
// the sinks themselves are swept by sink.Registry's own weak-reference
// mechanism once no logger (valid or not) references them anymore.
func (w *Worker) sweepLoggers() {
	for logger := range w.loggers {
		if !logger.Valid() {
			delete(w.loggers, logger)
			delete(w.backtraces, logger)
		}
	}
}

// idle implements step 4: runs once per tick that emitted nothing.
func (w *Worker) idle() {
	w.flushAllSinks()
	w.periodicTickAllSinks()
	w.sweepContexts()

	allQueuesEmpty := true
	for _, ctx := range w.cache {
		if ctx.Transit().Len() > 0 {
			allQueuesEmpty = false
			break
		}
	}
	if allQueuesEmpty {
		w.sweepLoggers()
		if w.opts.SinkRegistry != nil {
			w.opts.SinkRegistry.Sweep()
		}
	}
}

// sleep implements the idle wait of spec.md §4.5 step 4: block up to
// SleepDuration, waking early on Notify or Stop, or yield the OS thread
// once if EnableYieldWhenIdle trades latency for CPU.
func (w *Worker) sleep() {
	if w.opts.EnableYieldWhenIdle {
		runtime.Gosched()
		return
	}
	select {
	case <-w.notify:
	case <-w.stopCh:
	case <-time.After(w.opts.SleepDuration):
	}
}

// shutdown implements step 5: optionally drain every queue to
// completion (loop until two consecutive ticks emit nothing, the
// "dry" convergence point), then flush every sink one last time.
func (w *Worker) shutdown() {
	if w.opts.WaitForQueuesToEmptyBeforeExit {
		dry := 0
		for dry < 2 {
			if w.tick() > 0 {
				dry = 0
			} else {
				dry++
			}
		}
	}
	w.flushAllSinks()
}

// notifyf forwards an error/diagnostic event to the configured
// notifier, matching qerrors.Notifier's contract: a panicking notifier
// is recovered, reported to stderr once, and disabled thereafter.
func (w *Worker) notifyf(event any) {
	if w.opts.ErrorNotifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			w.notifiedOnce.Do(func() {
				fmt.Fprintf(os.Stderr, "quill: error notifier panicked, disabling it: %v\n", r)
			})
			w.opts.ErrorNotifier = nil
		}
	}()
	w.opts.ErrorNotifier(event)
}
