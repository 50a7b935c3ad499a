// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quill

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"code.hybscloud.com/quill/queue"
	"code.hybscloud.com/quill/threadctx"
)

// contextRegistry is the process-wide collection the backend worker
// drains from; every Config-built ThreadContext lives here for the
// process's lifetime or until the backend sweeps it after removal.
var contextRegistry = threadctx.NewRegistry()

var threadCounter atomic.Uint64

// ThreadHandle is a goroutine-stable handle onto one producer's
// ThreadContext (spec.md §3's ThreadContext owned by "a thread-local
// guard and the registry"). Go has no destructor-driven thread-local
// storage, so the Go realization makes the handle explicit: a caller
// acquires one per goroutine that logs, stores it for that goroutine's
// lifetime (e.g. as a local variable captured by the goroutine's
// closure), and passes it to every Log call that goroutine makes
// (SPEC_FULL.md §5's Open Question decision). runtime.AddCleanup marks
// the underlying context invalid if the handle is ever garbage
// collected without an explicit Release, the finalizer-successor
// realization of the original's destructor-based guard.
type ThreadHandle struct {
	ctx *threadctx.Context

	// policy and retryInterval are captured from Config at creation
	// time, so Log's reservation-failure branch (spec.md §4.4 step 5)
	// doesn't need to re-lock the process-wide Config on every call.
	policy        queue.Policy
	retryInterval time.Duration
}

// AcquireThreadContext creates and registers a new ThreadContext for the
// calling goroutine, built from the process-wide Config (set via Init,
// or its defaults if Init was never called). name is used only to
// compose a cached thread-identity string; pass "" to get an
// automatically numbered one.
func AcquireThreadContext(name string) *ThreadHandle {
	cfg := currentConfig()
	id := threadCounter.Add(1)
	threadID := fmt.Sprintf("g%d", id)
	threadName := name
	if threadName == "" {
		threadName = threadID
	}
	ctx := threadctx.NewContext(threadctx.Config{
		Policy:                       cfg.QueueType,
		InitialQueueCapacity:         cfg.InitialQueueCapacity,
		UnboundedQueueMaxCapacity:    cfg.UnboundedQueueMaxCapacity,
		HugePages:                    cfg.HugePagesPolicy,
		TransitBufferInitialCapacity: cfg.TransitBufferInitialCapacity,
		ThreadID:                     threadID,
		ThreadName:                  threadName,
	})

	contextRegistry.Register(ctx)

	h := &ThreadHandle{ctx: ctx, policy: cfg.QueueType, retryInterval: cfg.BlockingQueueRetryInterval}
	runtime.AddCleanup(h, func(c *threadctx.Context) { c.Invalidate() }, ctx)
	return h
}

// Release marks the handle's context invalid immediately, for callers
// that want deterministic cleanup instead of waiting on GC (spec.md §3:
// "the guard marks it invalid" on thread exit). The backend removes the
// context from the registry only once its queue and transit buffer are
// both drained, so records already written before Release are never
// lost.
func (h *ThreadHandle) Release() { h.ctx.Invalidate() }

// Preallocate forces a throwaway ThreadContext through its full
// construction path — queue backing allocation, scratch buffer, transit
// buffer — ahead of time, so that whichever allocation the runtime or
// huge-page mapping would otherwise pay on a goroutine's first real Log
// call happens now instead (spec.md §6's "touches thread-local state so
// first real log does no allocation"). Because Go has no implicit
// thread-local storage, this cannot warm the exact context a later
// AcquireThreadContext call on the same goroutine will return — only
// the construction machinery itself (allocator paths, huge-page
// mapping, GC bookkeeping) is warmed; it is immediately released.
func Preallocate() {
	h := AcquireThreadContext("")
	h.Release()
}
