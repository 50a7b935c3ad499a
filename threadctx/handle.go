// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package threadctx

import "runtime"

// Handle is the goroutine-stable owner of a Context — the Go substitute
// for the original's thread_local ThreadContextWrapper (original_source
// ThreadContextCollection.h). Go has no destructor-based TLS, so instead
// of a thread-exit destructor invalidating the context, a collected
// Handle's cleanup does (runtime.AddCleanup, the Go 1.24+ finalizer
// successor). Callers that want deterministic invalidation instead of
// relying on GC timing call Release explicitly.
type Handle struct {
	ctx     *Context
	cleanup runtime.Cleanup
}

// Acquire builds a new Context per cfg, registers it with reg, and
// returns a Handle owning it. Callers store the returned Handle
// somewhere that outlives the goroutine's logging calls — typically a
// package-level variable written once via sync.OnceValue, mirroring the
// original's "static thread_local" construct-once-per-thread semantics.
func Acquire(reg *Registry, cfg Config) *Handle {
	ctx := NewContext(cfg)
	reg.Register(ctx)
	h := &Handle{ctx: ctx}
	h.cleanup = runtime.AddCleanup(h, func(c *Context) { c.Invalidate() }, ctx)
	return h
}

// Context returns the owned Context.
func (h *Handle) Context() *Context { return h.ctx }

// Release invalidates the context immediately and cancels the deferred
// GC-triggered cleanup, since it has now run early.
func (h *Handle) Release() {
	h.cleanup.Stop()
	h.ctx.Invalidate()
}
