// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package threadctx

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// Registry is the process-wide collection of live Contexts
// (original_source ThreadContextCollection.h): producer goroutines
// register once, on first log call; the backend goroutine periodically
// refreshes its own cache from Snapshot and sweeps contexts that are both
// invalidated and drained via Remove.
type Registry struct {
	mu       sync.Mutex
	contexts []*Context

	_       pad
	changed atomix.Bool
	_       pad
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry { return &Registry{} }

// Register adds ctx to the collection and flags the change for the
// backend's next Snapshot call. Called once, from the producer goroutine
// that owns ctx.
func (r *Registry) Register(ctx *Context) {
	r.mu.Lock()
	r.contexts = append(r.contexts, ctx)
	r.mu.Unlock()
	r.changed.StoreRelease(true)
}

// Snapshot returns the currently registered contexts and whether the set
// has changed since the last Snapshot call (a new context registered, or
// one removed via Remove) — the backend's "refresh caches" step (spec
// §4.5) uses changed to decide whether last round's cached slice is still
// current.
func (r *Registry) Snapshot() (contexts []*Context, changed bool) {
	changed = r.changed.LoadAcquire()
	if changed {
		r.changed.StoreRelease(false)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	contexts = make([]*Context, len(r.contexts))
	copy(contexts, r.contexts)
	return contexts, changed
}

// Remove drops ctx from the collection. Only the backend goroutine calls
// this, and only once it has confirmed ctx is both invalid and fully
// drained (original_source's "found and removed invalidated thread
// context").
func (r *Registry) Remove(ctx *Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.contexts {
		if c == ctx {
			r.contexts = append(r.contexts[:i], r.contexts[i+1:]...)
			r.changed.StoreRelease(true)
			return
		}
	}
}
