// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sink

import (
	"sync"
	"weak"
)

// entry is one registry slot: a name and a way to recover the live sink
// (or learn it is gone) without the registry itself keeping it alive.
type entry struct {
	name string
	get  func() (Sink, bool)
}

// Registry is the name-keyed collection of sinks (spec.md §3/§6's
// create_or_get_sink, original_source SinkManager.h). It deliberately
// holds only weak references — "registries hold weak handles to sinks to
// allow deletion when no logger keeps a sink alive" (spec.md §9) — using
// the stdlib weak package as the Go substitute for std::weak_ptr<Sink>.
type Registry struct {
	mu      sync.Mutex
	entries []entry
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry { return &Registry{} }

// ComparableSink is a concrete sink type suitable for CreateOrGet: a
// pointer type (so weak.Pointer can track its identity) implementing
// Sink.
type ComparableSink interface {
	Sink
	comparable
}

// CreateOrGet returns the existing sink registered under name if one is
// still alive, or builds one via construct, registers a weak reference
// to it, and returns it. T is the concrete pointer sink type (e.g.
// *Writer) so its identity can be tracked with weak.Pointer.
func CreateOrGet[T ComparableSink](reg *Registry, name string, construct func() T) T {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, e := range reg.entries {
		if e.name != name {
			continue
		}
		if s, ok := e.get(); ok {
			if typed, ok := s.(T); ok {
				return typed
			}
		}
	}

	s := construct()
	wp := weak.Make(s)
	reg.entries = append(reg.entries, entry{
		name: name,
		get: func() (Sink, bool) {
			v := wp.Value()
			var zero T
			if v == zero {
				return nil, false
			}
			return v, true
		},
	})
	return s
}

// Get returns the sink registered under name, if one is both registered
// and still alive.
func (r *Registry) Get(name string) (Sink, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.name == name {
			return e.get()
		}
	}
	return nil, false
}

// Sweep drops entries whose sink has been garbage collected because no
// logger keeps it alive any longer (original_source SinkManager.h's
// cleanup_unused_sinks). Returns the number removed. Called from the
// backend's idle path (spec.md §4.5 step 4), only when every queue is
// empty.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.entries[:0]
	removed := 0
	for _, e := range r.entries {
		if _, ok := e.get(); ok {
			kept = append(kept, e)
		} else {
			removed++
		}
	}
	r.entries = kept
	return removed
}
