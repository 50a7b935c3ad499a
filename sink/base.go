// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sink

import (
	"fmt"
	"sync"

	"code.hybscloud.com/atomix"

	"code.hybscloud.com/quill/codec"
)

// Base is embeddable scaffolding for concrete Sink implementations: a
// mutable level filter plus a mutex-protected filter chain the backend
// snapshots only when it has changed (spec.md §4.6's apply_all_filters;
// original_source/quill/include/quill/sinks/Sink.h's _new_filter flag).
type Base struct {
	level atomix.Uint64

	mu      sync.Mutex
	filters []Filter

	newFilter atomix.Bool
	local     []Filter
}

// NewBase returns a Base with the default TraceL3 level filter (accept
// everything), matching the original's default.
func NewBase() *Base {
	b := &Base{}
	b.level.StoreRelaxed(uint64(codec.LevelTraceL3))
	return b
}

// SetLevelFilter sets the sink's own minimum level.
func (b *Base) SetLevelFilter(level codec.Level) { b.level.StoreRelaxed(uint64(level)) }

// LevelFilter returns the sink's current minimum level.
func (b *Base) LevelFilter() codec.Level { return codec.Level(b.level.LoadRelaxed()) }

// AddFilter registers f. Panics on a duplicate name, matching the
// original's throw on a name collision — a configuration-time caller
// bug, not a runtime condition to recover from.
func (b *Base) AddFilter(f Filter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.filters {
		if existing.Name() == f.Name() {
			panic(fmt.Sprintf("sink: filter with the same name already exists: %q", f.Name()))
		}
	}
	b.filters = append(b.filters, f)
	b.newFilter.StoreRelaxed(true)
}

// Accept applies the level filter and then every registered Filter
// (spec.md §4.6 steps 1-3), refreshing its local snapshot first if
// AddFilter ran since the last call. Called only from the backend
// goroutine.
func (b *Base) Accept(site *codec.CallSite, tsNanos uint64, threadID, threadName, loggerName string, level codec.Level, formatted string) bool {
	if level < b.LevelFilter() {
		return false
	}
	if b.newFilter.LoadRelaxed() {
		b.mu.Lock()
		b.local = append(b.local[:0], b.filters...)
		b.mu.Unlock()
		b.newFilter.StoreRelaxed(false)
	}
	for _, f := range b.local {
		if !f.Accept(site, tsNanos, threadID, threadName, loggerName, level, formatted) {
			return false
		}
	}
	return true
}
