// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package backend

// backtraceRing is a per-logger bounded ring of stored transit events,
// lazily sized by an InitBacktrace record and replayed by a
// FlushBacktrace record or a record at or above the logger's
// backtrace-flush level (spec.md §4.7).
type backtraceRing struct {
	events   []*TransitEvent
	capacity int
	next     int
	full     bool
}

func newBacktraceRing(capacity int) *backtraceRing {
	if capacity < 1 {
		capacity = 1
	}
	return &backtraceRing{events: make([]*TransitEvent, capacity), capacity: capacity}
}

// store inserts e, evicting the oldest stored event once the ring is at
// capacity (original_source's bounded backtrace storage — oldest stored
// event is dropped, never the newest).
func (r *backtraceRing) store(e *TransitEvent) {
	if old := r.events[r.next]; old != nil {
		putTransitEvent(old)
	}
	r.events[r.next] = e
	r.next = (r.next + 1) % r.capacity
	if r.next == 0 {
		r.full = true
	}
}

// drain returns every stored event in original insertion order and
// empties the ring.
func (r *backtraceRing) drain() []*TransitEvent {
	n := r.next
	if r.full {
		n = r.capacity
	}
	out := make([]*TransitEvent, 0, n)
	start := 0
	if r.full {
		start = r.next
	}
	for i := 0; i < n; i++ {
		idx := (start + i) % r.capacity
		if e := r.events[idx]; e != nil {
			out = append(out, e)
			r.events[idx] = nil
		}
	}
	r.next = 0
	r.full = false
	return out
}
