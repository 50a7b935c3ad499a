// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package threadctx

// TransitBuffer is a single-consumer FIFO of decoded-but-not-yet-emitted
// records, one per Context, touched only by the backend goroutine
// (original_source's UnboundedTransitEventBuffer: grows on overflow
// rather than blocking, since the backend is the only reader and writer).
type TransitBuffer struct {
	items []any
	head  int
}

// NewTransitBuffer returns a TransitBuffer with room for initialCapacity
// pending records pre-allocated.
func NewTransitBuffer(initialCapacity int) TransitBuffer {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	return TransitBuffer{items: make([]any, 0, initialCapacity)}
}

// Push appends a decoded record to the back of the buffer.
func (t *TransitBuffer) Push(v any) { t.items = append(t.items, v) }

// Front returns the oldest pending record without removing it.
func (t *TransitBuffer) Front() (any, bool) {
	if t.head >= len(t.items) {
		return nil, false
	}
	return t.items[t.head], true
}

// Pop removes the oldest pending record. Compacts the backing slice once
// drained so a long-lived buffer does not hold onto old entries forever.
func (t *TransitBuffer) Pop() {
	if t.head >= len(t.items) {
		return
	}
	t.items[t.head] = nil
	t.head++
	if t.head == len(t.items) {
		t.items = t.items[:0]
		t.head = 0
	}
}

// Len reports the number of pending records.
func (t *TransitBuffer) Len() int { return len(t.items) - t.head }
