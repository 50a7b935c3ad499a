// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import (
	"sync/atomic"
)

// maxSegmentSize is the 2 GiB per-segment ceiling from spec §4.2.
const maxSegmentSize = 1 << 31

// AllocEvent reports a segment transition, either because the producer
// allocated a larger tail segment or because the consumer just followed
// the link to it. Only the consumer-side transition is surfaced to
// callers, per spec §4.2 ("the consumer reports the allocation event").
type AllocEvent struct {
	OldCapacity int
	NewCapacity int
}

// segment is one node of the Unbounded queue's linked list of Bounded
// rings.
type segment struct {
	q    *Bounded
	next atomic.Pointer[segment]
}

// Unbounded is a singly-linked chain of Bounded segments: one producer
// writes to the tail, one consumer reads from the head. When the tail
// segment cannot fit a reservation, the producer (depending on Policy)
// either allocates a new, larger segment or fails the reservation.
type Unbounded struct {
	policy      Policy
	maxCapacity uint64 // configured unbounded_queue_max_capacity (0 = unbounded, only the 2GiB/segment ceiling applies)

	// producer-owned; never touched by the consumer.
	tail           *segment
	requestedShrink uint64

	// consumer-owned; never touched by the producer, except that it
	// follows head.next which the producer publishes with a release
	// store.
	head *segment
}

// NewUnbounded creates an Unbounded queue whose first segment has
// capacity initialCapacityBytes (rounded to a power of two). maxCapacity
// bounds how large any single segment may grow under Blocking/Dropping
// policies; pass 0 for UnboundedUnlimited to mean "no configured cap
// beyond the 2 GiB per-segment ceiling".
func NewUnbounded(policy Policy, initialCapacityBytes, maxCapacityBytes int) *Unbounded {
	first := &segment{q: NewBounded(initialCapacityBytes)}
	return &Unbounded{
		policy:      policy,
		maxCapacity: uint64(maxCapacityBytes),
		tail:        first,
		head:        first,
	}
}

// Reserve behaves like Bounded.Reserve, transparently growing the chain
// per Policy when the tail segment is full. Reserve reports no
// allocation itself: the segment transition is surfaced as an AllocEvent
// by the consumer's BeginRead (spec §4.2/§7 assign that to the consumer).
func (u *Unbounded) Reserve(n uint32) (Reservation, bool) {
	if r, ok := u.tail.q.Reserve(n); ok {
		return r, true
	}
	if !u.policy.growsOnDemand() {
		return Reservation{}, false
	}

	needed := uint64(n) + 1 // spec §4.2: smallest doubled size that fits n+1 bytes
	newCap := u.tail.q.Cap() * 2
	for newCap < needed {
		newCap *= 2
	}
	if newCap > maxSegmentSize {
		if u.policy == UnboundedUnlimited {
			newCap = maxSegmentSize
		} else {
			return Reservation{}, false
		}
	}
	if u.maxCapacity != 0 && newCap > u.maxCapacity && u.policy != UnboundedUnlimited {
		return Reservation{}, false
	}
	if u.requestedShrink != 0 && u.requestedShrink >= uint64(n)+1 && u.requestedShrink < newCap {
		newCap = uint64(roundToPow2(int(u.requestedShrink)))
		u.requestedShrink = 0
	}

	next := &segment{q: NewBounded(int(newCap))}
	u.tail.next.Store(next) // release: publishes the new segment to the consumer
	u.tail = next

	return u.tail.q.Reserve(n)
}

// RequestShrink asks the next allocated segment to use a smaller capacity
// than doubling would otherwise produce, once the current tail segment
// has been fully allocated and replaced. The request is honored on a
// best-effort basis (spec §4.2).
func (u *Unbounded) RequestShrink(capacityBytes int) {
	u.requestedShrink = uint64(capacityBytes)
}

// BeginRead mirrors Bounded.BeginRead, following the segment chain when
// the head segment is exhausted. alloc is non-nil exactly when this call
// crossed into a newly-allocated segment.
func (u *Unbounded) BeginRead() (buf []byte, ok bool, alloc *AllocEvent) {
	for {
		if b, ok := u.head.q.BeginRead(); ok {
			return b, true, nil
		}
		next := u.head.next.Load()
		if next == nil {
			return nil, false, nil
		}
		old := u.head
		u.head = next
		_ = old.q.Close()
		alloc = &AllocEvent{OldCapacity: int(old.q.Cap()), NewCapacity: int(next.q.Cap())}
		if b, ok := u.head.q.BeginRead(); ok {
			return b, true, alloc
		}
		// New segment has no data yet (can happen if the producer
		// linked it before writing); report the allocation but no
		// bytes this round.
		return nil, false, alloc
	}
}

// FinishRead releases n consumed bytes from the current head segment.
func (u *Unbounded) FinishRead(n uint32) {
	u.head.q.FinishRead(n)
}
