// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import (
	"code.hybscloud.com/atomix"

	"code.hybscloud.com/quill/qerrors"
)

// maxRecordSize is the hard per-record limit from spec §3: 2 GiB - 1.
const maxRecordSize = 1<<31 - 1

// Bounded is a wait-free single-producer/single-consumer byte ring.
// Capacity is a power of two. Reservations are always contiguous, per
// spec §4.1: a reservation that crosses the physical end of the buffer is
// still handed out as one contiguous slice by the backing.
//
// Positions are monotonically increasing byte counters; the queue is empty
// when writerPos == readerPos and full when their difference equals the
// capacity. Cached copies of the peer's position (mirroring the teacher's
// SPSC cached-index optimization) cut cross-core cache traffic on the hot
// path.
type Bounded struct {
	_             pad
	writerPos     atomix.Uint64
	_             pad
	cachedReader  uint64 // producer's cached view of readerPos
	_             pad
	readerPos     atomix.Uint64
	_             pad
	cachedWriter  uint64 // consumer's cached view of writerPos
	_             pad
	back          backing
	capacity      uint64
}

// BoundedOption configures a Bounded queue at construction time.
type BoundedOption func(*boundedConfig)

type boundedConfig struct {
	hugePages HugePagesPolicy
}

// WithHugePages requests (best-effort) huge-page backing for the ring.
func WithHugePages(policy HugePagesPolicy) BoundedOption {
	return func(c *boundedConfig) { c.hugePages = policy }
}

// NewBounded creates a Bounded queue of at least capacityBytes, rounded up
// to the next power of two.
func NewBounded(capacityBytes int, opts ...BoundedOption) *Bounded {
	cfg := boundedConfig{hugePages: HugePagesNever}
	for _, o := range opts {
		o(&cfg)
	}
	capacity := uint64(roundToPow2(capacityBytes))
	return &Bounded{
		back:     newBacking(capacity, cfg.hugePages),
		capacity: capacity,
	}
}

// Cap returns the queue's capacity in bytes.
func (b *Bounded) Cap() uint64 { return b.capacity }

// Len returns the number of unread bytes currently in the queue. Safe to
// call from either the producer or the consumer, but the value may be
// stale the instant it is observed from the other side.
func (b *Bounded) Len() uint64 {
	return b.writerPos.LoadAcquire() - b.readerPos.LoadAcquire()
}

// Reservation is a contiguous writable range returned by Reserve. The
// producer must write exactly len(Bytes()) bytes before calling Commit.
type Reservation struct {
	b        *Bounded
	off      uint64
	n        uint64
	writerAt uint64
	buf      []byte
	valid    bool
}

// Bytes returns the writable range. Valid only until Commit is called.
func (r Reservation) Bytes() []byte { return r.buf }

// Commit publishes the reservation, making it visible to the consumer.
func (r Reservation) Commit() {
	if !r.valid {
		return
	}
	r.b.back.commitWrite(r.off, r.n, r.buf)
	r.b.writerPos.StoreRelease(r.writerAt + r.n)
}

// Reserve returns a contiguous writable range of n bytes, or ok=false if
// the queue currently lacks space. A reservation returning ok=false is a
// normal outcome (spec §4.1) — the caller's queue policy decides whether
// to retry, block or drop.
//
// n must not exceed 2 GiB-1; Reserve panics otherwise, since a record that
// large is a caller bug rather than a transient condition (spec §3, §7).
// A reservation larger than the ring's total capacity can never be
// satisfied regardless of how much the consumer drains, so it returns
// ok=false rather than underflowing the capacity-size comparison below.
func (b *Bounded) Reserve(n uint32) (Reservation, bool) {
	if n > maxRecordSize {
		panic(qerrors.ErrRecordTooLarge)
	}
	size := uint64(n)
	if size > b.capacity {
		return Reservation{}, false
	}
	writer := b.writerPos.LoadRelaxed()
	if writer-b.cachedReader > b.capacity-size {
		b.cachedReader = b.readerPos.LoadAcquire()
		if writer-b.cachedReader > b.capacity-size {
			return Reservation{}, false
		}
	}
	off := writer & (b.capacity - 1)
	buf := b.back.reserveForWrite(off, size)
	return Reservation{b: b, off: off, n: size, writerAt: writer, buf: buf, valid: true}, true
}

// BeginRead returns the currently readable contiguous range. The returned
// slice may be shorter than the total number of unread bytes if a wrap
// boundary splits it on a non-aliasing backing (spec §4.1); the consumer
// should call FinishRead and then BeginRead again to see the remainder.
func (b *Bounded) BeginRead() ([]byte, bool) {
	reader := b.readerPos.LoadRelaxed()
	if reader >= b.cachedWriter {
		b.cachedWriter = b.writerPos.LoadAcquire()
		if reader >= b.cachedWriter {
			return nil, false
		}
	}
	avail := b.cachedWriter - reader
	off := reader & (b.capacity - 1)
	return b.back.readSlice(off, avail), true
}

// FinishRead releases n consumed bytes, making room for the producer.
func (b *Bounded) FinishRead(n uint32) {
	b.readerPos.StoreRelease(b.readerPos.LoadRelaxed() + uint64(n))
}

// Close releases any OS resources (e.g. the memfd behind a double-mapped
// backing). Not safe to call while the producer or consumer are active.
func (b *Bounded) Close() error { return b.back.close() }
