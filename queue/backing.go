// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import "sync"

// backing is the storage strategy behind a Bounded ring. It must hand the
// producer a single contiguous slice for any reservation up to capacity
// bytes, even when the reservation straddles the physical end of the ring
// (spec §4.1's "contiguous reservations" requirement), and let the consumer
// read whatever contiguous run is currently available (which, per spec
// §4.1, may legitimately be shorter than the full readable total at a wrap
// boundary).
type backing interface {
	capacity() uint64
	// reserveForWrite returns a writable slice of exactly n bytes for
	// logical ring offset off. Backings that alias physical memory twice
	// (double-mapped mmap) return a zero-copy view; backings that can't
	// return a pooled scratch buffer that must be passed to commitWrite.
	reserveForWrite(off, n uint64) []byte
	// commitWrite publishes the n bytes written into buf (the slice
	// previously returned by reserveForWrite) at logical offset off.
	commitWrite(off, n uint64, buf []byte)
	// readSlice returns the contiguous run of up to n bytes available
	// starting at logical offset off. The returned slice's length may be
	// less than n if off+n would cross the end of the physical buffer on
	// a backing without aliasing; the caller must call again after
	// consuming the short run.
	readSlice(off, n uint64) []byte
	close() error
}

// newBacking selects a backing for the given capacity. It tries a
// platform-specific double-mapped backing first (see backing_linux.go,
// used opportunistically for the huge-pages knob) and falls back to the
// portable copy-on-wrap backing on any failure or on platforms without one.
func newBacking(capacity uint64, huge HugePagesPolicy) backing {
	if b := newPlatformBacking(capacity, huge); b != nil {
		return b
	}
	return newCopyBacking(capacity)
}

// HugePagesPolicy controls whether a Bounded queue requests transparent
// huge-page backing from the OS. It is a best-effort hint: platforms or
// backings that cannot honor it silently fall back to normal pages.
type HugePagesPolicy int

const (
	// HugePagesNever never requests huge pages.
	HugePagesNever HugePagesPolicy = iota
	// HugePagesTryOnce attempts a huge-page-backed mapping once at
	// construction time and falls back silently on failure.
	HugePagesTryOnce
	// HugePagesAlways behaves like HugePagesTryOnce on platforms where
	// huge pages cannot be mandated.
	HugePagesAlways
)

// copyBacking is the portable fallback: a single physical buffer of
// exactly capacity bytes. Reservations that would straddle the end copy
// through a pooled scratch buffer instead of requiring the producer to
// retry, so the Bounded queue still gets the contiguous-reservation
// contract spec §4.1 requires.
type copyBacking struct {
	buf []byte
	cap uint64
	pool sync.Pool
}

func newCopyBacking(capacity uint64) *copyBacking {
	return &copyBacking{
		buf: make([]byte, capacity),
		cap: capacity,
		pool: sync.Pool{New: func() any { return make([]byte, 0, 256) }},
	}
}

func (c *copyBacking) capacity() uint64 { return c.cap }

func (c *copyBacking) reserveForWrite(off, n uint64) []byte {
	if off+n <= c.cap {
		return c.buf[off : off+n]
	}
	scratch := c.pool.Get().([]byte)
	if uint64(cap(scratch)) < n {
		scratch = make([]byte, n)
	} else {
		scratch = scratch[:n]
	}
	return scratch
}

func (c *copyBacking) commitWrite(off, n uint64, buf []byte) {
	if off+n <= c.cap {
		return // buf is a direct view into c.buf; bytes are already in place.
	}
	first := c.cap - off
	copy(c.buf[off:c.cap], buf[:first])
	copy(c.buf[0:n-first], buf[first:])
	c.pool.Put(buf[:0]) //nolint:staticcheck // length reset before returning to pool
}

func (c *copyBacking) readSlice(off, n uint64) []byte {
	avail := n
	if c.cap-off < avail {
		avail = c.cap - off
	}
	return c.buf[off : off+avail]
}

func (c *copyBacking) close() error { return nil }
