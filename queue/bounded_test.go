// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue_test

import (
	"sync"
	"testing"

	"code.hybscloud.com/quill/queue"
)

func TestBoundedReserveCommitRoundTrip(t *testing.T) {
	q := queue.NewBounded(64)

	if got, want := q.Cap(), uint64(64); got != want {
		t.Fatalf("Cap: got %d, want %d", got, want)
	}

	r, ok := q.Reserve(8)
	if !ok {
		t.Fatalf("Reserve: got ok=false, want true")
	}
	copy(r.Bytes(), []byte("ABCDEFGH"))
	r.Commit()

	b, ok := q.BeginRead()
	if !ok {
		t.Fatalf("BeginRead: got ok=false, want true")
	}
	if string(b[:8]) != "ABCDEFGH" {
		t.Fatalf("BeginRead: got %q, want %q", b[:8], "ABCDEFGH")
	}
	q.FinishRead(8)

	if _, ok := q.BeginRead(); ok {
		t.Fatalf("BeginRead after drain: got ok=true, want false")
	}
}

// TestBoundedFull verifies Reserve returns ok=false, not an error, once
// the ring is full (spec §4.1: a full reservation is a normal outcome).
func TestBoundedFull(t *testing.T) {
	q := queue.NewBounded(16) // rounds to 16

	var reservations []queue.Reservation
	for i := 0; i < 16; i++ {
		r, ok := q.Reserve(1)
		if !ok {
			t.Fatalf("Reserve(%d): got ok=false before full", i)
		}
		r.Bytes()[0] = byte(i)
		reservations = append(reservations, r)
	}
	if _, ok := q.Reserve(1); ok {
		t.Fatalf("Reserve on full queue: got ok=true, want false")
	}
	for _, r := range reservations {
		r.Commit()
	}
}

// TestBoundedReserveLargerThanCapacity verifies an oversized reservation
// returns ok=false instead of underflowing the capacity-size comparison
// and handing back a reservation wider than the backing buffer (spec
// §4.1: a reservation returning ok=false is a normal outcome, never a
// panic or out-of-range slice).
func TestBoundedReserveLargerThanCapacity(t *testing.T) {
	q := queue.NewBounded(64) // rounds to 64

	r, ok := q.Reserve(65)
	if ok {
		t.Fatalf("Reserve(65) on a 64-byte queue: got ok=true, want false (got %d bytes)", len(r.Bytes()))
	}

	// the queue must still be perfectly usable afterwards.
	r, ok = q.Reserve(8)
	if !ok {
		t.Fatalf("Reserve(8) after a rejected oversized reservation: got ok=false, want true")
	}
	r.Commit()
}

// TestBoundedWrapIsContiguous exercises a reservation that straddles the
// physical end of the ring and verifies the producer still sees one
// contiguous slice (spec §4.1).
func TestBoundedWrapIsContiguous(t *testing.T) {
	q := queue.NewBounded(16)

	r1, ok := q.Reserve(12)
	if !ok {
		t.Fatalf("Reserve(12): got ok=false")
	}
	r1.Commit()

	b, ok := q.BeginRead()
	if !ok {
		t.Fatalf("BeginRead: got ok=false")
	}
	q.FinishRead(uint32(len(b)))

	// writerPos and readerPos are now both 12; the next 8-byte
	// reservation straddles the 16-byte physical boundary.
	r2, ok := q.Reserve(8)
	if !ok {
		t.Fatalf("Reserve(8) across wrap: got ok=false")
	}
	if got, want := len(r2.Bytes()), 8; got != want {
		t.Fatalf("wrapped reservation length: got %d, want %d (not contiguous)", got, want)
	}
	copy(r2.Bytes(), []byte{1, 2, 3, 4, 5, 6, 7, 8})
	r2.Commit()

	got := make([]byte, 0, 8)
	for len(got) < 8 {
		chunk, ok := q.BeginRead()
		if !ok {
			t.Fatalf("BeginRead: got ok=false before draining 8 bytes")
		}
		got = append(got, chunk...)
		q.FinishRead(uint32(len(chunk)))
	}
	for i, v := range got {
		if v != byte(i+1) {
			t.Fatalf("byte %d: got %d, want %d", i, v, i+1)
		}
	}
}

// TestBoundedSPSCOrdering is property P1/P2: a single producer and single
// consumer goroutine preserve FIFO order across any interleaving.
func TestBoundedSPSCOrdering(t *testing.T) {
	q := queue.NewBounded(256)
	const n = 20000

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			for {
				r, ok := q.Reserve(4)
				if ok {
					r.Bytes()[0] = byte(i)
					r.Bytes()[1] = byte(i >> 8)
					r.Bytes()[2] = byte(i >> 16)
					r.Bytes()[3] = byte(i >> 24)
					r.Commit()
					break
				}
			}
		}
	}()

	go func() {
		defer wg.Done()
		next := 0
		for next < n {
			b, ok := q.BeginRead()
			if !ok {
				continue
			}
			consumed := uint32(0)
			for len(b)-int(consumed) >= 4 {
				v := int(b[consumed]) | int(b[consumed+1])<<8 | int(b[consumed+2])<<16 | int(b[consumed+3])<<24
				if v != next {
					t.Errorf("order violation: got %d, want %d", v, next)
				}
				next++
				consumed += 4
			}
			q.FinishRead(consumed)
		}
	}()

	wg.Wait()
}
