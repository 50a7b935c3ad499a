// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package threadctx

import (
	"testing"

	"code.hybscloud.com/quill/queue"
)

func TestNewContextBoundedQueue(t *testing.T) {
	ctx := NewContext(Config{
		Policy:                       queue.BoundedDropping,
		InitialQueueCapacity:         1024,
		TransitBufferInitialCapacity: 4,
		ThreadID:                     "123",
		ThreadName:                   "worker",
	})
	if !ctx.Valid() {
		t.Fatalf("new context should be valid")
	}
	if ctx.ThreadID() != "123" || ctx.ThreadName() != "worker" {
		t.Fatalf("identity not cached: id=%q name=%q", ctx.ThreadID(), ctx.ThreadName())
	}

	r, ok := ctx.Queue().Reserve(8)
	if !ok {
		t.Fatalf("Reserve on fresh bounded queue failed")
	}
	copy(r.Bytes(), []byte("abcdefgh"))
	r.Commit()

	buf, ok, alloc := ctx.Queue().BeginRead()
	if !ok || alloc != nil {
		t.Fatalf("BeginRead: ok=%v alloc=%v", ok, alloc)
	}
	if string(buf) != "abcdefgh" {
		t.Fatalf("BeginRead = %q, want %q", buf, "abcdefgh")
	}
}

func TestNewContextUnboundedQueue(t *testing.T) {
	ctx := NewContext(Config{
		Policy:                       queue.UnboundedUnlimited,
		InitialQueueCapacity:         64,
		TransitBufferInitialCapacity: 4,
	})
	for i := 0; i < 100; i++ {
		if _, ok := ctx.Queue().Reserve(16); !ok {
			t.Fatalf("reservation %d failed on an unlimited unbounded queue", i)
		}
	}
}

func TestDropCounter(t *testing.T) {
	ctx := NewContext(Config{Policy: queue.BoundedDropping, InitialQueueCapacity: 64})
	if n := ctx.GetAndResetDropCounter(); n != 0 {
		t.Fatalf("fresh counter = %d, want 0", n)
	}
	ctx.IncrementDropCounter()
	ctx.IncrementDropCounter()
	if n := ctx.GetAndResetDropCounter(); n != 2 {
		t.Fatalf("counter = %d, want 2", n)
	}
	if n := ctx.GetAndResetDropCounter(); n != 0 {
		t.Fatalf("counter after reset = %d, want 0", n)
	}
}

func TestBlockCounter(t *testing.T) {
	ctx := NewContext(Config{Policy: queue.BoundedBlocking, InitialQueueCapacity: 64})
	if n := ctx.GetAndResetBlockCounter(); n != 0 {
		t.Fatalf("fresh counter = %d, want 0", n)
	}
	ctx.IncrementBlockCounter()
	ctx.IncrementBlockCounter()
	ctx.IncrementBlockCounter()
	if n := ctx.GetAndResetBlockCounter(); n != 3 {
		t.Fatalf("counter = %d, want 3", n)
	}
	if n := ctx.GetAndResetBlockCounter(); n != 0 {
		t.Fatalf("counter after reset = %d, want 0", n)
	}
	if n := ctx.GetAndResetDropCounter(); n != 0 {
		t.Fatalf("drop counter was incremented by IncrementBlockCounter calls: %d", n)
	}
}

func TestTransitBufferFIFO(t *testing.T) {
	var tb TransitBuffer = NewTransitBuffer(2)
	tb.Push("a")
	tb.Push("b")
	tb.Push("c")
	if tb.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tb.Len())
	}
	for _, want := range []string{"a", "b", "c"} {
		got, ok := tb.Front()
		if !ok || got != want {
			t.Fatalf("Front = (%v,%v), want (%v,true)", got, ok, want)
		}
		tb.Pop()
	}
	if tb.Len() != 0 {
		t.Fatalf("Len after drain = %d, want 0", tb.Len())
	}
	if _, ok := tb.Front(); ok {
		t.Fatalf("Front on empty buffer should report ok=false")
	}
}

func TestRegistryRegisterSnapshotRemove(t *testing.T) {
	reg := NewRegistry()
	ctxA := NewContext(Config{Policy: queue.BoundedDropping, InitialQueueCapacity: 64})
	ctxB := NewContext(Config{Policy: queue.BoundedDropping, InitialQueueCapacity: 64})

	reg.Register(ctxA)
	contexts, changed := reg.Snapshot()
	if !changed || len(contexts) != 1 {
		t.Fatalf("after first register: changed=%v len=%d, want true,1", changed, len(contexts))
	}

	_, changed = reg.Snapshot()
	if changed {
		t.Fatalf("second snapshot with no new registrations reported changed")
	}

	reg.Register(ctxB)
	contexts, changed = reg.Snapshot()
	if !changed || len(contexts) != 2 {
		t.Fatalf("after second register: changed=%v len=%d, want true,2", changed, len(contexts))
	}

	reg.Remove(ctxA)
	contexts, _ = reg.Snapshot()
	if len(contexts) != 1 || contexts[0] != ctxB {
		t.Fatalf("after remove: contexts=%v, want [ctxB]", contexts)
	}
}

func TestHandleReleaseInvalidatesContext(t *testing.T) {
	reg := NewRegistry()
	h := Acquire(reg, Config{Policy: queue.BoundedDropping, InitialQueueCapacity: 64})
	if !h.Context().Valid() {
		t.Fatalf("freshly acquired context should be valid")
	}
	h.Release()
	if h.Context().Valid() {
		t.Fatalf("context should be invalid after Release")
	}
}
