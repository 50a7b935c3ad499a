// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quill

import "testing"

func TestAcquireThreadContextAssignsDistinctIdentities(t *testing.T) {
	a := AcquireThreadContext("")
	b := AcquireThreadContext("")
	t.Cleanup(a.Release)
	t.Cleanup(b.Release)

	if a.ctx.ThreadID() == b.ctx.ThreadID() {
		t.Fatalf("two AcquireThreadContext calls produced the same thread ID %q", a.ctx.ThreadID())
	}
	if a.ctx.ThreadName() != a.ctx.ThreadID() {
		t.Fatalf("unnamed handle's ThreadName() = %q, want it to fall back to ThreadID() %q", a.ctx.ThreadName(), a.ctx.ThreadID())
	}
}

func TestAcquireThreadContextUsesGivenName(t *testing.T) {
	h := AcquireThreadContext("worker-1")
	t.Cleanup(h.Release)

	if h.ctx.ThreadName() != "worker-1" {
		t.Fatalf("ThreadName() = %q, want %q", h.ctx.ThreadName(), "worker-1")
	}
}

func TestThreadHandleReleaseInvalidatesContext(t *testing.T) {
	h := AcquireThreadContext("")
	if !h.ctx.Valid() {
		t.Fatalf("freshly acquired context is already invalid")
	}
	h.Release()
	if h.ctx.Valid() {
		t.Fatalf("Release did not invalidate the underlying context")
	}
}

func TestPreallocateDoesNotPanic(t *testing.T) {
	Preallocate()
}
