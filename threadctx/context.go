// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package threadctx implements the per-producer thread context and its
// process-wide registry: the Go realization of the original's
// ThreadContext/ThreadContextCollection (original_source
// quill/detail/ThreadContext.h, ThreadContextCollection.h). A Context
// owns the SPSC queue a producer goroutine writes records into, plus the
// cached identity and failure counters the backend reads back; a
// Registry is the backend's window onto every live Context.
package threadctx

import (
	"code.hybscloud.com/atomix"

	"code.hybscloud.com/quill/codec"
	"code.hybscloud.com/quill/queue"
)

type pad [64]byte

// Queue is the narrow surface both queue.Bounded and queue.Unbounded
// satisfy (after boundedAdapter widens Bounded's BeginRead), the one a
// Context exposes to its producer and to the backend.
type Queue interface {
	Reserve(n uint32) (queue.Reservation, bool)
	BeginRead() (buf []byte, ok bool, alloc *queue.AllocEvent)
	FinishRead(n uint32)
}

type boundedAdapter struct{ *queue.Bounded }

func (b boundedAdapter) BeginRead() ([]byte, bool, *queue.AllocEvent) {
	buf, ok := b.Bounded.BeginRead()
	return buf, ok, nil
}

// Config selects how a Context's queue is built, mirroring the frontend
// option table of spec.md §6 (QueueType, InitialQueueCapacity,
// UnboundedQueueMaxCapacity, HugePagesPolicy) plus the identity strings
// the original caches at thread-context construction time.
type Config struct {
	Policy                       queue.Policy
	InitialQueueCapacity         int
	UnboundedQueueMaxCapacity    int
	HugePages                    queue.HugePagesPolicy
	TransitBufferInitialCapacity int
	ThreadID                     string
	ThreadName                   string
}

// Context is one producer goroutine's logging state: its queue, cached
// identity, codec scratch space, and the transit buffer the backend fills
// in once it has decoded this thread's records (original_source
// ThreadContext.h keeps the transit buffer here too, so the backend does
// not need a second per-thread lookup).
type Context struct {
	_        pad
	valid    atomix.Bool
	_        pad
	drops    atomix.Uint64
	_        pad
	blocks   atomix.Uint64
	_        pad

	q          Queue
	threadID   string
	threadName string
	scratch    *codec.Scratch
	transit    TransitBuffer
}

// NewContext builds a Context per cfg. Bounded policies get a
// queue.Bounded; the three Unbounded policies get a queue.Unbounded
// (queue.Policy already carries which).
func NewContext(cfg Config) *Context {
	var q Queue
	switch cfg.Policy {
	case queue.BoundedBlocking, queue.BoundedDropping:
		q = boundedAdapter{queue.NewBounded(cfg.InitialQueueCapacity, queue.WithHugePages(cfg.HugePages))}
	default:
		q = queue.NewUnbounded(cfg.Policy, cfg.InitialQueueCapacity, cfg.UnboundedQueueMaxCapacity)
	}
	c := &Context{
		q:          q,
		threadID:   cfg.ThreadID,
		threadName: cfg.ThreadName,
		scratch:    codec.NewScratch(8),
		transit:    NewTransitBuffer(cfg.TransitBufferInitialCapacity),
	}
	c.valid.StoreRelaxed(true)
	return c
}

// Queue returns the producer-facing queue.
func (c *Context) Queue() Queue { return c.q }

// ThreadID returns the cached thread identifier string.
func (c *Context) ThreadID() string { return c.threadID }

// ThreadName returns the cached thread name.
func (c *Context) ThreadName() string { return c.threadName }

// Scratch returns this Context's codec scratch space, reused across every
// Log call on this thread to avoid a per-call allocation.
func (c *Context) Scratch() *codec.Scratch { return c.scratch }

// Transit returns this Context's transit buffer, read and written only by
// the backend goroutine.
func (c *Context) Transit() *TransitBuffer { return &c.transit }

// Invalidate marks the context invalid. Called once, either explicitly via
// Handle.Release or from the Handle's cleanup when it is collected.
func (c *Context) Invalidate() { c.valid.StoreRelaxed(false) }

// Valid reports whether the context has not yet been invalidated.
func (c *Context) Valid() bool { return c.valid.LoadRelaxed() }

// IncrementDropCounter records one record discarded by a Dropping-policy
// queue, called from the producer's goroutine (spec.md §7's "Queue-full-
// drop: increment a 'dropped' counter").
func (c *Context) IncrementDropCounter() { c.drops.AddAcqRel(1) }

// GetAndResetDropCounter returns the current drop count and resets it to
// zero. Called only by the backend goroutine.
func (c *Context) GetAndResetDropCounter() uint64 {
	n := c.drops.LoadRelaxed()
	if n == 0 {
		return 0
	}
	c.drops.StoreRelaxed(0)
	return n
}

// IncrementBlockCounter records one reservation retry by a Blocking-policy
// producer, called from the producer's goroutine (spec.md §7's "Queue-
// full-block: increment a separate 'blocked' counter for observability",
// kept distinct from the drop counter so the two failure modes are never
// conflated in the error notifier).
func (c *Context) IncrementBlockCounter() { c.blocks.AddAcqRel(1) }

// GetAndResetBlockCounter returns the current block count and resets it
// to zero. Called only by the backend goroutine.
func (c *Context) GetAndResetBlockCounter() uint64 {
	n := c.blocks.LoadRelaxed()
	if n == 0 {
		return 0
	}
	c.blocks.StoreRelaxed(0)
	return n
}
