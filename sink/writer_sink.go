// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sink

import (
	"fmt"
	"io"
	"sync"

	"code.hybscloud.com/quill/codec"
)

// Writer wraps any io.Writer as a Sink — the Go analogue of
// original_source's BasicFileSink/StdoutSink: a plain, unrotated,
// uncolored writer, the minimal reference sink rather than a concrete
// file-rotation or console-coloring implementation (both out of scope
// per spec.md §1).
type Writer struct {
	*Base

	mu sync.Mutex
	w  io.Writer
}

// NewWriter returns a Writer sink over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{Base: NewBase(), w: w}
}

// Write implements Sink.
func (s *Writer) Write(_ *codec.CallSite, _ uint64, _, _, _ string, _ codec.Level, _ []KV, formatted string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, formatted)
}

// Flush implements Sink, delegating to the wrapped writer's own Flush or
// Sync method when it has one.
func (s *Writer) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch f := s.w.(type) {
	case interface{ Flush() error }:
		return f.Flush()
	case interface{ Sync() error }:
		return f.Sync()
	default:
		return nil
	}
}

// PeriodicTick implements Sink; Writer has no periodic housekeeping.
func (s *Writer) PeriodicTick() {}
