// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sink

import (
	"sync"

	"code.hybscloud.com/quill/codec"
)

// Record is one captured entry in a Memory sink's ring.
type Record struct {
	Site       *codec.CallSite
	TSNanos    uint64
	ThreadID   string
	ThreadName string
	LoggerName string
	Level      codec.Level
	Structured []KV
	Formatted  string
}

// Memory is an in-process bounded-ring Sink used by tests and
// documentation examples that want to assert directly on emitted records
// instead of parsing written output.
type Memory struct {
	*Base

	mu       sync.Mutex
	records  []Record
	capacity int
	flushes  int
}

// NewMemory returns a Memory sink retaining at most capacity records,
// oldest dropped first. capacity <= 0 means unbounded.
func NewMemory(capacity int) *Memory {
	return &Memory{Base: NewBase(), capacity: capacity}
}

// Write implements Sink.
func (s *Memory) Write(site *codec.CallSite, tsNanos uint64, threadID, threadName, loggerName string, level codec.Level, structured []KV, formatted string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, Record{
		Site: site, TSNanos: tsNanos, ThreadID: threadID, ThreadName: threadName,
		LoggerName: loggerName, Level: level, Structured: structured, Formatted: formatted,
	})
	if s.capacity > 0 && len(s.records) > s.capacity {
		s.records = s.records[len(s.records)-s.capacity:]
	}
}

// Flush implements Sink, counting the call for test assertions.
func (s *Memory) Flush() error {
	s.mu.Lock()
	s.flushes++
	s.mu.Unlock()
	return nil
}

// PeriodicTick implements Sink; Memory has no periodic housekeeping.
func (s *Memory) PeriodicTick() {}

// Records returns a copy of the currently retained records.
func (s *Memory) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Flushes reports how many times Flush has been called.
func (s *Memory) Flushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes
}
