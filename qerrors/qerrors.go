// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package qerrors defines the error taxonomy crossing the producer/backend
// boundary: a small set of sentinel errors for the producer's hot path, and a
// set of event types delivered to the backend's error notifier.
//
// Nothing else escapes the library: format failures, drops, blocks and
// allocation events are all reported through [Notifier], never through a
// returned error on the hot path.
package qerrors

import (
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock is re-exported for callers that compose queue errors with
// their own control flow. It is an alias of [iox.ErrWouldBlock] so
// errors.Is comparisons work uniformly across this module and the queue
// package's direct iox usage.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrRecordTooLarge is returned when a single record would exceed the
// 2 GiB-1 hard limit. Unlike ErrWouldBlock this is not retryable.
var ErrRecordTooLarge = fmt.Errorf("quill: record exceeds maximum size (2GiB-1)")

// ErrBadConfiguration names an invalid option combination, e.g. an RDTSC
// resync interval shorter than the backend's idle sleep duration. No
// constructor in this module checks option combinations, so nothing here
// returns it.
var ErrBadConfiguration = fmt.Errorf("quill: bad configuration")

// IsWouldBlock reports whether err is the semantic "would block" signal.
func IsWouldBlock(err error) bool { return iox.IsWouldBlock(err) }

// DropEvent is reported when a Dropping-policy queue discards a record.
type DropEvent struct {
	Thread string
	Count  uint64
}

func (e DropEvent) String() string {
	return fmt.Sprintf("Dropped %d log messages from thread %s", e.Count, e.Thread)
}

// BlockEvent is reported periodically while a Blocking-policy producer is
// retrying a full queue, for observability only.
type BlockEvent struct {
	Thread string
	Count  uint64
}

func (e BlockEvent) String() string {
	return fmt.Sprintf("Thread %s blocked %d times waiting for queue space", e.Thread, e.Count)
}

// AllocEvent is reported when an Unbounded queue grows by allocating a new
// segment.
type AllocEvent struct {
	OldCapacity int
	NewCapacity int
}

func (e AllocEvent) String() string {
	return fmt.Sprintf("unbounded queue grew from %d to %d bytes", e.OldCapacity, e.NewCapacity)
}

// FormatError is reported when the pattern formatter fails to format a
// decoded record. The backend substitutes a fallback message and keeps
// running. The backend also reports a failed CPU pin, a corrupt queue
// record and a failed sink flush as a FormatError.
type FormatError struct {
	Message  string
	Location string
	Err      error
}

func (e FormatError) String() string {
	return fmt.Sprintf("[Could not format log statement. message: %q, location: %q, error: %q]",
		e.Message, e.Location, e.Err)
}

// Notifier receives error and diagnostic events from the backend goroutine.
// It must be fast and must not panic; a panic inside a user-supplied
// Notifier is recovered, reported to stderr once, and the notifier is then
// disabled for the remainder of the run.
type Notifier func(event any)
