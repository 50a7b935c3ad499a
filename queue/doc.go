// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package queue implements the single-producer/single-consumer byte queues
// that carry encoded log records from a producer thread to the backend.
//
// Two variants are provided: [Bounded], a fixed-capacity ring buffer with
// contiguous (never-split) reservations, and [Unbounded], a chain of
// Bounded segments that grows on producer demand under a configurable
// [Policy].
//
// Both queues are wait-free on the hot (producer) path: Reserve either
// returns a contiguous writable range immediately or reports that it
// cannot, leaving the retry policy to the caller.
package queue

// pad is cache-line padding, used to keep the producer's and consumer's
// hot fields on separate cache lines and avoid false sharing.
type pad [64]byte

// roundToPow2 rounds n up to the next power of 2. Mirrors the teacher's
// bit-trick implementation.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
