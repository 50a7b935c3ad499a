// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

// Policy selects how an Unbounded queue behaves once its configured
// maximum segment capacity is reached, and whether a Bounded queue backs
// it at all. Mirrors spec §3's five named variants.
type Policy int

const (
	// UnboundedUnlimited always allocates a new, larger segment when the
	// current tail segment is full, up to the 2 GiB per-segment ceiling.
	// There is no additional cross-segment cap (see DESIGN.md's Open
	// Question resolution).
	UnboundedUnlimited Policy = iota
	// UnboundedBlocking fails a reservation once the configured segment
	// cap is reached; the caller is expected to spin/retry.
	UnboundedBlocking
	// UnboundedDropping fails a reservation once the configured segment
	// cap is reached; the caller is expected to drop the record.
	UnboundedDropping
	// BoundedBlocking never allocates a new segment; the caller retries
	// against the single fixed-capacity segment.
	BoundedBlocking
	// BoundedDropping never allocates a new segment; the caller drops
	// the record instead of retrying.
	BoundedDropping
)

// growsOnDemand reports whether this policy allocates new segments at all.
func (p Policy) growsOnDemand() bool {
	switch p {
	case BoundedBlocking, BoundedDropping:
		return false
	default:
		return true
	}
}

// IsBlocking reports whether a failed reservation under this policy means
// "retry", as opposed to "drop".
func (p Policy) IsBlocking() bool {
	switch p {
	case UnboundedBlocking, BoundedBlocking:
		return true
	default:
		return false
	}
}
