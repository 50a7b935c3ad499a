// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codec

// Scratch is the per-thread side channel the size pass uses to stash
// variable-length sizes so the encode pass doesn't recompute them (spec
// §4.3: "length is also stashed in a per-call-site scratch vector so the
// decoder can read the same bytes without a second strlen"). In this Go
// codec the only variable-length kinds are KindString/KindBytes/KindText,
// whose length we already have for free from len(string)/len(slice), so
// Scratch mainly avoids a second slice of allocations on the hot path
// rather than a second strlen.
type Scratch struct {
	lengths []uint32
}

// NewScratch returns a Scratch with room for n variable-length fields
// pre-allocated.
func NewScratch(n int) *Scratch {
	return &Scratch{lengths: make([]uint32, 0, n)}
}

func (s *Scratch) reset() { s.lengths = s.lengths[:0] }

func (s *Scratch) push(n uint32) { s.lengths = append(s.lengths, n) }
