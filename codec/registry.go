// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"strings"
	"sync"
)

// DecoderEntry is the Go analogue of a monomorphized decode function: it
// captures exactly the information needed to walk an encoded argument
// list back into []Arg — the ordered Kind sequence for one
// argument-type tuple.
type DecoderEntry struct {
	Kinds []Kind
}

// Token is what travels inline in a record's header in place of the
// C++ decoder function pointer (spec §3's decoder_ptr, §9's
// non-monomorphizing equivalent: "the producer stores the token rather
// than a function pointer, and the consumer dispatches").
type Token = *DecoderEntry

var (
	registryMu sync.Mutex
	registry   = map[string]*DecoderEntry{}
)

// registerShape returns the shared DecoderEntry for this Kind sequence,
// creating it on first use. Distinct call sites with the same argument
// shape share one entry.
func registerShape(kinds []Kind) Token {
	key := shapeKey(kinds)

	registryMu.Lock()
	defer registryMu.Unlock()
	if e, ok := registry[key]; ok {
		return e
	}
	e := &DecoderEntry{Kinds: append([]Kind(nil), kinds...)}
	registry[key] = e
	return e
}

func shapeKey(kinds []Kind) string {
	var sb strings.Builder
	sb.Grow(len(kinds) * 2)
	for _, k := range kinds {
		sb.WriteByte(byte(k))
		sb.WriteByte(',')
	}
	return sb.String()
}

// Resolve packs args into dst and resolves (or assigns) site's decoder
// token in one step, the single entry point the frontend's hot path
// calls on every Log (spec §4.4 step 4's "size pass" begins here).
func Resolve(site *CallSite, dst []Arg, args ...any) (Token, []Arg) {
	dst = Pack(dst, args...)
	kinds := make([]Kind, len(dst))
	for i, a := range dst {
		kinds[i] = a.Kind
	}
	return site.resolve(kinds), dst
}
