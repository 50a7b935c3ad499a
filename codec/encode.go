// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/binary"
	"math"
)

// Encode implements the codec's encode pass (spec §4.3): walks args a
// second time and copies them into buf, which must be exactly
// SizeOf(args, scratch) bytes (the caller reserves that many bytes from
// the queue). scratch must be the same Scratch instance SizeOf was just
// called with, in the same order — encode trusts the cached lengths
// rather than recomputing them.
func Encode(buf []byte, args []Arg, scratch *Scratch) {
	off := 0
	vi := 0
	for _, a := range args {
		switch a.Kind {
		case KindInt64:
			binary.LittleEndian.PutUint64(buf[off:], uint64(a.I))
			off += 8
		case KindUint64:
			binary.LittleEndian.PutUint64(buf[off:], a.U)
			off += 8
		case KindFloat64:
			binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(a.F))
			off += 8
		case KindBool:
			if a.B {
				buf[off] = 1
			} else {
				buf[off] = 0
			}
			off++
		case KindString, KindText:
			n := scratch.lengths[vi]
			vi++
			binary.LittleEndian.PutUint32(buf[off:], n)
			off += 4
			off += copy(buf[off:off+int(n)], a.S)
		case KindBytes:
			n := scratch.lengths[vi]
			vi++
			binary.LittleEndian.PutUint32(buf[off:], n)
			off += 4
			off += copy(buf[off:off+int(n)], a.Bin)
		}
	}
}
