// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codec

// SizeOf implements the codec's size pass (spec §4.3): a cheap walk over
// args that computes the number of encoded bytes required and records
// each variable-length field's length into scratch for reuse by Encode.
func SizeOf(args []Arg, scratch *Scratch) int {
	scratch.reset()
	total := 0
	for _, a := range args {
		switch a.Kind {
		case KindInt64, KindUint64, KindFloat64:
			total += 8
		case KindBool:
			total += 1
		case KindString, KindText:
			n := uint32(len(a.S))
			scratch.push(n)
			total += 4 + int(n)
		case KindBytes:
			n := uint32(len(a.Bin))
			scratch.push(n)
			total += 4 + int(n)
		}
	}
	return total
}
