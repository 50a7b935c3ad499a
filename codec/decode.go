// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Decode implements the codec's decode pass (spec §4.3): walks buf
// according to token's cached Kind sequence and reconstructs []Arg. Every
// string and byte-slice Arg is copied out of buf at decode time (Go's
// string(...) conversion and the explicit copy below both allocate), so
// the returned []Arg is safe to retain — in a transit event, for
// instance — past the point where buf's backing storage is reused by a
// later read. The second return value is the number of bytes of buf the
// payload occupied, so a caller reading out of a ring buffer knows
// exactly how many bytes to release.
func Decode(buf []byte, token Token) ([]Arg, int, error) {
	if token == nil {
		return nil, 0, fmt.Errorf("codec: nil decoder token")
	}
	args := make([]Arg, 0, len(token.Kinds))
	off := 0
	for _, k := range token.Kinds {
		switch k {
		case KindInt64:
			if off+8 > len(buf) {
				return nil, 0, fmt.Errorf("codec: truncated int64 argument")
			}
			args = append(args, Arg{Kind: k, I: int64(binary.LittleEndian.Uint64(buf[off:]))})
			off += 8
		case KindUint64:
			if off+8 > len(buf) {
				return nil, 0, fmt.Errorf("codec: truncated uint64 argument")
			}
			args = append(args, Arg{Kind: k, U: binary.LittleEndian.Uint64(buf[off:])})
			off += 8
		case KindFloat64:
			if off+8 > len(buf) {
				return nil, 0, fmt.Errorf("codec: truncated float64 argument")
			}
			args = append(args, Arg{Kind: k, F: math.Float64frombits(binary.LittleEndian.Uint64(buf[off:]))})
			off += 8
		case KindBool:
			if off+1 > len(buf) {
				return nil, 0, fmt.Errorf("codec: truncated bool argument")
			}
			args = append(args, Arg{Kind: k, B: buf[off] != 0})
			off++
		case KindString, KindText:
			if off+4 > len(buf) {
				return nil, 0, fmt.Errorf("codec: truncated string length")
			}
			n := binary.LittleEndian.Uint32(buf[off:])
			off += 4
			if off+int(n) > len(buf) {
				return nil, 0, fmt.Errorf("codec: truncated string body")
			}
			args = append(args, Arg{Kind: k, S: string(buf[off : off+int(n)])})
			off += int(n)
		case KindBytes:
			if off+4 > len(buf) {
				return nil, 0, fmt.Errorf("codec: truncated bytes length")
			}
			n := binary.LittleEndian.Uint32(buf[off:])
			off += 4
			if off+int(n) > len(buf) {
				return nil, 0, fmt.Errorf("codec: truncated bytes body")
			}
			b := make([]byte, n)
			copy(b, buf[off:off+int(n)])
			args = append(args, Arg{Kind: k, Bin: b})
			off += int(n)
		}
	}
	return args, off, nil
}
