// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"encoding"
	"fmt"
)

// Kind discriminates the wire representation of one encoded argument,
// per the per-type rules in spec §3/§4.3.
type Kind uint8

const (
	KindInt64 Kind = iota
	KindUint64
	KindFloat64
	KindBool
	// KindString covers owning/view strings: [length][bytes] (spec §3).
	KindString
	// KindBytes is the deferred-format binary blob: [length][bytes],
	// handed raw to a user-supplied formatter by the decoder.
	KindBytes
	// KindText is a trivially-copyable user type with a user-declared
	// formatter, realized in Go via encoding.TextMarshaler.
	KindText
)

// Arg is the decoded, formatter-ready representation of one log
// argument. Producers build a slice of these from their call's variadic
// arguments (the Go idiom replacing C++ template parameter packs); the
// decode pass reconstructs the same shape from queue bytes.
type Arg struct {
	Kind Kind
	I    int64
	U    uint64
	F    float64
	B    bool
	S    string // valid for KindString and KindText
	Bin  []byte // valid for KindBytes
}

// Pack appends the Go-typed arguments to dst using an explicit type
// switch rather than reflection, matching the hot-path-allocation
// discipline the teacher and the wider corpus apply to per-call-site
// encoding (reflection is reserved for the cold backend path, not used
// here at all).
func Pack(dst []Arg, args ...any) []Arg {
	for _, a := range args {
		dst = append(dst, packOne(a))
	}
	return dst
}

func packOne(a any) Arg {
	switch v := a.(type) {
	case string:
		return Arg{Kind: KindString, S: v}
	case []byte:
		return Arg{Kind: KindBytes, Bin: v}
	case bool:
		return Arg{Kind: KindBool, B: v}
	case int:
		return Arg{Kind: KindInt64, I: int64(v)}
	case int8:
		return Arg{Kind: KindInt64, I: int64(v)}
	case int16:
		return Arg{Kind: KindInt64, I: int64(v)}
	case int32:
		return Arg{Kind: KindInt64, I: int64(v)}
	case int64:
		return Arg{Kind: KindInt64, I: v}
	case uint:
		return Arg{Kind: KindUint64, U: uint64(v)}
	case uint8:
		return Arg{Kind: KindUint64, U: uint64(v)}
	case uint16:
		return Arg{Kind: KindUint64, U: uint64(v)}
	case uint32:
		return Arg{Kind: KindUint64, U: uint64(v)}
	case uint64:
		return Arg{Kind: KindUint64, U: v}
	case float32:
		return Arg{Kind: KindFloat64, F: float64(v)}
	case float64:
		return Arg{Kind: KindFloat64, F: v}
	case error:
		return Arg{Kind: KindString, S: v.Error()}
	case fmt.Stringer:
		return Arg{Kind: KindString, S: v.String()}
	case encoding.TextMarshaler:
		b, err := v.MarshalText()
		if err != nil {
			return Arg{Kind: KindText, S: fmt.Sprintf("<marshal error: %v>", err)}
		}
		return Arg{Kind: KindText, S: string(b)}
	default:
		return Arg{Kind: KindString, S: fmt.Sprintf("%v", v)}
	}
}
