// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtlite

import (
	"testing"

	"code.hybscloud.com/quill/codec"
)

func TestFormatArg(t *testing.T) {
	cases := []struct {
		arg  codec.Arg
		want string
	}{
		{codec.Arg{Kind: codec.KindInt64, I: -7}, "-7"},
		{codec.Arg{Kind: codec.KindUint64, U: 42}, "42"},
		{codec.Arg{Kind: codec.KindFloat64, F: 1.5}, "1.5"},
		{codec.Arg{Kind: codec.KindBool, B: true}, "true"},
		{codec.Arg{Kind: codec.KindString, S: "hi"}, "hi"},
		{codec.Arg{Kind: codec.KindBytes, Bin: []byte{0xde, 0xad}}, "de ad"},
	}
	for _, c := range cases {
		if got := FormatArg(c.arg); got != c.want {
			t.Fatalf("FormatArg(%+v) = %q, want %q", c.arg, got, c.want)
		}
	}
}
