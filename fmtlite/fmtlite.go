// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fmtlite is the default pattern-formatter collaborator spec.md
// §1 treats as an external black box: a minimal but real implementation
// of the `%(name)` metadata pattern (original_source
// PatternFormatterOptions.h) and of the `{name}`/`{}` message-template
// substitution spec.md §4.5 describes for structured logging. Richer
// pattern syntax — custom verbs, arbitrary fmt-style specs — is left to
// whatever formatter a caller chooses to supply instead; fmtlite exists
// so the module works out of the box without one.
package fmtlite

import (
	"fmt"
	"strconv"

	"code.hybscloud.com/quill/codec"
)

// FormatArg renders one decoded argument as it appears in a formatted
// message body or a structured key-value pair's value.
func FormatArg(a codec.Arg) string {
	switch a.Kind {
	case codec.KindInt64:
		return strconv.FormatInt(a.I, 10)
	case codec.KindUint64:
		return strconv.FormatUint(a.U, 10)
	case codec.KindFloat64:
		return strconv.FormatFloat(a.F, 'g', -1, 64)
	case codec.KindBool:
		return strconv.FormatBool(a.B)
	case codec.KindString, codec.KindText:
		return a.S
	case codec.KindBytes:
		return fmt.Sprintf("% x", a.Bin)
	default:
		return ""
	}
}
