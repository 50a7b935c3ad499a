// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quill

import (
	"path/filepath"
	"strconv"

	"code.hybscloud.com/quill/codec"
)

func itoa(n int) string { return strconv.Itoa(n) }

// shortSourceLocation renders "file.go:42", the %(short_source_location)
// pattern field's value — the base name only, unlike %(source_location)'s
// full path.
func shortSourceLocation(site *codec.CallSite) string {
	return filepath.Base(site.File) + ":" + itoa(site.Line)
}

// levelShortCode renders the %(log_level_short_code) pattern field.
func levelShortCode(level codec.Level) string {
	switch level {
	case codec.LevelTraceL3:
		return "T3"
	case codec.LevelTraceL2:
		return "T2"
	case codec.LevelTraceL1:
		return "T1"
	case codec.LevelDebug:
		return "D"
	case codec.LevelInfo:
		return "I"
	case codec.LevelNotice:
		return "N"
	case codec.LevelWarning:
		return "W"
	case codec.LevelError:
		return "E"
	case codec.LevelCritical:
		return "C"
	case codec.LevelBacktrace:
		return "BT"
	default:
		return "?"
	}
}
