// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quill

import "code.hybscloud.com/quill/codec"

// Level is a log severity, re-exported from codec so callers never need
// to import that package directly. codec itself must not import quill
// (CallSite needs Level, and quill imports codec), so the type lives
// there and is aliased here.
type Level = codec.Level

const (
	LevelTraceL3   = codec.LevelTraceL3
	LevelTraceL2   = codec.LevelTraceL2
	LevelTraceL1   = codec.LevelTraceL1
	LevelDebug     = codec.LevelDebug
	LevelInfo      = codec.LevelInfo
	LevelNotice    = codec.LevelNotice
	LevelWarning   = codec.LevelWarning
	LevelError     = codec.LevelError
	LevelCritical  = codec.LevelCritical
	LevelBacktrace = codec.LevelBacktrace
	// LevelDynamic marks a call site whose effective level is supplied
	// per call rather than fixed in the CallSite literal; pass the
	// wanted level as Log's dynamicLevel argument.
	LevelDynamic = codec.LevelDynamic
	// LevelNone disables a logger, or (as a backtrace_flush_level)
	// disables the automatic backtrace replay trigger.
	LevelNone = codec.LevelNone
)
