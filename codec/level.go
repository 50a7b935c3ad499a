// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codec

// Level is a log severity. Declared here (rather than in the root quill
// package) because [CallSite] needs it and codec must not import quill.
type Level uint8

const (
	LevelTraceL3 Level = iota
	LevelTraceL2
	LevelTraceL1
	LevelDebug
	LevelInfo
	LevelNotice
	LevelWarning
	LevelError
	LevelCritical
	LevelBacktrace
	// LevelDynamic marks a call site whose effective level is supplied
	// per-call rather than fixed at compile time (spec §3: "present only
	// when metadata.level == Dynamic").
	LevelDynamic
	// LevelNone disables a logger entirely.
	LevelNone
)

func (l Level) String() string {
	switch l {
	case LevelTraceL3:
		return "TraceL3"
	case LevelTraceL2:
		return "TraceL2"
	case LevelTraceL1:
		return "TraceL1"
	case LevelDebug:
		return "Debug"
	case LevelInfo:
		return "Info"
	case LevelNotice:
		return "Notice"
	case LevelWarning:
		return "Warning"
	case LevelError:
		return "Error"
	case LevelCritical:
		return "Critical"
	case LevelBacktrace:
		return "Backtrace"
	case LevelDynamic:
		return "Dynamic"
	case LevelNone:
		return "None"
	default:
		return "Unknown"
	}
}

// EventKind discriminates the four record kinds a producer may enqueue,
// mirroring MacroMetadata's event-kind enum (spec §3).
type EventKind uint8

const (
	EventLog EventKind = iota
	EventInitBacktrace
	EventFlushBacktrace
	EventFlush
)
