// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quill

import (
	"sync"

	"code.hybscloud.com/quill/backend"
	"code.hybscloud.com/quill/fmtlite"
	"code.hybscloud.com/quill/sink"
)

var (
	loggersMu sync.Mutex
	loggers   = map[string]*Logger{}
)

// CreateOrGetLogger returns the Logger registered under name, creating
// it with sinks and opts on first call (spec.md §3: "Logger is created
// by name via the frontend"). A later call with the same name returns
// the existing Logger unchanged; sinks and opts are only consulted on
// creation.
func CreateOrGetLogger(name string, sinks []sink.Sink, opts ...LoggerOption) *Logger {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[name]; ok {
		return l
	}

	cfg := defaultLoggerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	l := &Logger{
		name:             name,
		clock:            cfg.clock,
		pattern:          fmtlite.CompilePattern(cfg.pattern),
		timestampPattern: cfg.timestampPattern,
		timezone:         cfg.timezone,
	}
	l.handle = backend.NewLoggerHandle(name, sinks, cfg.clock.kind == clockKindTSC, cfg.clock.kind == clockKindUser, cfg.level, l.format)
	loggers[name] = l
	return l
}

// GetLogger returns the Logger registered under name, if any.
func GetLogger(name string) (*Logger, bool) {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	l, ok := loggers[name]
	return l, ok
}

// RemoveLogger marks l invalid and drops it from the name registry
// immediately; the backend keeps dispatching to l.handle (which
// producers may still hold a reference to) until every producer queue
// that might reference it is empty, per spec.md §3's "removal is
// asynchronous".
func RemoveLogger(l *Logger) {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	if loggers[l.name] == l {
		delete(loggers, l.name)
	}
	l.handle.SetValid(false)
}
