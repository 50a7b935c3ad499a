// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quill

import (
	"time"

	"code.hybscloud.com/quill/fmtlite"
)

// LoggerOption configures a Logger at CreateOrGetLogger time, following
// the same functional-option idiom queue.BoundedOption uses rather than
// the teacher's fluent Builder (queue.WithHugePages is the closer
// precedent here: Logger construction is a one-shot call, not a staged
// pipeline the way the teacher's queue-algorithm selection is).
type LoggerOption func(*loggerConfig)

type loggerConfig struct {
	level            Level
	clock            ClockSource
	pattern          string
	timestampPattern string
	timezone         fmtlite.Timezone
}

func defaultLoggerConfig() loggerConfig {
	return loggerConfig{
		level:            LevelInfo,
		clock:            SystemClock(time.Millisecond),
		pattern:          fmtlite.DefaultPattern,
		timestampPattern: fmtlite.DefaultTimestampPattern,
		timezone:         fmtlite.LocalTime,
	}
}

// WithLevel sets the logger's initial atomic level (default LevelInfo).
func WithLevel(level Level) LoggerOption {
	return func(c *loggerConfig) { c.level = level }
}

// WithClockSource selects the logger's timestamp source (default
// SystemClock(time.Millisecond)).
func WithClockSource(cs ClockSource) LoggerOption {
	return func(c *loggerConfig) { c.clock = cs }
}

// WithPattern sets the logger's metadata format pattern (default
// fmtlite.DefaultPattern).
func WithPattern(pattern string) LoggerOption {
	return func(c *loggerConfig) { c.pattern = pattern }
}

// WithTimestampFormat sets the logger's timestamp sub-pattern and
// timezone (default fmtlite.DefaultTimestampPattern, fmtlite.LocalTime).
func WithTimestampFormat(pattern string, tz fmtlite.Timezone) LoggerOption {
	return func(c *loggerConfig) {
		c.timestampPattern = pattern
		c.timezone = tz
	}
}
