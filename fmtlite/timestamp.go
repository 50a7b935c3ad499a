// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtlite

import (
	"strconv"
	"time"
)

// Timezone selects how FormatTimestamp interprets a timestamp, mirroring
// original_source PatternFormatterOptions.h's Timezone enum.
type Timezone int

const (
	LocalTime Timezone = iota
	GMTime
)

// DefaultTimestampPattern is the original's default timestamp_pattern.
const DefaultTimestampPattern = "%H:%M:%S.%Qns"

// FormatTimestamp renders tsNanos per pattern in tz. Supports the
// strftime subset original_source documents (%Y %m %d %H %M %S) plus its
// fractional-second extensions (%Qms/%Qus/%Qns); any other verb passes
// through unexpanded rather than erroring, since an unsupported verb in
// a user-supplied pattern is a cosmetic gap, not a correctness one.
func FormatTimestamp(tsNanos uint64, pattern string, tz Timezone) string {
	t := time.Unix(0, int64(tsNanos))
	if tz == GMTime {
		t = t.UTC()
	} else {
		t = t.Local()
	}

	out := make([]byte, 0, len(pattern)+8)
	i := 0
	for i < len(pattern) {
		if pattern[i] != '%' || i+1 >= len(pattern) {
			out = append(out, pattern[i])
			i++
			continue
		}
		n := 2
		if pattern[i+1] == 'Q' && i+3 < len(pattern) {
			n = 4
		}
		out = append(out, expandVerb(t, pattern[i:i+n])...)
		i += n
	}
	return string(out)
}

func expandVerb(t time.Time, verb string) string {
	switch verb {
	case "%Y":
		return strconv.Itoa(t.Year())
	case "%m":
		return padN(int(t.Month()), 2)
	case "%d":
		return padN(t.Day(), 2)
	case "%H":
		return padN(t.Hour(), 2)
	case "%M":
		return padN(t.Minute(), 2)
	case "%S":
		return padN(t.Second(), 2)
	case "%Qms":
		return padN(t.Nanosecond()/1e6, 3)
	case "%Qus":
		return padN(t.Nanosecond()/1e3, 6)
	case "%Qns":
		return padN(t.Nanosecond(), 9)
	default:
		return verb
	}
}

func padN(v, n int) string {
	s := strconv.Itoa(v)
	for len(s) < n {
		s = "0" + s
	}
	return s
}
