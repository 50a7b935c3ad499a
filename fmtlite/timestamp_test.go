// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtlite

import (
	"testing"
	"time"
)

func TestFormatTimestampDefaultPattern(t *testing.T) {
	ts := time.Date(2026, 7, 31, 13, 45, 6, 123456789, time.UTC)
	got := FormatTimestamp(uint64(ts.UnixNano()), DefaultTimestampPattern, GMTime)
	want := "13:45:06.123456789"
	if got != want {
		t.Fatalf("FormatTimestamp() = %q, want %q", got, want)
	}
}

func TestFormatTimestampDateComponents(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	got := FormatTimestamp(uint64(ts.UnixNano()), "%Y-%m-%d", GMTime)
	want := "2026-01-02"
	if got != want {
		t.Fatalf("FormatTimestamp() = %q, want %q", got, want)
	}
}

func TestFormatTimestampMillisAndMicros(t *testing.T) {
	ts := time.Date(2026, 1, 1, 0, 0, 0, 123456789, time.UTC)
	if got := FormatTimestamp(uint64(ts.UnixNano()), "%Qms", GMTime); got != "123" {
		t.Fatalf("%%Qms = %q, want %q", got, "123")
	}
	if got := FormatTimestamp(uint64(ts.UnixNano()), "%Qus", GMTime); got != "123456" {
		t.Fatalf("%%Qus = %q, want %q", got, "123456")
	}
}

func TestFormatTimestampUnknownVerbPassesThrough(t *testing.T) {
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	got := FormatTimestamp(uint64(ts.UnixNano()), "%Z", GMTime)
	if got != "%Z" {
		t.Fatalf("FormatTimestamp() = %q, want unexpanded %%Z", got)
	}
}
