// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtlite

import (
	"strings"
	"testing"
)

func TestPatternDefaultRender(t *testing.T) {
	p := CompilePattern(DefaultPattern)
	got := p.Render(Fields{
		Time:                "12:00:00.000000000",
		ThreadID:            "7",
		ShortSourceLocation: "main.go:10",
		LogLevel:            "INFO",
		Logger:              "app",
		Message:             "hello",
	})
	want := "12:00:00.000000000 [7] main.go:10" + strings.Repeat(" ", 28-len("main.go:10")) +
		" LOG_INFO" + strings.Repeat(" ", 9-len("INFO")) +
		" app" + strings.Repeat(" ", 12-len("app")) +
		" hello"
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestPatternFieldWidthLeftJustify(t *testing.T) {
	p := CompilePattern("%(logger:<6)|")
	got := p.Render(Fields{Logger: "ab"})
	if got != "ab    |" {
		t.Fatalf("Render() = %q", got)
	}
}

func TestPatternFieldWidthRightJustify(t *testing.T) {
	p := CompilePattern("%(logger:>6)|")
	got := p.Render(Fields{Logger: "ab"})
	if got != "    ab|" {
		t.Fatalf("Render() = %q", got)
	}
}

func TestPatternValueWiderThanFieldNotTruncated(t *testing.T) {
	p := CompilePattern("%(logger:<3)|")
	got := p.Render(Fields{Logger: "abcdef"})
	if got != "abcdef|" {
		t.Fatalf("Render() = %q, want value left untruncated when it exceeds width", got)
	}
}

func TestPatternUnknownFieldRendersEmpty(t *testing.T) {
	p := CompilePattern("[%(nonexistent)]")
	got := p.Render(Fields{})
	if got != "[]" {
		t.Fatalf("Render() = %q, want %q", got, "[]")
	}
}
