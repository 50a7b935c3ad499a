// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtlite

import (
	"testing"

	"code.hybscloud.com/quill/codec"
)

func TestTemplatePositional(t *testing.T) {
	tmpl := Compile("user {} logged in from {}")
	msg, structured := tmpl.Format([]codec.Arg{
		{Kind: codec.KindString, S: "alice"},
		{Kind: codec.KindString, S: "10.0.0.1"},
	})
	if msg != "user alice logged in from 10.0.0.1" {
		t.Fatalf("Format() = %q", msg)
	}
	if structured != nil {
		t.Fatalf("structured = %+v, want nil for a positional-only template", structured)
	}
}

func TestTemplateNamedPlaceholders(t *testing.T) {
	tmpl := Compile("user {user} logged in from {ip}")
	msg, structured := tmpl.Format([]codec.Arg{
		{Kind: codec.KindString, S: "alice"},
		{Kind: codec.KindString, S: "10.0.0.1"},
	})
	if msg != "user alice logged in from 10.0.0.1" {
		t.Fatalf("Format() = %q", msg)
	}
	want := []struct{ Key, Value string }{{"user", "alice"}, {"ip", "10.0.0.1"}}
	if len(structured) != len(want) {
		t.Fatalf("len(structured) = %d, want %d", len(structured), len(want))
	}
	for i, kv := range structured {
		if kv.Key != want[i].Key || kv.Value != want[i].Value {
			t.Fatalf("structured[%d] = %+v, want %+v", i, kv, want[i])
		}
	}
}

func TestCompileCachesByRawString(t *testing.T) {
	a := Compile("x={} y={}")
	b := Compile("x={} y={}")
	if a != b {
		t.Fatalf("Compile returned distinct *Template for the same raw string")
	}
}

func TestHasPlaceholders(t *testing.T) {
	cases := map[string]bool{
		"no placeholders here": false,
		"has {one}":            true,
		"has {}":               true,
	}
	for raw, want := range cases {
		if got := HasPlaceholders(raw); got != want {
			t.Fatalf("HasPlaceholders(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestTemplateFewerArgsThanPlaceholders(t *testing.T) {
	tmpl := Compile("a={} b={} c={}")
	msg, _ := tmpl.Format([]codec.Arg{{Kind: codec.KindInt64, I: 1}})
	if msg != "a=1 b= c=" {
		t.Fatalf("Format() = %q", msg)
	}
}
