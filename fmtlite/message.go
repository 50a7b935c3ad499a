// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtlite

import (
	"strings"
	"sync"

	"code.hybscloud.com/quill/codec"
	"code.hybscloud.com/quill/sink"
)

// placeholder is one substitution point in a message Template: name is
// empty for a positional {} placeholder, set for a named {key}.
type placeholder struct {
	name string
}

// Template is a parsed message format template, cached by its raw string
// so a call site's template is only ever parsed once (spec.md §4.5: "the
// backend parses and caches (once per template) the stripped format and
// the key list").
type Template struct {
	literals     []string // len(literals) == len(placeholders)+1
	placeholders []placeholder
	named        bool
}

var (
	templateCacheMu sync.Mutex
	templateCache   = map[string]*Template{}
)

// Compile returns the cached Template for raw, parsing it on first use.
func Compile(raw string) *Template {
	templateCacheMu.Lock()
	if t, ok := templateCache[raw]; ok {
		templateCacheMu.Unlock()
		return t
	}
	templateCacheMu.Unlock()

	t := parseTemplate(raw)

	templateCacheMu.Lock()
	defer templateCacheMu.Unlock()
	if existing, ok := templateCache[raw]; ok {
		return existing
	}
	templateCache[raw] = t
	return t
}

func parseTemplate(raw string) *Template {
	t := &Template{}
	var lit strings.Builder
	i := 0
	for i < len(raw) {
		if raw[i] == '{' {
			if j := strings.IndexByte(raw[i:], '}'); j >= 0 {
				name := raw[i+1 : i+j]
				t.literals = append(t.literals, lit.String())
				lit.Reset()
				t.placeholders = append(t.placeholders, placeholder{name: name})
				if name != "" {
					t.named = true
				}
				i += j + 1
				continue
			}
		}
		lit.WriteByte(raw[i])
		i++
	}
	t.literals = append(t.literals, lit.String())
	return t
}

// HasPlaceholders reports whether raw contains at least one {} or
// {name} placeholder, the gate the frontend uses before bothering to
// call Compile at all.
func HasPlaceholders(raw string) bool {
	return strings.ContainsRune(raw, '{')
}

// Format substitutes one arg per placeholder, in call order, via
// FormatArg, and — only when the template has at least one named
// placeholder — returns the key/value pairs a sink can consume as
// structured fields (spec.md §4.5's "sinks that accept structured args
// receive [(key, value), …]").
func (t *Template) Format(args []codec.Arg) (message string, structured []sink.KV) {
	var b strings.Builder
	b.WriteString(t.literals[0])
	if t.named {
		structured = make([]sink.KV, 0, len(t.placeholders))
	}
	for i, ph := range t.placeholders {
		val := ""
		if i < len(args) {
			val = FormatArg(args[i])
		}
		b.WriteString(val)
		if i+1 < len(t.literals) {
			b.WriteString(t.literals[i+1])
		}
		if ph.name != "" {
			structured = append(structured, sink.KV{Key: ph.name, Value: val})
		}
	}
	return b.String(), structured
}
