// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtlite

import (
	"strconv"
	"strings"
)

// DefaultPattern is the original's default format_pattern
// (original_source/include/quill/core/PatternFormatterOptions.h).
const DefaultPattern = "%(time) [%(thread_id)] %(short_source_location:<28) LOG_%(log_level:<9) %(logger:<12) %(message)"

// Fields carries every named value a compiled Pattern can place into a
// rendered line; callers (quill.Logger's Format closure) populate
// whichever fields their call site and options make available.
type Fields struct {
	Time                string
	FileName            string
	FullPath            string
	CallerFunction      string
	LogLevel            string
	LogLevelShortCode   string
	LineNumber          string
	Logger              string
	Message             string
	ThreadID            string
	ThreadName          string
	ProcessID           string
	SourceLocation      string
	ShortSourceLocation string
	Tags                string
	NamedArgs           string
}

type patternField struct {
	name  string
	width int
	left  bool
	pad   bool
}

// Pattern is a parsed, cached `%(name[:spec])` metadata pattern.
type Pattern struct {
	literals []string
	fields   []patternField
}

// CompilePattern parses raw into a Pattern. Unlike message Templates,
// patterns are configured once per logger at construction time rather
// than looked up per call site, so CompilePattern does not cache.
func CompilePattern(raw string) *Pattern {
	p := &Pattern{}
	var lit strings.Builder
	i := 0
	for i < len(raw) {
		if raw[i] == '%' && i+1 < len(raw) && raw[i+1] == '(' {
			if j := strings.IndexByte(raw[i:], ')'); j >= 0 {
				inner := raw[i+2 : i+j]
				p.literals = append(p.literals, lit.String())
				lit.Reset()
				p.fields = append(p.fields, parsePatternField(inner))
				i += j + 1
				continue
			}
		}
		lit.WriteByte(raw[i])
		i++
	}
	p.literals = append(p.literals, lit.String())
	return p
}

// parsePatternField splits "name" or "name:<28"/"name:>9" into a field
// selector plus an optional fmt-style left/right-justify width.
func parsePatternField(inner string) patternField {
	name, spec, hasSpec := strings.Cut(inner, ":")
	f := patternField{name: name}
	if !hasSpec || spec == "" {
		return f
	}
	left := false
	switch spec[0] {
	case '<':
		left = true
		spec = spec[1:]
	case '>':
		spec = spec[1:]
	}
	if w, err := strconv.Atoi(spec); err == nil {
		f.width, f.left, f.pad = w, left, true
	}
	return f
}

// Render expands p against fields.
func (p *Pattern) Render(fields Fields) string {
	var b strings.Builder
	b.WriteString(p.literals[0])
	for i, f := range p.fields {
		val := fieldValue(f.name, fields)
		if f.pad && len(val) < f.width {
			padding := strings.Repeat(" ", f.width-len(val))
			if f.left {
				val += padding
			} else {
				val = padding + val
			}
		}
		b.WriteString(val)
		if i+1 < len(p.literals) {
			b.WriteString(p.literals[i+1])
		}
	}
	return b.String()
}

func fieldValue(name string, f Fields) string {
	switch name {
	case "time":
		return f.Time
	case "file_name":
		return f.FileName
	case "full_path":
		return f.FullPath
	case "caller_function":
		return f.CallerFunction
	case "log_level":
		return f.LogLevel
	case "log_level_short_code":
		return f.LogLevelShortCode
	case "line_number":
		return f.LineNumber
	case "logger":
		return f.Logger
	case "message":
		return f.Message
	case "thread_id":
		return f.ThreadID
	case "thread_name":
		return f.ThreadName
	case "process_id":
		return f.ProcessID
	case "source_location":
		return f.SourceLocation
	case "short_source_location":
		return f.ShortSourceLocation
	case "tags":
		return f.Tags
	case "named_args":
		return f.NamedArgs
	default:
		return ""
	}
}
