// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codec

import "sync/atomic"

// CallSite is the Go stand-in for quill's MacroMetadata: everything the
// backend needs about where a log statement lives in source, captured
// once per call site. Since Go has no compile-time macro layer, callers
// construct one CallSite literal per log statement (typically as a
// package-level var) and reuse it on every call, which is what makes it
// "static per call site" in spirit even though nothing enforces it at
// compile time (spec §3/§9).
type CallSite struct {
	File     string
	Line     int
	Function string
	Template string
	Tag      string
	Level    Level
	Kind     EventKind

	// token caches the decoder resolved for this call site's argument
	// shape on first use, so repeat calls skip the registry lookup
	// (spec §4.3's "decoder_ptr... monomorphized decoder for this
	// argument list", resolved once per distinct call site).
	token atomic.Pointer[DecoderEntry]
}

// resolve returns the cached Token for this call site if one argument
// shape has already been seen, or registers kinds and caches the result.
// Distinct call sites that happen to share an argument shape share the
// same *DecoderEntry, matching spec §4.3's "one function pointer per
// distinct argument-type tuple" (the tuple, not the call site, is the
// dedup key).
func (c *CallSite) resolve(kinds []Kind) Token {
	if t := c.token.Load(); t != nil {
		return t
	}
	t := registerShape(kinds)
	if !c.token.CompareAndSwap(nil, t) {
		return c.token.Load()
	}
	return t
}
