// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// HeaderSize is the fixed-width prefix every record carries ahead of its
// argument payload: timestamp ticks, a boxed *CallSite, a boxed Token,
// and a dynamic level byte (spec.md §3's wire diagram). Logger identity
// is deliberately NOT part of the header — codec must not import quill,
// so the Logger pointer is carried by the caller's own record wrapper
// (the word after the header, see backend.RecordPrefixSize) rather than
// here.
const HeaderSize = 8 + 8 + 8 + 1

// Header is the Go realization of spec.md §3's record header: a
// timestamp plus enough identity to decode and format the payload that
// follows it in the queue.
type Header struct {
	TimestampTicks  uint64
	Site            *CallSite
	Decoder         Token
	DynamicLevel    Level
	HasDynamicLevel bool
}

// EncodeHeader writes h into buf[:HeaderSize]. Site and Decoder are
// boxed as raw pointer words, the Go analogue of the C++ original
// storing metadata_ptr/decoder_ptr inline (spec.md §3, §9): safe
// because the pointee (a package-level CallSite, a registry-owned
// DecoderEntry) outlives the queue slot by construction — both are
// rooted outside the queue for the lifetime of the process.
func EncodeHeader(buf []byte, h Header) {
	_ = buf[HeaderSize-1]
	binary.LittleEndian.PutUint64(buf[0:], h.TimestampTicks)
	binary.LittleEndian.PutUint64(buf[8:], uint64(uintptr(unsafe.Pointer(h.Site))))
	binary.LittleEndian.PutUint64(buf[16:], uint64(uintptr(unsafe.Pointer(h.Decoder))))
	if h.HasDynamicLevel {
		buf[24] = byte(h.DynamicLevel) | 0x80
	} else {
		buf[24] = 0
	}
}

// DecodeHeader reconstructs a Header from buf[:HeaderSize]. It is only
// ever called from the single backend goroutine that drains the same
// queue the header was written to, so the unsafe.Pointer round trip
// never outlives the producer that created the pointee.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("codec: truncated record header")
	}
	var h Header
	h.TimestampTicks = binary.LittleEndian.Uint64(buf[0:])
	h.Site = (*CallSite)(unsafe.Pointer(uintptr(binary.LittleEndian.Uint64(buf[8:]))))
	h.Decoder = (*DecoderEntry)(unsafe.Pointer(uintptr(binary.LittleEndian.Uint64(buf[16:]))))
	lvl := buf[24]
	if lvl&0x80 != 0 {
		h.HasDynamicLevel = true
		h.DynamicLevel = Level(lvl &^ 0x80)
	}
	return h, nil
}
