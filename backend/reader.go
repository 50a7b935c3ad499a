// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package backend

import (
	"fmt"

	"code.hybscloud.com/quill/codec"
	"code.hybscloud.com/quill/queue"
	"code.hybscloud.com/quill/threadctx"
)

// recordReader drains complete records out of one Context's queue,
// transparently assembling a record's bytes across a ring wrap boundary
// when a single BeginRead call cannot return them contiguously (spec.md
// §4.1: "the returned slice may be shorter... call FinishRead and then
// BeginRead again to see the remainder"). Assembly never waits on the
// producer: Commit publishes a whole reservation with one release store,
// so once any byte of a record is visible to BeginRead the rest of that
// record's bytes are already resident in the backing too, merely
// possibly split across the wrap boundary.
type recordReader struct {
	q         threadctx.Queue
	buf       []byte // scratch accumulated for the record currently being read
	lastAlloc *queue.AllocEvent
}

func newRecordReader(q threadctx.Queue) *recordReader {
	return &recordReader{q: q, buf: make([]byte, 0, recordPrefixSize+64)}
}

// pullAtLeast grows rr.buf to n bytes if currently shorter, never
// consuming more than n bytes total from the queue. Returns false if it
// could not reach n (the queue had nothing further to offer right now);
// the caller must compare rr.buf's length before and after to tell a
// stall from partial progress.
func (rr *recordReader) pullAtLeast(n int) bool {
	for len(rr.buf) < n {
		chunk, readOK, a := rr.q.BeginRead()
		if a != nil {
			rr.lastAlloc = a
		}
		if !readOK {
			return false
		}
		take := n - len(rr.buf)
		if take > len(chunk) {
			take = len(chunk)
		}
		if take == 0 {
			return false
		}
		rr.buf = append(rr.buf, chunk[:take]...)
		rr.q.FinishRead(uint32(take))
	}
	return true
}

// decoded is one fully-read record: its header, the boxed word
// immediately following it (a *LoggerHandle or *FlushSignal depending on
// Header.Site.Kind), and — for EventLog records only — the decoded
// argument list.
type decoded struct {
	header   codec.Header
	boxed    []byte // the boxed word's bytes, recordPrefixSize-loggerPointerSize : recordPrefixSize
	args     []codec.Arg
	btPayload []byte // EventInitBacktrace only: capacity+flush_level, BacktraceCapacitySize bytes
}

// next reads and fully consumes exactly one record, or reports ok=false
// if the queue currently has no new record to offer. err is non-nil only
// once a record's prefix has already been committed to rr.buf and the
// remainder cannot be assembled — a genuine corruption, since the
// invariant above guarantees the rest of a started record is always
// immediately available.
func (rr *recordReader) next() (rec decoded, alloc *queue.AllocEvent, ok bool, err error) {
	rr.buf = rr.buf[:0]
	rr.lastAlloc = nil

	if !rr.pullAtLeast(recordPrefixSize) {
		return decoded{}, rr.lastAlloc, false, nil
	}

	hdr, herr := codec.DecodeHeader(rr.buf[:codec.HeaderSize])
	if herr != nil {
		return decoded{}, rr.lastAlloc, true, herr
	}
	rec.header = hdr
	rec.boxed = append([]byte(nil), rr.buf[codec.HeaderSize:recordPrefixSize]...)

	switch hdr.Site.Kind {
	case codec.EventLog:
		for {
			args, _, derr := codec.Decode(rr.buf[recordPrefixSize:], hdr.Decoder)
			if derr == nil {
				rec.args = args
				return rec, rr.lastAlloc, true, nil
			}
			// The header carries no payload length, so the payload is pulled
			// one byte at a time: the first length that decodes is the whole
			// payload, and no byte of the following record is consumed.
			if !rr.pullAtLeast(len(rr.buf) + 1) {
				return decoded{}, rr.lastAlloc, true, fmt.Errorf("backend: corrupt or truncated record: %w", derr)
			}
		}
	case codec.EventInitBacktrace:
		if !rr.pullAtLeast(recordPrefixSize + BacktraceCapacitySize) {
			return decoded{}, rr.lastAlloc, true, fmt.Errorf("backend: truncated InitBacktrace record")
		}
		rec.btPayload = append([]byte(nil), rr.buf[recordPrefixSize:recordPrefixSize+BacktraceCapacitySize]...)
		return rec, rr.lastAlloc, true, nil
	case codec.EventFlushBacktrace, codec.EventFlush:
		return rec, rr.lastAlloc, true, nil
	default:
		return decoded{}, rr.lastAlloc, true, fmt.Errorf("backend: unknown event kind %d", hdr.Site.Kind)
	}
}
