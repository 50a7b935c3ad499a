// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quill

import (
	"testing"
	"time"

	"code.hybscloud.com/quill/internal/clock"
)

func TestUserClockSampleCallsWrappedFunc(t *testing.T) {
	cs := UserClock(func() uint64 { return 1234 })
	if got := cs.sample(); got != 1234 {
		t.Fatalf("sample() = %d, want %d", got, 1234)
	}
	if cs.kind != clockKindUser {
		t.Fatalf("kind = %v, want clockKindUser", cs.kind)
	}
}

func TestTscClockSampleReadsRawTicks(t *testing.T) {
	var ticks uint64 = 100
	tsc := clock.NewTSC(func() uint64 { return ticks }, nil, 1, time.Hour)
	cs := TscClock(tsc)

	ticks = 555
	if got := cs.sample(); got != 555 {
		t.Fatalf("sample() = %d, want the raw uncalibrated tick count %d", got, 555)
	}
	if cs.kind != clockKindTSC {
		t.Fatalf("kind = %v, want clockKindTSC", cs.kind)
	}
}

func TestSystemClockSampleIsMonotonicNondecreasing(t *testing.T) {
	cs := SystemClock(time.Millisecond)
	if cs.kind != clockKindSystem {
		t.Fatalf("kind = %v, want clockKindSystem", cs.kind)
	}
	first := cs.sample()
	time.Sleep(5 * time.Millisecond)
	second := cs.sample()
	if second < first {
		t.Fatalf("sample() went backwards: first=%d second=%d", first, second)
	}
}
