// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quill

import (
	"bytes"
	"testing"

	"code.hybscloud.com/quill/sink"
)

func TestCreateOrGetSinkReturnsSameInstance(t *testing.T) {
	calls := 0
	construct := func() *sink.Memory {
		calls++
		return sink.NewMemory(0)
	}

	first := CreateOrGetSink("test-sink-registry", construct)
	second := CreateOrGetSink("test-sink-registry", construct)

	if first != second {
		t.Fatalf("CreateOrGetSink returned distinct instances for the same name")
	}
	if calls != 1 {
		t.Fatalf("construct called %d times, want 1", calls)
	}
}

func TestCreateOrGetSinkDistinctNames(t *testing.T) {
	a := CreateOrGetSink("test-sink-registry-a", func() *sink.Memory { return sink.NewMemory(0) })
	b := CreateOrGetSink("test-sink-registry-b", func() *sink.Memory { return sink.NewMemory(0) })
	if a == b {
		t.Fatalf("CreateOrGetSink returned the same instance for distinct names")
	}
}

func TestGetSinkFindsRegisteredSink(t *testing.T) {
	var buf bytes.Buffer
	want := CreateOrGetSink("test-sink-registry-get", func() *sink.Writer { return sink.NewWriter(&buf) })

	got, ok := GetSink("test-sink-registry-get")
	if !ok || got != sink.Sink(want) {
		t.Fatalf("GetSink did not return the registered sink")
	}

	if _, ok := GetSink("test-sink-registry-missing"); ok {
		t.Fatalf("GetSink found a sink that was never registered")
	}
}
