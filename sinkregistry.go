// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quill

import "code.hybscloud.com/quill/sink"

// sinkRegistry is the process-wide name-keyed sink collection backing
// CreateOrGetSink, mirroring loggers' own name→*Logger map (spec.md §3/§6:
// "sinks, like loggers, are created by name via the frontend"). StartBackend
// sweeps it once per idle pass so a sink no logger references anymore is
// dropped without any explicit removal call.
var sinkRegistry = sink.NewRegistry()

// CreateOrGetSink returns the sink registered under name, constructing it
// via construct on first call (spec.md §6's create_or_get_sink<T>(name,
// args…)). A later call with the same name returns the existing sink
// unchanged, construct is not called again, and T must be a pointer type
// implementing sink.Sink so its identity can be tracked by the registry's
// weak reference (sink.ComparableSink).
func CreateOrGetSink[T sink.ComparableSink](name string, construct func() T) T {
	return sink.CreateOrGet(sinkRegistry, name, construct)
}

// GetSink returns the sink registered under name, if one is both
// registered and still alive.
func GetSink(name string) (sink.Sink, bool) {
	return sinkRegistry.Get(name)
}
