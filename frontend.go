// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quill

import "code.hybscloud.com/quill/backend"

// StartBackend builds and launches the single process-wide backend
// worker draining every ThreadContext any goroutine has acquired (spec.md
// §5: "exactly one consumer thread... exists per process"). Callers that
// configured a Logger with TscClock should pass the same *clock.TSC as
// opts.Clock so the backend's strict-ordering ceiling sampling and the
// producer's raw-tick sampling share one calibration. opts.SinkRegistry
// defaults to the process-wide registry CreateOrGetSink uses, so sinks
// created that way are swept once no logger references them; pass a
// different registry (or leave CreateOrGetSink unused) if that default is
// unwanted.
func StartBackend(opts backend.Options) *backend.Worker {
	if opts.SinkRegistry == nil {
		opts.SinkRegistry = sinkRegistry
	}
	w := backend.NewWorker(contextRegistry, opts)
	w.Start()
	return w
}
