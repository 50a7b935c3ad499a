// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quill

import (
	"sync"
	"time"

	"code.hybscloud.com/quill/queue"
)

// Config is the process-wide frontend configuration of spec.md §6's
// frontend option table: every ThreadContext this process ever creates
// is built from the same Config, since Go has no per-translation-unit
// compile-time customization point the way the original's header-only
// frontend does (a deliberate, documented substitution — set it once,
// via Init, before the first Log call on any goroutine).
type Config struct {
	// QueueType selects the producer queue algorithm and overflow
	// policy (queue.BoundedBlocking, queue.UnboundedDropping, etc.).
	QueueType queue.Policy

	// InitialQueueCapacity is the first segment's size in bytes,
	// rounded up to a power of two.
	InitialQueueCapacity int

	// BlockingQueueRetryInterval is how long Log sleeps between
	// reservation retries under a Blocking policy (spec.md §4.4 step 5).
	BlockingQueueRetryInterval time.Duration

	// UnboundedQueueMaxCapacity caps how large any one segment of an
	// Unbounded queue may grow under Blocking/Dropping policies; 0
	// under UnboundedUnlimited means only the 2 GiB per-segment ceiling
	// applies.
	UnboundedQueueMaxCapacity int

	// HugePagesPolicy controls whether a Bounded queue's backing
	// requests transparent huge pages.
	HugePagesPolicy queue.HugePagesPolicy

	// TransitBufferInitialCapacity sizes each ThreadContext's decoded-
	// record buffer, which the backend fills in on first drain.
	TransitBufferInitialCapacity int
}

// withDefaults fills zero-valued fields, mirroring backend.Options'
// pattern for its own defaults.
func (c Config) withDefaults() Config {
	if c.InitialQueueCapacity <= 0 {
		c.InitialQueueCapacity = 64 * 1024
	}
	if c.BlockingQueueRetryInterval <= 0 {
		c.BlockingQueueRetryInterval = 50 * time.Microsecond
	}
	if c.TransitBufferInitialCapacity <= 0 {
		c.TransitBufferInitialCapacity = 64
	}
	return c
}

var (
	configMu sync.Mutex
	config   = Config{}.withDefaults()
)

// Init sets the process-wide frontend Config. Call it once, before the
// first Log call on any goroutine and before StartBackend; calling it
// again afterwards only affects ThreadContexts created from that point
// on, which is almost certainly not what a caller wants (SPEC_FULL.md §1
// and its Non-goals list exclude dynamic queue-policy reconfiguration
// after the first log call).
func Init(cfg Config) {
	configMu.Lock()
	defer configMu.Unlock()
	config = cfg.withDefaults()
}

func currentConfig() Config {
	configMu.Lock()
	defer configMu.Unlock()
	return config
}
