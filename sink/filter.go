// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sink

import "code.hybscloud.com/quill/codec"

// Filter is a named predicate a Sink consults for every candidate record
// (spec.md §4.6 step 3, §3's Filter definition): a sink writes a record
// only if every registered Filter accepts it.
type Filter interface {
	Name() string
	Accept(site *codec.CallSite, tsNanos uint64, threadID, threadName, loggerName string, level codec.Level, formatted string) bool
}
