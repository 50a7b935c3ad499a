// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package queue

// newPlatformBacking has no double-mapped implementation outside Linux;
// newBacking falls back to copyBacking.
func newPlatformBacking(capacity uint64, huge HugePagesPolicy) backing {
	return nil
}
