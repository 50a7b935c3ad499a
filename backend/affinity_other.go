// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package backend

// defaultAffinity is a no-op off Linux: CPU pinning is a best-effort
// Linux-only collaborator (spec.md's Non-goals on platform affinity).
type defaultAffinity struct{}

func (defaultAffinity) Pin(int) error { return nil }
