// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package clock

// User wraps a caller-supplied timestamp function — for replaying
// historical logs or driving deterministic tests, where the record's
// timestamp is not "now" by any wall or tick measure (spec.md §9's
// user-clock special case: these records bypass the backend's strict-mode
// ts_now ceiling entirely, since a caller-stamped timestamp may
// legitimately be historical or future-dated).
type User struct {
	fn func() uint64
}

// NewUser wraps fn as a Source. Passing a nil fn is a caller bug — NewUser
// panics rather than silently returning zero timestamps forever.
func NewUser(fn func() uint64) *User {
	if fn == nil {
		panic("clock: NewUser requires a non-nil function")
	}
	return &User{fn: fn}
}

// NowNanos implements Source by calling the wrapped function.
func (u *User) NowNanos() uint64 { return u.fn() }
