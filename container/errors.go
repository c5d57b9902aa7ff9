// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package container

import "code.hybscloud.com/iox"

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For insertions: the container is full.
// For removals: the container is empty.
//
// ErrWouldBlock is a control flow signal, not a failure. A try operation
// that gets it reports false and had no effect.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// Try converts the error of a container operation into the outcome of a
// try operation. A nil error is success, a would-block error is a failed
// try, and anything else is returned unchanged.
func Try(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case IsWouldBlock(err):
		return false, nil
	}
	return false, err
}
