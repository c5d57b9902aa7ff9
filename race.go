// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package lincheck

// RaceEnabled is true when the race detector is active.
// Used by tests to skip concurrent recording and stress runs: slots are
// published through atomix acquire-release stores, which the detector
// does not recognize as synchronization.
const RaceEnabled = true
