// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lincheck

import "encoding/binary"

// bitset is the set of operations placed by the search.
// Bit i lives in word i/64.
type bitset []uint64

func newBitset(bits int) bitset {
	return make(bitset, (bits+63)/64)
}

func (b bitset) set(pos int) {
	b[pos/64] |= 1 << (pos % 64)
}

func (b bitset) clear(pos int) {
	b[pos/64] &^= 1 << (pos % 64)
}

func (b bitset) get(pos int) bool {
	return b[pos/64]&(1<<(pos%64)) != 0
}

// key encodes b as a string usable in a map key.
// Trailing zero words are dropped; two sets of the same length with equal
// members always have equal keys.
func (b bitset) key() string {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	buf := make([]byte, 0, n*8)
	for _, w := range b[:n] {
		buf = binary.LittleEndian.AppendUint64(buf, w)
	}
	return string(buf)
}
