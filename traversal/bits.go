package traversal

import "math/bits"

// bitset is a fixed-size path table indexed by node or edge number.
// Each recursion level owns its copy; copies are O(n/64).
type bitset []uint64

func newBitset(n int) bitset { return make(bitset, (n+63)/64) }

func (b bitset) has(i int) bool { return b[i>>6]&(1<<(uint(i)&63)) != 0 }

func (b bitset) set(i int) { b[i>>6] |= 1 << (uint(i) & 63) }

func (b bitset) clone() bitset { return append(bitset(nil), b...) }

// each calls fn for every set index in ascending order.
func (b bitset) each(fn func(i int)) {
	for w, word := range b {
		for word != 0 {
			t := bits.TrailingZeros64(word)
			fn(w<<6 + t)
			word &= word - 1
		}
	}
}
