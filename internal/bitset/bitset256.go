// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package bitset implements the fixed size 256 bit bitmap used
// by the leaf levels of the sparse bit set.
//
// Studied [github.com/bits-and-blooms/bitset] inside out
// and rewrote needed parts from scratch for this project.
//
// Bits are addressed by uint8, so every bit argument is in range by construction.
package bitset

import (
	"fmt"
	"math/bits"
)

// just as an explanation of the expressions,
//
//   i>>6 or i<<6 and i&63
//
// i>>6 is the word index, i&63 is the bit index in that word,
// not factored out as functions to keep most of the methods inlineable.

// BitSet256 represents a fixed size bitset from [0..255]
type BitSet256 [4]uint64

func (b *BitSet256) String() string {
	return fmt.Sprint(b.All())
}

// Set sets the bit.
func (b *BitSet256) Set(bit uint8) {
	b[bit>>6] |= 1 << (bit & 63)
}

// Clear clears the bit.
func (b *BitSet256) Clear(bit uint8) {
	b[bit>>6] &^= 1 << (bit & 63)
}

// Flip toggles the bit.
func (b *BitSet256) Flip(bit uint8) {
	b[bit>>6] ^= 1 << (bit & 63)
}

// Test if the bit is set.
func (b *BitSet256) Test(bit uint8) bool {
	return b[bit>>6]&(1<<(bit&63)) != 0
}

// rangeMask returns the mask of the bits in word wIdx covered by [from, to].
// The caller guarantees that wIdx is within the word span of the range.
func rangeMask(wIdx int, from, to uint8) uint64 {
	lo, hi := uint(0), uint(63)
	if wIdx == int(from>>6) {
		lo = uint(from & 63)
	}
	if wIdx == int(to>>6) {
		hi = uint(to & 63)
	}
	return (^uint64(0) << lo) & (^uint64(0) >> (63 - hi))
}

// SetRange sets all bits in [from, to], both inclusive.
// It panics if from > to.
func (b *BitSet256) SetRange(from, to uint8) {
	mustOrdered(from, to)
	for wIdx := int(from >> 6); wIdx <= int(to>>6); wIdx++ {
		b[wIdx&3] |= rangeMask(wIdx, from, to)
	}
}

// ClearRange clears all bits in [from, to], both inclusive.
// It panics if from > to.
func (b *BitSet256) ClearRange(from, to uint8) {
	mustOrdered(from, to)
	for wIdx := int(from >> 6); wIdx <= int(to>>6); wIdx++ {
		b[wIdx&3] &^= rangeMask(wIdx, from, to)
	}
}

// FlipRange toggles all bits in [from, to], both inclusive.
// It panics if from > to.
func (b *BitSet256) FlipRange(from, to uint8) {
	mustOrdered(from, to)
	for wIdx := int(from >> 6); wIdx <= int(to>>6); wIdx++ {
		b[wIdx&3] ^= rangeMask(wIdx, from, to)
	}
}

func mustOrdered(from, to uint8) {
	if from > to {
		panic(fmt.Sprintf("bitset: inverted range [%d, %d]", from, to))
	}
}

// Fill sets all 256 bits.
func (b *BitSet256) Fill() {
	b[0], b[1], b[2], b[3] = ^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)
}

// Reset clears all 256 bits.
func (b *BitSet256) Reset() {
	*b = BitSet256{}
}

// Invert toggles all 256 bits.
func (b *BitSet256) Invert() {
	b[0], b[1], b[2], b[3] = ^b[0], ^b[1], ^b[2], ^b[3]
}

// AsSlice returns all set bits as slice of uint8 without
// heap allocations.
//
// This is faster than All, but also more dangerous,
// it panics if the capacity of buf is < b.Size()
func (b *BitSet256) AsSlice(buf []uint8) []uint8 {
	buf = buf[:cap(buf)] // use cap as max len

	size := 0
	for wIdx, word := range b {
		for ; word != 0; size++ {
			// panics if capacity of buf is exceeded.
			buf[size] = uint8(wIdx<<6 + bits.TrailingZeros64(word))

			// clear the rightmost set bit
			word &= word - 1
		}
	}

	return buf[:size]
}

// All returns all set bits. This has a simpler API but is slower than AsSlice.
func (b *BitSet256) All() []uint8 {
	return b.AsSlice(make([]uint8, 0, 256))
}

// Size is the number of set bits (popcount).
func (b *BitSet256) Size() (cnt int) {
	cnt += bits.OnesCount64(b[0])
	cnt += bits.OnesCount64(b[1])
	cnt += bits.OnesCount64(b[2])
	cnt += bits.OnesCount64(b[3])
	return
}
