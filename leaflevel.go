// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparsebit

import (
	"github.com/gaissmai/sparsebit/internal/bitset"
)

// leafLevel is the last level of the tree, one bit per segment(0).
type leafLevel struct {
	bits bitset.BitSet256

	// occupancy is the popcount of bits, tracked incrementally for
	// single bit ops and recounted after range ops.
	occupancy int

	maximumOccupancy int
}

func newLeafLevel(maximumOccupancy int) *leafLevel {
	return &leafLevel{maximumOccupancy: maximumOccupancy}
}

func (l *leafLevel) isEmpty() bool {
	return l.occupancy == 0
}

func (l *leafLevel) isFull() bool {
	return l.occupancy >= l.maximumOccupancy
}

func (l *leafLevel) get(idx Index) bool {
	return l.bits.Test(idx.Segment(0))
}

func (l *leafLevel) set(idx Index) bool {
	bit := idx.Segment(0)
	if l.bits.Test(bit) {
		return false
	}

	l.bits.Set(bit)
	l.occupancy++
	return true
}

func (l *leafLevel) clear(idx Index) bool {
	bit := idx.Segment(0)
	if !l.bits.Test(bit) {
		return false
	}

	l.bits.Clear(bit)
	l.occupancy--
	return true
}

func (l *leafLevel) flip(idx Index) {
	bit := idx.Segment(0)
	if l.bits.Test(bit) {
		l.occupancy--
	} else {
		l.occupancy++
	}
	l.bits.Flip(bit)
}

// The range ops recount the occupancy, a popcount over
// four words is cheaper than tracking the changed bits.

func (l *leafLevel) setRange(from, to Index) {
	l.bits.SetRange(from.Segment(0), to.Segment(0))
	l.occupancy = l.bits.Size()
}

func (l *leafLevel) clearRange(from, to Index) {
	l.bits.ClearRange(from.Segment(0), to.Segment(0))
	l.occupancy = l.bits.Size()
}

func (l *leafLevel) flipRange(from, to Index) {
	l.bits.FlipRange(from.Segment(0), to.Segment(0))
	l.occupancy = l.bits.Size()
}

func (l *leafLevel) setAll() {
	l.bits.Fill()
	l.occupancy = maxOccupancy
}

func (l *leafLevel) clearAll() {
	l.bits.Reset()
	l.occupancy = 0
}

func (l *leafLevel) flipAll() {
	l.bits.Invert()
	l.occupancy = maxOccupancy - l.occupancy
}

func (l *leafLevel) validate() error {
	if size := l.bits.Size(); size != l.occupancy {
		return corruptedf("level 0: occupancy %d, popcount %d", l.occupancy, size)
	}
	return nil
}

func (l *leafLevel) clone() realLevel {
	c := *l
	return &c
}

func (l *leafLevel) stats(s *Stats) {
	s.LeafLevels++
}
