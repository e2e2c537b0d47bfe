// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package golden is a simple and slow flat bit set over a small index space,
// implemented with a plain bitmap as a golden reference for sparsebit.
package golden

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// MaxLevels limits the index space, 3 levels are 2^24 bits, 2MiB.
const MaxLevels = 3

// Set is a flat bitmap of 2^(8*levels) bits, always precise.
type Set struct {
	levels int
	bits   *bitset.BitSet

	// scratch holds the range mask, reused between range ops.
	scratch *bitset.BitSet
}

// New returns an empty Set, levels must be in [1, MaxLevels].
func New(levels int) *Set {
	if levels < 1 || levels > MaxLevels {
		panic(fmt.Sprintf("golden: levels %d not in [1, %d]", levels, MaxLevels))
	}
	n := uint(1) << (8 * levels)
	return &Set{
		levels:  levels,
		bits:    bitset.New(n),
		scratch: bitset.New(n),
	}
}

// Levels returns the index width in bytes.
func (s *Set) Levels() int { return s.levels }

// Len returns the number of addressable bits.
func (s *Set) Len() uint { return s.bits.Len() }

func (s *Set) mustIndex(i uint) {
	if i >= s.bits.Len() {
		panic(fmt.Sprintf("golden: index %d out of bounds %d", i, s.bits.Len()))
	}
}

func (s *Set) Get(i uint) bool {
	s.mustIndex(i)
	return s.bits.Test(i)
}

func (s *Set) Set(i uint) (changed bool) {
	s.mustIndex(i)
	changed = !s.bits.Test(i)
	s.bits.Set(i)
	return changed
}

func (s *Set) Clear(i uint) (changed bool) {
	s.mustIndex(i)
	changed = s.bits.Test(i)
	s.bits.Clear(i)
	return changed
}

func (s *Set) Flip(i uint) {
	s.mustIndex(i)
	s.bits.Flip(i)
}

// mask returns the scratch bitmap with exactly [from, to] set.
func (s *Set) mask(from, to uint) *bitset.BitSet {
	s.mustIndex(from)
	s.mustIndex(to)
	if from > to {
		panic(fmt.Sprintf("golden: inverted range %d > %d", from, to))
	}

	s.scratch.ClearAll()
	return s.scratch.FlipRange(from, to+1)
}

// SetRange sets all bits in [from, to], inclusive.
func (s *Set) SetRange(from, to uint) {
	s.bits.InPlaceUnion(s.mask(from, to))
}

// ClearRange clears all bits in [from, to], inclusive.
func (s *Set) ClearRange(from, to uint) {
	s.bits.InPlaceDifference(s.mask(from, to))
}

// FlipRange toggles all bits in [from, to], inclusive.
func (s *Set) FlipRange(from, to uint) {
	s.bits.FlipRange(from, to+1)
}

func (s *Set) SetAll() {
	s.bits.ClearAll()
	s.bits.FlipRange(0, s.bits.Len())
}

func (s *Set) ClearAll() {
	s.bits.ClearAll()
}

func (s *Set) FlipAll() {
	s.bits.FlipRange(0, s.bits.Len())
}

func (s *Set) IsEmpty() bool { return s.bits.None() }
func (s *Set) IsFull() bool  { return s.bits.All() }

// Count returns the number of set bits.
func (s *Set) Count() uint { return s.bits.Count() }

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	return &Set{
		levels:  s.levels,
		bits:    s.bits.Clone(),
		scratch: bitset.New(s.bits.Len()),
	}
}

// Runs returns the maximal runs of set bits as inclusive [from, to] pairs.
func (s *Set) Runs() [][2]uint {
	var runs [][2]uint
	for i, ok := s.bits.NextSet(0); ok; {
		end, hasClear := s.bits.NextClear(i)
		if !hasClear {
			end = s.bits.Len()
		}
		runs = append(runs, [2]uint{i, end - 1})
		if !hasClear {
			break
		}
		i, ok = s.bits.NextSet(end)
	}
	return runs
}
