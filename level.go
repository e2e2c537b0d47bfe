// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparsebit

import "fmt"

// level is one slot value of the tree, a closed set of variants:
//
//   - emptyLevel: all 256 bits (or subtrees) absent
//   - fullLevel:  all 256 bits (or subtrees) present, a squashed level
//   - realLevel:  *leafLevel or *innerLevel, neither empty nor squashed
//
// The sentinels are zero sized values, storing them in a slot never allocates
// and they have no mutators, so a shared sentinel can't be modified.
type level interface {
	isEmpty() bool
	isFull() bool
}

type (
	emptyLevel struct{}
	fullLevel  struct{}
)

var (
	empty level = emptyLevel{}
	full  level = fullLevel{}
)

func (emptyLevel) isEmpty() bool { return true }
func (emptyLevel) isFull() bool  { return false }

func (fullLevel) isEmpty() bool { return false }
func (fullLevel) isFull() bool  { return true }

// realLevel is a materialized level, the root is always a realLevel.
type realLevel interface {
	level

	get(idx Index) bool
	set(idx Index) bool
	clear(idx Index) bool
	flip(idx Index)

	// from and to are inclusive bounds, the caller guarantees from <= to
	// for the segments at and below this level.
	setRange(from, to Index)
	clearRange(from, to Index)
	flipRange(from, to Index)

	setAll()
	clearAll()
	flipAll()

	validate() error
	clone() realLevel
	stats(*Stats)
}

// newLevel is the level factory. It returns a leaf for the last
// remaining level and an empty intermediate level otherwise.
func newLevel(maximumOccupancy, levels int) realLevel {
	if levels <= 1 {
		return newLeafLevel(maximumOccupancy)
	}
	return newInnerLevel(maximumOccupancy, levels-1)
}

// span counts for the bounded range [from, to] inside one slot at depth
// the touched child segments at depth-1 and how many of them are covered
// completely. Only completely covered children may be squashed or dropped
// without descending, the boundary children may be cut.
func span(from, to Index, depth int) (touched, covered int) {
	lo, hi := int(from.Segment(depth-1)), int(to.Segment(depth-1))
	touched = 1 + hi - lo

	covered = touched
	if !isFloor(from, depth-1) {
		covered--
	}
	if !isCeil(to, depth-1) {
		covered--
	}
	return touched, max(covered, 0)
}

// isFloor reports whether all segments of idx below depth are 0x00.
func isFloor(idx Index, depth int) bool {
	if c, ok := idx.(constIndex); ok {
		return c == 0x00
	}
	for l := depth - 1; l >= 0; l-- {
		if idx.Segment(l) != 0x00 {
			return false
		}
	}
	return true
}

// isCeil reports whether all segments of idx below depth are 0xff.
func isCeil(idx Index, depth int) bool {
	if c, ok := idx.(constIndex); ok {
		return c == 0xff
	}
	for l := depth - 1; l >= 0; l-- {
		if idx.Segment(l) != 0xff {
			return false
		}
	}
	return true
}

// mustOrdered panics on inverted segments, the public API checks the
// complete range before any level is touched.
func mustOrdered(segFrom, segTo uint8, depth int) {
	if segFrom > segTo {
		panic(fmt.Sprintf("sparsebit: inverted segments %d > %d at level %d", segFrom, segTo, depth))
	}
}
