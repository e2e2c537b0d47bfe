// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparsebit

import "fmt"

// innerLevel is an intermediate level of the tree.
//
// Each slot holds one of the level variants for the subtree selected by
// segment(depth): the empty or full sentinel, or a materialized child
// one level deeper.
//
// Slot transitions, all maintained with O(1) counters:
//
//	materialize: empty -> real   (first write into an empty slot)
//	squash:      real  -> full   (child reached the maximum occupancy, lossy)
//	unfold:      full  -> real   (new child with all bits set, before a cut)
//	dismiss:     real  -> empty  (child lost its last bit)
//	promote:     empty -> full   (slot covered by a range set or flip)
//	demote:      full  -> empty  (slot covered by a range clear or flip)
type innerLevel struct {
	slots [maxOccupancy]level

	// fullCount is the number of fullLevel slots,
	// realCount the number of realLevel slots.
	fullCount int
	realCount int

	// depth of this level, the index segment selecting the slot.
	depth int

	maximumOccupancy int
}

func newInnerLevel(maximumOccupancy, depth int) *innerLevel {
	n := &innerLevel{
		depth:            depth,
		maximumOccupancy: maximumOccupancy,
	}
	for i := range n.slots {
		n.slots[i] = empty
	}
	return n
}

func (n *innerLevel) isEmpty() bool {
	return n.fullCount == 0 && n.realCount == 0
}

func (n *innerLevel) isFull() bool {
	return n.fullCount >= n.maximumOccupancy
}

func unknownLevel(slot level) {
	panic(fmt.Sprintf("sparsebit: unknown level type %T", slot))
}

// ###################################################
//  slot transitions
// ###################################################

func (n *innerLevel) materialize(seg uint8) realLevel {
	kid := newLevel(n.maximumOccupancy, n.depth)
	n.slots[seg] = kid
	n.realCount++
	return kid
}

func (n *innerLevel) unfold(seg uint8) realLevel {
	kid := newLevel(n.maximumOccupancy, n.depth)
	kid.setAll()
	n.slots[seg] = kid
	n.fullCount--
	n.realCount++
	return kid
}

func (n *innerLevel) squash(seg uint8) {
	n.slots[seg] = full
	n.realCount--
	n.fullCount++
}

func (n *innerLevel) dismiss(seg uint8) {
	n.slots[seg] = empty
	n.realCount--
}

func (n *innerLevel) promote(seg uint8) {
	n.slots[seg] = full
	n.fullCount++
}

func (n *innerLevel) demote(seg uint8) {
	n.slots[seg] = empty
	n.fullCount--
}

// squashIfFull follows bit additions, dismissIfEmpty bit removals.
// A child may stay real above the maximum occupancy after a removal,
// squashing it again would resurrect the removed bits.

func (n *innerLevel) squashIfFull(seg uint8, kid realLevel) {
	if kid.isFull() {
		n.squash(seg)
	}
}

func (n *innerLevel) dismissIfEmpty(seg uint8, kid realLevel) {
	if kid.isEmpty() {
		n.dismiss(seg)
	}
}

// settle follows a flip, the child may have moved in both directions.
func (n *innerLevel) settle(seg uint8, kid realLevel) {
	switch {
	case kid.isFull():
		n.squash(seg)
	case kid.isEmpty():
		n.dismiss(seg)
	}
}

// ###################################################
//  single index
// ###################################################

func (n *innerLevel) get(idx Index) bool {
	switch kid := n.slots[idx.Segment(n.depth)].(type) {
	case fullLevel:
		return true
	case emptyLevel:
		return false
	case realLevel:
		return kid.get(idx)
	default:
		unknownLevel(kid)
		return false
	}
}

func (n *innerLevel) set(idx Index) bool {
	seg := idx.Segment(n.depth)

	var kid realLevel
	switch slot := n.slots[seg].(type) {
	case fullLevel:
		return false
	case emptyLevel:
		kid = n.materialize(seg)
	case realLevel:
		kid = slot
	default:
		unknownLevel(slot)
	}

	changed := kid.set(idx)
	n.squashIfFull(seg, kid)
	return changed
}

func (n *innerLevel) clear(idx Index) bool {
	seg := idx.Segment(n.depth)

	var kid realLevel
	switch slot := n.slots[seg].(type) {
	case emptyLevel:
		return false
	case fullLevel:
		kid = n.unfold(seg)
	case realLevel:
		kid = slot
	default:
		unknownLevel(slot)
	}

	changed := kid.clear(idx)
	n.dismissIfEmpty(seg, kid)
	return changed
}

func (n *innerLevel) flip(idx Index) {
	seg := idx.Segment(n.depth)

	var kid realLevel
	switch slot := n.slots[seg].(type) {
	case emptyLevel:
		kid = n.materialize(seg)
	case fullLevel:
		kid = n.unfold(seg)
	case realLevel:
		kid = slot
	default:
		unknownLevel(slot)
	}

	kid.flip(idx)
	n.settle(seg, kid)
}

// ###################################################
//  ranges
// ###################################################

// eachSegment splits the inclusive range [from, to] at this depth.
// The first and last segment keep their original bound on one side,
// all segments in between are covered with [Min, Max].
func (n *innerLevel) eachSegment(from, to Index, fn func(from, to Index, seg uint8)) {
	segFrom, segTo := from.Segment(n.depth), to.Segment(n.depth)
	mustOrdered(segFrom, segTo, n.depth)

	if segFrom == segTo {
		fn(from, to, segFrom)
		return
	}

	fn(from, Max, segFrom)
	for seg := int(segFrom) + 1; seg < int(segTo); seg++ {
		fn(Min, Max, uint8(seg))
	}
	fn(Min, to, segTo)
}

func (n *innerLevel) setRange(from, to Index) {
	n.eachSegment(from, to, n.setSegment)
}

func (n *innerLevel) clearRange(from, to Index) {
	n.eachSegment(from, to, n.clearSegment)
}

func (n *innerLevel) flipRange(from, to Index) {
	n.eachSegment(from, to, n.flipSegment)
}

// setSegment sets [from, to] inside the slot seg.
//
// If the completely covered children alone reach the maximum occupancy the
// slot is squashed at once, without materializing the subtree. This is the
// premature collapse of a lossy set, with a maximum occupancy of 256 it
// happens only for a completely covered slot. Partially covered boundary
// children don't count, they are set by descending into them.
func (n *innerLevel) setSegment(from, to Index, seg uint8) {
	_, covered := span(from, to, n.depth)

	var kid realLevel
	switch slot := n.slots[seg].(type) {
	case fullLevel:
		return
	case emptyLevel:
		if covered >= n.maximumOccupancy {
			n.promote(seg)
			return
		}
		kid = n.materialize(seg)
	case realLevel:
		if covered >= n.maximumOccupancy {
			n.squash(seg)
			return
		}
		kid = slot
	default:
		unknownLevel(slot)
	}

	kid.setRange(from, to)
	n.squashIfFull(seg, kid)
}

// clearSegment clears [from, to] inside the slot seg,
// a completely covered slot is dropped without descending.
func (n *innerLevel) clearSegment(from, to Index, seg uint8) {
	_, covered := span(from, to, n.depth)

	var kid realLevel
	switch slot := n.slots[seg].(type) {
	case emptyLevel:
		return
	case fullLevel:
		if covered >= maxOccupancy {
			n.demote(seg)
			return
		}
		kid = n.unfold(seg)
	case realLevel:
		if covered >= maxOccupancy {
			n.dismiss(seg)
			return
		}
		kid = slot
	default:
		unknownLevel(slot)
	}

	kid.clearRange(from, to)
	n.dismissIfEmpty(seg, kid)
}

// flipSegment toggles [from, to] inside the slot seg.
//
// A completely covered sentinel slot is swapped for the opposite sentinel.
// An empty slot whose covered children reach the maximum occupancy is
// promoted to full at once. A full slot stays full if the untouched children
// alone still reach the maximum occupancy, the flipped hole can't bring
// it below the squash threshold.
func (n *innerLevel) flipSegment(from, to Index, seg uint8) {
	touched, covered := span(from, to, n.depth)

	var kid realLevel
	switch slot := n.slots[seg].(type) {
	case emptyLevel:
		if covered >= n.maximumOccupancy {
			n.promote(seg)
			return
		}
		kid = n.materialize(seg)
	case fullLevel:
		if covered >= maxOccupancy {
			n.demote(seg)
			return
		}
		if maxOccupancy-touched >= n.maximumOccupancy {
			return
		}
		kid = n.unfold(seg)
	case realLevel:
		kid = slot
	default:
		unknownLevel(slot)
	}

	kid.flipRange(from, to)
	n.settle(seg, kid)
}

// ###################################################
//  bulk
// ###################################################

func (n *innerLevel) setAll() {
	for i := range n.slots {
		n.slots[i] = full
	}
	n.fullCount = maxOccupancy
	n.realCount = 0
}

func (n *innerLevel) clearAll() {
	for i := range n.slots {
		n.slots[i] = empty
	}
	n.fullCount = 0
	n.realCount = 0
}

func (n *innerLevel) flipAll() {
	n.flipRange(Min, Max)
}

// validate descends into all children and recounts the slot variants.
func (n *innerLevel) validate() error {
	var fulls, reals int

	for seg, slot := range n.slots {
		switch kid := slot.(type) {
		case emptyLevel:
		case fullLevel:
			fulls++
		case realLevel:
			reals++
			if kid.isEmpty() {
				return corruptedf("level %d, segment %d: materialized child is empty", n.depth, seg)
			}
			if err := kid.validate(); err != nil {
				return err
			}
		default:
			return corruptedf("level %d, segment %d: unknown level type %T", n.depth, seg, slot)
		}
	}

	if fulls != n.fullCount {
		return corruptedf("level %d: full count %d, actual %d", n.depth, n.fullCount, fulls)
	}
	if reals != n.realCount {
		return corruptedf("level %d: real count %d, actual %d", n.depth, n.realCount, reals)
	}
	return nil
}

// clone returns a deep copy, only the sentinels are shared.
func (n *innerLevel) clone() realLevel {
	c := *n
	for i, slot := range c.slots {
		if kid, ok := slot.(realLevel); ok {
			c.slots[i] = kid.clone()
		}
	}
	return &c
}

func (n *innerLevel) stats(s *Stats) {
	s.InnerLevels++
	s.FullSlots += n.fullCount
	for _, slot := range n.slots {
		if kid, ok := slot.(realLevel); ok {
			kid.stats(s)
		}
	}
}
