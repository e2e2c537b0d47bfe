// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparsebit

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// HybridSet combines a hash set for individual indices with a Set for ranges.
//
// Scattered single indices are stored much more compact in the hash part
// than as materialized levels. The price is a reduced contract: Flip,
// FlipAll, ClearRange and FlipRange return ErrUnsupported.
//
// Set always goes to the hash part and reports whether the hash part
// changed, SetRange always goes to the range part. Clear removes from both.
type HybridSet struct {
	singles singles
	ranges  *Set
}

// NewHybridSet returns an empty HybridSet for indices with at least levels bytes.
// Sets with up to 8 levels keep the individual indices in a roaring bitmap,
// wider sets in a map.
func NewHybridSet(levels int) (*HybridSet, error) {
	ranges, err := New(levels)
	if err != nil {
		return nil, err
	}

	h := &HybridSet{ranges: ranges}
	if levels <= 8 {
		h.singles = &roaringSingles{levels: levels, bm: roaring64.New()}
	} else {
		h.singles = &mapSingles{levels: levels, m: make(map[string]struct{})}
	}
	return h, nil
}

func errHybrid(op string) error {
	return fmt.Errorf("%w: %s on hybrid set", ErrUnsupported, op)
}

func (h *HybridSet) IsEmpty() bool {
	return h.singles.isEmpty() && h.ranges.IsEmpty()
}

func (h *HybridSet) IsFull() bool {
	return h.ranges.IsFull()
}

func (h *HybridSet) ClearAll() error {
	h.singles.reset()
	return h.ranges.ClearAll()
}

func (h *HybridSet) SetAll() error {
	h.singles.reset()
	return h.ranges.SetAll()
}

func (h *HybridSet) FlipAll() error {
	return errHybrid("FlipAll")
}

func (h *HybridSet) Validate() error {
	return h.ranges.Validate()
}

func (h *HybridSet) Get(idx Index) (bool, error) {
	if err := h.ranges.checkIndex(idx); err != nil {
		return false, err
	}
	return h.singles.contains(idx) || h.ranges.root.get(idx), nil
}

// Set adds idx to the hash part.
func (h *HybridSet) Set(idx Index) (bool, error) {
	if err := h.ranges.checkIndex(idx); err != nil {
		return false, err
	}
	return h.singles.add(idx), nil
}

// Clear removes idx from both parts.
func (h *HybridSet) Clear(idx Index) (bool, error) {
	if err := h.ranges.checkIndex(idx); err != nil {
		return false, err
	}
	inSingles := h.singles.remove(idx)
	inRanges := h.ranges.root.clear(idx)
	return inSingles || inRanges, nil
}

func (h *HybridSet) Flip(Index) error {
	return errHybrid("Flip")
}

// SetRange adds [from, to] to the range part.
func (h *HybridSet) SetRange(from, to Index) error {
	return h.ranges.SetRange(from, to)
}

func (h *HybridSet) ClearRange(_, _ Index) error {
	return errHybrid("ClearRange")
}

func (h *HybridSet) FlipRange(_, _ Index) error {
	return errHybrid("FlipRange")
}

// Copy returns an independent deep copy.
func (h *HybridSet) Copy() BitSet {
	return &HybridSet{
		singles: h.singles.clone(),
		ranges:  h.ranges.Clone(),
	}
}

// singles is the hash part of a HybridSet.
type singles interface {
	add(idx Index) bool
	remove(idx Index) bool
	contains(idx Index) bool
	isEmpty() bool
	reset()
	clone() singles
}

// roaringSingles packs indices up to 8 levels into uint64 keys.
type roaringSingles struct {
	levels int
	bm     *roaring64.Bitmap
}

func (r *roaringSingles) key(idx Index) (k uint64) {
	for l := r.levels - 1; l >= 0; l-- {
		k = k<<8 | uint64(idx.Segment(l))
	}
	return k
}

func (r *roaringSingles) add(idx Index) bool      { return r.bm.CheckedAdd(r.key(idx)) }
func (r *roaringSingles) remove(idx Index) bool   { return r.bm.CheckedRemove(r.key(idx)) }
func (r *roaringSingles) contains(idx Index) bool { return r.bm.Contains(r.key(idx)) }
func (r *roaringSingles) isEmpty() bool           { return r.bm.IsEmpty() }
func (r *roaringSingles) reset()                  { r.bm.Clear() }

func (r *roaringSingles) clone() singles {
	return &roaringSingles{levels: r.levels, bm: r.bm.Clone()}
}

// mapSingles keys indices of any width by their big-endian segments.
type mapSingles struct {
	levels int
	m      map[string]struct{}
}

func (s *mapSingles) key(idx Index) string {
	buf := make([]byte, s.levels)
	for l := range s.levels {
		buf[s.levels-1-l] = idx.Segment(l)
	}
	return string(buf)
}

func (s *mapSingles) add(idx Index) bool {
	k := s.key(idx)
	if _, ok := s.m[k]; ok {
		return false
	}
	s.m[k] = struct{}{}
	return true
}

func (s *mapSingles) remove(idx Index) bool {
	k := s.key(idx)
	if _, ok := s.m[k]; !ok {
		return false
	}
	delete(s.m, k)
	return true
}

func (s *mapSingles) contains(idx Index) bool {
	_, ok := s.m[s.key(idx)]
	return ok
}

func (s *mapSingles) isEmpty() bool { return len(s.m) == 0 }
func (s *mapSingles) reset()        { clear(s.m) }

func (s *mapSingles) clone() singles {
	m := make(map[string]struct{}, len(s.m))
	for k := range s.m {
		m[k] = struct{}{}
	}
	return &mapSingles{levels: s.levels, m: m}
}
