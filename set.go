// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparsebit

import "fmt"

// BitSet is the common method set of Set, SyncSet, ReadOnlySet and HybridSet.
//
// All ranges are inclusive on both ends. The mutators return an error so
// that restricted implementations can report ErrUnsupported.
type BitSet interface {
	// IsEmpty reports whether no bit is set.
	IsEmpty() bool

	// IsFull reports whether the root level is squashed, with a maximum
	// occupancy below 256 this doesn't mean that all bits are set.
	IsFull() bool

	ClearAll() error
	SetAll() error
	FlipAll() error

	// Validate checks the internal structure, it's expensive and
	// meant for tests and diagnostics.
	Validate() error

	Get(idx Index) (bool, error)

	// Set and Clear report whether the bit has been switched.
	Set(idx Index) (bool, error)
	Clear(idx Index) (bool, error)
	Flip(idx Index) error

	SetRange(from, to Index) error
	ClearRange(from, to Index) error
	FlipRange(from, to Index) error

	// Copy returns an independent deep copy.
	Copy() BitSet
}

var (
	_ BitSet = (*Set)(nil)
	_ BitSet = (*SyncSet)(nil)
	_ BitSet = (*ReadOnlySet)(nil)
	_ BitSet = (*HybridSet)(nil)
)

// Set is a hierarchical sparse bit set, addressed by indices with a
// fixed number of byte levels. A level collapses to a single sentinel when
// it's completely empty or full, so the memory grows with the number of
// distinct runs in the set, not with the width of the index.
//
// A Set is not safe for concurrent use, wrap it with NewSyncSet or
// synchronize externally. Use New or NewWithBits to create a Set.
type Set struct {
	levels           int
	maximumOccupancy int

	root realLevel
}

// New returns an empty Set for indices with at least levels bytes.
func New(levels int, opts ...Option) (*Set, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if levels <= 0 {
		return nil, fmt.Errorf("%w: need positive level count: %d", ErrInvalidConfig, levels)
	}

	if o.maximumOccupancy < 2 || o.maximumOccupancy > maxOccupancy {
		return nil, fmt.Errorf("%w: maximum occupancy %d not in [2, %d]",
			ErrInvalidConfig, o.maximumOccupancy, maxOccupancy)
	}

	return &Set{
		levels:           levels,
		maximumOccupancy: o.maximumOccupancy,
		root:             newLevel(o.maximumOccupancy, levels),
	}, nil
}

// NewWithBits returns an empty Set for indices of the given bit width,
// bits must be a positive multiple of 8.
func NewWithBits(bits int, opts ...Option) (*Set, error) {
	if bits <= 0 || bits%8 != 0 {
		return nil, fmt.Errorf("%w: bit count must be a positive multiple of 8: %d", ErrInvalidConfig, bits)
	}
	return New(bits/8, opts...)
}

// Levels returns the number of levels, the index width in bytes.
func (s *Set) Levels() int {
	return s.levels
}

// MaximumOccupancy returns the squash threshold of the levels.
func (s *Set) MaximumOccupancy() int {
	return s.maximumOccupancy
}

func (s *Set) checkIndex(idx Index) error {
	if idx == nil {
		return fmt.Errorf("%w: index is nil", ErrInvalidIndex)
	}
	if n := idx.Levels(); n < s.levels {
		return fmt.Errorf("%w: index %v has %d levels, set needs %d", ErrInvalidIndex, idx, n, s.levels)
	}
	return nil
}

// checkRange validates both bounds before anything is mutated,
// a range operation never fails halfway.
func (s *Set) checkRange(from, to Index) error {
	if err := s.checkIndex(from); err != nil {
		return err
	}
	if err := s.checkIndex(to); err != nil {
		return err
	}
	if Compare(from, to, s.levels) > 0 {
		return fmt.Errorf("%w: from %v > to %v", ErrInvalidRange, from, to)
	}
	return nil
}

func (s *Set) IsEmpty() bool {
	return s.root.isEmpty()
}

func (s *Set) IsFull() bool {
	return s.root.isFull()
}

func (s *Set) ClearAll() error {
	s.root.clearAll()
	return nil
}

func (s *Set) SetAll() error {
	s.root.setAll()
	return nil
}

func (s *Set) FlipAll() error {
	s.root.flipAll()
	return nil
}

func (s *Set) Validate() error {
	return s.root.validate()
}

// Get reports whether the bit at idx is set.
func (s *Set) Get(idx Index) (bool, error) {
	if err := s.checkIndex(idx); err != nil {
		return false, err
	}
	return s.root.get(idx), nil
}

// Set sets the bit at idx and reports whether it was unset before.
func (s *Set) Set(idx Index) (bool, error) {
	if err := s.checkIndex(idx); err != nil {
		return false, err
	}
	return s.root.set(idx), nil
}

// Clear clears the bit at idx and reports whether it was set before.
func (s *Set) Clear(idx Index) (bool, error) {
	if err := s.checkIndex(idx); err != nil {
		return false, err
	}
	return s.root.clear(idx), nil
}

// Flip toggles the bit at idx.
func (s *Set) Flip(idx Index) error {
	if err := s.checkIndex(idx); err != nil {
		return err
	}
	s.root.flip(idx)
	return nil
}

// SetRange sets all bits in [from, to].
func (s *Set) SetRange(from, to Index) error {
	if err := s.checkRange(from, to); err != nil {
		return err
	}
	s.root.setRange(from, to)
	return nil
}

// ClearRange clears all bits in [from, to].
func (s *Set) ClearRange(from, to Index) error {
	if err := s.checkRange(from, to); err != nil {
		return err
	}
	s.root.clearRange(from, to)
	return nil
}

// FlipRange toggles all bits in [from, to].
func (s *Set) FlipRange(from, to Index) error {
	if err := s.checkRange(from, to); err != nil {
		return err
	}
	s.root.flipRange(from, to)
	return nil
}

// Clone returns a deep copy of s, sharing nothing but the sentinels.
func (s *Set) Clone() *Set {
	if s == nil {
		return nil
	}
	c := *s
	c.root = s.root.clone()
	return &c
}

// Copy implements BitSet, see Clone.
func (s *Set) Copy() BitSet {
	return s.Clone()
}

// Stats describes the materialized structure of a Set.
type Stats struct {
	// InnerLevels counts the intermediate levels, the root included.
	InnerLevels int

	// LeafLevels counts the bitmap levels.
	LeafLevels int

	// FullSlots counts the squashed slots in all intermediate levels.
	FullSlots int
}

// Stats walks the tree and counts the materialized levels.
func (s *Set) Stats() Stats {
	var st Stats
	s.root.stats(&st)
	return st
}
