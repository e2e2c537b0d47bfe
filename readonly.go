// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparsebit

import "fmt"

// ReadOnlySet is a read-only view of a BitSet,
// all mutators return ErrUnsupported.
type ReadOnlySet struct {
	bs BitSet
}

// NewReadOnlySet returns a read-only view of bs. Changes of bs
// through other references remain visible, use bs.Copy() for a snapshot.
func NewReadOnlySet(bs BitSet) *ReadOnlySet {
	if bs == nil {
		panic("sparsebit: NewReadOnlySet with nil BitSet")
	}
	return &ReadOnlySet{bs: bs}
}

func errReadOnly(op string) error {
	return fmt.Errorf("%w: %s on read-only set", ErrUnsupported, op)
}

func (r *ReadOnlySet) IsEmpty() bool               { return r.bs.IsEmpty() }
func (r *ReadOnlySet) IsFull() bool                { return r.bs.IsFull() }
func (r *ReadOnlySet) Validate() error             { return r.bs.Validate() }
func (r *ReadOnlySet) Get(idx Index) (bool, error) { return r.bs.Get(idx) }
func (r *ReadOnlySet) ClearAll() error             { return errReadOnly("ClearAll") }
func (r *ReadOnlySet) SetAll() error               { return errReadOnly("SetAll") }
func (r *ReadOnlySet) FlipAll() error              { return errReadOnly("FlipAll") }
func (r *ReadOnlySet) Set(Index) (bool, error)     { return false, errReadOnly("Set") }
func (r *ReadOnlySet) Clear(Index) (bool, error)   { return false, errReadOnly("Clear") }
func (r *ReadOnlySet) Flip(Index) error            { return errReadOnly("Flip") }
func (r *ReadOnlySet) SetRange(_, _ Index) error   { return errReadOnly("SetRange") }
func (r *ReadOnlySet) ClearRange(_, _ Index) error { return errReadOnly("ClearRange") }
func (r *ReadOnlySet) FlipRange(_, _ Index) error  { return errReadOnly("FlipRange") }

// Copy returns a read-only view of an independent copy.
func (r *ReadOnlySet) Copy() BitSet {
	return NewReadOnlySet(r.bs.Copy())
}
