// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparsebit

import "sync"

// SyncSet wraps a BitSet for concurrent use.
//
// All mutators, the range operations included, hold the write lock for
// their complete duration, all readers share the read lock.
type SyncSet struct {
	mu sync.RWMutex
	bs BitSet
}

// NewSyncSet returns a SyncSet around bs. The caller must not
// access bs directly afterwards.
func NewSyncSet(bs BitSet) *SyncSet {
	if bs == nil {
		panic("sparsebit: NewSyncSet with nil BitSet")
	}
	return &SyncSet{bs: bs}
}

func (s *SyncSet) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bs.IsEmpty()
}

func (s *SyncSet) IsFull() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bs.IsFull()
}

func (s *SyncSet) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bs.Validate()
}

func (s *SyncSet) Get(idx Index) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bs.Get(idx)
}

func (s *SyncSet) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bs.ClearAll()
}

func (s *SyncSet) SetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bs.SetAll()
}

func (s *SyncSet) FlipAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bs.FlipAll()
}

func (s *SyncSet) Set(idx Index) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bs.Set(idx)
}

func (s *SyncSet) Clear(idx Index) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bs.Clear(idx)
}

func (s *SyncSet) Flip(idx Index) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bs.Flip(idx)
}

func (s *SyncSet) SetRange(from, to Index) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bs.SetRange(from, to)
}

func (s *SyncSet) ClearRange(from, to Index) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bs.ClearRange(from, to)
}

func (s *SyncSet) FlipRange(from, to Index) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bs.FlipRange(from, to)
}

// Copy snapshots the wrapped set under the read lock
// and returns it wrapped in a new SyncSet.
func (s *SyncSet) Copy() BitSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return NewSyncSet(s.bs.Copy())
}
