// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparsebit

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type u32 = Uint32Index

func mustNew(t *testing.T, levels int, opts ...Option) *Set {
	t.Helper()
	s, err := New(levels, opts...)
	require.NoError(t, err)
	return s
}

func mustGet(t *testing.T, bs BitSet, idx Index) bool {
	t.Helper()
	ok, err := bs.Get(idx)
	require.NoError(t, err)
	return ok
}

func mustSet(t *testing.T, bs BitSet, idx Index) bool {
	t.Helper()
	ok, err := bs.Set(idx)
	require.NoError(t, err)
	return ok
}

func mustClear(t *testing.T, bs BitSet, idx Index) bool {
	t.Helper()
	ok, err := bs.Clear(idx)
	require.NoError(t, err)
	return ok
}

func mustValidate(t *testing.T, bs BitSet) {
	t.Helper()
	require.NoError(t, bs.Validate())
}

// checkRange probes every index in [from, to].
func checkRange(t *testing.T, bs BitSet, from, to uint32, want bool) {
	t.Helper()
	for i := uint64(from); i <= uint64(to); i++ {
		if got := mustGet(t, bs, u32(i)); got != want {
			t.Fatalf("Get(%08X), want %v, got %v", i, want, got)
		}
	}
}

func TestNewErrors(t *testing.T) {
	t.Parallel()

	for _, levels := range []int{0, -1} {
		_, err := New(levels)
		assert.ErrorIs(t, err, ErrInvalidConfig, "levels %d", levels)
	}

	for _, occ := range []int{-1, 0, 1, 257} {
		_, err := New(4, WithMaximumOccupancy(occ))
		assert.ErrorIs(t, err, ErrInvalidConfig, "occupancy %d", occ)
	}

	for _, bits := range []int{0, -8, 7, 33} {
		_, err := NewWithBits(bits)
		assert.ErrorIs(t, err, ErrInvalidConfig, "bits %d", bits)
	}

	s, err := NewWithBits(128, WithMaximumOccupancy(2))
	require.NoError(t, err)
	assert.Equal(t, 16, s.Levels())
	assert.Equal(t, 2, s.MaximumOccupancy())

	s = mustNew(t, 4)
	assert.Equal(t, 256, s.MaximumOccupancy())
}

func TestIndexErrors(t *testing.T) {
	t.Parallel()
	s := mustNew(t, 4)

	_, err := s.Get(nil)
	assert.ErrorIs(t, err, ErrInvalidIndex)

	_, err = s.Set(BytesIndex{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidIndex)

	_, err = s.Clear(nil)
	assert.ErrorIs(t, err, ErrInvalidIndex)

	assert.ErrorIs(t, s.Flip(BytesIndex{}), ErrInvalidIndex)
	assert.ErrorIs(t, s.SetRange(nil, u32(1)), ErrInvalidIndex)
	assert.ErrorIs(t, s.ClearRange(u32(1), BytesIndex{1}), ErrInvalidIndex)

	// wider indices are accepted, only the lowest levels count
	ok, err := s.Set(Uint64Index(0xFFFF_FFFF_1122_3344))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mustGet(t, s, u32(0x11223344)))

	// Min and Max are valid bounds
	require.NoError(t, s.SetRange(Min, u32(0x10)))
	assert.True(t, mustGet(t, s, u32(0)))
	mustValidate(t, s)
}

func TestInvalidRange(t *testing.T) {
	t.Parallel()
	s := mustNew(t, 4)

	assert.ErrorIs(t, s.SetRange(u32(0x11223345), u32(0x11223344)), ErrInvalidRange)
	assert.ErrorIs(t, s.ClearRange(Max, Min), ErrInvalidRange)
	assert.ErrorIs(t, s.FlipRange(u32(0x80000000), u32(0x7FFFFFFF)), ErrInvalidRange)

	// nothing mutated
	assert.True(t, s.IsEmpty())
	mustValidate(t, s)
}

func TestSimple(t *testing.T) {
	t.Parallel()
	s := mustNew(t, Uint32Levels)
	idx := u32(0x11223344)

	assert.False(t, mustGet(t, s, idx))
	mustValidate(t, s)

	assert.True(t, mustSet(t, s, idx))
	assert.False(t, mustSet(t, s, idx))
	mustValidate(t, s)

	assert.True(t, mustGet(t, s, idx))
	assert.False(t, mustGet(t, s, u32(0x11223355)))

	assert.True(t, mustClear(t, s, idx))
	assert.False(t, mustClear(t, s, idx))
	mustValidate(t, s)

	assert.False(t, mustGet(t, s, idx))
	assert.True(t, s.IsEmpty())

	// flip twice restores
	require.NoError(t, s.Flip(idx))
	assert.True(t, mustGet(t, s, idx))
	require.NoError(t, s.Flip(idx))
	assert.False(t, mustGet(t, s, idx))
	assert.True(t, s.IsEmpty())
	mustValidate(t, s)
}

func TestFolding(t *testing.T) {
	t.Parallel()
	s := mustNew(t, Uint32Levels)

	for i := range uint32(255) {
		require.True(t, mustSet(t, s, u32(0x11223300+i)))
	}
	mustValidate(t, s)
	assert.Equal(t, Stats{InnerLevels: 3, LeafLevels: 1}, s.Stats())

	// 256th bit collapses the leaf
	assert.True(t, mustSet(t, s, u32(0x112233FF)))
	mustValidate(t, s)
	assert.Equal(t, Stats{InnerLevels: 3, FullSlots: 1}, s.Stats())

	checkRange(t, s, 0x11223300, 0x112233FF, true)
	assert.False(t, mustGet(t, s, u32(0x112232FF)))
	assert.False(t, mustGet(t, s, u32(0x11223400)))

	// unfold
	assert.True(t, mustClear(t, s, u32(0x11223344)))
	assert.False(t, mustClear(t, s, u32(0x11223344)))
	mustValidate(t, s)
	assert.Equal(t, Stats{InnerLevels: 3, LeafLevels: 1}, s.Stats())

	assert.False(t, mustGet(t, s, u32(0x11223344)))
	assert.True(t, mustGet(t, s, u32(0x11223300)))
	assert.True(t, mustGet(t, s, u32(0x112233FF)))

	// flip it back, collapse again
	require.NoError(t, s.Flip(u32(0x11223344)))
	mustValidate(t, s)
	assert.True(t, mustGet(t, s, u32(0x11223344)))
	assert.Equal(t, 1, s.Stats().FullSlots)
}

func TestFull(t *testing.T) {
	t.Parallel()
	s := mustNew(t, Uint32Levels)

	require.NoError(t, s.SetAll())
	mustValidate(t, s)

	assert.True(t, s.IsFull())
	assert.False(t, s.IsEmpty())
	assert.True(t, mustGet(t, s, u32(0x11223344)))

	assert.True(t, mustClear(t, s, u32(0x11223344)))
	mustValidate(t, s)

	assert.False(t, mustGet(t, s, u32(0x11223344)))
	assert.False(t, s.IsFull())
	assert.False(t, s.IsEmpty())

	assert.True(t, mustGet(t, s, u32(0x11223343)))
	assert.True(t, mustGet(t, s, u32(0x11223345)))
	assert.True(t, mustGet(t, s, u32(0x00000000)))
	assert.True(t, mustGet(t, s, u32(0xFFFFFFFF)))

	assert.True(t, mustSet(t, s, u32(0x11223344)))
	mustValidate(t, s)

	assert.True(t, mustGet(t, s, u32(0x11223344)))
	assert.True(t, s.IsFull())
	assert.False(t, s.IsEmpty())

	// set on a squashed slot doesn't change anything
	assert.False(t, mustSet(t, s, u32(0x11223344)))
}

func TestClean(t *testing.T) {
	t.Parallel()
	s := mustNew(t, Uint32Levels)

	assert.True(t, s.IsEmpty())
	assert.False(t, s.IsFull())

	assert.True(t, mustSet(t, s, u32(0x11223344)))
	assert.False(t, s.IsEmpty())

	require.NoError(t, s.ClearAll())
	mustValidate(t, s)

	assert.False(t, mustGet(t, s, u32(0x11223344)))
	assert.True(t, s.IsEmpty())
	assert.Equal(t, Stats{InnerLevels: 1}, s.Stats())

	assert.True(t, mustSet(t, s, u32(0x11223344)))
	assert.True(t, mustClear(t, s, u32(0x11223344)))
	mustValidate(t, s)

	// dismissed all the way up
	assert.True(t, s.IsEmpty())
	assert.Equal(t, Stats{InnerLevels: 1}, s.Stats())
}

func TestRanges(t *testing.T) {
	t.Parallel()
	s := mustNew(t, Uint32Levels)

	require.NoError(t, s.SetRange(u32(0x11223101), u32(0x112235FE)))
	mustValidate(t, s)

	assert.False(t, s.IsEmpty())
	assert.False(t, s.IsFull())

	checkRange(t, s, 0x11223101, 0x112235FE, true)
	checkRange(t, s, 0x112230FF, 0x11223100, false)
	checkRange(t, s, 0x112235FF, 0x11223600, false)

	// the interior segments 0x32..0x34 are squashed
	assert.Equal(t, 3, s.Stats().FullSlots)

	// extend the range
	assert.True(t, mustSet(t, s, u32(0x11223100)))
	assert.True(t, mustSet(t, s, u32(0x112235FF)))
	mustValidate(t, s)

	checkRange(t, s, 0x11223100, 0x112235FF, true)
	checkRange(t, s, 0x112230F0, 0x112230FF, false)
	checkRange(t, s, 0x11223600, 0x112236FF, false)

	// cut a hole in the center
	require.NoError(t, s.ClearRange(u32(0x11223201), u32(0x112234FE)))
	mustValidate(t, s)

	checkRange(t, s, 0x11223100, 0x11223200, true)
	checkRange(t, s, 0x112234FF, 0x112235FF, true)
	checkRange(t, s, 0x112230F0, 0x112230FF, false)
	checkRange(t, s, 0x11223201, 0x112234FE, false)
	checkRange(t, s, 0x11223600, 0x112236FF, false)

	// cut two small holes
	require.NoError(t, s.ClearRange(u32(0x11223161), u32(0x1122316E)))
	require.NoError(t, s.ClearRange(u32(0x11223561), u32(0x1122356E)))
	mustValidate(t, s)

	checkRange(t, s, 0x11223100, 0x11223160, true)
	checkRange(t, s, 0x1122316F, 0x11223200, true)
	checkRange(t, s, 0x112234FF, 0x11223560, true)
	checkRange(t, s, 0x1122356F, 0x112235FF, true)

	checkRange(t, s, 0x112230F0, 0x112230FF, false)
	checkRange(t, s, 0x11223161, 0x1122316E, false)
	checkRange(t, s, 0x11223201, 0x112234FE, false)
	checkRange(t, s, 0x11223561, 0x1122356E, false)
	checkRange(t, s, 0x11223600, 0x112236FF, false)

	// flip some
	require.NoError(t, s.FlipRange(u32(0x11223121), u32(0x1122317F)))
	mustValidate(t, s)

	checkRange(t, s, 0x11223100, 0x11223120, true)
	checkRange(t, s, 0x11223161, 0x1122316E, true)
	checkRange(t, s, 0x11223180, 0x11223200, true)
	checkRange(t, s, 0x112234FF, 0x11223560, true)
	checkRange(t, s, 0x1122356F, 0x112235FF, true)

	checkRange(t, s, 0x112230F0, 0x112230FF, false)
	checkRange(t, s, 0x11223121, 0x11223160, false)
	checkRange(t, s, 0x1122316F, 0x1122317E, false)
	checkRange(t, s, 0x11223201, 0x112234FE, false)
	checkRange(t, s, 0x11223561, 0x1122356E, false)
	checkRange(t, s, 0x11223600, 0x112236FF, false)

	// invert everything
	require.NoError(t, s.FlipAll())
	mustValidate(t, s)

	checkRange(t, s, 0x11223100, 0x11223120, false)
	checkRange(t, s, 0x11223161, 0x1122316E, false)
	checkRange(t, s, 0x11223180, 0x11223200, false)
	checkRange(t, s, 0x112234FF, 0x11223560, false)
	checkRange(t, s, 0x1122356F, 0x112235FF, false)

	checkRange(t, s, 0x112230F0, 0x112230FF, true)
	checkRange(t, s, 0x11223121, 0x11223160, true)
	checkRange(t, s, 0x1122316F, 0x1122317E, true)
	checkRange(t, s, 0x11223201, 0x112234FE, true)
	checkRange(t, s, 0x11223561, 0x1122356E, true)
	checkRange(t, s, 0x11223600, 0x112236FF, true)

	assert.True(t, mustGet(t, s, u32(0)))
	assert.True(t, mustGet(t, s, u32(0xFFFFFFFF)))
}

func TestSingleRanges(t *testing.T) {
	t.Parallel()
	s := mustNew(t, Uint32Levels)
	idx := u32(0x11223344)

	require.NoError(t, s.SetRange(idx, idx))
	mustValidate(t, s)

	assert.True(t, mustGet(t, s, idx))
	assert.False(t, mustGet(t, s, u32(0x11223343)))
	assert.False(t, mustGet(t, s, u32(0x11223345)))

	// clear the neighbour, nothing changes
	require.NoError(t, s.ClearRange(u32(0x11223345), u32(0x11223345)))
	mustValidate(t, s)
	assert.True(t, mustGet(t, s, idx))

	require.NoError(t, s.ClearRange(idx, idx))
	mustValidate(t, s)
	assert.True(t, s.IsEmpty())
	assert.False(t, mustGet(t, s, idx))

	require.NoError(t, s.FlipRange(idx, idx))
	mustValidate(t, s)

	assert.False(t, s.IsEmpty())
	assert.True(t, mustGet(t, s, idx))
	assert.False(t, mustGet(t, s, u32(0x11223343)))
	assert.False(t, mustGet(t, s, u32(0x11223345)))
}

func TestLevel0Bits(t *testing.T) {
	t.Parallel()
	s := mustNew(t, 1)

	assert.True(t, s.IsEmpty())
	assert.False(t, s.IsFull())

	assert.True(t, mustSet(t, s, u32(0x44)))
	assert.False(t, mustSet(t, s, u32(0x44)))
	mustValidate(t, s)

	assert.True(t, mustGet(t, s, u32(0x44)))
	assert.False(t, mustGet(t, s, u32(0x01)))
	assert.False(t, mustGet(t, s, u32(0xFE)))

	assert.True(t, mustClear(t, s, u32(0x44)))
	assert.False(t, mustClear(t, s, u32(0x44)))
	assert.True(t, s.IsEmpty())

	require.NoError(t, s.Flip(u32(0x44)))
	assert.True(t, mustGet(t, s, u32(0x44)))

	require.NoError(t, s.FlipAll())
	mustValidate(t, s)
	assert.False(t, mustGet(t, s, u32(0x44)))
	assert.True(t, mustGet(t, s, u32(0x01)))
	assert.True(t, mustGet(t, s, u32(0xFE)))

	require.NoError(t, s.ClearAll())
	assert.False(t, mustGet(t, s, u32(0x01)))

	require.NoError(t, s.SetAll())
	mustValidate(t, s)
	assert.True(t, s.IsFull())
	assert.True(t, mustGet(t, s, u32(0x44)))

	require.NoError(t, s.ClearRange(u32(0x10), u32(0xF0)))
	mustValidate(t, s)
	assert.False(t, mustGet(t, s, u32(0x44)))
	assert.True(t, mustGet(t, s, u32(0x01)))
	assert.True(t, mustGet(t, s, u32(0xFE)))

	require.NoError(t, s.SetRange(u32(0x40), u32(0x60)))
	mustValidate(t, s)
	assert.True(t, mustGet(t, s, u32(0x44)))

	require.NoError(t, s.FlipRange(u32(0x42), u32(0x46)))
	mustValidate(t, s)
	assert.False(t, mustGet(t, s, u32(0x44)))
	assert.True(t, mustGet(t, s, u32(0x41)))
	assert.True(t, mustGet(t, s, u32(0x47)))

	// the root of a one level set is a leaf
	assert.Equal(t, Stats{LeafLevels: 1}, s.Stats())
}

func TestIPv6(t *testing.T) {
	t.Parallel()
	s, err := NewWithBits(128)
	require.NoError(t, err)

	ip := func(s string) Index { return AddrIndex(netip.MustParseAddr(s)) }

	assert.True(t, mustSet(t, s, ip("FE80:CD00:0000:0000:0000:0000:211E:729C")))
	assert.True(t, mustGet(t, s, ip("FE80:CD00:0000:0000:0000:0000:211E:729C")))
	assert.False(t, mustGet(t, s, ip("FE80:CD00:0000:0000:0000:0000:211E:729B")))
	assert.False(t, mustGet(t, s, ip("FE80:CD00:0000:0000:0000:0000:211E:729D")))

	// 15 inner levels and one leaf for a single address
	assert.Equal(t, Stats{InnerLevels: 15, LeafLevels: 1}, s.Stats())

	// a /10 is squashed at the first two levels
	require.NoError(t, s.SetRange(ip("fe80::"), ip("febf:ffff:ffff:ffff:ffff:ffff:ffff:ffff")))
	mustValidate(t, s)
	assert.Equal(t, Stats{InnerLevels: 2, FullSlots: 64}, s.Stats())

	assert.True(t, mustGet(t, s, ip("fe80::1")))
	assert.True(t, mustGet(t, s, ip("febf::1")))
	assert.False(t, mustGet(t, s, ip("fe7f:ffff:ffff:ffff:ffff:ffff:ffff:ffff")))
	assert.False(t, mustGet(t, s, ip("fec0::")))

	// IPv4 indices have too few levels
	_, err = s.Get(ip("10.0.0.1"))
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestPrematureSquashing(t *testing.T) {
	t.Parallel()
	s := mustNew(t, Uint32Levels, WithMaximumOccupancy(240))
	mustValidate(t, s)

	for i := range uint32(239) {
		require.True(t, mustSet(t, s, u32(0x11223300+i)))
	}
	mustValidate(t, s)

	// no squashing yet
	assert.False(t, mustGet(t, s, u32(0x112233FF)))

	// 240th bit
	assert.True(t, mustSet(t, s, u32(0x11223300+240)))
	mustValidate(t, s)

	// squashed on this level
	assert.True(t, mustGet(t, s, u32(0x112233FF)))
	assert.True(t, mustGet(t, s, u32(0x112233EF)))

	// but not on the neighbour levels
	assert.False(t, mustGet(t, s, u32(0x112232FF)))
	assert.False(t, mustGet(t, s, u32(0x11223400)))
}

func TestPrematureSquashingRange(t *testing.T) {
	t.Parallel()
	s := mustNew(t, Uint32Levels, WithMaximumOccupancy(240))

	// 240 completely covered leaves, promoted without materializing
	require.NoError(t, s.SetRange(u32(0x11220000), u32(0x1122EFFF)))
	mustValidate(t, s)

	assert.Equal(t, Stats{InnerLevels: 2, FullSlots: 1}, s.Stats())
	assert.True(t, mustGet(t, s, u32(0x1122FFFF)))
	assert.False(t, mustGet(t, s, u32(0x1123FFFF)))

	// 239 covered leaves plus two cut boundary leaves stay precise
	s = mustNew(t, Uint32Levels, WithMaximumOccupancy(240))
	require.NoError(t, s.SetRange(u32(0x112200F0), u32(0x1122F00F)))
	mustValidate(t, s)

	assert.False(t, mustGet(t, s, u32(0x112200EF)))
	assert.False(t, mustGet(t, s, u32(0x1122F010)))
	assert.True(t, mustGet(t, s, u32(0x112200F0)))
	assert.True(t, mustGet(t, s, u32(0x1122F00F)))
}

func TestHugeRange(t *testing.T) {
	t.Parallel()
	s := mustNew(t, Uint64Levels)

	lo, mid, hi := Uint64Index(0), Uint64Index(0x8000_0000_0000_0000), Uint64Index(0xFFFF_FFFF_FFFF_FFFF)

	require.NoError(t, s.SetRange(lo, hi))
	mustValidate(t, s)
	assert.True(t, s.IsFull())
	assert.True(t, mustGet(t, s, lo))
	assert.True(t, mustGet(t, s, mid))
	assert.True(t, mustGet(t, s, hi))

	require.NoError(t, s.ClearRange(lo, hi))
	mustValidate(t, s)
	assert.True(t, s.IsEmpty())
	assert.False(t, mustGet(t, s, lo))
	assert.False(t, mustGet(t, s, mid))
	assert.False(t, mustGet(t, s, hi))

	require.NoError(t, s.FlipRange(lo, hi))
	mustValidate(t, s)
	assert.True(t, mustGet(t, s, lo))
	assert.True(t, mustGet(t, s, mid))
	assert.True(t, mustGet(t, s, hi))

	// only the root is materialized
	assert.Equal(t, Stats{InnerLevels: 1, FullSlots: 256}, s.Stats())
}

func TestClone(t *testing.T) {
	t.Parallel()
	s := mustNew(t, Uint32Levels)

	require.NoError(t, s.SetRange(u32(0x7001_0000), u32(0x9001_FFFF)))
	mustValidate(t, s)

	assert.False(t, mustGet(t, s, u32(0x7000_0000)))
	assert.True(t, mustGet(t, s, u32(0x8000_0000)))
	assert.False(t, mustGet(t, s, u32(0x9002_0000)))

	clone := s.Copy()
	mustValidate(t, clone)
	assert.Equal(t, s.String(), clone.(*Set).String())

	require.NoError(t, s.ClearAll())
	mustValidate(t, s)
	mustValidate(t, clone)

	assert.False(t, mustGet(t, clone, u32(0x7000_0000)))
	assert.True(t, mustGet(t, clone, u32(0x8000_0000)))
	assert.False(t, mustGet(t, clone, u32(0x9002_0000)))

	// and the other way round
	_, err := clone.Clear(u32(0x8000_0000))
	require.NoError(t, err)
	require.NoError(t, s.SetAll())
	assert.True(t, mustGet(t, s, u32(0x8000_0000)))
	assert.False(t, mustGet(t, clone, u32(0x8000_0000)))

	var nilSet *Set
	assert.Nil(t, nilSet.Clone())
}
