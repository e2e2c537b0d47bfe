// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package sparsebit provides a hierarchical sparse bit set for very wide
// index spaces, e.g. 2^32, 2^64 or 2^128 bits, of which only a few runs
// are populated.
//
// An index is split into byte segments, one per level, the least
// significant byte addresses the bit inside a 256-bit leaf. Every
// intermediate level has 256 slots, each slot is either
//
//   - empty: no bit set in the subtree
//   - full:  all bits set in the subtree, squashed
//   - real:  a materialized child level
//
// Contiguous ranges collapse into few full slots, so the memory grows with
// the number of distinct runs, not with the width of the index.
//
// The maximum occupancy of a level, see WithMaximumOccupancy, is the number
// of set bits (or full children) at which a level is squashed. The default
// of 256 keeps the set precise. A smaller value trades false positives for
// memory, a level that reaches the threshold reports all its bits as set.
//
// Besides the plain Set there are decorators with the same BitSet method
// set: SyncSet for concurrent use, ReadOnlySet as immutable view and
// HybridSet with a hash part for scattered single indices.
//
// Index encodings for 32, 64 and 128 bit integers, byte slices and IP
// addresses are provided, see Uint32Index, Uint64Index, Uint128Index,
// BytesIndex and AddrIndex.
package sparsebit
