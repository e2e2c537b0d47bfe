// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparsebit

import (
	"cmp"
	"encoding/hex"
	"fmt"
	"math"
	"net/netip"
	"strings"
)

// Index is an unsigned key of fixed width, split into byte sized segments.
//
// Segment(0) must return the least significant byte and Segment(Levels()-1)
// the most significant one. Only with this ordering a contiguous range of
// keys maps to a compact subtree.
//
// Segment panics if level is outside [0, Levels()).
type Index interface {
	Segment(level int) uint8
	Levels() int
}

// constIndex returns the same segment for every level.
// It is only used as synthetic range boundary, never stored.
type constIndex uint8

// Min and Max are the synthetic lower and upper boundaries,
// every segment is 0x00 or 0xFF and the level count is unbounded.
var (
	Min Index = constIndex(0x00)
	Max Index = constIndex(0xff)
)

func (c constIndex) Segment(int) uint8 { return uint8(c) }
func (c constIndex) Levels() int       { return math.MaxInt }
func (c constIndex) String() string    { return fmt.Sprintf("CONST=%d", uint8(c)) }

// Compare compares the lowest levels segments of a and b,
// the most significant segment first.
// The result is -1 if a < b, 0 if a == b and +1 if a > b.
func Compare(a, b Index, levels int) int {
	for l := levels - 1; l >= 0; l-- {
		if c := cmp.Compare(a.Segment(l), b.Segment(l)); c != 0 {
			return c
		}
	}
	return 0
}

func levelPanic(kind string, levels, level int) {
	panic(fmt.Sprintf("sparsebit: level %d out of bounds for %s [0..%d]", level, kind, levels-1))
}

// Uint32Index is a 4 level index, the value is treated as unsigned.
type Uint32Index uint32

// Uint32Levels is the number of levels of an Uint32Index.
const Uint32Levels = 4

func (i Uint32Index) Segment(level int) uint8 {
	if level < 0 || level >= Uint32Levels {
		levelPanic("uint32", Uint32Levels, level)
	}
	return uint8(i >> (level << 3))
}

func (i Uint32Index) Levels() int { return Uint32Levels }

// Compare returns -1, 0 or +1.
func (i Uint32Index) Compare(o Uint32Index) int { return cmp.Compare(i, o) }

func (i Uint32Index) String() string { return fmt.Sprintf("%08X", uint32(i)) }

// Uint64Index is an 8 level index, the value is treated as unsigned.
type Uint64Index uint64

// Uint64Levels is the number of levels of an Uint64Index.
const Uint64Levels = 8

func (i Uint64Index) Segment(level int) uint8 {
	if level < 0 || level >= Uint64Levels {
		levelPanic("uint64", Uint64Levels, level)
	}
	return uint8(i >> (level << 3))
}

func (i Uint64Index) Levels() int { return Uint64Levels }

// Compare returns -1, 0 or +1.
func (i Uint64Index) Compare(o Uint64Index) int { return cmp.Compare(i, o) }

func (i Uint64Index) String() string { return fmt.Sprintf("%016X", uint64(i)) }

// Uint128Index is a 16 level index built from two unsigned halves,
// Hi holds the levels 15..8 and Lo the levels 7..0.
type Uint128Index struct {
	Hi, Lo uint64
}

// Uint128Levels is the number of levels of an Uint128Index.
const Uint128Levels = 16

// Uint128FromBytes returns the index for the 16 big-endian bytes in b.
func Uint128FromBytes(b [16]byte) Uint128Index {
	var idx Uint128Index
	for i := range 8 {
		idx.Hi = idx.Hi<<8 | uint64(b[i])
		idx.Lo = idx.Lo<<8 | uint64(b[i+8])
	}
	return idx
}

func (i Uint128Index) Segment(level int) uint8 {
	switch {
	case level >= 8 && level < Uint128Levels:
		return uint8(i.Hi >> ((level - 8) << 3))
	case level >= 0 && level < 8:
		return uint8(i.Lo >> (level << 3))
	}
	levelPanic("uint128", Uint128Levels, level)
	return 0
}

func (i Uint128Index) Levels() int { return Uint128Levels }

// Compare returns -1, 0 or +1.
func (i Uint128Index) Compare(o Uint128Index) int {
	if c := cmp.Compare(i.Hi, o.Hi); c != 0 {
		return c
	}
	return cmp.Compare(i.Lo, o.Lo)
}

func (i Uint128Index) String() string { return fmt.Sprintf("%016X%016X", i.Hi, i.Lo) }

// BytesIndex is an index of arbitrary width. The bytes are big-endian,
// the last byte is level 0. The slice must not be modified while in use.
type BytesIndex []byte

func (b BytesIndex) Segment(level int) uint8 {
	if level < 0 || level >= len(b) {
		levelPanic(fmt.Sprintf("byte[%d]", len(b)), len(b), level)
	}
	return b[len(b)-1-level]
}

func (b BytesIndex) Levels() int { return len(b) }

// Compare returns -1, 0 or +1, shorter indices are padded with leading zeros.
func (b BytesIndex) Compare(o BytesIndex) int {
	for l := max(len(b), len(o)) - 1; l >= 0; l-- {
		if c := cmp.Compare(b.segmentOrZero(l), o.segmentOrZero(l)); c != 0 {
			return c
		}
	}
	return 0
}

func (b BytesIndex) String() string { return strings.ToUpper(hex.EncodeToString(b)) }

func (b BytesIndex) segmentOrZero(level int) uint8 {
	if level >= len(b) {
		return 0
	}
	return b.Segment(level)
}

// AddrIndex returns the index of an IPv4 (4 levels) or IPv6 (16 levels)
// address. IPv4-mapped IPv6 addresses keep their 16 levels.
// The zero Addr is not a valid index and returns nil.
func AddrIndex(addr netip.Addr) Index {
	switch {
	case addr.Is4():
		a4 := addr.As4()
		return Uint32Index(uint32(a4[0])<<24 | uint32(a4[1])<<16 | uint32(a4[2])<<8 | uint32(a4[3]))
	case addr.Is6():
		return Uint128FromBytes(addr.As16())
	}
	return nil
}
