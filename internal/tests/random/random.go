// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package random generates deterministic keys, ranges and addresses for
// property tests. The keys are biased towards segment boundaries, a uniform
// key almost never hits the squash and unfold paths.
package random

import (
	"math/rand/v2"
	"net/netip"
)

// Segment returns a random byte, every fourth call one of 0x00, 0x01, 0xfe, 0xff.
func Segment(prng *rand.Rand) uint8 {
	if prng.IntN(4) == 0 {
		return [...]uint8{0x00, 0x01, 0xfe, 0xff}[prng.IntN(4)]
	}
	return uint8(prng.Uint32())
}

// Key returns a random key in [0, 2^(8*levels)), levels in [1, 8].
func Key(prng *rand.Rand, levels int) uint64 {
	var k uint64
	for range levels {
		k = k<<8 | uint64(Segment(prng))
	}
	return k
}

// Range returns an ordered inclusive range of keys.
//
// Most ranges are short and stay within one or two leaves,
// some span a few complete segments, a few are huge.
func Range(prng *rand.Rand, levels int) (from, to uint64) {
	from = Key(prng, levels)

	maxKey := uint64(1)<<(8*levels) - 1
	if levels >= 8 {
		maxKey = ^uint64(0)
	}

	var width uint64
	switch n := prng.IntN(10); {
	case n < 5:
		width = uint64(prng.IntN(300))
	case n < 9:
		width = uint64(prng.IntN(4)+1)<<8 | uint64(prng.IntN(256))
	default:
		width = prng.Uint64N(maxKey) + 1
	}

	to = from + width
	if to < from || to > maxKey {
		to = maxKey
	}
	return from, to
}

// IP4 returns a random IPv4 address.
func IP4(prng *rand.Rand) netip.Addr {
	var b [4]byte
	for i := range b {
		b[i] = Segment(prng)
	}
	return netip.AddrFrom4(b)
}

// IP6 returns a random IPv6 address.
func IP6(prng *rand.Rand) netip.Addr {
	var b [16]byte
	for i := range b {
		b[i] = Segment(prng)
	}
	return netip.AddrFrom16(b)
}

// Prefix4 returns a random and masked IPv4 prefix.
func Prefix4(prng *rand.Rand) netip.Prefix {
	pfx, err := IP4(prng).Prefix(prng.IntN(33))
	if err != nil {
		panic(err)
	}
	return pfx
}

// Prefix6 returns a random and masked IPv6 prefix.
func Prefix6(prng *rand.Rand) netip.Prefix {
	pfx, err := IP6(prng).Prefix(prng.IntN(129))
	if err != nil {
		panic(err)
	}
	return pfx
}
