// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"net/netip"

	"github.com/gaissmai/sparsebit"
)

// op is the mutation of an input line.
type op byte

const (
	opSet   op = '+'
	opClear op = '-'
	opFlip  op = '~'
)

func (o op) String() string {
	switch o {
	case opSet:
		return "set"
	case opClear:
		return "clear"
	case opFlip:
		return "flip"
	}
	return fmt.Sprintf("op(%q)", byte(o))
}

// addrSet holds one set per address family, 4 levels for IPv4
// and 16 levels for IPv6.
type addrSet struct {
	raw4, raw6 *sparsebit.Set

	// v4 and v6 wrap the raw sets, all concurrent access goes through them.
	v4, v6 *sparsebit.SyncSet
}

func newAddrSet(occupancy int) (*addrSet, error) {
	raw4, err := sparsebit.NewWithBits(32, sparsebit.WithMaximumOccupancy(occupancy))
	if err != nil {
		return nil, err
	}
	raw6, err := sparsebit.NewWithBits(128, sparsebit.WithMaximumOccupancy(occupancy))
	if err != nil {
		return nil, err
	}

	return &addrSet{
		raw4: raw4,
		raw6: raw6,
		v4:   sparsebit.NewSyncSet(raw4),
		v6:   sparsebit.NewSyncSet(raw6),
	}, nil
}

func (a *addrSet) family(addr netip.Addr) *sparsebit.SyncSet {
	if addr.Is4() {
		return a.v4
	}
	return a.v6
}

// apply performs o on the inclusive address range [from, to].
func (a *addrSet) apply(o op, from, to netip.Addr) error {
	if from.Is4() != to.Is4() {
		return fmt.Errorf("%w: mixed address families %s - %s", sparsebit.ErrInvalidRange, from, to)
	}

	bs := a.family(from)
	idxFrom, idxTo := sparsebit.AddrIndex(from), sparsebit.AddrIndex(to)

	switch o {
	case opSet:
		return bs.SetRange(idxFrom, idxTo)
	case opClear:
		return bs.ClearRange(idxFrom, idxTo)
	case opFlip:
		return bs.FlipRange(idxFrom, idxTo)
	}
	return fmt.Errorf("unknown operation %v", o)
}

// contains is safe for concurrent use.
func (a *addrSet) contains(addr netip.Addr) (bool, error) {
	return a.family(addr).Get(sparsebit.AddrIndex(addr))
}

// validate checks both trees.
func (a *addrSet) validate() error {
	if err := a.v4.Validate(); err != nil {
		return fmt.Errorf("IPv4: %w", err)
	}
	if err := a.v6.Validate(); err != nil {
		return fmt.Errorf("IPv6: %w", err)
	}
	return nil
}

// dump writes the tree structure of both families to w,
// not safe for concurrent use with any mutation.
func (a *addrSet) dump(w io.Writer) {
	fmt.Fprintln(w, "# IPv4")
	fmt.Fprint(w, a.raw4.String())
	fmt.Fprintln(w, "# IPv6")
	fmt.Fprint(w, a.raw6.String())
}
