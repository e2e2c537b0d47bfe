// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
)

var errSkip = errors.New("skip line")

// entry is one parsed input line.
type entry struct {
	op       op
	from, to netip.Addr
}

// parseLine parses a line of the form
//
//	[+|-|~]item
//
// where item is an address, a CIDR or an inclusive range "from-to".
// Empty lines and comments starting with '#' return errSkip.
func parseLine(line string) (entry, error) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' {
		return entry{}, errSkip
	}

	e := entry{op: opSet}
	switch op(line[0]) {
	case opSet, opClear, opFlip:
		e.op = op(line[0])
		line = strings.TrimSpace(line[1:])
	}

	var err error
	switch {
	case strings.Contains(line, "/"):
		var pfx netip.Prefix
		if pfx, err = netip.ParsePrefix(line); err != nil {
			return entry{}, err
		}
		e.from, e.to = firstAddr(pfx), lastAddr(pfx)

	case strings.Contains(line, "-"):
		lo, hi, _ := strings.Cut(line, "-")
		if e.from, err = parseAddr(lo); err != nil {
			return entry{}, err
		}
		if e.to, err = parseAddr(hi); err != nil {
			return entry{}, err
		}

	default:
		if e.from, err = parseAddr(line); err != nil {
			return entry{}, err
		}
		e.to = e.from
	}

	return e, nil
}

// parseAddr parses an address, IPv4-mapped IPv6 addresses are unmapped,
// zones are rejected.
func parseAddr(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return netip.Addr{}, err
	}
	if addr.Zone() != "" {
		return netip.Addr{}, fmt.Errorf("address with zone not supported: %s", s)
	}
	return addr.Unmap(), nil
}

func firstAddr(pfx netip.Prefix) netip.Addr {
	return pfx.Masked().Addr().Unmap()
}

// lastAddr returns the last address of pfx, all host bits set.
func lastAddr(pfx netip.Prefix) netip.Addr {
	pfx = pfx.Masked()
	addr := pfx.Addr()

	bits := pfx.Bits()
	if addr.Is4() {
		bits += 96
	}

	a16 := addr.As16()
	for i := bits; i < 128; i++ {
		a16[i/8] |= 0x80 >> (i % 8)
	}

	last := netip.AddrFrom16(a16)
	if addr.Is4() || addr.Is4In6() {
		return last.Unmap()
	}
	return last
}
