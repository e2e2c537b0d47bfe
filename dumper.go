// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparsebit

import (
	"fmt"
	"io"
	"strings"
)

// ##################################################
//  useful during development, debugging and testing
// ##################################################

// String returns the dump of the tree structure.
func (s *Set) String() string {
	w := new(strings.Builder)
	s.dump(w)

	return w.String()
}

// dump the set structure and all the real levels to w.
func (s *Set) dump(w io.Writer) {
	if s == nil {
		return
	}

	st := s.Stats()
	fmt.Fprintf(w, "### levels(%d) occupancy(%d) inner(%d) leaves(%d) full(%d)\n",
		s.levels, s.maximumOccupancy, st.InnerLevels, st.LeafLevels, st.FullSlots)

	dumpRec(w, s.root, nil)
}

// dumpRec, rec-descent the tree, path holds the segments from the root.
func dumpRec(w io.Writer, lvl realLevel, path []uint8) {
	indent := strings.Repeat(".", len(path))

	switch n := lvl.(type) {
	case *leafLevel:
		fmt.Fprintf(w, "%s[LEAF] path: [%s] occupancy: %d\n", indent, pathFmt(path), n.occupancy)
		if n.occupancy != 0 {
			fmt.Fprintf(w, "%sbits(#%d): %v\n", indent, n.occupancy, n.bits.All())
		}

	case *innerLevel:
		fmt.Fprintf(w, "%s[INNER] depth: %d path: [%s] full: %d real: %d\n",
			indent, n.depth, pathFmt(path), n.fullCount, n.realCount)

		var fulls, reals []uint8
		for seg, slot := range n.slots {
			switch slot.(type) {
			case fullLevel:
				fulls = append(fulls, uint8(seg))
			case realLevel:
				reals = append(reals, uint8(seg))
			}
		}

		if len(fulls) != 0 {
			fmt.Fprintf(w, "%sfull(#%d): %s\n", indent, len(fulls), segsFmt(fulls))
		}
		if len(reals) != 0 {
			fmt.Fprintf(w, "%sreal(#%d): %s\n", indent, len(reals), segsFmt(reals))
		}

		for _, seg := range reals {
			dumpRec(w, n.slots[seg].(realLevel), append(path, seg))
		}
	}
}

// pathFmt, hex segments joined by dots, most significant first.
func pathFmt(path []uint8) string {
	if len(path) == 0 {
		return "root"
	}
	return segsFmt(path, ".")
}

func segsFmt(segs []uint8, sep ...string) string {
	delim := " "
	if len(sep) != 0 {
		delim = sep[0]
	}

	parts := make([]string, 0, len(segs))
	for _, seg := range segs {
		parts = append(parts, fmt.Sprintf("%02x", seg))
	}
	return strings.Join(parts, delim)
}
