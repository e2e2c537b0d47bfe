// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparsebit

// maxOccupancy is the number of slots per level, 256 for a byte segment.
const maxOccupancy = 256

type options struct {
	maximumOccupancy int
}

func defaultOptions() options {
	return options{maximumOccupancy: maxOccupancy}
}

// Option configures a Set at construction.
type Option func(*options)

// WithMaximumOccupancy sets the number of occupied slots, 2..256,
// at which a level is squashed to full.
//
// With the default of 256 the set is precise. With a smaller value
// a level holding n >= maximumOccupancy bits (or full children) is
// reported as completely set, trading up to 256-n false positives
// per level for memory.
func WithMaximumOccupancy(n int) Option {
	return func(o *options) {
		o.maximumOccupancy = n
	}
}
