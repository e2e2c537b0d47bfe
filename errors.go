// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparsebit

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned by the constructors for a non-positive
	// level count or an occupancy threshold outside [2, 256].
	ErrInvalidConfig = errors.New("sparsebit: invalid configuration")

	// ErrInvalidIndex is returned for a nil index or an index with
	// fewer levels than the set.
	ErrInvalidIndex = errors.New("sparsebit: invalid index")

	// ErrInvalidRange is returned if from > to.
	ErrInvalidRange = errors.New("sparsebit: invalid range")

	// ErrUnsupported is returned by the read-only and hybrid sets
	// for operations outside their contract.
	ErrUnsupported = fmt.Errorf("sparsebit: %w", errors.ErrUnsupported)

	// ErrCorrupted is returned by Validate, it signals a bug, not a usage error.
	ErrCorrupted = errors.New("sparsebit: structure corrupted")
)

func corruptedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorrupted, fmt.Sprintf(format, args...))
}
