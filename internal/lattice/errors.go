package lattice

import (
	"errors"
	"math"
)

// Construction errors. None of them are retryable.
var (
	ErrInvalidDimensions = errors.New("lattice dimensions must be >= 1")
	ErrInvalidLength     = errors.New("lattice dimension length must be >= 1")
	ErrSizeOverflow      = errors.New("lattice size exceeds 2^32-1 values")
	ErrAllocation        = errors.New("lattice buffer could not be allocated")
)

// OutOfDomain is returned by per-query accessors instead of an error when the
// query does not fit the lattice (wrong arity or coordinate out of range).
var OutOfDomain = math.Inf(1)

// IsOutOfDomain reports whether v is the out-of-domain marker.
func IsOutOfDomain(v float64) bool {
	return math.IsInf(v, 1)
}
