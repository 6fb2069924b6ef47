package gostructs

import "github.com/pkg/errors"

// Error kinds returned by the structures in this package. Call sites wrap them
// with context, so match with errors.Is rather than ==.
var (
	// ErrInvalidElement is returned when a DisjointSetForest element is outside [0, n)
	ErrInvalidElement = errors.New("gostructs: invalid element")

	// ErrIndexOutOfRange is returned when a SegmentTree index is outside [0, n)
	ErrIndexOutOfRange = errors.New("gostructs: index out of range")

	// ErrInvalidCapacity is returned when an LRUCache is created with a capacity below 1
	ErrInvalidCapacity = errors.New("gostructs: invalid capacity")

	// ErrInvalidConfiguration is returned when a construction-time parameter
	// violates a structural precondition, or two filters can't be combined
	ErrInvalidConfiguration = errors.New("gostructs: invalid configuration")

	// ErrKeyNotFound signals a cache miss. It is an expected condition.
	ErrKeyNotFound = errors.New("gostructs: key not found")

	// ErrInvalidRange is returned for a malformed inclusive query range
	ErrInvalidRange = errors.New("gostructs: invalid range")
)
