package graphdata

import "errors"

var (
	// ErrIndexOutOfRange indicates an index outside [0, Len()).
	ErrIndexOutOfRange = errors.New("graphdata: index out of range")
	// ErrBadFractions indicates negative split fractions or fractions
	// summing to more than 1. The test fraction may be left as remainder.
	ErrBadFractions = errors.New("graphdata: split fractions must be non-negative and sum to at most 1")
	// ErrMissingSplit indicates Join was called without all three parts.
	ErrMissingSplit = errors.New("graphdata: join requires train, val and test datasets")
	// ErrUnknownDataset indicates a (format, name) pair with no registered builder.
	ErrUnknownDataset = errors.New("graphdata: no builder registered for dataset")
)
