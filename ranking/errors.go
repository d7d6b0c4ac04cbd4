package ranking

import "errors"

var (
	// ErrShapeMismatch indicates prediction and ground-truth shapes
	// disagree at batch-accumulation time.
	ErrShapeMismatch = errors.New("ranking: prediction and ground-truth shapes disagree")
	// ErrNoBatches indicates Report was called on an empty accumulator.
	ErrNoBatches = errors.New("ranking: no batches accumulated")
)
