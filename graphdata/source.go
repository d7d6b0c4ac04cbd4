package graphdata

import "fmt"

// RawSource is an ordered, fixed-length collection of convertible items.
// Sources are externally owned and read-only from this package's
// perspective; fetch latency is the source's concern.
type RawSource interface {
	Len() int
	Fetch(i int) (any, error)
}

// CanonicalSplitter is implemented by sources that define their own
// authoritative train/val/test partition. A canonical split always takes
// precedence over seeded shuffling and is never re-split.
type CanonicalSplitter interface {
	CanonicalSplit() (SplitMap, error)
}

// Transform converts one native item into a GraphRecord. Implementations
// must be pure and deterministic: the cache relies on repeated applications
// producing identical records.
type Transform interface {
	Apply(item any) (*GraphRecord, error)
}

// TransformFunc adapts a plain function to the Transform interface.
type TransformFunc func(item any) (*GraphRecord, error)

// Apply implements Transform.
func (f TransformFunc) Apply(item any) (*GraphRecord, error) { return f(item) }

// IdentityTransform passes through items that already are *GraphRecord.
// Useful for sources that materialize records themselves, and for merging.
func IdentityTransform() Transform {
	return TransformFunc(func(item any) (*GraphRecord, error) {
		rec, ok := item.(*GraphRecord)
		if !ok {
			return nil, fmt.Errorf("identity transform expects *GraphRecord, got %T", item)
		}
		return rec, nil
	})
}

// SliceSource adapts an in-memory slice of items to the RawSource interface.
type SliceSource struct {
	Items []any
}

// Len returns the number of items.
func (s *SliceSource) Len() int { return len(s.Items) }

// Fetch returns the item at index i.
func (s *SliceSource) Fetch(i int) (any, error) {
	if i < 0 || i >= len(s.Items) {
		return nil, fmt.Errorf("slice source index %d outside [0, %d): %w", i, len(s.Items), ErrIndexOutOfRange)
	}
	return s.Items[i], nil
}
