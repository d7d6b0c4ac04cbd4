package graphdata

import "fmt"

// ItemCache memoizes the per-index materialization of GraphRecords. The
// first access for an index fetches the raw item, runs the transform chain
// and stores the result; later accesses only pay for a defensive copy.
//
// Slots are a fixed-size arena keyed by dense index: nil means unpopulated.
// A failed fetch or transform leaves the slot unpopulated so the caller can
// retry. The cache is safe for sequential re-entry from one logical pass at
// a time; it is not safe for concurrent writers.
type ItemCache struct {
	source    RawSource
	transform Transform
	slots     []*GraphRecord
}

// NewItemCache creates a cache over the given source and transform.
func NewItemCache(src RawSource, tf Transform) *ItemCache {
	return &ItemCache{
		source:    src,
		transform: tf,
		slots:     make([]*GraphRecord, src.Len()),
	}
}

// Len returns the number of cacheable items.
func (c *ItemCache) Len() int { return len(c.slots) }

// Get returns a fresh copy of the materialized record for index i,
// transforming and caching it on first access.
func (c *ItemCache) Get(i int) (*GraphRecord, error) {
	if i < 0 || i >= len(c.slots) {
		return nil, fmt.Errorf("cache index %d outside [0, %d): %w", i, len(c.slots), ErrIndexOutOfRange)
	}
	if c.slots[i] == nil {
		item, err := c.source.Fetch(i)
		if err != nil {
			return nil, fmt.Errorf("fetch item %d: %w", i, err)
		}
		rec, err := c.transform.Apply(item)
		if err != nil {
			return nil, fmt.Errorf("transform item %d: %w", i, err)
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		c.slots[i] = rec
	}
	return c.slots[i].Clone(), nil
}
