package graphdata

import (
	"errors"
	"fmt"
	"testing"
)

// countingTransform wraps IdentityTransform and counts applications.
type countingTransform struct {
	calls int
}

func (c *countingTransform) Apply(item any) (*GraphRecord, error) {
	rec, ok := item.(*GraphRecord)
	if !ok {
		return nil, fmt.Errorf("expected *GraphRecord, got %T", item)
	}
	c.calls++
	return rec, nil
}

func newRecordSource(targets ...float32) *SliceSource {
	items := make([]any, len(targets))
	for i, tg := range targets {
		items[i] = testRecord(3, tg)
	}
	return &SliceSource{Items: items}
}

func TestCacheIdempotence(t *testing.T) {
	src := newRecordSource(1, 2, 3)
	tf := &countingTransform{}
	cache := NewItemCache(src, tf)

	first, err := cache.Get(1)
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	second, err := cache.Get(1)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if tf.calls != 1 {
		t.Fatalf("transform applied %d times for one index, want 1", tf.calls)
	}
	if first.Target[0] != second.Target[0] {
		t.Fatalf("repeated gets disagree: %v vs %v", first.Target, second.Target)
	}

	// returned records are distinct copies
	first.Target[0] = 99
	third, err := cache.Get(1)
	if err != nil {
		t.Fatalf("third get: %v", err)
	}
	if third.Target[0] == 99 {
		t.Fatalf("mutating a returned record changed the cached master")
	}
}

func TestCacheOutOfRange(t *testing.T) {
	cache := NewItemCache(newRecordSource(1), IdentityTransform())
	if _, err := cache.Get(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("index -1: want ErrIndexOutOfRange, got %v", err)
	}
	if _, err := cache.Get(1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("index 1: want ErrIndexOutOfRange, got %v", err)
	}
}

func TestCacheRetryAfterTransformFailure(t *testing.T) {
	src := newRecordSource(7)
	failed := false
	tf := TransformFunc(func(item any) (*GraphRecord, error) {
		if !failed {
			failed = true
			return nil, fmt.Errorf("transient failure")
		}
		return item.(*GraphRecord), nil
	})
	cache := NewItemCache(src, tf)

	if _, err := cache.Get(0); err == nil {
		t.Fatalf("expected first get to fail")
	}
	rec, err := cache.Get(0)
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if rec.Target[0] != 7 {
		t.Fatalf("retry returned wrong record: target %v", rec.Target)
	}
}
