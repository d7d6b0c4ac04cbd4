package graphdata

import "fmt"

// Options configures dataset assembly. Everything is explicit here on
// purpose: split fractions, normalization and filtering are constructor
// parameters, never ambient state.
type Options struct {
	// Fractions for the random split when the source has no canonical
	// split. Zero value means DefaultFractions.
	Fractions Fractions

	// Seed drives the split shuffle. Pass a fixed value for reproducible
	// partitions.
	Seed int64

	// MaxNodes drops graphs with more nodes than this before split indices
	// are assigned, so splits always refer to post-filter items. 0 disables
	// the filter.
	MaxNodes int

	// Cap limits the logical dataset length (useful for fast iteration
	// during development). Applied after filtering and before splitting so
	// every length query sees the same value. 0 disables the cap.
	Cap int

	// CenterTargets subtracts the train-partition mean target from every
	// retrieved record's target.
	CenterTargets bool
}

// Dataset is an assembled, index-addressable collection of GraphRecords
// with a fixed train/val/test split and a frozen target-normalization stat.
// Construction decides everything; a Dataset never re-splits, re-filters or
// recomputes its normalization afterwards.
type Dataset struct {
	name   string
	cache  *ItemCache
	index  []int // logical index -> cache index, post-filter, post-cap
	splits SplitMap
	mean   []float64 // per-dimension train target mean, nil unless centering
	center bool
}

// Assemble builds a dataset from a raw source and transform chain.
//
// The steps run in a fixed order: structural filtering, length cap, split
// selection (canonical split wins over seeded shuffling), then the
// train-only normalization stat. Filtering and normalization materialize
// records through the cache, so the work is not repeated on later access.
func Assemble(name string, src RawSource, tf Transform, opts Options) (*Dataset, error) {
	cache := NewItemCache(src, tf)

	index := make([]int, 0, cache.Len())
	if opts.MaxNodes > 0 {
		for i := 0; i < cache.Len(); i++ {
			rec, err := cache.Get(i)
			if err != nil {
				return nil, fmt.Errorf("dataset %s: filter pre-pass: %w", name, err)
			}
			if rec.NumNodes() <= opts.MaxNodes {
				index = append(index, i)
			}
		}
	} else {
		for i := 0; i < cache.Len(); i++ {
			index = append(index, i)
		}
	}

	if opts.Cap > 0 && opts.Cap < len(index) {
		index = index[:opts.Cap]
	}

	splits, err := resolveSplits(src, index, opts)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", name, err)
	}

	d := &Dataset{
		name:   name,
		cache:  cache,
		index:  index,
		splits: splits,
		center: opts.CenterTargets,
	}
	if opts.CenterTargets {
		mean, err := meanTarget(d, splits.Train)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", name, err)
		}
		d.mean = mean
	}
	return d, nil
}

// resolveSplits prefers a canonical split from the source, remapped through
// the post-filter logical index space; otherwise it shuffles with the
// configured seed.
func resolveSplits(src RawSource, index []int, opts Options) (SplitMap, error) {
	if cs, ok := src.(CanonicalSplitter); ok {
		raw, err := cs.CanonicalSplit()
		if err != nil {
			return SplitMap{}, fmt.Errorf("canonical split: %w", err)
		}
		if err := raw.Validate(src.Len()); err != nil {
			return SplitMap{}, fmt.Errorf("canonical split: %w", err)
		}
		s := remapSplit(raw, index)
		if err := s.Validate(len(index)); err != nil {
			return SplitMap{}, fmt.Errorf("canonical split after filtering: %w", err)
		}
		return s, nil
	}

	p, err := NewPartitioner(len(index), opts.Fractions, opts.Seed)
	if err != nil {
		return SplitMap{}, err
	}
	return p.Partition(), nil
}

// remapSplit translates raw source indices to logical positions, dropping
// indices removed by the filter pre-pass or the cap.
func remapSplit(raw SplitMap, index []int) SplitMap {
	logical := make(map[int]int, len(index))
	for pos, rawIdx := range index {
		logical[rawIdx] = pos
	}
	remap := func(list []int) []int {
		out := make([]int, 0, len(list))
		for _, rawIdx := range list {
			if pos, ok := logical[rawIdx]; ok {
				out = append(out, pos)
			}
		}
		return out
	}
	return SplitMap{Train: remap(raw.Train), Val: remap(raw.Val), Test: remap(raw.Test)}
}

// meanTarget computes the per-dimension mean target over the given logical
// indices using raw (uncentered) records.
func meanTarget(d *Dataset, train []int) ([]float64, error) {
	if len(train) == 0 {
		return nil, fmt.Errorf("cannot normalize targets with an empty train split")
	}
	var sum []float64
	for _, i := range train {
		rec, err := d.raw(i)
		if err != nil {
			return nil, err
		}
		if sum == nil {
			sum = make([]float64, len(rec.Target))
		}
		if len(rec.Target) != len(sum) {
			return nil, fmt.Errorf("target dimension mismatch: item %d has %d values, want %d",
				i, len(rec.Target), len(sum))
		}
		for j, v := range rec.Target {
			sum[j] += float64(v)
		}
	}
	for j := range sum {
		sum[j] /= float64(len(train))
	}
	return sum, nil
}

// Name returns the dataset identifier.
func (d *Dataset) Name() string { return d.name }

// Len returns the logical dataset length. It may be smaller than the raw
// source length when filtering or a cap applies, and is consistent with
// every index in the SplitMap.
func (d *Dataset) Len() int { return len(d.index) }

// raw returns an uncentered copy of the record at logical index i.
func (d *Dataset) raw(i int) (*GraphRecord, error) {
	if i < 0 || i >= len(d.index) {
		return nil, fmt.Errorf("dataset index %d outside [0, %d): %w", i, len(d.index), ErrIndexOutOfRange)
	}
	return d.cache.Get(d.index[i])
}

// Get returns a copy of the record at logical index i, with its target
// centered by the frozen train-mean stat when normalization is enabled.
// The cached master record keeps the raw target.
func (d *Dataset) Get(i int) (*GraphRecord, error) {
	rec, err := d.raw(i)
	if err != nil {
		return nil, err
	}
	if d.center && d.mean != nil {
		for j := range rec.Target {
			rec.Target[j] -= float32(d.mean[j])
		}
	}
	return rec, nil
}

// Splits returns a copy of the dataset's train/val/test partition.
func (d *Dataset) Splits() SplitMap { return d.splits.clone() }

// MeanTarget returns a copy of the frozen normalization stat, or nil when
// target centering is disabled.
func (d *Dataset) MeanTarget() []float64 {
	if d.mean == nil {
		return nil
	}
	out := make([]float64, len(d.mean))
	copy(out, d.mean)
	return out
}

// mergedSource reads already-materialized records from dataset parts in
// train, val, test order.
type mergedSource struct {
	parts []*Dataset
}

func (m *mergedSource) Len() int {
	total := 0
	for _, p := range m.parts {
		total += p.Len()
	}
	return total
}

func (m *mergedSource) Fetch(i int) (any, error) {
	for _, p := range m.parts {
		if i < p.Len() {
			return p.raw(i)
		}
		i -= p.Len()
	}
	return nil, fmt.Errorf("merged source index %d: %w", i, ErrIndexOutOfRange)
}

// Join merges three independently assembled per-split datasets into one
// unified collection. Items are concatenated in train, val, test order and
// the resulting SplitMap is the contiguous ranges [0, n1), [n1, n1+n2),
// [n1+n2, n1+n2+n3), deterministic and independent of any randomness.
//
// Join is a pure constructor: the input datasets are left untouched. Target
// centering is inherited from the train part and its mean is recomputed
// over the merged train range.
func Join(train, val, test *Dataset) (*Dataset, error) {
	if train == nil || val == nil || test == nil {
		return nil, ErrMissingSplit
	}
	src := &mergedSource{parts: []*Dataset{train, val, test}}

	n1, n2, n3 := train.Len(), val.Len(), test.Len()
	splits := SplitMap{
		Train: iotaRange(0, n1),
		Val:   iotaRange(n1, n1+n2),
		Test:  iotaRange(n1+n2, n1+n2+n3),
	}

	d := &Dataset{
		name:   train.name,
		cache:  NewItemCache(src, IdentityTransform()),
		index:  iotaRange(0, n1+n2+n3),
		splits: splits,
		center: train.center,
	}
	if d.center {
		mean, err := meanTarget(d, splits.Train)
		if err != nil {
			return nil, fmt.Errorf("join %s: %w", d.name, err)
		}
		d.mean = mean
	}
	return d, nil
}

func iotaRange(lo, hi int) []int {
	out := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, i)
	}
	return out
}

// EstimateUndirected reports whether the dataset looks undirected by
// inspecting the first sample graphs. The sample size is explicit; pass 0
// for the conventional default of 10.
func EstimateUndirected(d *Dataset, sample int) (bool, error) {
	if sample <= 0 {
		sample = 10
	}
	if sample > d.Len() {
		sample = d.Len()
	}
	for i := 0; i < sample; i++ {
		rec, err := d.Get(i)
		if err != nil {
			return false, err
		}
		if !rec.Undirected() {
			return false, nil
		}
	}
	return true, nil
}
