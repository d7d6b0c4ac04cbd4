package graphdata

import (
	"fmt"
	"math/rand"
)

// SplitMap names the train/val/test index partition of a dataset. The three
// lists partition [0, total) exactly: no overlaps, no omissions.
type SplitMap struct {
	Train []int
	Val   []int
	Test  []int
}

// Total returns the number of indices across all three lists.
func (s SplitMap) Total() int { return len(s.Train) + len(s.Val) + len(s.Test) }

// Validate checks that the three lists partition [0, total) with every
// index appearing exactly once.
func (s SplitMap) Validate(total int) error {
	if got := s.Total(); got != total {
		return fmt.Errorf("split covers %d indices, want %d", got, total)
	}
	seen := make([]bool, total)
	for _, list := range [][]int{s.Train, s.Val, s.Test} {
		for _, idx := range list {
			if idx < 0 || idx >= total {
				return fmt.Errorf("split index %d outside [0, %d): %w", idx, total, ErrIndexOutOfRange)
			}
			if seen[idx] {
				return fmt.Errorf("split index %d appears more than once", idx)
			}
			seen[idx] = true
		}
	}
	return nil
}

// clone returns a deep copy so callers can hold a SplitMap without aliasing
// the partitioner's memoized state.
func (s SplitMap) clone() SplitMap {
	out := SplitMap{
		Train: make([]int, len(s.Train)),
		Val:   make([]int, len(s.Val)),
		Test:  make([]int, len(s.Test)),
	}
	copy(out.Train, s.Train)
	copy(out.Val, s.Val)
	copy(out.Test, s.Test)
	return out
}

// Fractions configures the relative sizes of the random split. The test
// fraction may be left zero; it then receives the remainder.
type Fractions struct {
	Train float64
	Val   float64
	Test  float64
}

// DefaultFractions returns the conventional 0.8/0.1/0.1 split.
func DefaultFractions() Fractions { return Fractions{Train: 0.8, Val: 0.1, Test: 0.1} }

func (f Fractions) validate() error {
	if f.Train < 0 || f.Val < 0 || f.Test < 0 {
		return fmt.Errorf("fractions %+v: %w", f, ErrBadFractions)
	}
	const eps = 1e-9
	if f.Train+f.Val+f.Test > 1+eps {
		return fmt.Errorf("fractions %+v sum to %.4f: %w", f, f.Train+f.Val+f.Test, ErrBadFractions)
	}
	return nil
}

// Partitioner deterministically cuts [0, total) into train/val/test index
// lists using a seeded shuffle. The partition is computed once and
// memoized; repeated Partition calls on the same instance return the same
// result rather than re-shuffling.
type Partitioner struct {
	total int
	fracs Fractions
	seed  int64
	memo  *SplitMap
}

// NewPartitioner validates the fractions and returns a partitioner. The
// seed is an explicit, required parameter: unseeded shuffling makes runs
// irreproducible.
func NewPartitioner(total int, fracs Fractions, seed int64) (*Partitioner, error) {
	if total < 0 {
		return nil, fmt.Errorf("total %d: %w", total, ErrIndexOutOfRange)
	}
	if fracs == (Fractions{}) {
		fracs = DefaultFractions()
	}
	if err := fracs.validate(); err != nil {
		return nil, err
	}
	return &Partitioner{total: total, fracs: fracs, seed: seed}, nil
}

// Partition returns the memoized SplitMap, computing it on first call.
// Sizes are floor(train·n) and floor(val·n); the test list consumes the
// remainder so all indices are used.
func (p *Partitioner) Partition() SplitMap {
	if p.memo != nil {
		return p.memo.clone()
	}
	perm := rand.New(rand.NewSource(p.seed)).Perm(p.total)

	nTrain := int(p.fracs.Train * float64(p.total))
	nVal := int(p.fracs.Val * float64(p.total))
	s := SplitMap{
		Train: perm[:nTrain],
		Val:   perm[nTrain : nTrain+nVal],
		Test:  perm[nTrain+nVal:],
	}
	p.memo = &s
	return s.clone()
}
