package graphdata

import (
	"errors"
	"reflect"
	"testing"
)

func TestPartitionCompleteness(t *testing.T) {
	for _, total := range []int{1, 10, 1000} {
		p, err := NewPartitioner(total, DefaultFractions(), 7)
		if err != nil {
			t.Fatalf("total %d: %v", total, err)
		}
		s := p.Partition()
		if err := s.Validate(total); err != nil {
			t.Fatalf("total %d: partition is not exact: %v", total, err)
		}
	}
}

func TestPartitionDeterministicBySeed(t *testing.T) {
	const total = 100
	a, err := NewPartitioner(total, DefaultFractions(), 11)
	if err != nil {
		t.Fatalf("new partitioner: %v", err)
	}
	b, err := NewPartitioner(total, DefaultFractions(), 11)
	if err != nil {
		t.Fatalf("new partitioner: %v", err)
	}
	if !reflect.DeepEqual(a.Partition(), b.Partition()) {
		t.Fatalf("same seed produced different partitions")
	}

	c, err := NewPartitioner(total, DefaultFractions(), 12)
	if err != nil {
		t.Fatalf("new partitioner: %v", err)
	}
	sa, sc := a.Partition(), c.Partition()
	if len(sa.Train) != len(sc.Train) || len(sa.Val) != len(sc.Val) || len(sa.Test) != len(sc.Test) {
		t.Fatalf("different seeds changed split sizes: %d/%d/%d vs %d/%d/%d",
			len(sa.Train), len(sa.Val), len(sa.Test), len(sc.Train), len(sc.Val), len(sc.Test))
	}
	if reflect.DeepEqual(sa, sc) {
		t.Fatalf("different seeds produced identical partition contents")
	}
}

func TestPartitionMemoized(t *testing.T) {
	p, err := NewPartitioner(50, DefaultFractions(), 3)
	if err != nil {
		t.Fatalf("new partitioner: %v", err)
	}
	first := p.Partition()
	// mutate the returned copy; the memoized partition must be unaffected
	first.Train[0] = -1
	second := p.Partition()
	if second.Train[0] == -1 {
		t.Fatalf("mutating a returned SplitMap leaked into the memoized state")
	}
	if !reflect.DeepEqual(second, p.Partition()) {
		t.Fatalf("repeated Partition calls disagree")
	}
}

func TestBadFractions(t *testing.T) {
	cases := []Fractions{
		{Train: -0.1, Val: 0.5, Test: 0.5},
		{Train: 0.8, Val: 0.3, Test: 0.1},
	}
	for _, fr := range cases {
		if _, err := NewPartitioner(10, fr, 1); !errors.Is(err, ErrBadFractions) {
			t.Fatalf("fractions %+v: want ErrBadFractions, got %v", fr, err)
		}
	}
	// test fraction may be left as remainder
	if _, err := NewPartitioner(10, Fractions{Train: 0.8, Val: 0.1}, 1); err != nil {
		t.Fatalf("remainder test fraction rejected: %v", err)
	}
}

func TestSplitMapValidateRejectsDuplicates(t *testing.T) {
	s := SplitMap{Train: []int{0, 1}, Val: []int{1}, Test: []int{2}}
	if err := s.Validate(4); err == nil {
		t.Fatalf("expected error for duplicated index 1")
	}
	s = SplitMap{Train: []int{0, 1}, Val: []int{2}, Test: []int{5}}
	if err := s.Validate(4); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("want ErrIndexOutOfRange for index 5, got %v", err)
	}
}
