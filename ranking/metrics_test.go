package ranking

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOPA(t *testing.T) {
	// every qualifying ordered pair preserved
	assert.InDelta(t, 1.0, OPA([]float64{1, 3, 2}, []float64{1, 3, 2}), 1e-9)

	// true=[1,3,2] qualifies pairs (1,0), (1,2), (2,0); pred=[1,2,3]
	// preserves (1,0) and (2,0) but inverts (1,2)
	assert.InDelta(t, 2.0/3.0, OPA([]float64{1, 3, 2}, []float64{1, 2, 3}), 1e-9)

	// constant truth has no qualifying pair; guarded denominator gives 0
	assert.Equal(t, 0.0, OPA([]float64{2, 2, 2}, []float64{1, 2, 3}))
}

func TestTopKError(t *testing.T) {
	// k covers the whole item: regret collapses to 0 regardless of pred
	assert.Equal(t, 0.0, TopKError([]float64{5, 2, 9}, []float64{9, 5, 2}, 5))

	// pred's single best candidate is truth=5; global best is 1
	truth := []float64{5, 2, 9, 1}
	pred := []float64{0, 1, 2, 3}
	assert.InDelta(t, 4.0, TopKError(truth, pred, 1), 1e-9)
	// widening to k=2 reaches truth=2
	assert.InDelta(t, 1.0, TopKError(truth, pred, 2), 1e-9)
	// a perfect ranking has zero regret at every k
	assert.Equal(t, 0.0, TopKError(truth, []float64{2, 1, 3, 0}, 1))

	assert.Equal(t, 0.0, TopKError(nil, nil, 3))
}

func TestOneMinusSlowdown(t *testing.T) {
	truth := []float64{5, 2, 9, 1}
	// perfect ranking: predicted top-k contains the global best
	assert.InDelta(t, 1.0, OneMinusSlowdown(truth, []float64{2, 1, 3, 0}, 2), 1e-9)
	// top-1 lands on truth=5: 2 - 5/1 = -3
	assert.InDelta(t, -3.0, OneMinusSlowdown(truth, []float64{0, 1, 2, 3}, 1), 1e-9)
	// k clamps to n-1; single-candidate items score the optimum
	assert.Equal(t, 1.0, OneMinusSlowdown([]float64{4}, []float64{1}, 5))
	assert.Equal(t, 1.0, OneMinusSlowdown(nil, nil, 5))
}

func TestSpearman(t *testing.T) {
	assert.InDelta(t, 1.0, Spearman([]float64{1, 2, 3, 4}, []float64{10, 20, 30, 40}), 1e-9)
	assert.InDelta(t, -1.0, Spearman([]float64{1, 2, 3, 4}, []float64{4, 3, 2, 1}), 1e-9)

	// NaN positions are masked pairwise before ranking
	truth := []float64{1, math.NaN(), 3, 4}
	pred := []float64{1, 1000, 3, 4}
	assert.InDelta(t, 1.0, Spearman(truth, pred), 1e-9)

	// fewer than two valid pairs is undefined
	assert.True(t, math.IsNaN(Spearman([]float64{1, math.NaN()}, []float64{1, 2})))
}

func TestKendall(t *testing.T) {
	assert.InDelta(t, 1.0, Kendall([]float64{1, 2, 3}, []float64{4, 5, 6}), 1e-9)
	assert.InDelta(t, -1.0, Kendall([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-9)
	assert.True(t, math.IsNaN(Kendall([]float64{1}, []float64{1})))
}

func TestBottomK(t *testing.T) {
	vals := []float64{5, 1, 4, 2, 3}
	got := bottomK(vals, 2)
	assert.Len(t, got, 2)
	sum := vals[got[0]] + vals[got[1]]
	assert.Equal(t, 3.0, sum) // the two smallest are 1 and 2

	assert.Len(t, bottomK(vals, 10), 5)
}
