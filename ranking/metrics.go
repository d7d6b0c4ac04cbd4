package ranking

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// opaEps guards the ordered-pair accuracy denominator when no pair
// qualifies.
const opaEps = 1e-10

// Spearman returns the Spearman rank correlation between truth and pred.
// Positions where either value is NaN are excluded before ranking, so
// undefined labels never reach the correlation input. Returns NaN when
// fewer than two valid pairs remain.
func Spearman(truth, pred []float64) float64 {
	t := make([]float64, 0, len(truth))
	p := make([]float64, 0, len(pred))
	for i := range truth {
		if math.IsNaN(truth[i]) || math.IsNaN(pred[i]) {
			continue
		}
		t = append(t, truth[i])
		p = append(p, pred[i])
	}
	if len(t) < 2 {
		return math.NaN()
	}
	return stat.Correlation(ranks(t), ranks(p), nil)
}

// Kendall returns Kendall's tau between the predicted and true orderings.
func Kendall(truth, pred []float64) float64 {
	if len(truth) < 2 {
		return math.NaN()
	}
	return stat.Kendall(pred, truth, nil)
}

// OPA returns the ordered-pair accuracy: over all ordered pairs (i, j)
// with truth[i] > truth[j], the fraction where pred[i] > pred[j] holds
// too. The denominator is epsilon-guarded so items with no qualifying pair
// score 0 instead of dividing by zero.
func OPA(truth, pred []float64) float64 {
	var qualify, agree float64
	for i := range truth {
		for j := range truth {
			if truth[i] > truth[j] {
				qualify++
				if pred[i] > pred[j] {
					agree++
				}
			}
		}
	}
	return agree / (qualify + opaEps)
}

// TopKError returns the normalized top-k regret: take the k candidates the
// model scored smallest, look up the best true value among them, and
// report how far it is above the true global best, relative to that best.
// Items with at most k candidates collapse to 0 by construction.
func TopKError(truth, pred []float64, k int) float64 {
	if len(truth) == 0 {
		return 0
	}
	best := floats.Min(truth)
	predBest := best
	if len(truth) > k {
		predBest = minOver(truth, bottomK(pred, k))
	}
	return (predBest - best) / best
}

// OneMinusSlowdown returns 2 − (best true value among the predicted
// top-k)/(true global best): a bounded slowdown-style score where 1.0 is
// optimal. k is clamped to len−1; degenerate single-candidate items score
// the optimum.
func OneMinusSlowdown(truth, pred []float64, k int) float64 {
	if len(truth) == 0 {
		return 1
	}
	if k > len(truth)-1 {
		k = len(truth) - 1
	}
	if k < 1 {
		return 1
	}
	best := floats.Min(truth)
	predBest := minOver(truth, bottomK(pred, k))
	return 2 - predBest/best
}

// ranks assigns 1-based ranks with ties receiving their average rank.
func ranks(x []float64) []float64 {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	r := make([]float64, len(x))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && x[idx[j+1]] == x[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for t := i; t <= j; t++ {
			r[idx[t]] = avg
		}
		i = j + 1
	}
	return r
}

// bottomK returns the indices of the k smallest values using an in-place
// quickselect over an index slice, a partial selection rather than a full
// sort.
// The returned indices are in no particular order. k must be in (0, len).
func bottomK(vals []float64, k int) []int {
	idx := make([]int, len(vals))
	for i := range idx {
		idx[i] = i
	}
	if k >= len(idx) {
		return idx
	}
	lo, hi := 0, len(idx)-1
	for lo < hi {
		p := partitionAround(vals, idx, lo, hi)
		switch {
		case p == k-1:
			return idx[:k]
		case p < k-1:
			lo = p + 1
		default:
			hi = p - 1
		}
	}
	return idx[:k]
}

// partitionAround partitions idx[lo:hi+1] around the value at the middle
// position, returning the pivot's final position. Deterministic pivot
// choice keeps selection reproducible.
func partitionAround(vals []float64, idx []int, lo, hi int) int {
	mid := lo + (hi-lo)/2
	idx[mid], idx[hi] = idx[hi], idx[mid]
	pivot := vals[idx[hi]]
	store := lo
	for i := lo; i < hi; i++ {
		if vals[idx[i]] < pivot {
			idx[store], idx[i] = idx[i], idx[store]
			store++
		}
	}
	idx[store], idx[hi] = idx[hi], idx[store]
	return store
}

func minOver(vals []float64, ids []int) float64 {
	m := math.Inf(1)
	for _, i := range ids {
		if vals[i] < m {
			m = vals[i]
		}
	}
	return m
}

// nanMean averages the finite entries of xs, skipping NaNs produced by
// degenerate items (e.g. constant vectors). Returns NaN when nothing
// remains.
func nanMean(xs []float64) float64 {
	sum, n := 0.0, 0
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		sum += x
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
