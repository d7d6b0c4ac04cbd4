// Package baseline provides cheap reference scorers for graph benchmark
// datasets. They produce predicted target vectors from structural graph
// properties alone, so a trained model has a floor to beat and the
// evaluation pipeline has deterministic input for tests.
package baseline

import (
	"errors"
	"math/rand"

	"github.com/Noofbiz/graphbench/graphdata"
)

// ErrEmptyTarget indicates a record with no target values to predict.
var ErrEmptyTarget = errors.New("baseline: record has no target values")

// Scorer predicts a target vector for one graph record. The prediction has
// the same length as the record's target so it can feed the evaluator
// directly.
type Scorer interface {
	Name() string
	Score(rec *graphdata.GraphRecord) ([]float64, error)
}

// RandomRanker emits uniform random scores. The seed fixes the sequence,
// so a given ranker instance is reproducible run to run.
type RandomRanker struct {
	name string
	rng  *rand.Rand
}

// NewRandomRanker creates a seeded random scorer.
func NewRandomRanker(seed int64) *RandomRanker {
	return &RandomRanker{name: "random", rng: rand.New(rand.NewSource(seed))}
}

func (r *RandomRanker) Name() string { return r.name }

// Score returns one uniform draw in [0, 1) per target entry.
func (r *RandomRanker) Score(rec *graphdata.GraphRecord) ([]float64, error) {
	if len(rec.Target) == 0 {
		return nil, ErrEmptyTarget
	}
	out := make([]float64, len(rec.Target))
	for i := range out {
		out[i] = r.rng.Float64()
	}
	return out, nil
}

// NodeCountScorer predicts the node count for every target entry. Graph
// size correlates with most structural targets, which makes this the
// classic "size only" baseline.
type NodeCountScorer struct{}

func (NodeCountScorer) Name() string { return "node_count" }

func (NodeCountScorer) Score(rec *graphdata.GraphRecord) ([]float64, error) {
	if len(rec.Target) == 0 {
		return nil, ErrEmptyTarget
	}
	out := make([]float64, len(rec.Target))
	n := float64(rec.NumNodes())
	for i := range out {
		out[i] = n
	}
	return out, nil
}

// EdgeWeightScorer predicts the mean edge weight for every target entry,
// falling back to zero for edgeless graphs.
type EdgeWeightScorer struct{}

func (EdgeWeightScorer) Name() string { return "edge_weight" }

func (EdgeWeightScorer) Score(rec *graphdata.GraphRecord) ([]float64, error) {
	if len(rec.Target) == 0 {
		return nil, ErrEmptyTarget
	}
	mean := 0.0
	if len(rec.EdgeWeights) > 0 {
		sum := 0.0
		for _, w := range rec.EdgeWeights {
			sum += float64(w)
		}
		mean = sum / float64(len(rec.EdgeWeights))
	}
	out := make([]float64, len(rec.Target))
	for i := range out {
		out[i] = mean
	}
	return out, nil
}
