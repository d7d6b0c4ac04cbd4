package ranking

import "fmt"

// Task selects which metric panel Report computes.
type Task string

const (
	// TaskRanking scores predicted orderings per item.
	TaskRanking Task = "ranking"
	// TaskRegression scores predicted values directly.
	TaskRegression Task = "regression"
	// TaskBinaryClassification scores probability-like scores against 0/1
	// labels.
	TaskBinaryClassification Task = "classification_binary"
)

// Config holds the evaluator's explicit knobs.
type Config struct {
	// Round is the number of digits metric values are rounded to in the
	// report. 0 means the conventional 5.
	Round int

	// TopKs lists the k values for top-k regret. Empty means {1, 3, 5, 10}.
	TopKs []int

	// SlowdownK is the k used by the one-minus-slowdown score. 0 means 5.
	SlowdownK int
}

func (c Config) withDefaults() Config {
	if c.Round == 0 {
		c.Round = 5
	}
	if len(c.TopKs) == 0 {
		c.TopKs = []int{1, 3, 5, 10}
	}
	if c.SlowdownK == 0 {
		c.SlowdownK = 5
	}
	return c
}

// Evaluator accumulates per-batch predictions across one evaluation pass
// and computes the metric panel on demand. One evaluator is owned by one
// split name (train/val/test each get their own instance); the
// accumulate → report → reset cycle repeats every epoch.
type Evaluator struct {
	name string
	task Task
	cfg  Config

	truth [][]float64
	preds [][]float64

	iter    int
	size    int
	lossSum float64
	extras  map[string]float64

	subsets map[string][]int
}

// New creates an evaluator for one split name.
func New(name string, task Task, cfg Config) *Evaluator {
	return &Evaluator{
		name:    name,
		task:    task,
		cfg:     cfg.withDefaults(),
		extras:  make(map[string]float64),
		subsets: make(map[string][]int),
	}
}

// Name returns the split name the evaluator reports under.
func (e *Evaluator) Name() string { return e.name }

// Size returns the number of items accumulated so far.
func (e *Evaluator) Size() int { return e.size }

// AddBatch appends one minibatch of item rows. Prediction and ground truth
// must agree in shape per item; a mismatch is a hard failure here, before
// any aggregate statistic is computed. Loss and extras are scaled by
// batchSize so epoch averages are weighted by item count.
func (e *Evaluator) AddBatch(pred, truth [][]float64, batchSize int, loss float64, extras map[string]float64) error {
	if len(pred) != len(truth) {
		return fmt.Errorf("%w: %d prediction rows vs %d truth rows", ErrShapeMismatch, len(pred), len(truth))
	}
	if batchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	for i := range pred {
		if len(pred[i]) != len(truth[i]) {
			return fmt.Errorf("%w: item %d has %d predictions vs %d truths",
				ErrShapeMismatch, i, len(pred[i]), len(truth[i]))
		}
	}

	for i := range pred {
		e.preds = append(e.preds, append([]float64(nil), pred[i]...))
		e.truth = append(e.truth, append([]float64(nil), truth[i]...))
	}
	e.iter++
	e.size += batchSize
	e.lossSum += loss * float64(batchSize)
	for k, v := range extras {
		e.extras[k] += v * float64(batchSize)
	}
	return nil
}

// SetSubset names a slice of accumulated item indices. Report re-runs the
// ranking panel over each subset and emits its metrics with the subset
// name as suffix (e.g. "opa_hard").
func (e *Evaluator) SetSubset(name string, ids []int) {
	e.subsets[name] = append([]int(nil), ids...)
}

// AvgLoss returns the batch-weighted average loss accumulated so far.
func (e *Evaluator) AvgLoss() float64 {
	if e.size == 0 {
		return 0
	}
	return e.lossSum / float64(e.size)
}

// Report computes the metric panel for the accumulated pass. The result
// maps metric names to rounded values; the caller decides where it goes
// (JSON record, monitoring sink). Report does not reset the accumulator.
func (e *Evaluator) Report() (map[string]float64, error) {
	if e.iter == 0 {
		return nil, ErrNoBatches
	}
	stats := map[string]float64{
		"loss": round(e.AvgLoss(), e.cfg.Round),
	}
	for k, v := range e.extras {
		stats[k] = round(v/float64(e.size), e.cfg.Round)
	}

	switch e.task {
	case TaskRanking:
		e.rankingPanel(stats, "", nil)
		for name, ids := range e.subsets {
			e.rankingPanel(stats, "_"+name, ids)
		}
	case TaskRegression:
		e.regressionPanel(stats)
	case TaskBinaryClassification:
		e.classificationPanel(stats)
	default:
		return nil, fmt.Errorf("unknown task type %q", e.task)
	}
	return stats, nil
}

// Reset clears the accumulator for the next pass. Subset definitions are
// kept; they describe the pass structure, not its contents.
func (e *Evaluator) Reset() {
	e.truth = nil
	e.preds = nil
	e.iter = 0
	e.size = 0
	e.lossSum = 0
	e.extras = make(map[string]float64)
}

// rankingPanel computes the ranking metrics over all items, or over the
// given item id list, and writes them into stats with the suffix appended
// to every key.
func (e *Evaluator) rankingPanel(stats map[string]float64, suffix string, ids []int) {
	items := ids
	if items == nil {
		items = make([]int, len(e.truth))
		for i := range items {
			items[i] = i
		}
	}

	var spearmans, kendalls, opas, slowdowns []float64
	topkErrs := make(map[int][]float64, len(e.cfg.TopKs))
	for _, id := range items {
		if id < 0 || id >= len(e.truth) {
			continue
		}
		t, p := e.truth[id], e.preds[id]
		spearmans = append(spearmans, Spearman(t, p))
		kendalls = append(kendalls, Kendall(t, p))
		opas = append(opas, OPA(t, p))
		slowdowns = append(slowdowns, OneMinusSlowdown(t, p, e.cfg.SlowdownK))
		for _, k := range e.cfg.TopKs {
			topkErrs[k] = append(topkErrs[k], TopKError(t, p, k))
		}
	}

	stats["spearmanr"+suffix] = round(nanMean(spearmans), e.cfg.Round)
	stats["kendall_tau"+suffix] = round(nanMean(kendalls), e.cfg.Round)
	stats["opa"+suffix] = round(nanMean(opas), e.cfg.Round)
	stats["one_minus_slowdown"+suffix] = round(nanMean(slowdowns), e.cfg.Round)
	for _, k := range e.cfg.TopKs {
		stats[fmt.Sprintf("err%d%s", k, suffix)] = round(nanMean(topkErrs[k]), e.cfg.Round)
	}
}
