package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchWeightedLoss(t *testing.T) {
	ev := New("val", TaskRanking, Config{})
	require.NoError(t, ev.AddBatch(
		[][]float64{{1, 2, 3}}, [][]float64{{1, 2, 3}}, 4, 1.0, nil))
	require.NoError(t, ev.AddBatch(
		[][]float64{{3, 2, 1}}, [][]float64{{1, 2, 3}}, 6, 2.0, nil))

	stats, err := ev.Report()
	require.NoError(t, err)
	// (4*1.0 + 6*2.0) / 10, not the unweighted batch mean 1.5
	assert.InDelta(t, 1.6, stats["loss"], 1e-9)
}

func TestShapeMismatchFailsFast(t *testing.T) {
	ev := New("val", TaskRanking, Config{})
	err := ev.AddBatch([][]float64{{1, 2}}, [][]float64{{1, 2}, {3, 4}}, 2, 0, nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	err = ev.AddBatch([][]float64{{1, 2, 3}}, [][]float64{{1, 2}}, 1, 0, nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	// nothing was accumulated by the failed calls
	_, err = ev.Report()
	assert.ErrorIs(t, err, ErrNoBatches)
}

func TestRankingPanelKeys(t *testing.T) {
	ev := New("test", TaskRanking, Config{})
	require.NoError(t, ev.AddBatch(
		[][]float64{{1, 2, 3, 4, 5}}, [][]float64{{1, 2, 3, 4, 5}}, 1, 0.5, nil))

	stats, err := ev.Report()
	require.NoError(t, err)
	for _, key := range []string{
		"loss", "spearmanr", "kendall_tau", "opa", "one_minus_slowdown",
		"err1", "err3", "err5", "err10",
	} {
		assert.Contains(t, stats, key)
	}
	// a perfect prediction scores the optimum everywhere
	assert.InDelta(t, 1.0, stats["spearmanr"], 1e-9)
	assert.InDelta(t, 1.0, stats["opa"], 1e-9)
	assert.InDelta(t, 0.0, stats["err1"], 1e-9)
	assert.InDelta(t, 1.0, stats["one_minus_slowdown"], 1e-9)
}

func TestSubsetsReportSuffixedPanels(t *testing.T) {
	ev := New("test", TaskRanking, Config{})
	require.NoError(t, ev.AddBatch(
		[][]float64{{1, 2, 3}, {3, 2, 1}},
		[][]float64{{1, 2, 3}, {1, 2, 3}},
		2, 0, nil))
	ev.SetSubset("good", []int{0})
	ev.SetSubset("bad", []int{1})

	stats, err := ev.Report()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, stats["opa"], 1e-9)
	assert.InDelta(t, 1.0, stats["opa_good"], 1e-9)
	assert.InDelta(t, 0.0, stats["opa_bad"], 1e-9)
	assert.Contains(t, stats, "err1_good")
}

func TestExtrasAreBatchWeighted(t *testing.T) {
	ev := New("val", TaskRanking, Config{})
	require.NoError(t, ev.AddBatch(
		[][]float64{{1, 2}}, [][]float64{{1, 2}}, 2, 0, map[string]float64{"grad_norm": 1.0}))
	require.NoError(t, ev.AddBatch(
		[][]float64{{1, 2}}, [][]float64{{1, 2}}, 8, 0, map[string]float64{"grad_norm": 6.0}))

	stats, err := ev.Report()
	require.NoError(t, err)
	// (2*1.0 + 8*6.0) / 10
	assert.InDelta(t, 5.0, stats["grad_norm"], 1e-9)
}

func TestResetClearsAccumulator(t *testing.T) {
	ev := New("val", TaskRanking, Config{})
	require.NoError(t, ev.AddBatch([][]float64{{1, 2}}, [][]float64{{1, 2}}, 2, 1.0, nil))
	require.Equal(t, 2, ev.Size())

	ev.Reset()
	assert.Equal(t, 0, ev.Size())
	_, err := ev.Report()
	assert.ErrorIs(t, err, ErrNoBatches)

	// the evaluator is reusable after a reset
	require.NoError(t, ev.AddBatch([][]float64{{1, 2}}, [][]float64{{1, 2}}, 3, 2.0, nil))
	stats, err := ev.Report()
	require.NoError(t, err)
	assert.InDelta(t, 2.0, stats["loss"], 1e-9)
}

func TestRegressionPanel(t *testing.T) {
	ev := New("val", TaskRegression, Config{})
	require.NoError(t, ev.AddBatch(
		[][]float64{{1}, {2}, {3}, {4}},
		[][]float64{{1}, {2}, {3}, {4}},
		4, 0, nil))

	stats, err := ev.Report()
	require.NoError(t, err)
	assert.InDelta(t, 0.0, stats["mae"], 1e-9)
	assert.InDelta(t, 0.0, stats["mse"], 1e-9)
	assert.InDelta(t, 1.0, stats["r2"], 1e-9)
	assert.InDelta(t, 1.0, stats["spearmanr"], 1e-9)
}

func TestClassificationPanel(t *testing.T) {
	ev := New("val", TaskBinaryClassification, Config{})
	require.NoError(t, ev.AddBatch(
		[][]float64{{0.1}, {0.2}, {0.8}, {0.9}},
		[][]float64{{0}, {0}, {1}, {1}},
		4, 0, nil))

	stats, err := ev.Report()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, stats["accuracy"], 1e-9)
	assert.InDelta(t, 1.0, stats["precision"], 1e-9)
	assert.InDelta(t, 1.0, stats["recall"], 1e-9)
	assert.InDelta(t, 1.0, stats["f1"], 1e-9)
	assert.InDelta(t, 1.0, stats["auroc"], 1e-9)
}
