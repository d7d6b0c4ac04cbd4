package ranking

// This package scores model output against ranking, regression and
// classification targets. The Evaluator accumulates per-batch
// (prediction, ground-truth) pairs across one pass and computes a metric
// panel on demand.
//
// For ranking tasks each accumulated item is a vector of candidate scores
// (e.g. predicted runtimes for the configurations of one graph) and the
// panel covers Spearman rank correlation, Kendall's tau, ordered-pair
// accuracy, top-k regret and a bounded slowdown score. Rank statistics are
// computed with gonum.
//
// Loss and any extra scalars are weighted by batch size when accumulated,
// so epoch averages are per item rather than per batch.
