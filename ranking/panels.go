package ranking

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// regressionPanel scores flattened predictions directly against flattened
// truths: MAE, MSE, R squared and Spearman over the whole pass.
func (e *Evaluator) regressionPanel(stats map[string]float64) {
	truth := flatten(e.truth)
	pred := flatten(e.preds)

	var absSum, sqSum float64
	for i := range truth {
		d := pred[i] - truth[i]
		absSum += math.Abs(d)
		sqSum += d * d
	}
	n := float64(len(truth))
	if n == 0 {
		n = 1
	}
	stats["mae"] = round(absSum/n, e.cfg.Round)
	stats["mse"] = round(sqSum/n, e.cfg.Round)
	stats["r2"] = round(stat.RSquaredFrom(pred, truth, nil), e.cfg.Round)
	stats["spearmanr"] = round(Spearman(truth, pred), e.cfg.Round)
}

// classificationPanel scores probability-like predictions against 0/1
// labels: threshold metrics at 0.5 plus AUROC via gonum's ROC curve.
func (e *Evaluator) classificationPanel(stats map[string]float64) {
	truth := flatten(e.truth)
	pred := flatten(e.preds)

	var tp, fp, tn, fn float64
	for i := range truth {
		positive := pred[i] > 0.5
		switch {
		case positive && truth[i] > 0.5:
			tp++
		case positive:
			fp++
		case truth[i] > 0.5:
			fn++
		default:
			tn++
		}
	}
	total := tp + fp + tn + fn
	if total == 0 {
		total = 1
	}
	precision := tp / math.Max(tp+fp, 1)
	recall := tp / math.Max(tp+fn, 1)
	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	stats["accuracy"] = round((tp+tn)/total, e.cfg.Round)
	stats["precision"] = round(precision, e.cfg.Round)
	stats["recall"] = round(recall, e.cfg.Round)
	stats["f1"] = round(f1, e.cfg.Round)
	stats["auroc"] = round(auroc(truth, pred), e.cfg.Round)
}

// auroc computes the area under the ROC curve. gonum's ROC wants scores in
// ascending order with class labels alongside, so the pair is sorted first.
func auroc(truth, pred []float64) float64 {
	scores := append([]float64(nil), pred...)
	classes := make([]bool, len(truth))
	idx := make([]int, len(truth))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return pred[idx[a]] < pred[idx[b]] })
	for i, id := range idx {
		scores[i] = pred[id]
		classes[i] = truth[id] > 0.5
	}
	tpr, fpr, _ := stat.ROC(nil, scores, classes, nil)
	if len(tpr) < 2 {
		return math.NaN()
	}
	return integrate.Trapezoidal(fpr, tpr)
}

func flatten(rows [][]float64) []float64 {
	out := make([]float64, 0, len(rows))
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}
