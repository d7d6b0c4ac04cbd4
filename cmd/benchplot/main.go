package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/Noofbiz/graphbench/baseline"
	"github.com/Noofbiz/graphbench/graphdata"
	"github.com/Noofbiz/graphbench/ranking"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// fileConfig is the optional JSON configuration. Values here fill in for
// flags the user left at their defaults; explicit CLI flags always win.
type fileConfig struct {
	Dataset *struct {
		Format   *string  `json:"format"`
		Name     *string  `json:"name"`
		Seed     *int64   `json:"seed"`
		MaxNodes *int     `json:"max_nodes"`
		Cap      *int     `json:"cap"`
		Train    *float64 `json:"train_fraction"`
		Val      *float64 `json:"val_fraction"`
		Test     *float64 `json:"test_fraction"`
	} `json:"dataset"`
	Eval *struct {
		Round     *int `json:"round"`
		SlowdownK *int `json:"slowdown_k"`
	} `json:"eval"`
}

func main() {
	formatFlag := flag.String("format", string(graphdata.FormatSynthetic), "dataset format key")
	nameFlag := flag.String("name", "spatial", "dataset name within the format")
	seed := flag.Int64("seed", 42, "random seed for splitting and the random baseline")
	maxNodes := flag.Int("max-nodes", 0, "drop graphs with more nodes than this (0 = keep all)")
	capFlag := flag.Int("cap", 0, "cap the dataset to this many graphs (0 = no cap)")
	trainFrac := flag.Float64("train-fraction", 0.8, "training split fraction")
	valFrac := flag.Float64("val-fraction", 0.1, "validation split fraction")
	testFrac := flag.Float64("test-fraction", 0.1, "test split fraction")
	roundDigits := flag.Int("round", 5, "digits metric values are rounded to")
	slowdownK := flag.Int("slowdown-k", 5, "k used by the one-minus-slowdown metric")
	outDir := flag.String("out", "output", "output directory for stats.json and plots")
	configPath := flag.String("config", "", "optional JSON config file (CLI flags override it)")
	flag.Parse()

	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("failed to read config %s: %v", *configPath, err)
		}
		var fc fileConfig
		if err := json.Unmarshal(data, &fc); err != nil {
			log.Fatalf("failed to parse config %s: %v", *configPath, err)
		}
		// JSON fills defaults only; an explicitly passed flag keeps its value.
		if fc.Dataset != nil {
			d := fc.Dataset
			if d.Format != nil && *formatFlag == string(graphdata.FormatSynthetic) {
				*formatFlag = *d.Format
			}
			if d.Name != nil && *nameFlag == "spatial" {
				*nameFlag = *d.Name
			}
			if d.Seed != nil && *seed == 42 {
				*seed = *d.Seed
			}
			if d.MaxNodes != nil && *maxNodes == 0 {
				*maxNodes = *d.MaxNodes
			}
			if d.Cap != nil && *capFlag == 0 {
				*capFlag = *d.Cap
			}
			if d.Train != nil && *trainFrac == 0.8 {
				*trainFrac = *d.Train
			}
			if d.Val != nil && *valFrac == 0.1 {
				*valFrac = *d.Val
			}
			if d.Test != nil && *testFrac == 0.1 {
				*testFrac = *d.Test
			}
		}
		if fc.Eval != nil {
			if fc.Eval.Round != nil && *roundDigits == 5 {
				*roundDigits = *fc.Eval.Round
			}
			if fc.Eval.SlowdownK != nil && *slowdownK == 5 {
				*slowdownK = *fc.Eval.SlowdownK
			}
		}
		log.Printf("Loaded config from %s", *configPath)
	}

	registry := graphdata.DefaultRegistry()
	opts := graphdata.Options{
		Fractions: graphdata.Fractions{Train: *trainFrac, Val: *valFrac, Test: *testFrac},
		Seed:      *seed,
		MaxNodes:  *maxNodes,
		Cap:       *capFlag,
	}

	start := time.Now()
	ds, err := registry.Build(graphdata.Format(*formatFlag), *nameFlag, opts)
	if err != nil {
		log.Fatalf("failed to build dataset (%s, %s): %v", *formatFlag, *nameFlag, err)
	}
	splits := ds.Splits()
	log.Printf("Dataset %s built in %v: %d graphs (train=%d val=%d test=%d)",
		*nameFlag, time.Since(start), ds.Len(), len(splits.Train), len(splits.Val), len(splits.Test))

	scorers := []baseline.Scorer{
		baseline.NewRandomRanker(*seed),
		baseline.NodeCountScorer{},
		baseline.EdgeWeightScorer{},
	}

	cfg := ranking.Config{Round: *roundDigits, SlowdownK: *slowdownK}
	allStats := make(map[string]map[string]float64)
	var scatterTruth, scatterPred []float64

	for _, split := range []struct {
		name    string
		indices []int
	}{
		{"val", splits.Val},
		{"test", splits.Test},
	} {
		for _, sc := range scorers {
			truth, pred, err := scoreSplit(ds, split.indices, sc)
			if err != nil {
				log.Fatalf("scoring %s on %s split: %v", sc.Name(), split.name, err)
			}

			// The whole split forms one ranking item: graphs ranked by
			// predicted cost against their true cost.
			ev := ranking.New(split.name, ranking.TaskRanking, cfg)
			loss := meanSquaredError(truth, pred)
			if err := ev.AddBatch([][]float64{pred}, [][]float64{truth}, len(split.indices), loss, nil); err != nil {
				log.Fatalf("accumulating %s on %s split: %v", sc.Name(), split.name, err)
			}
			stats, err := ev.Report()
			if err != nil {
				log.Fatalf("reporting %s on %s split: %v", sc.Name(), split.name, err)
			}
			key := split.name + "/" + sc.Name()
			allStats[key] = stats
			log.Printf("%s: opa=%.4f spearmanr=%.4f err1=%.4f loss=%.4f",
				key, stats["opa"], stats["spearmanr"], stats["err1"], stats["loss"])

			if split.name == "test" && sc.Name() == "node_count" {
				scatterTruth = truth
				scatterPred = pred
			}
		}
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("failed to create output dir %s: %v", *outDir, err)
	}
	statsPath := filepath.Join(*outDir, "stats.json")
	if err := writeStats(statsPath, allStats); err != nil {
		log.Fatalf("failed to write %s: %v", statsPath, err)
	}
	log.Printf("Stats written to %s", statsPath)

	if err := plotScatter(filepath.Join(*outDir, "pred_vs_true.png"), scatterTruth, scatterPred); err != nil {
		log.Fatalf("failed to plot scatter: %v", err)
	}
	if err := plotErrK(filepath.Join(*outDir, "err_k.png"), allStats); err != nil {
		log.Fatalf("failed to plot err_k curve: %v", err)
	}
	log.Printf("Plots written to %s", *outDir)
}

// scoreSplit runs one scorer over a split's logical indices and returns the
// true and predicted scalar targets as parallel vectors.
func scoreSplit(ds *graphdata.Dataset, indices []int, sc baseline.Scorer) (truth, pred []float64, err error) {
	truth = make([]float64, 0, len(indices))
	pred = make([]float64, 0, len(indices))
	for _, idx := range indices {
		rec, err := ds.Get(idx)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch graph %d: %w", idx, err)
		}
		scores, err := sc.Score(rec)
		if err != nil {
			return nil, nil, fmt.Errorf("score graph %d: %w", idx, err)
		}
		truth = append(truth, float64(rec.Target[0]))
		pred = append(pred, scores[0])
	}
	return truth, pred, nil
}

func meanSquaredError(truth, pred []float64) float64 {
	if len(truth) == 0 {
		return 0
	}
	var sum float64
	for i := range truth {
		d := pred[i] - truth[i]
		sum += d * d
	}
	return sum / float64(len(truth))
}

func writeStats(path string, stats map[string]map[string]float64) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// plotScatter writes predicted vs true target values with a y=x reference
// line.
func plotScatter(path string, truth, pred []float64) error {
	p := plot.New()
	p.Title.Text = "Predicted vs true cost (node_count baseline, test split)"
	p.X.Label.Text = "true"
	p.Y.Label.Text = "predicted"

	xys := make(plotter.XYs, 0, len(truth))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range truth {
		xys = append(xys, plotter.XY{X: truth[i], Y: pred[i]})
		lo = math.Min(lo, math.Min(truth[i], pred[i]))
		hi = math.Max(hi, math.Max(truth[i], pred[i]))
	}
	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = color.RGBA{R: 20, G: 80, B: 200, A: 220}
	sc.GlyphStyle.Radius = vg.Points(2)
	p.Add(sc, plotter.NewGrid())
	p.Legend.Add("baseline", sc)

	if len(truth) > 0 {
		diag, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
		if err != nil {
			return err
		}
		diag.Color = color.RGBA{R: 120, G: 120, B: 120, A: 180}
		p.Add(diag)
		p.Legend.Add("y = x", diag)
	}

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

// plotErrK writes the err_k regret curve per baseline over the test split.
func plotErrK(path string, allStats map[string]map[string]float64) error {
	p := plot.New()
	p.Title.Text = "Top-k regret on test split"
	p.X.Label.Text = "k"
	p.Y.Label.Text = "err_k"

	colors := []color.RGBA{
		{R: 200, G: 30, B: 30, A: 220},
		{R: 20, G: 80, B: 200, A: 220},
		{R: 40, G: 140, B: 40, A: 220},
	}
	ks := []int{1, 3, 5, 10}
	i := 0
	for _, name := range []string{"random", "node_count", "edge_weight"} {
		stats, ok := allStats["test/"+name]
		if !ok {
			continue
		}
		xys := make(plotter.XYs, 0, len(ks))
		for _, k := range ks {
			v, ok := stats[fmt.Sprintf("err%d", k)]
			if !ok || math.IsNaN(v) {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(k), Y: v})
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Color = colors[i%len(colors)]
		line.Width = vg.Points(1.2)
		p.Add(line)
		p.Legend.Add(name, line)
		i++
	}
	p.Add(plotter.NewGrid())
	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}
