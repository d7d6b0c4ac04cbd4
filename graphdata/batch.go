package graphdata

import (
	"fmt"
	"io"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// Loader iterates one split of a dataset in fixed-size batches and exposes
// the method set gomlx training loops expect (Name, Yield, Restart).
// Batches are converted to tensors only at Yield time.
type Loader struct {
	name      string
	ds        *Dataset
	indices   []int
	batchSize int
	cursor    int
}

// NewLoader creates a loader over the given logical indices, typically one
// list from the dataset's SplitMap.
func NewLoader(name string, ds *Dataset, indices []int, batchSize int) (*Loader, error) {
	if ds == nil {
		return nil, fmt.Errorf("loader %s: dataset is nil", name)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("loader %s: batch size must be positive, got %d", name, batchSize)
	}
	for _, idx := range indices {
		if idx < 0 || idx >= ds.Len() {
			return nil, fmt.Errorf("loader %s: index %d outside [0, %d): %w", name, idx, ds.Len(), ErrIndexOutOfRange)
		}
	}
	return &Loader{name: name, ds: ds, indices: indices, batchSize: batchSize}, nil
}

// Name returns the loader name (typically the split name).
func (l *Loader) Name() string { return l.name }

// Len returns the number of examples the loader covers.
func (l *Loader) Len() int { return len(l.indices) }

// Batch fetches records for positions within the loader's index list.
func (l *Loader) Batch(positions []int) ([]*GraphRecord, error) {
	records := make([]*GraphRecord, len(positions))
	for i, pos := range positions {
		if pos < 0 || pos >= len(l.indices) {
			return nil, fmt.Errorf("batch position %d outside [0, %d): %w", pos, len(l.indices), ErrIndexOutOfRange)
		}
		rec, err := l.ds.Get(l.indices[pos])
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}
	return records, nil
}

// Yield returns the next batch as gomlx tensors. It reports io.EOF once the
// index list is exhausted; Restart rewinds for the next epoch.
func (l *Loader) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	if l.cursor >= len(l.indices) {
		return nil, nil, nil, io.EOF
	}
	end := l.cursor + l.batchSize
	if end > len(l.indices) {
		end = len(l.indices)
	}
	positions := make([]int, 0, end-l.cursor)
	for i := l.cursor; i < end; i++ {
		positions = append(positions, i)
	}
	l.cursor = end

	records, err := l.Batch(positions)
	if err != nil {
		return nil, nil, nil, err
	}
	flat, err := MakeGraphBatchFlat(records)
	if err != nil {
		return nil, nil, nil, err
	}
	inT, labT, err := flat.ToGomlxTensors()
	if err != nil {
		return nil, nil, nil, err
	}
	return nil, []*tensors.Tensor{inT}, []*tensors.Tensor{labT}, nil
}

// Restart rewinds the loader for a new epoch.
func (l *Loader) Restart() error {
	l.cursor = 0
	return nil
}

// GraphBatchFlat stores a batch in flat contiguous buffers. Node features
// are padded with zero rows up to the largest graph in the batch so the
// batch forms a dense tensor.
type GraphBatchFlat struct {
	Inputs     []float32 // BatchSize × MaxNodes × FeatureDim
	Labels     []float32 // BatchSize × LabelDim
	NodeCounts []int     // true node count per graph, before padding

	BatchSize  int
	MaxNodes   int
	FeatureDim int
	LabelDim   int
}

// MakeGraphBatchFlat flattens a batch of records into contiguous buffers.
// All records must share the feature and label dimensions.
func MakeGraphBatchFlat(records []*GraphRecord) (*GraphBatchFlat, error) {
	if len(records) == 0 {
		return &GraphBatchFlat{}, nil
	}

	featDim := 0
	if records[0].NumNodes() > 0 {
		featDim = len(records[0].NodeFeatures[0])
	}
	labelDim := len(records[0].Target)
	maxNodes := 0
	for i, rec := range records {
		if rec.NumNodes() > maxNodes {
			maxNodes = rec.NumNodes()
		}
		if len(rec.Target) != labelDim {
			return nil, fmt.Errorf("inconsistent label dimensions at example %d: expected %d, got %d",
				i, labelDim, len(rec.Target))
		}
		for _, row := range rec.NodeFeatures {
			if len(row) != featDim {
				return nil, fmt.Errorf("inconsistent feature dimensions at example %d: expected %d, got %d",
					i, featDim, len(row))
			}
		}
	}

	b := &GraphBatchFlat{
		Inputs:     make([]float32, len(records)*maxNodes*featDim),
		Labels:     make([]float32, len(records)*labelDim),
		NodeCounts: make([]int, len(records)),
		BatchSize:  len(records),
		MaxNodes:   maxNodes,
		FeatureDim: featDim,
		LabelDim:   labelDim,
	}
	for i, rec := range records {
		b.NodeCounts[i] = rec.NumNodes()
		base := i * maxNodes * featDim
		for v, row := range rec.NodeFeatures {
			copy(b.Inputs[base+v*featDim:], row)
		}
		copy(b.Labels[i*labelDim:], rec.Target)
	}
	return b, nil
}

// ToGomlxTensors converts the flat buffers to gomlx tensors: inputs shaped
// [batch][maxNodes*featDim] and labels [batch][labelDim].
func (b *GraphBatchFlat) ToGomlxTensors() (*tensors.Tensor, *tensors.Tensor, error) {
	// handle empty batch gracefully
	if b.BatchSize == 0 || b.LabelDim == 0 {
		emptyInputs := make([][]float32, 0)
		emptyLabels := make([][]float32, 0)
		return tensors.FromAnyValue(emptyInputs), tensors.FromAnyValue(emptyLabels), nil
	}
	rowLen := b.MaxNodes * b.FeatureDim
	inputs := make([][]float32, b.BatchSize)
	labels := make([][]float32, b.BatchSize)
	for i := 0; i < b.BatchSize; i++ {
		inputs[i] = b.Inputs[i*rowLen : (i+1)*rowLen]
		labels[i] = b.Labels[i*b.LabelDim : (i+1)*b.LabelDim]
	}
	return tensors.FromAnyValue(inputs), tensors.FromAnyValue(labels), nil
}
