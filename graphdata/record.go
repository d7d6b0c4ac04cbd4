package graphdata

import "fmt"

// GraphRecord is one training example: a graph with per-node features, an
// edge list, optional edge weights and positional encodings, and a target.
type GraphRecord struct {
	// NodeFeatures is the N×F node feature matrix.
	NodeFeatures [][]float32

	// EdgeIndex lists edges as [source, target] node id pairs. Every id
	// must reference a valid node in [0, N).
	EdgeIndex [][2]int

	// EdgeWeights holds one scalar per edge (e.g. the spatial distance the
	// edge was built from). Optional; when present its length must equal
	// len(EdgeIndex).
	EdgeWeights []float32

	// Pos holds spatial node coordinates, kept so geometric transforms and
	// downstream feature code can reference them. Optional.
	Pos [][]float32

	// PosEnc holds named positional-encoding blocks computed by external
	// collaborators. The core only carries them. Optional.
	PosEnc map[string][][]float32

	// Target is the scalar or vector label. Targets may be centered by the
	// owning dataset's normalization stat before they reach callers.
	Target []float32
}

// NumNodes returns the number of nodes in the graph.
func (r *GraphRecord) NumNodes() int { return len(r.NodeFeatures) }

// NumEdges returns the number of edges in the graph.
func (r *GraphRecord) NumEdges() int { return len(r.EdgeIndex) }

// Validate checks the structural invariants: edge endpoints reference valid
// node ids and the edge weight array, when present, matches the edge count.
func (r *GraphRecord) Validate() error {
	n := r.NumNodes()
	for i, e := range r.EdgeIndex {
		if e[0] < 0 || e[0] >= n || e[1] < 0 || e[1] >= n {
			return fmt.Errorf("edge %d references node outside [0, %d): (%d, %d)", i, n, e[0], e[1])
		}
	}
	if r.EdgeWeights != nil && len(r.EdgeWeights) != len(r.EdgeIndex) {
		return fmt.Errorf("edge weight count %d does not match edge count %d",
			len(r.EdgeWeights), len(r.EdgeIndex))
	}
	return nil
}

// Undirected reports whether the edge set is symmetric, i.e. every edge
// (u, v) has a reverse edge (v, u).
func (r *GraphRecord) Undirected() bool {
	seen := make(map[[2]int]bool, len(r.EdgeIndex))
	for _, e := range r.EdgeIndex {
		seen[e] = true
	}
	for _, e := range r.EdgeIndex {
		if !seen[[2]int{e[1], e[0]}] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy. Mutating the copy never affects the original,
// which is what lets the cache hand out records safely.
func (r *GraphRecord) Clone() *GraphRecord {
	c := &GraphRecord{}
	c.NodeFeatures = cloneMatrix(r.NodeFeatures)
	if r.EdgeIndex != nil {
		c.EdgeIndex = make([][2]int, len(r.EdgeIndex))
		copy(c.EdgeIndex, r.EdgeIndex)
	}
	if r.EdgeWeights != nil {
		c.EdgeWeights = make([]float32, len(r.EdgeWeights))
		copy(c.EdgeWeights, r.EdgeWeights)
	}
	c.Pos = cloneMatrix(r.Pos)
	if r.PosEnc != nil {
		c.PosEnc = make(map[string][][]float32, len(r.PosEnc))
		for k, v := range r.PosEnc {
			c.PosEnc[k] = cloneMatrix(v)
		}
	}
	if r.Target != nil {
		c.Target = make([]float32, len(r.Target))
		copy(c.Target, r.Target)
	}
	return c
}

func cloneMatrix(m [][]float32) [][]float32 {
	if m == nil {
		return nil
	}
	out := make([][]float32, len(m))
	for i, row := range m {
		out[i] = make([]float32, len(row))
		copy(out[i], row)
	}
	return out
}
