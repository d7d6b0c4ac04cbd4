package graphdata

import "fmt"

// Format identifies a dataset family's acquisition routine. The set below
// mirrors the benchmark suite's routing table; new formats only need a
// registered builder, nothing in the split/cache/assembly code changes.
type Format string

const (
	// FormatBench covers pre-packaged benchmark datasets shipped as
	// separate train/val/test files and merged with Join.
	FormatBench Format = "bench"
	// FormatOGB covers OGB-derived datasets, which define canonical splits.
	FormatOGB Format = "ogb"
	// FormatGeometric covers datasets whose edges are built from spatial
	// proximity at load time.
	FormatGeometric Format = "geometric"
	// FormatSynthetic covers seeded in-memory generators.
	FormatSynthetic Format = "synthetic"
	// FormatTensor covers free-standing tensor dumps.
	FormatTensor Format = "tensor"
)

// BuilderFunc acquires and assembles one named dataset.
type BuilderFunc func(name string, opts Options) (*Dataset, error)

// Registry routes (format, name) pairs to builder functions.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]BuilderFunc)}
}

func registryKey(f Format, name string) string { return string(f) + "/" + name }

// Register adds a builder for the (format, name) pair, replacing any
// previous registration.
func (r *Registry) Register(f Format, name string, b BuilderFunc) {
	r.builders[registryKey(f, name)] = b
}

// Build resolves the pair and runs its builder. Unknown pairs fail with
// ErrUnknownDataset; they are never silently defaulted.
func (r *Registry) Build(f Format, name string, opts Options) (*Dataset, error) {
	b, ok := r.builders[registryKey(f, name)]
	if !ok {
		return nil, fmt.Errorf("%w: (%s, %s)", ErrUnknownDataset, f, name)
	}
	return b(name, opts)
}

// DefaultRegistry returns a registry with the built-in synthetic family
// registered. Callers add their own dataset families on top.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(FormatSynthetic, "spatial", buildSyntheticSpatial)
	r.Register(FormatSynthetic, "spatial-large", buildSyntheticSpatialLarge)
	return r
}
