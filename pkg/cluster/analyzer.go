package cluster

import (
	"github.com/inkqr/inkqr/pkg/errors"
	"github.com/inkqr/inkqr/pkg/qr"
)

// =============================================================================
// Analyzer Configuration
// =============================================================================

// Default analysis parameters.
const (
	DefaultMinClusterSize   = 3
	DefaultDensityThreshold = 0.5
)

// Config tunes the connected-component analysis.
type Config struct {
	// MinClusterSize is the minimum component size, in modules, to become
	// a candidate cluster. Must be at least 1.
	MinClusterSize int

	// DensityThreshold is the minimum bounding-box fill density
	// (module count / box area) an accepted cluster must reach, in [0,1].
	DensityThreshold float64

	// Connectivity selects 4-way or 8-way adjacency during traversal.
	Connectivity qr.Connectivity
}

// DefaultConfig returns the standard clustering parameters:
// components of 3+ modules, half-full bounding boxes, 4-way adjacency.
func DefaultConfig() Config {
	return Config{
		MinClusterSize:   DefaultMinClusterSize,
		DensityThreshold: DefaultDensityThreshold,
		Connectivity:     qr.ConnVonNeumann,
	}
}

func (c Config) validate() error {
	if c.MinClusterSize < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "min cluster size must be >= 1, got %d", c.MinClusterSize)
	}
	if c.DensityThreshold < 0 || c.DensityThreshold > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "density threshold must be in [0,1], got %g", c.DensityThreshold)
	}
	return nil
}

// =============================================================================
// Analyzer
// =============================================================================

// Analyzer finds connected components of same-type active modules.
// It carries no per-call state, so one analyzer may serve concurrent calls on
// independent matrices.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer creates an analyzer with the given configuration.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Process clusters all active modules of the included types. When no types
// are given, only data modules are clustered.
//
// The traversal is an iterative depth-first search with an explicit stack, so
// even a 177×177 symbol cannot hit recursion limits. A single visited set
// spans the whole pass, bounding total work at O(N²) regardless of cluster
// count; the set is local to this call and discarded with it.
func (a *Analyzer) Process(m *qr.Matrix, provider qr.ModuleTypeProvider, types ...qr.ModuleType) ([]*Cluster, error) {
	if err := a.cfg.validate(); err != nil {
		return nil, err
	}
	if m == nil || m.Size() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidMatrix, "clustering requires a non-empty matrix")
	}
	if provider == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "clustering requires a module type provider")
	}
	if len(types) == 0 {
		types = []qr.ModuleType{qr.ModuleData}
	}
	included := make(map[qr.ModuleType]bool, len(types))
	for _, t := range types {
		included[t] = true
	}

	size := m.Size()
	visited := make(map[[2]int]bool)
	var clusters []*Cluster

	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			start := [2]int{row, col}
			if visited[start] {
				continue
			}
			startType, ok := a.eligible(provider, row, col, included)
			if !ok {
				continue
			}

			positions := a.traverse(provider, start, startType, included, visited)

			// Components failing either gate are dropped silently; their
			// modules were marked visited but remain renderable
			// individually by the caller.
			if len(positions) < a.cfg.MinClusterSize {
				continue
			}
			c := &Cluster{Positions: positions, ModuleType: startType}
			analyze(c)
			if c.Density < a.cfg.DensityThreshold {
				continue
			}
			clusters = append(clusters, c)
		}
	}

	return clusters, nil
}

// eligible reports whether (row, col) is an active module of an included type.
func (a *Analyzer) eligible(provider qr.ModuleTypeProvider, row, col int, included map[qr.ModuleType]bool) (qr.ModuleType, bool) {
	if !provider.IsModuleActive(row, col) {
		return "", false
	}
	t, err := provider.ModuleTypeAt(row, col)
	if err != nil || !included[t] {
		return "", false
	}
	return t, true
}

// traverse collects the component containing start via explicit-stack DFS.
// Expansion only crosses active modules of the same type as the start cell.
func (a *Analyzer) traverse(provider qr.ModuleTypeProvider, start [2]int, startType qr.ModuleType, included map[qr.ModuleType]bool, visited map[[2]int]bool) [][2]int {
	stack := [][2]int{start}
	visited[start] = true
	var positions [][2]int

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		positions = append(positions, cur)

		for _, nb := range provider.Neighbors(cur[0], cur[1], a.cfg.Connectivity) {
			pos := [2]int{nb[0], nb[1]}
			if visited[pos] {
				continue
			}
			if !provider.IsModuleActive(pos[0], pos[1]) {
				continue
			}
			t, err := provider.ModuleTypeAt(pos[0], pos[1])
			if err != nil || t != startType {
				continue
			}
			visited[pos] = true
			stack = append(stack, pos)
		}
	}

	return positions
}

// Remaining returns all active modules of the included types that are not
// part of any accepted cluster. This is the set a renderer draws as
// individual shapes.
func Remaining(m *qr.Matrix, provider qr.ModuleTypeProvider, clusters []*Cluster, types ...qr.ModuleType) [][2]int {
	if len(types) == 0 {
		types = []qr.ModuleType{qr.ModuleData}
	}
	included := make(map[qr.ModuleType]bool, len(types))
	for _, t := range types {
		included[t] = true
	}
	clustered := make(map[[2]int]bool)
	for _, c := range clusters {
		for _, p := range c.Positions {
			clustered[p] = true
		}
	}

	var out [][2]int
	size := m.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if clustered[[2]int{row, col}] || !provider.IsModuleActive(row, col) {
				continue
			}
			if t, err := provider.ModuleTypeAt(row, col); err == nil && included[t] {
				out = append(out, [2]int{row, col})
			}
		}
	}
	return out
}
