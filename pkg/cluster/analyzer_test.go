package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkqr/inkqr/pkg/qr"
)

// uniformProvider classifies every cell as data; tests substitute it for the
// full detector to exercise clustering in isolation.
type uniformProvider struct {
	m *qr.Matrix
}

func (p *uniformProvider) ModuleTypeAt(row, col int) (qr.ModuleType, error) {
	return qr.ModuleData, nil
}

func (p *uniformProvider) Neighbors(row, col int, conn qr.Connectivity) [][2]int {
	offs := [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	if conn == qr.ConnMoore {
		offs = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	}
	var out [][2]int
	for _, o := range offs {
		r, c := row+o[0], col+o[1]
		if p.m.InBounds(r, c) {
			out = append(out, [2]int{r, c})
		}
	}
	return out
}

func (p *uniformProvider) IsModuleActive(row, col int) bool { return p.m.At(row, col) }

func denseMatrix(t *testing.T, size int) *qr.Matrix {
	t.Helper()
	m, err := qr.NewEmptyMatrix(size)
	require.NoError(t, err)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			m.Set(r, c, true)
		}
	}
	return m
}

func TestProcess_DenseMatrixSingleCluster(t *testing.T) {
	m := denseMatrix(t, 15)
	a := NewAnalyzer(Config{MinClusterSize: 3, DensityThreshold: 0.5, Connectivity: qr.ConnVonNeumann})

	clusters, err := a.Process(m, &uniformProvider{m: m})
	require.NoError(t, err)
	require.Len(t, clusters, 1)

	c := clusters[0]
	assert.Equal(t, 225, c.ModuleCount)
	assert.Equal(t, ShapeSquareCluster, c.ShapeType)
	assert.True(t, c.Hints.RenderAsSingleShape)
	assert.InDelta(t, 1.0, c.Density, 1e-9)
	assert.InDelta(t, 7.0, c.CenterRow, 1e-9)
	assert.InDelta(t, 7.0, c.CenterCol, 1e-9)
}

// Completeness: at density 0 and min size 1, every active module lands in
// exactly one cluster.
func TestProcess_Completeness(t *testing.T) {
	m, err := qr.NewEmptyMatrix(9)
	require.NoError(t, err)
	// Scattered pattern with isolated modules and small groups.
	active := [][2]int{{0, 0}, {0, 1}, {2, 4}, {4, 4}, {4, 5}, {5, 4}, {8, 8}}
	for _, p := range active {
		m.Set(p[0], p[1], true)
	}

	a := NewAnalyzer(Config{MinClusterSize: 1, DensityThreshold: 0, Connectivity: qr.ConnVonNeumann})
	clusters, err := a.Process(m, &uniformProvider{m: m})
	require.NoError(t, err)

	seen := map[[2]int]int{}
	for _, c := range clusters {
		for _, p := range c.Positions {
			seen[p]++
		}
	}
	assert.Len(t, seen, len(active))
	for _, p := range active {
		assert.Equal(t, 1, seen[p], "module %v must be in exactly one cluster", p)
	}
}

// Soundness: every accepted cluster is internally connected under the
// configured mode, verified by an independent flood fill.
func TestProcess_Soundness(t *testing.T) {
	m, err := qr.NewEmptyMatrix(12)
	require.NoError(t, err)
	for _, p := range [][2]int{
		{1, 1}, {1, 2}, {2, 1}, {2, 2}, // block
		{5, 5}, {5, 6}, {5, 7}, {6, 5}, {6, 6}, {6, 7}, // 2x3 block
		{9, 9}, // isolated, below min size
	} {
		m.Set(p[0], p[1], true)
	}

	a := NewAnalyzer(Config{MinClusterSize: 2, DensityThreshold: 0.4, Connectivity: qr.ConnVonNeumann})
	clusters, err := a.Process(m, &uniformProvider{m: m})
	require.NoError(t, err)
	require.Len(t, clusters, 2)

	for _, c := range clusters {
		assert.True(t, isConnected(c.Positions), "cluster %v must be connected", c.Positions)
		assert.GreaterOrEqual(t, c.Density, 0.4)
		assert.Equal(t, len(c.Positions), c.ModuleCount)
	}
}

// isConnected flood-fills from the first position over 4-way adjacency.
func isConnected(positions [][2]int) bool {
	if len(positions) == 0 {
		return false
	}
	members := make(map[[2]int]bool, len(positions))
	for _, p := range positions {
		members[p] = true
	}
	frontier := [][2]int{positions[0]}
	reached := map[[2]int]bool{positions[0]: true}
	for len(frontier) > 0 {
		cur := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		for _, o := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			nb := [2]int{cur[0] + o[0], cur[1] + o[1]}
			if members[nb] && !reached[nb] {
				reached[nb] = true
				frontier = append(frontier, nb)
			}
		}
	}
	return len(reached) == len(positions)
}

func TestProcess_DensityGate(t *testing.T) {
	m, err := qr.NewEmptyMatrix(10)
	require.NoError(t, err)
	// A sparse diagonal under 8-way connectivity: connected, but its 4x4
	// bounding box is only 25% full.
	for i := 0; i < 4; i++ {
		m.Set(i, i, true)
	}

	strict := NewAnalyzer(Config{MinClusterSize: 2, DensityThreshold: 0.5, Connectivity: qr.ConnMoore})
	clusters, err := strict.Process(m, &uniformProvider{m: m})
	require.NoError(t, err)
	assert.Empty(t, clusters, "sparse diagonal must fail the density gate")

	loose := NewAnalyzer(Config{MinClusterSize: 2, DensityThreshold: 0.2, Connectivity: qr.ConnMoore})
	clusters, err = loose.Process(m, &uniformProvider{m: m})
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.InDelta(t, 0.25, clusters[0].Density, 1e-9)
}

func TestProcess_ConnectivityModes(t *testing.T) {
	m, err := qr.NewEmptyMatrix(6)
	require.NoError(t, err)
	// Two modules touching only diagonally.
	m.Set(2, 2, true)
	m.Set(3, 3, true)

	four := NewAnalyzer(Config{MinClusterSize: 2, DensityThreshold: 0, Connectivity: qr.ConnVonNeumann})
	clusters, err := four.Process(m, &uniformProvider{m: m})
	require.NoError(t, err)
	assert.Empty(t, clusters, "diagonal touch is not 4-way adjacency")

	eight := NewAnalyzer(Config{MinClusterSize: 2, DensityThreshold: 0, Connectivity: qr.ConnMoore})
	clusters, err = eight.Process(m, &uniformProvider{m: m})
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, 2, clusters[0].ModuleCount)
}

func TestProcess_TypeFilter(t *testing.T) {
	m := denseMatrix(t, 21)
	det, err := qr.NewDetector(m, qr.Version{Number: 1})
	require.NoError(t, err)

	a := NewAnalyzer(Config{MinClusterSize: 1, DensityThreshold: 0, Connectivity: qr.ConnVonNeumann})
	clusters, err := a.Process(m, det, qr.ModuleData)
	require.NoError(t, err)

	for _, c := range clusters {
		for _, p := range c.Positions {
			mt, err := det.ModuleTypeAt(p[0], p[1])
			require.NoError(t, err)
			assert.Equal(t, qr.ModuleData, mt, "position %v", p)
		}
	}
}

func TestProcess_InvalidConfig(t *testing.T) {
	m := denseMatrix(t, 5)
	p := &uniformProvider{m: m}

	_, err := NewAnalyzer(Config{MinClusterSize: 0}).Process(m, p)
	assert.Error(t, err)

	_, err = NewAnalyzer(Config{MinClusterSize: 1, DensityThreshold: 1.5}).Process(m, p)
	assert.Error(t, err)

	_, err = NewAnalyzer(DefaultConfig()).Process(nil, p)
	assert.Error(t, err)

	_, err = NewAnalyzer(DefaultConfig()).Process(m, nil)
	assert.Error(t, err)
}

func TestRemaining(t *testing.T) {
	m, err := qr.NewEmptyMatrix(8)
	require.NoError(t, err)
	// One 2x2 block (accepted) and one isolated module (rejected by size).
	for _, p := range [][2]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}, {6, 6}} {
		m.Set(p[0], p[1], true)
	}
	provider := &uniformProvider{m: m}

	a := NewAnalyzer(Config{MinClusterSize: 3, DensityThreshold: 0.5, Connectivity: qr.ConnVonNeumann})
	clusters, err := a.Process(m, provider)
	require.NoError(t, err)
	require.Len(t, clusters, 1)

	rest := Remaining(m, provider, clusters)
	assert.Equal(t, [][2]int{{6, 6}}, rest)
}
