package geodesic

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/surflabel/pkg/errors"
	"github.com/matzehuels/surflabel/pkg/mesh"
)

// line is a unit-spaced path graph 0-1-...-(n-1).
type line int

func (l line) NumVertices() int { return int(l) }

func (l line) Neighbors(v int) []int {
	var out []int
	if v > 0 {
		out = append(out, v-1)
	}
	if v+1 < int(l) {
		out = append(out, v+1)
	}
	return out
}

func (l line) EdgeLength(a, b int) float64 { return math.Abs(float64(a - b)) }

func vertices(cs []Candidate) []int {
	out := make([]int, len(cs))
	for i, c := range cs {
		out[i] = c.Vertex
	}
	return out
}

func TestWithinRadiusLine(t *testing.T) {
	h := New(line(5))

	tests := []struct {
		name   string
		v      int
		radius float64
		want   []Candidate
	}{
		{"zero radius", 2, 0, []Candidate{{2, 0}}},
		{"one hop", 2, 1.5, []Candidate{{2, 0}, {1, 1}, {3, 1}}},
		{"exact bound", 2, 2, []Candidate{{2, 0}, {1, 1}, {3, 1}, {0, 2}, {4, 2}}},
		{"endpoint", 4, 1.5, []Candidate{{4, 0}, {3, 1}}},
		{"everything", 0, 100, []Candidate{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.WithinRadius(tt.v, tt.radius)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithinRadiusErrors(t *testing.T) {
	h := New(line(3))

	_, err := h.WithinRadius(3, 1)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidArgument))

	_, err = h.WithinRadius(-1, 1)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidArgument))

	_, err = h.WithinRadius(0, -0.5)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidArgument))
}

func TestDistancesTo(t *testing.T) {
	h := New(line(6))

	got, err := h.DistancesTo(2, []int{5, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{5, 3}, {1, 1}, {2, 0}}, got)

	got, err = h.DistancesTo(2, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = h.DistancesTo(0, []int{3, 3})
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{3, 3}, {3, 3}}, got)

	_, err = h.DistancesTo(0, []int{6})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidArgument))
}

func TestDistancesToUnreachable(t *testing.T) {
	coords := []r3.Vec{{}, {X: 1}, {Y: 1}, {X: 9}, {X: 10}, {X: 9, Y: 1}}
	m, err := mesh.New(coords, []mesh.Triangle{{0, 1, 2}, {3, 4, 5}})
	require.NoError(t, err)
	h := New(m)

	got, err := h.DistancesTo(0, []int{4, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, vertices(got))

	d, err := h.Distance(0, 5)
	require.NoError(t, err)
	assert.True(t, math.IsInf(d, 1))

	// Scratch state must not leak between queries after an unreachable target.
	got, err = h.DistancesTo(3, []int{4})
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{4, 1}}, got)
}

func TestMatchesGonumDijkstra(t *testing.T) {
	m, err := mesh.NewGrid(7, 6, 1.5)
	require.NoError(t, err)
	h := New(m)
	g := m.Graph()

	for _, origin := range []int{0, 17, 41} {
		sp := path.DijkstraFrom(simple.Node(origin), g)

		all, err := h.WithinRadius(origin, math.MaxFloat64)
		require.NoError(t, err)
		require.Len(t, all, m.NumVertices())

		for _, c := range all {
			assert.InDelta(t, sp.WeightTo(int64(c.Vertex)), c.Dist, 1e-9, "origin %d vertex %d", origin, c.Vertex)
		}

		targets := []int{5, 12, 30, origin}
		got, err := h.DistancesTo(origin, targets)
		require.NoError(t, err)
		require.Len(t, got, len(targets))
		for _, c := range got {
			assert.InDelta(t, sp.WeightTo(int64(c.Vertex)), c.Dist, 1e-9)
		}
	}
}

func TestWithinRadiusOrdered(t *testing.T) {
	m, err := mesh.NewGrid(5, 5, 1)
	require.NoError(t, err)
	h := New(m)

	got, err := h.WithinRadius(12, 2.5)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, 12, got[0].Vertex)
	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		ordered := prev.Dist < cur.Dist || (prev.Dist == cur.Dist && prev.Vertex < cur.Vertex)
		assert.True(t, ordered, "candidates %v and %v out of order", prev, cur)
		assert.LessOrEqual(t, cur.Dist, 2.5)
	}
}

func TestConcurrentQueries(t *testing.T) {
	m, err := mesh.NewGrid(10, 10, 1)
	require.NoError(t, err)
	h := New(m)

	want, err := h.WithinRadius(55, 3)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				got, err := h.WithinRadius(55, 3)
				assert.NoError(t, err)
				assert.Equal(t, want, got)
			}
		}()
	}
	wg.Wait()
}
