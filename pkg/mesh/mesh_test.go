package mesh

import (
	"math"
	"slices"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/surflabel/pkg/errors"
)

func square(t *testing.T) *Surface {
	t.Helper()
	coords := []r3.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	s, err := New(coords, []Triangle{{0, 1, 2}, {0, 2, 3}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestNewValidation(t *testing.T) {
	coords := []r3.Vec{{}, {X: 1}, {Y: 1}}
	tests := []struct {
		name    string
		tris    []Triangle
		wantErr bool
	}{
		{"valid", []Triangle{{0, 1, 2}}, false},
		{"no triangles", nil, false},
		{"out of range", []Triangle{{0, 1, 3}}, true},
		{"negative", []Triangle{{0, -1, 2}}, true},
		{"repeated vertex", []Triangle{{0, 1, 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(coords, tt.tris)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidMesh) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidMesh)
			}
		})
	}
}

func TestNeighbors(t *testing.T) {
	s := square(t)

	tests := []struct {
		v    int
		want []int
	}{
		{0, []int{1, 2, 3}},
		{1, []int{0, 2}},
		{2, []int{0, 1, 3}},
		{3, []int{0, 2}},
		{4, nil},
		{-1, nil},
	}
	for _, tt := range tests {
		if got := s.Neighbors(tt.v); !slices.Equal(got, tt.want) {
			t.Errorf("Neighbors(%d) = %v, want %v", tt.v, got, tt.want)
		}
	}
	if got := s.EdgeCount(); got != 5 {
		t.Errorf("EdgeCount() = %d, want 5", got)
	}
}

func TestIsolatedVertex(t *testing.T) {
	coords := []r3.Vec{{}, {X: 1}, {Y: 1}, {X: 5, Y: 5}}
	s, err := New(coords, []Triangle{{0, 1, 2}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.Degree(3) != 0 {
		t.Errorf("Degree(3) = %d, want 0", s.Degree(3))
	}
}

func TestEdgeLength(t *testing.T) {
	s := square(t)
	if got := s.EdgeLength(0, 1); got != 1 {
		t.Errorf("EdgeLength(0, 1) = %v, want 1", got)
	}
	if got := s.EdgeLength(0, 2); math.Abs(got-math.Sqrt2) > 1e-12 {
		t.Errorf("EdgeLength(0, 2) = %v, want %v", got, math.Sqrt2)
	}
}

func TestNodeAreas(t *testing.T) {
	s := square(t)
	areas := s.NodeAreas()

	want := []float64{1.0 / 3, 1.0 / 6, 1.0 / 3, 1.0 / 6}
	for i := range want {
		if math.Abs(areas[i]-want[i]) > 1e-12 {
			t.Errorf("NodeAreas()[%d] = %v, want %v", i, areas[i], want[i])
		}
	}

	var sum float64
	for _, a := range areas {
		sum += a
	}
	if math.Abs(sum-s.TotalArea()) > 1e-12 {
		t.Errorf("sum(NodeAreas) = %v, TotalArea = %v", sum, s.TotalArea())
	}
	if math.Abs(s.TotalArea()-1) > 1e-12 {
		t.Errorf("TotalArea() = %v, want 1", s.TotalArea())
	}
}

func TestNewGrid(t *testing.T) {
	s, err := NewGrid(4, 3, 2)
	if err != nil {
		t.Fatalf("NewGrid() error = %v", err)
	}
	if s.NumVertices() != 12 {
		t.Errorf("NumVertices() = %d, want 12", s.NumVertices())
	}
	if s.NumTriangles() != 12 {
		t.Errorf("NumTriangles() = %d, want 12", s.NumTriangles())
	}
	if math.Abs(s.TotalArea()-24) > 1e-9 {
		t.Errorf("TotalArea() = %v, want 24", s.TotalArea())
	}

	if _, err := NewGrid(0, 3, 1); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("NewGrid(0, 3, 1) error = %v, want INVALID_ARGUMENT", err)
	}
	if _, err := NewGrid(2, 2, 0); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("NewGrid(2, 2, 0) error = %v, want INVALID_ARGUMENT", err)
	}
}

func TestComponents(t *testing.T) {
	coords := []r3.Vec{{}, {X: 1}, {Y: 1}, {X: 10}, {X: 11}, {X: 10, Y: 1}, {X: 1, Y: 1}, {X: 50}}
	s, err := New(coords, []Triangle{{0, 1, 2}, {1, 6, 2}, {3, 4, 5}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got := s.Components()
	want := [][]int{{0, 1, 2, 6}, {3, 4, 5}, {7}}
	if len(got) != len(want) {
		t.Fatalf("Components() = %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("Components()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGraphWeights(t *testing.T) {
	s := square(t)
	g := s.Graph()
	w, ok := g.Weight(0, 2)
	if !ok {
		t.Fatal("Weight(0, 2) missing")
	}
	if math.Abs(w-math.Sqrt2) > 1e-12 {
		t.Errorf("Weight(0, 2) = %v, want %v", w, math.Sqrt2)
	}
	if _, ok := g.Weight(1, 3); ok {
		t.Error("Weight(1, 3) present, want absent")
	}
}
