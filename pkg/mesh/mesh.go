package mesh

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/surflabel/pkg/errors"
)

// Triangle holds the three vertex indices of a mesh face.
type Triangle [3]int32

// Surface is a triangulated surface: vertex coordinates plus faces.
// Adjacency is derived from the faces once, at construction time.
//
// The zero value is not usable - use New to create a valid Surface.
// A Surface is immutable after construction and safe for concurrent reads.
type Surface struct {
	coords    []r3.Vec
	triangles []Triangle
	neighbors [][]int
}

// New builds a Surface from vertex coordinates and triangles.
// It returns an INVALID_MESH error if a triangle references a vertex
// outside [0, len(coords)) or repeats a vertex.
func New(coords []r3.Vec, triangles []Triangle) (*Surface, error) {
	s := &Surface{
		coords:    slices.Clone(coords),
		triangles: slices.Clone(triangles),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.buildNeighbors()
	return s, nil
}

// Validate checks that every triangle references three distinct, existing
// vertices.
func (s *Surface) Validate() error {
	n := int32(len(s.coords))
	for i, t := range s.triangles {
		for _, v := range t {
			if v < 0 || v >= n {
				return errors.New(errors.ErrCodeInvalidMesh,
					"triangle %d references vertex %d, surface has %d vertices", i, v, n)
			}
		}
		if t[0] == t[1] || t[1] == t[2] || t[0] == t[2] {
			return errors.New(errors.ErrCodeInvalidMesh, "triangle %d is degenerate: %v", i, t)
		}
	}
	return nil
}

func (s *Surface) buildNeighbors() {
	s.neighbors = make([][]int, len(s.coords))
	for _, t := range s.triangles {
		for k := 0; k < 3; k++ {
			a, b := int(t[k]), int(t[(k+1)%3])
			s.neighbors[a] = append(s.neighbors[a], b)
			s.neighbors[b] = append(s.neighbors[b], a)
		}
	}
	for v, adj := range s.neighbors {
		slices.Sort(adj)
		s.neighbors[v] = slices.Compact(adj)
	}
}

// NumVertices returns the number of vertices (nodes) of the surface.
func (s *Surface) NumVertices() int { return len(s.coords) }

// NumTriangles returns the number of faces.
func (s *Surface) NumTriangles() int { return len(s.triangles) }

// Coord returns the coordinate of vertex v.
func (s *Surface) Coord(v int) r3.Vec { return s.coords[v] }

// Triangles returns a copy of the face list.
func (s *Surface) Triangles() []Triangle { return slices.Clone(s.triangles) }

// Neighbors returns the vertices sharing an edge with v, in ascending order.
// Returns nil for an isolated vertex or an out-of-range index. The returned
// slice should not be modified - use it as a read-only view.
func (s *Surface) Neighbors(v int) []int {
	if v < 0 || v >= len(s.neighbors) {
		return nil
	}
	return s.neighbors[v]
}

// Degree returns the number of distinct neighbors of v.
func (s *Surface) Degree(v int) int { return len(s.Neighbors(v)) }

// EdgeLength returns the Euclidean distance between vertices a and b.
func (s *Surface) EdgeLength(a, b int) float64 {
	return r3.Norm(r3.Sub(s.coords[a], s.coords[b]))
}

// EdgeCount returns the number of distinct undirected edges.
func (s *Surface) EdgeCount() int {
	total := 0
	for _, adj := range s.neighbors {
		total += len(adj)
	}
	return total / 2
}
