package mesh

import "gonum.org/v1/gonum/spatial/r3"

// TriangleArea returns the area of triangle t.
func (s *Surface) TriangleArea(t Triangle) float64 {
	a, b, c := s.coords[t[0]], s.coords[t[1]], s.coords[t[2]]
	return 0.5 * r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
}

// NodeAreas returns the area attributed to each vertex: one third of the
// area of every triangle the vertex belongs to. The values sum to
// TotalArea up to rounding.
func (s *Surface) NodeAreas() []float64 {
	areas := make([]float64, len(s.coords))
	for _, t := range s.triangles {
		third := s.TriangleArea(t) / 3
		areas[t[0]] += third
		areas[t[1]] += third
		areas[t[2]] += third
	}
	return areas
}

// TotalArea returns the summed area of all triangles.
func (s *Surface) TotalArea() float64 {
	var total float64
	for _, t := range s.triangles {
		total += s.TriangleArea(t)
	}
	return total
}
