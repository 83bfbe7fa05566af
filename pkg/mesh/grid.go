package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/surflabel/pkg/errors"
)

// NewGrid builds a flat nx-by-ny vertex grid in the z=0 plane with the given
// spacing, split into two triangles per cell along the same diagonal.
// Vertex (i, j) has index j*nx + i.
func NewGrid(nx, ny int, spacing float64) (*Surface, error) {
	if nx < 1 || ny < 1 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "grid must be at least 1x1, got %dx%d", nx, ny)
	}
	if spacing <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "grid spacing must be positive, got %g", spacing)
	}

	coords := make([]r3.Vec, 0, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			coords = append(coords, r3.Vec{X: float64(i) * spacing, Y: float64(j) * spacing})
		}
	}

	var tris []Triangle
	for j := 0; j+1 < ny; j++ {
		for i := 0; i+1 < nx; i++ {
			v00 := int32(j*nx + i)
			v10 := v00 + 1
			v01 := v00 + int32(nx)
			v11 := v01 + 1
			tris = append(tris, Triangle{v00, v10, v11}, Triangle{v00, v11, v01})
		}
	}
	return New(coords, tris)
}
