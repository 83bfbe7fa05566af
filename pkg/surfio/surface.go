package surfio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/surflabel/pkg/errors"
	"github.com/matzehuels/surflabel/pkg/mesh"
)

type surface struct {
	Vertices  [][3]float64    `json:"vertices"`
	Triangles []mesh.Triangle `json:"triangles"`
}

// ReadSurface decodes a JSON surface from r and builds a validated mesh.
// ReadSurface does not close r.
func ReadSurface(r io.Reader) (*mesh.Surface, error) {
	var data surface
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMesh, err, "decode surface")
	}
	if len(data.Vertices) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidMesh, "surface has no vertices")
	}

	coords := make([]r3.Vec, len(data.Vertices))
	for i, v := range data.Vertices {
		coords[i] = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	}
	return mesh.New(coords, data.Triangles)
}

// ReadSurfaceFile reads a JSON surface from path.
func ReadSurfaceFile(path string) (*mesh.Surface, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSurface(f)
}

// WriteSurface encodes s as JSON to w.
func WriteSurface(s *mesh.Surface, w io.Writer) error {
	data := surface{
		Vertices:  make([][3]float64, s.NumVertices()),
		Triangles: s.Triangles(),
	}
	for i := range data.Vertices {
		c := s.Coord(i)
		data.Vertices[i] = [3]float64{c.X, c.Y, c.Z}
	}
	return encode(w, data)
}

// MarshalSurface converts s to JSON bytes.
func MarshalSurface(s *mesh.Surface) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSurface(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func openFile(path string) (*os.File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
