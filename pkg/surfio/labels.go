package surfio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/surflabel/pkg/errors"
	"github.com/matzehuels/surflabel/pkg/label"
)

type labels struct {
	NumVertices   *int     `json:"num_vertices,omitempty"`
	UnassignedKey *int32   `json:"unassigned_key,omitempty"`
	Table         []entry  `json:"table"`
	Columns       []column `json:"columns"`
}

type entry struct {
	Key   int32       `json:"key"`
	Name  string      `json:"name"`
	Color *[4]float32 `json:"color,omitempty"`
}

type column struct {
	Name string  `json:"name"`
	Keys []int32 `json:"keys"`
}

// ReadLabels decodes a JSON label file from r. ReadLabels does not close r.
func ReadLabels(r io.Reader) (*label.File, error) {
	var data labels
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLabels, err, "decode labels")
	}
	return toFile(data)
}

// ReadLabelsFile reads a JSON label file from path.
func ReadLabelsFile(path string) (*label.File, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLabels(f)
}

// UnmarshalLabels decodes a label file from JSON bytes.
func UnmarshalLabels(data []byte) (*label.File, error) {
	return ReadLabels(bytes.NewReader(data))
}

// WriteLabels encodes f as JSON to w. Table entries are written in key order.
func WriteLabels(f *label.File, w io.Writer) error {
	return encode(w, fromFile(f))
}

// WriteLabelsFile writes f as JSON to path, creating or truncating it.
func WriteLabelsFile(f *label.File, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteLabels(f, out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// MarshalLabels converts f to JSON bytes.
func MarshalLabels(f *label.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteLabels(f, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toFile(data labels) (*label.File, error) {
	n := 0
	switch {
	case data.NumVertices != nil:
		n = *data.NumVertices
	case len(data.Columns) > 0:
		n = len(data.Columns[0].Keys)
	}
	if n < 0 {
		return nil, errors.New(errors.ErrCodeInvalidLabels, "negative vertex count %d", n)
	}

	tbl := label.NewTable()
	if data.UnassignedKey != nil {
		tbl = label.NewTableWithUnassigned(*data.UnassignedKey)
	}
	for _, e := range data.Table {
		ent := label.Entry{Name: e.Name}
		if e.Color != nil {
			ent.Color = *e.Color
		}
		tbl.Set(e.Key, ent)
	}

	f := label.NewFile(n, tbl)
	for i, c := range data.Columns {
		if err := f.AddColumn(c.Name, c.Keys); err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
	}
	return f, nil
}

func fromFile(f *label.File) labels {
	n := f.NumVertices()
	un := f.UnassignedKey()
	out := labels{
		NumVertices:   &n,
		UnassignedKey: &un,
		Table:         []entry{},
		Columns:       make([]column, f.NumColumns()),
	}
	for _, k := range f.Table.Keys() {
		e, _ := f.Table.Entry(k)
		ent := entry{Key: k, Name: e.Name}
		if e.Color != ([4]float32{}) {
			c := e.Color
			ent.Color = &c
		}
		out.Table = append(out.Table, ent)
	}
	for i := range out.Columns {
		out.Columns[i] = column{Name: f.ColumnName(i), Keys: f.Keys(i)}
	}
	return out
}
