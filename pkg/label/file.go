package label

import (
	"slices"

	"github.com/matzehuels/surflabel/pkg/errors"
)

// Column is one map of per-vertex label keys.
type Column struct {
	Name string
	Keys []int32
}

// File is a set of label columns over the same vertices, sharing one label
// table.
//
// File is not safe for concurrent mutation; concurrent reads are fine.
type File struct {
	Table   *Table
	columns []Column
	n       int
}

// NewFile creates an empty file for numVertices vertices. A nil table is
// replaced by NewTable().
func NewFile(numVertices int, table *Table) *File {
	if table == nil {
		table = NewTable()
	}
	return &File{Table: table, n: numVertices}
}

// NumVertices returns the number of vertices every column covers.
func (f *File) NumVertices() int { return f.n }

// NumColumns returns the number of columns.
func (f *File) NumColumns() int { return len(f.columns) }

// UnassignedKey is shorthand for f.Table.UnassignedKey().
func (f *File) UnassignedKey() int32 { return f.Table.UnassignedKey() }

// ColumnName returns the name of column col.
func (f *File) ColumnName(col int) string { return f.columns[col].Name }

// Keys returns the label keys of column col. The returned slice should not be
// modified - use it as a read-only view.
func (f *File) Keys(col int) []int32 { return f.columns[col].Keys }

// Column returns a copy of column col.
func (f *File) Column(col int) Column {
	c := f.columns[col]
	return Column{Name: c.Name, Keys: slices.Clone(c.Keys)}
}

// Columns returns copies of all columns.
func (f *File) Columns() []Column {
	out := make([]Column, len(f.columns))
	for i := range f.columns {
		out[i] = f.Column(i)
	}
	return out
}

// AddColumn appends a column. The key slice is copied. It returns an
// INVALID_LABELS error when the name is invalid or the key count does not
// match NumVertices.
func (f *File) AddColumn(name string, keys []int32) error {
	if err := f.checkColumn(name, keys); err != nil {
		return err
	}
	f.columns = append(f.columns, Column{Name: name, Keys: slices.Clone(keys)})
	return nil
}

// SetColumn replaces the name and keys of column col.
func (f *File) SetColumn(col int, name string, keys []int32) error {
	if col < 0 || col >= len(f.columns) {
		return errors.New(errors.ErrCodeInvalidArgument, "column %d out of range", col)
	}
	if err := f.checkColumn(name, keys); err != nil {
		return err
	}
	f.columns[col] = Column{Name: name, Keys: slices.Clone(keys)}
	return nil
}

func (f *File) checkColumn(name string, keys []int32) error {
	if err := errors.ValidateColumnName(name); err != nil {
		return err
	}
	if len(keys) != f.n {
		return errors.New(errors.ErrCodeInvalidLabels,
			"column %q has %d keys, file has %d vertices", name, len(keys), f.n)
	}
	return nil
}

// CountAssigned returns the number of vertices in column col whose key is
// not the unassigned sentinel.
func (f *File) CountAssigned(col int) int {
	un := f.UnassignedKey()
	count := 0
	for _, k := range f.columns[col].Keys {
		if k != un {
			count++
		}
	}
	return count
}
