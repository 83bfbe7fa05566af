// Package label holds per-vertex label data: a table of named label keys and
// one or more columns assigning a key to every surface vertex.
package label

import (
	"maps"
	"slices"
)

const (
	// DefaultUnassignedKey is the key of the "no label" entry in a new table.
	DefaultUnassignedKey int32 = 0

	// UnassignedName is the display name of the unassigned entry.
	UnassignedName = "???"
)

// Entry describes one label: a name and an RGBA color.
type Entry struct {
	Name  string
	Color [4]float32
}

// Table maps label keys to entries. Exactly one key is the unassigned
// sentinel; vertices carrying that key have no label.
//
// The zero value is not usable - use NewTable.
type Table struct {
	entries    map[int32]Entry
	unassigned int32
}

// NewTable creates a table holding only the unassigned entry at
// DefaultUnassignedKey.
func NewTable() *Table {
	return NewTableWithUnassigned(DefaultUnassignedKey)
}

// NewTableWithUnassigned creates a table whose unassigned sentinel is key.
func NewTableWithUnassigned(key int32) *Table {
	return &Table{
		entries:    map[int32]Entry{key: {Name: UnassignedName, Color: [4]float32{1, 1, 1, 0}}},
		unassigned: key,
	}
}

// UnassignedKey returns the sentinel key meaning "no label".
func (t *Table) UnassignedKey() int32 { return t.unassigned }

// Set adds or replaces the entry for key.
func (t *Table) Set(key int32, e Entry) { t.entries[key] = e }

// Entry returns the entry for key and whether it exists.
func (t *Table) Entry(key int32) (Entry, bool) {
	e, ok := t.entries[key]
	return e, ok
}

// Name returns the name for key, or the empty string for an unknown key.
func (t *Table) Name(key int32) string { return t.entries[key].Name }

// Keys returns all keys in ascending order.
func (t *Table) Keys() []int32 { return slices.Sorted(maps.Keys(t.entries)) }

// Len returns the number of entries, including the unassigned entry.
func (t *Table) Len() int { return len(t.entries) }

// Clone returns an independent copy of the table.
func (t *Table) Clone() *Table {
	return &Table{
		entries:    maps.Clone(t.entries),
		unassigned: t.unassigned,
	}
}
