package label

import (
	"strconv"
	"strings"

	"github.com/matzehuels/surflabel/pkg/errors"
)

// AllColumnsIndex is returned by ColumnIndex for a selector that picks every
// column.
const AllColumnsIndex = -1

// Selector picks either every column of a File or a single column by name
// or 1-based number. The zero value selects all columns.
type Selector struct {
	ref string
}

// AllColumns returns the selector for every column.
func AllColumns() Selector { return Selector{} }

// SelectColumn returns a selector for one column. ref is a column name or a
// 1-based column number, e.g. "2" or "aparc".
func SelectColumn(ref string) Selector { return Selector{ref: ref} }

// SelectIndex returns a selector for the zero-based column index i.
func SelectIndex(i int) Selector { return Selector{ref: strconv.Itoa(i + 1)} }

// All reports whether the selector picks every column.
func (s Selector) All() bool { return s.ref == "" }

// String returns the column reference, or "all" for the all-columns
// selector.
func (s Selector) String() string {
	if s.All() {
		return "all"
	}
	return s.ref
}

// ColumnIndex resolves sel against f. It returns AllColumnsIndex for the
// all-columns selector. A reference that parses as an integer is a 1-based
// column number; anything else is matched against column names, first match
// wins. An unresolvable reference is an INVALID_ARGUMENT error.
func (f *File) ColumnIndex(sel Selector) (int, error) {
	if sel.All() {
		return AllColumnsIndex, nil
	}

	ref := strings.TrimSpace(sel.ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(f.columns) {
			return 0, errors.New(errors.ErrCodeInvalidArgument,
				"invalid column specified: %d (file has %d columns)", n, len(f.columns))
		}
		return n - 1, nil
	}

	for i, c := range f.columns {
		if c.Name == sel.ref {
			return i, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidArgument, "invalid column specified: %q", sel.ref)
}
