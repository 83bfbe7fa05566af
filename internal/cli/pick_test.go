package cli

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/surflabel/pkg/errors"
	"github.com/matzehuels/surflabel/pkg/label"
)

func pickerFile(t *testing.T, names ...string) *label.File {
	t.Helper()
	f := label.NewFile(3, nil)
	for i, name := range names {
		keys := make([]int32, 3)
		keys[0] = int32(i) // first column stays empty
		if err := f.AddColumn(name, keys); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func press(m ColumnListModel, keys ...tea.KeyType) ColumnListModel {
	for _, k := range keys {
		next, _ := m.Update(tea.KeyMsg{Type: k})
		m = next.(ColumnListModel)
	}
	return m
}

func TestColumnListNavigation(t *testing.T) {
	m := NewColumnListModel(pickerFile(t, "aparc", "a2009s", "dkt"))
	if m.Selected != -1 {
		t.Fatalf("Selected = %d before any key", m.Selected)
	}
	if m.Assigned[0] != 0 || m.Assigned[1] != 1 {
		t.Errorf("Assigned = %v", m.Assigned)
	}

	m = press(m, tea.KeyDown, tea.KeyDown, tea.KeyDown, tea.KeyUp)
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1 (clamped at the last column, then up)", m.Cursor)
	}
	m = press(m, tea.KeyEnter)
	if m.Selected != 1 {
		t.Errorf("Selected = %d, want 1", m.Selected)
	}
}

func TestColumnListQuit(t *testing.T) {
	m := press(NewColumnListModel(pickerFile(t, "a", "b")), tea.KeyDown, tea.KeyEsc)
	if m.Selected != -1 {
		t.Errorf("Selected = %d after esc, want -1", m.Selected)
	}
}

func TestColumnListScroll(t *testing.T) {
	m := NewColumnListModel(pickerFile(t, "a", "b", "c", "d", "e", "f", "g"))
	next, _ := m.Update(tea.WindowSizeMsg{Height: 8})
	m = next.(ColumnListModel)
	if m.Height != 5 {
		t.Fatalf("Height = %d, want the minimum of 5", m.Height)
	}
	for range 6 {
		m = press(m, tea.KeyDown)
	}
	if m.Offset != 2 {
		t.Errorf("Offset = %d, want 2", m.Offset)
	}
}

func TestColumnListView(t *testing.T) {
	view := NewColumnListModel(pickerFile(t, "aparc", "dkt")).View()
	for _, want := range []string{"Select Label Column", "aparc", "dkt", "[1/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestPickColumnNoColumns(t *testing.T) {
	_, err := pickColumn(label.NewFile(3, nil), strings.NewReader(""), io.Discard)
	if !errors.Is(err, errors.ErrCodeInvalidLabels) {
		t.Errorf("error = %v, want INVALID_LABELS", err)
	}
}
