package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/surflabel/pkg/errors"
	"github.com/matzehuels/surflabel/pkg/label"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ColumnListModel - Interactive label column selection
// =============================================================================

// ColumnListModel is the bubbletea model for picking one label column.
type ColumnListModel struct {
	Columns  []label.Column
	Assigned []int
	Cursor   int
	Selected int // -1 until a column is chosen
	Height   int
	Offset   int
}

// NewColumnListModel creates a picker over the columns of f.
func NewColumnListModel(f *label.File) ColumnListModel {
	assigned := make([]int, f.NumColumns())
	for i := range assigned {
		assigned[i] = f.CountAssigned(i)
	}
	return ColumnListModel{
		Columns:  f.Columns(),
		Assigned: assigned,
		Selected: -1,
		Height:   15,
	}
}

func (m ColumnListModel) Init() tea.Cmd {
	return nil
}

func (m ColumnListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Columns)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Columns) > 0 {
				m.Selected = m.Cursor
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m ColumnListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Label Column"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Columns))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, strconv.Itoa(i + 1), m.Columns[i].Name, strconv.Itoa(m.Assigned[i])})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(listDimStyle).
		Headers("", "#", "Column", "Assigned").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			idx := m.Offset + row
			if idx == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if idx < len(m.Assigned) && m.Assigned[idx] == 0 {
				return listDimStyle
			}
			return StyleValue
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Columns))))

	return b.String()
}

// pickColumn runs the picker and returns a selector for the chosen column.
func pickColumn(f *label.File, in io.Reader, w io.Writer) (label.Selector, error) {
	if f.NumColumns() == 0 {
		return label.Selector{}, errors.New(errors.ErrCodeInvalidLabels, "label file has no columns")
	}
	opts := []tea.ProgramOption{tea.WithOutput(w)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	final, err := tea.NewProgram(NewColumnListModel(f), opts...).Run()
	if err != nil {
		return label.Selector{}, fmt.Errorf("column picker: %w", err)
	}
	m, ok := final.(ColumnListModel)
	if !ok || m.Selected < 0 {
		return label.Selector{}, fmt.Errorf("no column selected: %w", context.Canceled)
	}
	return label.SelectIndex(m.Selected), nil
}
