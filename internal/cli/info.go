package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/surflabel/pkg/errors"
	"github.com/matzehuels/surflabel/pkg/label"
	"github.com/matzehuels/surflabel/pkg/mesh"
	"github.com/matzehuels/surflabel/pkg/surfio"
)

// surfaceInfo summarizes a surface and, optionally, its label file.
type surfaceInfo struct {
	Vertices   int         `json:"vertices"`
	Triangles  int         `json:"triangles"`
	Edges      int         `json:"edges"`
	Area       float64     `json:"area"`
	Components int         `json:"components"`
	Isolated   int         `json:"isolated_vertices"`
	Labels     *labelsInfo `json:"labels,omitempty"`
}

type labelsInfo struct {
	TableEntries  int          `json:"table_entries"`
	UnassignedKey int32        `json:"unassigned_key"`
	Columns       []columnInfo `json:"columns"`
}

type columnInfo struct {
	Name     string `json:"name"`
	Assigned int    `json:"assigned"`
	Distinct int    `json:"distinct_labels"`
}

// infoCommand creates the info command.
func (c *CLI) infoCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info <surface.json> [labels.json]",
		Short: "Summarize a surface and its label columns",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			surf, err := surfio.ReadSurfaceFile(args[0])
			if err != nil {
				return err
			}
			var labels *label.File
			if len(args) == 2 {
				if labels, err = surfio.ReadLabelsFile(args[1]); err != nil {
					return err
				}
				if err := errors.ValidateVertexCount(surf.NumVertices(), labels.NumVertices()); err != nil {
					return err
				}
			}

			info := describe(surf, labels)
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			printInfoReport(args[0], info)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func describe(surf *mesh.Surface, labels *label.File) surfaceInfo {
	info := surfaceInfo{
		Vertices:  surf.NumVertices(),
		Triangles: surf.NumTriangles(),
		Edges:     surf.EdgeCount(),
		Area:      surf.TotalArea(),
	}
	for _, comp := range surf.Components() {
		if len(comp) == 1 && surf.Degree(comp[0]) == 0 {
			info.Isolated++
			continue
		}
		info.Components++
	}
	if labels == nil {
		return info
	}

	li := &labelsInfo{
		TableEntries:  labels.Table.Len(),
		UnassignedKey: labels.UnassignedKey(),
	}
	for i := range labels.NumColumns() {
		distinct := make(map[int32]struct{})
		for _, k := range labels.Keys(i) {
			if k != li.UnassignedKey {
				distinct[k] = struct{}{}
			}
		}
		li.Columns = append(li.Columns, columnInfo{
			Name:     labels.ColumnName(i),
			Assigned: labels.CountAssigned(i),
			Distinct: len(distinct),
		})
	}
	info.Labels = li
	return info
}

func printInfoReport(path string, info surfaceInfo) {
	fmt.Fprintln(out, StyleTitle.Render(path))
	printKeyValue("Vertices", strconv.Itoa(info.Vertices))
	printKeyValue("Triangles", strconv.Itoa(info.Triangles))
	printKeyValue("Edges", strconv.Itoa(info.Edges))
	printKeyValue("Area", fmt.Sprintf("%.2f mm²", info.Area))
	printKeyValue("Components", strconv.Itoa(info.Components))
	if info.Isolated > 0 {
		printWarning("%d isolated vertices (no triangles)", info.Isolated)
	}
	if info.Labels == nil {
		return
	}

	printNewline()
	printKeyValue("Label table", fmt.Sprintf("%d entries", info.Labels.TableEntries))
	printKeyValue("Unassigned", strconv.Itoa(int(info.Labels.UnassignedKey)))

	rows := make([][]string, len(info.Labels.Columns))
	for i, col := range info.Labels.Columns {
		pct := 0.0
		if info.Vertices > 0 {
			pct = 100 * float64(col.Assigned) / float64(info.Vertices)
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			col.Name,
			strconv.Itoa(col.Assigned),
			fmt.Sprintf("%.1f%%", pct),
			strconv.Itoa(col.Distinct),
		}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("#", "Column", "Assigned", "Coverage", "Labels").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 1 {
				return StyleValue
			}
			return StyleNumber
		})
	fmt.Fprintln(out, t.Render())
	printNextStep("Dilate", "surflabel dilate <surface> <labels> --distance 2")
}
