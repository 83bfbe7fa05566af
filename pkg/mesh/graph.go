package mesh

import (
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Graph exports the edge graph of the surface as a gonum weighted
// undirected graph. Node IDs equal vertex indices and edge weights are
// Euclidean edge lengths. Isolated vertices are included as nodes.
func (s *Surface) Graph() *simple.WeightedUndirectedGraph {
	g := simple.NewWeightedUndirectedGraph(0, 0)
	for v := range s.coords {
		g.AddNode(simple.Node(v))
	}
	for a, adj := range s.neighbors {
		for _, b := range adj {
			if b <= a {
				continue
			}
			g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(a), simple.Node(b), s.EdgeLength(a, b)))
		}
	}
	return g
}

// Components returns the connected components of the surface as sorted
// vertex index lists, largest component first. Dilation never crosses
// from one component into another.
func (s *Surface) Components() [][]int {
	cc := topo.ConnectedComponents(s.Graph())
	out := make([][]int, len(cc))
	for i, comp := range cc {
		ids := make([]int, len(comp))
		for j, n := range comp {
			ids[j] = int(n.ID())
		}
		slices.Sort(ids)
		out[i] = ids
	}
	slices.SortFunc(out, func(a, b []int) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return a[0] - b[0]
	})
	return out
}
