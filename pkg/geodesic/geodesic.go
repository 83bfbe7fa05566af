// Package geodesic answers shortest-path distance queries along a surface.
//
// Distances are computed with Dijkstra's algorithm over the mesh edge graph,
// using Euclidean edge lengths as weights. This approximates the true
// geodesic from above; it is exact along mesh edges.
//
// A [Helper] is safe for concurrent use: every query draws its own scratch
// state from a pool, so dilation workers can share one Helper.
package geodesic

import (
	"math"
	"sync"

	"github.com/emirpasic/gods/queues/priorityqueue"

	"github.com/matzehuels/surflabel/pkg/errors"
)

// Graph is the weighted adjacency a Helper searches.
// *mesh.Surface satisfies it.
type Graph interface {
	NumVertices() int
	Neighbors(v int) []int
	EdgeLength(a, b int) float64
}

// Candidate is a vertex paired with its geodesic distance from the query
// origin.
type Candidate struct {
	Vertex int
	Dist   float64
}

// Helper runs geodesic queries against a fixed graph.
type Helper struct {
	g    Graph
	n    int
	pool sync.Pool
}

// New creates a Helper for g. The graph must not change while the Helper
// is in use.
func New(g Graph) *Helper {
	h := &Helper{g: g, n: g.NumVertices()}
	h.pool.New = func() any { return newScratch(h.n) }
	return h
}

// NumVertices returns the vertex count of the underlying graph.
func (h *Helper) NumVertices() int { return h.n }

// WithinRadius returns every vertex whose geodesic distance from v is at
// most radius, including v itself at distance 0. Candidates are returned in
// the order they are settled: ascending distance, ties by vertex index.
func (h *Helper) WithinRadius(v int, radius float64) ([]Candidate, error) {
	if err := h.checkVertex(v); err != nil {
		return nil, err
	}
	if err := errors.ValidateRadius(radius); err != nil {
		return nil, err
	}

	s := h.acquire()
	defer h.release(s)

	var out []Candidate
	s.run(h.g, v, func(u int, d float64) bool {
		if d > radius {
			return false
		}
		out = append(out, Candidate{Vertex: u, Dist: d})
		return true
	})
	return out, nil
}

// DistancesTo returns the geodesic distance from v to each vertex in
// targets, in the order given. Targets not reachable from v are omitted.
// The search stops as soon as every target has been settled.
func (h *Helper) DistancesTo(v int, targets []int) ([]Candidate, error) {
	if err := h.checkVertex(v); err != nil {
		return nil, err
	}
	for _, t := range targets {
		if err := h.checkVertex(t); err != nil {
			return nil, err
		}
	}
	if len(targets) == 0 {
		return nil, nil
	}

	s := h.acquire()
	defer h.release(s)

	remaining := 0
	for _, t := range targets {
		if !s.wanted[t] {
			s.wanted[t] = true
			remaining++
		}
	}
	s.run(h.g, v, func(u int, _ float64) bool {
		if s.wanted[u] {
			remaining--
		}
		return remaining > 0
	})

	out := make([]Candidate, 0, len(targets))
	for _, t := range targets {
		if s.settled[t] {
			out = append(out, Candidate{Vertex: t, Dist: s.dist[t]})
		}
		s.wanted[t] = false
	}
	return out, nil
}

// Distance returns the geodesic distance between a and b, or +Inf when b is
// unreachable from a.
func (h *Helper) Distance(a, b int) (float64, error) {
	c, err := h.DistancesTo(a, []int{b})
	if err != nil {
		return 0, err
	}
	if len(c) == 0 {
		return math.Inf(1), nil
	}
	return c[0].Dist, nil
}

func (h *Helper) checkVertex(v int) error {
	if v < 0 || v >= h.n {
		return errors.New(errors.ErrCodeInvalidArgument, "vertex %d out of range [0, %d)", v, h.n)
	}
	return nil
}

func (h *Helper) acquire() *scratch { return h.pool.Get().(*scratch) }

func (h *Helper) release(s *scratch) {
	s.reset()
	h.pool.Put(s)
}

// item is a frontier entry.
type item struct {
	v int
	d float64
}

func byDistThenVertex(a, b any) int {
	x, y := a.(item), b.(item)
	switch {
	case x.d < y.d:
		return -1
	case x.d > y.d:
		return 1
	case x.v < y.v:
		return -1
	case x.v > y.v:
		return 1
	}
	return 0
}

// scratch is the per-query state. Only touched entries are reset, so a query
// costs time proportional to the explored region, not the whole mesh.
type scratch struct {
	dist    []float64
	settled []bool
	wanted  []bool
	touched []int
	queue   *priorityqueue.Queue
}

func newScratch(n int) *scratch {
	s := &scratch{
		dist:    make([]float64, n),
		settled: make([]bool, n),
		wanted:  make([]bool, n),
		queue:   priorityqueue.NewWith(byDistThenVertex),
	}
	for i := range s.dist {
		s.dist[i] = math.Inf(1)
	}
	return s
}

func (s *scratch) touch(v int, d float64) {
	if math.IsInf(s.dist[v], 1) {
		s.touched = append(s.touched, v)
	}
	s.dist[v] = d
}

// run settles vertices from origin in (distance, index) order, calling visit
// after each is settled. The search stops when visit returns false.
func (s *scratch) run(g Graph, origin int, visit func(v int, d float64) bool) {
	s.touch(origin, 0)
	s.queue.Enqueue(item{v: origin, d: 0})

	for !s.queue.Empty() {
		raw, _ := s.queue.Dequeue()
		it := raw.(item)
		if s.settled[it.v] || it.d > s.dist[it.v] {
			continue
		}
		s.settled[it.v] = true
		if !visit(it.v, it.d) {
			return
		}

		for _, u := range g.Neighbors(it.v) {
			if s.settled[u] {
				continue
			}
			nd := it.d + g.EdgeLength(it.v, u)
			if nd < s.dist[u] {
				s.touch(u, nd)
				s.queue.Enqueue(item{v: u, d: nd})
			}
		}
	}
}

func (s *scratch) reset() {
	for _, v := range s.touched {
		s.dist[v] = math.Inf(1)
		s.settled[v] = false
	}
	s.touched = s.touched[:0]
	s.queue.Clear()
}
