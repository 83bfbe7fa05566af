package dilate

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/surflabel/pkg/errors"
	"github.com/matzehuels/surflabel/pkg/geodesic"
	"github.com/matzehuels/surflabel/pkg/label"
	"github.com/matzehuels/surflabel/pkg/mesh"
)

// Suffix is appended to an input column name to form its output name.
const Suffix = " dilated"

// chunkSize is the number of consecutive vertices handled by one task.
const chunkSize = 1024

// TopologyProvider answers immediate-adjacency queries on the mesh graph.
type TopologyProvider interface {
	NumVertices() int
	Neighbors(v int) []int
}

// GeodesicProvider answers geodesic distance queries. When more than one
// worker is used it must be safe for concurrent use.
type GeodesicProvider interface {
	// WithinRadius returns all vertices within radius of v, with distances.
	WithinRadius(v int, radius float64) ([]geodesic.Candidate, error)
	// DistancesTo returns distances from v to exactly the given vertices.
	DistancesTo(v int, targets []int) ([]geodesic.Candidate, error)
}

// Request describes one dilation run.
type Request struct {
	// Labels is the input. It is never modified.
	Labels *label.File
	// Radius is the dilation distance in surface units (mm); must be >= 0.
	Radius float64
	// Column selects one input column; the zero value dilates all of them.
	Column label.Selector
}

// ColumnStats counts how the vertices of one column were resolved.
type ColumnStats struct {
	Column     string `json:"column"`
	Assigned   int    `json:"assigned"`    // labelled in the input
	ByRadius   int    `json:"by_radius"`   // filled by the radius query
	ByNeighbor int    `json:"by_neighbor"` // filled by the neighbor fallback
	Unassigned int    `json:"unassigned"`  // still unlabelled in the output
}

// Filled returns the number of vertices that gained a label.
func (s ColumnStats) Filled() int { return s.ByRadius + s.ByNeighbor }

func (s *ColumnStats) add(o ColumnStats) {
	s.Assigned += o.Assigned
	s.ByRadius += o.ByRadius
	s.ByNeighbor += o.ByNeighbor
	s.Unassigned += o.Unassigned
}

// Result is the output of Dilate.
type Result struct {
	Labels *label.File
	Stats  []ColumnStats
}

// ProgressFunc reports that done of total vertices of output column col
// have been processed. It may be called from several goroutines at once.
type ProgressFunc func(col, done, total int)

type config struct {
	workers  int
	logger   *log.Logger
	progress ProgressFunc
}

// Option configures a dilation run.
type Option func(*config)

// WithWorkers sets how many goroutines process vertices concurrently.
// Values below 1 are treated as 1.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.workers = n
	}
}

// WithLogger sets the logger used for per-column debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(c *config) { c.progress = fn }
}

func newConfig(opts []Option) config {
	c := config{
		workers: 1,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// OnMesh dilates labels on m using the bundled geodesic helper.
func OnMesh(ctx context.Context, m *mesh.Surface, req Request, opts ...Option) (*Result, error) {
	return Dilate(ctx, m, geodesic.New(m), req, opts...)
}

// Dilate fills unassigned vertices of the selected columns with the label of
// the geodesically nearest assigned vertex within req.Radius, falling back to
// immediate neighbors when the radius query finds none.
//
// All arguments are validated before any work starts: a negative radius, an
// unresolvable column selector or a vertex count that differs from the
// surface yields an INVALID_ARGUMENT error and no output. Errors returned by
// the providers abort the run and are returned wrapped with %w.
func Dilate(ctx context.Context, topo TopologyProvider, geo GeodesicProvider, req Request, opts ...Option) (*Result, error) {
	cols, err := validate(topo, geo, req)
	if err != nil {
		return nil, err
	}
	cfg := newConfig(opts)

	in := req.Labels
	out := label.NewFile(in.NumVertices(), in.Table.Clone())
	res := &Result{Labels: out}

	for i, col := range cols {
		keys, stats, err := run(ctx, topo, geo, in.Keys(col), in.UnassignedKey(), req.Radius, i, cfg)
		if err != nil {
			return nil, err
		}
		name := in.ColumnName(col) + Suffix
		if err := out.AddColumn(name, keys); err != nil {
			return nil, err
		}
		stats.Column = name
		res.Stats = append(res.Stats, stats)

		cfg.logger.Debug("dilated column",
			"column", in.ColumnName(col),
			"by_radius", stats.ByRadius,
			"by_neighbor", stats.ByNeighbor,
			"unassigned", stats.Unassigned)
	}
	return res, nil
}

// DilateColumn dilates a single key column. It is the building block of
// Dilate for callers that manage label storage themselves. keys is not
// modified.
func DilateColumn(ctx context.Context, topo TopologyProvider, geo GeodesicProvider, keys []int32, unassigned int32, radius float64, opts ...Option) ([]int32, ColumnStats, error) {
	if err := validateProviders(topo, geo); err != nil {
		return nil, ColumnStats{}, err
	}
	if err := errors.ValidateRadius(radius); err != nil {
		return nil, ColumnStats{}, err
	}
	if err := errors.ValidateVertexCount(topo.NumVertices(), len(keys)); err != nil {
		return nil, ColumnStats{}, err
	}
	return run(ctx, topo, geo, keys, unassigned, radius, 0, newConfig(opts))
}

func validateProviders(topo TopologyProvider, geo GeodesicProvider) error {
	if topo == nil {
		return errors.New(errors.ErrCodeInvalidArgument, "topology provider is required")
	}
	if geo == nil {
		return errors.New(errors.ErrCodeInvalidArgument, "geodesic provider is required")
	}
	return nil
}

// validate checks the whole request and returns the input column indices to
// process, in output order.
func validate(topo TopologyProvider, geo GeodesicProvider, req Request) ([]int, error) {
	if err := validateProviders(topo, geo); err != nil {
		return nil, err
	}
	if req.Labels == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "label input is required")
	}
	if err := errors.ValidateRadius(req.Radius); err != nil {
		return nil, err
	}
	idx, err := req.Labels.ColumnIndex(req.Column)
	if err != nil {
		return nil, err
	}
	if err := errors.ValidateVertexCount(topo.NumVertices(), req.Labels.NumVertices()); err != nil {
		return nil, err
	}

	var cols []int
	if idx == label.AllColumnsIndex {
		for c := 0; c < req.Labels.NumColumns(); c++ {
			cols = append(cols, c)
		}
	} else {
		cols = []int{idx}
	}
	for _, c := range cols {
		if err := errors.ValidateColumnName(req.Labels.ColumnName(c) + Suffix); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "output name for column %d", c+1)
		}
	}
	return cols, nil
}

// pass holds the read-only state shared by all vertices of one column.
type pass struct {
	topo       TopologyProvider
	geo        GeodesicProvider
	keys       []int32
	mask       *roaring.Bitmap
	unassigned int32
	radius     float64
}

// buildMask returns the set of vertices whose input key is assigned.
func buildMask(keys []int32, unassigned int32) *roaring.Bitmap {
	m := roaring.New()
	for v, k := range keys {
		if k != unassigned {
			m.Add(uint32(v))
		}
	}
	m.RunOptimize()
	return m
}

func run(ctx context.Context, topo TopologyProvider, geo GeodesicProvider, keys []int32, unassigned int32, radius float64, col int, cfg config) ([]int32, ColumnStats, error) {
	p := &pass{
		topo:       topo,
		geo:        geo,
		keys:       keys,
		mask:       buildMask(keys, unassigned),
		unassigned: unassigned,
		radius:     radius,
	}

	n := len(keys)
	out := make([]int32, n)
	numChunks := (n + chunkSize - 1) / chunkSize
	chunkStats := make([]ColumnStats, numChunks)
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for c := 0; c < numChunks; c++ {
		lo, hi := c*chunkSize, min((c+1)*chunkSize, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			st, err := p.fill(out, lo, hi)
			if err != nil {
				return err
			}
			chunkStats[c] = st
			if cfg.progress != nil {
				cfg.progress(col, int(done.Add(int64(hi-lo))), n)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, ColumnStats{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, ColumnStats{}, err
	}

	var total ColumnStats
	for _, st := range chunkStats {
		total.add(st)
	}
	return out, total, nil
}

// fill resolves vertices [lo, hi) into out. Each vertex writes only its own
// slot.
func (p *pass) fill(out []int32, lo, hi int) (ColumnStats, error) {
	var st ColumnStats
	for v := lo; v < hi; v++ {
		if p.mask.Contains(uint32(v)) {
			out[v] = p.keys[v]
			st.Assigned++
			continue
		}
		key, how, err := p.resolve(v)
		if err != nil {
			return st, err
		}
		out[v] = key
		switch how {
		case viaRadius:
			st.ByRadius++
		case viaNeighbor:
			st.ByNeighbor++
		default:
			st.Unassigned++
		}
	}
	return st, nil
}

type source int

const (
	unresolved source = iota
	viaRadius
	viaNeighbor
)

// resolve finds the label for unassigned vertex v.
func (p *pass) resolve(v int) (int32, source, error) {
	cands, err := p.geo.WithinRadius(v, p.radius)
	if err != nil {
		return 0, unresolved, fmt.Errorf("vertex %d: radius query: %w", v, err)
	}
	if key, ok := p.nearestAssigned(cands); ok {
		return key, viaRadius, nil
	}

	nbrs := p.topo.Neighbors(v)
	local := make([]int, 0, len(nbrs)+1)
	local = append(local, nbrs...)
	local = append(local, v)
	cands, err = p.geo.DistancesTo(v, local)
	if err != nil {
		return 0, unresolved, fmt.Errorf("vertex %d: neighbor query: %w", v, err)
	}
	if key, ok := p.nearestAssigned(cands); ok {
		return key, viaNeighbor, nil
	}
	return p.unassigned, unresolved, nil
}

// nearestAssigned returns the input key of the closest assigned candidate.
// Among equally close candidates the first one listed wins.
func (p *pass) nearestAssigned(cands []geodesic.Candidate) (int32, bool) {
	best := -1
	var bestDist float64
	for _, c := range cands {
		if c.Vertex < 0 || !p.mask.Contains(uint32(c.Vertex)) {
			continue
		}
		if best < 0 || c.Dist < bestDist {
			best, bestDist = c.Vertex, c.Dist
		}
	}
	if best < 0 {
		return 0, false
	}
	return p.keys[best], true
}
