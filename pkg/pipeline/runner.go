package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/surflabel/pkg/cache"
	"github.com/matzehuels/surflabel/pkg/dilate"
	"github.com/matzehuels/surflabel/pkg/label"
	"github.com/matzehuels/surflabel/pkg/mesh"
	"github.com/matzehuels/surflabel/pkg/observability"
	"github.com/matzehuels/surflabel/pkg/surfio"
)

// Runner executes dilations with caching.
//
// The Runner holds no per-run state; multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long results stay cached. NewRunner sets cache.DilationTTL.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DilationTTL,
	}
}

// cachedResult is the cache value for one dilation.
type cachedResult struct {
	Labels json.RawMessage      `json:"labels"`
	Stats  []dilate.ColumnStats `json:"stats"`
}

// Dilate dilates labels on surf, serving the result from the cache when the
// same inputs were dilated before.
func (r *Runner) Dilate(ctx context.Context, surf *mesh.Surface, labels *label.File, opts Options) (*Result, error) {
	start := time.Now()
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	res, err := r.hashInputs(surf, labels)
	if err != nil {
		return nil, err
	}
	key := r.Keyer.DilateKey(res.SurfaceHash, res.LabelsHash, opts.KeyOpts())

	if !opts.Refresh {
		if hit, ok := r.lookup(ctx, key); ok {
			res.Labels, res.Stats, res.CacheHit = hit.labels, hit.stats, true
			res.Duration = time.Since(start)
			r.Logger.Debug("dilation served from cache", "key", key)
			return res, nil
		}
	}

	hooks := observability.Dilation()
	hooks.OnDilateStart(ctx, surf.NumVertices(), labels.NumColumns())
	out, err := dilate.OnMesh(ctx, surf, dilate.Request{
		Labels: labels,
		Radius: opts.Radius,
		Column: opts.Selector(),
	},
		dilate.WithWorkers(opts.Workers),
		dilate.WithLogger(opts.Logger),
		dilate.WithProgress(opts.Progress),
	)
	if err != nil {
		hooks.OnDilateComplete(ctx, time.Since(start), err)
		return nil, err
	}
	for _, st := range out.Stats {
		hooks.OnColumnComplete(ctx, st.Column, st.Filled(), st.Unassigned)
	}
	res.Labels, res.Stats = out.Labels, out.Stats
	res.Duration = time.Since(start)
	hooks.OnDilateComplete(ctx, res.Duration, nil)

	r.Logger.Info("dilated labels",
		"columns", len(out.Stats),
		"radius", opts.Radius,
		"duration", res.Duration)

	r.store(ctx, key, res)
	return res, nil
}

// hashInputs returns a Result carrying the content hashes of both inputs.
func (r *Runner) hashInputs(surf *mesh.Surface, labels *label.File) (*Result, error) {
	if surf == nil || labels == nil {
		return nil, fmt.Errorf("surface and labels are required")
	}
	surfData, err := surfio.MarshalSurface(surf)
	if err != nil {
		return nil, fmt.Errorf("hash surface: %w", err)
	}
	labelData, err := surfio.MarshalLabels(labels)
	if err != nil {
		return nil, fmt.Errorf("hash labels: %w", err)
	}
	return &Result{
		SurfaceHash: cache.Hash(surfData),
		LabelsHash:  cache.Hash(labelData),
	}, nil
}

type cacheHit struct {
	labels *label.File
	stats  []dilate.ColumnStats
}

// lookup returns a cached result. Backend errors and undecodable entries
// count as misses.
func (r *Runner) lookup(ctx context.Context, key string) (cacheHit, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache lookup failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeDilate)
		return cacheHit{}, false
	}

	var cr cachedResult
	if err := json.Unmarshal(data, &cr); err != nil {
		observability.Cache().OnCacheMiss(ctx, keyTypeDilate)
		return cacheHit{}, false
	}
	f, err := surfio.UnmarshalLabels(cr.Labels)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, keyTypeDilate)
		return cacheHit{}, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeDilate)
	return cacheHit{labels: f, stats: cr.Stats}, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result) {
	labelData, err := surfio.MarshalLabels(res.Labels)
	if err != nil {
		return
	}
	data, err := json.Marshal(cachedResult{Labels: labelData, Stats: res.Stats})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeDilate, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
