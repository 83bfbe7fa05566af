// Package pipeline runs label dilation end to end for the CLI and the API.
//
// A [Runner] hashes its inputs, looks the result up in a cache, runs the
// dilation engine on a miss, and stores the output for next time. Both entry
// points go through the same Runner so caching, logging and observability
// behave identically.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Dilate(ctx, surf, labels, pipeline.Options{
//	    Radius: 2,
//	    Column: "aparc",
//	})
//	if err != nil {
//	    return err
//	}
//	surfio.WriteLabelsFile(res.Labels, "out.json")
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/surflabel/pkg/cache"
	"github.com/matzehuels/surflabel/pkg/dilate"
	"github.com/matzehuels/surflabel/pkg/errors"
	"github.com/matzehuels/surflabel/pkg/label"
)

// DefaultWorkers is the per-vertex parallelism used when Options.Workers is
// zero.
var DefaultWorkers = runtime.NumCPU()

// keyTypeDilate labels dilation entries in cache hooks.
const keyTypeDilate = "dilate"

// Options configures one dilation run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Radius is the dilation distance in mm.
	Radius float64 `json:"radius"`

	// Column selects one column by name or 1-based number; empty means all.
	Column string `json:"column,omitempty"`

	// Workers is the number of goroutines used per column.
	Workers int `json:"workers,omitempty"`

	// Refresh skips the cache lookup (the result is still stored).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger         `json:"-"`
	Progress dilate.ProgressFunc `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateRadius(o.Radius); err != nil {
		return err
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "workers must be >= 0, got %d", o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Selector returns the column selector described by Column.
func (o *Options) Selector() label.Selector {
	if o.Column == "" {
		return label.AllColumns()
	}
	return label.SelectColumn(o.Column)
}

// KeyOpts returns the cache key options for this run.
func (o *Options) KeyOpts() cache.DilateKeyOpts {
	sel := o.Selector()
	if sel.All() {
		return cache.DilateKeyOpts{Radius: o.Radius, All: true}
	}
	return cache.DilateKeyOpts{Radius: o.Radius, Column: o.Column}
}

// Result is the output of Runner.Dilate.
type Result struct {
	// Labels holds one dilated column per selected input column.
	Labels *label.File

	// Stats has one entry per output column.
	Stats []dilate.ColumnStats

	// SurfaceHash and LabelsHash identify the inputs.
	SurfaceHash string
	LabelsHash  string

	// CacheHit reports whether Labels came from the cache.
	CacheHit bool

	Duration time.Duration
}
