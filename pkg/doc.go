// Package pkg provides the libraries behind surflabel, a tool that grows
// per-vertex labels across triangulated surface meshes.
//
// # Overview
//
// A label file assigns one integer key per vertex in one or more columns.
// Some vertices carry the unassigned key. Dilation fills each unassigned
// vertex with the label of the nearest labeled vertex, measured by geodesic
// distance along the mesh edges, as long as that vertex lies within a given
// radius. Labels never cross between disconnected parts of a surface.
//
// # Architecture
//
// The data flow for one run:
//
//	surface.json + labels.json
//	         ↓
//	    [surfio] package (decode interchange JSON)
//	         ↓
//	    [mesh] + [label] packages (validated in-memory model)
//	         ↓
//	    [pipeline] package (hash inputs, consult cache)
//	         ↓
//	    [dilate] package (per-column fill, backed by [geodesic])
//	         ↓
//	    labels.json with "<name> dilated" columns
//
// # Quick Start
//
//	surf, _ := surfio.ReadSurfaceFile("lh.white.json")
//	labels, _ := surfio.ReadLabelsFile("lh.aparc.json")
//
//	res, err := dilate.OnMesh(ctx, surf, dilate.Request{
//	    Labels: labels,
//	    Radius: 2,
//	    Column: label.AllColumns(),
//	}, dilate.WithWorkers(runtime.NumCPU()))
//
//	_ = surfio.WriteLabelsFile(res.Labels, "lh.aparc.dilated.json")
//
// # Main Packages
//
// ## Domain
//
// [mesh] - Triangulated surfaces: vertex adjacency, edge lengths, per-vertex
// areas and connected components.
//
// [geodesic] - Bounded Dijkstra over mesh edges. Answers "which vertices lie
// within r of v" and "how far is v from each of these vertices".
//
// [label] - Label tables, per-vertex key columns and column selectors.
//
// [dilate] - The dilation engine. Works against two small provider
// interfaces so any graph and distance source can drive it.
//
// ## Infrastructure
//
// [surfio] - JSON interchange formats for surfaces and label files.
//
// [pipeline] - Runs a dilation with caching and observability, shared by the
// CLI and the HTTP API.
//
// [cache] - Result caches: file (CLI), Redis (shared deployments) and null.
//
// [config] - TOML/YAML configuration.
//
// [observability] - Hook interfaces with a Prometheus implementation.
//
// [api] - HTTP API served by `surflabel serve`.
//
// [errors] - Coded errors shared by every layer.
//
// # Testing
//
//	go test ./...              # All tests
//	go test ./pkg/dilate/...   # Engine only
//	go test -run Example ./... # Examples only
//
// [mesh]: https://pkg.go.dev/github.com/matzehuels/surflabel/pkg/mesh
// [geodesic]: https://pkg.go.dev/github.com/matzehuels/surflabel/pkg/geodesic
// [label]: https://pkg.go.dev/github.com/matzehuels/surflabel/pkg/label
// [dilate]: https://pkg.go.dev/github.com/matzehuels/surflabel/pkg/dilate
// [surfio]: https://pkg.go.dev/github.com/matzehuels/surflabel/pkg/surfio
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/surflabel/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/surflabel/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/surflabel/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/surflabel/pkg/observability
// [api]: https://pkg.go.dev/github.com/matzehuels/surflabel/pkg/api
// [errors]: https://pkg.go.dev/github.com/matzehuels/surflabel/pkg/errors
package pkg
