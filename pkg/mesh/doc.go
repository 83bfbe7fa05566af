// Package mesh provides the triangulated surface model that labels are
// dilated on.
//
// # Overview
//
// A [Surface] holds vertex coordinates (gonum [r3.Vec]) and triangles. Its
// vertex adjacency is derived from the triangles once, at construction, and
// answers the topology queries of the dilation engine: [Surface.Neighbors]
// returns the vertices that share an edge with a vertex.
//
// # Geometry
//
// [Surface.EdgeLength] is the Euclidean length of a mesh edge and is the edge
// weight used by the geodesic helper. [Surface.NodeAreas] attributes one
// third of each triangle's area to each of its corners.
//
// # Analysis
//
// [Surface.Graph] exports the edge graph as a gonum weighted graph, which
// [Surface.Components] uses to find connected components. Labels cannot
// propagate between components, so the CLI reports them before dilating.
//
// # Concurrency
//
// A Surface is immutable after [New] returns and may be shared freely
// between goroutines.
//
// [r3.Vec]: https://pkg.go.dev/gonum.org/v1/gonum/spatial/r3#Vec
package mesh
