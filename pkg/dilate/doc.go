// Package dilate grows surface labels into nearby unlabelled vertices.
//
// For every vertex that carries the unassigned key, the engine looks for the
// geodesically nearest vertex that was labelled in the input and copies its
// key:
//
//  1. all vertices within the dilation radius are considered first;
//  2. if none of them is labelled, the vertex's immediate mesh neighbors
//     (plus itself) are considered instead, regardless of distance;
//  3. otherwise the vertex stays unassigned.
//
// Labelled input vertices are copied unchanged. The set of labelled vertices
// is taken from the input column only, so labels never propagate through
// vertices filled during the same pass. Ties go to the candidate the
// geodesic provider lists first; the bundled [geodesic.Helper] lists by
// (distance, vertex index), which makes results reproducible.
//
// # Columns
//
// A [Request] either selects one column, or none, in which case every column
// is dilated independently. Each output column is named after its input with
// [Suffix] appended, and the output file carries a copy of the input label
// table.
//
// # Concurrency
//
// Vertices are processed in chunks on up to [WithWorkers] goroutines. Every
// vertex writes only its own output slot, so the result does not depend on
// the worker count. Providers must be safe for concurrent use when more than
// one worker is configured; [geodesic.Helper] and [mesh.Surface] are.
//
// # Usage
//
//	res, err := dilate.OnMesh(ctx, surf, dilate.Request{
//	    Labels: labels,
//	    Radius: 2.0,
//	})
//	if err != nil {
//	    return err
//	}
//	for _, st := range res.Stats {
//	    fmt.Println(st.Column, st.Filled())
//	}
package dilate
