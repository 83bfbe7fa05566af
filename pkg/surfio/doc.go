// Package surfio reads and writes surfaces and label files as JSON.
//
// # Surface Format
//
//	{
//	  "vertices":  [[0, 0, 0], [1, 0, 0], [0, 1, 0]],
//	  "triangles": [[0, 1, 2]]
//	}
//
// Vertex coordinates are in millimeters. Triangles index into vertices and
// are validated by [mesh.New].
//
// # Label Format
//
//	{
//	  "num_vertices": 3,
//	  "unassigned_key": 0,
//	  "table": [
//	    {"key": 0, "name": "???"},
//	    {"key": 1, "name": "V1", "color": [1, 0, 0, 1]}
//	  ],
//	  "columns": [
//	    {"name": "visual", "keys": [1, 0, 0]}
//	  ]
//	}
//
// "num_vertices" may be omitted when at least one column is present; it is
// then taken from the first column. "unassigned_key" defaults to 0. Every
// column must have exactly num_vertices keys.
//
// Malformed surfaces are reported as INVALID_MESH errors, malformed label
// files as INVALID_LABELS, and missing files as FILE_NOT_FOUND (see
// [github.com/matzehuels/surflabel/pkg/errors]).
package surfio
