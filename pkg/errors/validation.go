package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateRadius validates a dilation distance.
// The distance must be a non-negative number of millimeters. +Inf searches
// the whole connected component.
func ValidateRadius(radius float64) error {
	if math.IsNaN(radius) {
		return New(ErrCodeInvalidArgument, "invalid distance specified: NaN")
	}
	if radius < 0 {
		return New(ErrCodeInvalidArgument, "invalid distance specified: %g", radius)
	}
	return nil
}

// ValidateVertexCount checks that label data matches the surface it is
// applied to.
func ValidateVertexCount(surfaceVertices, labelVertices int) error {
	if surfaceVertices != labelVertices {
		return New(ErrCodeInvalidArgument,
			"surface has wrong number of nodes for this label (surface %d, label %d)",
			surfaceVertices, labelVertices)
	}
	return nil
}

// ValidateColumnName validates a label column name.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 256 characters
//   - No control characters or null bytes
func ValidateColumnName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidLabels, "column name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidLabels, "column name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLabels, "column name contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath validates a local input or output path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "path contains invalid characters")
	}

	return nil
}
