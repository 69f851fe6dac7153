// Package domain defines the core entities for pagebridge.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Element: A node of a dialect-neutral page-builder tree
//   - Attributes / Value: Insertion-ordered settings with raw JSON values
//   - Zone: A classified subset of one element's data
//   - Document: A parsed page in a specific builder dialect
//   - TransformRun: A persisted record of one transform pass
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
