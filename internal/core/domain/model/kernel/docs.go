// Package kernel provides the domain primitives shared by every aggregate of the
// shop floor tracker.
//
// The package includes:
//   - UUID: identifier value object with validation and comparison
//   - Clock: source of transition timestamps, normalized to microsecond precision
//
// Primitives are immutable and safe for concurrent use.
package kernel
