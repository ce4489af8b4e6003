// Package services provides read-side domain services that derive views from
// work orders without mutating them.
//
// The package includes:
//   - ProgressProjector: step counts and completion percentage of a work order
//   - DurationReporter: one duration record per completed step
//
// Both are pure projections: they keep no state and can be recomputed at any
// time from the current instances.
package services
