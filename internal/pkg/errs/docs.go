// Package errs provides the standardized error types of the shop floor tracker.
// Every type pairs a sentinel (usable with errors.Is) with a struct that carries
// the offending parameter and an optional cause.
//
// The package includes:
//   - ValueIsRequiredError: a mandatory value is missing
//   - ValueIsInvalidError: a value failed validation
//   - ValueIsOutOfRangeError: a value is outside its allowed bounds
//   - ObjectNotFoundError: a lookup by identifier found nothing
//   - VersionIsInvalidError: an optimistic concurrency check failed
//   - StorageUnavailableError: the backing store could not be reached
//
// Adapters translate these categories into transport status codes; domain
// packages define their own sentinels for business rule violations.
package errs
