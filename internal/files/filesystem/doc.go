// Package filesystem abstracts file access behind a small provider
// interface so document operations can run against the OS filesystem in
// production and an in-memory filesystem in tests.
//
// Implementations:
//   - OSFileSystem: production implementation backed by the os package
//   - MemoryFileSystem: mutable in-memory implementation for tests
package filesystem
