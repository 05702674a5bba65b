// Package metadata implements the schema-driven normalization engine for
// document metadata.
//
// The package is organized around three inputs:
//   - a raw mapping of field name to value, produced by an extractor
//   - a field schema registry (declarative rule set per field)
//   - reference catalogs (read-only lookup tables for relational fields)
//
// Normalize runs a fixed sequence of phases over the raw mapping: unknown
// field detection, record seeding, boolean cleaning, type validation,
// structural validation, custom shape validation, relational resolution,
// default/cascade application and finalization. Later phases assume earlier
// phases already cleared invalid values, so the phase order is load-bearing.
//
// Normalization never fails: every problem becomes a diagnostic, and each
// resulting field record carries a provenance tag describing how its final
// value was obtained (explicit, default, deducted, ignored).
//
// The schema registry and catalogs are immutable after loading and may be
// shared across goroutines normalizing different documents concurrently.
package metadata
