// Package registry maintains the document index (annuaire): a JSON file
// listing every discovered document with a deterministic identity, its
// format version and a summary of its normalized metadata.
//
// Identities are UUID v5 values derived from the normalized content
// checksum, so a document keeps its identity when moved or reformatted.
package registry
