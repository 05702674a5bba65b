// Package document models one LaTeX source file: its on-disk state,
// detected format version, and normalized metadata. It orchestrates the
// extractor and the normalization engine and implements per-version
// metadata editing.
package document
