// Package scanner discovers LaTeX documents in directory trees.
//
// Discovery walks the configured roots, keeps .tex/.ltx files, applies
// exclusion globs, classifies each document's format version and computes
// its content checksum. The scanner is filesystem-agnostic through
// filesystem.Provider so tests run against an in-memory tree.
package scanner
