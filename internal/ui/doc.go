// Package ui provides the terminal presentation layer: approval prompts for
// batch operations, colored rendering of normalized metadata and diagnostics,
// and interactive-mode detection.
package ui
