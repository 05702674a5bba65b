// Package watch monitors scan roots for document changes and emits debounced
// events. Changes are confirmed against the normalized checksum: edits that
// only touch ordinary comments or whitespace do not retrigger downstream
// work, while metadata front-matter edits do.
package watch
