// Package checksum provides document content hashing.
//
// Two checksums are computed per document:
//
//   - Raw: hash of the exact file content, detects any change
//   - Normalized: hash after stripping ordinary LaTeX comments and
//     collapsing whitespace, so reformatting does not change the document
//     identity. The commented metadata front-matter block is NOT stripped:
//     it carries content, and editing it must change the checksum.
//
// The normalized checksum is what the document index stores; it lets the
// index recognize a moved or reformatted document as the same content.
package checksum
