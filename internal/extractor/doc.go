// Package extractor parses raw metadata mappings out of LaTeX document
// content, one extraction strategy per supported document version.
//
// Extraction is lossy on purpose: it produces the raw mapping the
// normalization engine consumes, without validating anything beyond the
// syntax of the carrier format.
package extractor
