// Package transcript loads word-level ASR output into a canonical document.
//
// Several field-naming conventions are recognized: nested segments[].words[]
// (WhisperX style), flat words[] arrays, and "word" vs "text" key variants.
// The loader probes the document structure and dispatches to the matching
// extractor from a closed variant set; there is no declared format tag.
// Timestamps from the upstream engine are untrusted and may be overlapping
// or out of order; the loader tolerates this and only drops tokens whose
// timestamps are unusable outright.
package transcript
