// Package render conforms raw audio to a persisted edit decision list by
// driving an external ffmpeg invocation.
//
// The package splits into three stages. Layout converts the document's keep
// segments into the ordered source ranges that survive the cut, optionally
// retaining a short breathing gap where an over-long silence was removed.
// Graph construction turns that layout into a single filter_complex
// expression: one trimmed sub-stream per range, joined by concat or by
// pairwise crossfades, with an optional loudness-normalization stage at the
// tail. The renderer itself probes the source, validates it against the
// document, runs ffmpeg under the configured timeout, and moves the result
// into place with the temp-then-rename discipline used everywhere else in
// this codebase.
//
// Subtitles, markers, and the document are produced upstream and stay valid
// when a render fails; nothing here rolls them back.
package render
