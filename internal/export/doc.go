// Package export renders alignment results into subtitle, plain-text, and
// DAW marker files.
//
// Subtitle cues are segmented independently of the EDL's keep/drop
// structure: a long keep span is cut at intra-span speech pauses, then by
// the configured duration and character limits, and the reference line text
// is distributed across the resulting pieces proportionally by duration.
// All writers are deterministic formatters with no external process
// invocation; output files go through the atomic write helper.
package export
