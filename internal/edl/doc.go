// Package edl builds and persists edit decision lists.
//
// An EDL covers the continuous interval [0, total_duration] with a gapless,
// non-overlapping alternation of keep and drop segments. Keep spans closer
// than the merge gap are coalesced before the drop segments are derived by
// construction. Tightening of over-long silences deliberately does not
// mutate the document: the EDL keeps absolute source timestamps and stays
// losslessly re-renderable, and the renderer caps the laid-out duration of
// over-long drops instead. The persisted JSON round-trips exactly, and a
// document can be reloaded by a later render invocation without the original
// transcript or reference text.
package edl
