// Command scriptcut aligns narrated audio against its reference script and
// produces the cut list, subtitles, markers, and conformed audio.
//
// Subcommands cover the two halves of the workflow: `align` (and `batch`)
// turn a transcript plus script into an edit decision list and the export
// artifacts; `render` conforms the source audio to a persisted list.
// `runs` shows recent history, `config` manages the configuration file.
package main
