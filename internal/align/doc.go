// Package align matches reference script lines against the normalized
// transcript token stream and selects the final take of every line.
//
// Each line is searched for contiguous token runs whose character content
// matches within a similarity tolerance derived from the single
// aggressiveness value. A line read several times produces several disjoint
// candidate runs; the engine treats earlier passing runs as superseded
// retakes and keeps the chronologically last one. Lines that fail the
// primary threshold are retried once with a relaxed fallback threshold and
// otherwise reported as unmatched, never as an error.
//
// Processing is strictly ordered over slices so identical input always
// yields identical output.
package align
