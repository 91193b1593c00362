// Package textnorm canonicalizes reference lines and transcript tokens into
// comparable character sequences.
//
// The pipeline is: optional script conversion via an external collaborator,
// full-width/half-width unification, lowercasing, punctuation and whitespace
// removal. Both line and stream normalization keep a back-mapping from every
// normalized character to its origin (byte offset for lines, word index for
// the token stream) so the alignment engine can recover raw text positions
// and timestamps from normalized matches.
//
// Script conversion is never fatal: a missing or failing converter binary
// skips the step with a logged warning.
package textnorm
