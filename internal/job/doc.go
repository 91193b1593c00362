// Package job drives one chapter through the full pipeline: load the
// transcript and reference script, normalize both, align, build the edit
// decision list, and write the export artifacts. A batch driver runs several
// chapters with a bounded worker pool; each job owns its state and writes
// only files named by its own stem, so workers never contend beyond the
// directory lock taken once per invocation.
package job
