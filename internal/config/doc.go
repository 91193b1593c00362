// Package config loads, normalizes, and validates scriptcut configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and centralizes every knob the alignment
// pipeline and renderer need: the aggressiveness value that scales match
// tolerance, gap merging and silence tightening thresholds, subtitle
// segmentation limits, and external binary names.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
