// Package ffprobe wraps the external media probe used before rendering.
//
// The renderer only needs container duration and the audio stream layout,
// so the parsed surface stays narrow. Inspect shells out to the configured
// binary; callers inject a fake prober in tests.
package ffprobe
