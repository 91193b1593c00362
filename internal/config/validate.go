package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Violations are configuration
// errors and abort before any processing starts.
func (c *Config) Validate() error {
	if err := c.validateAlignment(); err != nil {
		return err
	}
	if err := c.validateEDL(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAlignment() error {
	if c.Alignment.Aggressiveness < 0 || c.Alignment.Aggressiveness > 100 {
		return fmt.Errorf("alignment.aggressiveness must be between 0 and 100, got %d", c.Alignment.Aggressiveness)
	}
	if c.Alignment.SafetyPadSeconds < 0 {
		return errors.New("alignment.safety_pad_s must not be negative")
	}
	if c.Alignment.RetakeSimThreshold < 0 || c.Alignment.RetakeSimThreshold > 1 {
		return errors.New("alignment.retake_sim_threshold must be between 0 and 1")
	}
	if c.Alignment.RetakeWindowSeconds < 0 {
		return errors.New("alignment.retake_window_s must not be negative")
	}
	return nil
}

func (c *Config) validateEDL() error {
	if c.EDL.MergeGapSeconds < 0 {
		return errors.New("edl.merge_gap_s must not be negative")
	}
	if c.EDL.LongSilenceSeconds <= 0 {
		return errors.New("edl.long_silence_s must be positive")
	}
	if c.EDL.TightenTargetMS < 0 {
		return errors.New("edl.tighten_target_ms must not be negative")
	}
	if float64(c.EDL.TightenTargetMS)/1000 > c.EDL.LongSilenceSeconds {
		return errors.New("edl.tighten_target_ms must not exceed edl.long_silence_s")
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	if c.Subtitles.MaxSegmentSeconds <= 0 {
		return errors.New("subtitles.max_seg_dur_s must be positive")
	}
	if c.Subtitles.MaxSegmentChars <= 0 {
		return errors.New("subtitles.max_seg_chars must be positive")
	}
	if c.Subtitles.PauseBreakSeconds < 0 {
		return errors.New("subtitles.pause_break_s must not be negative")
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.TimeoutSeconds <= 0 {
		return errors.New("render.timeout_seconds must be positive")
	}
	if c.Render.CrossfadeSeconds < 0 {
		return errors.New("render.crossfade_s must not be negative")
	}
	if c.Render.DurationToleranceS < 0 {
		return errors.New("render.duration_tolerance_s must not be negative")
	}
	if c.Render.SampleRate <= 0 {
		return errors.New("render.sample_rate must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
