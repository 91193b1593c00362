package config

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains output and log directory configuration.
type Paths struct {
	OutputDir  string `toml:"output_dir"`
	LogDir     string `toml:"log_dir"`
	RunlogPath string `toml:"runlog_path"`
}

// Alignment contains the matching knobs for the alignment engine.
type Alignment struct {
	// Aggressiveness scales match tolerance, 0-100. Higher accepts looser
	// matches: more filler tolerance, fewer unmatched lines, more
	// false-positive risk.
	Aggressiveness      int      `toml:"aggressiveness"`
	SafetyPadSeconds    float64  `toml:"safety_pad_s"`
	RetakeSimThreshold  float64  `toml:"retake_sim_threshold"`
	RetakeWindowSeconds float64  `toml:"retake_window_s"`
	FillerTerms         []string `toml:"filler_terms"`
}

// EDL contains the keep/drop segment construction thresholds.
type EDL struct {
	MergeGapSeconds    float64 `toml:"merge_gap_s"`
	LongSilenceSeconds float64 `toml:"long_silence_s"`
	TightenTargetMS    int     `toml:"tighten_target_ms"`
}

// Subtitles contains subtitle segmentation limits.
type Subtitles struct {
	MaxSegmentSeconds float64 `toml:"max_seg_dur_s"`
	MaxSegmentChars   int     `toml:"max_seg_chars"`
	PauseBreakSeconds float64 `toml:"pause_break_s"`
}

// Render contains render engine settings.
type Render struct {
	FFmpegBinary       string  `toml:"ffmpeg_binary"`
	FFprobeBinary      string  `toml:"ffprobe_binary"`
	TimeoutSeconds     int     `toml:"timeout_seconds"`
	CrossfadeSeconds   float64 `toml:"crossfade_s"`
	Loudnorm           bool    `toml:"loudnorm"`
	DurationToleranceS float64 `toml:"duration_tolerance_s"`
	SampleRate         int     `toml:"sample_rate"`
}

// Convert contains settings for the optional external script-conversion tool.
type Convert struct {
	Enabled bool     `toml:"enabled"`
	Binary  string   `toml:"binary"`
	Args    []string `toml:"args"`
}

// Batch contains batch driver settings.
type Batch struct {
	Workers int `toml:"workers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for scriptcut.
//
// Sections by subsystem:
//   - Paths: output, log, and run-history locations
//   - Alignment: aggressiveness and match thresholds
//   - EDL: gap merging and silence tightening
//   - Subtitles: segmentation limits for timed-text output
//   - Render: ffmpeg/ffprobe invocation settings
//   - Convert: optional external script-conversion collaborator
//   - Batch: worker count for multi-chapter runs
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Alignment Alignment `toml:"alignment"`
	EDL       EDL       `toml:"edl"`
	Subtitles Subtitles `toml:"subtitles"`
	Render    Render    `toml:"render"`
	Convert   Convert   `toml:"convert"`
	Batch     Batch     `toml:"batch"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/scriptcut/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file was actually found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("scriptcut.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for a run.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if path := strings.TrimSpace(c.Paths.RunlogPath); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create runlog directory: %w", err)
		}
	}
	return nil
}

// Fingerprint returns a stable hash over the settings that influence
// alignment and EDL construction. It is embedded in persisted EDL documents
// so a later render can detect that it was produced under different
// thresholds.
func (c *Config) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "aggr=%d;pad=%.4f;retake=%.4f;window=%.4f;", c.Alignment.Aggressiveness,
		c.Alignment.SafetyPadSeconds, c.Alignment.RetakeSimThreshold, c.Alignment.RetakeWindowSeconds)
	fmt.Fprintf(h, "merge=%.4f;silence=%.4f;tighten=%d;", c.EDL.MergeGapSeconds,
		c.EDL.LongSilenceSeconds, c.EDL.TightenTargetMS)
	fmt.Fprintf(h, "convert=%t;", c.Convert.Enabled)
	for _, term := range c.Alignment.FillerTerms {
		fmt.Fprintf(h, "filler=%s;", term)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
