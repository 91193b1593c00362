package config

const (
	defaultOutputDir           = "~/scriptcut/output"
	defaultLogDir              = "~/.local/share/scriptcut/logs"
	defaultRunlogPath          = "~/.local/share/scriptcut/runs.db"
	defaultAggressiveness      = 50
	defaultSafetyPadSeconds    = 0.12
	defaultRetakeSimThreshold  = 0.80
	defaultRetakeWindowSeconds = 45.0
	defaultMergeGapSeconds     = 0.35
	defaultLongSilenceSeconds  = 3.0
	defaultTightenTargetMS     = 500
	defaultMaxSegmentSeconds   = 6.0
	defaultMaxSegmentChars     = 42
	defaultPauseBreakSeconds   = 0.6
	defaultFFmpegBinary        = "ffmpeg"
	defaultFFprobeBinary       = "ffprobe"
	defaultRenderTimeout       = 1800
	defaultCrossfadeSeconds    = 0.2
	defaultDurationToleranceS  = 2.0
	defaultSampleRate          = 48000
	defaultConvertBinary       = "opencc"
	defaultBatchWorkers        = 2
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
			RunlogPath: defaultRunlogPath,
		},
		Alignment: Alignment{
			Aggressiveness:      defaultAggressiveness,
			SafetyPadSeconds:    defaultSafetyPadSeconds,
			RetakeSimThreshold:  defaultRetakeSimThreshold,
			RetakeWindowSeconds: defaultRetakeWindowSeconds,
			FillerTerms:         []string{"um", "uh", "er", "ah", "嗯", "呃", "那个"},
		},
		EDL: EDL{
			MergeGapSeconds:    defaultMergeGapSeconds,
			LongSilenceSeconds: defaultLongSilenceSeconds,
			TightenTargetMS:    defaultTightenTargetMS,
		},
		Subtitles: Subtitles{
			MaxSegmentSeconds: defaultMaxSegmentSeconds,
			MaxSegmentChars:   defaultMaxSegmentChars,
			PauseBreakSeconds: defaultPauseBreakSeconds,
		},
		Render: Render{
			FFmpegBinary:       defaultFFmpegBinary,
			FFprobeBinary:      defaultFFprobeBinary,
			TimeoutSeconds:     defaultRenderTimeout,
			CrossfadeSeconds:   defaultCrossfadeSeconds,
			Loudnorm:           false,
			DurationToleranceS: defaultDurationToleranceS,
			SampleRate:         defaultSampleRate,
		},
		Convert: Convert{
			Enabled: false,
			Binary:  defaultConvertBinary,
		},
		Batch: Batch{
			Workers: defaultBatchWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
