package config

const (
	defaultWorkDir           = "~/.local/share/precheck/work"
	defaultLogDir            = "~/.local/share/precheck/logs"
	defaultFFmpegBinary      = "ffmpeg"
	defaultWhisperBinary     = "whisper"
	defaultModel             = "tiny"
	defaultNoReferencePolicy = PolicyRandom
	defaultNoReferenceScore  = 30
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// No-reference similarity policies.
const (
	PolicyRandom = "random"
	PolicyFixed  = "fixed"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Tools: Tools{
			FFmpegBinary:  defaultFFmpegBinary,
			WhisperBinary: defaultWhisperBinary,
		},
		Analysis: Analysis{
			Model:             defaultModel,
			NoReferencePolicy: defaultNoReferencePolicy,
			NoReferenceScore:  defaultNoReferenceScore,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
