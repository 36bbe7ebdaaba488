package config

import "recodevideo/internal/scan"

const (
	defaultConfigPath    = "~/.config/recode-video/config.toml"
	projectConfigFile    = "recode-video.toml"
	defaultLogDir        = "~/.local/share/recode-video/logs"
	defaultLockFile      = "recode-video.lock"
	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"
	defaultThreads       = 16
	defaultVideoEncoder  = "libx264"
	defaultCRF           = 20
	defaultPreset        = "medium"
	defaultTextCodec     = "srt"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultLogRetention  = 30
)

// Default returns a Config populated with repository defaults. Tool binaries
// are left empty so the FFMPEG_BINARY and FFPROBE_BINARY environment
// variables can fill them during normalization.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Tools: Tools{
			Threads: defaultThreads,
		},
		Video: Video{
			Encoder: defaultVideoEncoder,
			CRF:     defaultCRF,
			Preset:  defaultPreset,
		},
		Subtitles: Subtitles{
			TextCodec: defaultTextCodec,
		},
		Scan: Scan{
			Extensions:  scan.DefaultExtensions(),
			IgnoredDirs: scan.DefaultIgnoredDirs(),
		},
		Run: Run{
			ContinueOnError: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetention,
		},
	}
}
