package config

const (
	defaultLogDir             = "~/.local/share/blackspot/logs"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultPlexURL            = "http://127.0.0.1:32400"
	defaultRequestTimeout     = 10
	defaultTimeDiffMinutes    = 3.0
	defaultBlacknessThreshold = 0.95
	defaultWorkers            = 1
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Plex: Plex{
			URL:            defaultPlexURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Analysis: Analysis{
			TimeDiffMinutes:    defaultTimeDiffMinutes,
			BlacknessThreshold: defaultBlacknessThreshold,
			Workers:            defaultWorkers,
		},
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
