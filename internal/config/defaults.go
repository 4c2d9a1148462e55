package config

const (
	defaultBaseURL        = "http://127.0.0.1:8000"
	defaultRequestTimeout = 60
	defaultIdleTimeout    = 600
	defaultDataDir        = "~/.local/share/reel"
	defaultDownloadDir    = "~/.local/share/reel/downloads"
	defaultLogDir         = "~/.local/share/reel/logs"
	defaultQuality        = "low_quality"
	defaultVoice          = "achernar"
	defaultTheme          = "default"
	defaultModel          = "gemini-2.5-pro"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultNotifyTimeout  = 10
)

func defaultQualities() []string {
	return []string{"low_quality", "medium_quality", "high_quality", "production_quality"}
}

func defaultVoices() []string {
	return []string{"achernar", "puck", "charon", "kore", "fenrir", "aoede"}
}

func defaultThemes() []string {
	return []string{"default", "dark", "light", "3blue1brown"}
}

func defaultModels() []string {
	return []string{"gemini-2.5-pro", "gemini-2.5-flash"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			BaseURL:        defaultBaseURL,
			RequestTimeout: defaultRequestTimeout,
			IdleTimeout:    defaultIdleTimeout,
		},
		Generation: Generation{
			Quality:   defaultQuality,
			Voice:     defaultVoice,
			Theme:     defaultTheme,
			Model:     defaultModel,
			Qualities: defaultQualities(),
			Voices:    defaultVoices(),
			Themes:    defaultThemes(),
			Models:    defaultModels(),
		},
		Paths: Paths{
			DataDir:     defaultDataDir,
			DownloadDir: defaultDownloadDir,
			LogDir:      defaultLogDir,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
