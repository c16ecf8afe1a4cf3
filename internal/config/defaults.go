package config

// Default returns a configuration populated with default values. Path fields
// contain unexpanded ~ prefixes; Normalize resolves them.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: "~/.local/share/hardsub/staging",
			OutputDir:  "~/Videos/hardsub",
			LogDir:     "~/.local/share/hardsub/logs",
			SocketPath: "~/.local/share/hardsub/hardsub.sock",
		},
		Tools: Tools{
			FFmpeg:  "ffmpeg",
			UVX:     "uvx",
			Whisper: "whisper",
		},
		Speech: Speech{
			Model:     "small",
			Language:  "",
			Providers: []string{"whisperx", "whisper"},
		},
		Style: Style{
			FontSize:  28,
			FontColor: "FFFFFF",
			Position:  "bottom",
		},
		Notifications: Notifications{
			RequestTimeout: 10,
			JobStarted:     true,
			JobCompleted:   true,
			JobFailed:      true,
		},
		Workflow: Workflow{
			QueuePollInterval:  2,
			ErrorRetryInterval: 5,
			HeartbeatInterval:  15,
			HeartbeatTimeout:   120,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
