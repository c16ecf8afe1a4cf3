package speech

import (
	"fmt"
	"strings"

	"hardsub/internal/services"
)

// NewProvider constructs the named provider. Unknown names are rejected at
// config validation; this guards direct callers.
func NewProvider(name string, cfg Config) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "whisperx":
		return NewWhisperX(cfg), nil
	case "whisper":
		return NewWhisperCLI(cfg), nil
	default:
		return nil, fmt.Errorf("unknown speech provider %q", name)
	}
}

// Resolve probes the providers in preference order and returns the first one
// that is available. When none are, it returns a setup error naming every
// provider that was tried.
func Resolve(providers []string, cfg Config) (Engine, error) {
	if len(providers) == 0 {
		providers = []string{"whisperx", "whisper"}
	}
	tried := make([]string, 0, len(providers))
	for _, name := range providers {
		engine, err := NewProvider(name, cfg)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "speech", "resolve engine", err.Error(), nil)
		}
		if engine.Available() {
			return engine, nil
		}
		tried = append(tried, engine.Name())
	}
	return nil, services.Wrap(services.ErrSetup, "speech", "resolve engine",
		fmt.Sprintf("no speech engine available (tried %s); install whisperx (via uv) or openai-whisper",
			strings.Join(tried, ", ")), nil)
}
