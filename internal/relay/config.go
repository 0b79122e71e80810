package relay

import (
	"os"
	"strconv"
)

// Config holds the runtime settings of the relay process.
type Config struct {
	// Addr is the listen address of the fiber app.
	Addr string
	// SendBuffer is the per-connection outbound frame buffer. A client that
	// overflows it has frames dropped rather than stalling the room.
	SendBuffer int
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	return &Config{
		Addr:       "127.0.0.1:3000",
		SendBuffer: 16,
	}
}

// NewConfigFromEnv builds a Config from environment variables, falling back
// to defaults for anything unset or unparseable.
func NewConfigFromEnv() *Config {
	cfg := NewConfig()
	if addr := os.Getenv("RELAY_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if raw := os.Getenv("RELAY_SEND_BUFFER"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.SendBuffer = n
		}
	}
	return cfg
}
