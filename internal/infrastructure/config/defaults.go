package config

import "time"

const (
	DefaultHTTPPort          = "8080"
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultReadTimeout       = 15 * time.Second
	DefaultWriteTimeout      = 15 * time.Second
	DefaultMaxBodyBytes      = 1 << 20
	DefaultRateTimeout       = 4 * time.Second
	DefaultPGMaxConns        = 5
	DefaultPGMinConns        = 1
	DefaultPGReadyWait       = 30 * time.Second
)
