package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port            string
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
	// Storage: pg | redis | memory
	Storage     string
	DatabaseURL string
	PGMaxConns  int32
	PGMinConns  int32
	// Rates: static | remote | fixed
	RateSource  string
	RateAPIBase string
	RateTimeout time.Duration
	FixedRate   string
	// Redis (STORAGE=redis)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

var defaults = map[string]any{
	"ENV":                 "local",
	"LOG_LEVEL":           "info",
	"PORT":                "8080",
	"MAX_BODY_BYTES":      1 << 20,
	"SHUTDOWN_TIMEOUT_MS": 10000,
	"STORAGE":             "pg",
	"DATABASE_URL":        "",
	"PG_MAX_CONNS":        5,
	"PG_MIN_CONNS":        1,
	"RATE_SOURCE":         "static",
	"RATE_API_BASE":       "",
	"RATE_TIMEOUT_MS":     4000,
	"FIXED_RATE":          "1",
	"REDIS_ADDR":          "localhost:6379",
	"REDIS_PASSWORD":      "",
	"REDIS_DB":            0,
}

func msDef(v *viper.Viper, key string) time.Duration {
	ms := v.GetInt(key)
	if ms <= 0 {
		ms = defaults[key].(int)
	}
	return time.Duration(ms) * time.Millisecond
}

// Load reads environment variables (and a .env file when present) and applies defaults.
func Load() Config {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // no .env is fine
	v.AutomaticEnv()

	return Config{
		Env:             v.GetString("ENV"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		Port:            v.GetString("PORT"),
		MaxBodyBytes:    v.GetInt64("MAX_BODY_BYTES"),
		ShutdownTimeout: msDef(v, "SHUTDOWN_TIMEOUT_MS"),
		Storage:         strings.ToLower(v.GetString("STORAGE")),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		PGMaxConns:      v.GetInt32("PG_MAX_CONNS"),
		PGMinConns:      v.GetInt32("PG_MIN_CONNS"),
		RateSource:      strings.ToLower(v.GetString("RATE_SOURCE")),
		RateAPIBase:     v.GetString("RATE_API_BASE"),
		RateTimeout:     msDef(v, "RATE_TIMEOUT_MS"),
		FixedRate:       v.GetString("FIXED_RATE"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		RedisDB:         v.GetInt("REDIS_DB"),
	}
}
