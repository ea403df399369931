package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds settings for the HTTP server.
type Config struct {
	HTTPAddr string

	DBDriver string // sqlite|postgres
	DBDSN    string // file path for sqlite, URL for postgres

	JWTSecret string
	TokenTTL  time.Duration

	CORSOrigins []string

	// RequestTimeout bounds a whole HTTP request. A practice start makes two
	// generation calls, so it must exceed twice the LLM timeout.
	RequestTimeout time.Duration
}

// FromEnv reads the server configuration from LECTIO_* variables.
func FromEnv() Config {
	return Config{
		HTTPAddr:       EnvOr("LECTIO_HTTP_ADDR", ":8080"),
		DBDriver:       EnvOr("LECTIO_DB_DRIVER", "sqlite"),
		DBDSN:          EnvOr("LECTIO_DATABASE_URL", ""),
		JWTSecret:      os.Getenv("LECTIO_JWT_SECRET"),
		TokenTTL:       EnvDuration("LECTIO_TOKEN_TTL", 24*time.Hour),
		CORSOrigins:    CSVOr("LECTIO_CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		RequestTimeout: EnvDuration("LECTIO_HTTP_TIMEOUT", 120*time.Second),
	}
}

// EnvOr returns the value of k, or def when unset or empty.
func EnvOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func EnvBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func EnvInt(k string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return n
}

func EnvFloat(k string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(k)), 64)
	if err != nil {
		return def
	}
	return f
}

// EnvDuration accepts Go durations ("45s") or plain seconds ("45").
func EnvDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

// CSVOr splits a comma-separated variable, dropping empty entries.
func CSVOr(k, def string) []string {
	v := EnvOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
