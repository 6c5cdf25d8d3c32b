package config

import "os"

// ServerConfig carries HTTP server and storage settings.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// DatabaseURL selects the postgres adapters when set; empty means the
	// in-memory adapters (local development only).
	DatabaseURL string
	// DevAuth enables the X-Debug-Subject auth shim instead of JWT verification.
	// Never set in production.
	DevAuth bool
}

func LoadServerConfigFromEnv() ServerConfig {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return ServerConfig{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DevAuth:     os.Getenv("DEV_AUTH") == "1",
	}
}
