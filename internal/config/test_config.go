package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.Database = DatabaseConfig{
		Path:    ":memory:",
		Timeout: 1 * time.Second,
	}
	cfg.Import = ImportConfig{
		HTTPTimeout: 5 * time.Second,
		UserAgent:   "scriptorium-test/1.0",
	}
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Log = LogConfig{Level: "NONE"}
	return cfg
}
