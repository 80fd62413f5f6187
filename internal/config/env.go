package config

import "os"

// Environment overrides, applied on top of the file. Deployment
// scripts set these without touching config.yaml.
const (
	EnvInput    = "TRIAGECAM_INPUT"
	EnvListen   = "TRIAGECAM_LISTEN"
	EnvLogLevel = "TRIAGECAM_LOG_LEVEL"
)

func applyEnv(c *Config) {
	if v := os.Getenv(EnvInput); v != "" {
		c.InputPath = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		c.Listen = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}
