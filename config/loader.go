package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the EMORECV_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  This should be called BEFORE
// CLI flag parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("EMORECV_HOST"); v != "" {
		cfg.Host = v
	}
	if v, ok := envInt("EMORECV_PORT"); ok {
		cfg.Port = v
	}

	// SSH gateway
	if v := os.Getenv("EMORECV_GATEWAY"); v != "" {
		cfg.GatewaySpec = v
	}
	if v := os.Getenv("EMORECV_REMOTE_BIND"); v != "" {
		cfg.RemoteBind = v
	}
	if v := os.Getenv("EMORECV_SSH_KEY"); v != "" {
		cfg.SSHKeyPath = v
	}
	if envBool("EMORECV_SSH_AGENT") {
		cfg.UseSSHAgent = true
	}
	if envBool("EMORECV_STRICT_HOSTKEY") {
		cfg.StrictHostKey = true
	}
	if v := os.Getenv("EMORECV_KNOWN_HOSTS"); v != "" {
		cfg.KnownHostsPath = v
	}
	if v, ok := envInt("EMORECV_SSH_TIMEOUT"); ok && v > 0 {
		cfg.ConnTimeout = secondsDuration(v)
	}

	// Output
	if v, ok := envInt("EMORECV_VERBOSE"); ok && v > 0 {
		cfg.Verbose = v
	}
	if envBool("EMORECV_STATS") {
		cfg.Stats = true
	}
}

// ── helpers ──────────────────────────────────────────────────────────

// envInt reports the parsed value and whether the variable held a
// valid integer.
func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

func secondsDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}
