// Package config defines the runtime configuration for emorecv and
// provides helpers for parsing SSH gateway specifications.
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	ncerr "emorecv/internal/errors"
	"emorecv/util"
)

// Config holds every tuneable for a single receiver session.
type Config struct {
	// ── Listening endpoint ───────────────────────────────────────────
	Host    string
	Port    int
	Network string // "tcp4" unless overridden in tests

	// ── SSH gateway (remote forward) ─────────────────────────────────
	GatewaySpec    string // raw user@host[:port] from -R
	GatewayEnabled bool
	GatewayUser    string
	GatewayHost    string
	GatewayPort    int
	RemoteBind     string
	SSHKeyPath     string
	SSHPassword    bool // true → prompt interactively
	UseSSHAgent    bool
	StrictHostKey  bool
	KnownHostsPath string
	ConnTimeout    time.Duration

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
	Stats   bool
	DryRun  bool
}

// Default returns a Config carrying the built-in defaults.
func Default() *Config {
	return &Config{
		Host:        DefaultHost,
		Port:        DefaultPort,
		Network:     DefaultNetwork,
		RemoteBind:  DefaultRemoteBind,
		ConnTimeout: DefaultConnTimeout,
	}
}

// Address returns the local bind address.
func (c *Config) Address() string {
	return util.FormatAddr(c.Host, c.Port)
}

// ── Gateway-spec parser ──────────────────────────────────────────────

// gatewayRe matches [user@]host[:port].
var gatewayRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:]+)(?::(\d+))?$`)

// ParseGatewaySpec extracts user, host, and port from a string such as
// "lab@bastion.example.com:2222".  Port defaults to 22.
func ParseGatewaySpec(spec string) (user, host string, port int, err error) {
	m := gatewayRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid gateway spec %q – expected [user@]host[:port]", spec)
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = strconv.Atoi(m[3])
		if err != nil || port < 1 || port > 65535 {
			return "", "", 0, fmt.Errorf("invalid gateway port %q", m[3])
		}
	}
	return user, host, port, nil
}

// ApplyGatewaySpec parses GatewaySpec (when set) into the Gateway*
// fields and enables the remote forward.
func (c *Config) ApplyGatewaySpec() error {
	if c.GatewaySpec == "" {
		return nil
	}
	user, host, port, err := ParseGatewaySpec(c.GatewaySpec)
	if err != nil {
		return &ncerr.ConfigError{
			Field:   "gateway",
			Value:   c.GatewaySpec,
			Message: err.Error(),
			Hint:    "use user@host or user@host:port",
		}
	}
	c.GatewayEnabled = true
	c.GatewayUser = user
	c.GatewayHost = host
	c.GatewayPort = port
	return nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Host == "" && !c.GatewayEnabled {
		return &ncerr.ConfigError{
			Field:   "host",
			Message: "must not be empty",
			Hint:    "the sender connects to " + DefaultHost,
		}
	}
	if c.Port < 0 || c.Port > 65535 {
		return &ncerr.ConfigError{
			Field:   "port",
			Value:   c.Port,
			Message: "out of range 0-65535",
			Hint:    fmt.Sprintf("the sender defaults to port %d", DefaultPort),
		}
	}
	switch c.Network {
	case "tcp", "tcp4", "tcp6":
	default:
		return &ncerr.ConfigError{
			Field:   "network",
			Value:   c.Network,
			Message: "must be tcp, tcp4 or tcp6",
		}
	}

	if c.GatewayEnabled {
		if c.GatewayHost == "" {
			return &ncerr.ConfigError{Field: "gateway", Message: "gateway host is required"}
		}
		if c.Port == 0 {
			return &ncerr.ConfigError{
				Field:   "port",
				Value:   c.Port,
				Message: "a remote forward needs a fixed port",
				Hint:    "pass -p with the port the sender dials on the gateway",
			}
		}
	} else if c.SSHKeyPath != "" || c.SSHPassword || c.UseSSHAgent {
		return &ncerr.ConfigError{
			Field:   "gateway",
			Message: "SSH options given without a gateway",
			Hint:    "add -R user@host to listen through an SSH gateway",
		}
	}

	return nil
}
