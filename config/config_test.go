package config

import (
	"testing"
	"time"

	ncerr "emorecv/internal/errors"
)

// ── Defaults ─────────────────────────────────────────────────────────

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Address() != "localhost:4000" {
		t.Errorf("Address() = %q, want localhost:4000", cfg.Address())
	}
	if cfg.Network != "tcp4" {
		t.Errorf("Network = %q, want tcp4", cfg.Network)
	}
	if cfg.ConnTimeout != 30*time.Second {
		t.Errorf("ConnTimeout = %v", cfg.ConnTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

// ── ParseGatewaySpec ─────────────────────────────────────────────────

func TestParseGatewaySpec(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantUser string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{"full", "lab@bastion.example.com:2222", "lab", "bastion.example.com", 2222, false},
		{"no port", "root@gateway", "root", "gateway", 22, false},
		{"no user", "jump-host:2200", "", "jump-host", 2200, false},
		{"host only", "gateway.local", "", "gateway.local", 22, false},
		{"bad port", "user@host:999999", "", "", 0, true},
		{"zero port", "user@host:0", "", "", 0, true},
		{"empty", "", "", "", 0, true},
		{"colon only", ":", "", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, host, port, err := ParseGatewaySpec(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if user != tt.wantUser || host != tt.wantHost || port != tt.wantPort {
				t.Errorf("got (%q, %q, %d), want (%q, %q, %d)",
					user, host, port, tt.wantUser, tt.wantHost, tt.wantPort)
			}
		})
	}
}

func TestApplyGatewaySpec(t *testing.T) {
	cfg := Default()
	cfg.GatewaySpec = "lab@gw:2022"
	if err := cfg.ApplyGatewaySpec(); err != nil {
		t.Fatal(err)
	}
	if !cfg.GatewayEnabled || cfg.GatewayUser != "lab" || cfg.GatewayHost != "gw" || cfg.GatewayPort != 2022 {
		t.Errorf("unexpected gateway fields: %+v", cfg)
	}

	cfg = Default()
	if err := cfg.ApplyGatewaySpec(); err != nil || cfg.GatewayEnabled {
		t.Errorf("empty spec should be a no-op (err=%v enabled=%v)", err, cfg.GatewayEnabled)
	}

	cfg = Default()
	cfg.GatewaySpec = "user@host:notaport"
	err := cfg.ApplyGatewaySpec()
	var ce *ncerr.ConfigError
	if !ncerr.As(err, &ce) || ce.Field != "gateway" {
		t.Errorf("want ConfigError on gateway, got %v", err)
	}
}

// ── Validate ─────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string // empty → expect success
	}{
		{"defaults", func(*Config) {}, ""},
		{"ephemeral port", func(c *Config) { c.Port = 0 }, ""},
		{"empty host", func(c *Config) { c.Host = "" }, "host"},
		{"negative port", func(c *Config) { c.Port = -1 }, "port"},
		{"port too large", func(c *Config) { c.Port = 70000 }, "port"},
		{"bad network", func(c *Config) { c.Network = "udp" }, "network"},
		{"ssh key without gateway", func(c *Config) { c.SSHKeyPath = "/k" }, "gateway"},
		{"gateway", func(c *Config) {
			c.GatewayEnabled, c.GatewayHost = true, "gw"
		}, ""},
		{"gateway needs fixed port", func(c *Config) {
			c.GatewayEnabled, c.GatewayHost, c.Port = true, "gw", 0
		}, "port"},
		{"gateway needs host", func(c *Config) { c.GatewayEnabled = true }, "gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ce *ncerr.ConfigError
			if !ncerr.As(err, &ce) {
				t.Fatalf("want *ConfigError, got %v", err)
			}
			if ce.Field != tt.wantField {
				t.Errorf("field = %q, want %q", ce.Field, tt.wantField)
			}
		})
	}
}

func TestValidate_PortHint(t *testing.T) {
	cfg := Default()
	cfg.Port = 99999
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	want := "config: --port=99999: out of range 0-65535\n  hint: the sender defaults to port 4000"
	if err.Error() != want {
		t.Errorf("got:\n%s\nwant:\n%s", err.Error(), want)
	}
}
