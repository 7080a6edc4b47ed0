package config

import (
	"testing"
	"time"
)

func TestLoadFromEnv_Host(t *testing.T) {
	t.Setenv("EMORECV_HOST", "127.0.0.1")
	cfg := Default()
	LoadFromEnv(cfg)
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want %q", cfg.Host, "127.0.0.1")
	}
}

func TestLoadFromEnv_Port(t *testing.T) {
	t.Setenv("EMORECV_PORT", "4100")
	cfg := Default()
	LoadFromEnv(cfg)
	if cfg.Port != 4100 {
		t.Errorf("Port = %d, want 4100", cfg.Port)
	}
}

func TestLoadFromEnv_InvalidPortIgnored(t *testing.T) {
	t.Setenv("EMORECV_PORT", "four-thousand")
	cfg := Default()
	LoadFromEnv(cfg)
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want default %d", cfg.Port, DefaultPort)
	}
}

func TestLoadFromEnv_Booleans(t *testing.T) {
	tests := []struct {
		key    string
		values []string
		get    func(*Config) bool
	}{
		{"EMORECV_SSH_AGENT", []string{"1", "true", "yes", "TRUE", "Yes"}, func(c *Config) bool { return c.UseSSHAgent }},
		{"EMORECV_STRICT_HOSTKEY", []string{"1", "true"}, func(c *Config) bool { return c.StrictHostKey }},
		{"EMORECV_STATS", []string{"yes"}, func(c *Config) bool { return c.Stats }},
	}

	for _, tt := range tests {
		for _, v := range tt.values {
			t.Run(tt.key+"="+v, func(t *testing.T) {
				t.Setenv(tt.key, v)
				cfg := Default()
				LoadFromEnv(cfg)
				if !tt.get(cfg) {
					t.Errorf("%s=%q should enable the option", tt.key, v)
				}
			})
		}
	}
}

func TestLoadFromEnv_FalseValues(t *testing.T) {
	for _, v := range []string{"0", "false", "no", "off"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("EMORECV_STATS", v)
			cfg := Default()
			LoadFromEnv(cfg)
			if cfg.Stats {
				t.Errorf("EMORECV_STATS=%q should not enable stats", v)
			}
		})
	}
}

func TestLoadFromEnv_Gateway(t *testing.T) {
	t.Setenv("EMORECV_GATEWAY", "lab@bastion:2222")
	t.Setenv("EMORECV_REMOTE_BIND", "0.0.0.0")
	t.Setenv("EMORECV_SSH_KEY", "/home/lab/.ssh/id_ed25519")
	t.Setenv("EMORECV_KNOWN_HOSTS", "/tmp/known_hosts")
	t.Setenv("EMORECV_SSH_TIMEOUT", "5")

	cfg := Default()
	LoadFromEnv(cfg)

	if cfg.GatewaySpec != "lab@bastion:2222" {
		t.Errorf("GatewaySpec = %q", cfg.GatewaySpec)
	}
	if cfg.RemoteBind != "0.0.0.0" {
		t.Errorf("RemoteBind = %q", cfg.RemoteBind)
	}
	if cfg.SSHKeyPath != "/home/lab/.ssh/id_ed25519" {
		t.Errorf("SSHKeyPath = %q", cfg.SSHKeyPath)
	}
	if cfg.KnownHostsPath != "/tmp/known_hosts" {
		t.Errorf("KnownHostsPath = %q", cfg.KnownHostsPath)
	}
	if cfg.ConnTimeout != 5*time.Second {
		t.Errorf("ConnTimeout = %v, want 5s", cfg.ConnTimeout)
	}
}

func TestLoadFromEnv_Verbose(t *testing.T) {
	t.Setenv("EMORECV_VERBOSE", "3")
	cfg := Default()
	LoadFromEnv(cfg)
	if cfg.Verbose != 3 {
		t.Errorf("Verbose = %d, want 3", cfg.Verbose)
	}
}

func TestLoadFromEnv_EmptyLeavesDefaults(t *testing.T) {
	cfg := Default()
	LoadFromEnv(cfg)
	want := Default()
	if cfg.Host != want.Host || cfg.Port != want.Port || cfg.RemoteBind != want.RemoteBind {
		t.Errorf("env-free load changed defaults: %+v", cfg)
	}
}
