package core

import (
	"emorecv/config"
	"emorecv/internal/capability"
	"emorecv/internal/metrics"
	"emorecv/internal/transport"
	"emorecv/tunnel"
	"emorecv/util"
)

// Build constructs the receiver from the given configuration.  The
// metrics collector is optional.
func Build(cfg *config.Config, logger *util.Logger, m *metrics.Collector) (Mode, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ReceiveMode{
		Transport:  buildTransport(cfg, logger),
		Capability: &capability.Decode{},
		Logger:     logger,
		Metrics:    m,
	}, nil
}

// buildTransport picks the local socket or the SSH remote forward.
func buildTransport(cfg *config.Config, logger *util.Logger) transport.Listener {
	if cfg.GatewayEnabled {
		return transport.NewSSHListener(&tunnel.SSHConfig{
			User:          cfg.GatewayUser,
			Host:          cfg.GatewayHost,
			Port:          cfg.GatewayPort,
			KeyPath:       cfg.SSHKeyPath,
			PromptPass:    cfg.SSHPassword,
			UseAgent:      cfg.UseSSHAgent,
			StrictHostKey: cfg.StrictHostKey,
			KnownHosts:    cfg.KnownHostsPath,
			ConnTimeout:   cfg.ConnTimeout,
		}, cfg.RemoteBind, cfg.Port, logger)
	}

	return &transport.TCPListener{
		Network: cfg.Network,
		Address: cfg.Address(),
	}
}
