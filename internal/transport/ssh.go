package transport

import (
	"context"
	"fmt"
	"net"
	"sync"

	ncerr "emorecv/internal/errors"
	"emorecv/tunnel"
	"emorecv/util"
)

// gateway is the part of *tunnel.Gateway the listener needs.
type gateway interface {
	Connect(ctx context.Context) error
	Listen(bindAddr string, port int) (net.Listener, error)
	Close() error
}

// SSHListener asks an SSH gateway to forward BindAddr:Port back to this
// process.  The gateway is connected on the first Listen call and torn
// down on Close.
type SSHListener struct {
	BindAddr string
	Port     int

	gw        gateway
	config    *tunnel.SSHConfig
	logger    *util.Logger
	mu        sync.Mutex
	connected bool
}

// NewSSHListener creates a listener that binds through the gateway
// described by cfg.
func NewSSHListener(cfg *tunnel.SSHConfig, bindAddr string, port int, logger *util.Logger) *SSHListener {
	return &SSHListener{
		BindAddr: bindAddr,
		Port:     port,
		gw:       tunnel.NewGateway(cfg, logger),
		config:   cfg,
		logger:   logger,
	}
}

// connect establishes the SSH session if not already connected.
func (l *SSHListener) connect(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.connected {
		return nil
	}

	l.logger.Verbose("connecting to SSH gateway %s@%s:%d",
		l.config.User, l.config.Host, l.config.Port)

	if err := l.gw.Connect(ctx); err != nil {
		return fmt.Errorf("gateway: %w", err)
	}

	l.connected = true
	l.logger.Verbose("SSH gateway connected")
	return nil
}

// Listen connects the gateway and requests the remote forward.
func (l *SSHListener) Listen(ctx context.Context) (net.Listener, error) {
	if err := l.connect(ctx); err != nil {
		return nil, err
	}
	ln, err := l.gw.Listen(l.BindAddr, l.Port)
	if err != nil {
		return nil, ncerr.Wrap("listen", util.FormatAddr(l.BindAddr, l.Port), err)
	}
	return ln, nil
}

// Close tears down the SSH session.
func (l *SSHListener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.connected {
		l.connected = false
		return l.gw.Close()
	}
	return nil
}
