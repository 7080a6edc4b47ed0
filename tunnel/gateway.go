// Package tunnel connects to an SSH gateway and asks it to forward a
// remote port back to this process, so a sender that can only reach
// the gateway still lands on the receiver's single connection.
package tunnel

import (
	"context"
	"net"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	ncerr "emorecv/internal/errors"
	"emorecv/util"
)

// SSHConfig holds everything needed to dial an SSH gateway.
type SSHConfig struct {
	User          string
	Host          string
	Port          int
	KeyPath       string
	PromptPass    bool
	UseAgent      bool
	StrictHostKey bool
	KnownHosts    string
	ConnTimeout   time.Duration
}

// Gateway is an SSH client that can open remote forwards.
type Gateway struct {
	config *SSHConfig
	client *ssh.Client
	logger *util.Logger
	mu     sync.RWMutex
	alive  bool
}

// NewGateway creates a gateway that is ready to [Gateway.Connect].
func NewGateway(cfg *SSHConfig, logger *util.Logger) *Gateway {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.ConnTimeout == 0 {
		cfg.ConnTimeout = 30 * time.Second
	}
	return &Gateway{config: cfg, logger: logger}
}

// Connect dials the SSH gateway and completes the handshake.
func (g *Gateway) Connect(ctx context.Context) error {
	authMethods, err := BuildAuthMethods(g.config)
	if err != nil {
		return ncerr.WrapSSH("auth", g.config.Host, g.config.Port, err)
	}

	hkCallback, err := hostKeyCallback(g.config)
	if err != nil {
		return ncerr.WrapSSH("hostkey", g.config.Host, g.config.Port, err)
	}

	sshCfg := &ssh.ClientConfig{
		User:            g.config.User,
		Auth:            authMethods,
		HostKeyCallback: hkCallback,
		Timeout:         g.config.ConnTimeout,
		BannerCallback: func(message string) error {
			g.logger.Verbose("gateway banner: %s", message)
			return nil
		},
	}

	addr := util.FormatAddr(g.config.Host, g.config.Port)
	g.logger.Debug("SSH: dialing %s as %s", addr, g.config.User)

	// Context-aware dial so SIGINT during connect is honoured.
	dialer := net.Dialer{Timeout: g.config.ConnTimeout}
	tcpConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return ncerr.Wrap("dial", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(tcpConn, addr, sshCfg)
	if err != nil {
		tcpConn.Close()
		return ncerr.WrapSSH("handshake", g.config.Host, g.config.Port, err)
	}

	client := ssh.NewClient(sshConn, chans, reqs)

	g.mu.Lock()
	g.client = client
	g.alive = true
	g.mu.Unlock()

	go g.monitor(client)

	g.logger.Verbose("SSH gateway %s connected", addr)
	return nil
}

// Listen asks the gateway to forward bindAddr:port back over the SSH
// connection and returns the listener that yields those connections.
func (g *Gateway) Listen(bindAddr string, port int) (net.Listener, error) {
	g.mu.RLock()
	client := g.client
	alive := g.alive
	g.mu.RUnlock()

	if !alive || client == nil {
		return nil, ncerr.ErrNotConnected
	}

	g.logger.Debug("gateway: requesting forward of %s", util.FormatAddr(bindAddr, port))
	ln, err := listenRemoteForward(client, bindAddr, port)
	if err != nil {
		return nil, ncerr.WrapSSH("forward", g.config.Host, g.config.Port, err)
	}
	return ln, nil
}

// Close shuts down the SSH connection.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.alive = false
	if g.client != nil {
		err := g.client.Close()
		g.client = nil
		return err
	}
	return nil
}

// IsAlive reports whether the gateway connection is still up.
func (g *Gateway) IsAlive() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.alive
}

// monitor blocks until the SSH connection closes and flips the alive flag.
func (g *Gateway) monitor(client *ssh.Client) {
	err := client.Wait()

	g.mu.Lock()
	if g.client == client {
		g.alive = false
	}
	g.mu.Unlock()

	if err != nil {
		g.logger.Debug("SSH gateway closed: %v", err)
	} else {
		g.logger.Debug("SSH gateway closed")
	}
}
