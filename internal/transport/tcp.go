package transport

import (
	"context"
	"net"

	ncerr "emorecv/internal/errors"
)

// TCPListener binds a local TCP socket.
type TCPListener struct {
	Network string // "tcp4" (default), "tcp" or "tcp6"
	Address string // host:port
}

// Listen binds Address.  Failures, including a port already in use,
// are returned as *errors.NetworkError with Op "listen".
func (l *TCPListener) Listen(ctx context.Context) (net.Listener, error) {
	network := l.Network
	if network == "" {
		network = "tcp4"
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, network, l.Address)
	if err != nil {
		return nil, ncerr.Wrap("listen", l.Address, err)
	}
	return ln, nil
}

// Close is a no-op for plain TCP.
func (l *TCPListener) Close() error { return nil }
