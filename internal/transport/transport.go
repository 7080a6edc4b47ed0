// Package transport provides the listening endpoint abstraction.
// Transports handle the "how" of getting an inbound connection (a local
// TCP socket or a port forwarded from an SSH gateway) independently of
// what happens over the connection once it is accepted.
package transport

import (
	"context"
	"net"
)

// Listener opens the listening endpoint.  Implementations include a
// plain TCP listener and an SSH remote-forward listener.
type Listener interface {
	// Listen binds the endpoint.  The returned net.Listener is owned
	// by the caller, which must close it.
	Listen(ctx context.Context) (net.Listener, error)

	// Close releases any long-lived resources held by the transport
	// (e.g. an SSH session).  Stateless transports return nil.
	Close() error
}
