package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags and environment variable loading.  Without any flag
// or env var the receiver binds localhost:4000, which is where the
// classifier sends its predictions.

const (
	// DefaultHost is the bind host for the listening endpoint.
	DefaultHost = "localhost"

	// DefaultPort is the bind port for the listening endpoint.
	DefaultPort = 4000

	// DefaultNetwork restricts the endpoint to IPv4.
	DefaultNetwork = "tcp4"

	// DefaultSSHPort is the standard SSH port.
	DefaultSSHPort = 22

	// DefaultRemoteBind is the gateway-side bind address for a remote
	// forward.  "localhost" keeps the forwarded port private to the
	// gateway host.
	DefaultRemoteBind = "localhost"

	// DefaultConnTimeout bounds the SSH gateway dial and handshake.
	DefaultConnTimeout = 30 * time.Second
)
