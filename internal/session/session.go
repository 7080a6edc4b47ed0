// Package session represents the lifecycle of the single peer
// connection, binding it with the console writer, logger and metrics.
//
// Sessions decouple capabilities from concrete I/O sources. A
// capability doesn't need to know whether it prints to os.Stdout or a
// test buffer, it just uses the session's Stdout.
package session

import (
	"io"
	"net"

	"emorecv/internal/metrics"
	"emorecv/util"
)

// Session encapsulates the runtime context for the peer connection.
type Session struct {
	Conn    net.Conn
	Stdout  io.Writer
	Logger  *util.Logger
	Metrics *metrics.Collector // optional, nil-safe
}

// New creates a Session bound to the given connection and writer.
func New(conn net.Conn, stdout io.Writer, logger *util.Logger, m *metrics.Collector) *Session {
	return &Session{
		Conn:    conn,
		Stdout:  stdout,
		Logger:  logger,
		Metrics: m,
	}
}

// Peer returns the remote address for log lines.
func (s *Session) Peer() string {
	return util.PeerString(s.Conn.RemoteAddr())
}
