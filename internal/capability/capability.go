// Package capability defines what happens over the accepted
// connection.  A Capability operates on a Session rather than a raw
// net.Conn, which keeps it testable and decoupled from how the
// connection was obtained (local socket or SSH forward).
package capability

import (
	"context"

	"emorecv/internal/session"
)

// Capability handles the peer connection.  The receiver's only
// implementation is Decode.
type Capability interface {
	// Handle runs the capability against the given session.
	// It blocks until the peer is done or the context is cancelled.
	Handle(ctx context.Context, sess *session.Session) error
}
