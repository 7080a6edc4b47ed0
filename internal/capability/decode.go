package capability

import (
	"context"
	"errors"
	"fmt"
	"io"

	"emorecv/internal/emotion"
	"emorecv/internal/session"
	"emorecv/util"
)

// LabelFormat is the console line printed for every received code.
const LabelFormat = "Received emotion: %s\n"

// Decode reads one-byte codes from the connection and prints the label
// for each until the peer hangs up.
type Decode struct{}

// Handle runs the receive loop.  A peer disconnect, a read error or a
// shutdown all end the loop with a nil error; only a failure to write
// the label is returned.
func (d *Decode) Handle(ctx context.Context, sess *session.Session) error {
	for {
		code, err := util.ReadCode(sess.Conn)
		if err != nil {
			d.readDone(ctx, sess, err)
			return nil
		}

		sess.Metrics.BytesReceived(util.CodeSize)
		sess.Metrics.CodeReceived(code)

		label := emotion.Decode(code)
		sess.Logger.Debug("code %d from %s → %q", code, sess.Peer(), label)

		if _, err := fmt.Fprintf(sess.Stdout, LabelFormat, label); err != nil {
			return fmt.Errorf("write label: %w", err)
		}
	}
}

// readDone logs why the loop ended.
func (d *Decode) readDone(ctx context.Context, sess *session.Session, err error) {
	switch {
	case errors.Is(err, io.EOF):
		sess.Logger.Verbose("peer %s closed the connection", sess.Peer())
	case ctx.Err() != nil || util.IsHarmless(err):
		sess.Logger.Verbose("receive loop stopped: shutting down")
	default:
		sess.Metrics.RecordError(err.Error())
		sess.Logger.Warn("read from %s: %v", sess.Peer(), err)
	}
}
