package util

import (
	"errors"
	"io"
	"net"
)

// CodeSize is the size of one message on the wire.
const CodeSize = 1

// ReadCode blocks until exactly one byte is available on r and returns
// it.  A peer that closes the stream yields io.EOF.
func ReadCode(r io.Reader) (byte, error) {
	var buf [CodeSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// IsHarmless returns true for errors that are expected when a peer
// hangs up or the receiver is shutting down.
func IsHarmless(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	// net.OpError wrapping "use of closed network connection"
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, net.ErrClosed)
	}
	return false
}
