package core

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"emorecv/internal/capability"
	ncerr "emorecv/internal/errors"
	"emorecv/internal/metrics"
	"emorecv/internal/session"
	"emorecv/internal/transport"
	"emorecv/util"
)

// ReceiveMode binds the listening endpoint, accepts exactly one peer
// and hands it to the capability.  The listener is never asked for a
// second connection.
type ReceiveMode struct {
	Transport  transport.Listener
	Capability capability.Capability // defaults to capability.Decode
	Logger     *util.Logger
	Metrics    *metrics.Collector // optional, nil-safe

	// Stdout defaults to os.Stdout when nil.
	Stdout io.Writer

	mu      sync.Mutex
	state   State
	started bool
	ln      net.Listener
	conn    net.Conn
	out     *syncWriter

	shutdownOnce sync.Once
	shutdownErr  error
}

// State returns the current lifecycle state.
func (m *ReceiveMode) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Run binds, accepts one peer, decodes until the peer leaves and then
// releases the connection and the endpoint.  Cancelling ctx shuts the
// receiver down from whichever blocking call it is in.
func (m *ReceiveMode) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { m.Shutdown() }) //nolint:errcheck
	defer stop()
	defer m.Shutdown() //nolint:errcheck

	conn, err := m.Start(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return m.ReceiveLoop(ctx, conn)
}

// Start binds the endpoint and blocks until one peer connects.
func (m *ReceiveMode) Start(ctx context.Context) (net.Conn, error) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return nil, ncerr.ErrAlreadyStarted
	}
	m.started = true
	m.mu.Unlock()

	ln, err := m.Transport.Listen(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		ln.Close()
		return nil, ncerr.Wrap("listen", ln.Addr().String(), net.ErrClosed)
	}
	m.ln = ln
	m.state = StateListening
	m.mu.Unlock()

	addr := ln.Addr().String()
	m.printf("Server listening on %s\n", addr)
	m.Logger.Verbose("waiting for the sender on %s", addr)

	conn, err := ln.Accept()
	if err != nil {
		return nil, ncerr.Wrap("accept", addr, err)
	}

	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		conn.Close()
		return nil, ncerr.Wrap("accept", addr, net.ErrClosed)
	}
	m.conn = conn
	m.state = StateConnected
	m.mu.Unlock()

	m.Metrics.ConnectionOpened()
	m.printf("Connection established with: %s\n", util.PeerString(conn.RemoteAddr()))
	return conn, nil
}

// ReceiveLoop runs the capability over conn until the peer disconnects,
// a read fails or the receiver is shut down.
func (m *ReceiveMode) ReceiveLoop(ctx context.Context, conn net.Conn) error {
	capab := m.Capability
	if capab == nil {
		capab = &capability.Decode{}
	}
	sess := session.New(conn, m.stdout(), m.Logger, m.Metrics)
	return capab.Handle(ctx, sess)
}

// Shutdown closes the peer connection and then the listening endpoint.
// It runs once; later calls return the first result.
func (m *ReceiveMode) Shutdown() error {
	m.shutdownOnce.Do(func() {
		m.mu.Lock()
		conn, ln, prev := m.conn, m.ln, m.state
		m.state = StateClosed
		m.mu.Unlock()

		var errs []error
		if conn != nil {
			if err := conn.Close(); err != nil && !ncerr.IsClosed(err) {
				errs = append(errs, fmt.Errorf("close connection: %w", err))
			}
			m.Metrics.ConnectionClosed()
		}
		if ln != nil {
			if err := ln.Close(); err != nil && !ncerr.IsClosed(err) {
				errs = append(errs, fmt.Errorf("close listener: %w", err))
			}
		}
		if m.Transport != nil {
			if err := m.Transport.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close transport: %w", err))
			}
		}

		if prev == StateConnected {
			m.printf("Connection closed\n")
		}
		m.Logger.Debug("receiver %s → %s", prev, StateClosed)
		m.shutdownErr = ncerr.Join(errs...)
	})
	return m.shutdownErr
}

// ── output ───────────────────────────────────────────────────────────

// syncWriter serialises writes from the receive loop and a concurrent
// Shutdown.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (m *ReceiveMode) stdout() io.Writer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.out == nil {
		w := m.Stdout
		if w == nil {
			w = os.Stdout
		}
		m.out = &syncWriter{w: w}
	}
	return m.out
}

func (m *ReceiveMode) printf(format string, args ...any) {
	fmt.Fprintf(m.stdout(), format, args...)
}
