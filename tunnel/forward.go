package tunnel

// forward.go - SSH forwarded-tcpip listener.
//
// ssh.Client.Listen keys forwarded-tcpip channels by the exact bind
// address it sent.  Some gateways echo back a different address
// ("0.0.0.0" for "localhost"), and the library then rejects every
// channel with "no forward for address".  We register our own handler,
// send tcpip-forward ourselves, and accept channels unconditionally.

import (
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	ncerr "emorecv/internal/errors"
)

// ── Wire format structs (RFC 4254) ──────────────────────────────────

// channelForwardMsg is the payload of "tcpip-forward" and
// "cancel-tcpip-forward" (RFC 4254 §7.1).
type channelForwardMsg struct {
	Addr string
	Port uint32
}

// forwardedTCPPayload is the channel-open payload for
// "forwarded-tcpip" (RFC 4254 §7.2).
type forwardedTCPPayload struct {
	Addr       string
	Port       uint32
	OriginAddr string
	OriginPort uint32
}

// forwardRequester is the subset of *ssh.Client used by the listener.
type forwardRequester interface {
	SendRequest(name string, wantReply bool, payload []byte) (bool, []byte, error)
}

// ── forwardListener ─────────────────────────────────────────────────

// forwardListener implements [net.Listener] over forwarded-tcpip
// channels.
type forwardListener struct {
	client   forwardRequester
	bindAddr string
	bindPort uint32
	incoming <-chan ssh.NewChannel
	done     chan struct{}
	once     sync.Once
}

// Accept waits for the next forwarded connection from the gateway.
func (l *forwardListener) Accept() (net.Conn, error) {
	select {
	case <-l.done:
		return nil, net.ErrClosed
	case newCh, ok := <-l.incoming:
		if !ok {
			return nil, io.EOF
		}
		ch, reqs, err := newCh.Accept()
		if err != nil {
			return nil, fmt.Errorf("channel accept: %w", err)
		}
		go ssh.DiscardRequests(reqs)
		return &chanConn{Channel: ch, raddr: originAddr(newCh.ExtraData())}, nil
	}
}

// Close cancels the remote forward, unblocks Accept and rejects any
// forwarded connection that arrives afterwards.
func (l *forwardListener) Close() error {
	l.once.Do(func() {
		close(l.done)
		msg := channelForwardMsg{Addr: l.bindAddr, Port: l.bindPort}
		l.client.SendRequest("cancel-tcpip-forward", true, ssh.Marshal(&msg)) //nolint:errcheck
		go func() {
			for newCh := range l.incoming {
				newCh.Reject(ssh.Prohibited, "receiver closed") //nolint:errcheck
			}
		}()
	})
	return nil
}

// Addr returns the gateway-side address being forwarded.
func (l *forwardListener) Addr() net.Addr {
	return &net.TCPAddr{IP: net.ParseIP(l.bindAddr), Port: int(l.bindPort)}
}

// originAddr decodes the sender's address from the channel payload.
func originAddr(extra []byte) net.Addr {
	var payload forwardedTCPPayload
	if err := ssh.Unmarshal(extra, &payload); err != nil {
		return &net.TCPAddr{}
	}
	return &net.TCPAddr{
		IP:   net.ParseIP(payload.OriginAddr),
		Port: int(payload.OriginPort),
	}
}

// ── chanConn ─────────────────────────────────────────────────────────

// chanConn wraps an [ssh.Channel] to satisfy [net.Conn].
type chanConn struct {
	ssh.Channel
	raddr net.Addr
}

func (c *chanConn) LocalAddr() net.Addr                { return &net.TCPAddr{} }
func (c *chanConn) RemoteAddr() net.Addr               { return c.raddr }
func (c *chanConn) SetDeadline(_ time.Time) error      { return nil }
func (c *chanConn) SetReadDeadline(_ time.Time) error  { return nil }
func (c *chanConn) SetWriteDeadline(_ time.Time) error { return nil }

// ── Constructor ──────────────────────────────────────────────────────

// listenRemoteForward sends a tcpip-forward request and returns a
// [net.Listener] fed by the gateway's forwarded-tcpip channels.
func listenRemoteForward(client *ssh.Client, bindAddr string, bindPort int) (net.Listener, error) {
	// Register our channel handler BEFORE the library can.
	incoming := client.HandleChannelOpen("forwarded-tcpip")
	if incoming == nil {
		return nil, fmt.Errorf("forwarded-tcpip handler already registered")
	}

	msg := channelForwardMsg{
		Addr: bindAddr,
		Port: uint32(bindPort),
	}
	ok, _, err := client.SendRequest("tcpip-forward", true, ssh.Marshal(&msg))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ncerr.ErrForwardDenied
	}

	return newForwardListener(client, bindAddr, bindPort, incoming), nil
}

func newForwardListener(client forwardRequester, bindAddr string, bindPort int, incoming <-chan ssh.NewChannel) *forwardListener {
	return &forwardListener{
		client:   client,
		bindAddr: bindAddr,
		bindPort: uint32(bindPort),
		incoming: incoming,
		done:     make(chan struct{}),
	}
}
