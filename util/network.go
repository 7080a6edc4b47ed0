package util

import (
	"fmt"
	"net"
	"strconv"
)

// FormatAddr returns "host:port", bracketing IPv6 literals.
func FormatAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// PeerString renders a remote address the way lifecycle messages show
// it, falling back to "unknown" for listeners that cannot report one.
func PeerString(addr net.Addr) string {
	if addr == nil {
		return "unknown"
	}
	s := addr.String()
	if s == "" {
		return "unknown"
	}
	return s
}

// FindFreePort returns an available TCP port on 127.0.0.1.
func FindFreePort() (int, error) {
	l, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("finding free port: %w", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
