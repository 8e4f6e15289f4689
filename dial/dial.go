// Package dial parses 9P dial strings and opens the underlying
// transport. It is deliberately outside ninep/client and ninep/server
// (§6: "dialing... is an external concern"): both packages only need
// an io.ReadWriteCloser, and the teacher itself treats network
// listening as orthogonal to the protocol (styxproto has no dialer at
// all; styxmount.Mount is the closest analog, and is an unimplemented
// stub).
package dial

import (
	"net"
	"strings"

	"github.com/pkg/errors"
)

// Addr is a parsed "proto!host!port"-style 9P dial string, the
// classic Plan 9 mini-grammar for naming a remote file server.
type Addr struct {
	Network string // "tcp", "unix", ...
	Host    string
	Port    string
}

// ParseAddr parses a dial string of the form "proto!host!port" (proto
// one of tcp, tcp4, tcp6) or "unix!path" (a Unix socket). "tcp!host!564"
// and "unix!/tmp/ns.foo/9p" are both valid; any other network is
// rejected.
func ParseAddr(s string) (Addr, error) {
	parts := strings.Split(s, "!")
	if len(parts) < 2 {
		return Addr{}, errors.Errorf("dial: malformed address %q", s)
	}
	network := parts[0]
	switch network {
	case "unix":
		return Addr{Network: network, Host: strings.Join(parts[1:], "!")}, nil
	case "tcp", "tcp4", "tcp6":
		if len(parts) != 3 {
			return Addr{}, errors.Errorf("dial: malformed tcp address %q", s)
		}
		return Addr{Network: network, Host: parts[1], Port: parts[2]}, nil
	default:
		return Addr{}, errors.Errorf("dial: unknown network %q", network)
	}
}

// Dial connects to addr and returns the raw transport, ready to be
// passed to client.Mount.
func Dial(addr Addr) (net.Conn, error) {
	switch addr.Network {
	case "unix":
		c, err := net.Dial("unix", addr.Host)
		return c, errors.Wrapf(err, "dial: unix %s", addr.Host)
	default:
		c, err := net.Dial(addr.Network, net.JoinHostPort(addr.Host, addr.Port))
		return c, errors.Wrapf(err, "dial: %s %s:%s", addr.Network, addr.Host, addr.Port)
	}
}

// Listen opens a listener for addr, ready to Accept connections that
// server.New can drive.
func Listen(addr Addr) (net.Listener, error) {
	switch addr.Network {
	case "unix":
		l, err := net.Listen("unix", addr.Host)
		return l, errors.Wrapf(err, "dial: listen unix %s", addr.Host)
	default:
		l, err := net.Listen(addr.Network, net.JoinHostPort(addr.Host, addr.Port))
		return l, errors.Wrapf(err, "dial: listen %s %s:%s", addr.Network, addr.Host, addr.Port)
	}
}
