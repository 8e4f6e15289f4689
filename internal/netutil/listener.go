// Package netutil provides an in-process net.Listener for driving a
// server.Server against a client.Client without touching a real
// socket, used by this module's own tests.
package netutil

import (
	"errors"
	"net"
	"sync"
)

var errClosed = errors.New("netutil: listener closed")

// PipeListener is a net.Listener backed by net.Pipe instead of a real
// socket or port: Dial hands the Accept side one end of a pipe and
// returns the other. Useful in tests and in sandboxes where binding a
// port isn't available. Unlike a lazily-initialized zero value, a
// PipeListener must be constructed with NewPipeListener.
type PipeListener struct {
	incoming chan net.Conn
	shutdown chan struct{}
	once     sync.Once
}

// NewPipeListener returns a ready-to-use PipeListener.
func NewPipeListener() *PipeListener {
	return &PipeListener{
		incoming: make(chan net.Conn),
		shutdown: make(chan struct{}),
	}
}

// Accept blocks until Dial is called or the listener is closed.
func (l *PipeListener) Accept() (net.Conn, error) {
	select {
	case c := <-l.incoming:
		return c, nil
	case <-l.shutdown:
		return nil, errClosed
	}
}

// Dial creates a connected pair of net.Conns, delivers one to a
// pending or future Accept, and returns the other.
func (l *PipeListener) Dial() (net.Conn, error) {
	client, server := net.Pipe()
	select {
	case <-l.shutdown:
		client.Close()
		server.Close()
		return nil, errClosed
	case l.incoming <- server:
		return client, nil
	}
}

// Close unblocks any pending Accept or Dial calls. Calling Close more
// than once is safe.
func (l *PipeListener) Close() error {
	l.once.Do(func() { close(l.shutdown) })
	return nil
}

type dummyAddr struct{}

func (dummyAddr) String() string  { return "pipe" }
func (dummyAddr) Network() string { return "pipe" }

// Addr returns a placeholder net.Addr; PipeListener has no real
// network address.
func (l *PipeListener) Addr() net.Addr { return dummyAddr{} }
