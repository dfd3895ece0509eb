// Package confserver is the network control channel of the fx device:
// it listens on a tcp port and accepts one connection at a time, each
// carrying exactly one new base interval value.
package confserver

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/womat/debug"
)

// intervalSize is the fixed wire size of one interval value.
const intervalSize = 4

// ErrShortRead reports a connection that closed before delivering a full
// interval value. The pending configuration is left untouched.
var ErrShortRead = errors.New("incomplete interval value")

// Handler owns the listening socket and the at-most-one active
// connection. Accepting and reading run on a single goroutine, so the
// connection slot needs no lock for the serve path; mu only protects it
// against a concurrent Close.
type Handler struct {
	listener net.Listener

	mu   sync.Mutex
	conn net.Conn

	// publish delivers a validated interval value. It must not block.
	publish func(uint32)

	quit chan struct{}
}

// Open binds the listener and starts serving connections.
// publish is called once per successfully received value.
func Open(addr string, publish func(uint32)) (*Handler, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	h := &Handler{
		listener: l,
		publish:  publish,
		quit:     make(chan struct{}),
	}

	go h.run()
	return h, nil
}

// Addr returns the bound listener address.
func (h *Handler) Addr() net.Addr {
	return h.listener.Addr()
}

// Close stops accepting, closes an active connection if there is one and
// waits until the serve goroutine has terminated.
func (h *Handler) Close() error {
	err := h.listener.Close()

	h.mu.Lock()
	if h.conn != nil {
		_ = h.conn.Close()
	}
	h.mu.Unlock()

	// wait until run() is terminated
	<-h.quit
	return err
}

// run accepts connections one after the other. A second pending
// connection stays in the os backlog until the current one is done.
func (h *Handler) run() {
	defer close(h.quit)

	for {
		conn, err := h.listener.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				debug.ErrorLog.Printf("confserver: accept: %v", err)
			}
			return
		}

		debug.InfoLog.Printf("confserver: accepted connection from %v", conn.RemoteAddr())
		h.serve(conn)
	}
}

// serve reads one interval value, publishes it and drops the connection.
// A short read or a read error drops the connection without publishing
// anything; the worker never sees a partial update.
func (h *Handler) serve(conn net.Conn) {
	h.mu.Lock()
	h.conn = conn
	h.mu.Unlock()

	defer func() {
		_ = conn.Close()
		h.mu.Lock()
		h.conn = nil
		h.mu.Unlock()
	}()

	interval, err := readInterval(conn)
	if err != nil {
		debug.ErrorLog.Printf("confserver: %v", err)
		return
	}

	debug.InfoLog.Printf("confserver: received new conf interval: %d", interval)
	h.publish(interval)
}

// readInterval reads exactly one fixed-width, native-endian interval
// value from the connection.
func readInterval(r io.Reader) (uint32, error) {
	b := make([]byte, intervalSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrShortRead, err)
	}
	return binary.NativeEndian.Uint32(b), nil
}
