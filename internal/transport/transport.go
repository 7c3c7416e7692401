// Package transport receives the boot configuration payload from the host.
// The rendezvous is a fixed port pair: the guest listens on a well-known
// port and accepts exactly one payload, expecting it to originate from a
// well-known port on the host side. There is no framing beyond "one
// connection, one document", and no timeout: the guest blocks until the
// host delivers.
package transport

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
)

const (
	// DefaultListenPort is the guest-side rendezvous port.
	DefaultListenPort = 2021
	// DefaultPeerPort is the host-side origin port the payload is expected
	// to arrive from.
	DefaultPeerPort = 2022
)

// TransportError is a socket or payload delivery failure.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Receiver accepts exactly one configuration payload over TCP. Connections
// from an origin port other than PeerPort are closed and the receiver keeps
// waiting; PeerPort 0 disables the origin check.
type Receiver struct {
	ListenPort int
	PeerPort   int
	Log        *slog.Logger

	ln net.Listener
}

func NewReceiver(listenPort, peerPort int, log *slog.Logger) *Receiver {
	return &Receiver{ListenPort: listenPort, PeerPort: peerPort, Log: log}
}

// Listen binds the rendezvous port. Receive calls it implicitly; it is
// exported so callers can bind early and observe the bound address.
func (r *Receiver) Listen() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", r.ListenPort))
	if err != nil {
		return &TransportError{Op: "listen", Err: err}
	}
	r.ln = ln
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (r *Receiver) Addr() net.Addr {
	if r.ln == nil {
		return nil
	}
	return r.ln.Addr()
}

// Receive blocks until one payload arrives from the expected origin and
// streams it verbatim to destPath, truncating any existing file. This is
// the only suspension point in the bootstrap: absence of a payload blocks
// forever.
func (r *Receiver) Receive(destPath string) error {
	if r.ln == nil {
		if err := r.Listen(); err != nil {
			return err
		}
	}
	defer r.ln.Close()

	r.Log.Info("waiting for configuration", "port", r.ln.Addr().(*net.TCPAddr).Port, "peer-port", r.PeerPort)

	for {
		conn, err := r.ln.Accept()
		if err != nil {
			return &TransportError{Op: "accept", Err: err}
		}

		if r.PeerPort != 0 {
			tcpAddr, ok := conn.RemoteAddr().(*net.TCPAddr)
			if !ok || tcpAddr.Port != r.PeerPort {
				r.Log.Warn("rejecting payload from unexpected origin", "addr", conn.RemoteAddr())
				conn.Close()
				continue
			}
		}

		n, err := writePayload(destPath, conn)
		conn.Close()
		if err != nil {
			return err
		}
		r.Log.Info("configuration received", "bytes", n, "path", destPath)
		return nil
	}
}

// writePayload streams the whole payload to destPath, truncating any
// existing content.
func writePayload(destPath string, src io.Reader) (int64, error) {
	f, err := os.Create(destPath)
	if err != nil {
		return 0, &TransportError{Op: "create " + destPath, Err: err}
	}

	n, err := io.Copy(f, src)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, &TransportError{Op: "write " + destPath, Err: err}
	}
	return n, nil
}
