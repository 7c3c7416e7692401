package transport

import (
	"log/slog"

	"github.com/mdlayher/vsock"
)

// DefaultVsockPort is the vsock rendezvous port.
const DefaultVsockPort = 2021

// VsockReceiver accepts the configuration payload over a virtio vsock
// rendezvous. The origin check is the peer's context ID rather than a port:
// the payload must come from the host (context ID 2). ContextID 0 disables
// the check.
type VsockReceiver struct {
	Port      uint32
	ContextID uint32
	Log       *slog.Logger
}

func NewVsockReceiver(port uint32, log *slog.Logger) *VsockReceiver {
	return &VsockReceiver{Port: port, ContextID: vsock.Host, Log: log}
}

// Receive blocks until one payload arrives from the expected context and
// streams it verbatim to destPath. Like the TCP receiver, it has no
// timeout.
func (r *VsockReceiver) Receive(destPath string) error {
	ln, err := vsock.Listen(r.Port, nil)
	if err != nil {
		return &TransportError{Op: "vsock listen", Err: err}
	}
	defer ln.Close()

	r.Log.Info("waiting for configuration", "vsock-port", r.Port, "peer-cid", r.ContextID)

	for {
		conn, err := ln.Accept()
		if err != nil {
			return &TransportError{Op: "vsock accept", Err: err}
		}

		if r.ContextID != 0 {
			addr, ok := conn.RemoteAddr().(*vsock.Addr)
			if !ok || addr.ContextID != r.ContextID {
				r.Log.Warn("rejecting payload from unexpected context", "addr", conn.RemoteAddr())
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
