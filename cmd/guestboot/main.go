// Command guestboot is the guest-side bootstrap agent for a lightweight
// virtual machine. It blocks until the host delivers the boot configuration
// over the rendezvous socket, validates the document, applies the network
// configuration to the primary interface, and applies the mount table, then
// exits so the normal boot sequence can continue. Any failure exits
// non-zero and the guest does not proceed.
//
// Build with: CGO_ENABLED=0 GOOS=linux go build ./cmd/guestboot
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tinyrange/guestboot/internal/boot"
	"github.com/tinyrange/guestboot/internal/bootlog"
	"github.com/tinyrange/guestboot/internal/mountseq"
	"github.com/tinyrange/guestboot/internal/netcfg"
	"github.com/tinyrange/guestboot/internal/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "guestboot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	transportName := flag.String("transport", "tcp", "Rendezvous transport (tcp, vsock)")
	listenPort := flag.Int("listen-port", transport.DefaultListenPort, "Local rendezvous port (tcp)")
	peerPort := flag.Int("peer-port", transport.DefaultPeerPort, "Expected origin port of the host payload (tcp, 0 disables the check)")
	vsockPort := flag.Uint("vsock-port", transport.DefaultVsockPort, "Rendezvous port (vsock)")
	iface := flag.String("iface", "eth0", "Primary network interface")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <config-path>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Receive the boot configuration from the host, write it to <config-path>,\n")
		fmt.Fprintf(os.Stderr, "and apply its network and mount configuration.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return fmt.Errorf("config path required")
	}
	destPath := flag.Arg(0)

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := bootlog.New(os.Stderr, level)

	var receiver boot.Receiver
	switch *transportName {
	case "tcp":
		receiver = transport.NewReceiver(*listenPort, *peerPort, log)
	case "vsock":
		receiver = transport.NewVsockReceiver(uint32(*vsockPort), log)
	default:
		return fmt.Errorf("unknown transport %q", *transportName)
	}

	pipeline := &boot.Pipeline{
		Receiver: receiver,
		Net:      netcfg.NetlinkAdmin{},
		Mount:    mountseq.UnixAdmin{},
		Iface:    *iface,
		Log:      log,
	}
	return pipeline.Run(destPath)
}
