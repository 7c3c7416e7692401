// Package netcfg applies the document's network configuration to the
// guest's primary interface.
package netcfg

import (
	"fmt"
	"log/slog"

	"github.com/tinyrange/guestboot/internal/document"
)

// NetworkAdmin is the capability used to program the guest's network stack.
type NetworkAdmin interface {
	// AddrAdd assigns an address in prefix notation ("10.0.0.5/24") to the
	// interface.
	AddrAdd(iface, addr string) error
	// LinkUp brings the interface up.
	LinkUp(iface string) error
	// RouteAddDefault installs a default route via gateway, bound to the
	// interface.
	RouteAddDefault(iface, gateway string) error
}

// Kind identifies which step of the configuration sequence failed.
type Kind int

const (
	MissingAddress Kind = iota + 1
	MissingGateway
	AddressAssignFailed
	InterfaceUpFailed
	RouteAddFailed
)

func (k Kind) String() string {
	switch k {
	case MissingAddress:
		return "address or prefix length missing from netconf"
	case MissingGateway:
		return "gateway missing from netconf"
	case AddressAssignFailed:
		return "address assignment failed"
	case InterfaceUpFailed:
		return "bringing interface up failed"
	case RouteAddFailed:
		return "default route installation failed"
	default:
		return fmt.Sprintf("network configuration error %d", int(k))
	}
}

// ConfigError is a network configuration failure, tagged with the step that
// produced it.
type ConfigError struct {
	Kind Kind
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Configure applies cfg's netconf to iface in a fixed sequence: assign
// address, bring the link up, install the default route. The sequence is
// fail-fast and never rolls back: a failure after the address step leaves
// the address assigned, matching the original boot contract.
func Configure(cfg *document.Config, admin NetworkAdmin, iface string, log *slog.Logger) error {
	log.Info("configuring network", "iface", iface)

	nc := cfg.Netconf
	if nc.IPAddr == "" || nc.CIDR == "" {
		return &ConfigError{Kind: MissingAddress}
	}
	// The prefix length is opaque: concatenated, never parsed.
	addr := nc.IPAddr + "/" + nc.CIDR

	if nc.Gateway == "" {
		return &ConfigError{Kind: MissingGateway}
	}

	if err := admin.AddrAdd(iface, addr); err != nil {
		return &ConfigError{Kind: AddressAssignFailed, Err: err}
	}
	log.Info("address assigned", "iface", iface, "addr", addr)

	if err := admin.LinkUp(iface); err != nil {
		return &ConfigError{Kind: InterfaceUpFailed, Err: err}
	}
	log.Info("interface up", "iface", iface)

	if err := admin.RouteAddDefault(iface, nc.Gateway); err != nil {
		return &ConfigError{Kind: RouteAddFailed, Err: err}
	}
	log.Info("default route installed", "iface", iface, "gateway", nc.Gateway)

	log.Info("network configured", "iface", iface)
	return nil
}
