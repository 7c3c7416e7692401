package netcfg

import (
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
)

// NetlinkAdmin programs the kernel's network stack over rtnetlink. It is
// the real NetworkAdmin used inside the guest.
type NetlinkAdmin struct{}

func (NetlinkAdmin) AddrAdd(iface, addr string) error {
	link, err := netlink.LinkByName(iface)
	if err != nil {
		return fmt.Errorf("find link %s: %w", iface, err)
	}
	parsed, err := netlink.ParseAddr(addr)
	if err != nil {
		return fmt.Errorf("parse address %s: %w", addr, err)
	}
	if err := netlink.AddrAdd(link, parsed); err != nil {
		return fmt.Errorf("add address %s to %s: %w", addr, iface, err)
	}
	return nil
}

func (NetlinkAdmin) LinkUp(iface string) error {
	link, err := netlink.LinkByName(iface)
	if err != nil {
		return fmt.Errorf("find link %s: %w", iface, err)
	}
	if err := netlink.LinkSetUp(link); err != nil {
		return fmt.Errorf("set link %s up: %w", iface, err)
	}
	return nil
}

func (NetlinkAdmin) RouteAddDefault(iface, gateway string) error {
	link, err := netlink.LinkByName(iface)
	if err != nil {
		return fmt.Errorf("find link %s: %w", iface, err)
	}
	gw := net.ParseIP(gateway)
	if gw == nil {
		return fmt.Errorf("parse gateway address %q", gateway)
	}
	// Nil Dst makes this the default route.
	route := &netlink.Route{LinkIndex: link.Attrs().Index, Gw: gw}
	if err := netlink.RouteAdd(route); err != nil {
		return fmt.Errorf("add default route via %s: %w", gateway, err)
	}
	return nil
}
