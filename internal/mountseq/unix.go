package mountseq

import "golang.org/x/sys/unix"

// UnixAdmin performs real mounts through the mount syscall. It is the
// MountAdmin used inside the guest.
type UnixAdmin struct{}

func (UnixAdmin) Mount(device, target, fstype string, flags uintptr, data string) error {
	return unix.Mount(device, target, fstype, flags, data)
}
