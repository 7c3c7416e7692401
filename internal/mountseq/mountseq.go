// Package mountseq applies the document's ordered mount sequence. Entry 0
// of the mount table is the root filesystem, mounted by the hypervisor
// before the agent runs, and is always skipped; the remaining entries are
// mounted in document order because mount points may nest.
package mountseq

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tinyrange/guestboot/internal/document"
)

// MountAdmin is the capability used to mount guest filesystems.
type MountAdmin interface {
	Mount(device, target, fstype string, flags uintptr, data string) error
}

// ErrNoMounts reports a document whose mount table is empty. A valid
// document describes at least the root filesystem.
var ErrNoMounts = errors.New("mount table is empty: missing root filesystem entry")

// EntryError reports a mount entry that could not be used: a missing device
// or mount point, or a flags string that does not parse.
type EntryError struct {
	Index int
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("mount entry %d: %v", e.Index, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// MountFailedError reports a mount call that the kernel rejected.
type MountFailedError struct {
	Index int
	Entry document.MountEntry
	Err   error
}

func (e *MountFailedError) Error() string {
	return fmt.Sprintf("mount %s on %s (entry %d): %v", e.Entry.Device, e.Entry.MountPoint, e.Index, e.Err)
}

func (e *MountFailedError) Unwrap() error { return e.Err }

// Apply mounts every entry after the root, in document order, failing fast:
// the first unusable entry or rejected mount aborts the remaining entries.
// Mounts already applied stay applied. A table holding only the root entry
// is a no-op.
func Apply(cfg *document.Config, admin MountAdmin, log *slog.Logger) error {
	if len(cfg.Mounts) == 0 {
		return ErrNoMounts
	}

	log.Info("applying mounts", "entries", len(cfg.Mounts)-1)

	for i := 1; i < len(cfg.Mounts); i++ {
		ent := cfg.Mounts[i]
		if ent.Device == "" || ent.MountPoint == "" {
			return &EntryError{Index: i, Err: errors.New("missing device or mount point")}
		}

		opts, err := ParseFlags(ent.Flags)
		if err != nil {
			return &EntryError{Index: i, Err: err}
		}

		if err := admin.Mount(ent.Device, ent.MountPoint, opts.FSType, opts.Flags, opts.Data); err != nil {
			return &MountFailedError{Index: i, Entry: ent, Err: err}
		}
		log.Info("mounted", "dev", ent.Device, "mountpoint", ent.MountPoint, "flags", ent.Flags)
	}

	log.Info("mounts applied")
	return nil
}
