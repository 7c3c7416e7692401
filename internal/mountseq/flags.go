package mountseq

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// MountOptions is the parsed form of a mount entry's flags string. An empty
// FSType is only usable for bind and remount operations; other entries must
// name their filesystem with -t.
type MountOptions struct {
	FSType string
	Flags  uintptr
	Data   string
}

// flagBits maps mount(8) option names onto MS_* bits. Options without a
// corresponding bit are passed through to the filesystem in the data
// argument.
var flagBits = map[string]uintptr{
	"ro":       unix.MS_RDONLY,
	"rw":       0,
	"nosuid":   unix.MS_NOSUID,
	"nodev":    unix.MS_NODEV,
	"noexec":   unix.MS_NOEXEC,
	"sync":     unix.MS_SYNCHRONOUS,
	"remount":  unix.MS_REMOUNT,
	"bind":     unix.MS_BIND,
	"noatime":  unix.MS_NOATIME,
	"relatime": unix.MS_RELATIME,
	"defaults": 0,
}

// ParseFlags parses a mount entry's flags string, which uses mount(8)
// command form: "-o ro,noatime", "-t ext4", "-r". An empty string is valid
// and yields zero options.
func ParseFlags(s string) (MountOptions, error) {
	var opts MountOptions
	var data []string

	fields := strings.Fields(s)
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "-r":
			opts.Flags |= unix.MS_RDONLY
		case "-w":
			// read-write is the kernel default
		case "-t":
			i++
			if i >= len(fields) {
				return MountOptions{}, errors.New("-t requires a filesystem type")
			}
			opts.FSType = fields[i]
		case "-o":
			i++
			if i >= len(fields) {
				return MountOptions{}, errors.New("-o requires an option list")
			}
			for _, opt := range strings.Split(fields[i], ",") {
				if opt == "" {
					continue
				}
				if bits, known := flagBits[opt]; known {
					opts.Flags |= bits
				} else {
					data = append(data, opt)
				}
			}
		default:
			return MountOptions{}, fmt.Errorf("unrecognized mount flag %q", fields[i])
		}
	}

	opts.Data = strings.Join(data, ",")
	return opts, nil
}
