// Package bootlog provides the timestamped console logger used during guest
// bootstrap. Every line is prefixed with the kernel's adjusted time at
// microsecond resolution so boot phases can be correlated with host-side logs.
package bootlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

const timeFormat = "2006/01/02 15:04:05"

// Now returns the current time of day with microsecond precision. It reads
// the kernel's adjusted clock via adjtimex; if that fails (the syscall is
// filtered or unsupported) it degrades to the Go runtime clock with the same
// format instead of failing the boot.
func Now() string {
	var tx unix.Timex
	if _, err := unix.Adjtimex(&tx); err == nil {
		usec := tx.Time.Usec
		if tx.Status&unix.STA_NANO != 0 {
			usec /= 1000
		}
		t := time.Unix(int64(tx.Time.Sec), int64(usec)*1000)
		return fmt.Sprintf("%s.%06d", t.Format(timeFormat), usec)
	}

	t := time.Now()
	return fmt.Sprintf("%s.%06d", t.Format(timeFormat), t.Nanosecond()/1000)
}

// New returns a logger that writes "<timestamp> <LEVEL> <msg> k=v ..." lines
// to w. Records below level are dropped.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(&handler{mu: &sync.Mutex{}, w: w, level: level})
}

type handler struct {
	mu    *sync.Mutex
	w     io.Writer
	level slog.Level
	attrs []slog.Attr
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(Now())
	sb.WriteByte(' ')
	sb.WriteString(r.Level.String())
	sb.WriteByte(' ')
	sb.WriteString(r.Message)
	for _, a := range h.attrs {
		writeAttr(&sb, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := &handler{mu: h.mu, w: h.w, level: h.level}
	nh.attrs = append(append(nh.attrs, h.attrs...), attrs...)
	return nh
}

// WithGroup is a no-op; the boot log is flat.
func (h *handler) WithGroup(string) slog.Handler { return h }

func writeAttr(sb *strings.Builder, a slog.Attr) {
	fmt.Fprintf(sb, " %s=%v", a.Key, a.Value.Resolve())
}
