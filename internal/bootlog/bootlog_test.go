package bootlog

import (
	"log/slog"
	"regexp"
	"strings"
	"testing"
)

var timestampRe = regexp.MustCompile(`^\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}\.\d{6}$`)

func TestNowFormat(t *testing.T) {
	got := Now()
	if !timestampRe.MatchString(got) {
		t.Fatalf("Now() = %q, want YYYY/MM/DD HH:MM:SS.ffffff", got)
	}
}

func TestLoggerPrefixesTimestamp(t *testing.T) {
	var sb strings.Builder
	log := New(&sb, slog.LevelInfo)

	log.Info("network configured", "iface", "eth0")

	line := strings.TrimSuffix(sb.String(), "\n")
	fields := strings.SplitN(line, " ", 3)
	if len(fields) != 3 {
		t.Fatalf("log line %q has %d fields, want 3", line, len(fields))
	}
	if !timestampRe.MatchString(fields[0] + " " + fields[1]) {
		t.Errorf("timestamp prefix %q does not match", fields[0]+" "+fields[1])
	}
	if fields[2] != "INFO network configured iface=eth0" {
		t.Errorf("log payload = %q", fields[2])
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var sb strings.Builder
	log := New(&sb, slog.LevelInfo)

	log.Debug("hidden")
	if sb.Len() != 0 {
		t.Fatalf("debug record was not suppressed: %q", sb.String())
	}

	log.Warn("shown")
	if !strings.Contains(sb.String(), "WARN shown") {
		t.Fatalf("warn record missing from %q", sb.String())
	}
}

func TestLoggerWithAttrs(t *testing.T) {
	var sb strings.Builder
	log := New(&sb, slog.LevelInfo).With("phase", "mount")

	log.Info("done", "entries", 2)
	if !strings.Contains(sb.String(), "done phase=mount entries=2") {
		t.Fatalf("attrs missing from %q", sb.String())
	}
}
