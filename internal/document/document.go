// Package document parses, validates, and queries the boot configuration
// payload received from the host. The payload is JSON; it is decoded with a
// YAML decoder (JSON is a YAML subset) so malformed documents surface the
// decoder's line/column diagnostics.
package document

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the configuration document for one boot. It is decoded once,
// after Validate has accepted the payload, and never mutated.
type Config struct {
	Netconf NetConfig    `yaml:"netconf" json:"netconf"`
	Mounts  []MountEntry `yaml:"mounts" json:"mounts"`
}

// NetConfig carries the address triple for the primary interface. CIDR is
// the prefix length as an opaque string; it is concatenated onto the
// address, never parsed here.
type NetConfig struct {
	IPAddr  string `yaml:"ipaddr" json:"ipaddr"`
	CIDR    string `yaml:"cidr" json:"cidr"`
	Gateway string `yaml:"gateway" json:"gateway"`
}

// MountEntry describes one filesystem mount. Entry 0 of Config.Mounts is
// the root filesystem, already mounted by the hypervisor before this agent
// runs.
type MountEntry struct {
	Flags      string `yaml:"flags" json:"flags"`
	Device     string `yaml:"dev" json:"dev"`
	MountPoint string `yaml:"mountpoint" json:"mountpoint"`
}

// ValidationError reports a payload that is not a well-formed document.
// Diag carries the decoder's full diagnostic text.
type ValidationError struct {
	Diag string
}

func (e *ValidationError) Error() string {
	return "invalid configuration document: " + e.Diag
}

// Validate parses the file at path and reports whether it is a well-formed
// document. No fields are read until Validate has accepted the payload.
func Validate(path string) error {
	_, err := parse(path)
	return err
}

// Load decodes the document at path into the typed schema in a single pass.
// No defaults are substituted for absent fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ValidationError{Diag: "empty document"}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ValidationError{Diag: err.Error()}
	}
	return &cfg, nil
}

// parse decodes the document into its generic form, for validation and for
// query evaluation. All state is function-local; nothing survives return.
func parse(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ValidationError{Diag: err.Error()}
	}
	if doc == nil {
		return nil, &ValidationError{Diag: "empty document"}
	}
	return doc, nil
}
