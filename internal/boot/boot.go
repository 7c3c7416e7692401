// Package boot sequences the guest bootstrap: receive the configuration
// payload, validate it, configure the network, apply the mount table. The
// pipeline is one-shot and strictly linear; the first failure aborts
// everything that follows.
package boot

import (
	"fmt"
	"log/slog"

	"github.com/tinyrange/guestboot/internal/document"
	"github.com/tinyrange/guestboot/internal/mountseq"
	"github.com/tinyrange/guestboot/internal/netcfg"
)

// State is a phase of the bootstrap pipeline.
type State int

const (
	Idle State = iota
	Receiving
	Validating
	ConfiguringNetwork
	Mounting
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Receiving:
		return "receiving"
	case Validating:
		return "validating"
	case ConfiguringNetwork:
		return "configuring-network"
	case Mounting:
		return "mounting"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Receiver delivers the configuration payload to a destination path.
type Receiver interface {
	Receive(destPath string) error
}

// Pipeline holds the collaborators for one bootstrap run. It is one-shot:
// Run may be called once, and no state is ever re-entered.
type Pipeline struct {
	Receiver Receiver
	Net      netcfg.NetworkAdmin
	Mount    mountseq.MountAdmin
	Iface    string
	Log      *slog.Logger

	state State
}

// State reports the pipeline's current phase; after Run it is Done or
// Failed.
func (p *Pipeline) State() State { return p.state }

// Run drives the pipeline to Done or Failed. The returned error is the
// first component failure, already logged with the phase it occurred in.
func (p *Pipeline) Run(destPath string) error {
	if p.state != Idle {
		return fmt.Errorf("pipeline already ran (state %s)", p.state)
	}

	p.enter(Receiving)
	if err := p.Receiver.Receive(destPath); err != nil {
		return p.fail(err)
	}

	p.enter(Validating)
	if err := document.Validate(destPath); err != nil {
		return p.fail(err)
	}
	cfg, err := document.Load(destPath)
	if err != nil {
		return p.fail(err)
	}

	p.enter(ConfiguringNetwork)
	if err := netcfg.Configure(cfg, p.Net, p.Iface, p.Log); err != nil {
		return p.fail(err)
	}

	p.enter(Mounting)
	if err := mountseq.Apply(cfg, p.Mount, p.Log); err != nil {
		return p.fail(err)
	}

	p.state = Done
	p.Log.Info("bootstrap complete")
	return nil
}

func (p *Pipeline) enter(s State) {
	p.state = s
	p.Log.Debug("entering state", "state", s.String())
}

func (p *Pipeline) fail(err error) error {
	p.Log.Error("bootstrap failed", "state", p.state.String(), "err", err)
	p.state = Failed
	return err
}
