package provisioning

import (
	"context"

	"github.com/Stormsil/VMGenerator/internal/patcher"
)

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the phase over the queue. It returns an error
	// only for run-fatal conditions (cancellation, or a session that
	// cannot be established); per-item failures are recorded in the run
	// state and the phase continues.
	Provision(ctx *Context) error
}

// ConfigPatcher rewrites a machine's raw configuration text.
// Implemented by patcher.Patcher.
type ConfigPatcher interface {
	BuildPatch(ctx context.Context, rawConfig, machineName string) (*patcher.Result, error)
}

// FileUpdater repoints a local per-machine session file at a new address.
// Implemented by nomachine.Updater. Failures are best-effort: the caller
// logs and continues.
type FileUpdater interface {
	Apply(machineName, newIP string) (changed bool, err error)
}
