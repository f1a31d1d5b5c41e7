package provisioning

import (
	"context"

	"github.com/Stormsil/VMGenerator/internal/config"
	"github.com/Stormsil/VMGenerator/internal/patcher"
	"github.com/Stormsil/VMGenerator/internal/platform/proxmox"
)

// State holds the shared results of a provisioning run. It is
// progressively populated as phases work through the queue. Phases run
// sequentially, so no locking is needed.
type State struct {
	// Errors records the last per-item failure, keyed by item name.
	// An entry is overwritten when a later phase gets further.
	Errors map[string]error

	// IPs records the address assigned to each configured machine.
	IPs map[string]string
}

// NewState creates an empty run state.
func NewState() *State {
	return &State{
		Errors: make(map[string]error),
		IPs:    make(map[string]string),
	}
}

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	Timeouts *config.Timeouts
	Queue    *Queue
	State    *State

	Session proxmox.Session
	Patcher ConfigPatcher

	// Updater is optional; nil disables the local session-file step.
	Updater FileUpdater

	Observer Observer

	// Report, when set, receives each machine's applied changes right
	// after its config write-back is acknowledged.
	Report func(machine string, changes []patcher.Change)
}

// NewContext creates a new provisioning context.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	queue *Queue,
	session proxmox.Session,
	p ConfigPatcher,
) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		Timeouts: config.LoadTimeouts(),
		Queue:    queue,
		State:    NewState(),
		Session:  session,
		Patcher:  p,
		Observer: NewConsoleObserver(),
	}
}
