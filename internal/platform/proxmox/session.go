package proxmox

import (
	"context"
	"errors"
)

// Identity pairs a machine id with its name, as listed by the hypervisor.
type Identity struct {
	ID   int
	Name string
}

// ErrNotConnected is returned by session calls made before Connect.
var ErrNotConnected = errors.New("session not connected")

// Session drives the remote hypervisor manager. All calls are cancellable
// through their context and may legitimately fail or time out; callers treat
// every failure as recoverable at the per-item level.
//
// A Session tracks one remote context at a time and must not be shared
// between concurrent provisioning runs.
type Session interface {
	// Connect establishes and verifies the remote session.
	Connect(ctx context.Context) error

	// Clone creates a new machine from the template, returning its id.
	Clone(ctx context.Context, templateID int, name, storage, format string) (int, error)

	// ListIdentities returns the ids and names currently known remotely.
	ListIdentities(ctx context.Context) ([]Identity, error)

	// ReadConfig returns the machine's raw configuration text.
	ReadConfig(ctx context.Context, vmid int) (string, error)

	// WriteConfig replaces the machine's raw configuration text.
	WriteConfig(ctx context.Context, vmid int, text string) error

	// Prime refreshes the remote context so a subsequent read sees current
	// state; used between attempts of the configure phase's poll loop.
	Prime(ctx context.Context) error
}
