package provisioning

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Stormsil/VMGenerator/internal/platform/proxmox"
	"github.com/Stormsil/VMGenerator/internal/util/naming"
)

// Status classifies how a run ended.
type Status string

const (
	// StatusSuccess means both phases ran to completion; individual
	// items may still have failed.
	StatusSuccess Status = "success"
	// StatusCancelled means the run was aborted at a checkpoint.
	StatusCancelled Status = "cancelled"
	// StatusError means the run could not proceed at all.
	StatusError Status = "error"
)

// ItemOutcome is one item's final state after a run.
type ItemOutcome struct {
	Name       string
	VMID       int
	Configured bool
	IP         string
	Err        error
}

// RunOutcome aggregates a finished run.
type RunOutcome struct {
	Status Status
	Err    error
	Items  []ItemOutcome

	// Command is the follow-up shell invocation listing every configured
	// machine id; empty when nothing was configured.
	Command string
}

// Run executes the clone phase over all items, then the configure phase
// over all cloned-but-unconfigured items. Per-item failures are caught
// and logged; only cancellation or a dead session ends the run early.
func Run(ctx *Context) *RunOutcome {
	err := RunPhases(ctx, []Phase{&ClonePhase{}, &ConfigurePhase{}})

	outcome := &RunOutcome{Status: StatusSuccess}
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		outcome.Status = StatusCancelled
		outcome.Err = err
	case err != nil:
		outcome.Status = StatusError
		outcome.Err = err
	}

	var configuredIDs []int
	for _, item := range ctx.Queue.Snapshot() {
		outcome.Items = append(outcome.Items, ItemOutcome{
			Name:       item.Name,
			VMID:       item.VMID,
			Configured: item.Configured,
			IP:         ctx.State.IPs[item.Name],
			Err:        ctx.State.Errors[item.Name],
		})
		if item.Configured {
			configuredIDs = append(configuredIDs, item.VMID)
		}
	}

	if outcome.Status == StatusSuccess {
		outcome.Command = BuildCommand(configuredIDs)
	}
	return outcome
}

// GenerateNextName derives a free machine name from the queue and the
// identities currently known remotely. The queue is not modified.
func GenerateNextName(prefix string, queue *Queue, identities []proxmox.Identity) string {
	remoteIDs := make([]int, 0, len(identities))
	remoteNames := make([]string, 0, len(identities))
	for _, id := range identities {
		remoteIDs = append(remoteIDs, id.ID)
		remoteNames = append(remoteNames, id.Name)
	}
	snap := naming.NewSnapshot(remoteIDs, remoteNames, queue.Names())
	return naming.NextName(prefix, snap)
}

// BuildCommand renders the post-provisioning shell invocation for the
// given machine ids. Empty input yields an empty string.
func BuildCommand(ids []int) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return "./start_and_key " + strings.Join(parts, " ")
}
