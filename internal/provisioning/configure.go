package provisioning

import (
	"fmt"
	"strings"
	"time"

	"github.com/Stormsil/VMGenerator/internal/util/retry"
)

// ConfigurePhase rewrites the configuration of every cloned but not yet
// configured machine. Items without a machine id get a best-effort
// name lookup first; items that still lack one are skipped with a
// warning rather than failing the run.
type ConfigurePhase struct{}

func (p *ConfigurePhase) Name() string { return "configure" }

func (p *ConfigurePhase) Provision(ctx *Context) error {
	obs := ctx.Observer.WithFields(map[string]string{"phase": p.Name()})
	LogPhaseStart(obs, p.Name())
	start := time.Now()

	if err := p.resolveMissingIDs(ctx, obs); err != nil {
		return err
	}

	items := ctx.Queue.Snapshot()
	pending := 0
	for _, item := range items {
		if item.CloneCompleted && !item.Configured {
			pending++
		}
	}

	done := 0
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !item.CloneCompleted || item.Configured {
			continue
		}
		done++
		obs.Progress(p.Name(), done, pending)

		if item.VMID == 0 {
			LogWarning(obs, p.Name(), item.Name, "no machine id; skipping")
			continue
		}

		if err := p.configureOne(ctx, obs, item); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			ctx.State.Errors[item.Name] = err
			LogMachineFailed(obs, p.Name(), item.Name, err)
			continue
		}

		if err := sleepCtx(ctx, ctx.Timeouts.PostConfigure); err != nil {
			return err
		}
	}

	LogPhaseComplete(obs, p.Name(), time.Since(start))
	return nil
}

// resolveMissingIDs fills in machine ids for items cloned in a previous
// run whose id was lost. Lookup failures are warnings, not errors.
func (p *ConfigurePhase) resolveMissingIDs(ctx *Context, obs Observer) error {
	needed := false
	for _, item := range ctx.Queue.Snapshot() {
		if item.CloneCompleted && !item.Configured && item.VMID == 0 {
			needed = true
			break
		}
	}
	if !needed {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	identities, err := ctx.Session.ListIdentities(ctx)
	if err != nil {
		LogWarning(obs, p.Name(), "", fmt.Sprintf("identity listing failed: %v", err))
		return nil
	}

	for _, item := range ctx.Queue.Snapshot() {
		if !item.CloneCompleted || item.Configured || item.VMID != 0 {
			continue
		}
		for _, id := range identities {
			if strings.EqualFold(id.Name, item.Name) {
				ctx.Queue.SetVMID(item.Name, id.ID)
				obs.Printf("[%s] resolved %s to id %d", p.Name(), item.Name, id.ID)
				break
			}
		}
	}
	return nil
}

func (p *ConfigurePhase) configureOne(ctx *Context, obs Observer, item WorkItem) error {
	obs.Event(Event{
		Type:    EventMachineConfiguring,
		Phase:   p.Name(),
		Machine: item.Name,
		Message: fmt.Sprintf("configuring id %d", item.VMID),
	})

	raw, err := p.awaitConfig(ctx, item.VMID)
	if err != nil {
		return fmt.Errorf("reading config of %d: %w", item.VMID, err)
	}

	result, err := ctx.Patcher.BuildPatch(ctx, raw, item.Name)
	if err != nil {
		return fmt.Errorf("patching config of %d: %w", item.VMID, err)
	}

	if err := ctx.Session.WriteConfig(ctx, item.VMID, result.Patched); err != nil {
		return fmt.Errorf("writing config of %d: %w", item.VMID, err)
	}

	// Only an acknowledged write-back counts as configured.
	ctx.Queue.MarkConfigured(item.Name)
	delete(ctx.State.Errors, item.Name)
	ctx.State.IPs[item.Name] = result.AssignedIP

	obs.Event(Event{
		Type:    EventMachineConfigured,
		Phase:   p.Name(),
		Machine: item.Name,
		Message: fmt.Sprintf("configured, ip %s", result.AssignedIP),
	})
	if ctx.Report != nil {
		ctx.Report(item.Name, result.Changes)
	}

	p.updateSessionFile(ctx, obs, item.Name, result.AssignedIP)
	return nil
}

// awaitConfig polls until the machine's config file has materialized.
// Reads shorter than the configured minimum are treated as not ready,
// and the remote context is re-primed between attempts.
func (p *ConfigurePhase) awaitConfig(ctx *Context, vmid int) (string, error) {
	var raw string
	err := retry.Poll(ctx, ctx.Timeouts.ConfigPoll, ctx.Timeouts.PollInterval, func() error {
		text, err := ctx.Session.ReadConfig(ctx, vmid)
		if err == nil && len(text) >= ctx.Timeouts.MinConfigBytes {
			raw = text
			return nil
		}
		if primeErr := ctx.Session.Prime(ctx); primeErr != nil {
			ctx.Observer.Printf("[configure] re-prime failed: %v", primeErr)
		}
		if err != nil {
			return err
		}
		return fmt.Errorf("config not materialized (%d bytes)", len(text))
	})
	return raw, err
}

// updateSessionFile repoints the machine's local session file at its new
// address. Best-effort: failures are logged and never fail the item.
func (p *ConfigurePhase) updateSessionFile(ctx *Context, obs Observer, name, ip string) {
	if ctx.Updater == nil || ip == "" {
		return
	}
	changed, err := ctx.Updater.Apply(name, ip)
	switch {
	case err != nil:
		LogWarning(obs, p.Name(), name, fmt.Sprintf("session file update failed: %v", err))
	case changed:
		obs.Printf("[%s] session file for %s now points at %s", p.Name(), name, ip)
	default:
		obs.Printf("[%s] session file for %s already current", p.Name(), name)
	}
}
