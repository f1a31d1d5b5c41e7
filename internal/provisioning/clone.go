package provisioning

import (
	"fmt"
	"time"
)

// ClonePhase creates each queued machine from the configured template.
// Failures are recorded per item; only cancellation or a session that
// cannot connect aborts the phase.
type ClonePhase struct{}

func (p *ClonePhase) Name() string { return "clone" }

func (p *ClonePhase) Provision(ctx *Context) error {
	obs := ctx.Observer.WithFields(map[string]string{"phase": p.Name()})
	LogPhaseStart(obs, p.Name())
	start := time.Now()

	// One session serves the whole phase.
	if err := ctx.Session.Connect(ctx); err != nil {
		return fmt.Errorf("connecting session: %w", err)
	}

	items := ctx.Queue.Snapshot()
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		obs.Progress(p.Name(), i+1, len(items))

		if item.CloneCompleted {
			obs.Event(Event{
				Type:    EventMachineSkipped,
				Phase:   p.Name(),
				Machine: item.Name,
				Message: "already cloned",
			})
			continue
		}

		if err := sleepCtx(ctx, ctx.Timeouts.PreClone); err != nil {
			return err
		}

		obs.Event(Event{
			Type:    EventMachineCloning,
			Phase:   p.Name(),
			Machine: item.Name,
			Message: fmt.Sprintf("cloning template %d", ctx.Config.Template.VMID),
			Fields: map[string]string{
				"storage": item.Storage,
				"format":  item.Format,
			},
		})

		vmid, err := ctx.Session.Clone(ctx, ctx.Config.Template.VMID, item.Name, item.Storage, item.Format)
		if err != nil {
			ctx.State.Errors[item.Name] = err
			LogMachineFailed(obs, p.Name(), item.Name, err)
			continue
		}

		ctx.Queue.MarkCloned(item.Name, vmid)
		delete(ctx.State.Errors, item.Name)
		obs.Event(Event{
			Type:    EventMachineCloned,
			Phase:   p.Name(),
			Machine: item.Name,
			Message: fmt.Sprintf("cloned as %d", vmid),
		})

		if err := sleepCtx(ctx, ctx.Timeouts.PostClone); err != nil {
			return err
		}
	}

	LogPhaseComplete(obs, p.Name(), time.Since(start))
	return nil
}
