// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic
// and can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/Stormsil/VMGenerator/internal/config"
	"github.com/Stormsil/VMGenerator/internal/identity"
	"github.com/Stormsil/VMGenerator/internal/nomachine"
	"github.com/Stormsil/VMGenerator/internal/patcher"
	"github.com/Stormsil/VMGenerator/internal/platform/proxmox"
	"github.com/Stormsil/VMGenerator/internal/platform/ssh"
	"github.com/Stormsil/VMGenerator/internal/provisioning"
	"github.com/Stormsil/VMGenerator/internal/ui"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file.
	loadConfigFile = config.LoadFile

	// newSession creates the hypervisor session.
	newSession = func(cfg *config.Config) (proxmox.Session, error) {
		sshCfg := &ssh.Config{
			Host:     cfg.SSH.Host,
			Port:     cfg.SSH.Port,
			User:     cfg.SSH.User,
			Password: cfg.SSH.Password,
		}
		if cfg.SSH.KeyPath != "" {
			key, err := os.ReadFile(cfg.SSH.KeyPath)
			if err != nil {
				return nil, fmt.Errorf("reading ssh key: %w", err)
			}
			sshCfg.PrivateKey = key
		}
		files, err := ssh.NewClient(sshCfg)
		if err != nil {
			return nil, fmt.Errorf("building file channel: %w", err)
		}

		return proxmox.NewRealSession(proxmox.Options{
			APIURL:      cfg.Proxmox.URL,
			User:        cfg.Proxmox.User,
			Password:    cfg.Proxmox.Password,
			Node:        cfg.Proxmox.Node,
			InsecureTLS: cfg.Proxmox.InsecureTLS,
			Files:       files,
		}), nil
	}

	// newSource creates the identity value source.
	newSource = func(cfg *config.Config) identity.Source {
		g := cfg.Generator
		if g.MacCommand != "" || g.SerialCommand != "" || g.ArgsCommand != "" {
			return &identity.ExecSource{
				MacCommand:    g.MacCommand,
				SerialCommand: g.SerialCommand,
				ArgsCommand:   g.ArgsCommand,
			}
		}
		return identity.NewGenerator()
	}

	// runProvisioning executes the provisioning run.
	runProvisioning = provisioning.Run
)

// ProvisionRequest carries the provision command's inputs.
type ProvisionRequest struct {
	ConfigPath string
	Names      []string
	Count      int
	Storage    string
	Format     string
}

// Provision clones the requested machines from the template and rewrites
// their configurations. It returns an error when the run was cancelled,
// could not start, or left any machine unconfigured.
func Provision(ctx context.Context, req ProvisionRequest) error {
	if len(req.Names) == 0 && req.Count <= 0 {
		return fmt.Errorf("nothing to do: name machines explicitly or pass --count")
	}

	cfg, err := loadConfigFile(req.ConfigPath)
	if err != nil {
		return err
	}

	storage, format, err := resolveTargets(cfg, req.Storage, req.Format)
	if err != nil {
		return err
	}

	session, err := newSession(cfg)
	if err != nil {
		return err
	}

	queue := provisioning.NewQueue()
	for _, name := range req.Names {
		if err := queue.Add(provisioning.WorkItem{Name: name, Storage: storage, Format: format}); err != nil {
			return err
		}
	}
	if req.Count > 0 {
		if err := autoName(ctx, cfg, session, queue, req.Count, storage, format); err != nil {
			return err
		}
	}

	source := newSource(cfg)
	pctx := provisioning.NewContext(ctx, cfg, queue, session, patcher.New(source))
	if cfg.NoMachine.Dir != "" {
		pctx.Updater = &nomachine.Updater{Dir: cfg.NoMachine.Dir}
	}

	renderer := ui.NewRenderer()
	pctx.Report = func(machine string, changes []patcher.Change) {
		fmt.Print(renderer.ChangeTable(machine, changes))
	}

	outcome := runProvisioning(pctx)
	printOutcome(renderer, outcome)

	switch outcome.Status {
	case provisioning.StatusCancelled:
		return fmt.Errorf("run cancelled")
	case provisioning.StatusError:
		return outcome.Err
	}
	for _, item := range outcome.Items {
		if !item.Configured {
			return fmt.Errorf("not all machines were configured")
		}
	}
	return nil
}

// NextName prints the next free machine name.
func NextName(ctx context.Context, configPath string) error {
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}

	session, err := newSession(cfg)
	if err != nil {
		return err
	}
	if err := session.Connect(ctx); err != nil {
		return err
	}
	identities, err := session.ListIdentities(ctx)
	if err != nil {
		return err
	}

	fmt.Println(provisioning.GenerateNextName(cfg.Naming.Prefix, provisioning.NewQueue(), identities))
	return nil
}

// autoName connects early to learn the identities already taken remotely,
// then queues count machines with generated names.
func autoName(ctx context.Context, cfg *config.Config, session proxmox.Session, queue *provisioning.Queue, count int, storage, format string) error {
	if err := session.Connect(ctx); err != nil {
		return fmt.Errorf("connecting for name generation: %w", err)
	}
	identities, err := session.ListIdentities(ctx)
	if err != nil {
		return fmt.Errorf("listing machines for name generation: %w", err)
	}

	for i := 0; i < count; i++ {
		name := provisioning.GenerateNextName(cfg.Naming.Prefix, queue, identities)
		if err := queue.Add(provisioning.WorkItem{Name: name, Storage: storage, Format: format}); err != nil {
			return err
		}
	}
	return nil
}

// resolveTargets applies config defaults and validates the storage pool
// and disk format against the configured options.
func resolveTargets(cfg *config.Config, storage, format string) (string, string, error) {
	if storage == "" {
		storage = cfg.Storage.Default
	}
	if format == "" {
		format = cfg.Format.Default
	}
	if !slices.Contains(cfg.Storage.Options, storage) {
		return "", "", fmt.Errorf("storage %q is not among configured options %v", storage, cfg.Storage.Options)
	}
	if !slices.Contains(cfg.Format.Options, format) {
		return "", "", fmt.Errorf("format %q is not among configured options %v", format, cfg.Format.Options)
	}
	return storage, format, nil
}

func printOutcome(renderer *ui.Renderer, outcome *provisioning.RunOutcome) {
	results := make([]ui.ItemResult, 0, len(outcome.Items))
	for _, item := range outcome.Items {
		err := item.Err
		if err == nil && !item.Configured {
			err = fmt.Errorf("not configured")
		}
		results = append(results, ui.ItemResult{Name: item.Name, VMID: item.VMID, Err: err})
	}
	fmt.Print(renderer.Summary(results))
	if outcome.Command != "" {
		fmt.Print(renderer.Command(outcome.Command))
	}
}
