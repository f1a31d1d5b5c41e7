package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
)

// RunWizard walks the user through the connection and clone settings and
// returns a validated configuration. Defaults come from [Default] or, when
// non-nil, from an existing configuration being edited.
func RunWizard(ctx context.Context, existing *Config) (*Config, error) {
	cfg := Default()
	if existing != nil {
		cfg = existing
	}

	vmidStr := strconv.Itoa(cfg.Template.VMID)

	form := huh.NewForm(
		// Hypervisor connection
		huh.NewGroup(
			huh.NewInput().
				Title("API URL").
				Description("Proxmox VE endpoint, e.g. https://host:8006/api2/json").
				Value(&cfg.Proxmox.URL).
				Validate(validateURL),

			huh.NewInput().
				Title("API user").
				Description("Includes the realm, e.g. root@pam").
				Value(&cfg.Proxmox.User).
				Validate(required("api user")),

			huh.NewInput().
				Title("API password").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.Proxmox.Password).
				Validate(required("api password")),

			huh.NewInput().
				Title("Node").
				Description("Cluster node hosting the template").
				Value(&cfg.Proxmox.Node).
				Validate(required("node")),

			huh.NewConfirm().
				Title("Skip TLS verification?").
				Description("Required for the self-signed certs standalone hosts ship with").
				Value(&cfg.Proxmox.InsecureTLS),
		),

		// File channel
		huh.NewGroup(
			huh.NewInput().
				Title("SSH host").
				Description("Node address for config file access; empty reuses the API host").
				Value(&cfg.SSH.Host),

			huh.NewInput().
				Title("SSH user").
				Value(&cfg.SSH.User),

			huh.NewInput().
				Title("SSH key path (optional)").
				Placeholder("~/.ssh/id_ed25519").
				Value(&cfg.SSH.KeyPath),

			huh.NewInput().
				Title("SSH password (optional)").
				Description("Used when no key path is set").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.SSH.Password),
		),

		// Clone source and target
		huh.NewGroup(
			huh.NewInput().
				Title("Template VMID").
				Value(&vmidStr).
				Validate(validateVMID),

			huh.NewSelect[string]().
				Title("Default storage").
				OptionsFunc(func() []huh.Option[string] {
					return stringOptions(cfg.Storage.Options)
				}, &cfg.Storage.Default).
				Value(&cfg.Storage.Default),

			huh.NewSelect[string]().
				Title("Default disk format").
				Options(
					huh.NewOption("Raw disk image (raw)", "raw"),
					huh.NewOption("QEMU image format (qcow2)", "qcow2"),
				).
				Value(&cfg.Format.Default),
		),

		// Optional extras
		huh.NewGroup(
			huh.NewInput().
				Title("Session file directory (optional)").
				Description("NoMachine .nxs files to repoint after provisioning. Leave empty to skip.").
				Value(&cfg.NoMachine.Dir),

			huh.NewConfirm().
				Title("Enable debug logging?").
				Value(&cfg.Debug),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	cfg.Template.VMID, _ = strconv.Atoi(vmidStr)
	if cfg.SSH.Host == "" {
		cfg.SSH.Host = hostFromURL(cfg.Proxmox.URL)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func stringOptions(values []string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(values))
	for _, v := range values {
		opts = append(opts, huh.NewOption(v, v))
	}
	return opts
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func validateURL(s string) error {
	if s == "" {
		return fmt.Errorf("api url is required")
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return fmt.Errorf("api url must start with http:// or https://")
	}
	return nil
}

func validateVMID(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("vmid must be a positive number")
	}
	return nil
}
