package commands

import (
	"github.com/spf13/cobra"

	"github.com/Stormsil/VMGenerator/cmd/vmgen/handlers"
)

// Provision returns the command that clones and configures machines.
//
// Machines are either named explicitly as arguments or auto-named with
// --count. Each machine is cloned from the configured template, then its
// configuration is rewritten with a fresh hardware identity.
//
// Flags:
//
//	--config, -c: Path to configuration YAML file (default: vmgen.yaml)
//	--count, -n: Number of auto-named machines to provision
//	--storage, -s: Storage pool override for this run
//	--format, -f: Disk format override for this run
func Provision() *cobra.Command {
	var (
		configPath string
		count      int
		storage    string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "provision [name...]",
		Short: "Clone machines from the template and rewrite their identities",
		Long: `Clone machines from the template and rewrite their identities.

Every machine gets a fresh MAC address, disk serial, SMBIOS hardware
tables, a network bridge derived from its name, and a matching VNC port.
Failures are isolated per machine: the run continues past a machine that
could not be cloned or configured, and Ctrl-C stops at the next safe
point.

Examples:
  # Provision two explicitly named machines
  vmgen provision WoW8 WoW9

  # Provision three machines with auto-generated names
  vmgen provision -n 3

  # Use a specific storage pool and disk format
  vmgen provision -n 1 -s data -f qcow2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Provision(cmd.Context(), handlers.ProvisionRequest{
				ConfigPath: configPath,
				Names:      args,
				Count:      count,
				Storage:    storage,
				Format:     format,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "vmgen.yaml", "Path to configuration file")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of auto-named machines to provision")
	cmd.Flags().StringVarP(&storage, "storage", "s", "", "Storage pool (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Disk format (default from config)")

	return cmd
}

// Name returns the command that prints the next free machine name.
func Name() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "name",
		Short: "Print the next free machine name",
		Long: `Print the next free machine name.

The name is derived by scanning upward from 1 for a suffix whose name
and derived machine id are both unused, checked against the machines
the hypervisor currently knows about.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.NextName(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "vmgen.yaml", "Path to configuration file")

	return cmd
}
