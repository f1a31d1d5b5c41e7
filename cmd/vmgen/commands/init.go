package commands

import (
	"github.com/spf13/cobra"

	"github.com/Stormsil/VMGenerator/cmd/vmgen/handlers"
)

// Init returns the command for interactively creating a configuration file.
//
// Flags:
//
//	--output, -o: Path to output file (default "vmgen.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a configuration file",
		Long: `Interactively create a configuration file.

This command walks you through the settings a provisioning run needs:

  - Proxmox VE API endpoint and credentials
  - SSH access for raw config file reads and writes
  - The template machine that clones are made from
  - Storage pool and disk format defaults
  - Optional NoMachine session file directory

An existing file at the output path is loaded first, so re-running init
edits the current values instead of starting over.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "vmgen.yaml", "Output file path")

	return cmd
}
