// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated
// to handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the vmgen CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vmgen",
		Short: "Clone Proxmox machines and give each a fresh hardware identity",
	}

	cmd.AddCommand(Init())
	cmd.AddCommand(Provision())
	cmd.AddCommand(Name())
	cmd.AddCommand(Version())

	return cmd
}
