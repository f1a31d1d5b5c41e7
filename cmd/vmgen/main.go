// Package main is the entry point for the vmgen CLI.
//
// vmgen clones virtual machines from a Proxmox VE template and rewrites
// each clone's configuration with a fresh hardware identity: MAC address,
// disk serial, SMBIOS tables, network bridge, and VNC port.
//
// Commands: init, provision, name, version.
//
// For detailed usage information, run:
//
//	vmgen --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Stormsil/VMGenerator/cmd/vmgen/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	// Ctrl-C cancels the run at the next checkpoint.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
