// Package proxmox provides the session driver for the hypervisor manager.
//
// The Session interface is the seam the orchestrator is written against; it
// covers connecting, cloning from a template, listing known machine
// identities, and reading/writing a machine's raw configuration text. The
// real implementation talks to the Proxmox VE API for machine operations and
// reaches the qemu-server config files over SSH, since the API exposes no
// raw-text config endpoint. Tests substitute a mock session.
package proxmox
