// Package ssh provides an SSH client for reading and writing files on the
// hypervisor host.
//
// It backs the configure phase's access to qemu-server configuration files,
// where the Proxmox API offers no raw-text endpoint. The client supports
// key-based and password authentication with retry-backed connection
// establishment.
package ssh
