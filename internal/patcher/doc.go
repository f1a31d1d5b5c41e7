// Package patcher rewrites a machine's raw line-oriented configuration to
// assign fresh identity values: MAC address, disk serial, network bridge,
// VNC listen port and SMBIOS-carried IP address.
//
// [Patcher.BuildPatch] is all-or-nothing: it either returns a complete
// [Result] with the patched text and a per-field change set, or a single
// error. It never produces a partially rewritten configuration.
package patcher
