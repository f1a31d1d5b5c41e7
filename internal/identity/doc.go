// Package identity supplies fresh identity values for cloned machines:
// MAC addresses, disk serial numbers, and the QEMU argument block carrying
// randomized SMBIOS hardware data.
//
// Two implementations exist behind the [Source] interface: [Generator], an
// in-process pseudo-random implementation, and [ExecSource], which shells out
// to external one-shot generator commands and reads their stdout.
package identity
