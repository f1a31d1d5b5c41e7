// Package provisioning sequences the clone and configure phases of a
// machine provisioning run.
//
// A run walks the WorkItem queue twice: the clone phase creates each
// machine from the template, the configure phase reads its raw
// configuration, rewrites the identity-bearing fields, and writes it
// back. Failures are isolated per item; only cancellation aborts a run.
//
// This root package contains the queue, the shared run context, the
// phase pipeline, and the observability types used across phases.
package provisioning
