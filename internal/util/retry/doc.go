// Package retry provides backoff retry and bounded polling for transient
// failures.
//
// [WithExponentialBackoff] retries an operation with configurable max
// attempts, initial delay, and maximum delay. [Poll] repeats an operation at
// a fixed interval until it succeeds or a deadline passes; it backs the
// configuration-read loop of the configure phase, where the remote system
// needs time to materialize a cloned machine's config file.
package retry
