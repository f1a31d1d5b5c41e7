package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timing values for a provisioning run.
// These values can be customized via environment variables.
type Timeouts struct {
	PreClone      time.Duration // Settle delay before each clone request
	PostClone     time.Duration // Settle delay after each completed clone
	PostConfigure time.Duration // Settle delay after each configured machine
	InterPhase    time.Duration // Pause between the clone and configure phases

	ConfigPoll     time.Duration // Overall deadline for a machine's config to appear
	PollInterval   time.Duration // Interval between config read attempts
	MinConfigBytes int           // Shorter reads are treated as not-yet-materialized

	RetryMaxAttempts  int           // Maximum number of retry attempts
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timing configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - VMGEN_DELAY_PRE_CLONE (default: 700ms)
//   - VMGEN_DELAY_POST_CLONE (default: 800ms)
//   - VMGEN_DELAY_POST_CONFIGURE (default: 500ms)
//   - VMGEN_DELAY_INTER_PHASE (default: 5s)
//   - VMGEN_TIMEOUT_CONFIG_POLL (default: 30s)
//   - VMGEN_POLL_INTERVAL (default: 2s)
//   - VMGEN_MIN_CONFIG_BYTES (default: 50)
//   - VMGEN_RETRY_MAX_ATTEMPTS (default: 5)
//   - VMGEN_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		PreClone:          parseDuration("VMGEN_DELAY_PRE_CLONE", 700*time.Millisecond),
		PostClone:         parseDuration("VMGEN_DELAY_POST_CLONE", 800*time.Millisecond),
		PostConfigure:     parseDuration("VMGEN_DELAY_POST_CONFIGURE", 500*time.Millisecond),
		InterPhase:        parseDuration("VMGEN_DELAY_INTER_PHASE", 5*time.Second),
		ConfigPoll:        parseDuration("VMGEN_TIMEOUT_CONFIG_POLL", 30*time.Second),
		PollInterval:      parseDuration("VMGEN_POLL_INTERVAL", 2*time.Second),
		MinConfigBytes:    parseInt("VMGEN_MIN_CONFIG_BYTES", 50),
		RetryMaxAttempts:  parseInt("VMGEN_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("VMGEN_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
