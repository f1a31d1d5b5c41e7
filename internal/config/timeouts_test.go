package config

import (
	"os"
	"testing"
	"time"
)

var timeoutEnvVars = []string{
	"VMGEN_DELAY_PRE_CLONE",
	"VMGEN_DELAY_POST_CLONE",
	"VMGEN_DELAY_POST_CONFIGURE",
	"VMGEN_DELAY_INTER_PHASE",
	"VMGEN_TIMEOUT_CONFIG_POLL",
	"VMGEN_POLL_INTERVAL",
	"VMGEN_MIN_CONFIG_BYTES",
	"VMGEN_RETRY_MAX_ATTEMPTS",
	"VMGEN_RETRY_INITIAL_DELAY",
}

func clearTimeoutEnvVars() {
	for _, v := range timeoutEnvVars {
		os.Unsetenv(v)
	}
}

func TestLoadTimeouts_Defaults(t *testing.T) {
	clearTimeoutEnvVars()

	timeouts := LoadTimeouts()

	if timeouts.PreClone != 700*time.Millisecond {
		t.Errorf("Expected PreClone default 700ms, got %v", timeouts.PreClone)
	}
	if timeouts.PostClone != 800*time.Millisecond {
		t.Errorf("Expected PostClone default 800ms, got %v", timeouts.PostClone)
	}
	if timeouts.PostConfigure != 500*time.Millisecond {
		t.Errorf("Expected PostConfigure default 500ms, got %v", timeouts.PostConfigure)
	}
	if timeouts.InterPhase != 5*time.Second {
		t.Errorf("Expected InterPhase default 5s, got %v", timeouts.InterPhase)
	}
	if timeouts.ConfigPoll != 30*time.Second {
		t.Errorf("Expected ConfigPoll default 30s, got %v", timeouts.ConfigPoll)
	}
	if timeouts.PollInterval != 2*time.Second {
		t.Errorf("Expected PollInterval default 2s, got %v", timeouts.PollInterval)
	}
	if timeouts.MinConfigBytes != 50 {
		t.Errorf("Expected MinConfigBytes default 50, got %d", timeouts.MinConfigBytes)
	}
	if timeouts.RetryMaxAttempts != 5 {
		t.Errorf("Expected RetryMaxAttempts default 5, got %d", timeouts.RetryMaxAttempts)
	}
	if timeouts.RetryInitialDelay != 1*time.Second {
		t.Errorf("Expected RetryInitialDelay default 1s, got %v", timeouts.RetryInitialDelay)
	}
}

func TestLoadTimeouts_EnvironmentOverrides(t *testing.T) {
	clearTimeoutEnvVars()
	t.Setenv("VMGEN_DELAY_PRE_CLONE", "1s")
	t.Setenv("VMGEN_TIMEOUT_CONFIG_POLL", "90s")
	t.Setenv("VMGEN_MIN_CONFIG_BYTES", "120")
	t.Setenv("VMGEN_RETRY_MAX_ATTEMPTS", "3")

	timeouts := LoadTimeouts()

	if timeouts.PreClone != 1*time.Second {
		t.Errorf("Expected PreClone 1s, got %v", timeouts.PreClone)
	}
	if timeouts.ConfigPoll != 90*time.Second {
		t.Errorf("Expected ConfigPoll 90s, got %v", timeouts.ConfigPoll)
	}
	if timeouts.MinConfigBytes != 120 {
		t.Errorf("Expected MinConfigBytes 120, got %d", timeouts.MinConfigBytes)
	}
	if timeouts.RetryMaxAttempts != 3 {
		t.Errorf("Expected RetryMaxAttempts 3, got %d", timeouts.RetryMaxAttempts)
	}
	// Untouched values keep their defaults.
	if timeouts.PostClone != 800*time.Millisecond {
		t.Errorf("Expected PostClone default 800ms, got %v", timeouts.PostClone)
	}
}

func TestLoadTimeouts_InvalidValuesFallBack(t *testing.T) {
	clearTimeoutEnvVars()
	t.Setenv("VMGEN_DELAY_INTER_PHASE", "soon")
	t.Setenv("VMGEN_MIN_CONFIG_BYTES", "many")

	timeouts := LoadTimeouts()

	if timeouts.InterPhase != 5*time.Second {
		t.Errorf("Expected InterPhase fallback 5s, got %v", timeouts.InterPhase)
	}
	if timeouts.MinConfigBytes != 50 {
		t.Errorf("Expected MinConfigBytes fallback 50, got %d", timeouts.MinConfigBytes)
	}
}
