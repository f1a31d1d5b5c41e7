package proxmox

import (
	"context"
	"errors"
	"testing"
)

func TestCloneBeforeConnect(t *testing.T) {
	t.Parallel()

	s := NewRealSession(Options{Node: "pve"})
	_, err := s.Clone(context.Background(), 100, "WoW1", "local-lvm", "raw")
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestListIdentitiesBeforeConnect(t *testing.T) {
	t.Parallel()

	s := NewRealSession(Options{Node: "pve"})
	_, err := s.ListIdentities(context.Background())
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestConfigPath(t *testing.T) {
	t.Parallel()

	got := configPath(108)
	want := "/etc/pve/qemu-server/108.conf"
	if got != want {
		t.Errorf("configPath(108) = %q, want %q", got, want)
	}
}
