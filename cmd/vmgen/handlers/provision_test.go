package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stormsil/VMGenerator/internal/config"
	"github.com/Stormsil/VMGenerator/internal/identity"
	"github.com/Stormsil/VMGenerator/internal/platform/proxmox"
	"github.com/Stormsil/VMGenerator/internal/provisioning"
)

// saveAndRestoreProvisionFactories saves and restores factory functions.
func saveAndRestoreProvisionFactories(t *testing.T) {
	origLoad := loadConfigFile
	origSession := newSession
	origSource := newSource
	origRun := runProvisioning

	t.Cleanup(func() {
		loadConfigFile = origLoad
		newSession = origSession
		newSource = origSource
		runProvisioning = origRun
	})
}

// stubSession covers the surface the handlers touch.
type stubSession struct {
	identities []proxmox.Identity
	connectErr error
}

func (s *stubSession) Connect(ctx context.Context) error { return s.connectErr }
func (s *stubSession) Clone(ctx context.Context, templateID int, name, storage, format string) (int, error) {
	return 0, errors.New("not used")
}
func (s *stubSession) ListIdentities(ctx context.Context) ([]proxmox.Identity, error) {
	return s.identities, nil
}
func (s *stubSession) ReadConfig(ctx context.Context, vmid int) (string, error) {
	return "", errors.New("not used")
}
func (s *stubSession) WriteConfig(ctx context.Context, vmid int, text string) error {
	return errors.New("not used")
}
func (s *stubSession) Prime(ctx context.Context) error { return nil }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Proxmox.Password = "secret"
	cfg.Proxmox.Node = "pve"
	cfg.SSH.Host = "pve"
	cfg.SSH.Password = "secret"
	return cfg
}

func stubFactories(t *testing.T, sess proxmox.Session) {
	t.Helper()
	saveAndRestoreProvisionFactories(t)
	loadConfigFile = func(path string) (*config.Config, error) { return testConfig(), nil }
	newSession = func(cfg *config.Config) (proxmox.Session, error) { return sess, nil }
	newSource = func(cfg *config.Config) identity.Source { return identity.NewGenerator() }
}

func TestProvisionRejectsEmptyRequest(t *testing.T) {
	saveAndRestoreProvisionFactories(t)

	err := Provision(context.Background(), ProvisionRequest{ConfigPath: "vmgen.yaml"})
	assert.ErrorContains(t, err, "nothing to do")
}

func TestProvisionValidatesTargets(t *testing.T) {
	stubFactories(t, &stubSession{})

	err := Provision(context.Background(), ProvisionRequest{
		Names:   []string{"WoW8"},
		Storage: "ceph",
	})
	assert.ErrorContains(t, err, `storage "ceph"`)

	err = Provision(context.Background(), ProvisionRequest{
		Names:  []string{"WoW8"},
		Format: "vmdk",
	})
	assert.ErrorContains(t, err, `format "vmdk"`)
}

func TestProvisionQueuesNamedItems(t *testing.T) {
	stubFactories(t, &stubSession{})

	var got []provisioning.WorkItem
	runProvisioning = func(ctx *provisioning.Context) *provisioning.RunOutcome {
		got = ctx.Queue.Snapshot()
		for _, item := range got {
			ctx.Queue.MarkCloned(item.Name, 108)
			ctx.Queue.MarkConfigured(item.Name)
		}
		return &provisioning.RunOutcome{
			Status:  provisioning.StatusSuccess,
			Items:   []provisioning.ItemOutcome{{Name: "WoW8", VMID: 108, Configured: true}},
			Command: "./start_and_key 108",
		}
	}

	output := captureOutput(func() {
		err := Provision(context.Background(), ProvisionRequest{Names: []string{"WoW8"}})
		require.NoError(t, err)
	})

	require.Len(t, got, 1)
	assert.Equal(t, "WoW8", got[0].Name)
	assert.Equal(t, "nvme0n1", got[0].Storage)
	assert.Equal(t, "raw", got[0].Format)

	assert.Contains(t, output, "[OK] WoW8 (id 108)")
	assert.Contains(t, output, "./start_and_key 108")
}

func TestProvisionAutoNames(t *testing.T) {
	sess := &stubSession{identities: []proxmox.Identity{
		{ID: 101, Name: "WoW1"},
		{ID: 100, Name: "VM 100"},
	}}
	stubFactories(t, sess)

	var got []provisioning.WorkItem
	runProvisioning = func(ctx *provisioning.Context) *provisioning.RunOutcome {
		got = ctx.Queue.Snapshot()
		return &provisioning.RunOutcome{Status: provisioning.StatusSuccess}
	}

	captureOutput(func() {
		err := Provision(context.Background(), ProvisionRequest{Count: 2})
		require.NoError(t, err)
	})

	// WoW1 is taken remotely, so the generated names pick up from 2.
	require.Len(t, got, 2)
	assert.Equal(t, "WoW2", got[0].Name)
	assert.Equal(t, "WoW3", got[1].Name)
}

func TestProvisionReportsCancellation(t *testing.T) {
	stubFactories(t, &stubSession{})
	runProvisioning = func(ctx *provisioning.Context) *provisioning.RunOutcome {
		return &provisioning.RunOutcome{Status: provisioning.StatusCancelled, Err: context.Canceled}
	}

	captureOutput(func() {
		err := Provision(context.Background(), ProvisionRequest{Names: []string{"WoW8"}})
		assert.ErrorContains(t, err, "cancelled")
	})
}

func TestProvisionFailsWhenItemsUnconfigured(t *testing.T) {
	stubFactories(t, &stubSession{})
	runProvisioning = func(ctx *provisioning.Context) *provisioning.RunOutcome {
		return &provisioning.RunOutcome{
			Status: provisioning.StatusSuccess,
			Items: []provisioning.ItemOutcome{
				{Name: "WoW8", VMID: 108, Configured: true},
				{Name: "WoW9", Err: fmt.Errorf("storage full")},
			},
		}
	}

	captureOutput(func() {
		err := Provision(context.Background(), ProvisionRequest{Names: []string{"WoW8", "WoW9"}})
		assert.ErrorContains(t, err, "not all machines")
	})
}

func TestNextName(t *testing.T) {
	stubFactories(t, &stubSession{identities: []proxmox.Identity{
		{ID: 101, Name: "wow1"},
	}})

	output := captureOutput(func() {
		require.NoError(t, NextName(context.Background(), "vmgen.yaml"))
	})
	assert.Contains(t, output, "WoW2")
}

func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}
