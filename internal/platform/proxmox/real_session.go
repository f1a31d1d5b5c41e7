package proxmox

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/luthermonson/go-proxmox"

	"github.com/Stormsil/VMGenerator/internal/platform/ssh"
)

const (
	taskPollInterval = 5 * time.Second
	taskWaitTimeout  = 5 * time.Minute

	configDir = "/etc/pve/qemu-server"
)

// Options configures a RealSession.
type Options struct {
	// APIURL is the Proxmox API endpoint, e.g. https://host:8006/api2/json.
	APIURL string

	// User includes the realm, e.g. root@pam.
	User     string
	Password string

	// Node is the cluster node hosting the template and its clones.
	Node string

	// InsecureTLS skips certificate verification; self-signed certs are the
	// norm on standalone Proxmox hosts.
	InsecureTLS bool

	// Files accesses qemu-server config files on the node.
	Files *ssh.Client
}

// RealSession implements Session against a live Proxmox VE host.
type RealSession struct {
	opts   Options
	client *proxmox.Client
}

// NewRealSession creates an unconnected session; call Connect before use.
func NewRealSession(opts Options) *RealSession {
	return &RealSession{opts: opts}
}

// Connect builds the API client and verifies it with a version probe.
func (s *RealSession) Connect(ctx context.Context) error {
	clientOpts := []proxmox.Option{
		proxmox.WithCredentials(&proxmox.Credentials{
			Username: s.opts.User,
			Password: s.opts.Password,
		}),
	}
	if s.opts.InsecureTLS {
		clientOpts = append(clientOpts, proxmox.WithHTTPClient(&http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // Self-signed certs on standalone hosts
			},
		}))
	}

	client := proxmox.NewClient(s.opts.APIURL, clientOpts...)
	if _, err := client.Version(ctx); err != nil {
		return fmt.Errorf("connecting to %s: %w", s.opts.APIURL, err)
	}

	s.client = client
	return nil
}

// Clone creates a full clone of the template machine.
func (s *RealSession) Clone(ctx context.Context, templateID int, name, storage, format string) (int, error) {
	if s.client == nil {
		return 0, ErrNotConnected
	}

	node, err := s.client.Node(ctx, s.opts.Node)
	if err != nil {
		return 0, fmt.Errorf("resolving node %s: %w", s.opts.Node, err)
	}

	template, err := node.VirtualMachine(ctx, templateID)
	if err != nil {
		return 0, fmt.Errorf("resolving template %d: %w", templateID, err)
	}

	cluster, err := s.client.Cluster(ctx)
	if err != nil {
		return 0, fmt.Errorf("resolving cluster: %w", err)
	}
	nextID, err := cluster.NextID(ctx)
	if err != nil {
		return 0, fmt.Errorf("reserving next id: %w", err)
	}

	newID, task, err := template.Clone(ctx, &proxmox.VirtualMachineCloneOptions{
		NewID:   nextID,
		Name:    name,
		Full:    1,
		Storage: storage,
		Format:  format,
	})
	if err != nil {
		return 0, fmt.Errorf("cloning template %d as %q: %w", templateID, name, err)
	}

	if err := task.Wait(ctx, taskPollInterval, taskWaitTimeout); err != nil {
		return 0, fmt.Errorf("waiting for clone of %q: %w", name, err)
	}

	return newID, nil
}

// ListIdentities returns the id/name of every machine on the node.
func (s *RealSession) ListIdentities(ctx context.Context) ([]Identity, error) {
	if s.client == nil {
		return nil, ErrNotConnected
	}

	node, err := s.client.Node(ctx, s.opts.Node)
	if err != nil {
		return nil, fmt.Errorf("resolving node %s: %w", s.opts.Node, err)
	}

	vms, err := node.VirtualMachines(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing machines on %s: %w", s.opts.Node, err)
	}

	identities := make([]Identity, 0, len(vms))
	for _, vm := range vms {
		identities = append(identities, Identity{
			ID:   int(vm.VMID),
			Name: vm.Name,
		})
	}
	return identities, nil
}

// ReadConfig reads the machine's qemu-server config file.
func (s *RealSession) ReadConfig(ctx context.Context, vmid int) (string, error) {
	return s.opts.Files.ReadFile(ctx, configPath(vmid))
}

// WriteConfig replaces the machine's qemu-server config file.
func (s *RealSession) WriteConfig(ctx context.Context, vmid int, text string) error {
	return s.opts.Files.WriteFile(ctx, configPath(vmid), text)
}

// Prime verifies the config directory is reachable, re-establishing the
// file channel if the previous attempt left it stale.
func (s *RealSession) Prime(ctx context.Context) error {
	_, err := s.opts.Files.Execute(ctx, "test -d "+configDir)
	if err != nil {
		return fmt.Errorf("priming config access: %w", err)
	}
	return nil
}

func configPath(vmid int) string {
	return fmt.Sprintf("%s/%d.conf", configDir, vmid)
}
