package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
proxmox:
  url: https://192.168.0.43:8006/api2/json
  user: root@pam
  password: secret
  node: pve
  insecure_tls: true
ssh:
  password: secret
storage:
  options: [data, nvme0n1]
  default: nvme0n1
format:
  options: [raw, qcow2]
  default: raw
template:
  vmid: 100
  name: VM 100
nomachine:
  dir: /home/user/Documents/NoMachine
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "https://192.168.0.43:8006/api2/json", cfg.Proxmox.URL)
	assert.Equal(t, "root@pam", cfg.Proxmox.User)
	assert.Equal(t, "pve", cfg.Proxmox.Node)
	assert.True(t, cfg.Proxmox.InsecureTLS)
	assert.Equal(t, 100, cfg.Template.VMID)
	assert.Equal(t, "nvme0n1", cfg.Storage.Default)
	assert.Equal(t, "/home/user/Documents/NoMachine", cfg.NoMachine.Dir)
}

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, `
proxmox:
  url: https://10.1.2.3:8006/api2/json
  user: root@pam
  password: secret
  node: pve
ssh:
  password: secret
template:
  vmid: 100
`))
	require.NoError(t, err)

	// SSH host defaults to the API host, port to 22, user to root.
	assert.Equal(t, "10.1.2.3", cfg.SSH.Host)
	assert.Equal(t, 22, cfg.SSH.Port)
	assert.Equal(t, "root", cfg.SSH.User)

	assert.Equal(t, []string{"data", "nvme0n1"}, cfg.Storage.Options)
	assert.Equal(t, "data", cfg.Storage.Default)
	assert.Equal(t, []string{"raw", "qcow2"}, cfg.Format.Options)
	assert.Equal(t, "raw", cfg.Format.Default)
	assert.Equal(t, "WoW", cfg.Naming.Prefix)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing url",
			mutate:  func(c *Config) { c.Proxmox.URL = "" },
			wantErr: "proxmox.url",
		},
		{
			name:    "missing password",
			mutate:  func(c *Config) { c.Proxmox.Password = "" },
			wantErr: "proxmox.password",
		},
		{
			name:    "missing node",
			mutate:  func(c *Config) { c.Proxmox.Node = "" },
			wantErr: "proxmox.node",
		},
		{
			name:    "no ssh credentials",
			mutate:  func(c *Config) { c.SSH.KeyPath, c.SSH.Password = "", "" },
			wantErr: "ssh.key_path or ssh.password",
		},
		{
			name:    "zero template vmid",
			mutate:  func(c *Config) { c.Template.VMID = 0 },
			wantErr: "template.vmid",
		},
		{
			name:    "storage default not offered",
			mutate:  func(c *Config) { c.Storage.Default = "ceph" },
			wantErr: "storage.default",
		},
		{
			name:    "format default not offered",
			mutate:  func(c *Config) { c.Format.Default = "vmdk" },
			wantErr: "format.default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Proxmox.Password = "secret"
			cfg.Proxmox.Node = "pve"
			cfg.SSH.Host = "192.168.0.43"
			cfg.SSH.Password = "secret"

			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Proxmox.Password = "secret"
	cfg.Proxmox.Node = "pve"
	cfg.SSH.Host = "192.168.0.43"
	cfg.SSH.Password = "secret"

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Save(cfg, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Proxmox, loaded.Proxmox)
	assert.Equal(t, cfg.Storage, loaded.Storage)
	assert.Equal(t, cfg.Template, loaded.Template)
}

func TestHostFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://192.168.0.43:8006/api2/json", "192.168.0.43"},
		{"http://pve.local/api2/json", "pve.local"},
		{"pve.local:8006", "pve.local"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hostFromURL(tt.url), "url %q", tt.url)
	}
}
