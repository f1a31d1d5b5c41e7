package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Default returns a configuration pre-filled with the values a fresh
// install starts from. The wizard edits these in place.
func Default() *Config {
	return &Config{
		Proxmox: ProxmoxConfig{
			URL:  "https://192.168.0.43:8006/api2/json",
			User: "root@pam",
		},
		SSH: SSHConfig{
			Port: 22,
			User: "root",
		},
		Storage: StorageConfig{
			Options: []string{"data", "nvme0n1"},
			Default: "nvme0n1",
		},
		Format: FormatConfig{
			Options: []string{"raw", "qcow2"},
			Default: "raw",
		},
		Template: TemplateConfig{
			VMID: 100,
			Name: "VM 100",
		},
		Naming: NamingConfig{
			Prefix: "WoW",
		},
	}
}

// LoadFile reads and parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	if err := mapstructure.Decode(rawConfig, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Set defaults
	if cfg.SSH.Port == 0 {
		cfg.SSH.Port = 22
	}
	if cfg.SSH.Host == "" {
		cfg.SSH.Host = hostFromURL(cfg.Proxmox.URL)
	}
	if cfg.SSH.User == "" {
		cfg.SSH.User = "root"
	}
	if len(cfg.Storage.Options) == 0 {
		cfg.Storage.Options = []string{"data", "nvme0n1"}
	}
	if cfg.Storage.Default == "" {
		cfg.Storage.Default = cfg.Storage.Options[0]
	}
	if len(cfg.Format.Options) == 0 {
		cfg.Format.Options = []string{"raw", "qcow2"}
	}
	if cfg.Format.Default == "" {
		cfg.Format.Default = cfg.Format.Options[0]
	}
	if cfg.Naming.Prefix == "" {
		cfg.Naming.Prefix = "WoW"
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to a YAML file.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for common errors and returns a
// detailed error if validation fails.
func (c *Config) Validate() error {
	if c.Proxmox.URL == "" {
		return fmt.Errorf("proxmox.url is required")
	}
	if c.Proxmox.User == "" {
		return fmt.Errorf("proxmox.user is required")
	}
	if c.Proxmox.Password == "" {
		return fmt.Errorf("proxmox.password is required")
	}
	if c.Proxmox.Node == "" {
		return fmt.Errorf("proxmox.node is required")
	}

	if c.SSH.Host == "" {
		return fmt.Errorf("ssh.host is required")
	}
	if c.SSH.KeyPath == "" && c.SSH.Password == "" {
		return fmt.Errorf("either ssh.key_path or ssh.password is required")
	}

	if c.Template.VMID <= 0 {
		return fmt.Errorf("template.vmid must be positive")
	}

	if !slices.Contains(c.Storage.Options, c.Storage.Default) {
		return fmt.Errorf("storage.default %q is not among storage.options %v", c.Storage.Default, c.Storage.Options)
	}
	if !slices.Contains(c.Format.Options, c.Format.Default) {
		return fmt.Errorf("format.default %q is not among format.options %v", c.Format.Default, c.Format.Options)
	}

	return nil
}

// hostFromURL extracts the bare host from an API URL so the SSH channel
// can default to the same machine.
func hostFromURL(url string) string {
	s := url
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, ":/"); i >= 0 {
		s = s[:i]
	}
	return s
}
