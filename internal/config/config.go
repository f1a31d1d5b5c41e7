package config

// Config holds the application configuration.
type Config struct {
	Proxmox   ProxmoxConfig   `mapstructure:"proxmox" yaml:"proxmox"`
	SSH       SSHConfig       `mapstructure:"ssh" yaml:"ssh"`
	Storage   StorageConfig   `mapstructure:"storage" yaml:"storage"`
	Format    FormatConfig    `mapstructure:"format" yaml:"format"`
	Template  TemplateConfig  `mapstructure:"template" yaml:"template"`
	Naming    NamingConfig    `mapstructure:"naming" yaml:"naming"`
	NoMachine NoMachineConfig `mapstructure:"nomachine" yaml:"nomachine"`
	Generator GeneratorConfig `mapstructure:"generator" yaml:"generator"`
	Debug     bool            `mapstructure:"debug" yaml:"debug"`
}

// ProxmoxConfig points at the hypervisor API.
type ProxmoxConfig struct {
	// URL is the API endpoint, e.g. https://192.168.0.43:8006/api2/json.
	URL string `mapstructure:"url" yaml:"url"`

	// User includes the realm, e.g. root@pam.
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`

	// Node is the cluster node hosting the template and its clones.
	Node string `mapstructure:"node" yaml:"node"`

	// InsecureTLS skips certificate verification for self-signed hosts.
	InsecureTLS bool `mapstructure:"insecure_tls" yaml:"insecure_tls"`
}

// SSHConfig configures the file channel to the node. Either a key path or
// a password must be set.
type SSHConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	User     string `mapstructure:"user" yaml:"user"`
	KeyPath  string `mapstructure:"key_path" yaml:"key_path"`
	Password string `mapstructure:"password" yaml:"password"`
}

// StorageConfig lists the storage pools offered for clone targets.
type StorageConfig struct {
	Options []string `mapstructure:"options" yaml:"options"`
	Default string   `mapstructure:"default" yaml:"default"`
}

// FormatConfig lists the disk formats offered for clone targets.
type FormatConfig struct {
	Options []string `mapstructure:"options" yaml:"options"`
	Default string   `mapstructure:"default" yaml:"default"`
}

// TemplateConfig identifies the machine that clones are made from.
type TemplateConfig struct {
	VMID int    `mapstructure:"vmid" yaml:"vmid"`
	Name string `mapstructure:"name" yaml:"name"`
}

// NamingConfig controls how new machine names are derived.
type NamingConfig struct {
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
}

// NoMachineConfig points the local session-file updater at its directory.
// Empty Dir disables the updater.
type NoMachineConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// GeneratorConfig optionally delegates identity value generation to
// external commands. Empty fields fall back to the built-in generator.
type GeneratorConfig struct {
	MacCommand    string `mapstructure:"mac_command" yaml:"mac_command"`
	SerialCommand string `mapstructure:"serial_command" yaml:"serial_command"`
	ArgsCommand   string `mapstructure:"args_command" yaml:"args_command"`
}
