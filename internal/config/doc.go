// Package config defines the application configuration model.
//
// The [Config] struct is the canonical representation of a provisioning
// run's environment: the hypervisor API endpoint, the SSH channel used for
// raw config file access, the clone template, storage and disk format
// choices, and the optional local session-file directory. It is loaded
// from a YAML file and validated before any remote work starts.
package config
