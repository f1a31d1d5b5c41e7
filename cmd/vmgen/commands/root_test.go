package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "vmgen", cmd.Use)
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	expectedSubcommands := []string{
		"init",
		"provision",
		"name",
		"version",
	}

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, expected := range expectedSubcommands {
		assert.True(t, subcommands[expected], "Expected subcommand %s not found", expected)
	}
}

func TestProvisionFlags(t *testing.T) {
	cmd := Provision()

	for flag, def := range map[string]string{
		"config":  "vmgen.yaml",
		"count":   "0",
		"storage": "",
		"format":  "",
	} {
		f := cmd.Flags().Lookup(flag)
		require.NotNil(t, f, "flag %s", flag)
		assert.Equal(t, def, f.DefValue, "flag %s default", flag)
	}
}

func TestInitFlags(t *testing.T) {
	cmd := Init()

	f := cmd.Flags().Lookup("output")
	require.NotNil(t, f)
	assert.Equal(t, "vmgen.yaml", f.DefValue)
}
