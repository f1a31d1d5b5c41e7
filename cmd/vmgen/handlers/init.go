package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/Stormsil/VMGenerator/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// loadExisting loads a config file to pre-fill the wizard.
	loadExisting = config.LoadFile

	// runWizard runs the configuration wizard.
	runWizard = config.RunWizard

	// writeConfig writes the config to a file.
	writeConfig = config.Save
)

// Init runs the configuration wizard and writes the result to a file.
// An existing file at the output path seeds the wizard's defaults.
func Init(ctx context.Context, outputPath string) error {
	var existing *config.Config
	if fileExists(outputPath) {
		fmt.Printf("Editing existing configuration at %s.\n\n", outputPath)
		if loaded, err := loadExisting(outputPath); err == nil {
			existing = loaded
		}
	}

	printWelcome()

	cfg, err := runWizard(ctx, existing)
	if err != nil {
		return err
	}

	if err := writeConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("vmgen - Proxmox machine provisioning")
	fmt.Println("====================================")
	fmt.Println()
	fmt.Println("This wizard collects the connection and clone settings a run needs.")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()
	fmt.Println("Summary")
	fmt.Println("-------")
	fmt.Printf("  API:      %s\n", cfg.Proxmox.URL)
	fmt.Printf("  Node:     %s\n", cfg.Proxmox.Node)
	fmt.Printf("  Template: %d (%s)\n", cfg.Template.VMID, cfg.Template.Name)
	fmt.Printf("  Storage:  %s\n", cfg.Storage.Default)
	fmt.Printf("  Format:   %s\n", cfg.Format.Default)
	if cfg.NoMachine.Dir != "" {
		fmt.Printf("  Sessions: %s\n", cfg.NoMachine.Dir)
	}
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  vmgen provision -c %s -n 1\n", outputPath)
	fmt.Println()
}
