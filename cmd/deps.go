package cmd

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/FluidXR/adbwifi/internal/config"
)

// adbInstallCmd maps GOOS to the usual way of installing platform-tools.
var adbInstallCmd = map[string]string{
	"darwin":  "brew install android-platform-tools",
	"linux":   "sudo apt install android-tools-adb",
	"windows": "winget install Google.PlatformTools",
}

// printInstallHint tells the user how to get adb on this OS.
func printInstallHint(binary string) {
	if install, ok := adbInstallCmd[runtime.GOOS]; ok {
		fmt.Printf("   Install with: %s\n", install)
	}
	if binary != "adb" {
		fmt.Printf("   Configured adb path: %s\n", binary)
	}
}

// requireADB returns a PreRunE that fails when the configured adb binary is missing.
func requireADB() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if _, err := exec.LookPath(cfg.ADBPath); err != nil {
			fmt.Println("ADB (Android Debug Bridge) is required but not installed.")
			printInstallHint(cfg.ADBPath)
			return fmt.Errorf("%s is required but not installed", cfg.ADBPath)
		}
		return nil
	}
}
