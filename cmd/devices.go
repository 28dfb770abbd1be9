package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FluidXR/adbwifi/internal/adb"
	"github.com/FluidXR/adbwifi/internal/config"
)

var devicesCmd = &cobra.Command{
	Use:     "devices",
	Short:   "List attached devices and how they are connected",
	Args:    cobra.NoArgs,
	PreRunE: requireADB(),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		devices, err := adb.NewClient(cfg.ADBPath).Devices(cmd.Context())
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			fmt.Println("No devices connected.")
			return nil
		}

		for _, d := range devices {
			nickname := ""
			if n := cfg.Nickname(d.Serial); n != "" {
				nickname = fmt.Sprintf(" (%s)", n)
			}

			status := d.State
			if !d.IsOnline() {
				status = "OFFLINE"
				if d.State == "unauthorized" {
					status = "UNAUTHORIZED"
				}
			}

			fmt.Printf("%-22s %s  [%s] [%s]%s\n",
				d.Serial, d.Model, d.ConnType, status, nickname)

			if ip := cfg.Devices[d.Serial].WiFiIP; ip != "" && d.ConnType == adb.USB {
				fmt.Printf("  Last WiFi address: %s\n", adb.Endpoint(ip, cfg.Port))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
