package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/FluidXR/adbwifi/internal/adb"
	"github.com/FluidXR/adbwifi/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage adbwifi configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		fmt.Printf("Config file: %s\n\n", path)
		fmt.Printf("ADB binary: %s\n", cfg.ADBPath)
		fmt.Printf("TCP/IP port: %d\n", cfg.Port)
		fmt.Printf("Connect delay: %s\n", cfg.ConnectDelay)
		fmt.Printf("\nDevices:\n")
		if len(cfg.Devices) == 0 {
			fmt.Println("  (none configured)")
		}
		serials := make([]string, 0, len(cfg.Devices))
		for serial := range cfg.Devices {
			serials = append(serials, serial)
		}
		sort.Strings(serials)
		for _, serial := range serials {
			dc := cfg.Devices[serial]
			fmt.Printf("  - %s", serial)
			if dc.Nickname != "" {
				fmt.Printf(" (%s)", dc.Nickname)
			}
			if dc.WiFiIP != "" {
				fmt.Printf(" [wifi: %s]", dc.WiFiIP)
			}
			fmt.Println()
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		if err := config.SaveFile(path, config.DefaultConfig()); err != nil {
			return err
		}
		fmt.Printf("Config created at %s\n", path)
		return nil
	},
}

var configNicknameCmd = &cobra.Command{
	Use:   "nickname <serial> <name>",
	Short: "Set a nickname for a device",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		serial := args[0]
		name := args[1]

		err := config.Update(func(cfg *config.Config) {
			dc := cfg.Devices[serial]
			dc.Nickname = name
			cfg.Devices[serial] = dc
		})
		if err != nil {
			return err
		}
		fmt.Printf("Set nickname for %s: %s\n", serial, name)
		return nil
	},
}

var configSetWiFiCmd = &cobra.Command{
	Use:   "set-wifi <serial> <ip>",
	Short: "Set WiFi IP for a device (for wireless ADB)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		serial := args[0]
		ip := args[1]
		if !adb.ValidIPv4(ip) {
			return fmt.Errorf("%q is not an IPv4 address", ip)
		}

		if err := config.Update(func(cfg *config.Config) { cfg.SetWiFiIP(serial, ip) }); err != nil {
			return err
		}
		fmt.Printf("Set WiFi IP for %s: %s\n", serial, ip)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configNicknameCmd)
	configCmd.AddCommand(configSetWiFiCmd)
	rootCmd.AddCommand(configCmd)
}
