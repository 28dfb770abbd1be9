package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FluidXR/adbwifi/internal/adb"
	"github.com/FluidXR/adbwifi/internal/config"
	"github.com/FluidXR/adbwifi/internal/history"
)

type lastIPLookup interface {
	LastIP(serial string) (string, bool, error)
}

// resolveTarget turns a serial, an IP or nothing into the address to connect to.
func resolveTarget(cfg *config.Config, hist lastIPLookup, arg string) (string, error) {
	if adb.ValidIPv4(arg) {
		return arg, nil
	}
	if arg == "" {
		var known []string
		for serial, dc := range cfg.Devices {
			if dc.WiFiIP != "" {
				known = append(known, serial)
			}
		}
		sort.Strings(known)
		switch len(known) {
		case 0:
			return "", fmt.Errorf("no saved WiFi address; run 'adbwifi' with the device on USB first")
		case 1:
			return cfg.Devices[known[0]].WiFiIP, nil
		default:
			return "", fmt.Errorf("several devices have saved addresses, pick one: %s", strings.Join(known, ", "))
		}
	}
	if ip := cfg.Devices[arg].WiFiIP; ip != "" {
		return ip, nil
	}
	serial := arg
	for s, dc := range cfg.Devices {
		if dc.Nickname != arg {
			continue
		}
		if dc.WiFiIP != "" {
			return dc.WiFiIP, nil
		}
		serial = s
	}
	if hist != nil {
		ip, ok, err := hist.LastIP(serial)
		if err != nil {
			return "", err
		}
		if ok {
			return ip, nil
		}
	}
	return "", fmt.Errorf("no known WiFi address for %q", arg)
}

var connectCmd = &cobra.Command{
	Use:   "connect [serial|nickname|ip]",
	Short: "Reconnect to a device over WiFi",
	Long: `Connects to a device already in TCP/IP mode. Without an argument the single
device with a saved address is used.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: requireADB(),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}

		var hist lastIPLookup
		if dir, err := config.ConfigDir(); err == nil {
			if db, err := history.Open(dir); err == nil {
				defer db.Close()
				hist = db
			}
		}

		ip, err := resolveTarget(cfg, hist, arg)
		if err != nil {
			return err
		}
		out, err := adb.NewClient(cfg.ADBPath).Connect(cmd.Context(), ip, cfg.Port)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

var usbCmd = &cobra.Command{
	Use:     "usb [serial]",
	Short:   "Switch a device back to USB debugging",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: requireADB(),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		serial := ""
		if len(args) > 0 {
			serial = args[0]
		}
		if err := adb.NewClient(cfg.ADBPath).USB(cmd.Context(), serial); err != nil {
			return err
		}
		fmt.Println("Restarted adbd in USB mode.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(usbCmd)
}
