package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/FluidXR/adbwifi/internal/adb"
	"github.com/FluidXR/adbwifi/internal/config"
	"github.com/FluidXR/adbwifi/internal/history"
	"github.com/FluidXR/adbwifi/internal/setup"
	"github.com/FluidXR/adbwifi/internal/ui"
)

// Version of adbwifi.
const Version = "0.1.0"

// setupRan is set once the wireless setup has started, so a failure keeps
// the console open for the operator to read it.
var setupRan bool

var rootCmd = &cobra.Command{
	Use:   "adbwifi",
	Short: "Switch an Android device from USB to wireless debugging",
	Long: `adbwifi puts a USB-attached Android device into TCP/IP mode, finds its
WiFi address, and reconnects to it over the network via ADB.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		w := &setup.Workflow{
			Bridge:       adb.NewClient(cfg.ADBPath),
			Prompt:       ui.NewPrompter(os.Stdin, os.Stdout),
			Out:          os.Stdout,
			Port:         cfg.Port,
			ConnectDelay: cfg.ConnectDelay,
		}
		setupRan = true
		rep, runErr := w.Run(cmd.Context())
		if errors.Is(runErr, setup.ErrToolNotFound) {
			printInstallHint(cfg.ADBPath)
		}

		finishRun(rep, runErr, openHistory, saveWiFiIP)
		return runErr
	},
}

type attemptRecorder interface {
	Record(a history.Attempt) (int64, error)
	Close() error
}

func openHistory() (attemptRecorder, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	return history.Open(dir)
}

func saveWiFiIP(serial, ip string) error {
	return config.Update(func(c *config.Config) { c.SetWiFiIP(serial, ip) })
}

// attemptFor describes a finished run for the history log.
func attemptFor(rep setup.Report, runErr error) history.Attempt {
	a := history.Attempt{
		Serial:  rep.Serial,
		IP:      rep.IP,
		Outcome: setup.ReportOutcome(rep, runErr),
	}
	switch {
	case runErr != nil:
		a.Detail = runErr.Error()
	case !rep.Confirmed():
		a.Detail = fmt.Sprintf("found %s instead of %s", rep.Wireless, rep.Endpoint)
	}
	return a
}

// finishRun logs the run and, when the resolved endpoint itself connected,
// remembers its IP. Storage failures only warn.
func finishRun(rep setup.Report, runErr error, open func() (attemptRecorder, error), save func(serial, ip string) error) {
	if db, err := open(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history: %v\n", err)
	} else {
		if _, err := db.Record(attemptFor(rep, runErr)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not record attempt: %v\n", err)
		}
		db.Close()
	}

	if runErr != nil || !rep.Confirmed() {
		return
	}
	if err := save(rep.Serial, rep.IP); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save config: %v\n", err)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the adbwifi version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "adbwifi %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if setupRan {
			ui.PauseOnExit(os.Stdin, os.Stdout)
		}
		os.Exit(1)
	}
}
