package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FluidXR/adbwifi/internal/config"
	"github.com/FluidXR/adbwifi/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent wireless setup attempts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.ConfigDir()
		if err != nil {
			return err
		}
		db, err := history.Open(dir)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer db.Close()

		attempts, err := db.Recent(historyLimit)
		if err != nil {
			return err
		}
		if len(attempts) == 0 {
			fmt.Println("No setup attempts recorded.")
			return nil
		}
		for _, a := range attempts {
			fmt.Printf("%s  %-18s %-16s %-15s %s\n",
				a.CreatedAt.Local().Format("2006-01-02 15:04"),
				a.Outcome, dash(a.Serial), dash(a.IP), a.Detail)
		}
		return nil
	},
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of attempts to show")
	rootCmd.AddCommand(historyCmd)
}
