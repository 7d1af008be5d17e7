// ABOUTME: Dashboard command
// ABOUTME: Shows costs, fuel consumption, reminders, expiry and monthly trends

package main

import (
	"github.com/harper/carlog/internal/exchange"
	"github.com/harper/carlog/internal/stats"
	"github.com/harper/carlog/internal/ui"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"dashboard", "s"},
	Short:   "Show the dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		t := now()
		d := stats.BuildDashboard(st.Snapshot().Data, t)
		if asJSON {
			return exchange.WriteJSON(cmd.OutOrStdout(), d)
		}
		ui.WriteDashboard(cmd.OutOrStdout(), d, t)
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "print the dashboard as JSON")
	rootCmd.AddCommand(statsCmd)
}
