// ABOUTME: Reset command
// ABOUTME: Wipes the log back to the seeded categories and pick lists

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/carlog/internal/charm"
	"github.com/spf13/cobra"
)

// remote is implemented by backends that keep a local copy of a server database.
type remote interface {
	Sync() error
	Reset() error
}

var _ remote = (*charm.Client)(nil)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all records and restore default categories",
	Long: `Delete every maintenance record, fill-up, reminder, purchased item and
open problem, and restore the default categories and fuel pick lists.

This CANNOT be undone. Run 'carlog backup' first if in doubt.

With --local on the charm backend, only the local copy is discarded and
downloaded again from the charm server; nothing is deleted remotely.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		local, _ := cmd.Flags().GetBool("local")
		out := cmd.OutOrStdout()

		if local {
			return resetLocalCopy(cmd, yes)
		}

		if !yes {
			color.New(color.FgRed).Fprintln(out, "WARNING: This deletes the whole vehicle log.")
			ok, err := confirm(cmd.InOrStdin(), out, "Reset to defaults?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		if err := st.Reset(); err != nil {
			return fmt.Errorf("failed to reset: %w", err)
		}
		fmt.Fprintln(out, color.GreenString("✓ Vehicle log reset to defaults"))
		return nil
	},
}

func resetLocalCopy(cmd *cobra.Command, yes bool) error {
	r, ok := backend.(remote)
	if !ok {
		return fmt.Errorf("--local needs the charm backend (current: %s)", cfg.GetBackend())
	}
	out := cmd.OutOrStdout()
	if !yes {
		ok, err := confirm(cmd.InOrStdin(), out, "Replace the local copy with the server copy?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}
	if err := r.Reset(); err != nil {
		return fmt.Errorf("failed to reset local copy: %w", err)
	}
	fmt.Fprintln(out, color.GreenString("✓ Local copy replaced from the server"))
	return nil
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	resetCmd.Flags().Bool("local", false, "discard only the local charm copy and download it again")
	rootCmd.AddCommand(resetCmd)
}
