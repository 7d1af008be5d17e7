// ABOUTME: Import command
// ABOUTME: Validates an export or backup file and replaces the data types it carries

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/carlog/internal/exchange"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:     "import <file>",
	Aliases: []string{"restore"},
	Short:   "Import a JSON or YAML export",
	Long: `Import a file written by 'carlog export' or 'carlog backup'.

Every data type present in the file replaces the stored one; types the file
does not carry are left alone. Nothing is written unless the whole file is
valid. Files ending in .yaml or .yml are read as YAML, anything else as JSON.

Examples:
  carlog import carlog-20240615-143000.yaml
  carlog import export.json --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		imported, err := exchange.ReadImportFile(args[0])
		if err != nil {
			return err
		}
		b := imported.Bundle
		if b.Empty() {
			return fmt.Errorf("%s holds no importable data", args[0])
		}

		out := cmd.OutOrStdout()
		color.New(color.FgYellow).Fprintf(out, "Importing %s:\n", args[0])
		if md := imported.Metadata; md != nil {
			fmt.Fprintf(out, "  Exported:    %s by %s (format %s)\n", md.ExportDate.Format("2006-01-02 15:04"), md.AppName, md.Version)
		}
		if b.Data != nil {
			fmt.Fprintf(out, "  Records:     %d\n", len(b.Data.Records))
			fmt.Fprintf(out, "  Fill-ups:    %d\n", len(b.Data.FuelRecords))
			fmt.Fprintf(out, "  Reminders:   %d\n", len(b.Data.Reminders))
			fmt.Fprintf(out, "  Purchases:   %d\n", len(b.Data.PurchasedItems))
			fmt.Fprintf(out, "  Problems:    %d\n", len(b.Data.IncompleteItems))
		}
		if b.Categories != nil {
			fmt.Fprintf(out, "  Categories:  %d\n", len(b.Categories))
		}
		if b.FuelOptions != nil {
			fmt.Fprintln(out, "  Fuel pick lists")
		}

		if !yes {
			ok, err := confirm(cmd.InOrStdin(), out, "Replace the stored data with this file?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Import canceled.")
				return nil
			}
		}

		if err := st.ImportAll(b); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		fmt.Fprintln(out, color.GreenString("✓ Import complete"))
		return nil
	},
}

func init() {
	importCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(importCmd)
}
