// ABOUTME: Export and backup commands
// ABOUTME: Writes the log as JSON, YAML or CSV, or its attachments alone

package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/harper/carlog/internal/exchange"
	"github.com/harper/carlog/internal/storage"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"e"},
	Short:   "Export the vehicle log",
	Long: `Export the vehicle log as JSON, YAML or CSV.

JSON and YAML exports are wrapped in {metadata, data} and can be imported
again. --types limits them to some data types: records, incompleteItems,
reminders, purchasedItems, fuelRecords, categories, fuelOptions.

CSV exports one table, chosen with --csv: records, fuel or purchased.

Examples:
  carlog export -o carlog.json
  carlog export --format yaml --types records,fuelRecords
  carlog export --format csv --csv fuel -o fuel.csv
  carlog export --attachments -o attachments.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		types, _ := cmd.Flags().GetStringSlice("types")
		csvKind, _ := cmd.Flags().GetString("csv")
		attachments, _ := cmd.Flags().GetBool("attachments")
		output, _ := cmd.Flags().GetString("output")

		snap := st.Snapshot()
		var buf bytes.Buffer
		switch {
		case attachments:
			if err := exchange.WriteJSON(&buf, exchange.ExportAttachments(snap.Data, now())); err != nil {
				return err
			}
		case format == "csv":
			if err := exchange.WriteCSV(&buf, exchange.CSVKind(csvKind), snap.Data); err != nil {
				return err
			}
		case format == "json" || format == "yaml":
			env, err := exchange.Export(snap, types, now())
			if err != nil {
				return err
			}
			if format == "yaml" {
				err = exchange.WriteYAML(&buf, env)
			} else {
				err = exchange.WriteJSON(&buf, env)
			}
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported format: %s (use 'json', 'yaml', or 'csv')", format)
		}

		return writeOutput(cmd, output, buf.Bytes())
	},
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := io.Copy(cmd.OutOrStdout(), bytes.NewReader(data))
		return err
	}
	if err := storage.AtomicWriteFile(path, data); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d bytes to %s\n", len(data), path)
	return nil
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a YAML backup of all data",
	Long: `Create a YAML backup file containing every data type.

The backup file can be used to:
- Move the log to another machine or backend
- Restore after data loss
- Import into a fresh log

Examples:
  carlog backup --output carlog.yaml
  carlog backup -o ~/backups/carlog-$(date +%Y%m%d).yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		snap := st.Snapshot()
		env, err := exchange.Export(snap, nil, now())
		if err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
		var buf bytes.Buffer
		if err := exchange.WriteYAML(&buf, env); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}

		if output == "" {
			output = fmt.Sprintf("carlog-%s.yaml", now().Format("20060102-150405"))
		}
		if err := storage.AtomicWriteFile(output, buf.Bytes()); err != nil {
			return fmt.Errorf("failed to write backup: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("Backup created: %s", output))
		fmt.Fprintf(out, "  %d records, %d fill-ups, %d reminders, %d purchased items, %d open problems\n",
			len(snap.Data.Records), len(snap.Data.FuelRecords), len(snap.Data.Reminders),
			len(snap.Data.PurchasedItems), len(snap.Data.IncompleteItems))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "json", "output format: json, yaml or csv")
	exportCmd.Flags().StringSlice("types", nil, "data types to include (default all)")
	exportCmd.Flags().String("csv", string(exchange.CSVRecords), "csv table: records, fuel or purchased")
	exportCmd.Flags().Bool("attachments", false, "export only the attachments")
	exportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")

	backupCmd.Flags().StringP("output", "o", "", "output file (default: carlog-YYYYMMDD-HHMMSS.yaml)")

	rootCmd.AddCommand(exportCmd, backupCmd)
}
