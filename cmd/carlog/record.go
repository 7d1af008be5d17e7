// ABOUTME: Maintenance record commands
// ABOUTME: Adds, lists, shows, edits and removes workshop visits

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/carlog/internal/models"
	"github.com/harper/carlog/internal/store"
	"github.com/harper/carlog/internal/ui"
	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:     "record",
	Aliases: []string{"r"},
	Short:   "Manage maintenance records",
}

var recordAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a maintenance visit",
	Long: `Log a maintenance visit.

Items use Category/Name:original:actual; the actual price defaults to the
original one. Problems use Name:priority:description.

Adding a record also completes the reminders given with --completes, uses
up one unit of each matching multi-use inventory item, and files the
problems in the open problem list.

Examples:
  carlog record add --mileage 12000 --item "Engine/Oil:300:260" --item "Engine/Oil filter:40"
  carlog record add --date 2024-05-02 --mileage 12000 --problem "Brake squeal:high:front left"
  carlog record add --mileage 12000 --item "Engine/Oil:300" --completes 3f2a9c1e --attach invoice.pdf`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dateStr, _ := cmd.Flags().GetString("date")
		date, err := parseDateFlag(dateStr)
		if err != nil {
			return err
		}
		mileage, _ := cmd.Flags().GetInt("mileage")
		notes, _ := cmd.Flags().GetString("notes")
		itemSpecs, _ := cmd.Flags().GetStringArray("item")
		problemSpecs, _ := cmd.Flags().GetStringArray("problem")
		completes, _ := cmd.Flags().GetStringSlice("completes")
		attachPaths, _ := cmd.Flags().GetStringArray("attach")

		rec := models.MaintenanceRecord{
			Date:               date,
			Mileage:            mileage,
			Notes:              notes,
			CompletedReminders: completes,
		}
		for _, spec := range itemSpecs {
			item, err := parseItemSpec(spec)
			if err != nil {
				return err
			}
			rec.Items = append(rec.Items, item)
		}
		for _, spec := range problemSpecs {
			inc, err := parseProblemSpec(spec)
			if err != nil {
				return err
			}
			inc.DateFound = date
			rec.IncompleteItems = append(rec.IncompleteItems, inc)
		}
		if rec.Attachments, err = loadAttachments(attachPaths); err != nil {
			return err
		}

		saved, err := st.AddRecord(rec)
		if err != nil {
			return fmt.Errorf("failed to add record: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Added maintenance record"))
		fmt.Fprintf(out, "  %s\n", ui.FormatRecord(&saved))
		if len(saved.CompletedReminders) > 0 {
			fmt.Fprintf(out, "  completed %d reminder(s)\n", len(saved.CompletedReminders))
		}
		if len(saved.IncompleteItems) > 0 {
			fmt.Fprintf(out, "  filed %d open problem(s)\n", len(saved.IncompleteItems))
		}
		return nil
	},
}

var recordListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List maintenance records, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		verbose, _ := cmd.Flags().GetBool("verbose")

		records := st.Records()
		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No maintenance records yet. Use 'carlog record add' to add one.")
			return nil
		}
		if limit > 0 && limit < len(records) {
			records = records[:limit]
		}
		for i := range records {
			fmt.Fprintln(out, ui.FormatRecord(&records[i]))
			if verbose {
				fmt.Fprintln(out, ui.FormatRecordItems(&records[i]))
			}
		}
		return nil
	},
}

var recordShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a maintenance record in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := st.Record(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.FormatRecord(&rec))
		fmt.Fprintln(out, ui.FormatRecordItems(&rec))
		if rec.Notes != "" {
			fmt.Fprintf(out, "  notes: %s\n", rec.Notes)
		}
		for i := range rec.IncompleteItems {
			fmt.Fprintf(out, "  problem: %s\n", ui.FormatIncompleteItem(&rec.IncompleteItems[i]))
		}
		for _, a := range rec.Attachments {
			fmt.Fprintf(out, "  attachment: %s (%s, %d bytes)\n", a.Name, a.Type, a.Size)
		}
		for _, id := range rec.CompletedReminders {
			fmt.Fprintf(out, "  completed reminder: %s\n", ui.ShortID(id))
		}
		return nil
	},
}

var recordEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a maintenance record",
	Long: `Change fields of a maintenance record. Only the flags given are changed;
--item replaces the whole item list. Reminders and inventory are not touched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := st.Record(args[0]); err != nil {
			return err
		}
		date, err := changedDate(cmd, "date")
		if err != nil {
			return err
		}
		patch := store.RecordPatch{
			Date:    date,
			Mileage: changedInt(cmd, "mileage"),
			Notes:   changedString(cmd, "notes"),
		}
		if cmd.Flags().Changed("item") {
			specs, _ := cmd.Flags().GetStringArray("item")
			items := []models.MaintenanceItem{}
			for _, spec := range specs {
				item, err := parseItemSpec(spec)
				if err != nil {
					return err
				}
				items = append(items, item)
			}
			patch.Items = &items
		}
		if err := st.UpdateRecord(args[0], patch); err != nil {
			return fmt.Errorf("failed to update record: %w", err)
		}
		rec, _ := st.Record(args[0])
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Updated record"))
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", ui.FormatRecord(&rec))
		return nil
	},
}

var recordRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a maintenance record",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.RemoveRecord(args[0]); err != nil {
			return fmt.Errorf("failed to remove record: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Removed record %s", ui.ShortID(args[0])))
		return nil
	},
}

func init() {
	recordAddCmd.Flags().String("date", "", "visit date YYYY-MM-DD (default today)")
	recordAddCmd.Flags().IntP("mileage", "m", 0, "odometer reading")
	recordAddCmd.Flags().StringArrayP("item", "i", nil, "work item Category/Name:original:actual (repeatable)")
	recordAddCmd.Flags().StringArrayP("problem", "p", nil, "problem found Name:priority:description (repeatable)")
	recordAddCmd.Flags().StringSlice("completes", nil, "ids of reminders this visit takes care of")
	recordAddCmd.Flags().StringArray("attach", nil, "file to attach (repeatable)")
	recordAddCmd.Flags().StringP("notes", "n", "", "notes")
	_ = recordAddCmd.MarkFlagRequired("mileage")

	recordListCmd.Flags().Int("limit", 0, "show at most this many records")
	recordListCmd.Flags().BoolP("verbose", "v", false, "show items")

	recordEditCmd.Flags().String("date", "", "visit date YYYY-MM-DD")
	recordEditCmd.Flags().IntP("mileage", "m", 0, "odometer reading")
	recordEditCmd.Flags().StringArrayP("item", "i", nil, "replacement work items (repeatable)")
	recordEditCmd.Flags().StringP("notes", "n", "", "notes")

	recordCmd.AddCommand(recordAddCmd, recordListCmd, recordShowCmd, recordEditCmd, recordRemoveCmd)
	rootCmd.AddCommand(recordCmd)
}
