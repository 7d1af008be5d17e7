// ABOUTME: Reminder commands
// ABOUTME: Adds, lists with due status, edits, completes and removes reminders

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/carlog/internal/models"
	"github.com/harper/carlog/internal/stats"
	"github.com/harper/carlog/internal/store"
	"github.com/harper/carlog/internal/ui"
	"github.com/spf13/cobra"
)

var reminderCmd = &cobra.Command{
	Use:     "reminder",
	Aliases: []string{"rem"},
	Short:   "Manage maintenance reminders",
}

var reminderAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a reminder",
	Long: `Create a reminder due by date, by mileage, or both.

Items use Category/Name:estimate.

Examples:
  carlog reminder add "Oil change" --due 2025-01-01
  carlog reminder add "Tires" --due-mileage 40000 --type mileage --priority high
  carlog reminder add "Service" --due 2025-03-01 --due-mileage 20000 --type both --item "Engine/Oil:300"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typeStr, _ := cmd.Flags().GetString("type")
		rtype, err := models.ParseReminderType(typeStr)
		if err != nil {
			return err
		}
		priorityStr, _ := cmd.Flags().GetString("priority")
		priority, err := models.ParsePriority(priorityStr)
		if err != nil {
			return err
		}
		dueStr, _ := cmd.Flags().GetString("due")
		due, err := models.DatePtr(dueStr)
		if err != nil {
			return err
		}
		description, _ := cmd.Flags().GetString("description")
		itemSpecs, _ := cmd.Flags().GetStringArray("item")

		r := models.Reminder{
			Title:       args[0],
			Description: description,
			DueDate:     due,
			DueMileage:  changedInt(cmd, "due-mileage"),
			Type:        rtype,
			Priority:    priority,
		}
		for _, spec := range itemSpecs {
			item, err := parseReminderItemSpec(spec)
			if err != nil {
				return err
			}
			r.Items = append(r.Items, item)
		}

		saved, err := st.AddReminder(r)
		if err != nil {
			return fmt.Errorf("failed to add reminder: %w", err)
		}
		state := stats.ReminderStatus(saved, stats.CurrentMileage(st.Records(), st.FuelRecords()), now())
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Added reminder"))
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", ui.FormatReminder(&saved, state, now()))
		return nil
	},
}

var reminderListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List reminders with their due status",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		snap := st.Snapshot()
		mileage := stats.CurrentMileage(snap.Data.Records, snap.Data.FuelRecords)
		t := now()
		out := cmd.OutOrStdout()
		shown := 0
		for i := range snap.Data.Reminders {
			r := &snap.Data.Reminders[i]
			if r.Completed && !all {
				continue
			}
			fmt.Fprintln(out, ui.FormatReminder(r, stats.ReminderStatus(*r, mileage, t), t))
			shown++
		}
		if shown == 0 {
			fmt.Fprintln(out, "No active reminders. Use 'carlog reminder add' to add one.")
		}
		return nil
	},
}

var reminderEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := st.Reminder(args[0]); err != nil {
			return err
		}
		due, err := changedDate(cmd, "due")
		if err != nil {
			return err
		}
		priority, err := changedPriority(cmd, "priority")
		if err != nil {
			return err
		}
		clearDue, _ := cmd.Flags().GetBool("clear-due")
		clearMileage, _ := cmd.Flags().GetBool("clear-due-mileage")
		patch := store.ReminderPatch{
			Title:           changedString(cmd, "title"),
			Description:     changedString(cmd, "description"),
			DueDate:         due,
			ClearDueDate:    clearDue,
			DueMileage:      changedInt(cmd, "due-mileage"),
			ClearDueMileage: clearMileage,
			Priority:        priority,
		}
		if s := changedString(cmd, "type"); s != nil {
			rtype, err := models.ParseReminderType(*s)
			if err != nil {
				return err
			}
			patch.Type = &rtype
		}
		if cmd.Flags().Changed("item") {
			specs, _ := cmd.Flags().GetStringArray("item")
			items := []models.ReminderItem{}
			for _, spec := range specs {
				item, err := parseReminderItemSpec(spec)
				if err != nil {
					return err
				}
				items = append(items, item)
			}
			patch.Items = &items
		}
		if err := st.UpdateReminder(args[0], patch); err != nil {
			return fmt.Errorf("failed to update reminder: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Updated reminder %s", ui.ShortID(args[0])))
		return nil
	},
}

var reminderDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a reminder completed without logging a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := st.Reminder(args[0]); err != nil {
			return err
		}
		done := true
		if err := st.UpdateReminder(args[0], store.ReminderPatch{Completed: &done}); err != nil {
			return fmt.Errorf("failed to complete reminder: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Completed reminder %s", ui.ShortID(args[0])))
		return nil
	},
}

var reminderRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a reminder",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.RemoveReminder(args[0]); err != nil {
			return fmt.Errorf("failed to remove reminder: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Removed reminder %s", ui.ShortID(args[0])))
		return nil
	},
}

func init() {
	reminderAddCmd.Flags().String("due", "", "due date YYYY-MM-DD")
	reminderAddCmd.Flags().Int("due-mileage", 0, "odometer reading it is due at")
	reminderAddCmd.Flags().StringP("type", "t", "time", "which due fields apply: time, mileage or both")
	reminderAddCmd.Flags().StringP("priority", "p", "medium", "low, medium or high")
	reminderAddCmd.Flags().StringP("description", "d", "", "description")
	reminderAddCmd.Flags().StringArrayP("item", "i", nil, "planned item Category/Name:estimate (repeatable)")

	reminderListCmd.Flags().BoolP("all", "a", false, "include completed reminders")

	reminderEditCmd.Flags().String("title", "", "title")
	reminderEditCmd.Flags().String("due", "", "due date YYYY-MM-DD")
	reminderEditCmd.Flags().Bool("clear-due", false, "remove the due date")
	reminderEditCmd.Flags().Int("due-mileage", 0, "odometer reading it is due at")
	reminderEditCmd.Flags().Bool("clear-due-mileage", false, "remove the due mileage")
	reminderEditCmd.Flags().StringP("type", "t", "", "time, mileage or both")
	reminderEditCmd.Flags().StringP("priority", "p", "", "low, medium or high")
	reminderEditCmd.Flags().StringP("description", "d", "", "description")
	reminderEditCmd.Flags().StringArrayP("item", "i", nil, "replacement planned items (repeatable)")

	reminderCmd.AddCommand(reminderAddCmd, reminderListCmd, reminderEditCmd, reminderDoneCmd, reminderRemoveCmd)
	rootCmd.AddCommand(reminderCmd)
}
