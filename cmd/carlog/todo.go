// ABOUTME: Incomplete item commands
// ABOUTME: Tracks problems found during maintenance until they are fixed

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/carlog/internal/models"
	"github.com/harper/carlog/internal/store"
	"github.com/harper/carlog/internal/ui"
	"github.com/spf13/cobra"
)

var todoCmd = &cobra.Command{
	Use:     "todo",
	Aliases: []string{"problem"},
	Short:   "Manage problems that still need work",
}

var todoAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "File a problem",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		foundStr, _ := cmd.Flags().GetString("found")
		found, err := parseDateFlag(foundStr)
		if err != nil {
			return err
		}
		priorityStr, _ := cmd.Flags().GetString("priority")
		priority, err := models.ParsePriority(priorityStr)
		if err != nil {
			return err
		}
		description, _ := cmd.Flags().GetString("description")

		saved, err := st.AddIncompleteItem(models.IncompleteItem{
			Name:        args[0],
			Description: description,
			DateFound:   found,
			Priority:    priority,
		})
		if err != nil {
			return fmt.Errorf("failed to add problem: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Filed problem"))
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", ui.FormatIncompleteItem(&saved))
		return nil
	},
}

var todoListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List open problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		items := st.IncompleteItems()
		out := cmd.OutOrStdout()
		shown := 0
		for i := range items {
			if items[i].Completed && !all {
				continue
			}
			fmt.Fprintln(out, ui.FormatIncompleteItem(&items[i]))
			shown++
		}
		if shown == 0 {
			fmt.Fprintln(out, "No open problems.")
		}
		return nil
	},
}

func setCompleted(cmd *cobra.Command, id string, completed bool) error {
	if _, err := st.IncompleteItem(id); err != nil {
		return err
	}
	patch := store.IncompleteItemPatch{Completed: &completed}
	if completed {
		dateStr, _ := cmd.Flags().GetString("date")
		date, err := parseDateFlag(dateStr)
		if err != nil {
			return err
		}
		patch.CompletedDate = &date
	}
	return st.UpdateIncompleteItem(id, patch)
}

var todoDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a problem fixed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setCompleted(cmd, args[0], true); err != nil {
			return fmt.Errorf("failed to complete problem: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Fixed %s", ui.ShortID(args[0])))
		return nil
	},
}

var todoReopenCmd = &cobra.Command{
	Use:   "reopen <id>",
	Short: "Mark a fixed problem open again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setCompleted(cmd, args[0], false); err != nil {
			return fmt.Errorf("failed to reopen problem: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("Reopened %s", ui.ShortID(args[0])))
		return nil
	},
}

var todoRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a problem",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.RemoveIncompleteItem(args[0]); err != nil {
			return fmt.Errorf("failed to remove problem: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Removed problem %s", ui.ShortID(args[0])))
		return nil
	},
}

func init() {
	todoAddCmd.Flags().String("found", "", "date found YYYY-MM-DD (default today)")
	todoAddCmd.Flags().StringP("priority", "p", "medium", "low, medium or high")
	todoAddCmd.Flags().StringP("description", "d", "", "description")

	todoListCmd.Flags().BoolP("all", "a", false, "include fixed problems")

	todoDoneCmd.Flags().String("date", "", "completion date YYYY-MM-DD (default today)")

	todoCmd.AddCommand(todoAddCmd, todoListCmd, todoDoneCmd, todoReopenCmd, todoRemoveCmd)
	rootCmd.AddCommand(todoCmd)
}
