// ABOUTME: Category vocabulary and fuel pick-list commands
// ABOUTME: Edits the suggestion lists used when entering items and fill-ups

package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/harper/carlog/internal/store"
	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Manage maintenance categories and their items",
}

var categoryListCmd = &cobra.Command{
	Use:     "list [category]",
	Aliases: []string{"ls"},
	Short:   "List categories, or the items of one category",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cats := st.Categories()
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			items, ok := cats[args[0]]
			if !ok {
				return fmt.Errorf("category %q not found", args[0])
			}
			for _, item := range items {
				fmt.Fprintln(out, item)
			}
			return nil
		}
		for _, name := range cats.Names() {
			fmt.Fprintf(out, "%s (%d)\n", color.CyanString(name), len(cats[name]))
		}
		return nil
	},
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <category> [item...]",
	Short: "Add a category, or items to a category",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			if err := st.AddCategory(args[0]); err != nil {
				return fmt.Errorf("failed to add category: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Added category %s", args[0]))
			return nil
		}
		if err := st.AddCategory(args[0]); err != nil {
			return fmt.Errorf("failed to add category: %w", err)
		}
		for _, item := range args[1:] {
			if err := st.AddItemToCategory(args[0], item); err != nil {
				return fmt.Errorf("failed to add item: %w", err)
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Added %d item(s) to %s", len(args)-1, args[0]))
		return nil
	},
}

var categoryRemoveCmd = &cobra.Command{
	Use:     "remove <category> [item...]",
	Aliases: []string{"rm"},
	Short:   "Remove a category, or items from a category",
	Long: `Remove a category with all its items, or only the named items.
Existing records keep their category and item text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			if err := st.RemoveCategory(args[0]); err != nil {
				return fmt.Errorf("failed to remove category: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Removed category %s", args[0]))
			return nil
		}
		for _, item := range args[1:] {
			if err := st.RemoveItemFromCategory(args[0], item); err != nil {
				return fmt.Errorf("failed to remove item: %w", err)
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Removed %d item(s) from %s", len(args)-1, args[0]))
		return nil
	},
}

var optionCmd = &cobra.Command{
	Use:   "option",
	Short: "Manage fuel pick lists (fuel-types, payment-methods, gas-stations, locations)",
}

func parseOptionList(name string) (store.FuelOptionList, error) {
	list := store.FuelOptionList(name)
	if !slices.Contains(store.FuelOptionLists, list) {
		names := make([]string, len(store.FuelOptionLists))
		for i, l := range store.FuelOptionLists {
			names[i] = string(l)
		}
		return "", fmt.Errorf("unknown option list %q (use %s)", name, strings.Join(names, ", "))
	}
	return list, nil
}

var optionListCmd = &cobra.Command{
	Use:     "list [list]",
	Aliases: []string{"ls"},
	Short:   "Show the fuel pick lists",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := st.FuelOptions()
		values := map[store.FuelOptionList][]string{
			store.FuelTypes:      opts.FuelTypes,
			store.PaymentMethods: opts.PaymentMethods,
			store.GasStations:    opts.GasStations,
			store.Locations:      opts.Locations,
		}
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			list, err := parseOptionList(args[0])
			if err != nil {
				return err
			}
			for _, v := range values[list] {
				fmt.Fprintln(out, v)
			}
			return nil
		}
		for _, list := range store.FuelOptionLists {
			fmt.Fprintf(out, "%s: %s\n", color.CyanString(string(list)), strings.Join(values[list], ", "))
		}
		return nil
	},
}

var optionAddCmd = &cobra.Command{
	Use:   "add <list> <value>",
	Short: "Add a value to a fuel pick list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := parseOptionList(args[0])
		if err != nil {
			return err
		}
		if err := st.AddFuelOption(list, args[1]); err != nil {
			return fmt.Errorf("failed to add option: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Added %s to %s", args[1], list))
		return nil
	},
}

var optionRemoveCmd = &cobra.Command{
	Use:     "remove <list> <value>",
	Aliases: []string{"rm"},
	Short:   "Remove a value from a fuel pick list",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := parseOptionList(args[0])
		if err != nil {
			return err
		}
		if err := st.RemoveFuelOption(list, args[1]); err != nil {
			return fmt.Errorf("failed to remove option: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Removed %s from %s", args[1], list))
		return nil
	},
}

func init() {
	categoryCmd.AddCommand(categoryListCmd, categoryAddCmd, categoryRemoveCmd)
	optionCmd.AddCommand(optionListCmd, optionAddCmd, optionRemoveCmd)
	rootCmd.AddCommand(categoryCmd, optionCmd)
}
