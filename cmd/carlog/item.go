// ABOUTME: Purchased item (inventory) commands
// ABOUTME: Tracks parts and consumables bought ahead of use and their expiry

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

var itemCmd = &cobra.Command{
	Use:     "item",
	Aliases: []string{"inventory", "inv"},
	Short:   "Manage purchased parts and consumables",
}

var itemAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Record a purchase",
	Long: `Record a part or consumable bought ahead of use.

Multi-use items (a bottle of oil, a can of coolant) lose one unit each time
a maintenance record lists an item with the same category and name.

Examples:
  carlog item add "Wiper blade" --category Body --qty 2 --price 60
  carlog item add Oil --category Engine --multi --total 4 --price 300 --expires 2026-01-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		boughtStr, _ := cmd.Flags().GetString("bought")
		bought, err := parseDateFlag(boughtStr)
		if err != nil {
			return err
		}
		expiresStr, _ := cmd.Flags().GetString("expires")
		expires, err := models.DatePtr(expiresStr)
		if err != nil {
			return err
		}
		category, _ := cmd.Flags().GetString("category")
		qty, _ := cmd.Flags().GetInt("qty")
		multi, _ := cmd.Flags().GetBool("multi")
		total, _ := cmd.Flags().GetInt("total")
		price, _ := cmd.Flags().GetFloat64("price")
		supplier, _ := cmd.Flags().GetString("supplier")
		notes, _ := cmd.Flags().GetString("notes")

		p := models.PurchasedItem{
			Name:          args[0],
			Category:      category,
			PurchaseDate:  bought,
			ExpiryDate:    expires,
			Quantity:      qty,
			IsMultiUse:    multi,
			TotalQuantity: total,
			Price:         price,
			Supplier:      supplier,
			Notes:         notes,
		}
		if multi {
			p.RemainingQuantity = total
			if r := changedInt(cmd, "remaining"); r != nil {
				p.RemainingQuantity = *r
			}
		}

		saved, err := st.AddPurchasedItem(p)
		if err != nil {
			return fmt.Errorf("failed to add item: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Added purchased item"))
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", ui.FormatPurchasedItem(&saved, now()))
		return nil
	},
}

var itemListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List purchased items",
	RunE: func(cmd *cobra.Command, args []string) error {
		expiring, _ := cmd.Flags().GetBool("expiring")

		items := st.PurchasedItems()
		t := now()
		out := cmd.OutOrStdout()
		shown := 0
		for i := range items {
			if expiring {
				s := stats.ClassifyExpiry(items[i], t)
				if s != stats.ExpiryExpired && s != stats.ExpiryExpiringSoon {
					continue
				}
			}
			fmt.Fprintln(out, ui.FormatPurchasedItem(&items[i], t))
			shown++
		}
		if shown == 0 {
			fmt.Fprintln(out, "No purchased items to show.")
		}
		return nil
	},
}

var itemEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a purchased item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := st.PurchasedItem(args[0]); err != nil {
			return err
		}
		bought, err := changedDate(cmd, "bought")
		if err != nil {
			return err
		}
		expires, err := changedDate(cmd, "expires")
		if err != nil {
			return err
		}
		clearExpiry, _ := cmd.Flags().GetBool("clear-expiry")
		patch := store.PurchasedItemPatch{
			Name:              changedString(cmd, "name"),
			Category:          changedString(cmd, "category"),
			PurchaseDate:      bought,
			ExpiryDate:        expires,
			ClearExpiry:       clearExpiry,
			Quantity:          changedInt(cmd, "qty"),
			TotalQuantity:     changedInt(cmd, "total"),
			RemainingQuantity: changedInt(cmd, "remaining"),
			Price:             changedFloat(cmd, "price"),
			Supplier:          changedString(cmd, "supplier"),
			Notes:             changedString(cmd, "notes"),
			IsMultiUse:        changedBool(cmd, "multi"),
		}
		if err := st.UpdatePurchasedItem(args[0], patch); err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}
		p, _ := st.PurchasedItem(args[0])
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Updated purchased item"))
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", ui.FormatPurchasedItem(&p, now()))
		return nil
	},
}

var itemRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a purchased item",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.RemovePurchasedItem(args[0]); err != nil {
			return fmt.Errorf("failed to remove item: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Removed purchased item %s", ui.ShortID(args[0])))
		return nil
	},
}

func addItemFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("category", "c", "", "category")
	cmd.Flags().String("bought", "", "purchase date YYYY-MM-DD")
	cmd.Flags().String("expires", "", "expiry date YYYY-MM-DD")
	cmd.Flags().Int("qty", 0, "units bought (single-use items)")
	cmd.Flags().Bool("multi", false, "item is used up over several visits")
	cmd.Flags().Int("total", 0, "uses the item provides (multi-use items)")
	cmd.Flags().Int("remaining", 0, "uses left (multi-use items)")
	cmd.Flags().Float64("price", 0, "price paid")
	cmd.Flags().String("supplier", "", "supplier")
	cmd.Flags().StringP("notes", "n", "", "notes")
}

func init() {
	addItemFlags(itemAddCmd)
	_ = itemAddCmd.MarkFlagRequired("category")

	itemListCmd.Flags().Bool("expiring", false, "only expired and soon-expiring items")

	addItemFlags(itemEditCmd)
	itemEditCmd.Flags().String("name", "", "name")
	itemEditCmd.Flags().Bool("clear-expiry", false, "remove the expiry date")

	itemCmd.AddCommand(itemAddCmd, itemListCmd, itemEditCmd, itemRemoveCmd)
	rootCmd.AddCommand(itemCmd)
}
