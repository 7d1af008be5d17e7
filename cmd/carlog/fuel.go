// ABOUTME: Fuel record commands
// ABOUTME: Adds, lists, edits and removes fill-ups and shows consumption

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

var fuelCmd = &cobra.Command{
	Use:     "fuel",
	Aliases: []string{"f"},
	Short:   "Manage fuel records",
}

var fuelAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a fill-up",
	Long: `Log a fill-up. The per-liter price actually paid is derived from
--cost and --liters.

Examples:
  carlog fuel add --mileage 12500 --liters 40 --cost 300 --full
  carlog fuel add --mileage 12900 --liters 35.5 --cost 270 --price 8.1 --station Sinopec --type 95`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dateStr, _ := cmd.Flags().GetString("date")
		date, err := parseDateFlag(dateStr)
		if err != nil {
			return err
		}
		mileage, _ := cmd.Flags().GetInt("mileage")
		liters, _ := cmd.Flags().GetFloat64("liters")
		cost, _ := cmd.Flags().GetFloat64("cost")
		price, _ := cmd.Flags().GetFloat64("price")
		station, _ := cmd.Flags().GetString("station")
		fuelType, _ := cmd.Flags().GetString("type")
		location, _ := cmd.Flags().GetString("location")
		payment, _ := cmd.Flags().GetString("payment")
		full, _ := cmd.Flags().GetBool("full")
		notes, _ := cmd.Flags().GetString("notes")
		attachPaths, _ := cmd.Flags().GetStringArray("attach")

		rec := models.FuelRecord{
			Date:             date,
			Mileage:          mileage,
			FuelAmount:       liters,
			PreDiscountPrice: price,
			OriginalPrice:    price,
			TotalCost:        cost,
			GasStation:       station,
			FuelType:         fuelType,
			Location:         location,
			PaymentMethod:    payment,
			IsFullTank:       full,
			Notes:            notes,
		}
		if rec.Attachments, err = loadAttachments(attachPaths); err != nil {
			return err
		}

		saved, err := st.AddFuelRecord(rec)
		if err != nil {
			return fmt.Errorf("failed to add fuel record: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Added fuel record"))
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", ui.FormatFuelRecord(&saved))
		return nil
	},
}

var fuelListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List fill-ups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		records := st.FuelRecords()
		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No fuel records yet. Use 'carlog fuel add' to add one.")
			return nil
		}
		consumption := stats.Consumption(records)
		if limit > 0 && limit < len(records) {
			records = records[:limit]
		}
		for i := range records {
			fmt.Fprintln(out, ui.FormatFuelRecord(&records[i]))
		}
		if consumption.OK {
			fmt.Fprintf(out, "\nAverage consumption: %.2f L/100km\n", consumption.Average)
		}
		return nil
	},
}

var fuelEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a fill-up",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := st.FuelRecord(args[0]); err != nil {
			return err
		}
		date, err := changedDate(cmd, "date")
		if err != nil {
			return err
		}
		patch := store.FuelRecordPatch{
			Date:             date,
			Mileage:          changedInt(cmd, "mileage"),
			FuelAmount:       changedFloat(cmd, "liters"),
			TotalCost:        changedFloat(cmd, "cost"),
			PreDiscountPrice: changedFloat(cmd, "price"),
			GasStation:       changedString(cmd, "station"),
			FuelType:         changedString(cmd, "type"),
			Location:         changedString(cmd, "location"),
			PaymentMethod:    changedString(cmd, "payment"),
			IsFullTank:       changedBool(cmd, "full"),
			Notes:            changedString(cmd, "notes"),
		}
		if err := st.UpdateFuelRecord(args[0], patch); err != nil {
			return fmt.Errorf("failed to update fuel record: %w", err)
		}
		rec, _ := st.FuelRecord(args[0])
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Updated fuel record"))
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", ui.FormatFuelRecord(&rec))
		return nil
	},
}

var fuelRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a fill-up",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.RemoveFuelRecord(args[0]); err != nil {
			return fmt.Errorf("failed to remove fuel record: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Removed fuel record %s", ui.ShortID(args[0])))
		return nil
	},
}

func addFuelFlags(cmd *cobra.Command) {
	cmd.Flags().String("date", "", "fill-up date YYYY-MM-DD")
	cmd.Flags().IntP("mileage", "m", 0, "odometer reading")
	cmd.Flags().Float64P("liters", "l", 0, "liters bought")
	cmd.Flags().Float64P("cost", "c", 0, "amount paid")
	cmd.Flags().Float64("price", 0, "pump price per liter before discounts")
	cmd.Flags().String("station", "", "gas station")
	cmd.Flags().String("type", "", "fuel type (e.g., 92, 95, diesel)")
	cmd.Flags().String("location", "", "location")
	cmd.Flags().String("payment", "", "payment method")
	cmd.Flags().Bool("full", false, "tank filled to the top")
	cmd.Flags().StringP("notes", "n", "", "notes")
}

func init() {
	addFuelFlags(fuelAddCmd)
	fuelAddCmd.Flags().StringArray("attach", nil, "file to attach (repeatable)")
	_ = fuelAddCmd.MarkFlagRequired("mileage")
	_ = fuelAddCmd.MarkFlagRequired("liters")
	_ = fuelAddCmd.MarkFlagRequired("cost")

	fuelListCmd.Flags().Int("limit", 0, "show at most this many records")

	addFuelFlags(fuelEditCmd)

	fuelCmd.AddCommand(fuelAddCmd, fuelListCmd, fuelEditCmd, fuelRemoveCmd)
	rootCmd.AddCommand(fuelCmd)
}
