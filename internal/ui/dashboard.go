// ABOUTME: Terminal rendering of the dashboard overview
// ABOUTME: Prints cost, fuel, reminder, inventory and trend sections

package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harper/carlog/internal/stats"
)

// trendBarWidth is the widest bar drawn in a trend chart.
const trendBarWidth = 30

func heading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", color.New(color.Bold, color.Underline).Sprint(title))
}

// WriteDashboard renders d as plain sections.
func WriteDashboard(w io.Writer, d stats.Dashboard, now time.Time) {
	heading(w, "Overview")
	fmt.Fprintf(w, "  Current mileage:   %d km\n", d.CurrentMileage)
	fmt.Fprintf(w, "  Maintenance:       %s over %d records (saved %s)\n",
		color.GreenString(FormatMoney(d.Costs.Actual)), d.Costs.Count, FormatMoney(d.Costs.Savings))
	fmt.Fprintf(w, "  Fuel:              %s for %.2f L over %d fill-ups\n",
		color.GreenString(FormatMoney(d.Fuel.TotalCost)), d.Fuel.TotalAmount, d.Fuel.Count)
	if d.Consumption.OK {
		fmt.Fprintf(w, "  Consumption:       %.2f L/100km\n", d.Consumption.Average)
	} else {
		fmt.Fprintf(w, "  Consumption:       %s\n", faint.Sprint("needs two full-tank fill-ups"))
	}
	if d.LastMaintenance != nil {
		fmt.Fprintf(w, "  Last maintenance:  %s (%s)\n",
			d.LastMaintenance.Date.String(), FormatRelativeDays(d.LastMaintenance.Date, now))
	}

	if len(d.ActiveReminders) > 0 {
		heading(w, "Reminders")
		for i := range d.ActiveReminders {
			v := d.ActiveReminders[i]
			fmt.Fprintf(w, "  %s\n", FormatReminder(&v.Reminder, v.State, now))
		}
		if d.ReminderEstimate > 0 {
			fmt.Fprintf(w, "  %s\n", faint.Sprintf("estimated total %s", FormatMoney(d.ReminderEstimate)))
		}
	}

	if len(d.ActiveIncomplete) > 0 {
		heading(w, "Open problems")
		for i := range d.ActiveIncomplete {
			fmt.Fprintf(w, "  %s\n", FormatIncompleteItem(&d.ActiveIncomplete[i]))
		}
	}

	if len(d.Expiry.Expired) > 0 || len(d.Expiry.ExpiringSoon) > 0 {
		heading(w, "Expiry")
		for i := range d.Expiry.Expired {
			fmt.Fprintf(w, "  %s\n", FormatPurchasedItem(&d.Expiry.Expired[i], now))
		}
		for i := range d.Expiry.ExpiringSoon {
			fmt.Fprintf(w, "  %s\n", FormatPurchasedItem(&d.Expiry.ExpiringSoon[i], now))
		}
	}

	if len(d.MultiUseInventory) > 0 {
		heading(w, "Multi-use inventory")
		for i := range d.MultiUseInventory {
			fmt.Fprintf(w, "  %s\n", FormatPurchasedItem(&d.MultiUseInventory[i], now))
		}
	}

	heading(w, "Maintenance trend")
	maxCost := 0.0
	for _, b := range d.Trend {
		maxCost = max(maxCost, b.Actual)
	}
	for _, b := range d.Trend {
		fmt.Fprintf(w, "  %s %s %s\n", b.Label(), bar(b.Actual, maxCost), FormatMoney(b.Actual))
	}

	heading(w, "Fuel trend")
	maxFuel := 0.0
	for _, b := range d.FuelTrend {
		maxFuel = max(maxFuel, b.Cost)
	}
	for _, b := range d.FuelTrend {
		fmt.Fprintf(w, "  %s %s %s  %.2f L\n", b.Label(), bar(b.Cost, maxFuel), FormatMoney(b.Cost), b.Amount)
	}
}

func bar(v, maxV float64) string {
	n := 0
	if maxV > 0 {
		n = int(v / maxV * trendBarWidth)
	}
	return color.CyanString(strings.Repeat("█", n)) + strings.Repeat(" ", trendBarWidth-n)
}
