// ABOUTME: Terminal UI formatting utilities
// ABOUTME: Provides human-readable output for records, fuel, reminders and inventory

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harper/carlog/internal/models"
	"github.com/harper/carlog/internal/stats"
)

// Currency prefixes every money amount.
const Currency = "¥"

var faint = color.New(color.Faint)

// ShortID returns the first 8 characters of an id for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FormatMoney formats an amount with two decimals.
func FormatMoney(v float64) string {
	return fmt.Sprintf("%s%.2f", Currency, v)
}

// FormatPriority colors a priority by urgency.
func FormatPriority(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return color.RedString(string(p))
	case models.PriorityMedium:
		return color.YellowString(string(p))
	}
	return faint.Sprint(string(p))
}

// FormatRecord formats a maintenance record summary line.
func FormatRecord(r *models.MaintenanceRecord) string {
	if r == nil {
		return faint.Sprint("(no record)")
	}
	line := fmt.Sprintf("%s %s  %s  %s",
		faint.Sprint(ShortID(r.ID)),
		color.CyanString(r.Date.String()),
		fmt.Sprintf("%d km", r.Mileage),
		color.GreenString(FormatMoney(r.TotalActualCost)))
	if saved := r.TotalOriginalCost - r.TotalActualCost; saved > 0 {
		line += faint.Sprintf(" (saved %s)", FormatMoney(saved))
	}
	if len(r.Attachments) > 0 {
		line += faint.Sprintf(" [%d attachments]", len(r.Attachments))
	}
	return line
}

// FormatRecordItems lists the items of a record, one per line.
func FormatRecordItems(r *models.MaintenanceRecord) string {
	if r == nil || len(r.Items) == 0 {
		return faint.Sprint("    (no items)")
	}
	var b strings.Builder
	for i, item := range r.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		mark := " "
		if item.Completed {
			mark = color.GreenString("✓")
		}
		fmt.Fprintf(&b, "    %s %s / %s  %s", mark, faint.Sprint(item.Category), item.Name, FormatMoney(item.ActualPrice))
		if item.OriginalPrice != item.ActualPrice {
			b.WriteString(faint.Sprintf(" (list %s)", FormatMoney(item.OriginalPrice)))
		}
		if item.Notes != "" {
			b.WriteString(faint.Sprintf(" - %s", item.Notes))
		}
	}
	return b.String()
}

// FormatFuelRecord formats a fill-up summary line.
func FormatFuelRecord(f *models.FuelRecord) string {
	if f == nil {
		return faint.Sprint("(no fuel record)")
	}
	tank := ""
	if f.IsFullTank {
		tank = color.GreenString(" full")
	}
	where := strings.TrimSpace(strings.Join([]string{f.GasStation, f.Location}, " "))
	line := fmt.Sprintf("%s %s  %d km  %.2f L  %s  %s/L%s",
		faint.Sprint(ShortID(f.ID)),
		color.CyanString(f.Date.String()),
		f.Mileage,
		f.FuelAmount,
		color.GreenString(FormatMoney(f.TotalCost)),
		FormatMoney(f.DiscountedPrice),
		tank)
	if where != "" {
		line += faint.Sprintf("  %s", where)
	}
	return line
}

// FormatReminder formats a reminder with its computed state.
func FormatReminder(r *models.Reminder, state stats.ReminderState, now time.Time) string {
	if r == nil {
		return faint.Sprint("(no reminder)")
	}
	var due []string
	if r.Type.UsesDate() && r.DueDate != nil {
		due = append(due, fmt.Sprintf("%s (%s)", r.DueDate.String(), FormatRelativeDays(*r.DueDate, now)))
	}
	if r.Type.UsesMileage() && r.DueMileage != nil {
		due = append(due, fmt.Sprintf("%d km", *r.DueMileage))
	}
	line := fmt.Sprintf("%s %s  %s  %s",
		faint.Sprint(ShortID(r.ID)),
		color.New(color.Bold).Sprint(r.Title),
		FormatPriority(r.Priority),
		FormatReminderState(state))
	if len(due) > 0 {
		line += "  due " + strings.Join(due, " or ")
	}
	if est := r.EstimatedTotal(); est > 0 {
		line += faint.Sprintf("  est. %s", FormatMoney(est))
	}
	return line
}

// FormatReminderState colors a reminder state.
func FormatReminderState(s stats.ReminderState) string {
	switch s {
	case stats.ReminderOverdue:
		return color.RedString("overdue")
	case stats.ReminderDueSoon:
		return color.YellowString("due soon")
	case stats.ReminderCompleted:
		return color.GreenString("done")
	}
	return faint.Sprint("upcoming")
}

// FormatIncompleteItem formats an outstanding problem.
func FormatIncompleteItem(i *models.IncompleteItem) string {
	if i == nil {
		return faint.Sprint("(no item)")
	}
	status := color.YellowString("open")
	if i.Completed {
		status = color.GreenString("done")
		if i.CompletedDate != nil {
			status += faint.Sprintf(" %s", i.CompletedDate.String())
		}
	}
	line := fmt.Sprintf("%s %s  %s  %s  found %s",
		faint.Sprint(ShortID(i.ID)),
		i.Name,
		FormatPriority(i.Priority),
		status,
		i.DateFound.String())
	if i.Description != "" {
		line += faint.Sprintf(" - %s", i.Description)
	}
	return line
}

// FormatPurchasedItem formats an inventory item with its expiry status.
func FormatPurchasedItem(p *models.PurchasedItem, now time.Time) string {
	if p == nil {
		return faint.Sprint("(no item)")
	}
	qty := fmt.Sprintf("x%d", p.Quantity)
	if p.IsMultiUse {
		qty = fmt.Sprintf("%d/%d left", p.RemainingQuantity, p.TotalQuantity)
	}
	line := fmt.Sprintf("%s %s  %s  %s  %s",
		faint.Sprint(ShortID(p.ID)),
		color.GreenString(p.Name),
		faint.Sprint(p.Category),
		qty,
		FormatMoney(p.Price))
	if p.ExpiryDate != nil {
		line += "  " + FormatExpiry(stats.ClassifyExpiry(*p, now), *p.ExpiryDate, now)
	}
	return line
}

// FormatExpiry describes an expiry date and colors it by status.
func FormatExpiry(status stats.ExpiryStatus, expiry models.Date, now time.Time) string {
	text := fmt.Sprintf("expires %s (%s)", expiry.String(), FormatRelativeDays(expiry, now))
	switch status {
	case stats.ExpiryExpired:
		return color.RedString(text)
	case stats.ExpiryExpiringSoon:
		return color.YellowString(text)
	}
	return faint.Sprint(text)
}

// FormatRelativeDays describes a calendar day relative to now's day.
func FormatRelativeDays(d models.Date, now time.Time) string {
	days := stats.DaysUntil(d, now)
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days > 0:
		return fmt.Sprintf("in %d days", days)
	}
	return fmt.Sprintf("%d days ago", -days)
}

// FormatRelativeTime formats a time as relative to now.
func FormatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	// Handle future times (clock skew, bad data)
	if diff < 0 {
		return color.YellowString("in the future")
	}

	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	}
	if diff < 24*time.Hour {
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := int(diff.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
