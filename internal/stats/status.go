// ABOUTME: Expiry and reminder status classification plus the dashboard bundle
// ABOUTME: Day counts are whole calendar days relative to the caller's now

package stats

import (
	"time"

	"github.com/harper/carlog/internal/models"
)

// ExpiryWindowDays is how far ahead an expiry counts as soon.
const ExpiryWindowDays = 30

// ReminderMileageWindow is how close a due odometer reading counts as soon.
const ReminderMileageWindow = 1000

// DaysUntil returns whole calendar days from now's day to d. Negative means past.
func DaysUntil(d models.Date, now time.Time) int {
	today := models.DateOf(now)
	return int(d.Sub(today.Time).Hours() / 24)
}

// ExpiryStatus classifies a purchased item's shelf life.
type ExpiryStatus string

const (
	ExpiryNone         ExpiryStatus = "none"
	ExpiryExpired      ExpiryStatus = "expired"
	ExpiryExpiringSoon ExpiryStatus = "expiring_soon"
	ExpiryNormal       ExpiryStatus = "normal"
)

// ClassifyExpiry reports whether an item has expired, expires within the
// window, or neither. Items without an expiry date are ExpiryNone.
func ClassifyExpiry(item models.PurchasedItem, now time.Time) ExpiryStatus {
	if item.ExpiryDate == nil || item.ExpiryDate.IsZero() {
		return ExpiryNone
	}
	days := DaysUntil(*item.ExpiryDate, now)
	switch {
	case days < 0:
		return ExpiryExpired
	case days <= ExpiryWindowDays:
		return ExpiryExpiringSoon
	}
	return ExpiryNormal
}

// ExpiryReport groups purchased items by expiry status.
type ExpiryReport struct {
	Expired      []models.PurchasedItem `json:"expired"`
	ExpiringSoon []models.PurchasedItem `json:"expiringSoon"`
}

// ExpiryBuckets collects expired and soon-expiring items.
func ExpiryBuckets(items []models.PurchasedItem, now time.Time) ExpiryReport {
	var r ExpiryReport
	for _, item := range items {
		switch ClassifyExpiry(item, now) {
		case ExpiryExpired:
			r.Expired = append(r.Expired, item)
		case ExpiryExpiringSoon:
			r.ExpiringSoon = append(r.ExpiringSoon, item)
		}
	}
	return r
}

// ReminderState classifies a reminder against the calendar and odometer.
type ReminderState string

const (
	ReminderCompleted ReminderState = "completed"
	ReminderOverdue   ReminderState = "overdue"
	ReminderDueSoon   ReminderState = "due_soon"
	ReminderUpcoming  ReminderState = "upcoming"
)

// ReminderStatus classifies r. Only the due fields selected by the
// reminder's type take part.
func ReminderStatus(r models.Reminder, currentMileage int, now time.Time) ReminderState {
	if r.Completed {
		return ReminderCompleted
	}
	soon := false
	if r.Type.UsesDate() && r.DueDate != nil && !r.DueDate.IsZero() {
		days := DaysUntil(*r.DueDate, now)
		if days < 0 {
			return ReminderOverdue
		}
		soon = soon || days <= ExpiryWindowDays
	}
	if r.Type.UsesMileage() && r.DueMileage != nil {
		left := *r.DueMileage - currentMileage
		if left <= 0 {
			return ReminderOverdue
		}
		soon = soon || left <= ReminderMileageWindow
	}
	if soon {
		return ReminderDueSoon
	}
	return ReminderUpcoming
}

// ReminderView pairs a reminder with its computed state.
type ReminderView struct {
	Reminder models.Reminder `json:"reminder"`
	State    ReminderState   `json:"state"`
}

// Dashboard is the overview shown on the home screen.
type Dashboard struct {
	Costs             CostSummary               `json:"costs"`
	Fuel              FuelSummary               `json:"fuel"`
	Consumption       ConsumptionSummary        `json:"consumption"`
	Trend             []MonthBucket             `json:"trend"`
	FuelTrend         []FuelMonthBucket         `json:"fuelTrend"`
	CurrentMileage    int                       `json:"currentMileage"`
	LastMaintenance   *models.MaintenanceRecord `json:"lastMaintenance,omitempty"`
	ActiveIncomplete  []models.IncompleteItem   `json:"activeIncomplete"`
	ActiveReminders   []ReminderView            `json:"activeReminders"`
	ReminderEstimate  float64                   `json:"reminderEstimate"`
	Expiry            ExpiryReport              `json:"expiry"`
	MultiUseInventory []models.PurchasedItem    `json:"multiUseInventory"`
}

// TrendMonths is the length of the dashboard trends.
const TrendMonths = 6

// BuildDashboard computes every dashboard figure from data.
// Records are expected newest first, as the store keeps them.
func BuildDashboard(data models.Data, now time.Time) Dashboard {
	d := Dashboard{
		Costs:          Costs(data.Records),
		Fuel:           Fuel(data.FuelRecords),
		Consumption:    Consumption(data.FuelRecords),
		Trend:          MonthlyTrend(data.Records, now, TrendMonths),
		FuelTrend:      MonthlyFuelTrend(data.FuelRecords, now, TrendMonths),
		CurrentMileage: CurrentMileage(data.Records, data.FuelRecords),
		Expiry:         ExpiryBuckets(data.PurchasedItems, now),
	}
	if len(data.Records) > 0 {
		last := data.Records[0]
		d.LastMaintenance = &last
	}
	for _, item := range data.IncompleteItems {
		if !item.Completed {
			d.ActiveIncomplete = append(d.ActiveIncomplete, item)
		}
	}
	for _, r := range data.Reminders {
		if r.Completed {
			continue
		}
		d.ActiveReminders = append(d.ActiveReminders, ReminderView{
			Reminder: r,
			State:    ReminderStatus(r, d.CurrentMileage, now),
		})
		d.ReminderEstimate += r.EstimatedTotal()
	}
	for _, p := range data.PurchasedItems {
		if p.IsMultiUse {
			d.MultiUseInventory = append(d.MultiUseInventory, p)
		}
	}
	return d
}
