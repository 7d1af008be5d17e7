// ABOUTME: Derived statistics over the vehicle log
// ABOUTME: Cost, fuel, consumption, monthly trend, expiry and reminder status calculations

// Package stats computes read-only summaries of stored data. Every function
// is pure; callers pass the current time where it matters.
package stats

import (
	"sort"
	"time"

	"github.com/harper/carlog/internal/models"
)

// CostSummary totals maintenance spending.
type CostSummary struct {
	Actual   float64 `json:"actual"`
	Original float64 `json:"original"`
	Savings  float64 `json:"savings"`
	Count    int     `json:"count"`
}

// Costs sums the cost totals of records.
func Costs(records []models.MaintenanceRecord) CostSummary {
	var s CostSummary
	for _, r := range records {
		s.Actual += r.TotalActualCost
		s.Original += r.TotalOriginalCost
	}
	s.Savings = s.Original - s.Actual
	s.Count = len(records)
	return s
}

// FuelSummary totals fuel spending.
type FuelSummary struct {
	TotalCost    float64 `json:"totalCost"`
	TotalAmount  float64 `json:"totalAmount"`
	AveragePrice float64 `json:"averagePrice"`
	Count        int     `json:"count"`
}

// Fuel sums fuel records. AveragePrice is zero when no fuel was bought.
func Fuel(records []models.FuelRecord) FuelSummary {
	var s FuelSummary
	for _, r := range records {
		s.TotalCost += r.TotalCost
		s.TotalAmount += r.FuelAmount
	}
	if s.TotalAmount > 0 {
		s.AveragePrice = s.TotalCost / s.TotalAmount
	}
	s.Count = len(records)
	return s
}

// ConsumptionPoint is the consumption measured at one full-tank fill-up.
type ConsumptionPoint struct {
	Date       models.Date `json:"date"`
	Mileage    int         `json:"mileage"`
	Distance   int         `json:"distance"`
	FuelAmount float64     `json:"fuelAmount"`
	Rate       float64     `json:"rate"`
}

// ConsumptionSummary is fuel use in liters per 100 distance units.
type ConsumptionSummary struct {
	Average float64            `json:"average"`
	Points  []ConsumptionPoint `json:"points"`
	OK      bool               `json:"ok"`
}

// Consumption measures fuel use between consecutive full-tank fill-ups
// ordered by odometer. Each fill-up's amount is charged to the distance
// driven since the previous one.
func Consumption(records []models.FuelRecord) ConsumptionSummary {
	var full []models.FuelRecord
	for _, r := range records {
		if r.IsFullTank {
			full = append(full, r)
		}
	}
	sort.SliceStable(full, func(i, j int) bool { return full[i].Mileage < full[j].Mileage })

	var s ConsumptionSummary
	var total float64
	for i := 1; i < len(full); i++ {
		cur, prev := full[i], full[i-1]
		distance := cur.Mileage - prev.Mileage
		if distance <= 0 {
			continue
		}
		rate := cur.FuelAmount / float64(distance) * 100
		s.Points = append(s.Points, ConsumptionPoint{
			Date:       cur.Date,
			Mileage:    cur.Mileage,
			Distance:   distance,
			FuelAmount: cur.FuelAmount,
			Rate:       rate,
		})
		total += rate
	}
	if len(s.Points) > 0 {
		s.Average = total / float64(len(s.Points))
		s.OK = true
	}
	return s
}

// MonthBucket aggregates maintenance spending for one calendar month.
type MonthBucket struct {
	Year     int        `json:"year"`
	Month    time.Month `json:"month"`
	Actual   float64    `json:"actual"`
	Original float64    `json:"original"`
	Count    int        `json:"count"`
}

// Label formats the bucket as YYYY-MM.
func (b MonthBucket) Label() string {
	return time.Date(b.Year, b.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// FuelMonthBucket aggregates fuel spending for one calendar month.
type FuelMonthBucket struct {
	Year   int        `json:"year"`
	Month  time.Month `json:"month"`
	Cost   float64    `json:"cost"`
	Amount float64    `json:"amount"`
	Count  int        `json:"count"`
}

// Label formats the bucket as YYYY-MM.
func (b FuelMonthBucket) Label() string {
	return time.Date(b.Year, b.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// monthStarts returns the first day of the last n months, oldest first,
// ending with the month containing now.
func monthStarts(now time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC))
	}
	return out
}

func sameMonth(d models.Date, m time.Time) bool {
	return d.Year() == m.Year() && d.Month() == m.Month()
}

// MonthlyTrend buckets maintenance spending over the last months months.
func MonthlyTrend(records []models.MaintenanceRecord, now time.Time, months int) []MonthBucket {
	starts := monthStarts(now, months)
	out := make([]MonthBucket, len(starts))
	for i, m := range starts {
		out[i] = MonthBucket{Year: m.Year(), Month: m.Month()}
		for _, r := range records {
			if sameMonth(r.Date, m) {
				out[i].Actual += r.TotalActualCost
				out[i].Original += r.TotalOriginalCost
				out[i].Count++
			}
		}
	}
	return out
}

// MonthlyFuelTrend buckets fuel spending over the last months months.
func MonthlyFuelTrend(records []models.FuelRecord, now time.Time, months int) []FuelMonthBucket {
	starts := monthStarts(now, months)
	out := make([]FuelMonthBucket, len(starts))
	for i, m := range starts {
		out[i] = FuelMonthBucket{Year: m.Year(), Month: m.Month()}
		for _, r := range records {
			if sameMonth(r.Date, m) {
				out[i].Cost += r.TotalCost
				out[i].Amount += r.FuelAmount
				out[i].Count++
			}
		}
	}
	return out
}

// CurrentMileage returns the highest odometer reading across all records.
func CurrentMileage(records []models.MaintenanceRecord, fuel []models.FuelRecord) int {
	var m int
	for _, r := range records {
		m = max(m, r.Mileage)
	}
	for _, f := range fuel {
		m = max(m, f.Mileage)
	}
	return m
}
