// ABOUTME: Core data models for maintenance, fuel, reminder and inventory records
// ABOUTME: Provides constructors, enums and validation for vehicle log entities

package models

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyName       = errors.New("name cannot be empty or whitespace")
	ErrNameTooLong     = errors.New("name too long (max 255 characters)")
	ErrNegativeMileage = errors.New("mileage cannot be negative")
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidType     = errors.New("invalid reminder type")
	ErrMissingDate     = errors.New("date is required")
)

// Priority ranks incomplete items and reminders.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority accepts a priority name, defaulting blank input to medium.
func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PriorityMedium, nil
	}
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q (use low, medium or high)", ErrInvalidPriority, s)
	}
	return p, nil
}

// ReminderType selects which due fields of a reminder are meaningful.
type ReminderType string

const (
	ReminderTime    ReminderType = "time"
	ReminderMileage ReminderType = "mileage"
	ReminderBoth    ReminderType = "both"
)

// Valid reports whether t is one of the known reminder types.
func (t ReminderType) Valid() bool {
	switch t {
	case ReminderTime, ReminderMileage, ReminderBoth:
		return true
	}
	return false
}

// ParseReminderType accepts a reminder type name, defaulting blank input to time.
func ParseReminderType(s string) (ReminderType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ReminderTime, nil
	}
	t := ReminderType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q (use time, mileage or both)", ErrInvalidType, s)
	}
	return t, nil
}

// UsesDate reports whether the due date participates in due checks.
func (t ReminderType) UsesDate() bool { return t == ReminderTime || t == ReminderBoth }

// UsesMileage reports whether the due mileage participates in due checks.
func (t ReminderType) UsesMileage() bool { return t == ReminderMileage || t == ReminderBoth }

// FileAttachment is a file stored inline as a data URL.
type FileAttachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// MaintenanceItem is one line of work inside a maintenance record.
type MaintenanceItem struct {
	ID            string  `json:"id"`
	Category      string  `json:"category"`
	Name          string  `json:"name"`
	OriginalPrice float64 `json:"originalPrice"`
	ActualPrice   float64 `json:"actualPrice"`
	Completed     bool    `json:"completed"`
	Notes         string  `json:"notes,omitempty"`
}

// IncompleteItem is a problem found during maintenance that still needs work.
type IncompleteItem struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	DateFound     Date     `json:"dateFound"`
	Completed     bool     `json:"completed"`
	CompletedDate *Date    `json:"completedDate,omitempty"`
	Priority      Priority `json:"priority"`
}

// MaintenanceRecord is a single visit to the workshop.
type MaintenanceRecord struct {
	ID                 string            `json:"id"`
	Date               Date              `json:"date"`
	Mileage            int               `json:"mileage"`
	Items              []MaintenanceItem `json:"items"`
	TotalOriginalCost  float64           `json:"totalOriginalCost"`
	TotalActualCost    float64           `json:"totalActualCost"`
	Attachments        []FileAttachment  `json:"attachments"`
	IncompleteItems    []IncompleteItem  `json:"incompleteItems"`
	Notes              string            `json:"notes"`
	CompletedReminders []string          `json:"completedReminders"`
}

// RecomputeTotals sets both cost totals to the sums over the record's items.
func (r *MaintenanceRecord) RecomputeTotals() {
	var original, actual float64
	for _, item := range r.Items {
		original += item.OriginalPrice
		actual += item.ActualPrice
	}
	r.TotalOriginalCost = original
	r.TotalActualCost = actual
}

// CompletesReminder reports whether the record marks the given reminder as done.
func (r *MaintenanceRecord) CompletesReminder(id string) bool {
	for _, rid := range r.CompletedReminders {
		if rid == id {
			return true
		}
	}
	return false
}

// ReminderItem is a planned piece of work attached to a reminder.
type ReminderItem struct {
	ID             string   `json:"id"`
	Category       string   `json:"category"`
	Name           string   `json:"name"`
	EstimatedPrice *float64 `json:"estimatedPrice,omitempty"`
}

// Reminder is a standing notice of upcoming maintenance.
type Reminder struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Items       []ReminderItem `json:"items"`
	DueDate     *Date          `json:"dueDate,omitempty"`
	DueMileage  *int           `json:"dueMileage,omitempty"`
	Type        ReminderType   `json:"type"`
	Priority    Priority       `json:"priority"`
	Completed   bool           `json:"completed"`
}

// EstimatedTotal sums the estimated prices of the reminder's items.
func (r *Reminder) EstimatedTotal() float64 {
	var total float64
	for _, item := range r.Items {
		if item.EstimatedPrice != nil {
			total += *item.EstimatedPrice
		}
	}
	return total
}

// PurchasedItem is a consumable or part bought ahead of use.
type PurchasedItem struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Category          string  `json:"category"`
	PurchaseDate      Date    `json:"purchaseDate"`
	ExpiryDate        *Date   `json:"expiryDate,omitempty"`
	Quantity          int     `json:"quantity"`
	TotalQuantity     int     `json:"totalQuantity"`
	RemainingQuantity int     `json:"remainingQuantity"`
	Price             float64 `json:"price"`
	Supplier          string  `json:"supplier,omitempty"`
	Notes             string  `json:"notes,omitempty"`
	IsMultiUse        bool    `json:"isMultiUse"`
}

// Normalize enforces the quantity invariants.
// Single-use items track quantity only; multi-use items keep remaining within [0, total].
func (p *PurchasedItem) Normalize() {
	if !p.IsMultiUse {
		p.TotalQuantity = p.Quantity
		p.RemainingQuantity = p.Quantity
		return
	}
	if p.TotalQuantity < 0 {
		p.TotalQuantity = 0
	}
	if p.RemainingQuantity < 0 {
		p.RemainingQuantity = 0
	}
	if p.RemainingQuantity > p.TotalQuantity {
		p.RemainingQuantity = p.TotalQuantity
	}
}

// Matches reports whether a maintenance item refers to this purchase.
func (p *PurchasedItem) Matches(item MaintenanceItem) bool {
	return p.Name == item.Name && p.Category == item.Category
}

// FuelRecord is one visit to a gas station.
type FuelRecord struct {
	ID               string           `json:"id"`
	Date             Date             `json:"date"`
	Mileage          int              `json:"mileage"`
	FuelAmount       float64          `json:"fuelAmount"`
	PreDiscountPrice float64          `json:"preDiscountPrice"`
	OriginalPrice    float64          `json:"originalPrice"`
	TotalCost        float64          `json:"totalCost"`
	DiscountedPrice  float64          `json:"discountedPrice"`
	GasStation       string           `json:"gasStation"`
	FuelType         string           `json:"fuelType"`
	IsFullTank       bool             `json:"isFullTank"`
	Notes            string           `json:"notes,omitempty"`
	Location         string           `json:"location"`
	PaymentMethod    string           `json:"paymentMethod"`
	Attachments      []FileAttachment `json:"attachments"`
}

// RecomputeDiscountedPrice derives the per-liter price actually paid.
// A zero fuel amount yields zero rather than dividing by zero.
func (f *FuelRecord) RecomputeDiscountedPrice() {
	if f.FuelAmount == 0 {
		f.DiscountedPrice = 0
		return
	}
	f.DiscountedPrice = f.TotalCost / f.FuelAmount
}

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidateName checks if a name is valid (non-empty, within length limits).
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if len(name) > 255 {
		return ErrNameTooLong
	}
	return nil
}

func validateAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be a finite number", field)
	}
	if v < 0 {
		return fmt.Errorf("%s: %w", field, ErrNegativeAmount)
	}
	return nil
}

// Validate checks a maintenance record before it is stored.
func (r *MaintenanceRecord) Validate() error {
	if r.Date.IsZero() {
		return ErrMissingDate
	}
	if r.Mileage < 0 {
		return ErrNegativeMileage
	}
	for i, item := range r.Items {
		if err := validateAmount("originalPrice", item.OriginalPrice); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
		if err := validateAmount("actualPrice", item.ActualPrice); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	for i, inc := range r.IncompleteItems {
		if inc.Priority != "" && !inc.Priority.Valid() {
			return fmt.Errorf("incomplete item %d: %w", i+1, ErrInvalidPriority)
		}
	}
	return nil
}

// Validate checks a fuel record before it is stored.
func (f *FuelRecord) Validate() error {
	if f.Date.IsZero() {
		return ErrMissingDate
	}
	if f.Mileage < 0 {
		return ErrNegativeMileage
	}
	for field, v := range map[string]float64{
		"fuelAmount":       f.FuelAmount,
		"originalPrice":    f.OriginalPrice,
		"preDiscountPrice": f.PreDiscountPrice,
		"totalCost":        f.TotalCost,
	} {
		if err := validateAmount(field, v); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a reminder before it is stored.
func (r *Reminder) Validate() error {
	if err := ValidateName(r.Title); err != nil {
		return fmt.Errorf("title: %w", err)
	}
	if !r.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, r.Type)
	}
	if !r.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, r.Priority)
	}
	if r.DueMileage != nil && *r.DueMileage < 0 {
		return ErrNegativeMileage
	}
	return nil
}

// Validate checks a purchased item before it is stored.
func (p *PurchasedItem) Validate() error {
	if err := ValidateName(p.Name); err != nil {
		return err
	}
	if p.Quantity < 0 || p.TotalQuantity < 0 || p.RemainingQuantity < 0 {
		return fmt.Errorf("quantity: %w", ErrNegativeAmount)
	}
	return validateAmount("price", p.Price)
}

// Validate checks an incomplete item before it is stored.
func (i *IncompleteItem) Validate() error {
	if err := ValidateName(i.Name); err != nil {
		return err
	}
	if !i.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, i.Priority)
	}
	return nil
}
