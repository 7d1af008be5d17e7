// ABOUTME: Deep copies of stored entities
// ABOUTME: Keeps callers from aliasing the store's in-memory mirror

package store

import (
	"slices"

	"github.com/harper/carlog/internal/models"
)

func cloneSlice[T any](list []T, clone func(T) T) []T {
	if list == nil {
		return nil
	}
	out := make([]T, len(list))
	for i, v := range list {
		out[i] = clone(v)
	}
	return out
}

func cloneDate(d *models.Date) *models.Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func cloneIncompleteItem(i models.IncompleteItem) models.IncompleteItem {
	i.CompletedDate = cloneDate(i.CompletedDate)
	return i
}

func cloneRecord(r models.MaintenanceRecord) models.MaintenanceRecord {
	r.Items = slices.Clone(r.Items)
	r.Attachments = slices.Clone(r.Attachments)
	r.IncompleteItems = cloneSlice(r.IncompleteItems, cloneIncompleteItem)
	r.CompletedReminders = slices.Clone(r.CompletedReminders)
	return r
}

func cloneReminderItem(i models.ReminderItem) models.ReminderItem {
	i.EstimatedPrice = clonePtr(i.EstimatedPrice)
	return i
}

func cloneReminder(r models.Reminder) models.Reminder {
	r.Items = cloneSlice(r.Items, cloneReminderItem)
	r.DueDate = cloneDate(r.DueDate)
	r.DueMileage = clonePtr(r.DueMileage)
	return r
}

func clonePurchasedItem(p models.PurchasedItem) models.PurchasedItem {
	p.ExpiryDate = cloneDate(p.ExpiryDate)
	return p
}

func cloneFuelRecord(f models.FuelRecord) models.FuelRecord {
	f.Attachments = slices.Clone(f.Attachments)
	return f
}

func cloneData(d models.Data) models.Data {
	return models.Data{
		SchemaVersion:   d.SchemaVersion,
		Records:         cloneSlice(d.Records, cloneRecord),
		IncompleteItems: cloneSlice(d.IncompleteItems, cloneIncompleteItem),
		Reminders:       cloneSlice(d.Reminders, cloneReminder),
		PurchasedItems:  cloneSlice(d.PurchasedItems, clonePurchasedItem),
		FuelRecords:     cloneSlice(d.FuelRecords, cloneFuelRecord),
	}
}
