// ABOUTME: Bulk replacement of stored slots from a decoded import bundle
// ABOUTME: Writes all present slots under one lock and restores them if any write fails

package store

import (
	"errors"
	"fmt"

	"github.com/harper/carlog/internal/models"
	"github.com/harper/carlog/internal/storage"
)

// ImportBundle is a validated import. Nil fields were absent from the source
// and leave the matching slot untouched.
type ImportBundle struct {
	Data        *models.Data
	Categories  models.Categories
	FuelOptions *models.FuelOptions
}

// Empty reports whether the bundle would change nothing.
func (b ImportBundle) Empty() bool {
	return b.Data == nil && b.Categories == nil && b.FuelOptions == nil
}

type slotWrite struct {
	slot  string
	value any
	apply func()
}

// ImportAll replaces every slot present in b. Ids from the source are kept;
// entries without one are given a fresh id.
func (s *Store) ImportAll(b ImportBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var writes []slotWrite
	if b.Data != nil {
		data := cloneData(*b.Data)
		fillData(&data)
		s.prepareImported(&data)
		data.SchemaVersion = CurrentSchemaVersion
		writes = append(writes, slotWrite{SlotData, data, func() { s.data = data }})
	}
	if b.Categories != nil {
		cats := b.Categories.Clone()
		writes = append(writes, slotWrite{SlotCategories, cats, func() { s.categories = cats }})
	}
	if b.FuelOptions != nil {
		opts := b.FuelOptions.Clone().WithDefaults()
		writes = append(writes, slotWrite{SlotFuelOptions, opts, func() { s.fuelOptions = opts }})
	}

	previous := make(map[string][]byte, len(writes))
	for _, w := range writes {
		raw, err := s.backend.Get(w.slot)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("read slot %s: %w", w.slot, err)
		}
		previous[w.slot] = raw
	}

	for i, w := range writes {
		if err := s.put(w.slot, w.value); err != nil {
			s.rollback(writes[:i], previous)
			return fmt.Errorf("import: %w", err)
		}
	}
	for _, w := range writes {
		w.apply()
	}
	s.logger.Info("import applied", "slots", len(writes))
	return nil
}

func (s *Store) rollback(written []slotWrite, previous map[string][]byte) {
	for _, w := range written {
		var err error
		if raw := previous[w.slot]; raw != nil {
			err = s.backend.Set(w.slot, raw)
		} else {
			err = s.backend.Delete(w.slot)
		}
		if err != nil {
			s.logger.Error("rollback failed", "slot", w.slot, "err", err)
		}
	}
}

func (s *Store) prepareImported(d *models.Data) {
	for i := range d.Records {
		r := &d.Records[i]
		if r.ID == "" {
			r.ID = s.newID()
		}
		s.assignRecordIDs(r)
		r.RecomputeTotals()
	}
	sortRecords(d.Records)
	for i := range d.IncompleteItems {
		if d.IncompleteItems[i].ID == "" {
			d.IncompleteItems[i].ID = s.newID()
		}
	}
	for i := range d.Reminders {
		if d.Reminders[i].ID == "" {
			d.Reminders[i].ID = s.newID()
		}
		s.prepareReminder(&d.Reminders[i])
	}
	for i := range d.PurchasedItems {
		if d.PurchasedItems[i].ID == "" {
			d.PurchasedItems[i].ID = s.newID()
		}
		d.PurchasedItems[i].Normalize()
	}
	for i := range d.FuelRecords {
		if d.FuelRecords[i].ID == "" {
			d.FuelRecords[i].ID = s.newID()
		}
		s.prepareFuelRecord(&d.FuelRecords[i])
		d.FuelRecords[i].RecomputeDiscountedPrice()
	}
	sortFuelRecords(d.FuelRecords)
}
