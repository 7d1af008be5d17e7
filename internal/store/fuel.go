// ABOUTME: Fuel record mutations
// ABOUTME: Keeps the per-liter paid price derived from total cost and amount

package store

import (
	"sort"

	"github.com/harper/carlog/internal/models"
)

// FuelRecordPatch holds the fields to change on a fuel record. Nil fields are kept.
type FuelRecordPatch struct {
	Date             *models.Date
	Mileage          *int
	FuelAmount       *float64
	PreDiscountPrice *float64
	OriginalPrice    *float64
	TotalCost        *float64
	GasStation       *string
	FuelType         *string
	IsFullTank       *bool
	Notes            *string
	Location         *string
	PaymentMethod    *string
	Attachments      *[]models.FileAttachment
}

func sortFuelRecords(records []models.FuelRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date.Time)
	})
}

func (s *Store) prepareFuelRecord(f *models.FuelRecord) {
	if f.Attachments == nil {
		f.Attachments = []models.FileAttachment{}
	}
	for i := range f.Attachments {
		if f.Attachments[i].ID == "" {
			f.Attachments[i].ID = s.newID()
		}
	}
	if f.PreDiscountPrice == 0 {
		f.PreDiscountPrice = f.OriginalPrice
	}
}

// AddFuelRecord stores a fill-up with its discounted price derived.
func (s *Store) AddFuelRecord(in models.FuelRecord) (models.FuelRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := cloneFuelRecord(in)
	rec.ID = s.newID()
	s.prepareFuelRecord(&rec)
	rec.RecomputeDiscountedPrice()
	if err := rec.Validate(); err != nil {
		return models.FuelRecord{}, err
	}

	next := cloneData(s.data)
	next.FuelRecords = append([]models.FuelRecord{cloneFuelRecord(rec)}, next.FuelRecords...)
	sortFuelRecords(next.FuelRecords)
	if err := s.saveData(next); err != nil {
		return models.FuelRecord{}, err
	}
	s.logger.Debug("fuel record added", "id", rec.ID, "amount", rec.FuelAmount)
	return rec, nil
}

// UpdateFuelRecord merges patch into the record with id, recomputing the
// discounted price when cost or amount change. Unknown ids are ignored.
func (s *Store) UpdateFuelRecord(id string, patch FuelRecordPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.data.FuelRecords, id, fuelID)
	if i < 0 {
		return nil
	}
	next := cloneData(s.data)
	rec := &next.FuelRecords[i]
	if patch.Date != nil {
		rec.Date = *patch.Date
	}
	if patch.Mileage != nil {
		rec.Mileage = *patch.Mileage
	}
	if patch.FuelAmount != nil {
		rec.FuelAmount = *patch.FuelAmount
	}
	if patch.PreDiscountPrice != nil {
		rec.PreDiscountPrice = *patch.PreDiscountPrice
	}
	if patch.OriginalPrice != nil {
		rec.OriginalPrice = *patch.OriginalPrice
	}
	if patch.TotalCost != nil {
		rec.TotalCost = *patch.TotalCost
	}
	if patch.GasStation != nil {
		rec.GasStation = *patch.GasStation
	}
	if patch.FuelType != nil {
		rec.FuelType = *patch.FuelType
	}
	if patch.IsFullTank != nil {
		rec.IsFullTank = *patch.IsFullTank
	}
	if patch.Notes != nil {
		rec.Notes = *patch.Notes
	}
	if patch.Location != nil {
		rec.Location = *patch.Location
	}
	if patch.PaymentMethod != nil {
		rec.PaymentMethod = *patch.PaymentMethod
	}
	if patch.Attachments != nil {
		rec.Attachments = append([]models.FileAttachment{}, (*patch.Attachments)...)
	}
	s.prepareFuelRecord(rec)
	if patch.TotalCost != nil || patch.FuelAmount != nil {
		rec.RecomputeDiscountedPrice()
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	sortFuelRecords(next.FuelRecords)
	return s.saveData(next)
}

// RemoveFuelRecord deletes the fuel record with id. Unknown ids are ignored.
func (s *Store) RemoveFuelRecord(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.data.FuelRecords, id, fuelID)
	if i < 0 {
		return nil
	}
	next := cloneData(s.data)
	next.FuelRecords = removeAt(next.FuelRecords, i)
	return s.saveData(next)
}
