// ABOUTME: Maintenance record and incomplete item mutations
// ABOUTME: Adding a record completes reminders, consumes inventory and files found problems

package store

import (
	"sort"

	"github.com/harper/carlog/internal/models"
)

// RecordPatch holds the fields to change on a maintenance record. Nil fields are kept.
type RecordPatch struct {
	Date               *models.Date
	Mileage            *int
	Items              *[]models.MaintenanceItem
	Attachments        *[]models.FileAttachment
	IncompleteItems    *[]models.IncompleteItem
	Notes              *string
	CompletedReminders *[]string
}

// IncompleteItemPatch holds the fields to change on an incomplete item.
// Setting Completed to false clears CompletedDate.
type IncompleteItemPatch struct {
	Name          *string
	Description   *string
	DateFound     *models.Date
	Completed     *bool
	CompletedDate *models.Date
	Priority      *models.Priority
}

func sortRecords(records []models.MaintenanceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date.Time)
	})
}

// assignRecordIDs gives an id to the record's nested entries that lack one.
func (s *Store) assignRecordIDs(r *models.MaintenanceRecord) {
	for i := range r.Items {
		if r.Items[i].ID == "" {
			r.Items[i].ID = s.newID()
		}
	}
	for i := range r.Attachments {
		if r.Attachments[i].ID == "" {
			r.Attachments[i].ID = s.newID()
		}
	}
	for i := range r.IncompleteItems {
		inc := &r.IncompleteItems[i]
		if inc.ID == "" {
			inc.ID = s.newID()
		}
		if inc.Priority == "" {
			inc.Priority = models.PriorityMedium
		}
		if inc.DateFound.IsZero() {
			inc.DateFound = r.Date
		}
	}
}

// AddRecord stores a new maintenance record and applies its side effects:
// reminders it names are completed, each matching multi-use purchase loses
// one unit, and its incomplete items join the global list.
func (s *Store) AddRecord(in models.MaintenanceRecord) (models.MaintenanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := cloneRecord(in)
	rec.ID = s.newID()
	fillRecord(&rec)
	s.assignRecordIDs(&rec)
	rec.RecomputeTotals()
	if err := rec.Validate(); err != nil {
		return models.MaintenanceRecord{}, err
	}

	next := cloneData(s.data)
	next.Records = append([]models.MaintenanceRecord{cloneRecord(rec)}, next.Records...)
	sortRecords(next.Records)

	for i := range next.Reminders {
		if rec.CompletesReminder(next.Reminders[i].ID) {
			next.Reminders[i].Completed = true
		}
	}

	for i := range next.PurchasedItems {
		p := &next.PurchasedItems[i]
		if !p.IsMultiUse {
			continue
		}
		for _, item := range rec.Items {
			if p.Matches(item) {
				p.RemainingQuantity = max(0, p.RemainingQuantity-1)
				break
			}
		}
	}

	next.IncompleteItems = append(next.IncompleteItems, cloneSlice(rec.IncompleteItems, cloneIncompleteItem)...)

	if err := s.saveData(next); err != nil {
		return models.MaintenanceRecord{}, err
	}
	s.logger.Debug("record added", "id", rec.ID, "items", len(rec.Items))
	return rec, nil
}

// UpdateRecord merges patch into the record with id. Side effects of AddRecord
// are not re-applied. Unknown ids are ignored.
func (s *Store) UpdateRecord(id string, patch RecordPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.data.Records, id, recordID)
	if i < 0 {
		return nil
	}
	next := cloneData(s.data)
	rec := &next.Records[i]
	if patch.Date != nil {
		rec.Date = *patch.Date
	}
	if patch.Mileage != nil {
		rec.Mileage = *patch.Mileage
	}
	if patch.Items != nil {
		rec.Items = append([]models.MaintenanceItem{}, (*patch.Items)...)
	}
	if patch.Attachments != nil {
		rec.Attachments = append([]models.FileAttachment{}, (*patch.Attachments)...)
	}
	if patch.IncompleteItems != nil {
		rec.IncompleteItems = cloneSlice(*patch.IncompleteItems, cloneIncompleteItem)
	}
	if patch.Notes != nil {
		rec.Notes = *patch.Notes
	}
	if patch.CompletedReminders != nil {
		rec.CompletedReminders = append([]string{}, (*patch.CompletedReminders)...)
	}
	fillRecord(rec)
	s.assignRecordIDs(rec)
	rec.RecomputeTotals()
	if err := rec.Validate(); err != nil {
		return err
	}
	sortRecords(next.Records)
	return s.saveData(next)
}

// RemoveRecord deletes the record with id. Unknown ids are ignored.
func (s *Store) RemoveRecord(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.data.Records, id, recordID)
	if i < 0 {
		return nil
	}
	next := cloneData(s.data)
	next.Records = removeAt(next.Records, i)
	return s.saveData(next)
}

// AddIncompleteItem files a problem outside of any maintenance record.
func (s *Store) AddIncompleteItem(in models.IncompleteItem) (models.IncompleteItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := cloneIncompleteItem(in)
	item.ID = s.newID()
	item.Name = models.NormalizeName(item.Name)
	if item.Priority == "" {
		item.Priority = models.PriorityMedium
	}
	if item.DateFound.IsZero() {
		item.DateFound = models.Today()
	}
	if !item.Completed {
		item.CompletedDate = nil
	}
	if err := item.Validate(); err != nil {
		return models.IncompleteItem{}, err
	}

	next := cloneData(s.data)
	next.IncompleteItems = append(next.IncompleteItems, cloneIncompleteItem(item))
	if err := s.saveData(next); err != nil {
		return models.IncompleteItem{}, err
	}
	return item, nil
}

// UpdateIncompleteItem merges patch into the item with id. Unknown ids are ignored.
func (s *Store) UpdateIncompleteItem(id string, patch IncompleteItemPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.data.IncompleteItems, id, incompleteID)
	if i < 0 {
		return nil
	}
	next := cloneData(s.data)
	item := &next.IncompleteItems[i]
	if patch.Name != nil {
		item.Name = models.NormalizeName(*patch.Name)
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.DateFound != nil {
		item.DateFound = *patch.DateFound
	}
	if patch.Priority != nil {
		item.Priority = *patch.Priority
	}
	if patch.Completed != nil {
		item.Completed = *patch.Completed
	}
	if patch.CompletedDate != nil {
		item.CompletedDate = cloneDate(patch.CompletedDate)
	}
	if !item.Completed {
		item.CompletedDate = nil
	}
	if err := item.Validate(); err != nil {
		return err
	}
	return s.saveData(next)
}

// RemoveIncompleteItem deletes the item with id from the global list.
func (s *Store) RemoveIncompleteItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.data.IncompleteItems, id, incompleteID)
	if i < 0 {
		return nil
	}
	next := cloneData(s.data)
	next.IncompleteItems = removeAt(next.IncompleteItems, i)
	return s.saveData(next)
}
