// ABOUTME: Persistence store holding the vehicle log behind slot-based storage
// ABOUTME: Loads slots with default fallback and saves each mutation under one lock

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/harper/carlog/internal/logging"
	"github.com/harper/carlog/internal/models"
	"github.com/harper/carlog/internal/storage"
)

// Slot keys shared with earlier exports of the same data.
const (
	SlotData        = "vehicle_maintenance_data"
	SlotCategories  = "vehicle_maintenance_categories"
	SlotFuelOptions = "vehicle_fuel_options"
)

// corruptSuffix names the slot that keeps an unreadable document aside.
const corruptSuffix = ".corrupt"

// ErrNotFound is returned by id lookups when nothing matches.
var ErrNotFound = errors.New("not found")

// Store is the single owner of the persisted vehicle log.
type Store struct {
	mu          sync.RWMutex
	backend     storage.Backend
	logger      logging.Logger
	newID       func() string
	data        models.Data
	categories  models.Categories
	fuelOptions models.FuelOptions
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load fallbacks, upgrades and imports.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithIDFunc replaces the id generator.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// Snapshot is a deep copy of everything the store holds.
type Snapshot struct {
	Data        models.Data
	Categories  models.Categories
	FuelOptions models.FuelOptions
}

// Open loads every slot from backend.
func Open(backend storage.Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		logger:  logging.Default(),
		newID:   models.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Backend returns the storage backend the store writes through.
func (s *Store) Backend() storage.Backend {
	return s.backend
}

// read returns the raw slot, or nil when the slot is absent.
func (s *Store) read(slot string) ([]byte, error) {
	raw, err := s.backend.Get(slot)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", slot, err)
	}
	return raw, nil
}

// setAside copies an unreadable slot so a later save cannot destroy it.
func (s *Store) setAside(slot string, raw []byte, cause error) {
	s.logger.Warn("slot unreadable, original kept aside", "slot", slot, "copy", slot+corruptSuffix, "err", cause)
	if err := s.backend.Set(slot+corruptSuffix, raw); err != nil {
		s.logger.Error("could not preserve unreadable slot", "slot", slot, "err", err)
	}
}

func (s *Store) load() error {
	raw, err := s.read(SlotData)
	if err != nil {
		return err
	}
	s.data = models.EmptyData()
	if raw != nil {
		data, dropped, err := decodeData(raw, false)
		if err != nil {
			s.setAside(SlotData, raw, err)
		} else {
			s.data = data
			for _, d := range dropped {
				s.logger.Warn("dropped unreadable entry", "slot", SlotData, "err", d)
			}
			if len(dropped) > 0 {
				s.setAside(SlotData, raw, dropped[0])
			}
		}
	}

	raw, err = s.read(SlotCategories)
	if err != nil {
		return err
	}
	s.categories = models.DefaultCategories()
	if raw != nil {
		var cats models.Categories
		if err := json.Unmarshal(raw, &cats); err != nil || cats == nil {
			if err == nil {
				err = errors.New("not a JSON object")
			}
			s.setAside(SlotCategories, raw, err)
		} else {
			s.categories = cats
		}
	}

	raw, err = s.read(SlotFuelOptions)
	if err != nil {
		return err
	}
	s.fuelOptions = models.DefaultFuelOptions()
	if raw != nil {
		var opts models.FuelOptions
		if err := decodeObject(raw, &opts); err != nil {
			s.setAside(SlotFuelOptions, raw, err)
		} else {
			s.fuelOptions = opts.WithDefaults()
		}
	}
	return nil
}

// decodeObject rejects documents that are not JSON objects before decoding into v.
func decodeObject(raw []byte, v any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("not a JSON object")
	}
	return json.Unmarshal(raw, v)
}

// put writes value to slot. Callers hold the write lock and update the
// mirror only when put succeeds.
func (s *Store) put(slot string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", slot, err)
	}
	if err := s.backend.Set(slot, raw); err != nil {
		return fmt.Errorf("write slot %s: %w", slot, err)
	}
	return nil
}

func (s *Store) saveData(next models.Data) error {
	next.SchemaVersion = CurrentSchemaVersion
	if err := s.put(SlotData, next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (s *Store) saveCategories(next models.Categories) error {
	if err := s.put(SlotCategories, next); err != nil {
		return err
	}
	s.categories = next
	return nil
}

func (s *Store) saveFuelOptions(next models.FuelOptions) error {
	if err := s.put(SlotFuelOptions, next); err != nil {
		return err
	}
	s.fuelOptions = next
	return nil
}

// Snapshot returns a deep copy of all held state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Data:        cloneData(s.data),
		Categories:  s.categories.Clone(),
		FuelOptions: s.fuelOptions.Clone(),
	}
}

// Records returns maintenance records, newest first.
func (s *Store) Records() []models.MaintenanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.data.Records, cloneRecord)
}

// FuelRecords returns fuel records, newest first.
func (s *Store) FuelRecords() []models.FuelRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.data.FuelRecords, cloneFuelRecord)
}

// Reminders returns all reminders.
func (s *Store) Reminders() []models.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.data.Reminders, cloneReminder)
}

// PurchasedItems returns the inventory.
func (s *Store) PurchasedItems() []models.PurchasedItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.data.PurchasedItems, clonePurchasedItem)
}

// IncompleteItems returns the global list of outstanding work.
func (s *Store) IncompleteItems() []models.IncompleteItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.data.IncompleteItems, cloneIncompleteItem)
}

// Categories returns the category map.
func (s *Store) Categories() models.Categories {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories.Clone()
}

// FuelOptions returns the fuel pick lists.
func (s *Store) FuelOptions() models.FuelOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fuelOptions.Clone()
}

// Record looks up a maintenance record by id.
func (s *Store) Record(id string) (models.MaintenanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.data.Records, id, recordID); i >= 0 {
		return cloneRecord(s.data.Records[i]), nil
	}
	return models.MaintenanceRecord{}, fmt.Errorf("record %s: %w", id, ErrNotFound)
}

// FuelRecord looks up a fuel record by id.
func (s *Store) FuelRecord(id string) (models.FuelRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.data.FuelRecords, id, fuelID); i >= 0 {
		return cloneFuelRecord(s.data.FuelRecords[i]), nil
	}
	return models.FuelRecord{}, fmt.Errorf("fuel record %s: %w", id, ErrNotFound)
}

// Reminder looks up a reminder by id.
func (s *Store) Reminder(id string) (models.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.data.Reminders, id, reminderID); i >= 0 {
		return cloneReminder(s.data.Reminders[i]), nil
	}
	return models.Reminder{}, fmt.Errorf("reminder %s: %w", id, ErrNotFound)
}

// PurchasedItem looks up an inventory item by id.
func (s *Store) PurchasedItem(id string) (models.PurchasedItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.data.PurchasedItems, id, purchasedID); i >= 0 {
		return clonePurchasedItem(s.data.PurchasedItems[i]), nil
	}
	return models.PurchasedItem{}, fmt.Errorf("purchased item %s: %w", id, ErrNotFound)
}

// IncompleteItem looks up an outstanding item by id.
func (s *Store) IncompleteItem(id string) (models.IncompleteItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.data.IncompleteItems, id, incompleteID); i >= 0 {
		return cloneIncompleteItem(s.data.IncompleteItems[i]), nil
	}
	return models.IncompleteItem{}, fmt.Errorf("incomplete item %s: %w", id, ErrNotFound)
}

// Reset restores every slot to its default value.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveData(models.EmptyData()); err != nil {
		return err
	}
	if err := s.saveCategories(models.DefaultCategories()); err != nil {
		return err
	}
	if err := s.saveFuelOptions(models.DefaultFuelOptions()); err != nil {
		return err
	}
	s.logger.Info("store reset to defaults")
	return nil
}

func recordID(r *models.MaintenanceRecord) string { return r.ID }
func fuelID(f *models.FuelRecord) string           { return f.ID }
func reminderID(r *models.Reminder) string         { return r.ID }
func purchasedID(p *models.PurchasedItem) string   { return p.ID }
func incompleteID(i *models.IncompleteItem) string { return i.ID }

func indexOf[T any](list []T, id string, idOf func(*T) string) int {
	for i := range list {
		if idOf(&list[i]) == id {
			return i
		}
	}
	return -1
}

func removeAt[T any](list []T, i int) []T {
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}
