// ABOUTME: Tests for store loading, mutations, side effects and import rollback
// ABOUTME: Runs against the in-memory backend with deterministic ids

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/harper/carlog/internal/logging"
	"github.com/harper/carlog/internal/models"
	"github.com/harper/carlog/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func openTestStore(t *testing.T, backend storage.Backend) *Store {
	t.Helper()
	if backend == nil {
		backend = storage.NewMemory()
	}
	s, err := Open(backend, WithLogger(logging.Discard()), WithIDFunc(sequentialIDs()))
	require.NoError(t, err)
	return s
}

// countingBackend counts writes per slot.
type countingBackend struct {
	storage.Backend
	sets map[string]int
}

func (c *countingBackend) Set(slot string, value []byte) error {
	c.sets[slot]++
	return c.Backend.Set(slot, value)
}

func storedData(t *testing.T, b storage.Backend) models.Data {
	t.Helper()
	raw, err := b.Get(SlotData)
	require.NoError(t, err)
	var d models.Data
	require.NoError(t, json.Unmarshal(raw, &d))
	return d
}

func TestOpen_EmptyBackendUsesDefaults(t *testing.T) {
	s := openTestStore(t, nil)
	snap := s.Snapshot()
	assert.Empty(t, snap.Data.Records)
	assert.NotNil(t, snap.Data.Records)
	assert.Equal(t, models.DefaultCategories(), snap.Categories)
	assert.Equal(t, models.DefaultFuelOptions(), snap.FuelOptions)
}

func TestOpen_CorruptSlotsFallBackAndArePreserved(t *testing.T) {
	mem := storage.NewMemory()
	require.NoError(t, mem.Set(SlotData, []byte("{not json")))
	require.NoError(t, mem.Set(SlotCategories, []byte(`["a"]`)))
	require.NoError(t, mem.Set(SlotFuelOptions, []byte(`"x"`)))

	s := openTestStore(t, mem)
	snap := s.Snapshot()
	assert.Empty(t, snap.Data.Records)
	assert.Equal(t, models.DefaultCategories(), snap.Categories)
	assert.Equal(t, models.DefaultFuelOptions(), snap.FuelOptions)

	kept, err := mem.Get(SlotData + corruptSuffix)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(kept))
}

func TestOpen_BackfillsLegacyDocument(t *testing.T) {
	mem := storage.NewMemory()
	legacy := `{
		"records": [{"id": "r1", "date": "2024-03-01", "mileage": 1000, "items": [], "totalOriginalCost": 0, "totalActualCost": 0}],
		"fuelRecords": [{"id": "f1", "date": "2024-03-02", "mileage": 1100, "fuelAmount": 40, "originalPrice": 300, "totalCost": 280, "discountedPrice": 7, "isFullTank": true}],
		"reminders": "broken"
	}`
	require.NoError(t, mem.Set(SlotData, []byte(legacy)))

	s := openTestStore(t, mem)
	recs := s.Records()
	require.Len(t, recs, 1)
	assert.NotNil(t, recs[0].Attachments)
	assert.NotNil(t, recs[0].IncompleteItems)
	assert.NotNil(t, recs[0].CompletedReminders)

	fuel := s.FuelRecords()
	require.Len(t, fuel, 1)
	assert.Equal(t, 300.0, fuel[0].PreDiscountPrice)
	assert.NotNil(t, fuel[0].Attachments)
	assert.Empty(t, s.Reminders())
	assert.NotNil(t, s.PurchasedItems())
}

func TestOpen_DropsUndecodableEntries(t *testing.T) {
	mem := storage.NewMemory()
	doc := `{"schemaVersion": 3, "records": [
		{"id": "ok", "date": "2024-01-01", "mileage": 1},
		{"id": "bad", "date": "yesterday", "mileage": 2}
	]}`
	require.NoError(t, mem.Set(SlotData, []byte(doc)))

	s := openTestStore(t, mem)
	recs := s.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "ok", recs[0].ID)

	kept, err := mem.Get(SlotData + corruptSuffix)
	require.NoError(t, err, "the original document is kept before any save can drop the entry")
	assert.JSONEq(t, doc, string(kept))

	_, err = s.AddReminder(models.Reminder{Title: "Tyres", Type: models.ReminderTime, Priority: models.PriorityLow})
	require.NoError(t, err)
	kept, err = mem.Get(SlotData + corruptSuffix)
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(kept))
}

func TestOpen_RepairsMistypedOptionalFields(t *testing.T) {
	mem := storage.NewMemory()
	doc := `{"schemaVersion": 3,
		"records": [
			{"id": "a", "date": "2024-01-01", "mileage": 1000},
			{"id": "b", "date": "2024-02-01", "mileage": "2000", "notes": 7,
			 "attachments": [{"name": "x.jpg", "size": "12"}, "junk", {"id": 5}],
			 "items": [{"id": "i1", "category": "Engine", "name": "Oil", "actualPrice": "30", "completed": "yes"}],
			 "incompleteItems": [{"id": "p1", "name": "Rust", "dateFound": "someday"}],
			 "completedReminders": ["r1", 2]}
		],
		"reminders": [{"id": "r1", "title": "Brakes", "dueMileage": "far", "dueDate": "soon", "type": "both", "priority": "high", "items": {}}],
		"purchasedItems": [{"id": "p", "name": "Filter", "purchaseDate": "2024-01-05", "quantity": 2.6, "expiryDate": 12, "price": null}],
		"fuelRecords": [{"id": "f", "date": "2024-01-10", "fuelAmount": 40, "totalCost": "300", "isFullTank": "true", "attachments": "none"}]
	}`
	require.NoError(t, mem.Set(SlotData, []byte(doc)))

	s := openTestStore(t, mem)
	recs := s.Records()
	require.Len(t, recs, 2)
	b := recs[0]
	if b.ID != "b" {
		b = recs[1]
	}
	assert.Equal(t, 2000, b.Mileage)
	assert.Equal(t, "", b.Notes)
	require.Len(t, b.Attachments, 1)
	assert.Equal(t, int64(12), b.Attachments[0].Size)
	require.Len(t, b.Items, 1)
	assert.Equal(t, 30.0, b.Items[0].ActualPrice)
	assert.False(t, b.Items[0].Completed)
	assert.Empty(t, b.IncompleteItems)
	assert.Equal(t, []string{"r1"}, b.CompletedReminders)

	rems := s.Reminders()
	require.Len(t, rems, 1)
	assert.Nil(t, rems[0].DueMileage)
	assert.Nil(t, rems[0].DueDate)
	assert.Empty(t, rems[0].Items)

	items := s.PurchasedItems()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Nil(t, items[0].ExpiryDate)

	fuel := s.FuelRecords()
	require.Len(t, fuel, 1)
	assert.Equal(t, 300.0, fuel[0].TotalCost)
	assert.True(t, fuel[0].IsFullTank)
	assert.Empty(t, fuel[0].Attachments)

	_, err := mem.Get(SlotData + corruptSuffix)
	assert.ErrorIs(t, err, storage.ErrNotFound, "nothing was dropped so nothing is set aside")

	_, err = s.AddReminder(models.Reminder{Title: "Tyres", Type: models.ReminderTime, Priority: models.PriorityLow})
	require.NoError(t, err)
	reopened := openTestStore(t, mem)
	assert.Len(t, reopened.Records(), 2)
}

func TestOpen_BackendErrorPropagates(t *testing.T) {
	mem := storage.NewMemory()
	require.NoError(t, mem.Close())
	_, err := Open(mem, WithLogger(logging.Discard()))
	assert.ErrorIs(t, err, storage.ErrClosed)
}

func TestAddRecord_RecomputesTotals(t *testing.T) {
	s := openTestStore(t, nil)
	rec, err := s.AddRecord(models.MaintenanceRecord{
		Date:    models.NewDate(2024, 5, 1),
		Mileage: 12000,
		Items: []models.MaintenanceItem{
			{Category: "Engine", Name: "Oil change", OriginalPrice: 300, ActualPrice: 250},
			{Category: "Engine", Name: "Oil filter", OriginalPrice: 50.5, ActualPrice: 40},
		},
		TotalOriginalCost: 1,
		TotalActualCost:   1,
	})
	require.NoError(t, err)
	assert.Equal(t, 350.5, rec.TotalOriginalCost)
	assert.Equal(t, 290.0, rec.TotalActualCost)
	assert.NotEmpty(t, rec.ID)
	for _, item := range rec.Items {
		assert.NotEmpty(t, item.ID)
	}

	stored := s.Records()[0]
	assert.Equal(t, rec.TotalActualCost, stored.TotalActualCost)
}

func TestAddRecord_CompletesReminderInSameWrite(t *testing.T) {
	backend := &countingBackend{Backend: storage.NewMemory(), sets: map[string]int{}}
	s := openTestStore(t, backend)

	r1, err := s.AddReminder(models.Reminder{Title: "Oil service", Type: models.ReminderTime})
	require.NoError(t, err)
	r2, err := s.AddReminder(models.Reminder{Title: "Tires", Type: models.ReminderMileage})
	require.NoError(t, err)
	before := backend.sets[SlotData]

	_, err = s.AddRecord(models.MaintenanceRecord{
		Date:               models.NewDate(2024, 6, 1),
		CompletedReminders: []string{r1.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, before+1, backend.sets[SlotData], "record and reminder must be persisted together")

	persisted := storedData(t, backend)
	require.Len(t, persisted.Reminders, 2)
	for _, r := range persisted.Reminders {
		switch r.ID {
		case r1.ID:
			assert.True(t, r.Completed)
		case r2.ID:
			assert.False(t, r.Completed)
		}
	}
	require.Len(t, persisted.Records, 1)
}

func TestAddRecord_ConsumesMultiUseInventory(t *testing.T) {
	s := openTestStore(t, nil)
	oil, err := s.AddPurchasedItem(models.PurchasedItem{
		Name: "Oil change", Category: "Engine", IsMultiUse: true,
		Quantity: 1, TotalQuantity: 4, RemainingQuantity: 1,
	})
	require.NoError(t, err)
	single, err := s.AddPurchasedItem(models.PurchasedItem{
		Name: "Oil change", Category: "Engine", Quantity: 2,
	})
	require.NoError(t, err)
	other, err := s.AddPurchasedItem(models.PurchasedItem{
		Name: "Oil change", Category: "Other", IsMultiUse: true, TotalQuantity: 2, RemainingQuantity: 2,
	})
	require.NoError(t, err)

	rec := models.MaintenanceRecord{
		Date: models.NewDate(2024, 6, 1),
		Items: []models.MaintenanceItem{
			{Category: "Engine", Name: "Oil change"},
			{Category: "Engine", Name: "Oil change"},
		},
	}
	_, err = s.AddRecord(rec)
	require.NoError(t, err)

	got, err := s.PurchasedItem(oil.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.RemainingQuantity)

	_, err = s.AddRecord(rec)
	require.NoError(t, err)
	got, err = s.PurchasedItem(oil.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.RemainingQuantity, "remaining never drops below zero")

	got, err = s.PurchasedItem(single.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RemainingQuantity, "single-use items are not consumed")

	got, err = s.PurchasedItem(other.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RemainingQuantity, "category must match too")
}

func TestAddRecord_SpawnsIncompleteItems(t *testing.T) {
	s := openTestStore(t, nil)
	rec, err := s.AddRecord(models.MaintenanceRecord{
		Date: models.NewDate(2024, 6, 1),
		IncompleteItems: []models.IncompleteItem{
			{Name: "Rear pads worn", Priority: models.PriorityHigh},
		},
	})
	require.NoError(t, err)

	items := s.IncompleteItems()
	require.Len(t, items, 1)
	assert.Equal(t, rec.IncompleteItems[0].ID, items[0].ID)
	assert.Equal(t, models.NewDate(2024, 6, 1), items[0].DateFound)
	assert.False(t, items[0].Completed)
}

func TestAddRecord_SortsNewestFirst(t *testing.T) {
	s := openTestStore(t, nil)
	for _, d := range []models.Date{models.NewDate(2024, 1, 1), models.NewDate(2024, 3, 1), models.NewDate(2024, 2, 1)} {
		_, err := s.AddRecord(models.MaintenanceRecord{Date: d})
		require.NoError(t, err)
	}
	recs := s.Records()
	require.Len(t, recs, 3)
	assert.Equal(t, "2024-03-01", recs[0].Date.String())
	assert.Equal(t, "2024-02-01", recs[1].Date.String())
	assert.Equal(t, "2024-01-01", recs[2].Date.String())
}

func TestAddRecord_RejectsInvalid(t *testing.T) {
	s := openTestStore(t, nil)
	_, err := s.AddRecord(models.MaintenanceRecord{Mileage: 5})
	assert.ErrorIs(t, err, models.ErrMissingDate)
	assert.Empty(t, s.Records())
}

func TestUpdateRecord(t *testing.T) {
	s := openTestStore(t, nil)
	r, err := s.AddReminder(models.Reminder{Title: "Brakes"})
	require.NoError(t, err)
	rec, err := s.AddRecord(models.MaintenanceRecord{Date: models.NewDate(2024, 1, 1)})
	require.NoError(t, err)

	items := []models.MaintenanceItem{{Category: "Brakes", Name: "Brake pads", OriginalPrice: 400, ActualPrice: 350}}
	ids := []string{r.ID}
	notes := "front axle"
	require.NoError(t, s.UpdateRecord(rec.ID, RecordPatch{Items: &items, Notes: &notes, CompletedReminders: &ids}))

	got, err := s.Record(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 350.0, got.TotalActualCost)
	assert.Equal(t, "front axle", got.Notes)

	reminder, err := s.Reminder(r.ID)
	require.NoError(t, err)
	assert.False(t, reminder.Completed, "updates do not re-run record side effects")

	assert.NoError(t, s.UpdateRecord("missing", RecordPatch{Notes: &notes}))
}

func TestRemoveRecord(t *testing.T) {
	s := openTestStore(t, nil)
	rec, err := s.AddRecord(models.MaintenanceRecord{Date: models.NewDate(2024, 1, 1)})
	require.NoError(t, err)
	require.NoError(t, s.RemoveRecord(rec.ID))
	_, err = s.Record(rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.RemoveRecord(rec.ID))
}

func TestUpdateIncompleteItem_CompletionDate(t *testing.T) {
	s := openTestStore(t, nil)
	item, err := s.AddIncompleteItem(models.IncompleteItem{Name: "Wiper streaks"})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, item.Priority)

	done := true
	when := models.NewDate(2024, 7, 1)
	require.NoError(t, s.UpdateIncompleteItem(item.ID, IncompleteItemPatch{Completed: &done, CompletedDate: &when}))
	got, err := s.IncompleteItem(item.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedDate)
	assert.Equal(t, when, *got.CompletedDate)

	undone := false
	require.NoError(t, s.UpdateIncompleteItem(item.ID, IncompleteItemPatch{Completed: &undone}))
	got, err = s.IncompleteItem(item.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
	assert.Nil(t, got.CompletedDate, "un-completing clears the completion date")

	require.NoError(t, s.RemoveIncompleteItem(item.ID))
	assert.Empty(t, s.IncompleteItems())
}

func TestAddReminder_ForcesActive(t *testing.T) {
	s := openTestStore(t, nil)
	r, err := s.AddReminder(models.Reminder{Title: "  Inspection  ", Completed: true})
	require.NoError(t, err)
	assert.False(t, r.Completed)
	assert.Equal(t, "Inspection", r.Title)
	assert.Equal(t, models.PriorityMedium, r.Priority)
	assert.Equal(t, models.ReminderTime, r.Type)

	_, err = s.AddReminder(models.Reminder{Title: " "})
	assert.ErrorIs(t, err, models.ErrEmptyName)
}

func TestUpdateReminder(t *testing.T) {
	s := openTestStore(t, nil)
	due := models.NewDate(2025, 1, 1)
	r, err := s.AddReminder(models.Reminder{Title: "Inspection", DueDate: &due})
	require.NoError(t, err)

	km := 20000
	typ := models.ReminderBoth
	require.NoError(t, s.UpdateReminder(r.ID, ReminderPatch{DueMileage: &km, Type: &typ, ClearDueDate: true}))
	got, err := s.Reminder(r.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DueDate)
	require.NotNil(t, got.DueMileage)
	assert.Equal(t, 20000, *got.DueMileage)
	assert.Equal(t, models.ReminderBoth, got.Type)

	bad := models.ReminderType("weekly")
	assert.ErrorIs(t, s.UpdateReminder(r.ID, ReminderPatch{Type: &bad}), models.ErrInvalidType)
}

func TestRemoveReminder_Idempotent(t *testing.T) {
	s := openTestStore(t, nil)
	keep, err := s.AddReminder(models.Reminder{Title: "Keep"})
	require.NoError(t, err)
	drop, err := s.AddReminder(models.Reminder{Title: "Drop"})
	require.NoError(t, err)

	require.NoError(t, s.RemoveReminder(drop.ID))
	once := s.Snapshot()
	require.NoError(t, s.RemoveReminder(drop.ID))
	assert.Equal(t, once, s.Snapshot())

	reminders := s.Reminders()
	require.Len(t, reminders, 1)
	assert.Equal(t, keep.ID, reminders[0].ID)
}

func TestAddPurchasedItem_SingleUseForcesQuantities(t *testing.T) {
	s := openTestStore(t, nil)
	p, err := s.AddPurchasedItem(models.PurchasedItem{
		Name: "Wiper blades", Category: "Other", Quantity: 3,
		TotalQuantity: 10, RemainingQuantity: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, p.TotalQuantity)
	assert.Equal(t, 3, p.RemainingQuantity)
}

func TestAddPurchasedItem_MultiUseClampsRemaining(t *testing.T) {
	s := openTestStore(t, nil)
	p, err := s.AddPurchasedItem(models.PurchasedItem{
		Name: "Engine oil 4L", Category: "Engine", IsMultiUse: true,
		TotalQuantity: 4, RemainingQuantity: 9,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, p.RemainingQuantity)

	remaining := -2
	require.NoError(t, s.UpdatePurchasedItem(p.ID, PurchasedItemPatch{RemainingQuantity: &remaining}))
	got, err := s.PurchasedItem(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.RemainingQuantity)

	require.NoError(t, s.RemovePurchasedItem(p.ID))
	assert.Empty(t, s.PurchasedItems())
}

func TestFuelRecord_DiscountedPrice(t *testing.T) {
	s := openTestStore(t, nil)
	f, err := s.AddFuelRecord(models.FuelRecord{
		Date: models.NewDate(2024, 4, 1), Mileage: 1000,
		FuelAmount: 40, OriginalPrice: 320, TotalCost: 300, IsFullTank: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 7.5, f.DiscountedPrice)
	assert.Equal(t, 320.0, f.PreDiscountPrice)
	assert.NotNil(t, f.Attachments)

	cost := 280.0
	require.NoError(t, s.UpdateFuelRecord(f.ID, FuelRecordPatch{TotalCost: &cost}))
	got, err := s.FuelRecord(f.ID)
	require.NoError(t, err)
	assert.Equal(t, 7.0, got.DiscountedPrice)

	zero := 0.0
	require.NoError(t, s.UpdateFuelRecord(f.ID, FuelRecordPatch{FuelAmount: &zero}))
	got, err = s.FuelRecord(f.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.DiscountedPrice)

	require.NoError(t, s.RemoveFuelRecord(f.ID))
	assert.Empty(t, s.FuelRecords())
}

func TestCategories(t *testing.T) {
	s := openTestStore(t, nil)
	require.NoError(t, s.AddCategory("Body"))
	require.NoError(t, s.AddItemToCategory("Body", "Dent repair"))
	require.NoError(t, s.AddItemToCategory("Body", "Dent repair"))
	assert.Equal(t, []string{"Dent repair"}, s.Categories()["Body"])

	require.NoError(t, s.AddItemToCategory("Audio", "Speaker"))
	_, ok := s.Categories()["Audio"]
	assert.False(t, ok, "items are only added to existing categories")

	require.NoError(t, s.RemoveItemFromCategory(" Body ", " Dent repair "))
	assert.Empty(t, s.Categories()["Body"])
	require.NoError(t, s.RemoveCategory("  Body"))
	assert.False(t, s.Categories().Has("Body", ""))

	assert.ErrorIs(t, s.AddCategory("   "), models.ErrEmptyName)
}

func TestFuelOptions(t *testing.T) {
	s := openTestStore(t, nil)
	require.NoError(t, s.AddLocation("Suzhou"))
	require.NoError(t, s.AddGasStation("Sinopec"))
	require.NoError(t, s.AddPaymentMethod("Credit card"))
	require.NoError(t, s.AddFuelType("E10"))
	opts := s.FuelOptions()
	assert.Contains(t, opts.Locations, "Suzhou")
	assert.Contains(t, opts.PaymentMethods, "Credit card")
	assert.Contains(t, opts.FuelTypes, "E10")

	require.NoError(t, s.RemoveLocation("Suzhou"))
	require.NoError(t, s.RemoveGasStation("Sinopec"))
	require.NoError(t, s.RemovePaymentMethod("Credit card"))
	require.NoError(t, s.RemoveFuelType("E10"))
	assert.Equal(t, models.DefaultFuelOptions().Locations, s.FuelOptions().Locations)
	assert.NotContains(t, s.FuelOptions().GasStations, "Sinopec")

	assert.Error(t, s.AddFuelOption(FuelOptionList("colors"), "red"))
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	s := openTestStore(t, nil)
	_, err := s.AddRecord(models.MaintenanceRecord{
		Date:  models.NewDate(2024, 1, 1),
		Items: []models.MaintenanceItem{{Name: "Battery"}},
	})
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Data.Records[0].Items[0].Name = "mutated"
	snap.Categories["Engine"][0] = "mutated"
	assert.Equal(t, "Battery", s.Records()[0].Items[0].Name)
	assert.NotEqual(t, "mutated", s.Categories()["Engine"][0])
}

func TestSave_FailureLeavesMirror(t *testing.T) {
	fail := &storage.FailingBackend{
		Backend:   storage.NewMemory(),
		FailSlots: map[string]error{SlotData: errors.New("disk full")},
	}
	s := openTestStore(t, fail)
	_, err := s.AddReminder(models.Reminder{Title: "Oil"})
	require.Error(t, err)
	assert.Empty(t, s.Reminders())
}

func TestReopen_PersistsState(t *testing.T) {
	mem := storage.NewMemory()
	s := openTestStore(t, mem)
	_, err := s.AddFuelRecord(models.FuelRecord{Date: models.NewDate(2024, 1, 1), FuelAmount: 10, TotalCost: 80})
	require.NoError(t, err)
	require.NoError(t, s.AddLocation("Suzhou"))

	again := openTestStore(t, mem)
	assert.Equal(t, s.Snapshot(), again.Snapshot())
	assert.Equal(t, CurrentSchemaVersion, storedData(t, mem).SchemaVersion)
}

func TestReset(t *testing.T) {
	s := openTestStore(t, nil)
	_, err := s.AddReminder(models.Reminder{Title: "Oil"})
	require.NoError(t, err)
	require.NoError(t, s.AddCategory("Body"))
	require.NoError(t, s.Reset())

	snap := s.Snapshot()
	assert.Empty(t, snap.Data.Reminders)
	assert.Equal(t, models.DefaultCategories(), snap.Categories)
}

func TestImportAll_ReplacesPresentSlots(t *testing.T) {
	s := openTestStore(t, nil)
	_, err := s.AddReminder(models.Reminder{Title: "Old"})
	require.NoError(t, err)
	require.NoError(t, s.AddLocation("Suzhou"))

	data := models.EmptyData()
	data.Records = []models.MaintenanceRecord{{
		ID: "keep-me", Date: models.NewDate(2023, 1, 1),
		Items: []models.MaintenanceItem{{Name: "Coolant", ActualPrice: 80, OriginalPrice: 100}},
	}}
	require.NoError(t, s.ImportAll(ImportBundle{Data: &data}))

	snap := s.Snapshot()
	assert.Empty(t, snap.Data.Reminders, "primary bundle is replaced wholesale")
	require.Len(t, snap.Data.Records, 1)
	assert.Equal(t, "keep-me", snap.Data.Records[0].ID)
	assert.Equal(t, 80.0, snap.Data.Records[0].TotalActualCost)
	assert.Contains(t, snap.FuelOptions.Locations, "Suzhou", "absent slots are untouched")
}

func TestImportAll_NormalizesDerivedFields(t *testing.T) {
	s := openTestStore(t, nil)
	data := models.EmptyData()
	data.FuelRecords = []models.FuelRecord{{
		ID: "f", Date: models.NewDate(2024, 5, 1), FuelAmount: 20, TotalCost: 100,
	}}
	data.PurchasedItems = []models.PurchasedItem{
		{ID: "oil", Name: "Oil", Quantity: 3, TotalQuantity: 5, RemainingQuantity: 1},
		{ID: "filter", Name: "Filter", Quantity: 1, TotalQuantity: 2, RemainingQuantity: 9, IsMultiUse: true},
	}
	require.NoError(t, s.ImportAll(ImportBundle{Data: &data}))

	fuel := s.FuelRecords()
	require.Len(t, fuel, 1)
	assert.Equal(t, 5.0, fuel[0].DiscountedPrice)

	oil, err := s.PurchasedItem("oil")
	require.NoError(t, err)
	assert.Equal(t, 3, oil.TotalQuantity)
	assert.Equal(t, 3, oil.RemainingQuantity)

	filter, err := s.PurchasedItem("filter")
	require.NoError(t, err)
	assert.Equal(t, 2, filter.TotalQuantity)
	assert.Equal(t, 2, filter.RemainingQuantity)
}

func TestImportAll_BackfillsFuelOptionLists(t *testing.T) {
	s := openTestStore(t, nil)
	opts := models.FuelOptions{FuelTypes: []string{"95 gasoline"}}
	require.NoError(t, s.ImportAll(ImportBundle{FuelOptions: &opts}))

	got := s.FuelOptions()
	assert.Equal(t, []string{"95 gasoline"}, got.FuelTypes)
	assert.Equal(t, models.DefaultFuelOptions().Locations, got.Locations)
}

func TestImportAll_RollsBackOnFailure(t *testing.T) {
	mem := storage.NewMemory()
	seed := openTestStore(t, mem)
	_, err := seed.AddReminder(models.Reminder{Title: "Existing"})
	require.NoError(t, err)
	before, err := mem.Get(SlotData)
	require.NoError(t, err)

	fail := &storage.FailingBackend{
		Backend:   mem,
		FailSlots: map[string]error{SlotFuelOptions: errors.New("disk full")},
	}
	s := openTestStore(t, fail)

	data := models.EmptyData()
	cats := models.Categories{"Only": {"One"}}
	opts := models.DefaultFuelOptions()
	err = s.ImportAll(ImportBundle{Data: &data, Categories: cats, FuelOptions: &opts})
	require.Error(t, err)

	after, err := mem.Get(SlotData)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
	_, err = mem.Get(SlotCategories)
	assert.ErrorIs(t, err, storage.ErrNotFound, "slot absent before import is removed again")

	assert.Len(t, s.Reminders(), 1)
	assert.Equal(t, models.DefaultCategories(), s.Categories())
}
