// ABOUTME: Ordered schema upgrades for the primary data document
// ABOUTME: Each step lifts a raw decoded document one version before typed decoding

package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harper/carlog/internal/models"
)

// CurrentSchemaVersion is the version written by every save.
const CurrentSchemaVersion = 3

// Collection keys of the primary document.
const (
	KeyRecords         = "records"
	KeyIncompleteItems = "incompleteItems"
	KeyReminders       = "reminders"
	KeyPurchasedItems  = "purchasedItems"
	KeyFuelRecords     = "fuelRecords"
)

// CollectionKeys lists the primary document collections in export order.
var CollectionKeys = []string{KeyRecords, KeyIncompleteItems, KeyReminders, KeyPurchasedItems, KeyFuelRecords}

type upgrade struct {
	from, to int
	name     string
	apply    func(doc map[string]any)
}

var upgrades = []upgrade{
	{from: 0, to: 1, name: "collections", apply: upgradeCollections},
	{from: 1, to: 2, name: "fuel-record-fields", apply: upgradeFuelRecordFields},
	{from: 2, to: 3, name: "record-fields", apply: upgradeRecordFields},
}

// UpgradeDocument lifts doc to CurrentSchemaVersion in place and returns the
// names of the steps applied. Documents from a newer version are left alone.
func UpgradeDocument(doc map[string]any) []string {
	version := 0
	if v, ok := doc["schemaVersion"].(float64); ok {
		version = int(v)
	}
	var applied []string
	for _, u := range upgrades {
		if version != u.from {
			continue
		}
		u.apply(doc)
		version = u.to
		applied = append(applied, u.name)
	}
	doc["schemaVersion"] = float64(version)
	return applied
}

func upgradeCollections(doc map[string]any) {
	for _, key := range CollectionKeys {
		list, _ := doc[key].([]any)
		kept := make([]any, 0, len(list))
		for _, entry := range list {
			if _, ok := entry.(map[string]any); ok {
				kept = append(kept, entry)
			}
		}
		doc[key] = kept
	}
}

func upgradeFuelRecordFields(doc map[string]any) {
	for _, entry := range objects(doc, KeyFuelRecords) {
		ensureList(entry, "attachments")
		if price, _ := entry["preDiscountPrice"].(float64); price == 0 {
			original, _ := entry["originalPrice"].(float64)
			entry["preDiscountPrice"] = original
		}
	}
}

func upgradeRecordFields(doc map[string]any) {
	for _, entry := range objects(doc, KeyRecords) {
		ensureList(entry, "items")
		ensureList(entry, "attachments")
		ensureList(entry, "incompleteItems")
		ensureList(entry, "completedReminders")
		if _, ok := entry["notes"].(string); !ok {
			entry["notes"] = ""
		}
	}
	for _, entry := range objects(doc, KeyReminders) {
		ensureList(entry, "items")
	}
}

func objects(doc map[string]any, key string) []map[string]any {
	list, _ := doc[key].([]any)
	out := make([]map[string]any, 0, len(list))
	for _, entry := range list {
		if m, ok := entry.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func ensureList(entry map[string]any, key string) {
	if _, ok := entry[key].([]any); !ok {
		entry[key] = []any{}
	}
}

// EntryError reports a collection entry that could not be decoded.
type EntryError struct {
	Key   string
	Index int
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s[%d]: %v", e.Key, e.Index, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// DecodeDocument converts an upgraded document into typed data. Entries that
// fail to decode are skipped and reported.
func DecodeDocument(doc map[string]any) (models.Data, []*EntryError) {
	data := models.EmptyData()
	var errs []*EntryError
	data.Records, errs = decodeEntries[models.MaintenanceRecord](doc, KeyRecords, errs)
	data.IncompleteItems, errs = decodeEntries[models.IncompleteItem](doc, KeyIncompleteItems, errs)
	data.Reminders, errs = decodeEntries[models.Reminder](doc, KeyReminders, errs)
	data.PurchasedItems, errs = decodeEntries[models.PurchasedItem](doc, KeyPurchasedItems, errs)
	data.FuelRecords, errs = decodeEntries[models.FuelRecord](doc, KeyFuelRecords, errs)
	if v, ok := doc["schemaVersion"].(float64); ok {
		data.SchemaVersion = int(v)
	}
	fillData(&data)
	return data, errs
}

func decodeEntries[T any](doc map[string]any, key string, errs []*EntryError) ([]T, []*EntryError) {
	list, _ := doc[key].([]any)
	out := make([]T, 0, len(list))
	for i, entry := range list {
		raw, err := json.Marshal(entry)
		if err == nil {
			var v T
			if err = json.Unmarshal(raw, &v); err == nil {
				out = append(out, v)
				continue
			}
		}
		errs = append(errs, &EntryError{Key: key, Index: i, Err: err})
	}
	return out, errs
}

// decodeData parses, upgrades and decodes a stored primary document.
// Unless strict, mistyped fields are repaired before decoding.
func decodeData(raw []byte, strict bool) (models.Data, []*EntryError, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.Data{}, nil, err
	}
	if doc == nil {
		return models.Data{}, nil, errors.New("not a JSON object")
	}
	UpgradeDocument(doc)
	if !strict {
		repairDocument(doc)
	}
	data, errs := DecodeDocument(doc)
	if strict && len(errs) > 0 {
		return models.Data{}, errs, errs[0]
	}
	return data, errs, nil
}

// fillData replaces nil nested lists so stored documents never carry null collections.
func fillData(d *models.Data) {
	if d.Records == nil {
		d.Records = []models.MaintenanceRecord{}
	}
	if d.IncompleteItems == nil {
		d.IncompleteItems = []models.IncompleteItem{}
	}
	if d.Reminders == nil {
		d.Reminders = []models.Reminder{}
	}
	if d.PurchasedItems == nil {
		d.PurchasedItems = []models.PurchasedItem{}
	}
	if d.FuelRecords == nil {
		d.FuelRecords = []models.FuelRecord{}
	}
	for i := range d.Records {
		fillRecord(&d.Records[i])
	}
	for i := range d.Reminders {
		if d.Reminders[i].Items == nil {
			d.Reminders[i].Items = []models.ReminderItem{}
		}
	}
	for i := range d.FuelRecords {
		if d.FuelRecords[i].Attachments == nil {
			d.FuelRecords[i].Attachments = []models.FileAttachment{}
		}
	}
}

func fillRecord(r *models.MaintenanceRecord) {
	if r.Items == nil {
		r.Items = []models.MaintenanceItem{}
	}
	if r.Attachments == nil {
		r.Attachments = []models.FileAttachment{}
	}
	if r.IncompleteItems == nil {
		r.IncompleteItems = []models.IncompleteItem{}
	}
	if r.CompletedReminders == nil {
		r.CompletedReminders = []string{}
	}
}
