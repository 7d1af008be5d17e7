// ABOUTME: Tests for the ordered schema upgrade steps
// ABOUTME: Exercises each step on raw documents and strict decoding

package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawDoc(t *testing.T, s string) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &doc))
	return doc
}

func TestUpgradeDocument_FromScratch(t *testing.T) {
	doc := rawDoc(t, `{"records": [1, {"date": "2024-01-01"}], "fuelRecords": [{"originalPrice": 7.2, "preDiscountPrice": 0}]}`)
	applied := UpgradeDocument(doc)
	assert.Equal(t, []string{"collections", "fuel-record-fields", "record-fields"}, applied)
	assert.Equal(t, float64(CurrentSchemaVersion), doc["schemaVersion"])

	records := doc["records"].([]any)
	require.Len(t, records, 1, "non-object entries are dropped")
	rec := records[0].(map[string]any)
	assert.Equal(t, []any{}, rec["attachments"])
	assert.Equal(t, "", rec["notes"])

	fuel := doc["fuelRecords"].([]any)[0].(map[string]any)
	assert.Equal(t, 7.2, fuel["preDiscountPrice"])
	assert.Equal(t, []any{}, fuel["attachments"])

	assert.Equal(t, []any{}, doc["reminders"])
}

func TestUpgradeDocument_KeepsExistingValues(t *testing.T) {
	doc := rawDoc(t, `{"schemaVersion": 1, "fuelRecords": [{"originalPrice": 7.2, "preDiscountPrice": 7.5, "attachments": [{"id": "a"}]}]}`)
	applied := UpgradeDocument(doc)
	assert.Equal(t, []string{"fuel-record-fields", "record-fields"}, applied)

	fuel := doc["fuelRecords"].([]any)[0].(map[string]any)
	assert.Equal(t, 7.5, fuel["preDiscountPrice"])
	assert.Len(t, fuel["attachments"], 1)
}

func TestUpgradeDocument_CurrentIsNoop(t *testing.T) {
	doc := rawDoc(t, `{"schemaVersion": 3, "records": []}`)
	assert.Empty(t, UpgradeDocument(doc))
}

func TestDecodeData_Strict(t *testing.T) {
	_, errs, err := decodeData([]byte(`{"reminders": [{"title": "x", "dueMileage": "far"}]}`), true)
	require.Error(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, KeyReminders, errs[0].Key)
	assert.Equal(t, 0, errs[0].Index)

	_, _, err = decodeData([]byte(`[]`), false)
	assert.Error(t, err)
}

func TestRepairDocument(t *testing.T) {
	clean := rawDoc(t, `{"records": [{"id": "a", "date": "2024-01-01", "mileage": 10, "items": [{"id": "i", "originalPrice": 5}]}]}`)
	assert.Zero(t, repairDocument(clean))

	doc := rawDoc(t, `{"records": [{"id": "a", "date": "2024-01-01", "mileage": 10.4, "attachments": [{"size": "12"}, 3]}]}`)
	assert.Equal(t, 3, repairDocument(doc))
	rec := doc["records"].([]any)[0].(map[string]any)
	assert.Equal(t, 10.0, rec["mileage"])
	attachments := rec["attachments"].([]any)
	require.Len(t, attachments, 1)
	assert.Equal(t, 12.0, attachments[0].(map[string]any)["size"])

	unusable := rawDoc(t, `{"fuelRecords": [{"id": 9, "date": "2024-01-01"}]}`)
	repairDocument(unusable)
	_, errs := DecodeDocument(unusable)
	require.Len(t, errs, 1, "a mistyped id is left for decoding to reject")
}
