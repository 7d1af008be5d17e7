// ABOUTME: Tests for exports, CSV layouts and validated imports
// ABOUTME: Includes full export/import round trips through a fresh store

package exchange

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harper/carlog/internal/logging"
	"github.com/harper/carlog/internal/models"
	"github.com/harper/carlog/internal/storage"
	"github.com/harper/carlog/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportTime = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	n := 0
	s, err := store.Open(storage.NewMemory(),
		store.WithLogger(logging.Discard()),
		store.WithIDFunc(func() string { n++; return fmt.Sprintf("id-%d", n) }))
	require.NoError(t, err)
	return s
}

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	s := newStore(t)
	due := models.NewDate(2024, 9, 1)
	price := 80.0
	r, err := s.AddReminder(models.Reminder{
		Title: "Brake fluid", Type: models.ReminderTime, DueDate: &due,
		Items: []models.ReminderItem{{Category: "Brakes", Name: "Brake fluid", EstimatedPrice: &price}},
	})
	require.NoError(t, err)
	_, err = s.AddRecord(models.MaintenanceRecord{
		Date: models.NewDate(2024, 5, 2), Mileage: 12000,
		Items: []models.MaintenanceItem{
			{Category: "Engine", Name: "Oil change", OriginalPrice: 300, ActualPrice: 260, Completed: true},
			{Category: "Engine", Name: "Oil filter", OriginalPrice: 40, ActualPrice: 35, Notes: `said "OEM"`},
		},
		Attachments:        []models.FileAttachment{{Name: "invoice.pdf", Type: "application/pdf", Size: 3, URL: "data:application/pdf;base64,YWJj"}},
		IncompleteItems:    []models.IncompleteItem{{Name: "Rear pads thin", Priority: models.PriorityHigh}},
		CompletedReminders: []string{r.ID},
		Notes:              "annual service",
	})
	require.NoError(t, err)
	exp := models.NewDate(2025, 1, 1)
	_, err = s.AddPurchasedItem(models.PurchasedItem{
		Name: "Engine oil 4L", Category: "Engine", PurchaseDate: models.NewDate(2024, 4, 1),
		ExpiryDate: &exp, IsMultiUse: true, TotalQuantity: 4, RemainingQuantity: 4, Price: 199,
	})
	require.NoError(t, err)
	for _, f := range []models.FuelRecord{
		{Date: models.NewDate(2024, 5, 1), Mileage: 1000, FuelAmount: 5, OriginalPrice: 40, TotalCost: 38, IsFullTank: true, GasStation: "Shell", FuelType: "95 gasoline"},
		{Date: models.NewDate(2024, 5, 20), Mileage: 1400, FuelAmount: 40, OriginalPrice: 320, TotalCost: 300, IsFullTank: true, Location: "Wuhan"},
	} {
		_, err := s.AddFuelRecord(f)
		require.NoError(t, err)
	}
	require.NoError(t, s.AddCategory("Body"))
	require.NoError(t, s.AddItemToCategory("Body", "Dent repair"))
	require.NoError(t, s.AddLocation("Suzhou"))
	return s
}

func TestExport_Metadata(t *testing.T) {
	s := seededStore(t)
	env, err := Export(s.Snapshot(), nil, exportTime)
	require.NoError(t, err)

	assert.Equal(t, FormatVersion, env.Metadata.Version)
	assert.Equal(t, AllTypes, env.Metadata.DataTypes)
	require.NotNil(t, env.Metadata.AttachmentStats)
	assert.Equal(t, 1, env.Metadata.AttachmentStats.TotalRecordAttachments)
	assert.Equal(t, 0, env.Metadata.AttachmentStats.TotalFuelAttachments)
	assert.Equal(t, 1, env.Metadata.AttachmentStats.TotalAttachments)
	for _, key := range AllTypes {
		assert.Contains(t, env.Data, key)
	}
}

func TestExport_SelectedTypes(t *testing.T) {
	s := seededStore(t)
	env, err := Export(s.Snapshot(), []string{TypeFuelOptions, TypeRecords}, exportTime)
	require.NoError(t, err)
	assert.Equal(t, []string{TypeRecords, TypeFuelOptions}, env.Metadata.DataTypes)
	assert.NotContains(t, env.Data, TypeReminders)
	assert.Contains(t, env.Data, "schemaVersion")

	_, err = Export(s.Snapshot(), []string{"photos"}, exportTime)
	assert.Error(t, err)
}

func TestRoundTrip_JSON(t *testing.T) {
	src := seededStore(t)
	env, err := Export(src.Snapshot(), nil, exportTime)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, env))

	imported, err := DecodeImport(buf.Bytes())
	require.NoError(t, err)
	require.NotNil(t, imported.Metadata)
	assert.Equal(t, FormatVersion, imported.Metadata.Version)

	dst := newStore(t)
	require.NoError(t, dst.ImportAll(imported.Bundle))
	assert.Equal(t, src.Snapshot(), dst.Snapshot())
}

func TestRoundTrip_YAML(t *testing.T) {
	src := seededStore(t)
	env, err := Export(src.Snapshot(), nil, exportTime)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, env))
	assert.Contains(t, buf.String(), "metadata:")

	imported, err := DecodeImportYAML(buf.Bytes())
	require.NoError(t, err)

	dst := newStore(t)
	require.NoError(t, dst.ImportAll(imported.Bundle))
	assert.Equal(t, src.Snapshot(), dst.Snapshot())
}

func TestReadImportFile_ChoosesFormat(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "backup.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("records:\n  - date: \"2024-01-02\"\n    mileage: 10\n"), 0600))
	imported, err := ReadImportFile(yamlPath)
	require.NoError(t, err)
	require.NotNil(t, imported.Bundle.Data)
	require.Len(t, imported.Bundle.Data.Records, 1)
	assert.Equal(t, 10, imported.Bundle.Data.Records[0].Mileage)

	_, err = ReadImportFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestDecodeImport_BareDocument(t *testing.T) {
	imported, err := DecodeImport([]byte(`{"records": [{"id": "r1", "date": "2024-02-02", "mileage": 5}], "unknown": 1}`))
	require.NoError(t, err)
	require.NotNil(t, imported.Bundle.Data)
	assert.Nil(t, imported.Metadata)
	assert.Nil(t, imported.Bundle.Categories)
	assert.Nil(t, imported.Bundle.FuelOptions)
	assert.Equal(t, "r1", imported.Bundle.Data.Records[0].ID)
	assert.NotNil(t, imported.Bundle.Data.Reminders, "absent primary keys become empty")
}

func TestDecodeImport_Rejections(t *testing.T) {
	cases := map[string]struct {
		doc string
		key string
	}{
		"not json":           {`{oops`, ""},
		"array":              {`[]`, ""},
		"nothing recognised": {`{"metadata": {}, "data": {"photos": []}}`, ""},
		"data not object":    {`{"data": []}`, "data"},
		"records not array":  {`{"records": {}}`, "records"},
		"entry not object":   {`{"reminders": [1]}`, "reminders"},
		"bad entry field":    {`{"fuelRecords": [{"date": "2024-01-01", "fuelAmount": "lots"}]}`, "fuelRecords"},
		"bad categories":     {`{"categories": {"Engine": "Oil"}}`, "categories"},
		"bad fuel options":   {`{"fuelOptions": {"locations": [1, 2]}}`, "fuelOptions"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeImport([]byte(tc.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidFormat)
			var ie *ImportError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tc.key, ie.Key)
		})
	}
}

func TestImport_MissingLocationsBackfilled(t *testing.T) {
	imported, err := DecodeImport([]byte(`{"data": {"fuelOptions": {"fuelTypes": ["95 gasoline"], "paymentMethods": [], "gasStations": ["Shell"]}}}`))
	require.NoError(t, err)
	require.NotNil(t, imported.Bundle.FuelOptions)
	assert.Nil(t, imported.Bundle.Data, "primary data untouched when absent")

	s := newStore(t)
	require.NoError(t, s.ImportAll(imported.Bundle))
	opts := s.FuelOptions()
	assert.Equal(t, models.DefaultFuelOptions().Locations, opts.Locations)
	assert.Equal(t, []string{"Shell"}, opts.GasStations)
	assert.Empty(t, opts.PaymentMethods)
}

func TestImport_LegacyFuelRecordsUpgraded(t *testing.T) {
	imported, err := DecodeImport([]byte(`{"fuelRecords": [{"id": "f1", "date": "2024-01-01", "fuelAmount": 40, "originalPrice": 7.5, "totalCost": 280}]}`))
	require.NoError(t, err)
	f := imported.Bundle.Data.FuelRecords[0]
	assert.Equal(t, 7.5, f.PreDiscountPrice)
	assert.NotNil(t, f.Attachments)
}

func csvLines(t *testing.T, out string) []string {
	t.Helper()
	require.True(t, strings.HasPrefix(out, BOM), "missing byte order mark")
	return strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, BOM), "\n"), "\n")
}

func TestWriteRecordsCSV(t *testing.T) {
	s := seededStore(t)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, CSVRecords, s.Snapshot().Data))

	lines := csvLines(t, buf.String())
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(recordHeaders, ","), lines[0])
	assert.Equal(t, `"2024-05-02","12000","Engine","Oil change","300","260","","340","295","1","invoice.pdf"`, lines[1])
	assert.Equal(t, `"2024-05-02","","Engine","Oil filter","40","35","said ""OEM""","","","",""`, lines[2])
}

func TestWriteFuelCSV(t *testing.T) {
	s := seededStore(t)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, CSVFuelRecords, s.Snapshot().Data))

	lines := csvLines(t, buf.String())
	require.Len(t, lines, 3)
	assert.Equal(t, `"2024-05-20","1400","40","320","300","7.50","","","Wuhan","","Yes","","0",""`, lines[1])
	assert.Equal(t, `"2024-05-01","1000","5","40","38","7.60","95 gasoline","Shell","","","Yes","","0",""`, lines[2])
}

func TestWritePurchasedCSV(t *testing.T) {
	s := seededStore(t)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, CSVPurchasedItems, s.Snapshot().Data))

	lines := csvLines(t, buf.String())
	require.Len(t, lines, 2)
	assert.Equal(t, `"Engine oil 4L","Engine","2024-04-01","2025-01-01","0","199","","Yes","4",""`, lines[1])

	assert.Error(t, WriteCSV(&buf, CSVKind("photos"), s.Snapshot().Data))
}

func TestExportAttachments(t *testing.T) {
	s := seededStore(t)
	out := ExportAttachments(s.Snapshot().Data, exportTime)
	assert.Equal(t, 1, out.Metadata.TotalAttachments)
	assert.Equal(t, AttachmentFormatVersion, out.Metadata.Version)
	require.Len(t, out.Attachments, 1)
	assert.Equal(t, SourceMaintenance, out.Attachments[0].Source)
	assert.Equal(t, "invoice.pdf", out.Attachments[0].Name)
	assert.Equal(t, "2024-05-02", out.Attachments[0].RecordDate.String())
}
