// ABOUTME: Tests for MCP server, tools, and resources
// ABOUTME: Runs each handler against a store over in-memory storage

package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/harper/carlog/internal/logging"
	"github.com/harper/carlog/internal/models"
	"github.com/harper/carlog/internal/storage"
	"github.com/harper/carlog/internal/store"
)

var fixedNow = time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(storage.NewMemory(), store.WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	server, err := NewServer(st, WithLogger(logging.Discard()), WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, st
}

func TestNewServer(t *testing.T) {
	server, _ := newTestServer(t)
	if server.store == nil {
		t.Error("expected non-nil store")
	}
	if server.mcp == nil {
		t.Error("expected non-nil mcp server")
	}
}

func TestNewServer_NilStore(t *testing.T) {
	if _, err := NewServer(nil); err == nil {
		t.Error("expected error for nil store")
	}
}

func TestHandleAddRecord(t *testing.T) {
	server, st := newTestServer(t)

	reminder, err := st.AddReminder(models.Reminder{Title: "Oil change"})
	if err != nil {
		t.Fatalf("AddReminder: %v", err)
	}
	if _, err := st.AddPurchasedItem(models.PurchasedItem{
		Name: "Oil", Category: "Engine", IsMultiUse: true, TotalQuantity: 4, RemainingQuantity: 4,
		PurchaseDate: models.NewDate(2024, 1, 1),
	}); err != nil {
		t.Fatalf("AddPurchasedItem: %v", err)
	}

	input := AddRecordInput{
		Date:    "2024-06-01",
		Mileage: 12000,
		Items: []RecordItemInput{
			{Category: "Engine", Name: "Oil", OriginalPrice: 300, ActualPrice: 260},
			{Category: "Engine", Name: "Filter", OriginalPrice: 40, ActualPrice: 35},
		},
		CompletedReminders: []string{reminder.ID},
		IncompleteItems:    []IncompleteInput{{Name: "Brake squeal", Priority: "high"}},
	}

	result, output, err := server.handleAddRecord(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handleAddRecord failed: %v", err)
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if output.Date != "2024-06-01" || output.TotalActualCost != 295 || output.TotalOriginalCost != 340 {
		t.Errorf("unexpected output: %+v", output)
	}
	if len(output.IncompleteItems) != 1 || output.IncompleteItems[0].Priority != "high" {
		t.Errorf("expected one high priority problem, got %+v", output.IncompleteItems)
	}

	got, _ := st.Reminder(reminder.ID)
	if !got.Completed {
		t.Error("expected reminder to be completed by the record")
	}
	if items := st.PurchasedItems(); items[0].RemainingQuantity != 3 {
		t.Errorf("expected 3 uses left, got %d", items[0].RemainingQuantity)
	}
	if items := st.IncompleteItems(); len(items) != 1 || items[0].Name != "Brake squeal" {
		t.Errorf("expected problem in global list, got %+v", items)
	}
}

func TestHandleAddRecord_DefaultsToToday(t *testing.T) {
	server, _ := newTestServer(t)

	_, output, err := server.handleAddRecord(context.Background(), nil, AddRecordInput{Mileage: 100})
	if err != nil {
		t.Fatalf("handleAddRecord failed: %v", err)
	}
	if output.Date != "2024-06-15" {
		t.Errorf("expected today's date, got %q", output.Date)
	}
}

func TestHandleAddRecord_InvalidInput(t *testing.T) {
	server, st := newTestServer(t)

	cases := map[string]AddRecordInput{
		"bad date":         {Date: "June 1st", Mileage: 1},
		"negative mileage": {Mileage: -5},
		"bad priority":     {Mileage: 1, IncompleteItems: []IncompleteInput{{Name: "x", Priority: "urgent"}}},
		"negative price":   {Mileage: 1, Items: []RecordItemInput{{Name: "Oil", ActualPrice: -1}}},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := server.handleAddRecord(context.Background(), nil, input); err == nil {
				t.Error("expected error")
			}
		})
	}
	if n := len(st.Records()); n != 0 {
		t.Errorf("nothing should be stored, got %d records", n)
	}
}

func TestHandleListRecords(t *testing.T) {
	server, st := newTestServer(t)
	for _, day := range []int{1, 3, 2} {
		if _, err := st.AddRecord(models.MaintenanceRecord{Date: models.NewDate(2024, 5, day), Mileage: day * 1000}); err != nil {
			t.Fatalf("AddRecord: %v", err)
		}
	}

	_, output, err := server.handleListRecords(context.Background(), nil, ListRecordsInput{})
	if err != nil {
		t.Fatalf("handleListRecords failed: %v", err)
	}
	if output.Count != 3 || output.Records[0].Date != "2024-05-03" {
		t.Errorf("expected newest first, got %+v", output.Records)
	}

	_, output, _ = server.handleListRecords(context.Background(), nil, ListRecordsInput{Limit: 2})
	if output.Count != 2 {
		t.Errorf("expected limit to apply, got %d", output.Count)
	}
}

func TestHandleAddFuel(t *testing.T) {
	server, _ := newTestServer(t)

	_, output, err := server.handleAddFuel(context.Background(), nil, AddFuelInput{
		Date: "2024-06-10", Mileage: 12500, FuelAmount: 40, TotalCost: 300, PreDiscountPrice: 8, IsFullTank: true,
	})
	if err != nil {
		t.Fatalf("handleAddFuel failed: %v", err)
	}
	if output.DiscountedPrice != 7.5 {
		t.Errorf("expected discounted price 7.5, got %v", output.DiscountedPrice)
	}
}

func TestHandleListFuel_Consumption(t *testing.T) {
	server, _ := newTestServer(t)
	ctx := context.Background()

	for _, in := range []AddFuelInput{
		{Date: "2024-05-10", Mileage: 12000, FuelAmount: 35, TotalCost: 260, IsFullTank: true},
		{Date: "2024-06-10", Mileage: 12500, FuelAmount: 40, TotalCost: 300, IsFullTank: true},
	} {
		if _, _, err := server.handleAddFuel(ctx, nil, in); err != nil {
			t.Fatalf("handleAddFuel failed: %v", err)
		}
	}

	_, output, err := server.handleListFuel(ctx, nil, ListFuelInput{})
	if err != nil {
		t.Fatalf("handleListFuel failed: %v", err)
	}
	if output.Count != 2 || output.FuelRecords[0].Date != "2024-06-10" {
		t.Errorf("expected newest first, got %+v", output.FuelRecords)
	}
	if output.AverageConsumption != 8 {
		t.Errorf("expected 8 L/100km, got %v", output.AverageConsumption)
	}
}

func TestHandleAddReminder(t *testing.T) {
	server, _ := newTestServer(t)
	price := 120.0
	mileage := 15000

	_, output, err := server.handleAddReminder(context.Background(), nil, AddReminderInput{
		Title:      "Oil change",
		DueDate:    "2024-06-20",
		DueMileage: &mileage,
		Type:       "both",
		Items:      []ReminderItemInput{{Name: "Oil", EstimatedPrice: &price}},
	})
	if err != nil {
		t.Fatalf("handleAddReminder failed: %v", err)
	}
	if output.Priority != "medium" || output.Type != "both" {
		t.Errorf("unexpected defaults: %+v", output)
	}
	if output.State != "due_soon" {
		t.Errorf("expected due_soon five days out, got %q", output.State)
	}
	if output.EstimatedTotal != 120 {
		t.Errorf("expected estimate 120, got %v", output.EstimatedTotal)
	}
}

func TestHandleAddReminder_InvalidType(t *testing.T) {
	server, _ := newTestServer(t)
	if _, _, err := server.handleAddReminder(context.Background(), nil, AddReminderInput{Title: "x", Type: "weekly"}); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestHandleListReminders(t *testing.T) {
	server, st := newTestServer(t)
	overdue := models.NewDate(2024, 6, 1)
	open, _ := st.AddReminder(models.Reminder{Title: "Tires", DueDate: &overdue})
	done, _ := st.AddReminder(models.Reminder{Title: "Wipers"})
	completed := true
	if err := st.UpdateReminder(done.ID, store.ReminderPatch{Completed: &completed}); err != nil {
		t.Fatalf("UpdateReminder: %v", err)
	}

	_, output, err := server.handleListReminders(context.Background(), nil, ListRemindersInput{})
	if err != nil {
		t.Fatalf("handleListReminders failed: %v", err)
	}
	if output.Count != 1 || output.Reminders[0].ID != open.ID || output.Reminders[0].State != "overdue" {
		t.Errorf("expected only the overdue reminder, got %+v", output.Reminders)
	}

	_, output, _ = server.handleListReminders(context.Background(), nil, ListRemindersInput{IncludeCompleted: true})
	if output.Count != 2 {
		t.Errorf("expected completed reminders too, got %d", output.Count)
	}
}

func TestHandleCompleteIncomplete(t *testing.T) {
	server, st := newTestServer(t)
	item, err := st.AddIncompleteItem(models.IncompleteItem{Name: "Rattle", DateFound: models.NewDate(2024, 6, 1)})
	if err != nil {
		t.Fatalf("AddIncompleteItem: %v", err)
	}

	_, output, err := server.handleCompleteIncomplete(context.Background(), nil, CompleteIncompleteInput{ID: item.ID})
	if err != nil {
		t.Fatalf("handleCompleteIncomplete failed: %v", err)
	}
	if !output.Completed || output.CompletedDate != "2024-06-15" {
		t.Errorf("expected completion today, got %+v", output)
	}
}

func TestHandleCompleteIncomplete_NotFound(t *testing.T) {
	server, _ := newTestServer(t)
	_, _, err := server.handleCompleteIncomplete(context.Background(), nil, CompleteIncompleteInput{ID: "missing"})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestHandleAddPurchased(t *testing.T) {
	server, _ := newTestServer(t)

	_, output, err := server.handleAddPurchased(context.Background(), nil, AddPurchasedInput{
		Name: "Coolant", Category: "Fluids", IsMultiUse: true, TotalQuantity: 4, ExpiryDate: "2024-07-01",
	})
	if err != nil {
		t.Fatalf("handleAddPurchased failed: %v", err)
	}
	if output.RemainingQuantity != 4 {
		t.Errorf("expected remaining to default to total, got %d", output.RemainingQuantity)
	}
	if output.ExpiryStatus != "expiring_soon" {
		t.Errorf("expected expiring_soon, got %q", output.ExpiryStatus)
	}

	_, output, err = server.handleAddPurchased(context.Background(), nil, AddPurchasedInput{
		Name: "Wiper", Category: "Body", Quantity: 2, TotalQuantity: 9,
	})
	if err != nil {
		t.Fatalf("handleAddPurchased failed: %v", err)
	}
	if output.TotalQuantity != 2 || output.RemainingQuantity != 2 || output.ExpiryStatus != "none" {
		t.Errorf("single-use quantities should follow quantity, got %+v", output)
	}
}

func TestHandleGetStats(t *testing.T) {
	server, st := newTestServer(t)
	if _, err := st.AddRecord(models.MaintenanceRecord{
		Date: models.NewDate(2024, 6, 1), Mileage: 12000,
		Items: []models.MaintenanceItem{{Name: "Oil", OriginalPrice: 100, ActualPrice: 80}},
	}); err != nil {
		t.Fatalf("AddRecord: %v", err)
	}

	_, output, err := server.handleGetStats(context.Background(), nil, GetStatsInput{})
	if err != nil {
		t.Fatalf("handleGetStats failed: %v", err)
	}
	if output.MaintenanceCost != 80 || output.Savings != 20 || output.CurrentMileage != 12000 {
		t.Errorf("unexpected stats: %+v", output)
	}
	if output.LastMaintenance != "2024-06-01" {
		t.Errorf("expected last maintenance date, got %q", output.LastMaintenance)
	}
	if len(output.Trend) != 6 || output.Trend[5].Month != "2024-06" || output.Trend[5].Maintenance != 80 {
		t.Errorf("unexpected trend: %+v", output.Trend)
	}
}

func TestHandleDashboardResource(t *testing.T) {
	server, _ := newTestServer(t)

	result, err := server.handleDashboardResource(context.Background(), nil)
	if err != nil {
		t.Fatalf("handleDashboardResource failed: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("expected 1 content, got %d", len(result.Contents))
	}
	content := result.Contents[0]
	if content.URI != DashboardURI {
		t.Errorf("expected URI %q, got %q", DashboardURI, content.URI)
	}
	if content.MIMEType != "application/json" {
		t.Errorf("expected MIME type 'application/json', got %q", content.MIMEType)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(content.Text), &decoded); err != nil {
		t.Fatalf("dashboard is not JSON: %v", err)
	}
	if _, ok := decoded["costs"]; !ok {
		t.Errorf("expected costs section, got keys %v", decoded)
	}
}
