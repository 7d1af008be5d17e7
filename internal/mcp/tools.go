// ABOUTME: MCP tool definitions and handlers
// ABOUTME: Lets AI agents log maintenance, fuel, reminders and inventory and read stats

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/carlog/internal/models"
	"github.com/harper/carlog/internal/stats"
	"github.com/harper/carlog/internal/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.registerAddRecordTool()
	s.registerListRecordsTool()
	s.registerAddFuelTool()
	s.registerListFuelTool()
	s.registerAddReminderTool()
	s.registerListRemindersTool()
	s.registerCompleteIncompleteTool()
	s.registerAddPurchasedTool()
	s.registerGetStatsTool()
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonBytes, _ := json.MarshalIndent(v, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}

// dateOr parses a YYYY-MM-DD input, falling back to today when blank.
func (s *Server) dateOr(value string) (models.Date, error) {
	if value == "" {
		return models.DateOf(s.now()), nil
	}
	d, err := models.ParseDate(value)
	if err != nil {
		return models.Date{}, err
	}
	return d, nil
}

func dateString(d *models.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func limit[T any](list []T, n int) []T {
	if n > 0 && n < len(list) {
		return list[:n]
	}
	return list
}

// Output types carry dates as strings so agents see YYYY-MM-DD.

// RecordItemOutput is one line of work in a record.
type RecordItemOutput struct {
	Category      string  `json:"category"`
	Name          string  `json:"name"`
	OriginalPrice float64 `json:"original_price"`
	ActualPrice   float64 `json:"actual_price"`
	Notes         string  `json:"notes,omitempty"`
}

// RecordOutput defines output for maintenance record tools.
type RecordOutput struct {
	ID                 string             `json:"id"`
	Date               string             `json:"date"`
	Mileage            int                `json:"mileage"`
	Items              []RecordItemOutput `json:"items"`
	TotalOriginalCost  float64            `json:"total_original_cost"`
	TotalActualCost    float64            `json:"total_actual_cost"`
	Notes              string             `json:"notes,omitempty"`
	CompletedReminders []string           `json:"completed_reminders,omitempty"`
	IncompleteItems    []IncompleteOutput `json:"incomplete_items,omitempty"`
	Attachments        int                `json:"attachments"`
}

func recordOutput(r models.MaintenanceRecord) RecordOutput {
	out := RecordOutput{
		ID:                 r.ID,
		Date:               r.Date.String(),
		Mileage:            r.Mileage,
		Items:              make([]RecordItemOutput, len(r.Items)),
		TotalOriginalCost:  r.TotalOriginalCost,
		TotalActualCost:    r.TotalActualCost,
		Notes:              r.Notes,
		CompletedReminders: r.CompletedReminders,
		Attachments:        len(r.Attachments),
	}
	for i, item := range r.Items {
		out.Items[i] = RecordItemOutput{
			Category:      item.Category,
			Name:          item.Name,
			OriginalPrice: item.OriginalPrice,
			ActualPrice:   item.ActualPrice,
			Notes:         item.Notes,
		}
	}
	for _, inc := range r.IncompleteItems {
		out.IncompleteItems = append(out.IncompleteItems, incompleteOutput(inc))
	}
	return out
}

// IncompleteOutput defines output for incomplete item tools.
type IncompleteOutput struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	DateFound     string `json:"date_found"`
	Completed     bool   `json:"completed"`
	CompletedDate string `json:"completed_date,omitempty"`
	Priority      string `json:"priority"`
}

func incompleteOutput(i models.IncompleteItem) IncompleteOutput {
	return IncompleteOutput{
		ID:            i.ID,
		Name:          i.Name,
		Description:   i.Description,
		DateFound:     i.DateFound.String(),
		Completed:     i.Completed,
		CompletedDate: dateString(i.CompletedDate),
		Priority:      string(i.Priority),
	}
}

// RecordItemInput is one line of work for add_maintenance_record.
type RecordItemInput struct {
	Category      string  `json:"category"`
	Name          string  `json:"name"`
	OriginalPrice float64 `json:"original_price"`
	ActualPrice   float64 `json:"actual_price"`
	Notes         string  `json:"notes,omitempty"`
}

// IncompleteInput is a problem found during maintenance.
type IncompleteInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// AddRecordInput defines input for add_maintenance_record tool.
type AddRecordInput struct {
	Date               string            `json:"date,omitempty"`
	Mileage            int               `json:"mileage"`
	Items              []RecordItemInput `json:"items"`
	Notes              string            `json:"notes,omitempty"`
	CompletedReminders []string          `json:"completed_reminders,omitempty"`
	IncompleteItems    []IncompleteInput `json:"incomplete_items,omitempty"`
}

func (s *Server) registerAddRecordTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_maintenance_record",
		Description: "Log a maintenance visit. Completes the listed reminders, uses up one unit of matching multi-use inventory and files any problems found.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Visit date as YYYY-MM-DD (defaults to today)",
				},
				"mileage": map[string]interface{}{
					"type":        "integer",
					"description": "Odometer reading at the visit",
				},
				"items": map[string]interface{}{
					"type":        "array",
					"description": "Work performed",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"category":       map[string]interface{}{"type": "string"},
							"name":           map[string]interface{}{"type": "string"},
							"original_price": map[string]interface{}{"type": "number"},
							"actual_price":   map[string]interface{}{"type": "number"},
							"notes":          map[string]interface{}{"type": "string"},
						},
						"required": []string{"category", "name"},
					},
				},
				"notes": map[string]interface{}{
					"type":        "string",
					"description": "Free-form notes",
				},
				"completed_reminders": map[string]interface{}{
					"type":        "array",
					"description": "Ids of reminders this visit takes care of",
					"items":       map[string]interface{}{"type": "string"},
				},
				"incomplete_items": map[string]interface{}{
					"type":        "array",
					"description": "Problems found that still need work",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"name":        map[string]interface{}{"type": "string"},
							"description": map[string]interface{}{"type": "string"},
							"priority":    map[string]interface{}{"type": "string", "enum": []string{"low", "medium", "high"}},
						},
						"required": []string{"name"},
					},
				},
			},
			"required": []string{"mileage", "items"},
		},
	}, s.handleAddRecord)
}

func (s *Server) handleAddRecord(_ context.Context, _ *mcp.CallToolRequest, input AddRecordInput) (*mcp.CallToolResult, RecordOutput, error) {
	date, err := s.dateOr(input.Date)
	if err != nil {
		return nil, RecordOutput{}, err
	}

	rec := models.MaintenanceRecord{
		Date:               date,
		Mileage:            input.Mileage,
		Notes:              input.Notes,
		CompletedReminders: input.CompletedReminders,
	}
	for _, item := range input.Items {
		rec.Items = append(rec.Items, models.MaintenanceItem{
			Category:      item.Category,
			Name:          item.Name,
			OriginalPrice: item.OriginalPrice,
			ActualPrice:   item.ActualPrice,
			Completed:     true,
			Notes:         item.Notes,
		})
	}
	for _, inc := range input.IncompleteItems {
		priority, err := models.ParsePriority(inc.Priority)
		if err != nil {
			return nil, RecordOutput{}, err
		}
		rec.IncompleteItems = append(rec.IncompleteItems, models.IncompleteItem{
			Name:        models.NormalizeName(inc.Name),
			Description: inc.Description,
			DateFound:   date,
			Priority:    priority,
		})
	}

	saved, err := s.store.AddRecord(rec)
	if err != nil {
		return nil, RecordOutput{}, fmt.Errorf("failed to add record: %w", err)
	}
	s.logger.Info("record added via mcp", "id", saved.ID)

	output := recordOutput(saved)
	return jsonResult(output), output, nil
}

// ListRecordsInput defines input for list_maintenance_records tool.
type ListRecordsInput struct {
	Limit int `json:"limit,omitempty"`
}

// ListRecordsOutput defines output for list_maintenance_records tool.
type ListRecordsOutput struct {
	Records []RecordOutput `json:"records"`
	Count   int            `json:"count"`
}

func (s *Server) registerListRecordsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_maintenance_records",
		Description: "List maintenance records, newest first.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of records to return (0 for all)",
				},
			},
		},
	}, s.handleListRecords)
}

func (s *Server) handleListRecords(_ context.Context, _ *mcp.CallToolRequest, input ListRecordsInput) (*mcp.CallToolResult, ListRecordsOutput, error) {
	records := limit(s.store.Records(), input.Limit)

	output := ListRecordsOutput{Records: make([]RecordOutput, len(records)), Count: len(records)}
	for i, r := range records {
		output.Records[i] = recordOutput(r)
	}
	return jsonResult(output), output, nil
}

// FuelOutput defines output for fuel record tools.
type FuelOutput struct {
	ID               string  `json:"id"`
	Date             string  `json:"date"`
	Mileage          int     `json:"mileage"`
	FuelAmount       float64 `json:"fuel_amount"`
	PreDiscountPrice float64 `json:"pre_discount_price"`
	TotalCost        float64 `json:"total_cost"`
	DiscountedPrice  float64 `json:"discounted_price"`
	GasStation       string  `json:"gas_station,omitempty"`
	FuelType         string  `json:"fuel_type,omitempty"`
	IsFullTank       bool    `json:"is_full_tank"`
	Location         string  `json:"location,omitempty"`
	PaymentMethod    string  `json:"payment_method,omitempty"`
	Notes            string  `json:"notes,omitempty"`
}

func fuelOutput(f models.FuelRecord) FuelOutput {
	return FuelOutput{
		ID:               f.ID,
		Date:             f.Date.String(),
		Mileage:          f.Mileage,
		FuelAmount:       f.FuelAmount,
		PreDiscountPrice: f.PreDiscountPrice,
		TotalCost:        f.TotalCost,
		DiscountedPrice:  f.DiscountedPrice,
		GasStation:       f.GasStation,
		FuelType:         f.FuelType,
		IsFullTank:       f.IsFullTank,
		Location:         f.Location,
		PaymentMethod:    f.PaymentMethod,
		Notes:            f.Notes,
	}
}

// AddFuelInput defines input for add_fuel_record tool.
type AddFuelInput struct {
	Date             string  `json:"date,omitempty"`
	Mileage          int     `json:"mileage"`
	FuelAmount       float64 `json:"fuel_amount"`
	PreDiscountPrice float64 `json:"pre_discount_price,omitempty"`
	TotalCost        float64 `json:"total_cost"`
	GasStation       string  `json:"gas_station,omitempty"`
	FuelType         string  `json:"fuel_type,omitempty"`
	IsFullTank       bool    `json:"is_full_tank,omitempty"`
	Location         string  `json:"location,omitempty"`
	PaymentMethod    string  `json:"payment_method,omitempty"`
	Notes            string  `json:"notes,omitempty"`
}

func (s *Server) registerAddFuelTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_fuel_record",
		Description: "Log a fill-up. The per-liter price actually paid is derived from total cost and amount.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Fill-up date as YYYY-MM-DD (defaults to today)",
				},
				"mileage": map[string]interface{}{
					"type":        "integer",
					"description": "Odometer reading at the fill-up",
				},
				"fuel_amount": map[string]interface{}{
					"type":        "number",
					"description": "Liters bought",
				},
				"pre_discount_price": map[string]interface{}{
					"type":        "number",
					"description": "Pump price per liter before discounts",
				},
				"total_cost": map[string]interface{}{
					"type":        "number",
					"description": "Amount actually paid",
				},
				"gas_station":    map[string]interface{}{"type": "string"},
				"fuel_type":      map[string]interface{}{"type": "string"},
				"is_full_tank":   map[string]interface{}{"type": "boolean", "description": "Tank filled to the top; needed for consumption"},
				"location":       map[string]interface{}{"type": "string"},
				"payment_method": map[string]interface{}{"type": "string"},
				"notes":          map[string]interface{}{"type": "string"},
			},
			"required": []string{"mileage", "fuel_amount", "total_cost"},
		},
	}, s.handleAddFuel)
}

func (s *Server) handleAddFuel(_ context.Context, _ *mcp.CallToolRequest, input AddFuelInput) (*mcp.CallToolResult, FuelOutput, error) {
	date, err := s.dateOr(input.Date)
	if err != nil {
		return nil, FuelOutput{}, err
	}

	saved, err := s.store.AddFuelRecord(models.FuelRecord{
		Date:             date,
		Mileage:          input.Mileage,
		FuelAmount:       input.FuelAmount,
		PreDiscountPrice: input.PreDiscountPrice,
		TotalCost:        input.TotalCost,
		GasStation:       input.GasStation,
		FuelType:         input.FuelType,
		IsFullTank:       input.IsFullTank,
		Location:         input.Location,
		PaymentMethod:    input.PaymentMethod,
		Notes:            input.Notes,
	})
	if err != nil {
		return nil, FuelOutput{}, fmt.Errorf("failed to add fuel record: %w", err)
	}
	s.logger.Info("fuel record added via mcp", "id", saved.ID)

	output := fuelOutput(saved)
	return jsonResult(output), output, nil
}

// ListFuelInput defines input for list_fuel_records tool.
type ListFuelInput struct {
	Limit int `json:"limit,omitempty"`
}

// ListFuelOutput defines output for list_fuel_records tool.
type ListFuelOutput struct {
	FuelRecords        []FuelOutput `json:"fuel_records"`
	Count              int          `json:"count"`
	AverageConsumption float64      `json:"average_consumption,omitempty"`
}

func (s *Server) registerListFuelTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_fuel_records",
		Description: "List fill-ups, newest first, with average consumption in L/100km when known.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of records to return (0 for all)",
				},
			},
		},
	}, s.handleListFuel)
}

func (s *Server) handleListFuel(_ context.Context, _ *mcp.CallToolRequest, input ListFuelInput) (*mcp.CallToolResult, ListFuelOutput, error) {
	all := s.store.FuelRecords()
	records := limit(all, input.Limit)

	output := ListFuelOutput{FuelRecords: make([]FuelOutput, len(records)), Count: len(records)}
	for i, f := range records {
		output.FuelRecords[i] = fuelOutput(f)
	}
	if c := stats.Consumption(all); c.OK {
		output.AverageConsumption = c.Average
	}
	return jsonResult(output), output, nil
}

// ReminderItemInput is planned work attached to a reminder.
type ReminderItemInput struct {
	Category       string   `json:"category"`
	Name           string   `json:"name"`
	EstimatedPrice *float64 `json:"estimated_price,omitempty"`
}

// AddReminderInput defines input for add_reminder tool.
type AddReminderInput struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	DueDate     string              `json:"due_date,omitempty"`
	DueMileage  *int                `json:"due_mileage,omitempty"`
	Type        string              `json:"type,omitempty"`
	Priority    string              `json:"priority,omitempty"`
	Items       []ReminderItemInput `json:"items,omitempty"`
}

// ReminderOutput defines output for reminder tools.
type ReminderOutput struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description,omitempty"`
	DueDate        string  `json:"due_date,omitempty"`
	DueMileage     *int    `json:"due_mileage,omitempty"`
	Type           string  `json:"type"`
	Priority       string  `json:"priority"`
	Completed      bool    `json:"completed"`
	State          string  `json:"state"`
	EstimatedTotal float64 `json:"estimated_total"`
}

func reminderOutput(r models.Reminder, state stats.ReminderState) ReminderOutput {
	return ReminderOutput{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		DueDate:        dateString(r.DueDate),
		DueMileage:     r.DueMileage,
		Type:           string(r.Type),
		Priority:       string(r.Priority),
		Completed:      r.Completed,
		State:          string(state),
		EstimatedTotal: r.EstimatedTotal(),
	}
}

func (s *Server) registerAddReminderTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_reminder",
		Description: "Create a reminder for upcoming maintenance, due by date, mileage or both.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Short title (e.g., 'Oil change')",
				},
				"description": map[string]interface{}{"type": "string"},
				"due_date": map[string]interface{}{
					"type":        "string",
					"description": "Due date as YYYY-MM-DD",
				},
				"due_mileage": map[string]interface{}{
					"type":        "integer",
					"description": "Odometer reading it is due at",
				},
				"type": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"time", "mileage", "both"},
					"description": "Which due fields apply (default time)",
				},
				"priority": map[string]interface{}{
					"type": "string",
					"enum": []string{"low", "medium", "high"},
				},
				"items": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"category":        map[string]interface{}{"type": "string"},
							"name":            map[string]interface{}{"type": "string"},
							"estimated_price": map[string]interface{}{"type": "number"},
						},
						"required": []string{"name"},
					},
				},
			},
			"required": []string{"title"},
		},
	}, s.handleAddReminder)
}

func (s *Server) handleAddReminder(_ context.Context, _ *mcp.CallToolRequest, input AddReminderInput) (*mcp.CallToolResult, ReminderOutput, error) {
	rtype, err := models.ParseReminderType(input.Type)
	if err != nil {
		return nil, ReminderOutput{}, err
	}
	priority, err := models.ParsePriority(input.Priority)
	if err != nil {
		return nil, ReminderOutput{}, err
	}
	due, err := models.DatePtr(input.DueDate)
	if err != nil {
		return nil, ReminderOutput{}, err
	}

	r := models.Reminder{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     due,
		DueMileage:  input.DueMileage,
		Type:        rtype,
		Priority:    priority,
	}
	for _, item := range input.Items {
		r.Items = append(r.Items, models.ReminderItem{
			Category:       item.Category,
			Name:           item.Name,
			EstimatedPrice: item.EstimatedPrice,
		})
	}

	saved, err := s.store.AddReminder(r)
	if err != nil {
		return nil, ReminderOutput{}, fmt.Errorf("failed to add reminder: %w", err)
	}

	mileage := stats.CurrentMileage(s.store.Records(), s.store.FuelRecords())
	output := reminderOutput(saved, stats.ReminderStatus(saved, mileage, s.now()))
	return jsonResult(output), output, nil
}

// ListRemindersInput defines input for list_reminders tool.
type ListRemindersInput struct {
	IncludeCompleted bool `json:"include_completed,omitempty"`
}

// ListRemindersOutput defines output for list_reminders tool.
type ListRemindersOutput struct {
	Reminders      []ReminderOutput `json:"reminders"`
	Count          int              `json:"count"`
	CurrentMileage int              `json:"current_mileage"`
}

func (s *Server) registerListRemindersTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_reminders",
		Description: "List reminders with their status (overdue, due_soon, upcoming, completed).",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"include_completed": map[string]interface{}{
					"type":        "boolean",
					"description": "Also list completed reminders",
				},
			},
		},
	}, s.handleListReminders)
}

func (s *Server) handleListReminders(_ context.Context, _ *mcp.CallToolRequest, input ListRemindersInput) (*mcp.CallToolResult, ListRemindersOutput, error) {
	snap := s.store.Snapshot()
	now := s.now()
	mileage := stats.CurrentMileage(snap.Data.Records, snap.Data.FuelRecords)

	output := ListRemindersOutput{Reminders: []ReminderOutput{}, CurrentMileage: mileage}
	for _, r := range snap.Data.Reminders {
		if r.Completed && !input.IncludeCompleted {
			continue
		}
		output.Reminders = append(output.Reminders, reminderOutput(r, stats.ReminderStatus(r, mileage, now)))
	}
	output.Count = len(output.Reminders)
	return jsonResult(output), output, nil
}

// CompleteIncompleteInput defines input for complete_incomplete_item tool.
type CompleteIncompleteInput struct {
	ID   string `json:"id"`
	Date string `json:"date,omitempty"`
}

func (s *Server) registerCompleteIncompleteTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "complete_incomplete_item",
		Description: "Mark an outstanding problem as fixed.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Id of the incomplete item",
				},
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Completion date as YYYY-MM-DD (defaults to today)",
				},
			},
			"required": []string{"id"},
		},
	}, s.handleCompleteIncomplete)
}

func (s *Server) handleCompleteIncomplete(_ context.Context, _ *mcp.CallToolRequest, input CompleteIncompleteInput) (*mcp.CallToolResult, IncompleteOutput, error) {
	if _, err := s.store.IncompleteItem(input.ID); err != nil {
		return nil, IncompleteOutput{}, fmt.Errorf("incomplete item '%s' not found", input.ID)
	}
	date, err := s.dateOr(input.Date)
	if err != nil {
		return nil, IncompleteOutput{}, err
	}

	done := true
	if err := s.store.UpdateIncompleteItem(input.ID, store.IncompleteItemPatch{
		Completed:     &done,
		CompletedDate: &date,
	}); err != nil {
		return nil, IncompleteOutput{}, fmt.Errorf("failed to complete item: %w", err)
	}

	item, err := s.store.IncompleteItem(input.ID)
	if err != nil {
		return nil, IncompleteOutput{}, err
	}
	output := incompleteOutput(item)
	return jsonResult(output), output, nil
}

// AddPurchasedInput defines input for add_purchased_item tool.
type AddPurchasedInput struct {
	Name              string  `json:"name"`
	Category          string  `json:"category"`
	PurchaseDate      string  `json:"purchase_date,omitempty"`
	ExpiryDate        string  `json:"expiry_date,omitempty"`
	Quantity          int     `json:"quantity,omitempty"`
	IsMultiUse        bool    `json:"is_multi_use,omitempty"`
	TotalQuantity     int     `json:"total_quantity,omitempty"`
	RemainingQuantity *int    `json:"remaining_quantity,omitempty"`
	Price             float64 `json:"price,omitempty"`
	Supplier          string  `json:"supplier,omitempty"`
	Notes             string  `json:"notes,omitempty"`
}

// PurchasedOutput defines output for inventory tools.
type PurchasedOutput struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Category          string  `json:"category"`
	PurchaseDate      string  `json:"purchase_date"`
	ExpiryDate        string  `json:"expiry_date,omitempty"`
	ExpiryStatus      string  `json:"expiry_status"`
	Quantity          int     `json:"quantity"`
	IsMultiUse        bool    `json:"is_multi_use"`
	TotalQuantity     int     `json:"total_quantity"`
	RemainingQuantity int     `json:"remaining_quantity"`
	Price             float64 `json:"price"`
	Supplier          string  `json:"supplier,omitempty"`
}

func purchasedOutput(p models.PurchasedItem, status stats.ExpiryStatus) PurchasedOutput {
	return PurchasedOutput{
		ID:                p.ID,
		Name:              p.Name,
		Category:          p.Category,
		PurchaseDate:      p.PurchaseDate.String(),
		ExpiryDate:        dateString(p.ExpiryDate),
		ExpiryStatus:      string(status),
		Quantity:          p.Quantity,
		IsMultiUse:        p.IsMultiUse,
		TotalQuantity:     p.TotalQuantity,
		RemainingQuantity: p.RemainingQuantity,
		Price:             p.Price,
		Supplier:          p.Supplier,
	}
}

func (s *Server) registerAddPurchasedTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_purchased_item",
		Description: "Record a part or consumable bought ahead of use. Multi-use items lose one unit each time a maintenance record uses them.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name":          map[string]interface{}{"type": "string"},
				"category":      map[string]interface{}{"type": "string"},
				"purchase_date": map[string]interface{}{"type": "string", "description": "YYYY-MM-DD (defaults to today)"},
				"expiry_date":   map[string]interface{}{"type": "string", "description": "YYYY-MM-DD"},
				"quantity":      map[string]interface{}{"type": "integer", "description": "Units bought (single-use items)"},
				"is_multi_use":  map[string]interface{}{"type": "boolean"},
				"total_quantity": map[string]interface{}{
					"type":        "integer",
					"description": "Uses the item provides (multi-use items)",
				},
				"remaining_quantity": map[string]interface{}{
					"type":        "integer",
					"description": "Uses left (defaults to total_quantity)",
				},
				"price":    map[string]interface{}{"type": "number"},
				"supplier": map[string]interface{}{"type": "string"},
				"notes":    map[string]interface{}{"type": "string"},
			},
			"required": []string{"name", "category"},
		},
	}, s.handleAddPurchased)
}

func (s *Server) handleAddPurchased(_ context.Context, _ *mcp.CallToolRequest, input AddPurchasedInput) (*mcp.CallToolResult, PurchasedOutput, error) {
	bought, err := s.dateOr(input.PurchaseDate)
	if err != nil {
		return nil, PurchasedOutput{}, err
	}
	expiry, err := models.DatePtr(input.ExpiryDate)
	if err != nil {
		return nil, PurchasedOutput{}, err
	}

	p := models.PurchasedItem{
		Name:          input.Name,
		Category:      input.Category,
		PurchaseDate:  bought,
		ExpiryDate:    expiry,
		Quantity:      input.Quantity,
		IsMultiUse:    input.IsMultiUse,
		TotalQuantity: input.TotalQuantity,
		Price:         input.Price,
		Supplier:      input.Supplier,
		Notes:         input.Notes,
	}
	if p.IsMultiUse {
		p.RemainingQuantity = p.TotalQuantity
		if input.RemainingQuantity != nil {
			p.RemainingQuantity = *input.RemainingQuantity
		}
	}

	saved, err := s.store.AddPurchasedItem(p)
	if err != nil {
		return nil, PurchasedOutput{}, fmt.Errorf("failed to add purchased item: %w", err)
	}

	output := purchasedOutput(saved, stats.ClassifyExpiry(saved, s.now()))
	return jsonResult(output), output, nil
}

// TrendOutput is one month of spending.
type TrendOutput struct {
	Month       string  `json:"month"`
	Maintenance float64 `json:"maintenance"`
	Fuel        float64 `json:"fuel"`
	FuelAmount  float64 `json:"fuel_amount"`
}

// StatsOutput defines output for get_stats tool.
type StatsOutput struct {
	CurrentMileage      int                `json:"current_mileage"`
	MaintenanceCost     float64            `json:"maintenance_cost"`
	MaintenanceOriginal float64            `json:"maintenance_original"`
	Savings             float64            `json:"savings"`
	RecordCount         int                `json:"record_count"`
	FuelCost            float64            `json:"fuel_cost"`
	FuelAmount          float64            `json:"fuel_amount"`
	AverageFuelPrice    float64            `json:"average_fuel_price"`
	FuelCount           int                `json:"fuel_count"`
	AverageConsumption  float64            `json:"average_consumption"`
	ConsumptionKnown    bool               `json:"consumption_known"`
	LastMaintenance     string             `json:"last_maintenance,omitempty"`
	ActiveReminders     []ReminderOutput   `json:"active_reminders"`
	ReminderEstimate    float64            `json:"reminder_estimate"`
	OpenProblems        []IncompleteOutput `json:"open_problems"`
	Expired             []PurchasedOutput  `json:"expired"`
	ExpiringSoon        []PurchasedOutput  `json:"expiring_soon"`
	Trend               []TrendOutput      `json:"trend"`
}

// GetStatsInput is empty but required for type.
type GetStatsInput struct{}

func (s *Server) registerGetStatsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_stats",
		Description: "Summarize spending, fuel consumption, active reminders, open problems, expiring inventory and the six-month trend.",
		InputSchema: map[string]interface{}{
			"type": "object",
		},
	}, s.handleGetStats)
}

func (s *Server) handleGetStats(_ context.Context, _ *mcp.CallToolRequest, _ GetStatsInput) (*mcp.CallToolResult, StatsOutput, error) {
	output := s.statsOutput()
	return jsonResult(output), output, nil
}

func (s *Server) statsOutput() StatsOutput {
	d := stats.BuildDashboard(s.store.Snapshot().Data, s.now())

	out := StatsOutput{
		CurrentMileage:      d.CurrentMileage,
		MaintenanceCost:     d.Costs.Actual,
		MaintenanceOriginal: d.Costs.Original,
		Savings:             d.Costs.Savings,
		RecordCount:         d.Costs.Count,
		FuelCost:            d.Fuel.TotalCost,
		FuelAmount:          d.Fuel.TotalAmount,
		AverageFuelPrice:    d.Fuel.AveragePrice,
		FuelCount:           d.Fuel.Count,
		AverageConsumption:  d.Consumption.Average,
		ConsumptionKnown:    d.Consumption.OK,
		ReminderEstimate:    d.ReminderEstimate,
		ActiveReminders:     []ReminderOutput{},
		OpenProblems:        []IncompleteOutput{},
		Expired:             []PurchasedOutput{},
		ExpiringSoon:        []PurchasedOutput{},
		Trend:               make([]TrendOutput, len(d.Trend)),
	}
	if d.LastMaintenance != nil {
		out.LastMaintenance = d.LastMaintenance.Date.String()
	}
	for _, v := range d.ActiveReminders {
		out.ActiveReminders = append(out.ActiveReminders, reminderOutput(v.Reminder, v.State))
	}
	for _, item := range d.ActiveIncomplete {
		out.OpenProblems = append(out.OpenProblems, incompleteOutput(item))
	}
	for _, p := range d.Expiry.Expired {
		out.Expired = append(out.Expired, purchasedOutput(p, stats.ExpiryExpired))
	}
	for _, p := range d.Expiry.ExpiringSoon {
		out.ExpiringSoon = append(out.ExpiringSoon, purchasedOutput(p, stats.ExpiryExpiringSoon))
	}
	for i, b := range d.Trend {
		out.Trend[i] = TrendOutput{Month: b.Label(), Maintenance: b.Actual}
		if i < len(d.FuelTrend) {
			out.Trend[i].Fuel = d.FuelTrend[i].Cost
			out.Trend[i].FuelAmount = d.FuelTrend[i].Amount
		}
	}
	return out
}
