// ABOUTME: JSON and YAML export envelopes for the vehicle log
// ABOUTME: Builds {metadata, data} documents from a store snapshot

// Package exchange moves the vehicle log in and out of files: JSON and YAML
// backups, CSV spreadsheets and validated imports.
package exchange

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/harper/carlog/internal/models"
	"github.com/harper/carlog/internal/store"
	"gopkg.in/yaml.v3"
)

const (
	// FormatVersion is written into every export's metadata.
	FormatVersion = "1.1"

	// AttachmentFormatVersion is written into attachment-only exports.
	AttachmentFormatVersion = "1.0"

	// AppName identifies the producer of an export.
	AppName = "carlog vehicle maintenance log"
)

// Data type keys selectable for export.
const (
	TypeRecords         = store.KeyRecords
	TypeIncompleteItems = store.KeyIncompleteItems
	TypeReminders       = store.KeyReminders
	TypePurchasedItems  = store.KeyPurchasedItems
	TypeFuelRecords     = store.KeyFuelRecords
	TypeCategories      = "categories"
	TypeFuelOptions     = "fuelOptions"
)

// AllTypes lists every exportable data type in envelope order.
var AllTypes = []string{
	TypeRecords, TypeIncompleteItems, TypeReminders, TypePurchasedItems,
	TypeFuelRecords, TypeCategories, TypeFuelOptions,
}

// AttachmentStats counts inline attachments carried by an export.
type AttachmentStats struct {
	TotalRecordAttachments int `json:"totalRecordAttachments"`
	TotalFuelAttachments   int `json:"totalFuelAttachments"`
	TotalAttachments       int `json:"totalAttachments"`
}

// Metadata describes an export.
type Metadata struct {
	ExportDate      time.Time        `json:"exportDate"`
	Version         string           `json:"version"`
	AppName         string           `json:"appName"`
	DataTypes       []string         `json:"dataTypes"`
	AttachmentStats *AttachmentStats `json:"attachmentStats,omitempty"`
}

// Envelope is the top-level export document.
type Envelope struct {
	Metadata Metadata       `json:"metadata"`
	Data     map[string]any `json:"data"`
}

// Export builds an envelope holding the selected data types. An empty
// selection exports everything.
func Export(snap store.Snapshot, types []string, now time.Time) (*Envelope, error) {
	if len(types) == 0 {
		types = AllTypes
	}
	selected := make([]string, 0, len(types))
	for _, t := range AllTypes {
		if slices.Contains(types, t) {
			selected = append(selected, t)
		}
	}
	for _, t := range types {
		if !slices.Contains(AllTypes, t) {
			return nil, fmt.Errorf("unknown data type %q", t)
		}
	}

	data := make(map[string]any, len(selected)+1)
	primary := false
	for _, t := range selected {
		switch t {
		case TypeRecords:
			data[t] = snap.Data.Records
		case TypeIncompleteItems:
			data[t] = snap.Data.IncompleteItems
		case TypeReminders:
			data[t] = snap.Data.Reminders
		case TypePurchasedItems:
			data[t] = snap.Data.PurchasedItems
		case TypeFuelRecords:
			data[t] = snap.Data.FuelRecords
		case TypeCategories:
			data[t] = snap.Categories
		case TypeFuelOptions:
			data[t] = snap.FuelOptions
		}
		if t != TypeCategories && t != TypeFuelOptions {
			primary = true
		}
	}
	if primary {
		data["schemaVersion"] = store.CurrentSchemaVersion
	}

	recordAtt, fuelAtt := snap.Data.AttachmentCounts()
	return &Envelope{
		Metadata: Metadata{
			ExportDate: now.UTC(),
			Version:    FormatVersion,
			AppName:    AppName,
			DataTypes:  selected,
			AttachmentStats: &AttachmentStats{
				TotalRecordAttachments: recordAtt,
				TotalFuelAttachments:   fuelAtt,
				TotalAttachments:       recordAtt + fuelAtt,
			},
		},
		Data: data,
	}, nil
}

// WriteJSON writes env as indented JSON.
func WriteJSON(w io.Writer, env any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteYAML writes env as YAML with the same keys as the JSON form.
func WriteYAML(w io.Writer, env any) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// AttachmentEntry is an attachment together with the record that owns it.
type AttachmentEntry struct {
	models.FileAttachment
	Source     string      `json:"source"`
	RecordDate models.Date `json:"recordDate"`
	RecordID   string      `json:"recordId"`
}

// AttachmentMetadata describes an attachment-only export.
type AttachmentMetadata struct {
	ExportDate       time.Time `json:"exportDate"`
	Version          string    `json:"version"`
	AppName          string    `json:"appName"`
	TotalAttachments int       `json:"totalAttachments"`
}

// AttachmentExport holds every attachment in the log.
type AttachmentExport struct {
	Metadata    AttachmentMetadata `json:"metadata"`
	Attachments []AttachmentEntry  `json:"attachments"`
}

// Attachment sources.
const (
	SourceMaintenance = "maintenance"
	SourceFuel        = "fuel"
)

// ExportAttachments gathers attachments from maintenance and fuel records.
func ExportAttachments(data models.Data, now time.Time) AttachmentExport {
	out := AttachmentExport{Attachments: []AttachmentEntry{}}
	for _, r := range data.Records {
		for _, a := range r.Attachments {
			out.Attachments = append(out.Attachments, AttachmentEntry{FileAttachment: a, Source: SourceMaintenance, RecordDate: r.Date, RecordID: r.ID})
		}
	}
	for _, f := range data.FuelRecords {
		for _, a := range f.Attachments {
			out.Attachments = append(out.Attachments, AttachmentEntry{FileAttachment: a, Source: SourceFuel, RecordDate: f.Date, RecordID: f.ID})
		}
	}
	out.Metadata = AttachmentMetadata{
		ExportDate:       now.UTC(),
		Version:          AttachmentFormatVersion,
		AppName:          AppName,
		TotalAttachments: len(out.Attachments),
	}
	return out
}
