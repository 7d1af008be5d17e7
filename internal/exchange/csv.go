// ABOUTME: Spreadsheet exports for maintenance, fuel and inventory data
// ABOUTME: Every value is double-quoted and the file starts with a UTF-8 BOM

package exchange

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/harper/carlog/internal/models"
)

// BOM marks the output as UTF-8 for spreadsheet programs.
const BOM = "\ufeff"

// CSVKind selects one of the spreadsheet layouts.
type CSVKind string

const (
	CSVRecords        CSVKind = "records"
	CSVFuelRecords    CSVKind = "fuel"
	CSVPurchasedItems CSVKind = "purchased"
)

var (
	recordHeaders = []string{
		"Date", "Mileage (km)", "Category", "Item", "Original price", "Actual price", "Notes",
		"Total original", "Total actual", "Attachments", "Attachment names",
	}
	fuelHeaders = []string{
		"Date", "Mileage (km)", "Fuel amount (L)", "Original price", "Total cost",
		"Discounted price (/L)", "Fuel type", "Gas station", "Location", "Payment method",
		"Full tank", "Notes", "Attachments", "Attachment names",
	}
	purchasedHeaders = []string{
		"Name", "Category", "Purchase date", "Expiry date", "Quantity", "Price",
		"Supplier", "Multi-use", "Remaining", "Notes",
	}
)

// csvWriter writes rows with every field quoted, which encoding/csv cannot do.
type csvWriter struct {
	w   *bufio.Writer
	err error
}

func newCSVWriter(w io.Writer) *csvWriter {
	cw := &csvWriter{w: bufio.NewWriter(w)}
	_, cw.err = cw.w.WriteString(BOM)
	return cw
}

func (c *csvWriter) header(fields []string) {
	if c.err != nil {
		return
	}
	_, c.err = c.w.WriteString(strings.Join(fields, ",") + "\n")
}

func (c *csvWriter) row(fields ...string) {
	if c.err != nil {
		return
	}
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	_, c.err = c.w.WriteString(strings.Join(quoted, ",") + "\n")
}

func (c *csvWriter) flush() error {
	if c.err != nil {
		return fmt.Errorf("write csv: %w", c.err)
	}
	if err := c.w.Flush(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func attachmentNames(list []models.FileAttachment) string {
	names := make([]string, len(list))
	for i, a := range list {
		names[i] = a.Name
	}
	return strings.Join(names, ";")
}

// WriteRecordsCSV writes one row per maintenance item. Record-level columns
// other than the date are filled only on a record's first row.
func WriteRecordsCSV(w io.Writer, records []models.MaintenanceRecord) error {
	c := newCSVWriter(w)
	c.header(recordHeaders)
	for _, r := range records {
		for i, item := range r.Items {
			mileage, totalOrig, totalActual, count, names := "", "", "", "", ""
			if i == 0 {
				mileage = strconv.Itoa(r.Mileage)
				totalOrig = num(r.TotalOriginalCost)
				totalActual = num(r.TotalActualCost)
				count = strconv.Itoa(len(r.Attachments))
				names = attachmentNames(r.Attachments)
			}
			c.row(r.Date.String(), mileage, item.Category, item.Name,
				num(item.OriginalPrice), num(item.ActualPrice), item.Notes,
				totalOrig, totalActual, count, names)
		}
	}
	return c.flush()
}

// WriteFuelCSV writes one row per fuel record.
func WriteFuelCSV(w io.Writer, records []models.FuelRecord) error {
	c := newCSVWriter(w)
	c.header(fuelHeaders)
	for _, f := range records {
		c.row(f.Date.String(), strconv.Itoa(f.Mileage), num(f.FuelAmount),
			num(f.OriginalPrice), num(f.TotalCost), strconv.FormatFloat(f.DiscountedPrice, 'f', 2, 64),
			f.FuelType, f.GasStation, f.Location, f.PaymentMethod, yesNo(f.IsFullTank),
			f.Notes, strconv.Itoa(len(f.Attachments)), attachmentNames(f.Attachments))
	}
	return c.flush()
}

// WritePurchasedCSV writes one row per inventory item.
func WritePurchasedCSV(w io.Writer, items []models.PurchasedItem) error {
	c := newCSVWriter(w)
	c.header(purchasedHeaders)
	for _, p := range items {
		expiry := ""
		if p.ExpiryDate != nil {
			expiry = p.ExpiryDate.String()
		}
		c.row(p.Name, p.Category, p.PurchaseDate.String(), expiry,
			strconv.Itoa(p.Quantity), num(p.Price), p.Supplier, yesNo(p.IsMultiUse),
			strconv.Itoa(p.RemainingQuantity), p.Notes)
	}
	return c.flush()
}

// WriteCSV writes the layout selected by kind from data.
func WriteCSV(w io.Writer, kind CSVKind, data models.Data) error {
	switch kind {
	case CSVRecords:
		return WriteRecordsCSV(w, data.Records)
	case CSVFuelRecords:
		return WriteFuelCSV(w, data.FuelRecords)
	case CSVPurchasedItems:
		return WritePurchasedCSV(w, data.PurchasedItems)
	}
	return fmt.Errorf("unknown csv layout %q (use records, fuel or purchased)", string(kind))
}
