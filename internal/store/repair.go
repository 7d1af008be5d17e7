// ABOUTME: Load-time repair of mistyped fields in the primary data document
// ABOUTME: Clears bad optional values and drops bad nested elements so entries still decode

package store

import (
	"math"
	"strconv"
	"strings"

	"github.com/harper/carlog/internal/models"
)

type fieldKind int

const (
	textField fieldKind = iota
	idField
	numberField
	intField
	boolField
	dateField
	optDateField
	optNumberField
	optIntField
	stringsField
)

// shape describes the JSON fields of one entity and its nested lists.
type shape struct {
	fields map[string]fieldKind
	lists  map[string]*shape
}

var attachmentShape = &shape{fields: map[string]fieldKind{
	"id": idField, "name": textField, "type": textField, "size": intField, "url": textField,
}}

var maintenanceItemShape = &shape{fields: map[string]fieldKind{
	"id": idField, "category": textField, "name": textField,
	"originalPrice": numberField, "actualPrice": numberField,
	"completed": boolField, "notes": textField,
}}

var incompleteItemShape = &shape{fields: map[string]fieldKind{
	"id": idField, "name": textField, "description": textField,
	"dateFound": dateField, "completed": boolField, "completedDate": optDateField,
	"priority": textField,
}}

var reminderItemShape = &shape{fields: map[string]fieldKind{
	"id": idField, "category": textField, "name": textField, "estimatedPrice": optNumberField,
}}

var entityShapes = map[string]*shape{
	KeyRecords: {
		fields: map[string]fieldKind{
			"id": idField, "date": dateField, "mileage": intField,
			"totalOriginalCost": numberField, "totalActualCost": numberField,
			"notes": textField, "completedReminders": stringsField,
		},
		lists: map[string]*shape{
			"items":           maintenanceItemShape,
			"attachments":     attachmentShape,
			"incompleteItems": incompleteItemShape,
		},
	},
	KeyIncompleteItems: incompleteItemShape,
	KeyReminders: {
		fields: map[string]fieldKind{
			"id": idField, "title": textField, "description": textField,
			"dueDate": optDateField, "dueMileage": optIntField,
			"type": textField, "priority": textField, "completed": boolField,
		},
		lists: map[string]*shape{"items": reminderItemShape},
	},
	KeyPurchasedItems: {fields: map[string]fieldKind{
		"id": idField, "name": textField, "category": textField,
		"purchaseDate": dateField, "expiryDate": optDateField,
		"quantity": intField, "totalQuantity": intField, "remainingQuantity": intField,
		"price": numberField, "supplier": textField, "notes": textField, "isMultiUse": boolField,
	}},
	KeyFuelRecords: {
		fields: map[string]fieldKind{
			"id": idField, "date": dateField, "mileage": intField,
			"fuelAmount": numberField, "preDiscountPrice": numberField, "originalPrice": numberField,
			"totalCost": numberField, "discountedPrice": numberField,
			"gasStation": textField, "fuelType": textField, "isFullTank": boolField,
			"notes": textField, "location": textField, "paymentMethod": textField,
		},
		lists: map[string]*shape{"attachments": attachmentShape},
	},
}

// repairDocument fixes what it can in every collection entry of doc and
// returns the number of values it changed. Entries whose id or required
// dates are unusable are left for decoding to reject.
func repairDocument(doc map[string]any) int {
	changed := 0
	for _, key := range CollectionKeys {
		for _, entry := range objects(doc, key) {
			_, n := entityShapes[key].repair(entry)
			changed += n
		}
	}
	return changed
}

// repair fixes entry in place. It reports false when a required field is
// unusable.
func (s *shape) repair(entry map[string]any) (bool, int) {
	ok, changed := true, 0
	for name, kind := range s.fields {
		v, present := entry[name]
		if !present || v == nil {
			continue
		}
		fixed, keep, valid := repairValue(kind, v)
		if !valid {
			ok = false
			continue
		}
		switch {
		case !keep:
			delete(entry, name)
			changed++
		case fixed != nil:
			entry[name] = fixed
			changed++
		}
	}
	for name, inner := range s.lists {
		v, present := entry[name]
		if !present || v == nil {
			continue
		}
		list, isList := v.([]any)
		if !isList {
			entry[name] = []any{}
			changed++
			continue
		}
		kept := make([]any, 0, len(list))
		for _, el := range list {
			m, isObj := el.(map[string]any)
			if !isObj {
				changed++
				continue
			}
			elOK, n := inner.repair(m)
			changed += n
			if !elOK {
				changed++
				continue
			}
			kept = append(kept, m)
		}
		entry[name] = kept
	}
	return ok, changed
}

// repairValue returns a replacement (nil when v is fine as is), whether
// the field should be kept, and whether a required field is usable.
func repairValue(kind fieldKind, v any) (fixed any, keep, valid bool) {
	switch kind {
	case idField:
		_, isString := v.(string)
		return nil, true, isString
	case dateField:
		return nil, true, validDate(v)
	case optDateField:
		if validDate(v) {
			return nil, true, true
		}
		return nil, false, true
	case textField:
		if _, isString := v.(string); isString {
			return nil, true, true
		}
		return nil, false, true
	case boolField:
		if _, isBool := v.(bool); isBool {
			return nil, true, true
		}
		if s, isString := v.(string); isString {
			if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
				return b, true, true
			}
		}
		return nil, false, true
	case numberField, optNumberField:
		f, isNum, converted := number(v)
		if !isNum {
			return nil, false, true
		}
		if converted {
			return f, true, true
		}
		return nil, true, true
	case intField, optIntField:
		f, isNum, converted := number(v)
		if !isNum {
			return nil, false, true
		}
		if converted || f != math.Trunc(f) {
			return math.Round(f), true, true
		}
		return nil, true, true
	case stringsField:
		list, isList := v.([]any)
		if !isList {
			return []any{}, true, true
		}
		kept := make([]any, 0, len(list))
		for _, el := range list {
			if _, isString := el.(string); isString {
				kept = append(kept, el)
			}
		}
		if len(kept) != len(list) {
			return kept, true, true
		}
		return nil, true, true
	}
	return nil, true, true
}

// number reads a JSON number or a numeric string.
func number(v any) (f float64, ok, converted bool) {
	switch n := v.(type) {
	case float64:
		return n, true, false
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return 0, false, false
		}
		return parsed, true, true
	}
	return 0, false, false
}

func validDate(v any) bool {
	s, isString := v.(string)
	if !isString {
		return false
	}
	if strings.TrimSpace(s) == "" {
		return true
	}
	_, err := models.ParseDate(s)
	return err == nil
}
