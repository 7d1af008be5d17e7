// ABOUTME: Category map, fuel option lists and the primary data bundle
// ABOUTME: Holds the seeded defaults used when a storage slot is empty

package models

import (
	"slices"
	"sort"
	"strings"
)

// Categories maps a maintenance category to its item names.
type Categories map[string][]string

// Names returns the category names in sorted order.
func (c Categories) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether the category exists and, if item is non-empty, lists it.
func (c Categories) Has(category, item string) bool {
	items, ok := c[category]
	if !ok {
		return false
	}
	return item == "" || slices.Contains(items, item)
}

// Clone returns a deep copy.
func (c Categories) Clone() Categories {
	out := make(Categories, len(c))
	for k, v := range c {
		out[k] = slices.Clone(v)
	}
	return out
}

// FuelOptions holds the user-editable pick lists for fuel records.
type FuelOptions struct {
	FuelTypes      []string `json:"fuelTypes"`
	PaymentMethods []string `json:"paymentMethods"`
	GasStations    []string `json:"gasStations"`
	Locations      []string `json:"locations"`
}

// Clone returns a deep copy.
func (o FuelOptions) Clone() FuelOptions {
	return FuelOptions{
		FuelTypes:      slices.Clone(o.FuelTypes),
		PaymentMethods: slices.Clone(o.PaymentMethods),
		GasStations:    slices.Clone(o.GasStations),
		Locations:      slices.Clone(o.Locations),
	}
}

// WithDefaults fills any missing list from the seeded defaults.
func (o FuelOptions) WithDefaults() FuelOptions {
	def := DefaultFuelOptions()
	if o.FuelTypes == nil {
		o.FuelTypes = def.FuelTypes
	}
	if o.PaymentMethods == nil {
		o.PaymentMethods = def.PaymentMethods
	}
	if o.GasStations == nil {
		o.GasStations = def.GasStations
	}
	if o.Locations == nil {
		o.Locations = def.Locations
	}
	return o
}

// Data is the primary bundle persisted in a single slot.
type Data struct {
	SchemaVersion   int                 `json:"schemaVersion"`
	Records         []MaintenanceRecord `json:"records"`
	IncompleteItems []IncompleteItem    `json:"incompleteItems"`
	Reminders       []Reminder          `json:"reminders"`
	PurchasedItems  []PurchasedItem     `json:"purchasedItems"`
	FuelRecords     []FuelRecord        `json:"fuelRecords"`
}

// EmptyData returns a bundle with empty, non-nil collections.
func EmptyData() Data {
	return Data{
		Records:         []MaintenanceRecord{},
		IncompleteItems: []IncompleteItem{},
		Reminders:       []Reminder{},
		PurchasedItems:  []PurchasedItem{},
		FuelRecords:     []FuelRecord{},
	}
}

// AttachmentCounts returns the number of attachments on maintenance and fuel records.
func (d *Data) AttachmentCounts() (records, fuel int) {
	for _, r := range d.Records {
		records += len(r.Attachments)
	}
	for _, f := range d.FuelRecords {
		fuel += len(f.Attachments)
	}
	return records, fuel
}

// DefaultCategories returns the seeded maintenance vocabulary.
func DefaultCategories() Categories {
	return Categories{
		"Engine": {
			"Oil change",
			"Oil filter",
			"Air filter",
			"Spark plugs",
			"Throttle body cleaning",
			"Timing belt",
			"Drive belt inspection",
		},
		"Brakes": {
			"Brake pads",
			"Brake discs",
			"Brake fluid",
			"Brake line inspection",
			"Handbrake adjustment",
		},
		"Tires": {
			"Tire replacement",
			"Tire rotation",
			"Wheel alignment",
			"Wheel balancing",
			"Puncture repair",
		},
		"Fluids": {
			"Transmission fluid",
			"Coolant",
			"Power steering fluid",
			"Washer fluid",
			"Antifreeze",
		},
		"Electrical": {
			"Battery",
			"Alternator inspection",
			"Fuses",
			"Wiring inspection",
			"Bulbs",
		},
		"Air conditioning": {
			"Cabin filter",
			"A/C cleaning",
			"Refrigerant recharge",
			"A/C line inspection",
		},
		"Chassis": {
			"Shock absorbers",
			"Suspension inspection",
			"Ball joints",
			"Driveshaft inspection",
			"Underbody rustproofing",
		},
		"Other": {
			"Annual inspection",
			"Insurance",
			"Car wash",
			"Waxing",
			"Interior cleaning",
		},
	}
}

// DefaultFuelOptions returns the seeded fuel pick lists.
func DefaultFuelOptions() FuelOptions {
	return FuelOptions{
		FuelTypes:      []string{"92 gasoline", "95 gasoline", "98 gasoline", "0 diesel", "-10 diesel", "-20 diesel"},
		PaymentMethods: []string{"Cash", "Bank card", "WeChat Pay", "Alipay", "Fuel card"},
		GasStations:    []string{"Sinopec", "PetroChina", "CNOOC", "Shell", "TotalEnergies", "BP", "Caltex"},
		Locations:      []string{"Wuhan", "Beijing", "Shanghai", "Guangzhou", "Shenzhen", "Hangzhou", "Nanjing", "Chengdu", "Chongqing", "Xi'an"},
	}
}

// AddUnique appends value when absent, reporting whether the list changed.
func AddUnique(list []string, value string) ([]string, bool) {
	if slices.Contains(list, value) {
		return list, false
	}
	return append(slices.Clone(list), value), true
}

// RemoveValue drops every occurrence of value, reporting whether the list changed.
func RemoveValue(list []string, value string) ([]string, bool) {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out, len(out) != len(list)
}

// NormalizeName trims surrounding whitespace from user-entered names.
func NormalizeName(s string) string {
	return strings.TrimSpace(s)
}
