// ABOUTME: Category vocabulary and fuel pick-list mutations
// ABOUTME: Set-like edits persisted to their own slots

package store

import (
	"fmt"

	"github.com/harper/carlog/internal/models"
)

// AddCategory creates an empty category. Existing categories are left alone.
func (s *Store) AddCategory(name string) error {
	name = models.NormalizeName(name)
	if err := models.ValidateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[name]; ok {
		return nil
	}
	next := s.categories.Clone()
	next[name] = []string{}
	return s.saveCategories(next)
}

// RemoveCategory deletes a category and its items. Records that used it keep their text.
func (s *Store) RemoveCategory(name string) error {
	name = models.NormalizeName(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[name]; !ok {
		return nil
	}
	next := s.categories.Clone()
	delete(next, name)
	return s.saveCategories(next)
}

// AddItemToCategory adds item under an existing category. Unknown categories are a no-op.
func (s *Store) AddItemToCategory(category, item string) error {
	category = models.NormalizeName(category)
	item = models.NormalizeName(item)
	if err := models.ValidateName(category); err != nil {
		return fmt.Errorf("category: %w", err)
	}
	if err := models.ValidateName(item); err != nil {
		return fmt.Errorf("item: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.categories[category]
	if !ok {
		return nil
	}
	items, changed := models.AddUnique(current, item)
	if !changed {
		return nil
	}
	next := s.categories.Clone()
	next[category] = items
	return s.saveCategories(next)
}

// RemoveItemFromCategory drops item from category.
func (s *Store) RemoveItemFromCategory(category, item string) error {
	category = models.NormalizeName(category)
	item = models.NormalizeName(item)
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok := s.categories[category]
	if !ok {
		return nil
	}
	remaining, changed := models.RemoveValue(items, item)
	if !changed {
		return nil
	}
	next := s.categories.Clone()
	next[category] = remaining
	return s.saveCategories(next)
}

// FuelOptionList names one of the fuel pick lists.
type FuelOptionList string

const (
	FuelTypes      FuelOptionList = "fuel-types"
	PaymentMethods FuelOptionList = "payment-methods"
	GasStations    FuelOptionList = "gas-stations"
	Locations      FuelOptionList = "locations"
)

// FuelOptionLists lists every fuel pick list.
var FuelOptionLists = []FuelOptionList{FuelTypes, PaymentMethods, GasStations, Locations}

func (l FuelOptionList) field(o *models.FuelOptions) (*[]string, error) {
	switch l {
	case FuelTypes:
		return &o.FuelTypes, nil
	case PaymentMethods:
		return &o.PaymentMethods, nil
	case GasStations:
		return &o.GasStations, nil
	case Locations:
		return &o.Locations, nil
	}
	return nil, fmt.Errorf("unknown option list %q", string(l))
}

// AddFuelOption adds value to the named pick list.
func (s *Store) AddFuelOption(list FuelOptionList, value string) error {
	value = models.NormalizeName(value)
	if err := models.ValidateName(value); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.fuelOptions.Clone()
	field, err := list.field(&next)
	if err != nil {
		return err
	}
	updated, changed := models.AddUnique(*field, value)
	if !changed {
		return nil
	}
	*field = updated
	return s.saveFuelOptions(next)
}

// RemoveFuelOption drops value from the named pick list.
func (s *Store) RemoveFuelOption(list FuelOptionList, value string) error {
	value = models.NormalizeName(value)
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.fuelOptions.Clone()
	field, err := list.field(&next)
	if err != nil {
		return err
	}
	updated, changed := models.RemoveValue(*field, value)
	if !changed {
		return nil
	}
	*field = updated
	return s.saveFuelOptions(next)
}

// AddFuelType adds a fuel grade.
func (s *Store) AddFuelType(v string) error { return s.AddFuelOption(FuelTypes, v) }

// RemoveFuelType removes a fuel grade.
func (s *Store) RemoveFuelType(v string) error { return s.RemoveFuelOption(FuelTypes, v) }

// AddPaymentMethod adds a payment method.
func (s *Store) AddPaymentMethod(v string) error { return s.AddFuelOption(PaymentMethods, v) }

// RemovePaymentMethod removes a payment method.
func (s *Store) RemovePaymentMethod(v string) error { return s.RemoveFuelOption(PaymentMethods, v) }

// AddGasStation adds a gas station brand.
func (s *Store) AddGasStation(v string) error { return s.AddFuelOption(GasStations, v) }

// RemoveGasStation removes a gas station brand.
func (s *Store) RemoveGasStation(v string) error { return s.RemoveFuelOption(GasStations, v) }

// AddLocation adds a location.
func (s *Store) AddLocation(v string) error { return s.AddFuelOption(Locations, v) }

// RemoveLocation removes a location.
func (s *Store) RemoveLocation(v string) error { return s.RemoveFuelOption(Locations, v) }
