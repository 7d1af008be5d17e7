// ABOUTME: Purchased item mutations
// ABOUTME: Normalises single-use and multi-use quantities on every write

package store

import (
	"github.com/harper/carlog/internal/models"
)

// PurchasedItemPatch holds the fields to change on a purchased item. Nil
// fields are kept; ClearExpiry drops the expiry date.
type PurchasedItemPatch struct {
	Name              *string
	Category          *string
	PurchaseDate      *models.Date
	ExpiryDate        *models.Date
	ClearExpiry       bool
	Quantity          *int
	TotalQuantity     *int
	RemainingQuantity *int
	Price             *float64
	Supplier          *string
	Notes             *string
	IsMultiUse        *bool
}

// AddPurchasedItem stores a new inventory item.
func (s *Store) AddPurchasedItem(in models.PurchasedItem) (models.PurchasedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := clonePurchasedItem(in)
	p.ID = s.newID()
	p.Name = models.NormalizeName(p.Name)
	p.Normalize()
	if err := p.Validate(); err != nil {
		return models.PurchasedItem{}, err
	}

	next := cloneData(s.data)
	next.PurchasedItems = append(next.PurchasedItems, clonePurchasedItem(p))
	if err := s.saveData(next); err != nil {
		return models.PurchasedItem{}, err
	}
	return p, nil
}

// UpdatePurchasedItem merges patch into the item with id. Unknown ids are ignored.
func (s *Store) UpdatePurchasedItem(id string, patch PurchasedItemPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.data.PurchasedItems, id, purchasedID)
	if i < 0 {
		return nil
	}
	next := cloneData(s.data)
	p := &next.PurchasedItems[i]
	if patch.Name != nil {
		p.Name = models.NormalizeName(*patch.Name)
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.PurchaseDate != nil {
		p.PurchaseDate = *patch.PurchaseDate
	}
	switch {
	case patch.ClearExpiry:
		p.ExpiryDate = nil
	case patch.ExpiryDate != nil:
		p.ExpiryDate = cloneDate(patch.ExpiryDate)
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.TotalQuantity != nil {
		p.TotalQuantity = *patch.TotalQuantity
	}
	if patch.RemainingQuantity != nil {
		p.RemainingQuantity = *patch.RemainingQuantity
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Supplier != nil {
		p.Supplier = *patch.Supplier
	}
	if patch.Notes != nil {
		p.Notes = *patch.Notes
	}
	if patch.IsMultiUse != nil {
		p.IsMultiUse = *patch.IsMultiUse
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	return s.saveData(next)
}

// RemovePurchasedItem deletes the item with id. Unknown ids are ignored.
func (s *Store) RemovePurchasedItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.data.PurchasedItems, id, purchasedID)
	if i < 0 {
		return nil
	}
	next := cloneData(s.data)
	next.PurchasedItems = removeAt(next.PurchasedItems, i)
	return s.saveData(next)
}
