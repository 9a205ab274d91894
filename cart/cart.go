// Package cart holds the shopping cart: (product, quantity) entries keyed by
// product id and the totals derived from them.
package cart

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrItemNotFound    = errors.New("item not in cart")
	ErrInvalidProduct  = errors.New("product id is required")
)

// Product is the slice of catalogue data a cart entry carries.
type Product struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Images []string        `json:"images,omitempty"`
	Type   string          `json:"type,omitempty"`
}

// Item is one cart entry. Quantity is always >= 1.
type Item struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal is price x quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Store is an ordered collection of cart items. The zero value is not usable;
// build one with New.
type Store struct {
	mu      sync.RWMutex
	items   []Item
	pricing Pricing
}

func New(p Pricing) *Store {
	return &Store{pricing: p}
}

// AddItem merges qty into an existing entry for the same product, or appends
// a new entry.
func (s *Store) AddItem(p Product, qty int) error {
	if p.ID == "" {
		return ErrInvalidProduct
	}
	if qty < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(p.ID); i >= 0 {
		s.items[i].Quantity += qty
		s.items[i].Product = p
		return nil
	}
	s.items = append(s.items, Item{Product: p, Quantity: qty})
	return nil
}

func (s *Store) RemoveItem(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return ErrItemNotFound
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

// UpdateQuantity overwrites the quantity of an entry. Values below 1 leave the
// cart untouched.
func (s *Store) UpdateQuantity(productID string, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return ErrItemNotFound
	}
	s.items[i].Quantity = qty
	return nil
}

// Items returns a copy of the entries in insertion order.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

// Count is the number of units across all entries.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

// Totals derives subtotal, tax, shipping and total from the current entries.
func (s *Store) Totals() Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pricing.Compute(s.items)
}

// Snapshot returns the entries for persistence.
func (s *Store) Snapshot() []Item {
	return s.Items()
}

// Restore replaces the cart contents, dropping entries that would break the
// quantity or identity invariants and folding duplicate product ids together.
func (s *Store) Restore(items []Item) {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	for _, it := range items {
		_ = s.AddItem(it.Product, it.Quantity)
	}
}

// Merge adds every entry of other into s. Quantities of shared products add up.
func (s *Store) Merge(other *Store) {
	for _, it := range other.Items() {
		_ = s.AddItem(it.Product, it.Quantity)
	}
}

func (s *Store) indexOf(productID string) int {
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it
		if it.Product.Images != nil {
			out[i].Product.Images = append([]string(nil), it.Product.Images...)
		}
	}
	return out
}
