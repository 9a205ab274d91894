package client

import (
	"encoding/json"
	"log"

	"github.com/ManishKrBarman/LokRise-sub002/cart"
)

// LocalCart is a cart store written back to client storage after every
// change, so it outlives the process when the storage does.
type LocalCart struct {
	*cart.Store
	storage Storage
}

// LoadLocalCart restores the cart saved under KeyCart. An unreadable entry
// starts an empty cart.
func LoadLocalCart(s Storage, p cart.Pricing) *LocalCart {
	lc := &LocalCart{Store: cart.New(p), storage: s}
	if raw, ok := s.Get(KeyCart); ok && raw != "" {
		var items []cart.Item
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			log.Printf("⚠️ discarding unreadable saved cart: %v", err)
		} else {
			lc.Store.Restore(items)
		}
	}
	return lc
}

func (lc *LocalCart) save(err error) error {
	if err != nil {
		return err
	}
	raw, err := json.Marshal(lc.Store.Snapshot())
	if err != nil {
		return err
	}
	return lc.storage.Set(KeyCart, string(raw))
}

func (lc *LocalCart) AddItem(p cart.Product, qty int) error {
	return lc.save(lc.Store.AddItem(p, qty))
}

func (lc *LocalCart) RemoveItem(productID string) error {
	return lc.save(lc.Store.RemoveItem(productID))
}

func (lc *LocalCart) UpdateQuantity(productID string, qty int) error {
	return lc.save(lc.Store.UpdateQuantity(productID, qty))
}

func (lc *LocalCart) Clear() error {
	lc.Store.Clear()
	return lc.save(nil)
}

// Restore replaces the contents and persists them.
func (lc *LocalCart) Restore(items []cart.Item) error {
	lc.Store.Restore(items)
	return lc.save(nil)
}

func (lc *LocalCart) Merge(other *cart.Store) error {
	lc.Store.Merge(other)
	return lc.save(nil)
}
