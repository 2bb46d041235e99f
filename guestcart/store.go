// Package guestcart manages the cart of an unauthenticated visitor. The
// contents are untrusted client state: reads are validated fail-closed,
// and a list that fails validation is discarded whole rather than
// partially filtered.
package guestcart

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	MaxEntries  = 50
	MaxQuantity = 99

	// How many entries to keep when persistence runs out of room.
	overflowKeep = 10
)

// ErrStoreFull is returned by a Storage implementation when the backing
// store cannot hold the list.
var ErrStoreFull = errors.New("guest cart storage full")

type Item struct {
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

type Storage interface {
	Load(guestID string) ([]Item, error)
	Save(guestID string, items []Item) error
	Clear(guestID string) error
}

type Store struct {
	storage Storage
	now     func() time.Time
}

func New(storage Storage) *Store {
	return &Store{storage: storage, now: time.Now}
}

func validate(items []Item) error {
	if len(items) > MaxEntries {
		return fmt.Errorf("too many entries: %d > %d", len(items), MaxEntries)
	}
	for _, it := range items {
		if it.ProductID == 0 {
			return errors.New("entry missing product id")
		}
		if it.Quantity < 1 || it.Quantity > MaxQuantity {
			return fmt.Errorf("quantity %d out of range [1,%d]", it.Quantity, MaxQuantity)
		}
	}
	return nil
}

// Get returns the validated list. Any entry failing validation discards
// the entire stored list and returns empty.
func (s *Store) Get(guestID string) ([]Item, error) {
	items, err := s.storage.Load(guestID)
	if err != nil {
		return nil, err
	}
	if err := validate(items); err != nil {
		zap.S().Warnw("discarding invalid guest cart", "guest_id", guestID, "reason", err)
		if clearErr := s.storage.Clear(guestID); clearErr != nil {
			return nil, clearErr
		}
		return []Item{}, nil
	}
	return items, nil
}

// Add merges into an existing entry by summing quantities, or appends.
// A merged quantity above MaxQuantity is rejected.
func (s *Store) Add(guestID string, productID uint, quantity int) ([]Item, error) {
	if productID == 0 {
		return nil, errors.New("product id is required")
	}
	if quantity < 1 {
		return nil, errors.New("quantity must be at least 1")
	}
	items, err := s.Get(guestID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range items {
		if items[i].ProductID == productID {
			if items[i].Quantity+quantity > MaxQuantity {
				return nil, fmt.Errorf("quantity limit is %d per product", MaxQuantity)
			}
			items[i].Quantity += quantity
			items[i].AddedAt = s.now()
			merged = true
			break
		}
	}
	if !merged {
		if quantity > MaxQuantity {
			return nil, fmt.Errorf("quantity limit is %d per product", MaxQuantity)
		}
		items = append(items, Item{ProductID: productID, Quantity: quantity, AddedAt: s.now()})
	}

	if err := s.persist(guestID, items); err != nil {
		return nil, err
	}
	return s.Get(guestID)
}

// SetQuantity replaces the quantity for a product; zero or negative is
// equivalent to Remove.
func (s *Store) SetQuantity(guestID string, productID uint, quantity int) ([]Item, error) {
	if quantity <= 0 {
		return s.Remove(guestID, productID)
	}
	if quantity > MaxQuantity {
		return nil, fmt.Errorf("quantity limit is %d per product", MaxQuantity)
	}
	items, err := s.Get(guestID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			items[i].AddedAt = s.now()
			found = true
			break
		}
	}
	if !found {
		items = append(items, Item{ProductID: productID, Quantity: quantity, AddedAt: s.now()})
	}
	if err := s.persist(guestID, items); err != nil {
		return nil, err
	}
	return s.Get(guestID)
}

func (s *Store) Remove(guestID string, productID uint) ([]Item, error) {
	items, err := s.Get(guestID)
	if err != nil {
		return nil, err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	if err := s.persist(guestID, kept); err != nil {
		return nil, err
	}
	return s.Get(guestID)
}

func (s *Store) Clear(guestID string) error {
	return s.storage.Clear(guestID)
}

// Count returns the sum of quantities across the validated list.
func (s *Store) Count(guestID string) (int, error) {
	items, err := s.Get(guestID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total, nil
}

// persist writes the list. If the store is full, it retries with only the
// most recent entries; if that fails too, the write is dropped with a log
// line so the caller never sees a crash from a full store.
func (s *Store) persist(guestID string, items []Item) error {
	err := s.storage.Save(guestID, items)
	if !errors.Is(err, ErrStoreFull) {
		return err
	}

	keep := items
	if len(keep) > overflowKeep {
		keep = keep[len(keep)-overflowKeep:]
	}
	if retryErr := s.storage.Save(guestID, keep); retryErr != nil {
		zap.S().Warnw("guest cart persist dropped after overflow retry",
			"guest_id", guestID, "entries", len(items), "error", retryErr)
	}
	return nil
}
