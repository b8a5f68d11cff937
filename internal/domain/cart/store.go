// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Notifier receives the transient "item added" signal
type Notifier interface {
	ItemAdded(item LineItem)
}

// Store owns the cart line items and mirrors them to a Storage after every
// mutation. A Store is driven by one event loop and is not safe for
// concurrent use.
type Store struct {
	storage  Storage
	notifier Notifier
	logger   logrus.FieldLogger
	items    []LineItem
}

// NewStore creates a store and rehydrates it from storage. Absent or
// malformed data yields an empty cart.
func NewStore(ctx context.Context, storage Storage, notifier Notifier, logger logrus.FieldLogger) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Store{
		storage:  storage,
		notifier: notifier,
		logger:   logger,
	}
	s.items = s.load(ctx)
	return s
}

// AddItem increments the quantity of an existing line or appends a new one
func (s *Store) AddItem(ctx context.Context, product Product) error {
	index := s.indexOf(product.ID)
	if index >= 0 {
		s.items[index].Quantity++
	} else {
		s.items = append(s.items, LineItem{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Image:    product.Image,
			Quantity: 1,
		})
		index = len(s.items) - 1
	}

	err := s.save(ctx)

	if s.notifier != nil {
		s.notifier.ItemAdded(s.items[index])
	}

	return err
}

// RemoveItem deletes the line with the given id; unknown ids are ignored
func (s *Store) RemoveItem(ctx context.Context, id string) error {
	if index := s.indexOf(id); index >= 0 {
		s.items = append(s.items[:index], s.items[index+1:]...)
	}
	return s.save(ctx)
}

// UpdateQuantity sets the quantity of a line. A non-positive quantity removes
// the line; unknown ids are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if index := s.indexOf(id); index >= 0 {
		if quantity <= 0 {
			s.items = append(s.items[:index], s.items[index+1:]...)
		} else {
			s.items[index].Quantity = quantity
		}
	}
	return s.save(ctx)
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) error {
	s.items = []LineItem{}
	return s.save(ctx)
}

// Total recomputes the cart total from the current lines
func (s *Store) Total() decimal.Decimal {
	return CalculateTotal(s.items)
}

// Count returns the number of units in the cart
func (s *Store) Count() int {
	return CountItems(s.items)
}

// Items returns a snapshot of the cart lines
func (s *Store) Items() []LineItem {
	items := make([]LineItem, len(s.items))
	copy(items, s.items)
	return items
}

// Item looks up a single line by id
func (s *Store) Item(id string) (LineItem, bool) {
	if index := s.indexOf(id); index >= 0 {
		return s.items[index], true
	}
	return LineItem{}, false
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) save(ctx context.Context) error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := s.storage.Save(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("save cart failed: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context) []LineItem {
	data, err := s.storage.Load(ctx, StorageKey)
	if errors.Is(err, ErrNotFound) {
		return []LineItem{}
	}
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read stored cart, starting empty")
		return []LineItem{}
	}

	var stored []LineItem
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.WithError(err).Warn("Stored cart is malformed, starting empty")
		return []LineItem{}
	}

	return normalize(stored)
}

// normalize drops non-positive quantities and merges duplicate ids so that
// rehydrated state obeys the same invariants as mutated state.
func normalize(stored []LineItem) []LineItem {
	items := make([]LineItem, 0, len(stored))
	seen := make(map[string]int, len(stored))

	for _, item := range stored {
		if item.Quantity <= 0 {
			continue
		}
		if index, ok := seen[item.ID]; ok {
			items[index].Quantity += item.Quantity
			continue
		}
		seen[item.ID] = len(items)
		items = append(items, item)
	}

	return items
}
