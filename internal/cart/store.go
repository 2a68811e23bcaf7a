package cart

import (
	"context"
	"sync"

	"lokapasar/pkg/errors"
	"lokapasar/pkg/logger"
)

// Store holds one buyer's in-progress cart. All items in a non-empty cart
// share the same vendor and currency, because an order belongs to exactly
// one vendor. In-memory state is authoritative; every mutation writes the
// full item list through to the cache, and cache failures are swallowed.
type Store struct {
	owner string
	cache Cache

	mu    sync.Mutex
	items []Item
}

// New builds a Store for owner, hydrating it from the cache. A missing,
// corrupted, or unreachable cached cart falls back to empty.
func New(ctx context.Context, owner string, cache Cache) *Store {
	s := &Store{owner: owner, cache: cache}

	if cache != nil {
		items, err := cache.Load(ctx, owner)
		if err != nil {
			logger.Debug("cart: cache load failed for %s: %v", owner, err)
		} else {
			s.items = items
		}
	}

	return s
}

// Add appends an item or increases an existing line's quantity. Adding an
// item whose vendor or currency differs from a non-empty cart's is
// rejected without mutation.
func (s *Store) Add(ctx context.Context, item Item, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) > 0 {
		first := s.items[0]
		if item.VendorID != first.VendorID {
			return errors.CartConflict("Your cart has items from another vendor. Check out or clear it first")
		}
		if item.Currency != first.Currency {
			return errors.CartConflict("Your cart has items in another currency. Check out or clear it first")
		}
	}

	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			s.items[i].Quantity = clampQuantity(s.items[i].Quantity + quantity)
			s.persist(ctx)
			return nil
		}
	}

	item.Quantity = clampQuantity(quantity)
	s.items = append(s.items, item)
	s.persist(ctx)
	return nil
}

// Remove deletes the matching line if present, no-op otherwise.
func (s *Store) Remove(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persist(ctx)
			return
		}
	}
}

// UpdateQuantity sets an existing line's quantity, clamped to 1..999. A
// value below 1 is coerced to 1, not treated as a removal, so malformed
// input cannot silently delete a line.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = clampQuantity(quantity)
			s.persist(ctx)
			return
		}
	}
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persist(ctx)
}

// Items returns a copy of the current lines.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Count is the sum of quantities across all lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// SubtotalCents is the sum of unit price times quantity across all lines.
func (s *Store) SubtotalCents() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, item := range s.items {
		total += item.UnitPriceCents * int64(item.Quantity)
	}
	return total
}

// Currency of the cart, or "" when empty.
func (s *Store) Currency() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return ""
	}
	return s.items[0].Currency
}

// VendorID of the cart, or "" when empty.
func (s *Store) VendorID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return ""
	}
	return s.items[0].VendorID
}

// CommunityID of the cart, or "" when empty.
func (s *Store) CommunityID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return ""
	}
	return s.items[0].CommunityID
}

// persist writes the full item list through to the cache. Failures are
// swallowed: the cache is not a source of truth. Caller holds s.mu.
func (s *Store) persist(ctx context.Context) {
	if s.cache == nil {
		return
	}

	items := make([]Item, len(s.items))
	copy(items, s.items)

	if err := s.cache.Save(ctx, s.owner, items); err != nil {
		logger.Warn("cart: cache save failed for %s: %v", s.owner, err)
	}
}
