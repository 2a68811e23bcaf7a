package cart

import (
	"context"
)

const (
	MinQuantity = 1
	MaxQuantity = 999
)

// Item is one line of a draft order.
type Item struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Currency       string `json:"currency"`
	VendorID       string `json:"vendor_id"`
	CommunityID    string `json:"community_id"`
	Quantity       int    `json:"quantity"`
}

// Cache persists a cart between sessions. It is best-effort: the Store
// treats it as a write-through cache, never as the source of truth.
type Cache interface {
	Save(ctx context.Context, owner string, items []Item) error
	Load(ctx context.Context, owner string) ([]Item, error)
}

func clampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}
