package entity

import (
	"time"
)

type ProductImage struct {
	ID           string `json:"id" firestore:"id"`
	URL          string `json:"url" firestore:"url"`
	DisplayOrder int    `json:"display_order" firestore:"displayOrder"`
}

type Product struct {
	ID          string         `json:"id" firestore:"id"`
	VendorID    string         `json:"vendor_id" firestore:"vendorId"`
	CommunityID string         `json:"community_id" firestore:"communityId"`
	Title       string         `json:"title" firestore:"title"`
	Description string         `json:"description" firestore:"description"`
	PriceCents  int64          `json:"price_cents" firestore:"priceCents"`
	Currency    string         `json:"currency" firestore:"currency"` // 3-letter code, e.g. "MYR"
	Category    string         `json:"category" firestore:"category"`
	Images      []ProductImage `json:"images" firestore:"images"`
	Status      string         `json:"status" firestore:"status"` // "active", "sold_out", "archived"
	Stock       int            `json:"stock" firestore:"stock"`
	SoldCount   int            `json:"sold_count" firestore:"soldCount"`

	// Fulfilment options the vendor offers
	AllowPickup   bool `json:"allow_pickup" firestore:"allowPickup"`
	AllowRider    bool `json:"allow_rider" firestore:"allowRider"`
	AllowShipping bool `json:"allow_shipping" firestore:"allowShipping"`

	CreatedAt time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time  `json:"updated_at" firestore:"updatedAt"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" firestore:"deletedAt,omitempty"`
}
