package entity

import (
	"time"
)

type OrderLine struct {
	ProductID      string `json:"product_id" firestore:"productId"`
	Name           string `json:"name" firestore:"name"`
	UnitPriceCents int64  `json:"unit_price_cents" firestore:"unitPriceCents"`
	Quantity       int    `json:"quantity" firestore:"quantity"`
}

// Order is the checked-out form of a cart. One order belongs to exactly
// one vendor, which is why the cart rejects cross-vendor additions.
type Order struct {
	ID          string      `json:"id" firestore:"id"`
	BuyerID     string      `json:"buyer_id" firestore:"buyerId"`
	VendorID    string      `json:"vendor_id" firestore:"vendorId"`
	CommunityID string      `json:"community_id" firestore:"communityId"`
	Lines       []OrderLine `json:"lines" firestore:"lines"`

	SubtotalCents int64  `json:"subtotal_cents" firestore:"subtotalCents"`
	DeliveryCents int64  `json:"delivery_cents" firestore:"deliveryCents"`
	TotalCents    int64  `json:"total_cents" firestore:"totalCents"`
	Currency      string `json:"currency" firestore:"currency"`

	Status         string `json:"status" firestore:"status"` // "pending", "paid", "delivering", "completed", "cancelled"
	DeliveryMethod string `json:"delivery_method" firestore:"deliveryMethod"` // "pickup", "rider", "shipping"
	RiderID        string `json:"rider_id,omitempty" firestore:"riderId,omitempty"`

	PaymentReference string `json:"payment_reference,omitempty" firestore:"paymentReference,omitempty"`
	PaymentStatus    string `json:"payment_status" firestore:"paymentStatus"`
	ShippingLabelURL string `json:"shipping_label_url,omitempty" firestore:"shippingLabelUrl,omitempty"`
	TrackingNumber   string `json:"tracking_number,omitempty" firestore:"trackingNumber,omitempty"`

	BuyerReviewed bool `json:"buyer_reviewed" firestore:"buyerReviewed"`
	PaidOut       bool `json:"paid_out" firestore:"paidOut"`

	CreatedAt   time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time  `json:"updated_at" firestore:"updatedAt"`
	CompletedAt *time.Time `json:"completed_at,omitempty" firestore:"completedAt,omitempty"`
}
