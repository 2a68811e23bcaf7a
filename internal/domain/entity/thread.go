package entity

import "time"

// Thread is a single buyer-vendor conversation container.
type Thread struct {
	ID                 string    `json:"id" firestore:"id"`
	Participants       []string  `json:"participants" firestore:"participants"`
	BuyerID            string    `json:"buyer_id" firestore:"buyerId"`
	VendorID           string    `json:"vendor_id" firestore:"vendorId"`
	ProductID          string    `json:"product_id,omitempty" firestore:"productId,omitempty"`
	CreatedAt          time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt          time.Time `json:"updated_at" firestore:"updatedAt"`
	LastMessageAt      time.Time `json:"last_message_at" firestore:"lastMessageAt"`
	LastMessagePreview string    `json:"last_message_preview,omitempty" firestore:"lastMessagePreview,omitempty"`
}
