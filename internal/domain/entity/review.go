package entity

import (
	"time"
)

type Review struct {
	ID         string    `json:"id" firestore:"id"`
	OrderID    string    `json:"order_id" firestore:"orderId"`
	ProductID  string    `json:"product_id" firestore:"productId"`
	ReviewerID string    `json:"reviewer_id" firestore:"reviewerId"`
	VendorID   string    `json:"vendor_id" firestore:"vendorId"`
	Rating     int       `json:"rating" firestore:"rating"` // 1-5
	Content    string    `json:"content" firestore:"content"`
	Images     []string  `json:"images" firestore:"images"`
	Status     string    `json:"status" firestore:"status"` // "active", "hidden"
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt  time.Time `json:"updated_at" firestore:"updatedAt"`
}
