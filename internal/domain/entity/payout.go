package entity

import (
	"time"
)

// VendorBalance accrues from completed orders and is drawn down by payouts.
type VendorBalance struct {
	VendorID     string    `json:"vendor_id" firestore:"vendorId"`
	BalanceCents int64     `json:"balance_cents" firestore:"balanceCents"`
	Currency     string    `json:"currency" firestore:"currency"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updatedAt"`
}

type Payout struct {
	ID            string                 `json:"id" firestore:"id"`
	VendorID      string                 `json:"vendor_id" firestore:"vendorId"`
	AmountCents   int64                  `json:"amount_cents" firestore:"amountCents"`
	Currency      string                 `json:"currency" firestore:"currency"`
	Status        string                 `json:"status" firestore:"status"` // "requested", "processing", "paid", "failed"
	BankName      string                 `json:"bank_name" firestore:"bankName"`
	AccountNumber string                 `json:"account_number" firestore:"accountNumber"`
	AccountName   string                 `json:"account_name" firestore:"accountName"`
	Reference     string                 `json:"reference,omitempty" firestore:"reference,omitempty"`
	Details       map[string]interface{} `json:"details,omitempty" firestore:"details,omitempty"`
	ProcessedAt   *time.Time             `json:"processed_at,omitempty" firestore:"processedAt,omitempty"`
	CreatedAt     time.Time              `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time              `json:"updated_at" firestore:"updatedAt"`
}
