package repository

import (
	"context"
	"lokapasar/internal/domain/entity"
)

type PayoutRepository interface {
	GetBalance(ctx context.Context, vendorID string) (*entity.VendorBalance, error)
	// AdjustBalance adds deltaCents to the vendor balance, creating the
	// balance document on first use.
	AdjustBalance(ctx context.Context, vendorID, currency string, deltaCents int64) (*entity.VendorBalance, error)
	CreatePayout(ctx context.Context, payout *entity.Payout) error
	GetPayoutByID(ctx context.Context, id string) (*entity.Payout, error)
	ListPayoutsByVendor(ctx context.Context, vendorID string, limit, offset int) ([]*entity.Payout, int64, error)
	UpdatePayout(ctx context.Context, payout *entity.Payout) error
}
