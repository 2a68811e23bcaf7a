package repository

import (
	"context"
	"lokapasar/internal/domain/entity"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*entity.Order, int64, error)
	ListByVendor(ctx context.Context, vendorID string, limit, offset int) ([]*entity.Order, int64, error)
	ListByRider(ctx context.Context, riderID string, limit, offset int) ([]*entity.Order, int64, error)
	Update(ctx context.Context, order *entity.Order) error
}
