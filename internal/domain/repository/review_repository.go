package repository

import (
	"context"
	"lokapasar/internal/domain/entity"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	GetByOrderID(ctx context.Context, orderID string) (*entity.Review, error)
	ListByVendor(ctx context.Context, vendorID string, limit, offset int) ([]*entity.Review, int64, error)
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.Review, int64, error)
}
