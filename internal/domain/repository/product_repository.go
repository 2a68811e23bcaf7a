package repository

import (
	"context"
	"lokapasar/internal/domain/entity"
)

type ProductFilter struct {
	CommunityID   string
	VendorID      string
	Category      string
	MinPriceCents int64
	MaxPriceCents int64
	TitlePrefix   string
	Status        string
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*entity.Product, int64, error)
	Update(ctx context.Context, product *entity.Product) error
	SoftDelete(ctx context.Context, id string) error
}
