package usecase

import (
	"context"

	"lokapasar/internal/domain/entity"
	"lokapasar/internal/domain/repository"
	"lokapasar/pkg/errors"
)

type ProductUseCase struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

func NewProductUseCase(productRepo repository.ProductRepository, userRepo repository.UserRepository) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

type CreateProductInput struct {
	Title         string
	Description   string
	PriceCents    int64
	Currency      string
	Category      string
	Stock         int
	Images        []entity.ProductImage
	AllowPickup   bool
	AllowRider    bool
	AllowShipping bool
}

type UpdateProductInput struct {
	Title       string
	Description string
	PriceCents  int64
	Category    string
	Stock       *int
	Status      string
}

func (uc *ProductUseCase) CreateProduct(ctx context.Context, vendorID string, input CreateProductInput) (*entity.Product, error) {
	vendor, err := uc.userRepo.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor.Role != "vendor" {
		return nil, errors.Forbidden("Only vendors can list products", nil)
	}

	if input.PriceCents <= 0 {
		return nil, errors.BadRequest("Price must be positive", nil)
	}
	if len(input.Currency) != 3 {
		return nil, errors.BadRequest("Currency must be a 3-letter code", nil)
	}
	if !input.AllowPickup && !input.AllowRider && !input.AllowShipping {
		return nil, errors.BadRequest("At least one fulfilment option is required", nil)
	}

	product := &entity.Product{
		VendorID:      vendorID,
		CommunityID:   vendor.CommunityID,
		Title:         input.Title,
		Description:   input.Description,
		PriceCents:    input.PriceCents,
		Currency:      input.Currency,
		Category:      input.Category,
		Images:        input.Images,
		Status:        "active",
		Stock:         input.Stock,
		AllowPickup:   input.AllowPickup,
		AllowRider:    input.AllowRider,
		AllowShipping: input.AllowShipping,
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (uc *ProductUseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return uc.productRepo.GetByID(ctx, id)
}

func (uc *ProductUseCase) ListProducts(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, int64, error) {
	return uc.productRepo.List(ctx, filter, limit, offset)
}

func (uc *ProductUseCase) UpdateProduct(ctx context.Context, vendorID, productID string, input UpdateProductInput) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.VendorID != vendorID {
		return nil, errors.Forbidden("You can only update your own products", nil)
	}

	if input.Title != "" {
		product.Title = input.Title
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.PriceCents > 0 {
		product.PriceCents = input.PriceCents
	}
	if input.Category != "" {
		product.Category = input.Category
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
		if product.Stock == 0 {
			product.Status = "sold_out"
		} else if product.Status == "sold_out" {
			product.Status = "active"
		}
	}
	if input.Status != "" {
		product.Status = input.Status
	}

	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (uc *ProductUseCase) DeleteProduct(ctx context.Context, vendorID, productID string) error {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.VendorID != vendorID {
		return errors.Forbidden("You can only delete your own products", nil)
	}

	return uc.productRepo.SoftDelete(ctx, productID)
}
