package usecase

import (
	"context"
	"sync"

	"lokapasar/internal/cart"
	"lokapasar/internal/domain/repository"
	"lokapasar/pkg/errors"
)

// CartUseCase hands each authenticated buyer an explicit cart.Store,
// hydrated from the cache on first touch. Stores are kept for the life of
// the process; the cache carries them across restarts and reloads.
type CartUseCase struct {
	productRepo repository.ProductRepository
	cache       cart.Cache

	mu     sync.Mutex
	stores map[string]*cart.Store
}

func NewCartUseCase(productRepo repository.ProductRepository, cache cart.Cache) *CartUseCase {
	return &CartUseCase{
		productRepo: productRepo,
		cache:       cache,
		stores:      make(map[string]*cart.Store),
	}
}

type CartView struct {
	Items         []cart.Item `json:"items"`
	Count         int         `json:"count"`
	SubtotalCents int64       `json:"subtotal_cents"`
	Currency      string      `json:"currency,omitempty"`
	VendorID      string      `json:"vendor_id,omitempty"`
	CommunityID   string      `json:"community_id,omitempty"`
}

func (uc *CartUseCase) storeFor(ctx context.Context, userID string) *cart.Store {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	store, ok := uc.stores[userID]
	if !ok {
		store = cart.New(ctx, userID, uc.cache)
		uc.stores[userID] = store
	}
	return store
}

func (uc *CartUseCase) view(store *cart.Store) *CartView {
	return &CartView{
		Items:         store.Items(),
		Count:         store.Count(),
		SubtotalCents: store.SubtotalCents(),
		Currency:      store.Currency(),
		VendorID:      store.VendorID(),
		CommunityID:   store.CommunityID(),
	}
}

func (uc *CartUseCase) GetCart(ctx context.Context, userID string) *CartView {
	return uc.view(uc.storeFor(ctx, userID))
}

// AddItem resolves the product and adds it to the buyer's cart. The
// cart's own single-vendor check runs after the availability checks.
func (uc *CartUseCase) AddItem(ctx context.Context, userID, productID string, quantity int) (*CartView, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.Status != "active" || product.DeletedAt != nil {
		return nil, errors.BadRequest("Product is not available", nil)
	}
	if product.Stock <= 0 {
		return nil, errors.BadRequest("Product is out of stock", nil)
	}

	store := uc.storeFor(ctx, userID)
	item := cart.Item{
		ProductID:      product.ID,
		Name:           product.Title,
		UnitPriceCents: product.PriceCents,
		Currency:       product.Currency,
		VendorID:       product.VendorID,
		CommunityID:    product.CommunityID,
	}

	if err := store.Add(ctx, item, quantity); err != nil {
		return nil, err
	}

	return uc.view(store), nil
}

func (uc *CartUseCase) RemoveItem(ctx context.Context, userID, productID string) *CartView {
	store := uc.storeFor(ctx, userID)
	store.Remove(ctx, productID)
	return uc.view(store)
}

func (uc *CartUseCase) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) *CartView {
	store := uc.storeFor(ctx, userID)
	store.UpdateQuantity(ctx, productID, quantity)
	return uc.view(store)
}

func (uc *CartUseCase) ClearCart(ctx context.Context, userID string) *CartView {
	store := uc.storeFor(ctx, userID)
	store.Clear(ctx)
	return uc.view(store)
}

// Store exposes the underlying cart for checkout.
func (uc *CartUseCase) Store(ctx context.Context, userID string) *cart.Store {
	return uc.storeFor(ctx, userID)
}
