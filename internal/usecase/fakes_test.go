package usecase

import (
	"context"
	"fmt"
	"sync"

	"lokapasar/internal/domain/entity"
	"lokapasar/internal/domain/repository"
	"lokapasar/internal/domain/service"
	"lokapasar/pkg/errors"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) ListRidersByCommunity(ctx context.Context, communityID string) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var riders []*entity.User
	for _, user := range r.users {
		if user.Role == "rider" && user.CommunityID == communityID && user.RiderAvailable {
			riders = append(riders, user)
		}
	}
	return riders, nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, product := range products {
		repo.products[product.ID] = product
	}
	return repo
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == "" {
		product.ID = fmt.Sprintf("product-%d", len(r.products)+1)
	}
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) List(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Product
	for _, product := range r.products {
		if filter.VendorID != "" && product.VendorID != filter.VendorID {
			continue
		}
		if filter.CommunityID != "" && product.CommunityID != filter.CommunityID {
			continue
		}
		out = append(out, product)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) SoftDelete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*entity.Order
}

func newFakeOrderRepo(orders ...*entity.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: make(map[string]*entity.Order)}
	for _, order := range orders {
		repo.orders[order.ID] = order
	}
	return repo
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == "" {
		order.ID = fmt.Sprintf("order-%d", len(r.orders)+1)
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	return order, nil
}

func (r *fakeOrderRepo) list(match func(*entity.Order) bool) ([]*entity.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Order
	for _, order := range r.orders {
		if match(order) {
			out = append(out, order)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*entity.Order, int64, error) {
	return r.list(func(o *entity.Order) bool { return o.BuyerID == buyerID })
}

func (r *fakeOrderRepo) ListByVendor(ctx context.Context, vendorID string, limit, offset int) ([]*entity.Order, int64, error) {
	return r.list(func(o *entity.Order) bool { return o.VendorID == vendorID })
}

func (r *fakeOrderRepo) ListByRider(ctx context.Context, riderID string, limit, offset int) ([]*entity.Order, int64, error) {
	return r.list(func(o *entity.Order) bool { return o.RiderID == riderID })
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	return nil
}

type fakePayoutRepo struct {
	mu       sync.Mutex
	balances map[string]*entity.VendorBalance
	payouts  map[string]*entity.Payout
}

func newFakePayoutRepo() *fakePayoutRepo {
	return &fakePayoutRepo{
		balances: make(map[string]*entity.VendorBalance),
		payouts:  make(map[string]*entity.Payout),
	}
}

func (r *fakePayoutRepo) GetBalance(ctx context.Context, vendorID string) (*entity.VendorBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	balance, ok := r.balances[vendorID]
	if !ok {
		return nil, errors.NotFound("Balance", nil)
	}
	return balance, nil
}

func (r *fakePayoutRepo) AdjustBalance(ctx context.Context, vendorID, currency string, deltaCents int64) (*entity.VendorBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	balance, ok := r.balances[vendorID]
	if !ok {
		balance = &entity.VendorBalance{VendorID: vendorID, Currency: currency}
		r.balances[vendorID] = balance
	}
	if balance.BalanceCents+deltaCents < 0 {
		return nil, errors.BadRequest("Payout exceeds available balance", nil)
	}
	balance.BalanceCents += deltaCents
	if currency != "" {
		balance.Currency = currency
	}
	return balance, nil
}

func (r *fakePayoutRepo) CreatePayout(ctx context.Context, payout *entity.Payout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payout.ID == "" {
		payout.ID = fmt.Sprintf("payout-%d", len(r.payouts)+1)
	}
	r.payouts[payout.ID] = payout
	return nil
}

func (r *fakePayoutRepo) GetPayoutByID(ctx context.Context, id string) (*entity.Payout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payout, ok := r.payouts[id]
	if !ok {
		return nil, errors.NotFound("Payout", nil)
	}
	return payout, nil
}

func (r *fakePayoutRepo) ListPayoutsByVendor(ctx context.Context, vendorID string, limit, offset int) ([]*entity.Payout, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Payout
	for _, payout := range r.payouts {
		if payout.VendorID == vendorID {
			out = append(out, payout)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakePayoutRepo) UpdatePayout(ctx context.Context, payout *entity.Payout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payouts[payout.ID] = payout
	return nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[string]*entity.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[string]*entity.Review)}
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if review.ID == "" {
		review.ID = fmt.Sprintf("review-%d", len(r.reviews)+1)
	}
	r.reviews[review.ID] = review
	return nil
}

func (r *fakeReviewRepo) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, errors.NotFound("Review", nil)
	}
	return review, nil
}

func (r *fakeReviewRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, review := range r.reviews {
		if review.OrderID == orderID {
			return review, nil
		}
	}
	return nil, errors.NotFound("Review", nil)
}

func (r *fakeReviewRepo) ListByVendor(ctx context.Context, vendorID string, limit, offset int) ([]*entity.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Review
	for _, review := range r.reviews {
		if review.VendorID == vendorID {
			out = append(out, review)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeReviewRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Review
	for _, review := range r.reviews {
		if review.ProductID == productID {
			out = append(out, review)
		}
	}
	return out, int64(len(out)), nil
}

// failingPaymentService rejects every charge.
type failingPaymentService struct{}

func (s *failingPaymentService) CreatePayment(ctx context.Context, req service.PaymentRequest) (*service.PaymentResponse, error) {
	return nil, fmt.Errorf("provider unavailable")
}

func (s *failingPaymentService) GetPaymentStatus(ctx context.Context, orderID string) (*service.PaymentResponse, error) {
	return nil, fmt.Errorf("provider unavailable")
}

func (s *failingPaymentService) HandleCallback(ctx context.Context, notification map[string]interface{}) (*service.PaymentResponse, error) {
	return nil, fmt.Errorf("provider unavailable")
}
