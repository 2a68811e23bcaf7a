package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lokapasar/internal/domain/entity"
)

func completedOrder() *entity.Order {
	return &entity.Order{
		ID:       "order-1",
		BuyerID:  "buyer-1",
		VendorID: "vendor-1",
		Lines:    []entity.OrderLine{{ProductID: "product-1", Quantity: 1}},
		Status:   "completed",
	}
}

func TestCreateReview(t *testing.T) {
	vendor := testVendor("vendor-1")
	userRepo := newFakeUserRepo(vendor)
	uc := NewReviewUseCase(newFakeReviewRepo(), newFakeOrderRepo(completedOrder()), userRepo)

	review, err := uc.CreateReview(context.Background(), "buyer-1", CreateReviewInput{
		OrderID: "order-1",
		Rating:  4,
		Content: "Sedap, sampai cepat",
	})
	require.NoError(t, err)

	assert.Equal(t, "vendor-1", review.VendorID)
	assert.Equal(t, "product-1", review.ProductID)
	assert.Equal(t, 4, review.Rating)

	// Vendor aggregate folded in the new rating.
	updated, err := userRepo.GetByID(context.Background(), "vendor-1")
	require.NoError(t, err)
	assert.Equal(t, 1, updated.VendorReviewCount)
	assert.InDelta(t, 4.0, updated.VendorRating, 0.001)
}

func TestCreateReviewRunningAverage(t *testing.T) {
	vendor := testVendor("vendor-1")
	vendor.VendorRating = 5.0
	vendor.VendorReviewCount = 1
	userRepo := newFakeUserRepo(vendor)
	uc := NewReviewUseCase(newFakeReviewRepo(), newFakeOrderRepo(completedOrder()), userRepo)

	_, err := uc.CreateReview(context.Background(), "buyer-1", CreateReviewInput{OrderID: "order-1", Rating: 3})
	require.NoError(t, err)

	updated, err := userRepo.GetByID(context.Background(), "vendor-1")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.VendorReviewCount)
	assert.InDelta(t, 4.0, updated.VendorRating, 0.001)
}

func TestCreateReviewRatingBounds(t *testing.T) {
	uc := NewReviewUseCase(newFakeReviewRepo(), newFakeOrderRepo(completedOrder()), newFakeUserRepo())

	for _, rating := range []int{0, -1, 6} {
		_, err := uc.CreateReview(context.Background(), "buyer-1", CreateReviewInput{OrderID: "order-1", Rating: rating})
		assert.Error(t, err, "rating %d", rating)
	}
}

func TestCreateReviewOnlyBuyer(t *testing.T) {
	uc := NewReviewUseCase(newFakeReviewRepo(), newFakeOrderRepo(completedOrder()), newFakeUserRepo())

	_, err := uc.CreateReview(context.Background(), "vendor-1", CreateReviewInput{OrderID: "order-1", Rating: 5})

	assert.Error(t, err)
}

func TestCreateReviewRequiresCompletedOrder(t *testing.T) {
	order := completedOrder()
	order.Status = "delivering"
	uc := NewReviewUseCase(newFakeReviewRepo(), newFakeOrderRepo(order), newFakeUserRepo())

	_, err := uc.CreateReview(context.Background(), "buyer-1", CreateReviewInput{OrderID: "order-1", Rating: 5})

	assert.Error(t, err)
}

func TestCreateReviewOncePerOrder(t *testing.T) {
	vendor := testVendor("vendor-1")
	uc := NewReviewUseCase(newFakeReviewRepo(), newFakeOrderRepo(completedOrder()), newFakeUserRepo(vendor))

	ctx := context.Background()
	_, err := uc.CreateReview(ctx, "buyer-1", CreateReviewInput{OrderID: "order-1", Rating: 5})
	require.NoError(t, err)

	_, err = uc.CreateReview(ctx, "buyer-1", CreateReviewInput{OrderID: "order-1", Rating: 1})
	assert.Error(t, err)
}
