package usecase

import (
	"context"

	"lokapasar/internal/domain/entity"
	"lokapasar/internal/domain/repository"
	"lokapasar/pkg/errors"
	"lokapasar/pkg/logger"
)

type ReviewUseCase struct {
	reviewRepo repository.ReviewRepository
	orderRepo  repository.OrderRepository
	userRepo   repository.UserRepository
}

func NewReviewUseCase(reviewRepo repository.ReviewRepository, orderRepo repository.OrderRepository, userRepo repository.UserRepository) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo: reviewRepo,
		orderRepo:  orderRepo,
		userRepo:   userRepo,
	}
}

type CreateReviewInput struct {
	OrderID string
	Rating  int
	Content string
	Images  []string
}

func (uc *ReviewUseCase) CreateReview(ctx context.Context, reviewerID string, input CreateReviewInput) (*entity.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.BadRequest("Rating must be between 1 and 5", nil)
	}

	order, err := uc.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != reviewerID {
		return nil, errors.Forbidden("Only the buyer can review this order", nil)
	}
	if order.Status != "completed" {
		return nil, errors.BadRequest("Only completed orders can be reviewed", nil)
	}
	if order.BuyerReviewed {
		return nil, errors.Conflict("Order has already been reviewed")
	}

	productID := ""
	if len(order.Lines) > 0 {
		productID = order.Lines[0].ProductID
	}

	review := &entity.Review{
		OrderID:    order.ID,
		ProductID:  productID,
		ReviewerID: reviewerID,
		VendorID:   order.VendorID,
		Rating:     input.Rating,
		Content:    input.Content,
		Images:     input.Images,
		Status:     "active",
	}

	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	order.BuyerReviewed = true
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		logger.Warn("review: failed to mark order %s reviewed: %v", order.ID, err)
	}

	uc.updateVendorAggregate(ctx, order.VendorID, input.Rating)

	return review, nil
}

// updateVendorAggregate folds one new rating into the vendor's running
// average. Best-effort: a failure leaves the aggregate slightly stale.
func (uc *ReviewUseCase) updateVendorAggregate(ctx context.Context, vendorID string, rating int) {
	vendor, err := uc.userRepo.GetByID(ctx, vendorID)
	if err != nil {
		logger.Warn("review: aggregate update skipped for vendor %s: %v", vendorID, err)
		return
	}

	total := vendor.VendorRating*float64(vendor.VendorReviewCount) + float64(rating)
	vendor.VendorReviewCount++
	vendor.VendorRating = total / float64(vendor.VendorReviewCount)

	if err := uc.userRepo.Update(ctx, vendor); err != nil {
		logger.Warn("review: aggregate update failed for vendor %s: %v", vendorID, err)
	}
}

func (uc *ReviewUseCase) ListVendorReviews(ctx context.Context, vendorID string, limit, offset int) ([]*entity.Review, int64, error) {
	return uc.reviewRepo.ListByVendor(ctx, vendorID, limit, offset)
}

func (uc *ReviewUseCase) ListProductReviews(ctx context.Context, productID string, limit, offset int) ([]*entity.Review, int64, error) {
	return uc.reviewRepo.ListByProduct(ctx, productID, limit, offset)
}
