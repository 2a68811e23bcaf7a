package usecase

import (
	"context"

	"lokapasar/internal/domain/entity"
	"lokapasar/internal/domain/repository"
	"lokapasar/pkg/errors"
	"lokapasar/pkg/logger"
)

// DeliveryUseCase decides how an order reaches the buyer and tracks the
// rider's side of fulfilment.
type DeliveryUseCase struct {
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
}

func NewDeliveryUseCase(userRepo repository.UserRepository, orderRepo repository.OrderRepository) *DeliveryUseCase {
	return &DeliveryUseCase{
		userRepo:  userRepo,
		orderRepo: orderRepo,
	}
}

type FulfilmentOptions struct {
	AllowPickup   bool
	AllowRider    bool
	AllowShipping bool
}

// DecideMethod picks the delivery method for an order. The buyer's
// preference wins when the vendor offers it; otherwise: pickup when buyer
// and vendor share a community, rider delivery when an available rider
// serves the community, carrier shipping as the fallback. Returns the
// method and, for rider delivery, the chosen rider id.
func (uc *DeliveryUseCase) DecideMethod(ctx context.Context, buyer *entity.User, communityID string, options FulfilmentOptions, preferred string) (string, string, error) {
	sameCommunity := buyer.CommunityID == communityID

	if preferred != "" {
		switch preferred {
		case "pickup":
			if options.AllowPickup && sameCommunity {
				return "pickup", "", nil
			}
		case "rider":
			if options.AllowRider {
				if riderID := uc.pickRider(ctx, communityID); riderID != "" {
					return "rider", riderID, nil
				}
			}
		case "shipping":
			if options.AllowShipping {
				return "shipping", "", nil
			}
		default:
			return "", "", errors.BadRequest("Unknown delivery method", nil)
		}
		logger.Debug("delivery: preferred method %q unavailable, falling through", preferred)
	}

	if options.AllowPickup && sameCommunity {
		return "pickup", "", nil
	}

	if options.AllowRider {
		if riderID := uc.pickRider(ctx, communityID); riderID != "" {
			return "rider", riderID, nil
		}
	}

	if options.AllowShipping {
		return "shipping", "", nil
	}

	return "", "", errors.BadRequest("No delivery method available for this order", nil)
}

// pickRider returns an available rider serving the community, "" if none.
func (uc *DeliveryUseCase) pickRider(ctx context.Context, communityID string) string {
	riders, err := uc.userRepo.ListRidersByCommunity(ctx, communityID)
	if err != nil {
		logger.Warn("delivery: rider lookup failed for community %s: %v", communityID, err)
		return ""
	}
	if len(riders) == 0 {
		return ""
	}
	return riders[0].ID
}

func (uc *DeliveryUseCase) ListAssignments(ctx context.Context, riderID string, limit, offset int) ([]*entity.Order, int64, error) {
	rider, err := uc.userRepo.GetByID(ctx, riderID)
	if err != nil {
		return nil, 0, err
	}
	if rider.Role != "rider" {
		return nil, 0, errors.Forbidden("Only riders have delivery assignments", nil)
	}

	return uc.orderRepo.ListByRider(ctx, riderID, limit, offset)
}
