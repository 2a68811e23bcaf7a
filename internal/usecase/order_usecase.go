package usecase

import (
	"context"
	"time"

	"lokapasar/internal/domain/entity"
	"lokapasar/internal/domain/repository"
	"lokapasar/internal/domain/service"
	"lokapasar/internal/infrastructure/ratelimit"
	ws "lokapasar/internal/infrastructure/websocket"
	"lokapasar/pkg/errors"
	"lokapasar/pkg/logger"
)

// Platform fee withheld from vendor payout accrual, in percent.
const platformFeePercent = 5

type OrderUseCase struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	cartUC      *CartUseCase
	deliveryUC  *DeliveryUseCase
	payoutUC    *PayoutUseCase
	payments    service.PaymentGatewayService
	shipping    service.ShippingService
	wsManager   *ws.Manager
	rateLimiter *ratelimit.RateLimiter
}

func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	cartUC *CartUseCase,
	deliveryUC *DeliveryUseCase,
	payoutUC *PayoutUseCase,
	payments service.PaymentGatewayService,
	shipping service.ShippingService,
	wsManager *ws.Manager,
) *OrderUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &OrderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		cartUC:      cartUC,
		deliveryUC:  deliveryUC,
		payoutUC:    payoutUC,
		payments:    payments,
		shipping:    shipping,
		wsManager:   wsManager,
		rateLimiter: rateLimiter,
	}
}

type CheckoutInput struct {
	PreferredDelivery string // "pickup", "rider", "shipping" or empty
	DeliveryAddress   string
}

type CheckoutResult struct {
	Order       *entity.Order `json:"order"`
	RedirectURL string        `json:"redirect_url,omitempty"`
}

// Checkout turns the buyer's cart into a pending order, requests payment,
// and clears the cart once the charge is accepted. The cart guarantees a
// single vendor and currency, which keeps the order model one-vendor.
func (uc *OrderUseCase) Checkout(ctx context.Context, buyerID string, input CheckoutInput) (*CheckoutResult, error) {
	if allowed, _ := uc.rateLimiter.Allow(buyerID, "checkout"); !allowed {
		return nil, errors.TooManyRequests("Too many checkout attempts. Please wait a moment")
	}

	store := uc.cartUC.Store(ctx, buyerID)
	items := store.Items()
	if len(items) == 0 {
		return nil, errors.BadRequest("Cart is empty", nil)
	}

	buyer, err := uc.userRepo.GetByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	// Revalidate availability; the cart may be stale.
	options := FulfilmentOptions{AllowPickup: true, AllowRider: true, AllowShipping: true}
	for _, item := range items {
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Status != "active" || product.DeletedAt != nil {
			return nil, errors.BadRequest("Product "+product.Title+" is no longer available", nil)
		}
		if product.Stock < item.Quantity {
			return nil, errors.BadRequest("Not enough stock for "+product.Title, nil)
		}
		options.AllowPickup = options.AllowPickup && product.AllowPickup
		options.AllowRider = options.AllowRider && product.AllowRider
		options.AllowShipping = options.AllowShipping && product.AllowShipping
	}

	method, riderID, err := uc.deliveryUC.DecideMethod(ctx, buyer, store.CommunityID(), options, input.PreferredDelivery)
	if err != nil {
		return nil, err
	}

	var deliveryCents int64
	if method == "shipping" {
		quote, err := uc.shipping.Quote(ctx, service.ShippingQuoteRequest{
			OriginCommunityID: store.CommunityID(),
			DestAddress:       input.DeliveryAddress,
			WeightGrams:       500 * store.Count(),
		})
		if err != nil {
			return nil, errors.Internal("Failed to get shipping quote", err)
		}
		deliveryCents = quote.CostCents
	}

	lines := make([]entity.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, entity.OrderLine{
			ProductID:      item.ProductID,
			Name:           item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
		})
	}

	subtotal := store.SubtotalCents()
	order := &entity.Order{
		BuyerID:        buyerID,
		VendorID:       store.VendorID(),
		CommunityID:    store.CommunityID(),
		Lines:          lines,
		SubtotalCents:  subtotal,
		DeliveryCents:  deliveryCents,
		TotalCents:     subtotal + deliveryCents,
		Currency:       store.Currency(),
		Status:         "pending",
		DeliveryMethod: method,
		RiderID:        riderID,
		PaymentStatus:  "pending",
	}

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	paymentItems := make([]service.ItemDetail, 0, len(items))
	for _, item := range items {
		paymentItems = append(paymentItems, service.ItemDetail{
			ID:         item.ProductID,
			PriceCents: item.UnitPriceCents,
			Quantity:   item.Quantity,
			Name:       item.Name,
		})
	}

	payment, err := uc.payments.CreatePayment(ctx, service.PaymentRequest{
		OrderID:     order.ID,
		AmountCents: order.TotalCents,
		Currency:    order.Currency,
		Customer: service.CustomerDetails{
			Name:  buyer.Username,
			Email: buyer.Email,
			Phone: buyer.Phone,
		},
		Items: paymentItems,
	})
	if err != nil {
		// The order stays pending; the buyer can retry payment.
		logger.Warn("checkout: payment request failed for order %s: %v", order.ID, err)
		return nil, errors.Internal("Failed to start payment", err)
	}

	order.PaymentReference = payment.Reference
	order.PaymentStatus = payment.Status
	if payment.Status == "settled" {
		if err := uc.markPaid(ctx, order); err != nil {
			return nil, err
		}
	} else if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	store.Clear(ctx)

	return &CheckoutResult{Order: order, RedirectURL: payment.RedirectURL}, nil
}

// markPaid transitions a pending order once its charge settles: stock is
// decremented, a shipping label is created when needed, and the vendor is
// notified.
func (uc *OrderUseCase) markPaid(ctx context.Context, order *entity.Order) error {
	order.Status = "paid"
	order.PaymentStatus = "settled"

	for _, line := range order.Lines {
		product, err := uc.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			logger.Warn("order %s: stock update skipped for %s: %v", order.ID, line.ProductID, err)
			continue
		}
		product.Stock -= line.Quantity
		product.SoldCount += line.Quantity
		if product.Stock <= 0 {
			product.Stock = 0
			product.Status = "sold_out"
		}
		if err := uc.productRepo.Update(ctx, product); err != nil {
			logger.Warn("order %s: stock update failed for %s: %v", order.ID, line.ProductID, err)
		}
	}

	if order.DeliveryMethod == "shipping" {
		label, err := uc.shipping.CreateLabel(ctx, order.ID, service.ShippingQuoteRequest{
			OriginCommunityID: order.CommunityID,
		})
		if err != nil {
			// Vendor can regenerate the label later; the order is paid.
			logger.Warn("order %s: label creation failed: %v", order.ID, err)
		} else {
			order.ShippingLabelURL = label.LabelURL
			order.TrackingNumber = label.TrackingNumber
		}
	}

	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return err
	}

	uc.wsManager.PushToUser(order.VendorID, ws.Push{Type: "order_status", Payload: order})
	if order.RiderID != "" {
		uc.wsManager.PushToUser(order.RiderID, ws.Push{Type: "order_status", Payload: order})
	}

	return nil
}

// HandlePaymentCallback is the provider webhook: confirm status with the
// gateway and advance the order.
func (uc *OrderUseCase) HandlePaymentCallback(ctx context.Context, notification map[string]interface{}) error {
	payment, err := uc.payments.HandleCallback(ctx, notification)
	if err != nil {
		return errors.BadRequest("Invalid payment notification", err)
	}

	order, err := uc.orderRepo.GetByID(ctx, payment.OrderID)
	if err != nil {
		return err
	}

	switch payment.Status {
	case "settled":
		if order.Status == "pending" {
			return uc.markPaid(ctx, order)
		}
	case "failed", "expired":
		order.Status = "cancelled"
		order.PaymentStatus = payment.Status
		return uc.orderRepo.Update(ctx, order)
	}

	return nil
}

// MarkDelivering is the vendor or rider starting the delivery leg.
func (uc *OrderUseCase) MarkDelivering(ctx context.Context, actorID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actorID != order.VendorID && actorID != order.RiderID {
		return nil, errors.Forbidden("Only the vendor or assigned rider can update delivery", nil)
	}
	if order.Status != "paid" {
		return nil, errors.BadRequest("Order is not ready for delivery", nil)
	}

	order.Status = "delivering"
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	uc.wsManager.PushToUser(order.BuyerID, ws.Push{Type: "order_status", Payload: order})
	return order, nil
}

// CompleteOrder is the buyer confirming receipt. Completion accrues the
// vendor's payout balance, minus the platform fee.
func (uc *OrderUseCase) CompleteOrder(ctx context.Context, buyerID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, errors.Forbidden("Only the buyer can complete an order", nil)
	}
	if order.Status != "paid" && order.Status != "delivering" {
		return nil, errors.BadRequest("Order cannot be completed from its current status", nil)
	}

	now := time.Now()
	order.Status = "completed"
	order.CompletedAt = &now

	if !order.PaidOut {
		fee := order.TotalCents * platformFeePercent / 100
		if err := uc.payoutUC.AccrueFromOrder(ctx, order.VendorID, order.Currency, order.TotalCents-fee); err != nil {
			return nil, err
		}
		order.PaidOut = true
	}

	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	uc.wsManager.PushToUser(order.VendorID, ws.Push{Type: "order_status", Payload: order})
	return order, nil
}

func (uc *OrderUseCase) GetOrder(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if userID != order.BuyerID && userID != order.VendorID && userID != order.RiderID {
		return nil, errors.Forbidden("You are not a party to this order", nil)
	}
	return order, nil
}

func (uc *OrderUseCase) ListOrders(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, int64, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	switch user.Role {
	case "vendor":
		return uc.orderRepo.ListByVendor(ctx, userID, limit, offset)
	case "rider":
		return uc.orderRepo.ListByRider(ctx, userID, limit, offset)
	default:
		return uc.orderRepo.ListByBuyer(ctx, userID, limit, offset)
	}
}
