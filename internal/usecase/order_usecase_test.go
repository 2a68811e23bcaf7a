package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lokapasar/internal/domain/entity"
	"lokapasar/internal/domain/service"
	ws "lokapasar/internal/infrastructure/websocket"
)

type orderEnv struct {
	users    *fakeUserRepo
	products *fakeProductRepo
	orders   *fakeOrderRepo
	payouts  *fakePayoutRepo
	cartUC   *CartUseCase
	orderUC  *OrderUseCase
}

func newOrderEnv(payments service.PaymentGatewayService, users []*entity.User, products []*entity.Product) *orderEnv {
	userRepo := newFakeUserRepo(users...)
	productRepo := newFakeProductRepo(products...)
	orderRepo := newFakeOrderRepo()
	payoutRepo := newFakePayoutRepo()

	cartUC := NewCartUseCase(productRepo, nil)
	deliveryUC := NewDeliveryUseCase(userRepo, orderRepo)
	payoutUC := NewPayoutUseCase(payoutRepo, userRepo, payments)

	orderUC := NewOrderUseCase(
		orderRepo,
		productRepo,
		userRepo,
		cartUC,
		deliveryUC,
		payoutUC,
		payments,
		service.NewSimplifiedShippingService(),
		ws.NewManager(),
	)

	return &orderEnv{
		users:    userRepo,
		products: productRepo,
		orders:   orderRepo,
		payouts:  payoutRepo,
		cartUC:   cartUC,
		orderUC:  orderUC,
	}
}

func testBuyer(id, community string) *entity.User {
	return &entity.User{ID: id, Role: "buyer", Username: "aisyah", Email: id + "@example.com", CommunityID: community}
}

func testProduct(id, vendorID, community string, priceCents int64, stock int) *entity.Product {
	return &entity.Product{
		ID:          id,
		VendorID:    vendorID,
		CommunityID: community,
		Title:       "Nasi Lemak Bungkus",
		PriceCents:  priceCents,
		Currency:    "MYR",
		Status:      "active",
		Stock:       stock,
		AllowPickup: true,
	}
}

func TestCheckoutPickup(t *testing.T) {
	buyer := testBuyer("buyer-1", "taman-melati")
	product := testProduct("product-1", "vendor-1", "taman-melati", 450, 10)
	env := newOrderEnv(service.NewSimplifiedPaymentService(""), []*entity.User{buyer}, []*entity.Product{product})

	ctx := context.Background()
	_, err := env.cartUC.AddItem(ctx, "buyer-1", "product-1", 2)
	require.NoError(t, err)

	result, err := env.orderUC.Checkout(ctx, "buyer-1", CheckoutInput{})
	require.NoError(t, err)

	order := result.Order
	assert.Equal(t, "paid", order.Status)
	assert.Equal(t, "pickup", order.DeliveryMethod)
	assert.EqualValues(t, 900, order.SubtotalCents)
	assert.EqualValues(t, 0, order.DeliveryCents)
	assert.EqualValues(t, 900, order.TotalCents)
	assert.Equal(t, "MYR", order.Currency)
	assert.Equal(t, "vendor-1", order.VendorID)

	// Stock moved and the cart is empty for the next purchase.
	updated, err := env.products.GetByID(ctx, "product-1")
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Stock)
	assert.Equal(t, 2, updated.SoldCount)
	assert.Equal(t, 0, env.cartUC.GetCart(ctx, "buyer-1").Count)
}

func TestCheckoutEmptyCart(t *testing.T) {
	buyer := testBuyer("buyer-1", "taman-melati")
	env := newOrderEnv(service.NewSimplifiedPaymentService(""), []*entity.User{buyer}, nil)

	_, err := env.orderUC.Checkout(context.Background(), "buyer-1", CheckoutInput{})

	assert.Error(t, err)
}

func TestCheckoutRejectsStaleStock(t *testing.T) {
	buyer := testBuyer("buyer-1", "taman-melati")
	product := testProduct("product-1", "vendor-1", "taman-melati", 450, 5)
	env := newOrderEnv(service.NewSimplifiedPaymentService(""), []*entity.User{buyer}, []*entity.Product{product})

	ctx := context.Background()
	_, err := env.cartUC.AddItem(ctx, "buyer-1", "product-1", 3)
	require.NoError(t, err)

	// Someone else bought most of the stock after the cart was filled.
	stale, err := env.products.GetByID(ctx, "product-1")
	require.NoError(t, err)
	stale.Stock = 1
	require.NoError(t, env.products.Update(ctx, stale))

	_, err = env.orderUC.Checkout(ctx, "buyer-1", CheckoutInput{})

	assert.Error(t, err)
}

func TestCheckoutShippingAddsDeliveryFee(t *testing.T) {
	buyer := testBuyer("buyer-1", "taman-melati")
	product := testProduct("product-1", "vendor-1", "kg-baru", 2500, 10)
	product.AllowPickup = false
	product.AllowShipping = true
	env := newOrderEnv(service.NewSimplifiedPaymentService(""), []*entity.User{buyer}, []*entity.Product{product})

	ctx := context.Background()
	_, err := env.cartUC.AddItem(ctx, "buyer-1", "product-1", 1)
	require.NoError(t, err)

	result, err := env.orderUC.Checkout(ctx, "buyer-1", CheckoutInput{DeliveryAddress: "12 Jalan Ipoh"})
	require.NoError(t, err)

	order := result.Order
	assert.Equal(t, "shipping", order.DeliveryMethod)
	assert.EqualValues(t, 800, order.DeliveryCents)
	assert.EqualValues(t, 3300, order.TotalCents)
	assert.NotEmpty(t, order.TrackingNumber)
	assert.NotEmpty(t, order.ShippingLabelURL)
}

func TestCheckoutPaymentFailureKeepsCart(t *testing.T) {
	buyer := testBuyer("buyer-1", "taman-melati")
	product := testProduct("product-1", "vendor-1", "taman-melati", 450, 10)
	env := newOrderEnv(&failingPaymentService{}, []*entity.User{buyer}, []*entity.Product{product})

	ctx := context.Background()
	_, err := env.cartUC.AddItem(ctx, "buyer-1", "product-1", 2)
	require.NoError(t, err)

	_, err = env.orderUC.Checkout(ctx, "buyer-1", CheckoutInput{})
	require.Error(t, err)

	// The order stays pending and the cart survives for a retry.
	orders, total, err := env.orders.ListByBuyer(ctx, "buyer-1", 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "pending", orders[0].Status)
	assert.Equal(t, 2, env.cartUC.GetCart(ctx, "buyer-1").Count)
}

func TestCompleteOrderAccruesVendorBalance(t *testing.T) {
	buyer := testBuyer("buyer-1", "taman-melati")
	env := newOrderEnv(service.NewSimplifiedPaymentService(""), []*entity.User{buyer}, nil)

	ctx := context.Background()
	order := &entity.Order{
		ID:         "order-1",
		BuyerID:    "buyer-1",
		VendorID:   "vendor-1",
		TotalCents: 10000,
		Currency:   "MYR",
		Status:     "delivering",
	}
	require.NoError(t, env.orders.Create(ctx, order))

	completed, err := env.orderUC.CompleteOrder(ctx, "buyer-1", "order-1")
	require.NoError(t, err)

	assert.Equal(t, "completed", completed.Status)
	assert.True(t, completed.PaidOut)
	require.NotNil(t, completed.CompletedAt)

	// 5% platform fee withheld.
	balance, err := env.payouts.GetBalance(ctx, "vendor-1")
	require.NoError(t, err)
	assert.EqualValues(t, 9500, balance.BalanceCents)

	// A second confirmation cannot accrue twice.
	_, err = env.orderUC.CompleteOrder(ctx, "buyer-1", "order-1")
	require.Error(t, err)
	balance, err = env.payouts.GetBalance(ctx, "vendor-1")
	require.NoError(t, err)
	assert.EqualValues(t, 9500, balance.BalanceCents)
}

func TestCompleteOrderOnlyBuyer(t *testing.T) {
	buyer := testBuyer("buyer-1", "taman-melati")
	env := newOrderEnv(service.NewSimplifiedPaymentService(""), []*entity.User{buyer}, nil)

	ctx := context.Background()
	order := &entity.Order{ID: "order-1", BuyerID: "buyer-1", VendorID: "vendor-1", Status: "paid"}
	require.NoError(t, env.orders.Create(ctx, order))

	_, err := env.orderUC.CompleteOrder(ctx, "vendor-1", "order-1")

	assert.Error(t, err)
}

func TestMarkDelivering(t *testing.T) {
	buyer := testBuyer("buyer-1", "taman-melati")
	env := newOrderEnv(service.NewSimplifiedPaymentService(""), []*entity.User{buyer}, nil)

	ctx := context.Background()
	order := &entity.Order{ID: "order-1", BuyerID: "buyer-1", VendorID: "vendor-1", RiderID: "rider-1", Status: "paid"}
	require.NoError(t, env.orders.Create(ctx, order))

	_, err := env.orderUC.MarkDelivering(ctx, "buyer-1", "order-1")
	assert.Error(t, err)

	updated, err := env.orderUC.MarkDelivering(ctx, "rider-1", "order-1")
	require.NoError(t, err)
	assert.Equal(t, "delivering", updated.Status)

	// Already delivering; the transition is one way.
	_, err = env.orderUC.MarkDelivering(ctx, "vendor-1", "order-1")
	assert.Error(t, err)
}

func TestHandlePaymentCallback(t *testing.T) {
	buyer := testBuyer("buyer-1", "taman-melati")
	env := newOrderEnv(service.NewSimplifiedPaymentService(""), []*entity.User{buyer}, nil)

	ctx := context.Background()
	require.NoError(t, env.orders.Create(ctx, &entity.Order{ID: "order-1", BuyerID: "buyer-1", Status: "pending"}))
	require.NoError(t, env.orders.Create(ctx, &entity.Order{ID: "order-2", BuyerID: "buyer-1", Status: "pending"}))

	err := env.orderUC.HandlePaymentCallback(ctx, map[string]interface{}{
		"order_id":           "order-1",
		"transaction_status": "settled",
	})
	require.NoError(t, err)

	order, err := env.orders.GetByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, "paid", order.Status)

	err = env.orderUC.HandlePaymentCallback(ctx, map[string]interface{}{
		"order_id":           "order-2",
		"transaction_status": "expired",
	})
	require.NoError(t, err)

	order, err = env.orders.GetByID(ctx, "order-2")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", order.Status)
}

func TestGetOrderPartyCheck(t *testing.T) {
	buyer := testBuyer("buyer-1", "taman-melati")
	env := newOrderEnv(service.NewSimplifiedPaymentService(""), []*entity.User{buyer}, nil)

	ctx := context.Background()
	require.NoError(t, env.orders.Create(ctx, &entity.Order{ID: "order-1", BuyerID: "buyer-1", VendorID: "vendor-1", Status: "paid"}))

	_, err := env.orderUC.GetOrder(ctx, "someone-else", "order-1")
	assert.Error(t, err)

	order, err := env.orderUC.GetOrder(ctx, "vendor-1", "order-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
}
