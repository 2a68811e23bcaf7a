package service

import (
	"context"
	"fmt"
	"time"

	"lokapasar/pkg/logger"
)

// PaymentRequest is a charge against the external payment provider for
// one order. Amounts are integer cents; correctness of the charge itself
// is the provider's concern.
type PaymentRequest struct {
	OrderID     string
	AmountCents int64
	Currency    string
	Customer    CustomerDetails
	Items       []ItemDetail
}

type CustomerDetails struct {
	Name  string
	Email string
	Phone string
}

type ItemDetail struct {
	ID         string
	PriceCents int64
	Quantity   int
	Name       string
}

type PaymentResponse struct {
	Reference   string
	RedirectURL string
	OrderID     string
	Status      string // "pending", "settled", "failed", "expired"
}

// PaymentGatewayService is the boundary to the hosted payment function:
// a thin request/response proxy, no payment logic of our own.
type PaymentGatewayService interface {
	CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error)
	GetPaymentStatus(ctx context.Context, orderID string) (*PaymentResponse, error)
	HandleCallback(ctx context.Context, notification map[string]interface{}) (*PaymentResponse, error)
}

// SimplifiedPaymentService simulates the provider for development and
// tests: every charge settles immediately.
type SimplifiedPaymentService struct {
	serverKey string
}

func NewSimplifiedPaymentService(serverKey string) *SimplifiedPaymentService {
	return &SimplifiedPaymentService{serverKey: serverKey}
}

func (s *SimplifiedPaymentService) CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error) {
	logger.Info("payment: simulating charge for order %s, amount %d %s", req.OrderID, req.AmountCents, req.Currency)

	return &PaymentResponse{
		Reference:   fmt.Sprintf("sim-%s-%d", req.OrderID, time.Now().Unix()),
		RedirectURL: fmt.Sprintf("https://pay.example.com/checkout/%s", req.OrderID),
		OrderID:     req.OrderID,
		Status:      "settled",
	}, nil
}

func (s *SimplifiedPaymentService) GetPaymentStatus(ctx context.Context, orderID string) (*PaymentResponse, error) {
	return &PaymentResponse{
		OrderID: orderID,
		Status:  "settled",
	}, nil
}

func (s *SimplifiedPaymentService) HandleCallback(ctx context.Context, notification map[string]interface{}) (*PaymentResponse, error) {
	orderID, _ := notification["order_id"].(string)
	if orderID == "" {
		return nil, fmt.Errorf("callback missing order_id")
	}

	paymentStatus, _ := notification["transaction_status"].(string)
	if paymentStatus == "" {
		paymentStatus = "settled"
	}

	return &PaymentResponse{
		OrderID: orderID,
		Status:  paymentStatus,
	}, nil
}
