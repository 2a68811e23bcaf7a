package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lokapasar/pkg/logger"
)

// GatewayPaymentService talks to the hosted payment provider over HTTP.
type GatewayPaymentService struct {
	serverKey    string
	clientKey    string
	isProduction bool
	baseURL      string
	httpClient   *http.Client
}

func NewGatewayPaymentService(serverKey, clientKey string, isProduction bool) *GatewayPaymentService {
	baseURL := "https://pay.sandbox.example.com/v1"
	if isProduction {
		baseURL = "https://pay.example.com/v1"
	}

	return &GatewayPaymentService{
		serverKey:    serverKey,
		clientKey:    clientKey,
		isProduction: isProduction,
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

type gatewayChargeRequest struct {
	OrderID     string              `json:"order_id"`
	AmountCents int64               `json:"amount_cents"`
	Currency    string              `json:"currency"`
	Customer    gatewayCustomer     `json:"customer"`
	Items       []gatewayItemDetail `json:"items"`
}

type gatewayCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type gatewayItemDetail struct {
	ID         string `json:"id"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
	Name       string `json:"name"`
}

type gatewayChargeResponse struct {
	Reference   string `json:"reference"`
	RedirectURL string `json:"redirect_url"`
	OrderID     string `json:"order_id"`
	Status      string `json:"status"`
}

func (g *GatewayPaymentService) CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error) {
	items := make([]gatewayItemDetail, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, gatewayItemDetail{
			ID:         item.ID,
			PriceCents: item.PriceCents,
			Quantity:   item.Quantity,
			Name:       item.Name,
		})
	}

	body, err := json.Marshal(gatewayChargeRequest{
		OrderID:     req.OrderID,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Customer: gatewayCustomer{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		Items: items,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal charge request: %v", err)
	}

	return g.do(ctx, http.MethodPost, "/charges", bytes.NewReader(body))
}

func (g *GatewayPaymentService) GetPaymentStatus(ctx context.Context, orderID string) (*PaymentResponse, error) {
	return g.do(ctx, http.MethodGet, "/charges/"+orderID, nil)
}

func (g *GatewayPaymentService) HandleCallback(ctx context.Context, notification map[string]interface{}) (*PaymentResponse, error) {
	orderID, _ := notification["order_id"].(string)
	if orderID == "" {
		return nil, fmt.Errorf("callback missing order_id")
	}

	// Never trust the notification body alone; confirm with the provider.
	return g.GetPaymentStatus(ctx, orderID)
}

func (g *GatewayPaymentService) do(ctx context.Context, method, path string, body io.Reader) (*PaymentResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %v", err)
	}

	auth := base64.StdEncoding.EncodeToString([]byte(g.serverKey + ":"))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment provider unreachable: %v", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("payment: provider returned %d: %s", resp.StatusCode, string(payload))
		return nil, fmt.Errorf("payment provider returned status %d", resp.StatusCode)
	}

	var charge gatewayChargeResponse
	if err := json.Unmarshal(payload, &charge); err != nil {
		return nil, fmt.Errorf("failed to parse payment response: %v", err)
	}

	return &PaymentResponse{
		Reference:   charge.Reference,
		RedirectURL: charge.RedirectURL,
		OrderID:     charge.OrderID,
		Status:      charge.Status,
	}, nil
}
