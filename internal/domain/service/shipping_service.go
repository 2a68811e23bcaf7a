package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lokapasar/pkg/logger"
)

type ShippingQuoteRequest struct {
	OriginCommunityID string
	DestAddress       string
	WeightGrams       int
}

type ShippingQuote struct {
	Carrier   string `json:"carrier"`
	CostCents int64  `json:"cost_cents"`
	Currency  string `json:"currency"`
	EtaDays   int    `json:"eta_days"`
}

type ShippingLabel struct {
	LabelURL       string `json:"label_url"`
	TrackingNumber string `json:"tracking_number"`
}

// ShippingService proxies the external carrier API: quote a delivery and
// create a label. Label generation correctness belongs to the carrier.
type ShippingService interface {
	Quote(ctx context.Context, req ShippingQuoteRequest) (*ShippingQuote, error)
	CreateLabel(ctx context.Context, orderID string, req ShippingQuoteRequest) (*ShippingLabel, error)
}

type carrierShippingService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewCarrierShippingService(apiKey, baseURL string) ShippingService {
	return &carrierShippingService{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *carrierShippingService) Quote(ctx context.Context, req ShippingQuoteRequest) (*ShippingQuote, error) {
	var quote ShippingQuote
	if err := s.post(ctx, "/quotes", map[string]interface{}{
		"origin_community": req.OriginCommunityID,
		"destination":      req.DestAddress,
		"weight_grams":     req.WeightGrams,
	}, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

func (s *carrierShippingService) CreateLabel(ctx context.Context, orderID string, req ShippingQuoteRequest) (*ShippingLabel, error) {
	var label ShippingLabel
	if err := s.post(ctx, "/labels", map[string]interface{}{
		"order_id":         orderID,
		"origin_community": req.OriginCommunityID,
		"destination":      req.DestAddress,
		"weight_grams":     req.WeightGrams,
	}, &label); err != nil {
		return nil, err
	}
	return &label, nil
}

func (s *carrierShippingService) post(ctx context.Context, path string, body map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build shipping request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("carrier unreachable: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read carrier response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("shipping: carrier returned %d: %s", resp.StatusCode, string(raw))
		return fmt.Errorf("carrier returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse carrier response: %v", err)
	}
	return nil
}

// SimplifiedShippingService fakes the carrier for development and tests.
type SimplifiedShippingService struct{}

func NewSimplifiedShippingService() *SimplifiedShippingService {
	return &SimplifiedShippingService{}
}

func (s *SimplifiedShippingService) Quote(ctx context.Context, req ShippingQuoteRequest) (*ShippingQuote, error) {
	return &ShippingQuote{
		Carrier:   "poslaju",
		CostCents: 800,
		Currency:  "MYR",
		EtaDays:   3,
	}, nil
}

func (s *SimplifiedShippingService) CreateLabel(ctx context.Context, orderID string, req ShippingQuoteRequest) (*ShippingLabel, error) {
	short := orderID
	if len(short) > 8 {
		short = short[:8]
	}
	return &ShippingLabel{
		LabelURL:       fmt.Sprintf("https://ship.example.com/labels/%s.pdf", orderID),
		TrackingNumber: fmt.Sprintf("TRK-%s", short),
	}, nil
}
