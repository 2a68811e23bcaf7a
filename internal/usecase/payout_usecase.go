package usecase

import (
	"context"
	"time"

	"lokapasar/internal/domain/entity"
	"lokapasar/internal/domain/repository"
	"lokapasar/internal/domain/service"
	"lokapasar/pkg/errors"
	"lokapasar/pkg/logger"
)

const minPayoutCents = 1000

type PayoutUseCase struct {
	payoutRepo repository.PayoutRepository
	userRepo   repository.UserRepository
	payments   service.PaymentGatewayService
}

func NewPayoutUseCase(payoutRepo repository.PayoutRepository, userRepo repository.UserRepository, payments service.PaymentGatewayService) *PayoutUseCase {
	return &PayoutUseCase{
		payoutRepo: payoutRepo,
		userRepo:   userRepo,
		payments:   payments,
	}
}

// AccrueFromOrder credits a completed order's proceeds to the vendor.
func (uc *PayoutUseCase) AccrueFromOrder(ctx context.Context, vendorID, currency string, amountCents int64) error {
	_, err := uc.payoutRepo.AdjustBalance(ctx, vendorID, currency, amountCents)
	return err
}

func (uc *PayoutUseCase) GetBalance(ctx context.Context, vendorID string) (*entity.VendorBalance, error) {
	balance, err := uc.payoutRepo.GetBalance(ctx, vendorID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return &entity.VendorBalance{VendorID: vendorID, BalanceCents: 0}, nil
		}
		return nil, err
	}
	return balance, nil
}

type RequestPayoutInput struct {
	AmountCents   int64
	BankName      string
	AccountNumber string
	AccountName   string
}

// RequestPayout debits the vendor balance and hands the disbursement to
// the payment provider. The debit happens first, inside a transaction, so
// two concurrent requests cannot both drain the same balance; a provider
// failure refunds it.
func (uc *PayoutUseCase) RequestPayout(ctx context.Context, vendorID string, input RequestPayoutInput) (*entity.Payout, error) {
	vendor, err := uc.userRepo.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor.Role != "vendor" {
		return nil, errors.Forbidden("Only vendors can request payouts", nil)
	}

	if input.AmountCents < minPayoutCents {
		return nil, errors.BadRequest("Payout amount is below the minimum", nil)
	}

	balance, err := uc.payoutRepo.AdjustBalance(ctx, vendorID, "", -input.AmountCents)
	if err != nil {
		return nil, err
	}

	payout := &entity.Payout{
		VendorID:      vendorID,
		AmountCents:   input.AmountCents,
		Currency:      balance.Currency,
		Status:        "requested",
		BankName:      input.BankName,
		AccountNumber: input.AccountNumber,
		AccountName:   input.AccountName,
	}

	if err := uc.payoutRepo.CreatePayout(ctx, payout); err != nil {
		// Refund the held amount; the payout record never existed.
		if _, refundErr := uc.payoutRepo.AdjustBalance(ctx, vendorID, balance.Currency, input.AmountCents); refundErr != nil {
			logger.Error("payout: failed to refund balance for %s after create failure: %v", vendorID, refundErr)
		}
		return nil, err
	}

	payment, err := uc.payments.CreatePayment(ctx, service.PaymentRequest{
		OrderID:     "payout-" + payout.ID,
		AmountCents: input.AmountCents,
		Currency:    payout.Currency,
		Customer: service.CustomerDetails{
			Name:  input.AccountName,
			Email: vendor.Email,
		},
	})
	if err != nil {
		logger.Warn("payout %s: disbursement failed: %v", payout.ID, err)
		payout.Status = "failed"
		if updateErr := uc.payoutRepo.UpdatePayout(ctx, payout); updateErr != nil {
			logger.Error("payout %s: failed to record failure: %v", payout.ID, updateErr)
		}
		if _, refundErr := uc.payoutRepo.AdjustBalance(ctx, vendorID, payout.Currency, input.AmountCents); refundErr != nil {
			logger.Error("payout %s: failed to refund balance: %v", payout.ID, refundErr)
		}
		return nil, errors.Internal("Payout could not be processed", err)
	}

	now := time.Now()
	payout.Reference = payment.Reference
	payout.Status = "processing"
	if payment.Status == "settled" {
		payout.Status = "paid"
		payout.ProcessedAt = &now
	}

	if err := uc.payoutRepo.UpdatePayout(ctx, payout); err != nil {
		return nil, err
	}

	return payout, nil
}

func (uc *PayoutUseCase) ListPayouts(ctx context.Context, vendorID string, limit, offset int) ([]*entity.Payout, int64, error) {
	return uc.payoutRepo.ListPayoutsByVendor(ctx, vendorID, limit, offset)
}
