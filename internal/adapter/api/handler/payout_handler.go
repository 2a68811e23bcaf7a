package handler

import (
	"github.com/labstack/echo/v4"

	"lokapasar/internal/usecase"
	"lokapasar/pkg/errors"
	"lokapasar/pkg/response"
	"lokapasar/pkg/utils"
)

type PayoutHandler struct {
	payoutUseCase *usecase.PayoutUseCase
}

func NewPayoutHandler(payoutUseCase *usecase.PayoutUseCase) *PayoutHandler {
	return &PayoutHandler{
		payoutUseCase: payoutUseCase,
	}
}

func (h *PayoutHandler) GetBalance(c echo.Context) error {
	vendorID := c.Get("uid").(string)

	balance, err := h.payoutUseCase.GetBalance(c.Request().Context(), vendorID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, balance)
}

type requestPayoutRequest struct {
	AmountCents   int64  `json:"amount_cents" validate:"required,gt=0"`
	BankName      string `json:"bank_name" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required"`
	AccountName   string `json:"account_name" validate:"required"`
}

func (h *PayoutHandler) RequestPayout(c echo.Context) error {
	var req requestPayoutRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	vendorID := c.Get("uid").(string)

	payout, err := h.payoutUseCase.RequestPayout(c.Request().Context(), vendorID, usecase.RequestPayoutInput{
		AmountCents:   req.AmountCents,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, payout)
}

func (h *PayoutHandler) ListPayouts(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	vendorID := c.Get("uid").(string)

	payouts, total, err := h.payoutUseCase.ListPayouts(c.Request().Context(), vendorID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, payouts, total, pagination.Page, pagination.PageSize)
}
