package handler

import (
	"github.com/labstack/echo/v4"

	"lokapasar/internal/usecase"
	"lokapasar/pkg/errors"
	"lokapasar/pkg/response"
	"lokapasar/pkg/utils"
)

type OrderHandler struct {
	orderUseCase    *usecase.OrderUseCase
	deliveryUseCase *usecase.DeliveryUseCase
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase, deliveryUseCase *usecase.DeliveryUseCase) *OrderHandler {
	return &OrderHandler{
		orderUseCase:    orderUseCase,
		deliveryUseCase: deliveryUseCase,
	}
}

type checkoutRequest struct {
	PreferredDelivery string `json:"preferred_delivery,omitempty" validate:"omitempty,oneof=pickup rider shipping"`
	DeliveryAddress   string `json:"delivery_address,omitempty"`
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	buyerID := c.Get("uid").(string)

	result, err := h.orderUseCase.Checkout(c.Request().Context(), buyerID, usecase.CheckoutInput{
		PreferredDelivery: req.PreferredDelivery,
		DeliveryAddress:   req.DeliveryAddress,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, result)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	orderID := c.Param("id")
	if orderID == "" {
		return response.Error(c, errors.BadRequest("Order ID is required", nil))
	}

	userID := c.Get("uid").(string)

	order, err := h.orderUseCase.GetOrder(c.Request().Context(), userID, orderID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	userID := c.Get("uid").(string)

	orders, total, err := h.orderUseCase.ListOrders(c.Request().Context(), userID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, orders, total, pagination.Page, pagination.PageSize)
}

func (h *OrderHandler) MarkDelivering(c echo.Context) error {
	orderID := c.Param("id")
	if orderID == "" {
		return response.Error(c, errors.BadRequest("Order ID is required", nil))
	}

	userID := c.Get("uid").(string)

	order, err := h.orderUseCase.MarkDelivering(c.Request().Context(), userID, orderID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *OrderHandler) CompleteOrder(c echo.Context) error {
	orderID := c.Param("id")
	if orderID == "" {
		return response.Error(c, errors.BadRequest("Order ID is required", nil))
	}

	buyerID := c.Get("uid").(string)

	order, err := h.orderUseCase.CompleteOrder(c.Request().Context(), buyerID, orderID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *OrderHandler) ListRiderAssignments(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	riderID := c.Get("uid").(string)

	orders, total, err := h.deliveryUseCase.ListAssignments(c.Request().Context(), riderID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, orders, total, pagination.Page, pagination.PageSize)
}

// PaymentCallback receives asynchronous settlement notifications from the
// payment gateway. It is unauthenticated; the use case re-confirms the
// status with the provider before acting on it.
func (h *OrderHandler) PaymentCallback(c echo.Context) error {
	var notification map[string]interface{}
	if err := c.Bind(&notification); err != nil {
		return response.Error(c, errors.BadRequest("Invalid notification payload", err))
	}

	if err := h.orderUseCase.HandlePaymentCallback(c.Request().Context(), notification); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "ok"})
}
