package handler

import (
	"github.com/labstack/echo/v4"

	"lokapasar/internal/usecase"
	"lokapasar/pkg/errors"
	"lokapasar/pkg/response"
)

type CartHandler struct {
	cartUseCase *usecase.CartUseCase
}

func NewCartHandler(cartUseCase *usecase.CartUseCase) *CartHandler {
	return &CartHandler{
		cartUseCase: cartUseCase,
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID := c.Get("uid").(string)
	return response.Success(c, h.cartUseCase.GetCart(c.Request().Context(), userID))
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) AddItem(c echo.Context) error {
	var req addCartItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	view, err := h.cartUseCase.AddItem(c.Request().Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, view)
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	productID := c.Param("productId")
	if productID == "" {
		return response.Error(c, errors.BadRequest("Product ID is required", nil))
	}

	var req updateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	userID := c.Get("uid").(string)

	return response.Success(c, h.cartUseCase.UpdateQuantity(c.Request().Context(), userID, productID, req.Quantity))
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	productID := c.Param("productId")
	if productID == "" {
		return response.Error(c, errors.BadRequest("Product ID is required", nil))
	}

	userID := c.Get("uid").(string)

	return response.Success(c, h.cartUseCase.RemoveItem(c.Request().Context(), userID, productID))
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	userID := c.Get("uid").(string)
	return response.Success(c, h.cartUseCase.ClearCart(c.Request().Context(), userID))
}
