package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"lokapasar/internal/domain/entity"
	"lokapasar/internal/domain/repository"
	"lokapasar/internal/usecase"
	"lokapasar/pkg/errors"
	"lokapasar/pkg/response"
	"lokapasar/pkg/utils"
)

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
	}
}

type productImageRequest struct {
	URL          string `json:"url" validate:"required"`
	DisplayOrder int    `json:"display_order"`
}

type createProductRequest struct {
	Title         string                `json:"title" validate:"required"`
	Description   string                `json:"description,omitempty"`
	PriceCents    int64                 `json:"price_cents" validate:"required,gt=0"`
	Currency      string                `json:"currency" validate:"required,len=3"`
	Category      string                `json:"category,omitempty"`
	Stock         int                   `json:"stock" validate:"gte=0"`
	Images        []productImageRequest `json:"images,omitempty"`
	AllowPickup   bool                  `json:"allow_pickup"`
	AllowRider    bool                  `json:"allow_rider"`
	AllowShipping bool                  `json:"allow_shipping"`
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	vendorID := c.Get("uid").(string)

	images := make([]entity.ProductImage, 0, len(req.Images))
	for _, image := range req.Images {
		images = append(images, entity.ProductImage{
			URL:          image.URL,
			DisplayOrder: image.DisplayOrder,
		})
	}

	product, err := h.productUseCase.CreateProduct(c.Request().Context(), vendorID, usecase.CreateProductInput{
		Title:         req.Title,
		Description:   req.Description,
		PriceCents:    req.PriceCents,
		Currency:      req.Currency,
		Category:      req.Category,
		Stock:         req.Stock,
		Images:        images,
		AllowPickup:   req.AllowPickup,
		AllowRider:    req.AllowRider,
		AllowShipping: req.AllowShipping,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, product)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	productID := c.Param("id")
	if productID == "" {
		return response.Error(c, errors.BadRequest("Product ID is required", nil))
	}

	product, err := h.productUseCase.GetProduct(c.Request().Context(), productID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	filter := repository.ProductFilter{
		CommunityID: c.QueryParam("community_id"),
		VendorID:    c.QueryParam("vendor_id"),
		Category:    c.QueryParam("category"),
		TitlePrefix: c.QueryParam("q"),
		Status:      c.QueryParam("status"),
	}

	if raw := c.QueryParam("min_price_cents"); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || value < 0 {
			return response.Error(c, errors.BadRequest("Invalid min_price_cents", err))
		}
		filter.MinPriceCents = value
	}

	if raw := c.QueryParam("max_price_cents"); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || value < 0 {
			return response.Error(c, errors.BadRequest("Invalid max_price_cents", err))
		}
		filter.MaxPriceCents = value
	}

	products, total, err := h.productUseCase.ListProducts(c.Request().Context(), filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, pagination.Page, pagination.PageSize)
}

func (h *ProductHandler) ListMyProducts(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	vendorID := c.Get("uid").(string)

	filter := repository.ProductFilter{
		VendorID: vendorID,
		Status:   c.QueryParam("status"),
	}

	products, total, err := h.productUseCase.ListProducts(c.Request().Context(), filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, pagination.Page, pagination.PageSize)
}

type updateProductRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"price_cents,omitempty"`
	Category    string `json:"category,omitempty"`
	Stock       *int   `json:"stock,omitempty"`
	Status      string `json:"status,omitempty"`
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	productID := c.Param("id")
	if productID == "" {
		return response.Error(c, errors.BadRequest("Product ID is required", nil))
	}

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	vendorID := c.Get("uid").(string)

	product, err := h.productUseCase.UpdateProduct(c.Request().Context(), vendorID, productID, usecase.UpdateProductInput{
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Category:    req.Category,
		Stock:       req.Stock,
		Status:      req.Status,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	productID := c.Param("id")
	if productID == "" {
		return response.Error(c, errors.BadRequest("Product ID is required", nil))
	}

	vendorID := c.Get("uid").(string)

	if err := h.productUseCase.DeleteProduct(c.Request().Context(), vendorID, productID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}
