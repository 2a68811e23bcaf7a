package router

import (
	"github.com/labstack/echo/v4"

	"lokapasar/internal/adapter/api/handler"
	"lokapasar/internal/adapter/api/middleware"
)

func SetupReviewRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	reviewHandler := handler.GetReviewHandler()

	e.GET("/v1/vendors/:vendorId/reviews", reviewHandler.ListVendorReviews)
	e.GET("/v1/products/:productId/reviews", reviewHandler.ListProductReviews)

	reviews := e.Group("/v1/orders/:orderId/review")
	reviews.Use(authMiddleware.Authenticate)
	reviews.POST("", reviewHandler.CreateReview)
}
