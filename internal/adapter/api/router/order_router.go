package router

import (
	"github.com/labstack/echo/v4"

	"lokapasar/internal/adapter/api/handler"
	"lokapasar/internal/adapter/api/middleware"
)

func SetupOrderRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	orderHandler := handler.GetOrderHandler()

	orders := e.Group("/v1/orders")
	orders.Use(authMiddleware.Authenticate)
	orders.POST("/checkout", orderHandler.Checkout)
	orders.GET("", orderHandler.ListOrders)
	orders.GET("/:id", orderHandler.GetOrder)
	orders.PUT("/:id/delivering", orderHandler.MarkDelivering)
	orders.PUT("/:id/complete", orderHandler.CompleteOrder)

	assignments := e.Group("/v1/rider/assignments")
	assignments.Use(authMiddleware.Authenticate)
	assignments.Use(roleMiddleware.Require("rider"))
	assignments.GET("", orderHandler.ListRiderAssignments)

	// Gateway callback, authenticated by re-querying the provider.
	e.POST("/v1/payments/callback", orderHandler.PaymentCallback)
}
