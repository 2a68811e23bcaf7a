package router

import (
	"github.com/labstack/echo/v4"

	"lokapasar/internal/adapter/api/handler"
	"lokapasar/internal/adapter/api/middleware"
)

func SetupPayoutRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	payoutHandler := handler.GetPayoutHandler()

	payouts := e.Group("/v1/payouts")
	payouts.Use(authMiddleware.Authenticate)
	payouts.Use(roleMiddleware.Require("vendor"))
	payouts.GET("/balance", payoutHandler.GetBalance)
	payouts.POST("", payoutHandler.RequestPayout)
	payouts.GET("", payoutHandler.ListPayouts)
}
