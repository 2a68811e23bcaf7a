package router

import (
	"github.com/labstack/echo/v4"

	"lokapasar/internal/adapter/api/handler"
	"lokapasar/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()

	e.POST("/v1/auth/register", userHandler.Register)

	users := e.Group("/v1/users")
	users.GET("/:id", userHandler.GetUser)

	me := e.Group("/v1/me")
	me.Use(authMiddleware.Authenticate)
	me.GET("", userHandler.GetProfile)
	me.PATCH("", userHandler.UpdateProfile)
	me.PUT("/rider-availability", userHandler.SetRiderAvailability)
}
