package router

import (
	"github.com/labstack/echo/v4"

	"lokapasar/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	SetupUserRouter(e, authMiddleware)
	SetupProductRouter(e, authMiddleware, roleMiddleware)
	SetupCartRouter(e, authMiddleware)
	SetupOrderRouter(e, authMiddleware, roleMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupReviewRouter(e, authMiddleware)
	SetupPayoutRouter(e, authMiddleware, roleMiddleware)
	SetupFileRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
