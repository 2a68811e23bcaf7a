package handler

import (
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/iterator"
)

type HealthHandler struct {
	firestoreClient *firestore.Client
	redisClient     *redis.Client
}

var healthHandler *HealthHandler

func NewHealthHandler(firestoreClient *firestore.Client, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		firestoreClient: firestoreClient,
		redisClient:     redisClient,
	}
}

func SetupHealthHandler(firestoreClient *firestore.Client, redisClient *redis.Client) {
	healthHandler = NewHealthHandler(firestoreClient, redisClient)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "Server is running",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// CheckDependencies probes the record store and the cart cache.
func (h *HealthHandler) CheckDependencies(c echo.Context) error {
	ctx := c.Request().Context()
	result := map[string]string{
		"firestore": "ok",
		"redis":     "ok",
	}
	status := http.StatusOK

	if _, err := h.firestoreClient.Collections(ctx).Next(); err != nil && err != iterator.Done {
		result["firestore"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	if h.redisClient != nil {
		if err := h.redisClient.Ping(ctx).Err(); err != nil {
			result["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	} else {
		result["redis"] = "not configured"
	}

	return c.JSON(status, result)
}
