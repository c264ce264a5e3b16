package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger проверяет доступность хранилища строк.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler предоставляет endpoint для проверки здоровья сервиса.
type HealthHandler struct {
	storage      Pinger
	storageName  string
	aiConfigured bool
}

func NewHealthHandler(storage Pinger, storageName string, aiConfigured bool) *HealthHandler {
	return &HealthHandler{storage: storage, storageName: storageName, aiConfigured: aiConfigured}
}

// HealthResponse представляет ответ health check.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health обрабатывает GET /health. Без ключа AI сервис работает
// в режиме degraded: черновики без улучшения, трекер и подписка доступны.
func (h *HealthHandler) Health(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if h.storage == nil {
		checks["storage"] = "unhealthy: not configured"
		status = "unhealthy"
	} else if err := h.storage.Ping(ctx); err != nil {
		checks["storage"] = "unhealthy: " + err.Error()
		status = "unhealthy"
	} else {
		checks["storage"] = "healthy (" + h.storageName + ")"
	}

	if h.aiConfigured {
		checks["ai"] = "configured"
	} else {
		checks["ai"] = "not configured"
		if status == "healthy" {
			status = "degraded"
		}
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	})
}
