package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/tribaldesk-backend/internal/interface/http/response"
)

// ParsedUUIDKey возвращает ключ контекста, под которым UUIDValidator
// сохраняет разобранный параметр.
func ParsedUUIDKey(paramName string) string {
	return "uuid:" + paramName
}

// UUIDValidator проверяет, что параметр с указанным именем является валидным UUID.
// Использование: router.DELETE("/grants/:id", UUIDValidator("id"), handler.Delete)
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(paramName)
		if raw == "" {
			response.BadRequest(c, paramName+" is required")
			c.Abort()
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, paramName+" must be a valid UUID")
			c.Abort()
			return
		}

		c.Set(ParsedUUIDKey(paramName), id)
		c.Next()
	}
}
