package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/tribaldesk-backend/internal/interface/http/response"
)

// ErrorHandler отвечает за ошибки, приложенные через c.Error, если
// обработчик сам ничего не записал. Внутренние причины уходят в лог,
// клиент получает только код и сообщение AppError.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		response.Error(c, c.Errors.Last().Err)
	}
}

// Recovery перехватывает панику обработчика и отвечает 500 в общем формате.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		response.Error(c, panicError{value: recovered})
		c.Abort()
	})
}
