package handlers

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/tribaldesk-backend/internal/http/middleware"
	"github.com/ignatzorin/tribaldesk-backend/internal/pkg/apperror"
)

var errStreamingUnsupported = apperror.New(apperror.ErrCodeInternal, "streaming is not supported")

// publicMessage возвращает текст ошибки, который можно показать клиенту.
func publicMessage(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

// paramUUID возвращает идентификатор, уже разобранный UUIDValidator.
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	if raw, ok := c.Get(middleware.ParsedUUIDKey(name)); ok {
		if id, ok := raw.(uuid.UUID); ok {
			return id, true
		}
	}
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// writeSSEData отправляет блок данных SSE. Многострочный текст уходит
// несколькими строками data:, клиент склеивает их через \n.
func writeSSEData(w io.Writer, data string) (int, error) {
	if data == "" {
		return 0, nil
	}

	var b strings.Builder
	for _, line := range strings.Split(data, "\n") {
		b.WriteString("data: ")
		b.WriteString(strings.TrimSuffix(line, "\r"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	return io.WriteString(w, b.String())
}

// writeSSEEvent отправляет именованное событие SSE.
func writeSSEEvent(w io.Writer, eventType, data string) (int, error) {
	total, err := io.WriteString(w, "event: "+eventType+"\n")
	if err != nil {
		return total, err
	}

	n, err := writeSSEData(w, data)
	total += n
	return total, err
}
