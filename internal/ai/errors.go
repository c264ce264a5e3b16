package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// FailureReason — категория сбоя обращения к модели.
type FailureReason string

const (
	ReasonNetwork           FailureReason = "network"
	ReasonAuthentication    FailureReason = "authentication"
	ReasonQuota             FailureReason = "quota"
	ReasonMalformedResponse FailureReason = "malformed_response"
	ReasonUpstream          FailureReason = "upstream"
)

// ErrMalformedResponse возвращается, когда ответ не удалось разобрать
// или в нём нет ни одного варианта.
var ErrMalformedResponse = errors.New("ai: некорректный ответ")

// ErrRequestFailed оборачивает сбои отправки запроса и чтения ответа.
var ErrRequestFailed = errors.New("ai: сбой запроса")

// publicPrefix — префикс сообщений об ошибках модели для пользователя.
const publicPrefix = "OpenAI error: "

// APIError — ответ сервиса с кодом >= 400.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ai: код ответа %d", e.StatusCode)
	}
	return fmt.Sprintf("ai: код ответа %d: %s", e.StatusCode, e.Message)
}

// Classify относит ошибку клиента к одной из категорий сбоя.
func Classify(err error) FailureReason {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return ReasonAuthentication
		case http.StatusTooManyRequests:
			return ReasonQuota
		}
		return ReasonUpstream
	case errors.Is(err, ErrMalformedResponse):
		return ReasonMalformedResponse
	}
	// Обрывы соединения, таймауты и отмена контекста.
	return ReasonNetwork
}

// PublicMessage возвращает текст сбоя для пользователя. Внутренние
// обёртки клиента в него не попадают, они остаются в логе.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return publicPrefix + apiErr.Message
		}
		return fmt.Sprintf("%s%d %s", publicPrefix, apiErr.StatusCode, http.StatusText(apiErr.StatusCode))
	case errors.Is(err, ErrMalformedResponse):
		return publicPrefix + "the service returned a response that could not be read"
	case isTimeout(err):
		return publicPrefix + "the request timed out"
	case errors.Is(err, context.Canceled):
		return publicPrefix + "the request was cancelled"
	case errors.Is(err, ErrRequestFailed):
		return publicPrefix + "could not reach the service"
	}
	return publicPrefix + err.Error()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
