package ai

import (
	"slices"
	"strings"
	"time"

	"github.com/ignatzorin/tribaldesk-backend/internal/pkg/apperror"
)

// Settings описывает подключение к OpenAI-совместимому API.
type Settings struct {
	BaseURL      string
	APIKey       string
	DefaultModel string
	Timeout      time.Duration
	// Allowed ограничивает модели, которые может запросить клиент.
	// Пустой список разрешает любую.
	Allowed []string
}

// Configured сообщает, задан ли ключ API.
func (s Settings) Configured() bool {
	return strings.TrimSpace(s.APIKey) != ""
}

// Client создаёт клиента под модель. Пустая модель заменяется моделью
// по умолчанию.
func (s Settings) Client(model string) (*Client, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		model = s.DefaultModel
	}
	if model != "" && len(s.Allowed) > 0 && !slices.Contains(s.Allowed, model) {
		return nil, apperror.New(apperror.ErrCodeValidation, "model is not available: "+model)
	}
	return NewClient(s.BaseURL, s.APIKey, model, s.Timeout)
}
