package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/tribaldesk-backend/internal/logger"
)

// Logger интерфейс для логирования ошибок
type Logger interface {
	WithFields(fields logrus.Fields) *logrus.Entry
}

// RecoveryHandler обрабатывает panic в горутинах
type RecoveryHandler struct {
	logger Logger
}

// NewRecoveryHandler создает новый обработчик
func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// Recover перехватывает panic и пишет её в лог. Вызывается через defer.
func (rh *RecoveryHandler) Recover(name string) {
	if r := recover(); r != nil {
		rh.logger.WithFields(logrus.Fields{
			"goroutine": name,
			"panic":     r,
			"stack":     string(debug.Stack()),
		}).Error("Panic in goroutine")
	}
}

// SafeGo запускает горутину с контекстом и обработкой panic
func (rh *RecoveryHandler) SafeGo(ctx context.Context, name string, fn func(context.Context)) {
	go func() {
		defer rh.Recover(name)
		fn(ctx)
	}()
}

// SafeGo запускает горутину через обработчик поверх глобального логгера.
func SafeGo(ctx context.Context, name string, fn func(context.Context)) {
	NewRecoveryHandler(logger.Get()).SafeGo(ctx, name, fn)
}
