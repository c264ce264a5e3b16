package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/ignatzorin/tribaldesk-backend/internal/interface/http/response"
	"github.com/ignatzorin/tribaldesk-backend/internal/logger"
)

// RateLimitMiddleware ограничивает число запросов с одного IP.
// Группы с разным name считаются независимо.
// По умолчанию: 10 запросов в минуту.
func RateLimitMiddleware(name string, limit int64, period time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		limit = 10
	}
	if period <= 0 {
		period = time.Minute
	}

	rate := limiter.Rate{
		Period: period,
		Limit:  limit,
	}
	store := memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          "tribaldesk:" + name,
		CleanUpInterval: period,
	})
	instance := limiter.New(store, rate)
	log := logger.Component("rate_limit")

	return func(c *gin.Context) {
		lctx, err := instance.Get(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Сбой хранилища лимитов не должен блокировать запросы.
			log.WithError(err).WithField("group", name).Warn("Не удалось проверить лимит запросов")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			response.TooManyRequests(c, "too many requests, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}

// When применяет middleware только к запросам, для которых cond вернул true.
func When(cond func(c *gin.Context) bool, handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cond(c) {
			handler(c)
			return
		}
		c.Next()
	}
}

// EnhanceRequested читает флаг enhance из JSON тела и возвращает тело
// на место для обработчика. Нечитаемое тело считается запросом без улучшения:
// обработчик всё равно ответит на него 400.
func EnhanceRequested(c *gin.Context) bool {
	if c.Request.Body == nil {
		return false
	}
	body, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return false
	}

	var flags struct {
		Enhance bool `json:"enhance"`
	}
	if err := json.Unmarshal(body, &flags); err != nil {
		return false
	}
	return flags.Enhance
}
