package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/tribaldesk-backend/internal/config"
	"github.com/ignatzorin/tribaldesk-backend/internal/http/handlers"
	"github.com/ignatzorin/tribaldesk-backend/internal/http/middleware"
)

// Handlers собирает все обработчики API.
type Handlers struct {
	Health     *handlers.HealthHandler
	Site       *handlers.SiteHandler
	Proposal   *handlers.ProposalHandler
	Chat       *handlers.ChatHandler
	Grant      *handlers.GrantHandler
	Subscriber *handlers.SubscriberHandler
	WS         *handlers.WSHandler
	// Metrics может быть nil, тогда /metrics не регистрируется.
	Metrics http.Handler
}

func SetupRouter(cfg *config.Config, h Handlers, observer middleware.HTTPObserver) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(observer))
	r.Use(middleware.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	api := r.Group("/api")

	api.GET("/site", h.Site.Site)
	api.GET("/models", h.Site.Models)
	api.GET("/ws", h.WS.Handle)

	// Запросы к модели ограничиваются по IP. Черновик без enhance модель
	// не вызывает и в лимит не входит.
	aiLimit := middleware.RateLimitMiddleware("ai", cfg.RateLimitLimit, cfg.RateLimitPeriod)
	proposalLimit := middleware.When(middleware.EnhanceRequested, aiLimit)

	api.POST("/proposals/draft", proposalLimit, h.Proposal.Draft)
	api.POST("/proposals/docx", proposalLimit, h.Proposal.Docx)
	api.POST("/chat", aiLimit, h.Chat.Reply)
	api.POST("/chat/stream", aiLimit, h.Chat.Stream)

	grants := api.Group("/grants")
	{
		grants.GET("", h.Grant.List)
		grants.POST("", h.Grant.Create)
		grants.GET("/export", h.Grant.Export)
		grants.PUT("/:id/status", middleware.UUIDValidator("id"), h.Grant.UpdateStatus)
		grants.DELETE("/:id", middleware.UUIDValidator("id"), h.Grant.Delete)
	}

	api.POST("/subscribers",
		middleware.RateLimitMiddleware("subscribe", cfg.RateLimitLimit, cfg.RateLimitPeriod),
		h.Subscriber.Subscribe)

	return r
}
