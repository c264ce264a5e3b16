package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/ignatzorin/tribaldesk-backend/internal/ai"
	"github.com/ignatzorin/tribaldesk-backend/internal/config"
	"github.com/ignatzorin/tribaldesk-backend/internal/db"
	"github.com/ignatzorin/tribaldesk-backend/internal/domain/repository"
	httpHandlers "github.com/ignatzorin/tribaldesk-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/tribaldesk-backend/internal/http/router"
	"github.com/ignatzorin/tribaldesk-backend/internal/logger"
	"github.com/ignatzorin/tribaldesk-backend/internal/markdown"
	"github.com/ignatzorin/tribaldesk-backend/internal/metrics"
	repo "github.com/ignatzorin/tribaldesk-backend/internal/repository"
	"github.com/ignatzorin/tribaldesk-backend/internal/service"
	"github.com/ignatzorin/tribaldesk-backend/internal/usecase/chat"
	"github.com/ignatzorin/tribaldesk-backend/internal/usecase/grant"
	"github.com/ignatzorin/tribaldesk-backend/internal/usecase/proposal"
	"github.com/ignatzorin/tribaldesk-backend/internal/usecase/subscriber"
	"github.com/ignatzorin/tribaldesk-backend/internal/ws"
	"github.com/ignatzorin/tribaldesk-backend/migrations"
)

const cacheCleanupInterval = time.Minute

// storage объединяет репозитории выбранного драйвера.
type storage struct {
	grants      repository.GrantRepository
	subscribers repository.SubscriberRepository
	pinger      httpHandlers.Pinger
	close       func()
}

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	if cfg.IsDevelopment() {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}
	logMain := logger.Component("main")

	site, err := cfg.Site()
	if err != nil {
		logMain.WithError(err).Fatal("Не удалось загрузить контент сайта")
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		logMain.WithError(err).Fatal("Не удалось подготовить хранилище")
	}
	defer store.close()

	companyContext, err := service.NewCompanyContext(cfg.CompanyContextPath)
	if err != nil {
		logMain.WithError(err).Fatal("Не удалось прочитать контекст компании")
	}

	m := metrics.New()
	cache := service.NewCacheService()
	hub := ws.NewHub(m)

	// Без ключа фабрики остаются nil: черновики без AI, трекер и подписка работают.
	aiSettings := ai.Settings{
		BaseURL:      cfg.AIBaseURL,
		APIKey:       cfg.OpenAIAPIKey,
		DefaultModel: cfg.OpenAIModel,
		Timeout:      cfg.AITimeout,
		Allowed:      cfg.OfferedModels(),
	}
	var (
		enhancers  repository.EnhancerFactory
		assistants repository.AssistantFactory
	)
	if aiSettings.Configured() {
		enhancers = func(model string) (repository.ProposalEnhancer, error) {
			client, err := aiSettings.Client(model)
			if err != nil {
				return nil, err
			}
			return client, nil
		}
		assistants = func(model string) (repository.AssistantService, error) {
			client, err := aiSettings.Client(model)
			if err != nil {
				return nil, err
			}
			return client, nil
		}
	} else {
		logMain.Warn("OPENAI_API_KEY не задан, AI функции отключены")
	}

	generateUC := proposal.NewGenerateDraftUseCase(enhancers, markdown.NewRenderer(), m)
	exportUC := proposal.NewExportDocxUseCase(generateUC, m)
	chatUC := chat.NewChatUseCase(assistants, companyContext, m)

	listGrantsUC := grant.NewListGrantsUseCase(store.grants, cache)
	grantHandler := httpHandlers.NewGrantHandler(
		grant.NewCreateGrantUseCase(store.grants, cache, hub, m),
		listGrantsUC,
		grant.NewUpdateGrantStatusUseCase(store.grants, cache, hub, m),
		grant.NewDeleteGrantUseCase(store.grants, cache, hub, m),
		grant.NewExportGrantsUseCase(listGrantsUC),
	)
	subscribeUC := subscriber.NewSubscribeUseCase(store.subscribers, hub, m)

	engine := httpRouter.SetupRouter(cfg, httpRouter.Handlers{
		Health:     httpHandlers.NewHealthHandler(store.pinger, cfg.StorageDriver, aiSettings.Configured()),
		Site:       httpHandlers.NewSiteHandler(site, cfg.OfferedModels()),
		Proposal:   httpHandlers.NewProposalHandler(generateUC, exportUC),
		Chat:       httpHandlers.NewChatHandler(chatUC),
		Grant:      grantHandler,
		Subscriber: httpHandlers.NewSubscriberHandler(subscribeUC),
		WS:         httpHandlers.NewWSHandler(hub, cfg.AllowedOrigins),
		Metrics:    m.Handler(),
	}, m)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error { return cache.Run(gctx, cacheCleanupInterval) })
	g.Go(func() error { return companyContext.Watch(gctx) })
	g.Go(func() error {
		logMain.WithField("port", cfg.HTTPPort).Info("HTTP сервер запущен")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logMain.WithError(err).Fatal("Сервер завершился с ошибкой")
	}
	logMain.Info("Сервер остановлен")
}

// openStorage подключает CSV файлы или PostgreSQL в зависимости от STORAGE_DRIVER.
func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.StorageDriver != config.StoragePostgres {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, err
		}
		grants := repo.NewGrantCSVRepository(cfg.DataDir)
		return &storage{
			grants:      grants,
			subscribers: repo.NewSubscriberCSVRepository(cfg.DataDir),
			pinger:      grants,
			close:       func() {},
		}, nil
	}

	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx, dbConn, migrationsFS(cfg.MigrationsPath)); err != nil {
		safeClose(dbConn)
		return nil, err
	}

	grants := repo.NewGrantPostgresRepository(dbConn)
	return &storage{
		grants:      grants,
		subscribers: repo.NewSubscriberPostgresRepository(dbConn),
		pinger:      grants,
		close:       func() { safeClose(dbConn) },
	}, nil
}

// migrationsFS берёт миграции с диска, если каталог есть, иначе встроенные.
func migrationsFS(path string) fs.FS {
	if path != "" {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return os.DirFS(path)
		}
	}
	return migrations.FS
}

func safeClose(conn *sqlx.DB) {
	if err := conn.Close(); err != nil {
		logger.Component("main").WithError(err).Warn("Ошибка закрытия базы")
	}
}
