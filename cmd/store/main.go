package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator"
	"github.com/microcosm-cc/bluemonday"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/forja3d/store/internal/handlers"
	"github.com/forja3d/store/internal/platform/config"
	"github.com/forja3d/store/internal/platform/idempotency"
	"github.com/forja3d/store/internal/platform/observability"
	"github.com/forja3d/store/internal/repositories"
	"github.com/forja3d/store/internal/repositories/cartdb"
	"github.com/forja3d/store/internal/repositories/catalogfile"
	"github.com/forja3d/store/internal/services"
)

func main() {
	ctx := context.Background()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("store")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		var invalid *config.ValidationError
		if errors.As(err, &invalid) {
			logger.Fatal("invalid configuration", zap.Strings("fields", invalid.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	catalogRepo, err := catalogfile.New(cfg.Catalog.File)
	if err != nil {
		logger.Fatal("failed to load product catalog", zap.Error(err))
	}

	cartStore, err := cartdb.Open(cfg.Cart.DatabaseFile)
	if err != nil {
		logger.Fatal("failed to open cart database", zap.Error(err))
	}
	defer func() {
		if err := cartStore.Close(); err != nil {
			logger.Warn("cart database close error", zap.Error(err))
		}
	}()

	catalogService, err := services.NewCatalogService(services.CatalogServiceDeps{
		Repository: catalogRepo,
		Logger:     zapEventLogger(logger.Named("catalog")),
	})
	if err != nil {
		logger.Fatal("failed to initialise catalog service", zap.Error(err))
	}

	notificationService, err := services.NewNotificationService(services.NotificationServiceDeps{
		TTL:    cfg.Notifications.TTL,
		Clock:  time.Now,
		Logger: zapEventLogger(logger.Named("notifications")),
	})
	if err != nil {
		logger.Fatal("failed to initialise notification service", zap.Error(err))
	}
	defer notificationService.Shutdown()

	cartService, err := services.NewCartService(services.CartServiceDeps{
		Storage:  cartStore,
		Catalog:  catalogService,
		Notifier: notificationService,
		Logger:   zapEventLogger(logger.Named("cart")),
	})
	if err != nil {
		logger.Fatal("failed to initialise cart service", zap.Error(err))
	}

	orderService, err := services.NewOrderService(services.OrderServiceDeps{
		StoreName:      cfg.Store.Name,
		WhatsAppNumber: cfg.Store.WhatsAppNumber,
		Validator:      validator.New(),
		Sanitizer:      bluemonday.StrictPolicy(),
		IDGenerator:    func() string { return ulid.Make().String() },
		Logger:         zapEventLogger(logger.Named("orders")),
	})
	if err != nil {
		logger.Fatal("failed to initialise order service", zap.Error(err))
	}

	browseService, err := services.NewBrowseService(services.BrowseServiceDeps{
		Catalog: catalogService,
		Logger:  zapEventLogger(logger.Named("browse")),
	})
	if err != nil {
		logger.Fatal("failed to initialise browse service", zap.Error(err))
	}

	systemService, err := newSystemService(catalogRepo, cartStore)
	if err != nil {
		logger.Fatal("failed to initialise system service", zap.Error(err))
	}

	idempotencyMiddleware := idempotency.Middleware(
		idempotency.NewMemoryStore(),
		idempotency.WithLogger(zapEventLogger(logger.Named("idempotency"))),
	)

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(),
		idempotencyMiddleware,
	}

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthSystemService(systemService),
	)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithCatalogRoutes(handlers.NewCatalogHandlers(catalogService).Routes),
		handlers.WithCartRoutes(handlers.NewCartHandlers(cartService).Routes),
		handlers.WithCheckoutRoutes(handlers.NewCheckoutHandlers(cartService, orderService).Routes),
		handlers.WithCustomOrderRoutes(handlers.NewCustomOrderHandlers(orderService).Routes),
		handlers.WithBrowseRoutes(handlers.NewBrowseHandlers(browseService).Routes),
		handlers.WithNotificationRoutes(handlers.NewNotificationHandlers(notificationService).Routes),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("forja 3d store listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newSystemService(catalog *catalogfile.Repository, carts *cartdb.Store) (services.SystemService, error) {
	checks := []repositories.DependencyCheck{
		{
			Name:    "catalog",
			Timeout: time.Second,
			Check: func(ctx context.Context) error {
				_, err := catalog.ListProducts(ctx)
				return err
			},
		},
		{
			Name:    "cart_db",
			Timeout: 1500 * time.Millisecond,
			Check:   carts.Ping,
		},
	}
	repo, err := repositories.NewDependencyHealthRepository(checks)
	if err != nil {
		return nil, err
	}
	return services.NewSystemService(services.SystemServiceDeps{Health: repo})
}

func zapEventLogger(logger *zap.Logger) func(context.Context, string, map[string]any) {
	return func(_ context.Context, event string, fields map[string]any) {
		zFields := make([]zap.Field, 0, len(fields)+1)
		zFields = append(zFields, zap.String("event", event))
		for k, v := range fields {
			zFields = append(zFields, zap.Any(k, v))
		}
		logger.Debug(event, zFields...)
	}
}
