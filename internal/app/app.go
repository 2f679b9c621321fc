package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Balamathankumar/store-front/internal/cart"
	"github.com/Balamathankumar/store-front/internal/config"
	"github.com/Balamathankumar/store-front/internal/domain"
	"github.com/Balamathankumar/store-front/internal/event"
	"github.com/Balamathankumar/store-front/internal/gateway"
	handler "github.com/Balamathankumar/store-front/internal/handler/http"
	redisrepo "github.com/Balamathankumar/store-front/internal/repository/redis"
	"github.com/Balamathankumar/store-front/internal/service"
	"github.com/Balamathankumar/store-front/pkg/health"
	"github.com/Balamathankumar/store-front/pkg/httpclient"
	pkgkafka "github.com/Balamathankumar/store-front/pkg/kafka"
	"github.com/Balamathankumar/store-front/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *redis.Client
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize tracing.
	traceCfg := tracing.DefaultConfig("store-front")
	traceCfg.Environment = cfg.Environment
	traceCfg.OTLPEndpoint = cfg.TracingEndpoint
	traceCfg.SampleRate = cfg.TracingSample
	traceCfg.Enabled = cfg.TracingEnabled
	tracingShutdown, err := tracing.InitTracer(ctx, traceCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Initialize Redis client.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Commerce backend client with a circuit breaker.
	backendClient := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("commerce-backend"),
		logger,
	)
	catalog := gateway.NewCatalogGateway(backendClient, cfg.BackendBaseURL, logger)
	auth := gateway.NewAuthGateway(backendClient, cfg.BackendBaseURL, logger)

	// Build the dependency graph. Item-changing cart mutations publish
	// cart.updated events; explicit clears publish cart.cleared.
	cartTTL := time.Duration(cfg.CartTTL) * time.Hour
	repo := redisrepo.NewSnapshotRepository(rdb, cartTTL)
	eventProducer := event.NewProducer(producer, logger)
	carts := cart.NewManager(repo, logger, func(ctx context.Context, sessionID string, state domain.CartState) {
		var err error
		if len(state.Items) == 0 && state.TotalItems == 0 {
			err = eventProducer.PublishCartCleared(ctx, sessionID)
		} else {
			err = eventProducer.PublishCartUpdated(ctx, sessionID, state)
		}
		if err != nil {
			logger.ErrorContext(ctx, "failed to publish cart event",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
	})
	checkout := service.NewCheckoutService(carts, catalog, eventProducer, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("backend", func(ctx context.Context) error {
		_, err := catalog.Categories(ctx)
		return err
	})

	// HTTP router.
	router := handler.NewRouter(handler.RouterConfig{
		Carts:          carts,
		Catalog:        catalog,
		Auth:           auth,
		Checkout:       checkout,
		Tracker:        catalog,
		Health:         healthHandler,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		SessionTTL:     cartTTL,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	// Close Redis client.
	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	// Flush pending spans.
	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
