package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	cloudfirestore "cloud.google.com/go/firestore"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/cart"
	cartredis "github.com/Viniciusdacostasilva/Loja-de-roupas/internal/cart/store/redis"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/catalog"
	catalogfirestore "github.com/Viniciusdacostasilva/Loja-de-roupas/internal/catalog/firestore"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/checkout"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/config"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/event"
	handler "github.com/Viniciusdacostasilva/Loja-de-roupas/internal/handler/http"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/identity"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/payment"
	paymentmock "github.com/Viniciusdacostasilva/Loja-de-roupas/internal/payment/mock"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/database"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/health"
	pkgkafka "github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/kafka"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/tracing"
)

// App wires together all dependencies and runs the storefront server.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	redis          *goredis.Client
	firestore      *cloudfirestore.Client
	producer       *pkgkafka.Producer
	carts          *cart.Registry
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  "storefront",
		Environment:  cfg.Environment,
		Enabled:      cfg.TracingEnabled,
		OTLPEndpoint: cfg.TracingEndpoint,
		SampleRate:   cfg.TracingSampler,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Redis holds the cart snapshots.
	redisClient, err := database.NewRedisClient(ctx, database.RedisConfig{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		PoolSize:    10,
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr))

	// Firestore holds the product catalog.
	firestoreClient, err := cloudfirestore.NewClient(ctx, cfg.FirestoreProjectID)
	if err != nil {
		return nil, fmt.Errorf("connect to firestore: %w", err)
	}
	logger.Info("connected to Firestore", slog.String("project", cfg.FirestoreProjectID))

	// Firebase verifies shopper identity.
	verifier, err := identity.NewFirebaseVerifier(ctx, identity.FirebaseConfig{
		ProjectID:       cfg.FirebaseProjectID,
		CredentialsFile: cfg.FirebaseCredentialsFile,
	})
	if err != nil {
		return nil, fmt.Errorf("init firebase verifier: %w", err)
	}

	// Kafka producer for domain events.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	events := event.NewProducer(producer, logger)

	// Build the dependency graph.
	cartStore := cartredis.NewStore(redisClient, cfg.CartTTL, logger)
	registry := cart.NewRegistry(cartStore, events, logger, cfg.CartSaveDebounce)

	productRepo := catalogfirestore.NewProductRepository(firestoreClient)
	catalogService := catalog.NewService(productRepo, events, logger)

	provider := payment.NewBreakerProvider(
		paymentmock.NewProvider(logger),
		payment.DefaultBreakerConfig(),
		logger,
	)
	checkoutService := checkout.NewService(registry, provider, events, cfg.ShippingFeeCents, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return cartStore.Ping(ctx)
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router.
	router := handler.NewRouter(handler.RouterDeps{
		Carts:          registry,
		Catalog:        catalogService,
		Checkout:       checkoutService,
		Verifier:       verifier,
		Health:         healthHandler,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		redis:          redisClient,
		firestore:      firestoreClient,
		producer:       producer,
		carts:          registry,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go a.carts.Janitor(ctx, time.Minute, a.cfg.CartIdleTimeout)

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

// Shutdown gracefully stops all components. Pending cart snapshots are
// flushed before the stores close.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.carts.Close(shutdownCtx)

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}
	if err := a.firestore.Close(); err != nil {
		a.logger.Error("firestore close error", slog.String("error", err.Error()))
	}
	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}
	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
