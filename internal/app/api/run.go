package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	storefrontserver "github.com/Apurer/go-gin-storefront/go"
	paymentsclient "github.com/Apurer/go-gin-storefront/internal/clients/http/payments"
	cartobs "github.com/Apurer/go-gin-storefront/internal/domains/cart/adapters/observability"
	cartapp "github.com/Apurer/go-gin-storefront/internal/domains/cart/application"
	catalogmemory "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/memory"
	paymentsgateway "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/external/payments"
	checkoutmemory "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/memory"
	checkoutrabbitmq "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/messaging/rabbitmq"
	checkoutobs "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/observability"
	checkoutpostgres "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/persistence/postgres"
	checkoutworkflows "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/Apurer/go-gin-storefront/internal/domains/checkout/application"
	checkoutdomain "github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	checkoutports "github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
	platformmetrics "github.com/Apurer/go-gin-storefront/internal/platform/metrics"
	"github.com/Apurer/go-gin-storefront/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-storefront/internal/platform/postgres"
	platformtemporal "github.com/Apurer/go-gin-storefront/internal/platform/temporal"
)

const serviceName = "storefront-api"

// Run boots the storefront HTTP API and blocks until ctx is cancelled or the
// server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	catalog, err := buildCatalog(cfg, logger)
	if err != nil {
		return err
	}

	db, cleanupDB := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()
	attempts := buildAttemptRepository(db, logger)

	publisher, cleanupPublisher := buildPublisher(cfg, logger)
	defer cleanupPublisher()

	sessions, redirector, err := buildPayments(cfg, logger)
	if err != nil {
		return err
	}
	if temporalClient, err := platformtemporal.Dial(platformtemporal.DialOptions{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Disabled:  cfg.TemporalDisabled,
		Logger:    logger,
		Tracer:    instruments.Tracer("temporal-client"),
	}); err != nil {
		logger.Warn("Temporal workflows unavailable, creating payment sessions inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		sessions = checkoutworkflows.NewTemporalSessions(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	serverMetrics := platformmetrics.NewServerMetrics("api")

	cartCore := cartapp.NewService(cartapp.WithLogger(logger))
	cartService := cartobs.New(
		cartCore,
		cartobs.WithLogger(logger),
		cartobs.WithTracer(instruments.Tracer("internal.cart.application")),
		cartobs.WithMeter(instruments.Meter("internal.cart.application")),
	)
	checkoutService := checkoutobs.New(
		checkoutapp.NewService(
			sessions,
			redirector,
			checkoutapp.WithAttemptRepository(attempts),
			checkoutapp.WithPublisher(publisher),
			checkoutapp.WithLogger(logger),
			checkoutapp.WithObserver(func(_ string, status checkoutdomain.Status) {
				serverMetrics.ObserveCheckout(status.State.String())
			}),
		),
		checkoutobs.WithLogger(logger),
		checkoutobs.WithTracer(instruments.Tracer("internal.checkout.application")),
		checkoutobs.WithMeter(instruments.Meter("internal.checkout.application")),
	)

	janitor := &sessionJanitor{
		carts:     cartCore,
		checkout:  checkoutService,
		attempts:  inProcessAttempts(attempts),
		ttl:       cfg.CartSessionTTL,
		retention: cfg.AttemptRetention,
		sessions:  serverMetrics.ObserveSessions,
		logger:    logger,
	}
	reapCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	go janitor.run(reapCtx, cfg.CartReapInterval)

	handlers := storefrontserver.ApiHandleFunctions{
		CatalogAPI:  storefrontserver.NewCatalogAPI(catalog),
		CartAPI:     storefrontserver.NewCartAPI(cartService, catalog, cfg.CheckoutCurrency),
		CheckoutAPI: storefrontserver.NewCheckoutAPI(cartService, checkoutService),
		Metrics:     serverMetrics.Handler(),
	}
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName), serverMetrics.Middleware())
	router = storefrontserver.NewRouterWithGinEngine(router, handlers)

	return serve(ctx, &http.Server{Addr: cfg.Addr(), Handler: router, ReadHeaderTimeout: 10 * time.Second}, logger)
}

func serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Storefront API listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("Storefront API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("Storefront API shutting down")
	return srv.Shutdown(shutdownCtx)
}

func buildCatalog(cfg Config, logger *slog.Logger) (*catalogmemory.Catalog, error) {
	if cfg.CatalogFile == "" {
		logger.Info("CATALOG_FILE not set, serving the bundled catalog")
		return catalogmemory.NewDefaultCatalog()
	}
	catalog, err := catalogmemory.LoadCatalogFile(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog loaded", slog.String("path", cfg.CatalogFile))
	return catalog, nil
}

func buildAttemptRepository(db *gorm.DB, logger *slog.Logger) checkoutports.AttemptRepository {
	if db == nil {
		return checkoutmemory.NewAttemptRepository()
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate postgres schema, falling back to in-memory attempts", slog.String("error", err.Error()))
		return checkoutmemory.NewAttemptRepository()
	}
	logger.Info("checkout attempt repository configured with postgres")
	return checkoutpostgres.NewAttemptRepository(db)
}

func buildPublisher(cfg Config, logger *slog.Logger) (checkoutports.EventPublisher, func()) {
	if cfg.RabbitMQURL == "" {
		logger.Info("RABBITMQ_URL not set, checkout events are not published")
		return checkoutports.NoopPublisher{}, func() {}
	}
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Warn("failed to connect to rabbitmq, checkout events are not published", slog.String("error", err.Error()))
		return checkoutports.NoopPublisher{}, func() {}
	}
	publisher, err := checkoutrabbitmq.NewPublisher(conn)
	if err != nil {
		_ = conn.Close()
		logger.Warn("failed to open rabbitmq publisher, checkout events are not published", slog.String("error", err.Error()))
		return checkoutports.NoopPublisher{}, func() {}
	}
	logger.Info("checkout events published to rabbitmq", slog.String("exchange", checkoutrabbitmq.EventsExchange))
	return publisher, func() {
		_ = publisher.Close()
		_ = conn.Close()
	}
}

func buildPayments(cfg Config, logger *slog.Logger) (checkoutports.PaymentSessions, checkoutports.Redirector, error) {
	if cfg.PaymentsBaseURL == "" {
		logger.Warn("PAYMENTS_BASE_URL not set, using the sandbox payment gateway; a Temporal worker must run the same way")
		sandbox := paymentsgateway.NewSandbox("")
		return sandbox, sandbox, nil
	}
	// A zero timeout leaves requests unbounded.
	client, err := paymentsclient.NewClient(
		cfg.PaymentsBaseURL,
		&http.Client{Timeout: cfg.PaymentsTimeout},
		paymentsclient.WithAPIKey(cfg.PaymentsAPIKey),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("payments client: %w", err)
	}
	gateway := paymentsgateway.NewGateway(client, cfg.CheckoutCurrency)
	return gateway, gateway, nil
}

type sessionReaper interface {
	ReapIdle(ctx context.Context, idle time.Duration) []string
	Sessions() int
}

type checkoutForgetter interface {
	Forget(ctx context.Context, sessionID string) bool
}

type attemptPurger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// sessionJanitor ends shopping sessions idle longer than ttl and trims attempt
// history kept in process memory. Sessions whose checkout is still in flight
// keep their checkout state until it settles.
type sessionJanitor struct {
	carts     sessionReaper
	checkout  checkoutForgetter
	attempts  attemptPurger
	ttl       time.Duration
	retention time.Duration
	sessions  func(n int)
	logger    *slog.Logger
	now       func() time.Time

	pending map[string]struct{}
}

func (j *sessionJanitor) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *sessionJanitor) sweep(ctx context.Context) {
	if j.pending == nil {
		j.pending = map[string]struct{}{}
	}
	for _, id := range j.carts.ReapIdle(ctx, j.ttl) {
		j.pending[id] = struct{}{}
	}
	ended := 0
	for id := range j.pending {
		if j.checkout.Forget(ctx, id) {
			delete(j.pending, id)
			ended++
		}
	}
	if ended > 0 || len(j.pending) > 0 {
		j.logger.Info("idle shopping sessions ended", slog.Int("count", ended), slog.Int("checkoutsInFlight", len(j.pending)))
	}
	if j.attempts != nil && j.retention > 0 {
		now := time.Now
		if j.now != nil {
			now = j.now
		}
		purged, err := j.attempts.PurgeBefore(ctx, now().Add(-j.retention))
		if err != nil {
			j.logger.Warn("failed to purge checkout attempts", slog.String("error", err.Error()))
		} else if purged > 0 {
			j.logger.Info("checkout attempts purged", slog.Int64("purged", purged))
		}
	}
	if j.sessions != nil {
		j.sessions(j.carts.Sessions())
	}
}

// inProcessAttempts returns the repository when attempts live in memory. A
// postgres history is purged by cmd/attempt-purger instead.
func inProcessAttempts(repo checkoutports.AttemptRepository) attemptPurger {
	if memory, ok := repo.(*checkoutmemory.AttemptRepository); ok {
		return memory
	}
	return nil
}
