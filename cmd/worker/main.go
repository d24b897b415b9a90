package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	paymentsclient "github.com/Apurer/go-gin-storefront/internal/clients/http/payments"
	paymentsgateway "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/external/payments"
	checkoutports "github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
	platformconfig "github.com/Apurer/go-gin-storefront/internal/platform/config"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
	platformtemporal "github.com/Apurer/go-gin-storefront/internal/platform/temporal"
	checkoutactivities "github.com/Apurer/go-gin-storefront/internal/platform/temporal/activities/checkout"
	checkoutworkflows "github.com/Apurer/go-gin-storefront/internal/platform/temporal/workflows/checkout"
)

type workerConfig struct {
	TemporalAddress   string        `env:"TEMPORAL_ADDRESS" envDefault:"localhost:7233"`
	TemporalNamespace string        `env:"TEMPORAL_NAMESPACE" envDefault:"default"`
	PaymentsBaseURL   string        `env:"PAYMENTS_BASE_URL"`
	PaymentsAPIKey    string        `env:"PAYMENTS_API_KEY"`
	PaymentsTimeout   time.Duration `env:"PAYMENTS_TIMEOUT" envDefault:"0s"`
	CheckoutCurrency  string        `env:"CHECKOUT_CURRENCY" envDefault:"usd"`
}

func main() {
	ctx := context.Background()
	const serviceName = "storefront-worker"
	var cfg workerConfig
	if err := platformconfig.ParseEnv(&cfg); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	sessions, err := buildPaymentSessions(cfg, logger)
	if err != nil {
		logger.Error("failed to configure payments", slog.String("error", err.Error()))
		os.Exit(1)
	}
	checkoutActivities := checkoutactivities.NewActivities(sessions)

	temporalClient, err := platformtemporal.Dial(platformtemporal.DialOptions{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
		Tracer:    instruments.Tracer("temporal-worker"),
	})
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, checkoutworkflows.CheckoutSessionTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(checkoutworkflows.CheckoutSessionWorkflow, workflow.RegisterOptions{Name: checkoutworkflows.CheckoutSessionWorkflowName})
	w.RegisterActivityWithOptions(checkoutActivities.CreateSession, activity.RegisterOptions{Name: checkoutactivities.CreateSessionActivityName})

	logger.Info("worker listening", slog.String("taskQueue", checkoutworkflows.CheckoutSessionTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildPaymentSessions(cfg workerConfig, logger *slog.Logger) (checkoutports.PaymentSessions, error) {
	if strings.TrimSpace(cfg.PaymentsBaseURL) == "" {
		logger.Warn("PAYMENTS_BASE_URL not set, worker uses the sandbox payment gateway; the API must also run without PAYMENTS_BASE_URL or every redirect fails")
		return paymentsgateway.NewSandbox(""), nil
	}
	client, err := paymentsclient.NewClient(
		cfg.PaymentsBaseURL,
		&http.Client{Timeout: cfg.PaymentsTimeout},
		paymentsclient.WithAPIKey(cfg.PaymentsAPIKey),
	)
	if err != nil {
		return nil, err
	}
	return paymentsgateway.NewGateway(client, cfg.CheckoutCurrency), nil
}
