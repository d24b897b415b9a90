package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	cartdomain "github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
	checkoutdomain "github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	checkoutports "github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/observability/service"

// Service decorates the checkout service with tracing, logging, and metrics.
type Service struct {
	inner   checkoutports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core checkout service.
func New(inner checkoutports.Service, opts ...Option) checkoutports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Checkout(ctx context.Context, sessionID string, cart cartdomain.Cart) (*checkoutdomain.Handoff, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.Checkout",
		trace.WithAttributes(
			attribute.Int("cart.items", cart.Len()),
			attribute.String("cart.total", cart.Total().StringFixed(2)),
		))
	defer span.End()

	s.logInfo(ctx, "starting checkout", slog.Int("cart.items", cart.Len()), slog.String("cart.total", cart.Total().StringFixed(2)))
	handoff, err := s.inner.Checkout(ctx, sessionID, cart)
	if err != nil {
		s.metrics.recordOutcome(ctx, outcomeFor(err))
		if errors.Is(err, checkoutdomain.ErrCheckoutInProgress) {
			span.SetAttributes(attribute.Bool("checkout.rejected", true))
			s.logInfo(ctx, "checkout already in progress")
			return nil, err
		}
		return nil, s.handleError(ctx, span, err, "checkout failed")
	}
	s.metrics.recordOutcome(ctx, "handed_off")
	span.SetAttributes(
		attribute.String("checkout.attempt_id", handoff.AttemptID),
		attribute.String("checkout.payment_session_id", handoff.PaymentSessionID),
	)
	s.logInfo(ctx, "checkout handed off",
		slog.String("attempt.id", handoff.AttemptID),
		slog.String("payment_session.id", handoff.PaymentSessionID))
	return handoff, nil
}

func (s *Service) Status(ctx context.Context, sessionID string) checkoutdomain.Status {
	return s.inner.Status(ctx, sessionID)
}

func (s *Service) Attempts(ctx context.Context, sessionID string) ([]*checkoutdomain.Attempt, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.Attempts")
	defer span.End()

	attempts, err := s.inner.Attempts(ctx, sessionID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list checkout attempts")
	}
	span.SetAttributes(attribute.Int("checkout.attempts", len(attempts)))
	return attempts, nil
}

func (s *Service) Forget(ctx context.Context, sessionID string) bool {
	if forgotten := s.inner.Forget(ctx, sessionID); !forgotten {
		s.logInfo(ctx, "checkout state kept while a checkout is in flight", slog.String("session.id", sessionID))
		return false
	}
	return true
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, checkoutdomain.ErrCheckoutInProgress):
		return "rejected"
	case errors.Is(err, checkoutdomain.ErrSessionCreationFailed):
		return "session_creation_failed"
	case errors.Is(err, checkoutdomain.ErrRedirectFailed):
		return "redirect_failed"
	default:
		return "error"
	}
}

type serviceMetrics struct {
	checkouts metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	checkouts, _ := m.Int64Counter("checkout.service.attempts", metric.WithDescription("Checkout attempts by outcome"))
	return serviceMetrics{checkouts: checkouts}
}

func (m serviceMetrics) recordOutcome(ctx context.Context, outcome string) {
	if m.checkouts != nil {
		m.checkouts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

var _ checkoutports.Service = (*Service)(nil)
