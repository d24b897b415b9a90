package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	cartdomain "github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
	cartports "github.com/Apurer/go-gin-storefront/internal/domains/cart/ports"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/cart/adapters/observability/service"

// Service decorates the cart service with tracing, logging, and metrics.
type Service struct {
	inner   cartports.Service
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

// New wraps the core cart service.
func New(inner cartports.Service, opts ...Option) cartports.Service {
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

func (s *Service) Cart(ctx context.Context, sessionID string) (cartdomain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.Cart")
	defer span.End()

	cart, err := s.inner.Cart(ctx, sessionID)
	if err != nil {
		return cart, s.handleError(ctx, span, err, "failed to load cart")
	}
	span.SetAttributes(attribute.Int("cart.items", cart.Len()))
	return cart, nil
}

func (s *Service) AddItem(ctx context.Context, sessionID string, item cartdomain.Item) (cartdomain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.AddItem", trace.WithAttributes(attribute.String("item.id", item.ID)))
	defer span.End()

	cart, err := s.inner.AddItem(ctx, sessionID, item)
	if err != nil {
		return cart, s.handleError(ctx, span, err, "failed to add item", slog.String("item.id", item.ID))
	}
	s.metrics.recordAdded(ctx)
	span.SetAttributes(attribute.Int("cart.items", cart.Len()))
	s.logInfo(ctx, "item added to cart",
		slog.String("item.id", item.ID),
		slog.Int("cart.items", cart.Len()),
		slog.String("cart.total", cart.Total().StringFixed(2)))
	return cart, nil
}

func (s *Service) RemoveItem(ctx context.Context, sessionID, itemID string) (cartports.Removal, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.RemoveItem", trace.WithAttributes(attribute.String("item.id", itemID)))
	defer span.End()

	result, err := s.inner.RemoveItem(ctx, sessionID, itemID)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to remove item", slog.String("item.id", itemID))
	}
	span.SetAttributes(attribute.Bool("item.removed", result.Removed), attribute.Int("cart.items", result.Cart.Len()))
	s.metrics.recordRemoval(ctx, result.Removed)
	if result.Removed {
		s.logInfo(ctx, "item removed from cart", slog.String("item.id", itemID), slog.Int("cart.items", result.Cart.Len()))
	}
	return result, nil
}

func (s *Service) Clear(ctx context.Context, sessionID string) (cartdomain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.Clear")
	defer span.End()

	cart, err := s.inner.Clear(ctx, sessionID)
	if err != nil {
		return cart, s.handleError(ctx, span, err, "failed to clear cart")
	}
	s.logInfo(ctx, "cart cleared")
	return cart, nil
}

func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "CartService.EndSession")
	defer span.End()

	if err := s.inner.EndSession(ctx, sessionID); err != nil {
		return s.handleError(ctx, span, err, "failed to end cart session")
	}
	s.logInfo(ctx, "cart session ended", slog.String("session.id", sessionID))
	return nil
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

type serviceMetrics struct {
	itemsAdded   metric.Int64Counter
	itemsRemoved metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	itemsAdded, _ := m.Int64Counter("cart.service.items_added", metric.WithDescription("Number of items added to carts"))
	itemsRemoved, _ := m.Int64Counter("cart.service.items_removed", metric.WithDescription("Number of remove requests, by outcome"))
	return serviceMetrics{itemsAdded: itemsAdded, itemsRemoved: itemsRemoved}
}

func (m serviceMetrics) recordAdded(ctx context.Context) {
	if m.itemsAdded != nil {
		m.itemsAdded.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRemoval(ctx context.Context, removed bool) {
	if m.itemsRemoved != nil {
		m.itemsRemoved.Add(ctx, 1, metric.WithAttributes(attribute.Bool("removed", removed)))
	}
}

var _ cartports.Service = (*Service)(nil)
