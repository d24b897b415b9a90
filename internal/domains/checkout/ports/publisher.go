package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
)

// EventPublisher announces completed handoffs to downstream services.
type EventPublisher interface {
	PublishCheckoutHandedOff(ctx context.Context, attempt *domain.Attempt) error
}

// NoopPublisher drops events; used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishCheckoutHandedOff(context.Context, *domain.Attempt) error { return nil }
