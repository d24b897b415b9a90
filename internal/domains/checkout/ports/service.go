package ports

import (
	"context"

	cartdomain "github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
)

// Service exposes checkout use cases to adapters.
type Service interface {
	Checkout(ctx context.Context, sessionID string, cart cartdomain.Cart) (*domain.Handoff, error)
	Status(ctx context.Context, sessionID string) domain.Status
	Attempts(ctx context.Context, sessionID string) ([]*domain.Attempt, error)
	// Forget discards the session's checkout state. It returns false while a
	// checkout for the session is still in flight.
	Forget(ctx context.Context, sessionID string) bool
}
