package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
)

// Removal reports the cart after a remove request and whether an entry was dropped.
type Removal struct {
	Cart    domain.Cart
	Removed bool
}

// Service exposes per-session cart use cases to adapters.
type Service interface {
	Cart(ctx context.Context, sessionID string) (domain.Cart, error)
	AddItem(ctx context.Context, sessionID string, item domain.Item) (domain.Cart, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (Removal, error)
	Clear(ctx context.Context, sessionID string) (domain.Cart, error)
	EndSession(ctx context.Context, sessionID string) error
}
