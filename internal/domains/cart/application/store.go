package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
)

// Store holds the current cart snapshot for one shopping session. Reads are
// safe to run alongside writes and always derive from the latest snapshot.
type Store struct {
	mu     sync.RWMutex
	cart   domain.Cart
	logger *slog.Logger
}

type StoreOption func(*Store)

func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore returns a store holding an empty cart.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{cart: domain.Empty(), logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Add appends the item and returns the new snapshot.
func (s *Store) Add(_ context.Context, item domain.Item) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = s.cart.Add(item)
	return s.cart
}

// Remove drops one entry with the given ID. An absent ID leaves the cart as is
// and is only reported as a diagnostic.
func (s *Store) Remove(ctx context.Context, id string) (domain.Cart, bool) {
	s.mu.Lock()
	next, removed := s.cart.Remove(id)
	s.cart = next
	s.mu.Unlock()
	if !removed {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "cannot remove item, not in cart", slog.String("item.id", id))
	}
	return next, removed
}

func (s *Store) Clear(_ context.Context) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = s.cart.Clear()
	return s.cart
}

func (s *Store) Snapshot() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart
}

func (s *Store) Total() decimal.Decimal {
	return s.Snapshot().Total()
}

func (s *Store) Grouped() domain.Grouped {
	return s.Snapshot().Grouped()
}
