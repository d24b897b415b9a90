package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
)

var ErrNotFound = errors.New("checkout attempt not found")

// AttemptRepository stores the checkout attempt history.
type AttemptRepository interface {
	Save(ctx context.Context, attempt *domain.Attempt) error
	GetByID(ctx context.Context, id string) (*domain.Attempt, error)
	// ListBySession returns attempts newest first.
	ListBySession(ctx context.Context, sessionID string) ([]*domain.Attempt, error)
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
