package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

var _ ports.AttemptRepository = (*AttemptRepository)(nil)

// AttemptRepository is an in-memory checkout attempt store.
type AttemptRepository struct {
	mu       sync.RWMutex
	attempts map[string]*domain.Attempt
}

func NewAttemptRepository() *AttemptRepository {
	return &AttemptRepository{attempts: map[string]*domain.Attempt{}}
}

func (r *AttemptRepository) Save(_ context.Context, attempt *domain.Attempt) error {
	if attempt == nil {
		return errors.New("attempt is nil")
	}
	if attempt.ID == "" {
		return errors.New("attempt id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[attempt.ID] = attempt.Clone()
	return nil
}

func (r *AttemptRepository) GetByID(_ context.Context, id string) (*domain.Attempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	attempt, ok := r.attempts[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return attempt.Clone(), nil
}

func (r *AttemptRepository) ListBySession(_ context.Context, sessionID string) ([]*domain.Attempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Attempt, 0)
	for _, attempt := range r.attempts {
		if attempt.SessionID == sessionID {
			list = append(list, attempt.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].StartedAt.After(list[j].StartedAt)
	})
	return list, nil
}

func (r *AttemptRepository) PurgeBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var purged int64
	for id, attempt := range r.attempts {
		if attempt.StartedAt.Before(cutoff) {
			delete(r.attempts, id)
			purged++
		}
	}
	return purged, nil
}
