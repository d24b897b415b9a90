package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/cart/ports"
)

// Service keeps one Store per shopping session. Carts live only as long as the
// session does; nothing is persisted.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*session
	logger   *slog.Logger
	now      func() time.Time
}

type session struct {
	store    *Store
	lastSeen time.Time
}

// Option configures optional dependencies for the cart service.
type Option func(*Service)

// WithLogger routes store diagnostics to the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(opts ...Option) *Service {
	s := &Service{
		sessions: map[string]*session{},
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) Cart(_ context.Context, sessionID string) (domain.Cart, error) {
	if err := validateSession(sessionID); err != nil {
		return domain.Cart{}, err
	}
	return s.store(sessionID).Snapshot(), nil
}

func (s *Service) AddItem(ctx context.Context, sessionID string, item domain.Item) (domain.Cart, error) {
	if err := validateSession(sessionID); err != nil {
		return domain.Cart{}, err
	}
	validated, err := domain.NewItem(item.ID, item.Title, item.Price, item.Metadata)
	if err != nil {
		return domain.Cart{}, mapError(err)
	}
	return s.store(sessionID).Add(ctx, validated), nil
}

func (s *Service) RemoveItem(ctx context.Context, sessionID, itemID string) (ports.Removal, error) {
	if err := validateSession(sessionID); err != nil {
		return ports.Removal{}, err
	}
	cart, removed := s.store(sessionID).Remove(ctx, itemID)
	return ports.Removal{Cart: cart, Removed: removed}, nil
}

func (s *Service) Clear(ctx context.Context, sessionID string) (domain.Cart, error) {
	if err := validateSession(sessionID); err != nil {
		return domain.Cart{}, err
	}
	return s.store(sessionID).Clear(ctx), nil
}

// EndSession discards the session's cart.
func (s *Service) EndSession(_ context.Context, sessionID string) error {
	if err := validateSession(sessionID); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// ReapIdle ends every session untouched for longer than idle and returns their IDs.
func (s *Service) ReapIdle(_ context.Context, idle time.Duration) []string {
	cutoff := s.now().Add(-idle)
	s.mu.Lock()
	defer s.mu.Unlock()
	var ended []string
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			ended = append(ended, id)
		}
	}
	return ended
}

// Sessions returns the number of live shopping sessions.
func (s *Service) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Service) store(sessionID string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{store: NewStore(WithStoreLogger(s.logger.With(slog.String("session.id", sessionID))))}
		s.sessions[sessionID] = sess
	}
	sess.lastSeen = s.now()
	return sess.store
}

var _ ports.Service = (*Service)(nil)
