package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	cartdomain "github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

// ErrSessionRequired is returned when no shopping session identifies the checkout.
var ErrSessionRequired = errors.New("shopping session id is required")

// Service keeps one Orchestrator per shopping session.
type Service struct {
	mu            sync.Mutex
	orchestrators map[string]*Orchestrator

	sessions   ports.PaymentSessions
	redirector ports.Redirector
	attempts   ports.AttemptRepository
	publisher  ports.EventPublisher
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
	observer   func(sessionID string, status domain.Status)
}

// Option configures optional dependencies for the checkout service.
type Option func(*Service)

// WithAttemptRepository records every attempt in the given repository.
func WithAttemptRepository(repo ports.AttemptRepository) Option {
	return func(s *Service) {
		s.attempts = repo
	}
}

// WithPublisher announces successful handoffs.
func WithPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.publisher = publisher
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides attempt ID generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithObserver is called on every state transition of every session.
func WithObserver(observer func(sessionID string, status domain.Status)) Option {
	return func(s *Service) {
		s.observer = observer
	}
}

func NewService(sessions ports.PaymentSessions, redirector ports.Redirector, opts ...Option) *Service {
	s := &Service{
		orchestrators: map[string]*Orchestrator{},
		sessions:      sessions,
		redirector:    redirector,
		publisher:     ports.NoopPublisher{},
		logger:        slog.New(slog.DiscardHandler),
		now:           time.Now,
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) Checkout(ctx context.Context, sessionID string, cart cartdomain.Cart) (*domain.Handoff, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionRequired
	}
	return s.orchestrator(sessionID).Checkout(ctx, cart)
}

func (s *Service) Status(_ context.Context, sessionID string) domain.Status {
	s.mu.Lock()
	o, ok := s.orchestrators[sessionID]
	s.mu.Unlock()
	if !ok {
		return domain.IdleStatus()
	}
	return o.Status()
}

func (s *Service) Attempts(ctx context.Context, sessionID string) ([]*domain.Attempt, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionRequired
	}
	if s.attempts == nil {
		return []*domain.Attempt{}, nil
	}
	return s.attempts.ListBySession(ctx, sessionID)
}

// Forget drops the session's orchestrator and reports whether it did. A
// session whose checkout is still loading is kept so its re-entry guard holds.
func (s *Service) Forget(_ context.Context, sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orchestrators[sessionID]
	if !ok {
		return true
	}
	if o.Status().Loading {
		return false
	}
	delete(s.orchestrators, sessionID)
	return true
}

func (s *Service) orchestrator(sessionID string) *Orchestrator {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orchestrators[sessionID]; ok {
		return o
	}
	o := &Orchestrator{
		status:     domain.IdleStatus(),
		sessionID:  sessionID,
		sessions:   s.sessions,
		redirector: s.redirector,
		attempts:   s.attempts,
		publisher:  s.publisher,
		logger:     s.logger.With(slog.String("session.id", sessionID)),
		now:        s.now,
		newID:      s.newID,
		observer:   s.observer,
	}
	s.orchestrators[sessionID] = o
	return o
}

var _ ports.Service = (*Service)(nil)
