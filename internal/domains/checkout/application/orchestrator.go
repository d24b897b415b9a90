package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	cartdomain "github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

// Orchestrator drives the checkout handoff for one shopping session:
// Idle -> Requesting -> Redirecting -> Idle, with any failure passing through
// Failed before returning to Idle. Loading is cleared on every exit path.
type Orchestrator struct {
	mu        sync.Mutex
	status    domain.Status
	sessionID string

	sessions   ports.PaymentSessions
	redirector ports.Redirector
	attempts   ports.AttemptRepository
	publisher  ports.EventPublisher
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
	observer   func(sessionID string, status domain.Status)
}

// Status returns the current observable state.
func (o *Orchestrator) Status() domain.Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Checkout performs exactly one session request and, on success, exactly one
// redirect. It rejects re-entry while a previous attempt is still loading.
func (o *Orchestrator) Checkout(ctx context.Context, cart cartdomain.Cart) (*domain.Handoff, error) {
	if !o.begin() {
		return nil, domain.ErrCheckoutInProgress
	}
	defer o.settle()

	// The handoff runs to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	req := domain.NewSessionRequest(o.newID(), cart)
	attempt := domain.NewAttempt(o.sessionID, req, o.now())
	o.record(ctx, attempt)

	result, err := o.sessions.CreateSession(ctx, req)
	if err != nil {
		return nil, o.fail(ctx, attempt, domain.FailureSessionCreation, err.Error(),
			fmt.Errorf("%w: %w", domain.ErrSessionCreationFailed, err))
	}
	if reason, failed := result.Failure(); failed {
		return nil, o.fail(ctx, attempt, domain.FailureSessionCreation, reason.Error(),
			fmt.Errorf("%w: %w", domain.ErrSessionCreationFailed, reason))
	}
	attempt.SessionCreated(result.SessionID)
	o.transition(domain.StateRedirecting)

	redirect := o.redirector.Redirect(ctx, result.SessionID)
	if msg, failed := redirect.Failure(); failed {
		return nil, o.fail(ctx, attempt, domain.FailureRedirect, msg,
			fmt.Errorf("%w: %s", domain.ErrRedirectFailed, msg))
	}

	attempt.HandedOff(redirect.URL, o.now())
	o.record(ctx, attempt)
	if err := o.publisher.PublishCheckoutHandedOff(ctx, attempt); err != nil {
		o.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish checkout handoff",
			slog.String("attempt.id", attempt.ID), slog.String("error", err.Error()))
	}
	return &domain.Handoff{
		AttemptID:        attempt.ID,
		PaymentSessionID: result.SessionID,
		RedirectURL:      redirect.URL,
	}, nil
}

func (o *Orchestrator) begin() bool {
	o.mu.Lock()
	if o.status.Loading {
		o.mu.Unlock()
		return false
	}
	o.status = domain.Status{State: domain.StateRequesting, Loading: true}
	status := o.status
	o.mu.Unlock()
	o.notify(status)
	return true
}

func (o *Orchestrator) transition(state domain.State) {
	o.mu.Lock()
	o.status.State = state
	status := o.status
	o.mu.Unlock()
	o.notify(status)
}

func (o *Orchestrator) settle() {
	o.mu.Lock()
	o.status = domain.IdleStatus()
	status := o.status
	o.mu.Unlock()
	o.notify(status)
}

func (o *Orchestrator) fail(ctx context.Context, attempt *domain.Attempt, kind domain.FailureKind, message string, err error) error {
	o.transition(domain.StateFailed)
	o.logger.LogAttrs(ctx, slog.LevelError, "checkout failed",
		slog.String("attempt.id", attempt.ID),
		slog.String("failure.kind", string(kind)),
		slog.String("error", message))
	attempt.Failed(kind, message, o.now())
	o.record(ctx, attempt)
	return err
}

func (o *Orchestrator) record(ctx context.Context, attempt *domain.Attempt) {
	if o.attempts == nil {
		return
	}
	if err := o.attempts.Save(ctx, attempt.Clone()); err != nil {
		o.logger.LogAttrs(ctx, slog.LevelWarn, "failed to record checkout attempt",
			slog.String("attempt.id", attempt.ID), slog.String("error", err.Error()))
	}
}

func (o *Orchestrator) notify(status domain.Status) {
	if o.observer != nil {
		o.observer(o.sessionID, status)
	}
}
