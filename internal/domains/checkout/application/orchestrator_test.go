package application

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

type fakeSessions struct {
	mu       sync.Mutex
	calls    int
	requests []domain.SessionRequest
	result   domain.SessionResult
	err      error
	onCall   func()
}

func (f *fakeSessions) CreateSession(_ context.Context, req domain.SessionRequest) (domain.SessionResult, error) {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, req)
	onCall := f.onCall
	f.mu.Unlock()
	if onCall != nil {
		onCall()
	}
	return f.result, f.err
}

type fakeRedirector struct {
	mu     sync.Mutex
	calls  int
	ids    []string
	result domain.RedirectResult
	panic  bool
}

func (f *fakeRedirector) Redirect(_ context.Context, id string) domain.RedirectResult {
	f.mu.Lock()
	f.calls++
	f.ids = append(f.ids, id)
	f.mu.Unlock()
	if f.panic {
		panic("redirect exploded")
	}
	return f.result
}

type fakeAttempts struct {
	mu       sync.Mutex
	attempts map[string]*domain.Attempt
}

func newFakeAttempts() *fakeAttempts {
	return &fakeAttempts{attempts: map[string]*domain.Attempt{}}
}

func (f *fakeAttempts) Save(_ context.Context, attempt *domain.Attempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[attempt.ID] = attempt.Clone()
	return nil
}

func (f *fakeAttempts) GetByID(_ context.Context, id string) (*domain.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.attempts[id]; ok {
		return a.Clone(), nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeAttempts) ListBySession(_ context.Context, sessionID string) ([]*domain.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*domain.Attempt
	for _, a := range f.attempts {
		if a.SessionID == sessionID {
			list = append(list, a.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StartedAt.After(list[j].StartedAt) })
	return list, nil
}

func (f *fakeAttempts) PurgeBefore(_ context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type fakePublisher struct {
	published []*domain.Attempt
	err       error
}

func (f *fakePublisher) PublishCheckoutHandedOff(_ context.Context, attempt *domain.Attempt) error {
	f.published = append(f.published, attempt.Clone())
	return f.err
}

type statusRecorder struct {
	mu       sync.Mutex
	statuses []domain.Status
}

func (r *statusRecorder) observe(_ string, status domain.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func (r *statusRecorder) states() []domain.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.State, len(r.statuses))
	for i, s := range r.statuses {
		out[i] = s.State
	}
	return out
}

func sampleCart(t *testing.T) cartdomain.Cart {
	t.Helper()
	a, err := cartdomain.NewItem("A", "Item A", decimal.RequireFromString("10.00"), nil)
	require.NoError(t, err)
	b, err := cartdomain.NewItem("B", "Item B", decimal.RequireFromString("2.50"), nil)
	require.NoError(t, err)
	return cartdomain.Empty().Add(a).Add(a).Add(b)
}

type harness struct {
	svc        *Service
	sessions   *fakeSessions
	redirector *fakeRedirector
	attempts   *fakeAttempts
	publisher  *fakePublisher
	recorder   *statusRecorder
}

func newHarness() *harness {
	h := &harness{
		sessions:   &fakeSessions{result: domain.SessionCreated("cs_test_1")},
		redirector: &fakeRedirector{result: domain.Redirected("https://pay.example/cs_test_1")},
		attempts:   newFakeAttempts(),
		publisher:  &fakePublisher{},
		recorder:   &statusRecorder{},
	}
	h.svc = NewService(h.sessions, h.redirector,
		WithAttemptRepository(h.attempts),
		WithPublisher(h.publisher),
		WithObserver(h.recorder.observe),
		WithIDGenerator(func() string { return "attempt-1" }),
	)
	return h
}

func TestCheckout_SuccessRedirectsOnceWithSessionID(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	var loadingDuringRequest bool
	h.sessions.onCall = func() {
		loadingDuringRequest = h.svc.Status(ctx, "s1").Loading
	}

	handoff, err := h.svc.Checkout(ctx, "s1", sampleCart(t))

	require.NoError(t, err)
	assert.True(t, loadingDuringRequest)
	assert.Equal(t, 1, h.sessions.calls)
	assert.Equal(t, 1, h.redirector.calls)
	assert.Equal(t, []string{"cs_test_1"}, h.redirector.ids)
	assert.Equal(t, "attempt-1", handoff.AttemptID)
	assert.Equal(t, "cs_test_1", handoff.PaymentSessionID)
	assert.Equal(t, "https://pay.example/cs_test_1", handoff.RedirectURL)
	assert.False(t, h.svc.Status(ctx, "s1").Loading)
	assert.Equal(t,
		[]domain.State{domain.StateRequesting, domain.StateRedirecting, domain.StateIdle},
		h.recorder.states())

	attempt, err := h.attempts.GetByID(ctx, "attempt-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeHandedOff, attempt.Outcome)
	assert.Equal(t, []string{"A", "A", "B"}, attempt.ItemIDs)
	assert.True(t, attempt.Total.Equal(decimal.RequireFromString("22.50")))
	require.Len(t, h.publisher.published, 1)
}

func TestCheckout_RequestCarriesCartSnapshot(t *testing.T) {
	h := newHarness()
	cart := sampleCart(t)

	_, err := h.svc.Checkout(context.Background(), "s1", cart)
	require.NoError(t, err)

	require.Len(t, h.sessions.requests, 1)
	req := h.sessions.requests[0]
	assert.Equal(t, "attempt-1", req.AttemptID)
	assert.Len(t, req.Items, 3)
	assert.True(t, req.Total.Equal(cart.Total()))
}

func TestCheckout_ServerErrorSkipsRedirect(t *testing.T) {
	h := newHarness()
	h.sessions.result = domain.SessionRejected(domain.SessionError{StatusCode: 500, Message: "stripe unavailable"})
	ctx := context.Background()

	handoff, err := h.svc.Checkout(ctx, "s1", sampleCart(t))

	require.Nil(t, handoff)
	require.ErrorIs(t, err, domain.ErrSessionCreationFailed)
	assert.Contains(t, err.Error(), "stripe unavailable")
	assert.Equal(t, 0, h.redirector.calls)
	assert.False(t, h.svc.Status(ctx, "s1").Loading)
	assert.Equal(t,
		[]domain.State{domain.StateRequesting, domain.StateFailed, domain.StateIdle},
		h.recorder.states())

	attempt, err := h.attempts.GetByID(ctx, "attempt-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeFailed, attempt.Outcome)
	assert.Equal(t, domain.FailureSessionCreation, attempt.FailureKind)
	assert.Empty(t, h.publisher.published)
}

func TestCheckout_TransportErrorSkipsRedirect(t *testing.T) {
	h := newHarness()
	h.sessions.err = errors.New("connection refused")

	_, err := h.svc.Checkout(context.Background(), "s1", sampleCart(t))

	require.ErrorIs(t, err, domain.ErrSessionCreationFailed)
	assert.Equal(t, 0, h.redirector.calls)
	assert.False(t, h.svc.Status(context.Background(), "s1").Loading)
}

func TestCheckout_MissingSessionIDIsFailure(t *testing.T) {
	h := newHarness()
	h.sessions.result = domain.SessionResult{}

	_, err := h.svc.Checkout(context.Background(), "s1", sampleCart(t))

	require.ErrorIs(t, err, domain.ErrSessionCreationFailed)
	assert.Equal(t, 0, h.redirector.calls)
}

func TestCheckout_RedirectErrorIsReported(t *testing.T) {
	h := newHarness()
	h.redirector.result = domain.RedirectFailed("blocked by browser")
	ctx := context.Background()

	_, err := h.svc.Checkout(ctx, "s1", sampleCart(t))

	require.ErrorIs(t, err, domain.ErrRedirectFailed)
	assert.Contains(t, err.Error(), "blocked by browser")
	assert.Equal(t, 1, h.redirector.calls)
	assert.False(t, h.svc.Status(ctx, "s1").Loading)

	attempt, err := h.attempts.GetByID(ctx, "attempt-1")
	require.NoError(t, err)
	assert.Equal(t, domain.FailureRedirect, attempt.FailureKind)
	assert.Equal(t, "cs_test_1", attempt.PaymentSessionID)
}

func TestCheckout_RedirectWithoutErrorObject(t *testing.T) {
	h := newHarness()
	h.redirector.result = domain.RedirectResult{}

	_, err := h.svc.Checkout(context.Background(), "s1", sampleCart(t))

	require.ErrorIs(t, err, domain.ErrRedirectFailed)
	assert.False(t, h.svc.Status(context.Background(), "s1").Loading)
}

func TestCheckout_RejectsReentryWhileLoading(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	entered := make(chan struct{})
	release := make(chan struct{})
	var first atomic.Bool
	h.sessions.onCall = func() {
		if first.CompareAndSwap(false, true) {
			close(entered)
			<-release
		}
	}

	done := make(chan error, 1)
	go func() {
		_, err := h.svc.Checkout(ctx, "s1", sampleCart(t))
		done <- err
	}()
	<-entered

	_, err := h.svc.Checkout(ctx, "s1", sampleCart(t))
	require.ErrorIs(t, err, domain.ErrCheckoutInProgress)

	_, err = h.svc.Checkout(ctx, "s2", cartdomain.Empty())
	require.NotErrorIs(t, err, domain.ErrCheckoutInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, h.svc.Status(ctx, "s1").Loading)
	assert.Equal(t, 2, h.sessions.calls)
}

func TestCheckout_PanickingCollaboratorStillClearsLoading(t *testing.T) {
	h := newHarness()
	h.redirector.panic = true
	ctx := context.Background()

	require.Panics(t, func() {
		_, _ = h.svc.Checkout(ctx, "s1", sampleCart(t))
	})

	assert.Equal(t, domain.IdleStatus(), h.svc.Status(ctx, "s1"))
}

func TestCheckout_EmptyCartIsForwarded(t *testing.T) {
	h := newHarness()
	h.sessions.result = domain.SessionRejected(domain.SessionError{StatusCode: 500, Message: "no line items"})

	_, err := h.svc.Checkout(context.Background(), "s1", cartdomain.Empty())

	require.ErrorIs(t, err, domain.ErrSessionCreationFailed)
	require.Len(t, h.sessions.requests, 1)
	assert.Empty(t, h.sessions.requests[0].Items)
}

func TestCheckout_PublisherFailureDoesNotFailHandoff(t *testing.T) {
	h := newHarness()
	h.publisher.err = errors.New("broker down")

	handoff, err := h.svc.Checkout(context.Background(), "s1", sampleCart(t))

	require.NoError(t, err)
	assert.NotNil(t, handoff)
}

func TestCheckout_CanRetryAfterFailure(t *testing.T) {
	h := newHarness()
	h.sessions.err = errors.New("timeout")
	ctx := context.Background()

	_, err := h.svc.Checkout(ctx, "s1", sampleCart(t))
	require.Error(t, err)

	h.sessions.err = nil
	_, err = h.svc.Checkout(ctx, "s1", sampleCart(t))
	require.NoError(t, err)
	assert.Equal(t, 2, h.sessions.calls)
}

func TestService_RequiresSession(t *testing.T) {
	h := newHarness()
	_, err := h.svc.Checkout(context.Background(), " ", sampleCart(t))
	require.ErrorIs(t, err, ErrSessionRequired)

	_, err = h.svc.Attempts(context.Background(), "")
	require.ErrorIs(t, err, ErrSessionRequired)
}

func TestService_ForgetResetsStatus(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	_, err := h.svc.Checkout(ctx, "s1", sampleCart(t))
	require.NoError(t, err)

	assert.True(t, h.svc.Forget(ctx, "s1"))

	assert.Equal(t, domain.IdleStatus(), h.svc.Status(ctx, "s1"))
	attempts, err := h.svc.Attempts(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, attempts, 1)
}

func TestService_ForgetKeepsInFlightCheckout(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	entered := make(chan struct{})
	release := make(chan struct{})
	var first atomic.Bool
	h.sessions.onCall = func() {
		if first.CompareAndSwap(false, true) {
			close(entered)
			<-release
		}
	}

	done := make(chan error, 1)
	go func() {
		_, err := h.svc.Checkout(ctx, "s1", sampleCart(t))
		done <- err
	}()
	<-entered

	assert.False(t, h.svc.Forget(ctx, "s1"))
	assert.True(t, h.svc.Status(ctx, "s1").Loading)
	_, err := h.svc.Checkout(ctx, "s1", sampleCart(t))
	require.ErrorIs(t, err, domain.ErrCheckoutInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.True(t, h.svc.Forget(ctx, "s1"))
	assert.Equal(t, domain.IdleStatus(), h.svc.Status(ctx, "s1"))
	assert.Equal(t, 1, h.sessions.calls)
}

func TestService_ForgetUnknownSession(t *testing.T) {
	h := newHarness()

	assert.True(t, h.svc.Forget(context.Background(), "nobody"))
}
