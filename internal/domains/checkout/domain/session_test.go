package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
)

func TestNewSessionRequest_IsASnapshot(t *testing.T) {
	item, err := cartdomain.NewItem("A", "A", decimal.NewFromInt(10), nil)
	require.NoError(t, err)
	cart := cartdomain.Empty().Add(item)

	req := NewSessionRequest("attempt-1", cart)
	cart = cart.Add(item)

	assert.Len(t, req.Items, 1)
	assert.True(t, req.Total.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 2, cart.Len())
}

func TestSessionResult_Failure(t *testing.T) {
	_, failed := SessionCreated("cs_123").Failure()
	assert.False(t, failed)

	reason, failed := SessionRejected(SessionError{StatusCode: 500, Message: "boom"}).Failure()
	assert.True(t, failed)
	assert.Equal(t, "boom (status 500)", reason.Error())

	reason, failed = SessionResult{}.Failure()
	assert.True(t, failed)
	assert.Contains(t, reason.Error(), "no session id")
}

func TestRedirectResult_FailureWithoutErrorObject(t *testing.T) {
	_, failed := Redirected("https://pay.example/cs_1").Failure()
	assert.False(t, failed)

	msg, failed := RedirectFailed("network down").Failure()
	assert.True(t, failed)
	assert.Equal(t, "network down", msg)

	msg, failed = RedirectResult{}.Failure()
	assert.True(t, failed)
	assert.Equal(t, "redirect produced no destination", msg)

	msg, failed = RedirectResult{Error: &RedirectError{}}.Failure()
	assert.True(t, failed)
	assert.NotEmpty(t, msg)
}

func TestAttemptLifecycle(t *testing.T) {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	item, err := cartdomain.NewItem("A", "A", decimal.NewFromInt(3), nil)
	require.NoError(t, err)
	req := NewSessionRequest("attempt-1", cartdomain.Empty().Add(item).Add(item))

	attempt := NewAttempt("session-1", req, start)
	require.Equal(t, OutcomePending, attempt.Outcome)
	assert.Equal(t, 2, attempt.ItemCount())

	attempt.SessionCreated("cs_1")
	attempt.HandedOff("https://pay.example/cs_1", start.Add(time.Second))

	assert.Equal(t, OutcomeHandedOff, attempt.Outcome)
	require.NotNil(t, attempt.FinishedAt)

	clone := attempt.Clone()
	clone.ItemIDs[0] = "changed"
	assert.Equal(t, "A", attempt.ItemIDs[0])
}
