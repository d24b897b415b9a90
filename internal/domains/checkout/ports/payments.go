package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
)

// PaymentSessions creates hosted checkout sessions with the payment collaborator.
// A returned error means the call itself failed; a rejected session is reported
// through the result.
type PaymentSessions interface {
	CreateSession(ctx context.Context, req domain.SessionRequest) (domain.SessionResult, error)
}

// Redirector hands the customer off to the hosted payment page for a session.
// Failures come back in the result, never as a panic.
type Redirector interface {
	Redirect(ctx context.Context, paymentSessionID string) domain.RedirectResult
}
