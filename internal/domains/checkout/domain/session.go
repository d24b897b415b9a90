package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	cartdomain "github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
)

// SessionRequest is the payload sent to the payment collaborator. It is a
// snapshot: mutating the cart afterwards does not change it.
type SessionRequest struct {
	AttemptID string
	Items     []cartdomain.Item
	Total     decimal.Decimal
}

// NewSessionRequest snapshots the cart. Empty carts are passed through as is.
func NewSessionRequest(attemptID string, cart cartdomain.Cart) SessionRequest {
	return SessionRequest{
		AttemptID: attemptID,
		Items:     cart.Items(),
		Total:     cart.Total(),
	}
}

// SessionError is the error descriptor a payment collaborator returns in place
// of a session.
type SessionError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func (e SessionError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "payment session was not created"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	return msg
}

// SessionResult carries either a session ID or an error, never both. Build it
// with SessionCreated or SessionRejected.
type SessionResult struct {
	SessionID string        `json:"sessionId,omitempty"`
	Error     *SessionError `json:"error,omitempty"`
}

func SessionCreated(id string) SessionResult {
	return SessionResult{SessionID: id}
}

func SessionRejected(err SessionError) SessionResult {
	return SessionResult{Error: &err}
}

// Failure reports why the result is unusable. A result without an error but
// also without a session ID still counts as a failure.
func (r SessionResult) Failure() (SessionError, bool) {
	if r.Error != nil {
		return *r.Error, true
	}
	if strings.TrimSpace(r.SessionID) == "" {
		return SessionError{Message: "payment session response carried no session id"}, true
	}
	return SessionError{}, false
}

// RedirectError describes why the hosted payment page could not be reached.
type RedirectError struct {
	Message string `json:"message"`
}

// RedirectResult is what the redirect mechanism returns. Error is optional.
type RedirectResult struct {
	URL   string
	Error *RedirectError
}

func Redirected(url string) RedirectResult {
	return RedirectResult{URL: url}
}

func RedirectFailed(message string) RedirectResult {
	return RedirectResult{Error: &RedirectError{Message: message}}
}

// Failure reports the redirect error message. It never dereferences a missing
// error: a result with neither error nor URL fails with a generic message.
func (r RedirectResult) Failure() (string, bool) {
	if r.Error != nil {
		msg := strings.TrimSpace(r.Error.Message)
		if msg == "" {
			msg = "redirect to payment page failed"
		}
		return msg, true
	}
	if strings.TrimSpace(r.URL) == "" {
		return "redirect produced no destination", true
	}
	return "", false
}

// Handoff is the successful outcome of a checkout attempt.
type Handoff struct {
	AttemptID        string
	PaymentSessionID string
	RedirectURL      string
}
