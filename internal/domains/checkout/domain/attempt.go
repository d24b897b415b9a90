package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Outcome is the terminal result of a checkout attempt.
type Outcome string

const (
	OutcomePending   Outcome = "pending"
	OutcomeHandedOff Outcome = "handed_off"
	OutcomeFailed    Outcome = "failed"
)

// FailureKind identifies which step of the handoff failed.
type FailureKind string

const (
	FailureNone            FailureKind = ""
	FailureSessionCreation FailureKind = "session_creation"
	FailureRedirect        FailureKind = "redirect"
)

// Attempt records one checkout handoff for a shopping session. It is an audit
// record; the cart itself is never persisted.
type Attempt struct {
	ID               string
	SessionID        string
	PaymentSessionID string
	Outcome          Outcome
	FailureKind      FailureKind
	FailureMessage   string
	ItemIDs          []string
	Total            decimal.Decimal
	RedirectURL      string
	StartedAt        time.Time
	FinishedAt       *time.Time
}

// NewAttempt opens a pending attempt for the given request.
func NewAttempt(sessionID string, req SessionRequest, startedAt time.Time) *Attempt {
	ids := make([]string, len(req.Items))
	for i, item := range req.Items {
		ids[i] = item.ID
	}
	return &Attempt{
		ID:        req.AttemptID,
		SessionID: sessionID,
		Outcome:   OutcomePending,
		ItemIDs:   ids,
		Total:     req.Total,
		StartedAt: startedAt,
	}
}

func (a *Attempt) SessionCreated(paymentSessionID string) {
	a.PaymentSessionID = paymentSessionID
}

func (a *Attempt) HandedOff(redirectURL string, at time.Time) {
	a.Outcome = OutcomeHandedOff
	a.RedirectURL = redirectURL
	a.FailureKind = FailureNone
	a.FailureMessage = ""
	a.finish(at)
}

func (a *Attempt) Failed(kind FailureKind, message string, at time.Time) {
	a.Outcome = OutcomeFailed
	a.FailureKind = kind
	a.FailureMessage = message
	a.finish(at)
}

func (a *Attempt) ItemCount() int {
	return len(a.ItemIDs)
}

// Clone returns a deep copy.
func (a *Attempt) Clone() *Attempt {
	if a == nil {
		return nil
	}
	clone := *a
	clone.ItemIDs = append([]string(nil), a.ItemIDs...)
	if a.FinishedAt != nil {
		finished := *a.FinishedAt
		clone.FinishedAt = &finished
	}
	return &clone
}

func (a *Attempt) finish(at time.Time) {
	at = at.UTC()
	a.FinishedAt = &at
}
