package mapper

import (
	"time"

	checkoutdomain "github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
)

// Handoff tells the client where to send the shopper.
type Handoff struct {
	AttemptID   string `json:"attemptId"`
	SessionID   string `json:"sessionId"`
	RedirectURL string `json:"redirectUrl"`
}

type Status struct {
	State   string `json:"state"`
	Loading bool   `json:"loading"`
}

type Attempt struct {
	ID               string     `json:"id"`
	Outcome          string     `json:"outcome"`
	FailureKind      string     `json:"failureKind,omitempty"`
	FailureMessage   string     `json:"failureMessage,omitempty"`
	PaymentSessionID string     `json:"paymentSessionId,omitempty"`
	RedirectURL      string     `json:"redirectUrl,omitempty"`
	ItemCount        int        `json:"itemCount"`
	Total            string     `json:"total"`
	StartedAt        time.Time  `json:"startedAt"`
	FinishedAt       *time.Time `json:"finishedAt,omitempty"`
}

func FromHandoff(h *checkoutdomain.Handoff) Handoff {
	if h == nil {
		return Handoff{}
	}
	return Handoff{
		AttemptID:   h.AttemptID,
		SessionID:   h.PaymentSessionID,
		RedirectURL: h.RedirectURL,
	}
}

func FromStatus(s checkoutdomain.Status) Status {
	return Status{State: s.State.String(), Loading: s.Loading}
}

// FromAttempts renders the attempt history, preserving order.
func FromAttempts(list []*checkoutdomain.Attempt) []Attempt {
	out := make([]Attempt, 0, len(list))
	for _, a := range list {
		if a == nil {
			continue
		}
		out = append(out, Attempt{
			ID:               a.ID,
			Outcome:          string(a.Outcome),
			FailureKind:      string(a.FailureKind),
			FailureMessage:   a.FailureMessage,
			PaymentSessionID: a.PaymentSessionID,
			RedirectURL:      a.RedirectURL,
			ItemCount:        a.ItemCount(),
			Total:            a.Total.StringFixed(2),
			StartedAt:        a.StartedAt,
			FinishedAt:       a.FinishedAt,
		})
	}
	return out
}
