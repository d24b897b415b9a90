package rabbitmq

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
)

const (
	EventsExchange              = "storefront.events"
	CheckoutHandedOffRoutingKey = "checkout.handedoff.v1"
	CheckoutHandedOffEventName  = "CheckoutHandedOff"
	CheckoutHandedOffVersion    = 1
	checkoutHandedOffSchema     = "storefront.checkout.handedoff.v1"
	producerName                = "storefront-api"
)

// EventEnvelope wraps every event published on the storefront exchange.
type EventEnvelope[T any] struct {
	EventName    string    `json:"eventName"`
	EventVersion int       `json:"eventVersion"`
	EventID      string    `json:"eventId"`
	Producer     string    `json:"producer"`
	PartitionKey string    `json:"partitionKey"`
	OccurredAt   time.Time `json:"occurredAt"`
	Schema       string    `json:"schema"`
	Payload      T         `json:"payload"`
}

type CheckoutHandedOff struct {
	AttemptID        string   `json:"attemptId"`
	SessionID        string   `json:"sessionId"`
	PaymentSessionID string   `json:"paymentSessionId"`
	RedirectURL      string   `json:"redirectUrl"`
	ItemIDs          []string `json:"itemIds"`
	ItemCount        int      `json:"itemCount"`
	Total            string   `json:"total"`
}

func newCheckoutHandedOffEnvelope(attempt *domain.Attempt, occurredAt time.Time) (EventEnvelope[CheckoutHandedOff], error) {
	if attempt == nil {
		return EventEnvelope[CheckoutHandedOff]{}, errors.New("attempt is required")
	}
	ids := append([]string{}, attempt.ItemIDs...)
	return EventEnvelope[CheckoutHandedOff]{
		EventName:    CheckoutHandedOffEventName,
		EventVersion: CheckoutHandedOffVersion,
		EventID:      uuid.NewString(),
		Producer:     producerName,
		PartitionKey: attempt.SessionID,
		OccurredAt:   occurredAt.UTC(),
		Schema:       checkoutHandedOffSchema,
		Payload: CheckoutHandedOff{
			AttemptID:        attempt.ID,
			SessionID:        attempt.SessionID,
			PaymentSessionID: attempt.PaymentSessionID,
			RedirectURL:      attempt.RedirectURL,
			ItemIDs:          ids,
			ItemCount:        attempt.ItemCount(),
			Total:            attempt.Total.StringFixed(2),
		},
	}, nil
}
