package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

var _ ports.EventPublisher = (*Publisher)(nil)

const publishTimeout = 3 * time.Second

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher emits checkout events to the storefront topic exchange.
type Publisher struct {
	ch  channel
	now func() time.Time
}

// NewPublisher opens a channel and declares the exchange so publishing never
// fails on missing infrastructure.
func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare %s: %w", EventsExchange, err)
	}
	return newPublisher(ch), nil
}

func newPublisher(ch channel) *Publisher {
	return &Publisher{ch: ch, now: time.Now}
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishCheckoutHandedOff(ctx context.Context, attempt *domain.Attempt) error {
	occurredAt := p.now()
	if attempt != nil && attempt.FinishedAt != nil {
		occurredAt = *attempt.FinishedAt
	}
	envelope, err := newCheckoutHandedOffEnvelope(attempt, occurredAt)
	if err != nil {
		return err
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", CheckoutHandedOffEventName, err)
	}
	return p.publishJSON(ctx, CheckoutHandedOffRoutingKey, envelope.EventID, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey, messageID string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Timestamp:    p.now().UTC(),
			Body:         body,
		},
	)
}
