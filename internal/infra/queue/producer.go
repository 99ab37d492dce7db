package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/residence-leads/internal/entity"
)

// LeadCreatedEvent is the message body on RoutingKey.
type LeadCreatedEvent struct {
	LeadID     string       `json:"lead_id"`
	Lead       *entity.Lead `json:"lead"`
	OccurredAt time.Time    `json:"occurred_at"`
}

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type LeadEventProducer struct {
	Ch publisher
}

func NewProducer(ch publisher) *LeadEventProducer {
	return &LeadEventProducer{Ch: ch}
}

// NotifyLeadCreated publishes a persistent lead.created message.
func (p *LeadEventProducer) NotifyLeadCreated(ctx context.Context, lead *entity.Lead) error {
	body, err := json.Marshal(LeadCreatedEvent{
		LeadID:     lead.ID,
		Lead:       lead,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal lead event: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    lead.ID,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish lead event: %w", err)
	}
	return nil
}
