package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/gfduarte/funil-crm/internal/entity"
)

// LeadEvent é publicado depois de cada mutação bem-sucedida pra
// automações externas (ex.: disparo de follow-up). Publicar é melhor
// esforço: falha aqui nunca derruba a mutação.
type LeadEvent struct {
	Type       string       `json:"type"` // created, stage_moved, updated, removed
	LeadID     string       `json:"lead_id"`
	Stage      entity.Stage `json:"stage,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

type RabbitMQProducer struct {
	Ch *amqp.Channel
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishLeadEvent(ctx context.Context, event LeadEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("erro ao converter evento: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}
