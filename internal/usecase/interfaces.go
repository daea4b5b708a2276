package usecase

import (
	"context"

	"github.com/gfduarte/funil-crm/internal/infra/queue"
)

// EventProducer publica eventos de lead pra automações externas.
type EventProducer interface {
	PublishLeadEvent(ctx context.Context, event queue.LeadEvent) error
}

// AlertService notifica a operação quando todas as camadas de
// persistência falharam.
type AlertService interface {
	SendTierFailureAlert(operation string, cause error) error
}
