package storage

import (
	"context"

	"github.com/gfduarte/funil-crm/internal/entity"
)

// LeadBackend é uma camada de persistência de leads. Os repositórios
// recebem uma lista ordenada por prioridade e tentam cada uma até a
// primeira que responde.
type LeadBackend interface {
	Name() string
	List(ctx context.Context) ([]entity.Lead, error)
	Get(ctx context.Context, id string) (*entity.Lead, error)
	Insert(ctx context.Context, lead entity.Lead) (*entity.Lead, error)
	Update(ctx context.Context, lead entity.Lead) error
	// Delete devolve se algum registro foi de fato removido; apagar um
	// id inexistente não é erro. Camadas remotas com delete idempotente
	// podem devolver true em qualquer chamada bem-sucedida.
	Delete(ctx context.Context, id string) (bool, error)
}

// MessageBackend é uma camada de persistência do mapa nicho -> mensagem.
type MessageBackend interface {
	Name() string
	Fetch(ctx context.Context) (entity.MessageMap, error)
	Upsert(ctx context.Context, niche entity.Niche, text string) error
}
