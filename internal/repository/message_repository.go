package repository

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gfduarte/funil-crm/internal/entity"
	"github.com/gfduarte/funil-crm/internal/infra/http/middleware"
	"github.com/gfduarte/funil-crm/internal/infra/storage"
)

// MessageRepository segue a mesma disciplina de fallback do
// LeadRepository sobre o mapa nicho -> mensagem. Ordem canônica das
// camadas: API primária, backend na nuvem, armazenamento local.
type MessageRepository struct {
	backends []storage.MessageBackend
	log      *logrus.Entry
}

func NewMessageRepository(backends ...storage.MessageBackend) *MessageRepository {
	return &MessageRepository{
		backends: backends,
		log:      logrus.WithField("repo", "messages"),
	}
}

func (r *MessageRepository) resolve(ctx context.Context, op string, fn func(storage.MessageBackend) error) error {
	var lastErr error
	for _, backend := range r.backends {
		err := fn(backend)
		if err == nil {
			return nil
		}
		r.log.WithError(err).WithFields(logrus.Fields{
			"tier": backend.Name(),
			"op":   op,
		}).Warn("camada de persistência falhou, tentando a próxima")
		middleware.RecordTierFallback("messages", backend.Name())
		lastErr = err
	}
	middleware.RecordAllTiersFailed("messages")
	if lastErr != nil {
		return fmt.Errorf("%w: %v", entity.ErrAllTiersFailed, lastErr)
	}
	return entity.ErrAllTiersFailed
}

// GetAll devolve o mapa completo. Nichos sem template ficam de fora;
// quem consome usa entity.ResolveMessage pra ter o default "".
func (r *MessageRepository) GetAll(ctx context.Context) (entity.MessageMap, error) {
	var m entity.MessageMap
	err := r.resolve(ctx, "get_all", func(b storage.MessageBackend) error {
		var err error
		m, err = b.Fetch(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = entity.MessageMap{}
	}
	return m, nil
}

// Save faz upsert do template do nicho na primeira camada que aceitar.
// Salvar o mesmo texto duas vezes não muda nada depois da primeira.
func (r *MessageRepository) Save(ctx context.Context, niche entity.Niche, text string) error {
	if !entity.IsValidNiche(niche) {
		return fmt.Errorf("%w: %q", entity.ErrInvalidNiche, niche)
	}

	return r.resolve(ctx, "save", func(b storage.MessageBackend) error {
		return b.Upsert(ctx, niche, text)
	})
}
